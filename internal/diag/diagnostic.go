package diag

import (
	"pyrite/internal/source"
)

// Note attaches a secondary span to a diagnostic ("first declared here").
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit is a single text replacement suggested by a quick fix.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a titled set of edits a tool may apply on the user's behalf.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
