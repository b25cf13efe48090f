// Package diagfmt renders diagnostic bags for humans (pretty, colored,
// with source context) and for tooling (json).
package diagfmt

// ColorMode controls ANSI escapes in pretty output.
type ColorMode uint8

const (
	// ColorAuto enables color when the writer is a terminal.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color      ColorMode
	ShowSource bool // print the offending line with a caret underline
	ShowNotes  bool
	NoWarnings bool // errors only
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col next to byte offsets
	IncludeNotes     bool
	IncludeFixes     bool
	Max              int // truncate output, the bag itself is untouched
}
