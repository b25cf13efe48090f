package ast

import "pyrite/internal/source"

// File is the parsed form of one module. Declarations arrive grouped by
// kind; cross-file resolution has not happened yet.
type File struct {
	Module  string // module path relative to the project root, e.g. "models/user"
	Span    source.Span
	Imports []*Import
	Consts  []*Const
	Funcs   []*Func
	Records []*Record
	Enums   []*Enum
}
