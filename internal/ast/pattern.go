package ast

import "pyrite/internal/source"

// Pattern is implemented by destructuring patterns.
type Pattern interface {
	Pos() source.Span
	patternNode()
}

// PatternName binds one element position to a local name.
type PatternName struct {
	Span source.Span
	Name string
}

// TuplePattern is `(a, b, c) = expr`.
type TuplePattern struct {
	Span  source.Span
	Names []PatternName
}

// PatternField matches one record field. Key is resolved against the
// record's canonical names first, then aliases. Binder is the local name to
// bind; empty means reuse Key.
type PatternField struct {
	Span    source.Span
	Key     string
	KeySpan source.Span
	Binder  string
}

// RecordPattern is `{key: binder, ...} = expr`, optionally naming a record
// type to match against.
type RecordPattern struct {
	Span     source.Span
	TypeName string
	TypeSpan source.Span
	Fields   []*PatternField
}

func (p *TuplePattern) Pos() source.Span  { return p.Span }
func (p *RecordPattern) Pos() source.Span { return p.Span }

func (*TuplePattern) patternNode()  {}
func (*RecordPattern) patternNode() {}
