package ast

import "pyrite/internal/source"

// TypeRef is a syntactic type annotation: a name with optional arguments,
// e.g. int, i32, str, List[int], Dict[str, int], Option[T], Result[T, E].
type TypeRef struct {
	Span source.Span
	Name string
	Args []*TypeRef
}

// Import brings another module's declarations into scope under a binding.
// Path is the parser's path expression: sibling-relative ("utils"),
// parent-relative ("../common/errors") or absolute from the project root
// ("/models/user"). Alias overrides the default binding name.
type Import struct {
	Span     source.Span
	Path     string
	PathSpan source.Span
	Alias    string
}

// Const is a compile-time constant declaration.
type Const struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Type     *TypeRef
	Value    Expr
}

// Param is one function parameter.
type Param struct {
	Span source.Span
	Name string
	Type *TypeRef
}

// Func declares a function or a record method.
type Func struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Params   []*Param
	Return   *TypeRef
	Body     []Stmt
}

// Field declares one record field. A field may carry an alias through at
// most one of the two syntactic forms: the field(alias=...) attribute or
// the @alias(...) decorator. The checker rejects a field using both.
type Field struct {
	Span      source.Span
	Name      string
	NameSpan  source.Span
	Type      *TypeRef
	AliasAttr string // field(alias="...") form; "" when absent
	AliasSpan source.Span
	AliasDeco string // @alias("...") form; "" when absent
	DecoSpan  source.Span
	Doc       string
	Default   Expr // nil when the field has no default
}

// Derive is one requested trait name from a @derive(...) decorator.
type Derive struct {
	Span source.Span
	Name string
}

// Record declares a structured record type (fields, methods, derives).
type Record struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Fields   []*Field
	Methods  []*Func
	Derives  []*Derive
}

// Variant is one enum case.
type Variant struct {
	Span source.Span
	Name string
}

// Enum declares a closed set of variants.
type Enum struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Variants []*Variant
	Derives  []*Derive
}
