package ast

import "pyrite/internal/source"

// Expr is implemented by every expression node.
type Expr interface {
	Pos() source.Span
	exprNode()
}

// IntLit is an integer literal. Text holds the decimal digits without sign
// or suffix; the value is parsed during checking so 128-bit literals survive
// the trip. Suffix selects a sized type ("i8".."i128", "u8".."u128",
// "isize", "usize") or is empty for the default wide integer.
type IntLit struct {
	Span   source.Span
	Text   string
	Suffix string
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	Span  source.Span
	Value float64
	Text  string
}

// StringLit is a string literal (already unescaped by the parser).
type StringLit struct {
	Span  source.Span
	Value string
}

// BoolLit is true/false.
type BoolLit struct {
	Span  source.Span
	Value bool
}

// UnitLit is the unit value.
type UnitLit struct {
	Span source.Span
}

// Name references a binding, const, function, type or imported module.
type Name struct {
	Span  source.Span
	Ident string
}

// Unary applies a prefix operator.
type Unary struct {
	Span    source.Span
	Op      UnOp
	Operand Expr
}

// Binary applies an infix operator.
type Binary struct {
	Span  source.Span
	Op    BinOp
	Left  Expr
	Right Expr
}

// Kwarg is a keyword argument in a call or record construction.
type Kwarg struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Value    Expr
}

// Call invokes a function, method, type conversion or record constructor;
// which of those it is gets decided during checking.
type Call struct {
	Span   source.Span
	Callee Expr
	Args   []Expr
	Kwargs []*Kwarg
}

// Member accesses a field, alias or method of an object, or a member of an
// imported module.
type Member struct {
	Span     source.Span
	Object   Expr
	Name     string
	NameSpan source.Span
}

// Index subscripts a list, map or tuple.
type Index struct {
	Span   source.Span
	Object Expr
	Key    Expr
}

// TupleLit is (a, b, c).
type TupleLit struct {
	Span  source.Span
	Elems []Expr
}

// ListLit is [a, b, c].
type ListLit struct {
	Span  source.Span
	Elems []Expr
}

// SetLit is {a, b, c}.
type SetLit struct {
	Span  source.Span
	Elems []Expr
}

// MapEntry is one key/value pair of a map literal.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLit is {k: v, ...}.
type MapLit struct {
	Span    source.Span
	Entries []MapEntry
}

// ListComp is [elem for var in iter if cond]; Cond may be nil.
// The comprehension body gets its own scope frame.
type ListComp struct {
	Span    source.Span
	Elem    Expr
	Var     string
	VarSpan source.Span
	Iter    Expr
	Cond    Expr
}

func (e *IntLit) Pos() source.Span    { return e.Span }
func (e *FloatLit) Pos() source.Span  { return e.Span }
func (e *StringLit) Pos() source.Span { return e.Span }
func (e *BoolLit) Pos() source.Span   { return e.Span }
func (e *UnitLit) Pos() source.Span   { return e.Span }
func (e *Name) Pos() source.Span      { return e.Span }
func (e *Unary) Pos() source.Span     { return e.Span }
func (e *Binary) Pos() source.Span    { return e.Span }
func (e *Call) Pos() source.Span      { return e.Span }
func (e *Member) Pos() source.Span    { return e.Span }
func (e *Index) Pos() source.Span     { return e.Span }
func (e *TupleLit) Pos() source.Span  { return e.Span }
func (e *ListLit) Pos() source.Span   { return e.Span }
func (e *SetLit) Pos() source.Span    { return e.Span }
func (e *MapLit) Pos() source.Span    { return e.Span }
func (e *ListComp) Pos() source.Span  { return e.Span }

func (*IntLit) exprNode()    {}
func (*FloatLit) exprNode()  {}
func (*StringLit) exprNode() {}
func (*BoolLit) exprNode()   {}
func (*UnitLit) exprNode()   {}
func (*Name) exprNode()      {}
func (*Unary) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Call) exprNode()      {}
func (*Member) exprNode()    {}
func (*Index) exprNode()     {}
func (*TupleLit) exprNode()  {}
func (*ListLit) exprNode()   {}
func (*SetLit) exprNode()    {}
func (*MapLit) exprNode()    {}
func (*ListComp) exprNode()  {}
