package ast

import "pyrite/internal/source"

// Stmt is implemented by every statement node.
type Stmt interface {
	Pos() source.Span
	stmtNode()
}

// Assign is `name = value`, `let name = value` or `let mut name = value`,
// optionally with a type annotation.
type Assign struct {
	Span     source.Span
	Binding  BindingKind
	Name     string
	NameSpan source.Span
	Type     *TypeRef
	Value    Expr
}

// OpAssign is `name op= value`; it type-checks as `name = name op value`.
type OpAssign struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Op       BinOp
	Value    Expr
}

// Unpack destructures a tuple or record value into bindings.
type Unpack struct {
	Span    source.Span
	Binding BindingKind
	Pattern Pattern
	Value   Expr
}

// ExprStmt evaluates an expression for its effect.
type ExprStmt struct {
	Span source.Span
	X    Expr
}

// If is a conditional; both branches push their own scope frame.
type If struct {
	Span source.Span
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// While is a condition loop; the body pushes its own scope frame.
type While struct {
	Span source.Span
	Cond Expr
	Body []Stmt
}

// For iterates a collection; the loop variable is an immutable binding in
// the body's frame.
type For struct {
	Span    source.Span
	Var     string
	VarSpan source.Span
	Iter    Expr
	Body    []Stmt
}

// Return exits the enclosing function; Value is nil for a bare return.
type Return struct {
	Span  source.Span
	Value Expr
}

// Block is an explicit nested block with its own scope frame.
type Block struct {
	Span source.Span
	Body []Stmt
}

func (s *Assign) Pos() source.Span   { return s.Span }
func (s *OpAssign) Pos() source.Span { return s.Span }
func (s *Unpack) Pos() source.Span   { return s.Span }
func (s *ExprStmt) Pos() source.Span { return s.Span }
func (s *If) Pos() source.Span       { return s.Span }
func (s *While) Pos() source.Span    { return s.Span }
func (s *For) Pos() source.Span      { return s.Span }
func (s *Return) Pos() source.Span   { return s.Span }
func (s *Block) Pos() source.Span    { return s.Span }

func (*Assign) stmtNode()   {}
func (*OpAssign) stmtNode() {}
func (*Unpack) stmtNode()   {}
func (*ExprStmt) stmtNode() {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*For) stmtNode()      {}
func (*Return) stmtNode()   {}
func (*Block) stmtNode()    {}
