package ast

// BinOp enumerates binary operators of the surface language.
type BinOp uint8

const (
	OpInvalid BinOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv      // true division: always floats
	OpFloorDiv // //: floors toward negative infinity
	OpMod      // remainder sign follows the divisor
	OpPow      // **
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	case OpPow:
		return "**"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	}
	return "?"
}

// IsComparison reports whether the operator yields bool.
func (op BinOp) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

// IsArithmetic reports whether the operator is subject to numeric policy.
func (op BinOp) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpFloorDiv, OpMod, OpPow:
		return true
	}
	return false
}

// UnOp enumerates unary operators.
type UnOp uint8

const (
	UnInvalid UnOp = iota
	UnNeg
	UnNot
)

func (op UnOp) String() string {
	switch op {
	case UnNeg:
		return "-"
	case UnNot:
		return "not"
	}
	return "?"
}

// BindingKind distinguishes how an assignment introduces its name.
// Plain assignment resolves outward and either reassigns or declares a new
// immutable binding; let/let-mut always declare in the current frame.
type BindingKind uint8

const (
	BindPlain BindingKind = iota
	BindLet
	BindLetMut
)

func (k BindingKind) String() string {
	switch k {
	case BindPlain:
		return "plain"
	case BindLet:
		return "let"
	case BindLetMut:
		return "let mut"
	}
	return "invalid"
}
