package types

import "pyrite/internal/ast"

// NumericClass collapses numeric types to the two categories the promotion
// rules care about.
type NumericClass uint8

const (
	ClassInt NumericClass = iota
	ClassFloat
)

// ClassOf maps a numeric type to its class. Callers must check IsNumeric
// first; non-numeric kinds are reported as ClassInt.
func ClassOf(t Type) NumericClass {
	if t.Kind == KindFloat {
		return ClassFloat
	}
	return ClassInt
}

// PowExponent classifies the exponent operand of **. Integer results are
// only possible when the exponent is a non-negative integer literal known
// at check time; everything else floats.
type PowExponent uint8

const (
	PowExpVariable PowExponent = iota
	PowExpNonNegIntLiteral
	PowExpNegIntLiteral
	PowExpFloat
)

// PowExponentFor derives the classification from literal information the
// checker extracted: whether the right operand is float-typed, and its
// value when it is an integer literal.
func PowExponentFor(rhsIsFloat bool, intLiteral *int64) PowExponent {
	switch {
	case rhsIsFloat:
		return PowExpFloat
	case intLiteral == nil:
		return PowExpVariable
	case *intLiteral >= 0:
		return PowExpNonNegIntLiteral
	default:
		return PowExpNegIntLiteral
	}
}

// NumericResult applies the numeric promotion policy for an arithmetic
// operator:
//
//   - `/` always floats, regardless of operand classes
//   - `//`, `%`, `+`, `-`, `*` float when either operand floats
//   - `**` stays integer only for int operands with a non-negative integer
//     literal exponent
func NumericResult(op ast.BinOp, lhs, rhs NumericClass, powExp PowExponent) NumericClass {
	switch op {
	case ast.OpDiv:
		return ClassFloat
	case ast.OpFloorDiv, ast.OpMod, ast.OpAdd, ast.OpSub, ast.OpMul:
		if lhs == ClassFloat || rhs == ClassFloat {
			return ClassFloat
		}
		return ClassInt
	case ast.OpPow:
		if lhs == ClassInt && rhs == ClassInt && powExp == PowExpNonNegIntLiteral {
			return ClassInt
		}
		return ClassFloat
	}
	return ClassInt
}

// NeedsComparePromotion reports whether a comparison between the two
// classes must promote both operands to float first.
func NeedsComparePromotion(lhs, rhs NumericClass) bool {
	return lhs != rhs
}

// SameIntWidth reports whether two integer types may appear in one
// operation without an explicit conversion. Sized integers only combine
// with the identical signedness and width; the default wide int never
// mixes with sized ints.
func SameIntWidth(a, b Type) bool {
	if !a.IsInteger() || !b.IsInteger() {
		return false
	}
	return a.Kind == b.Kind && a.Width == b.Width
}

// OverflowPolicy tags an arithmetic node with the lowering the emitter must
// pick for runtime overflow. The checker only tags; trap-vs-wrap is an
// emission concern.
type OverflowPolicy uint8

const (
	OverflowTrap OverflowPolicy = iota
	OverflowWrap
)

func (p OverflowPolicy) String() string {
	if p == OverflowWrap {
		return "wrap"
	}
	return "trap"
}

// PolicyFor selects the overflow policy for an operation on the given
// result type. Unsigned sized integers wrap; everything else traps.
func PolicyFor(result Type) OverflowPolicy {
	if result.Kind == KindUint {
		return OverflowWrap
	}
	return OverflowTrap
}
