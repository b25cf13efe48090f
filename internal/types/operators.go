package types

import "pyrite/internal/ast"

// FamilyMask describes broad categories of types an operator accepts.
type FamilyMask uint16

const (
	FamilyNone FamilyMask = 0
	FamilyBool FamilyMask = 1 << iota
	FamilyInt
	FamilyUint
	FamilyFloat
	FamilyString
	FamilyList
	FamilySet
	FamilyAny
)

const (
	FamilyIntegral = FamilyInt | FamilyUint
	FamilyNumeric  = FamilyIntegral | FamilyFloat
)

// FamilyOf maps a type to its operator family.
func FamilyOf(t Type) FamilyMask {
	switch t.Kind {
	case KindBool:
		return FamilyBool
	case KindInt:
		return FamilyInt
	case KindUint:
		return FamilyUint
	case KindFloat:
		return FamilyFloat
	case KindString:
		return FamilyString
	case KindList:
		return FamilyList
	case KindSet:
		return FamilySet
	default:
		return FamilyNone
	}
}

// BinaryResult describes how to derive the result type for an operator.
type BinaryResult uint8

const (
	BinaryResultUnknown BinaryResult = iota
	BinaryResultNumeric // via NumericResult promotion
	BinaryResultBool
	BinaryResultLeft // e.g. string/list concatenation
)

// BinarySpec lists operand families and the expected result derivation.
type BinarySpec struct {
	Left   FamilyMask
	Right  FamilyMask
	Result BinaryResult
}

// binarySpecs is the operator acceptance table. String + string and
// list + list concatenate; comparisons accept any equal family pair plus
// mixed numerics (promoted to float first).
var binarySpecs = map[ast.BinOp]BinarySpec{
	ast.OpAdd:      {Left: FamilyNumeric | FamilyString | FamilyList, Right: FamilyNumeric | FamilyString | FamilyList, Result: BinaryResultNumeric},
	ast.OpSub:      {Left: FamilyNumeric | FamilySet, Right: FamilyNumeric | FamilySet, Result: BinaryResultNumeric},
	ast.OpMul:      {Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultNumeric},
	ast.OpDiv:      {Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultNumeric},
	ast.OpFloorDiv: {Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultNumeric},
	ast.OpMod:      {Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultNumeric},
	ast.OpPow:      {Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultNumeric},
	ast.OpEq:       {Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBool},
	ast.OpNe:       {Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBool},
	ast.OpLt:       {Left: FamilyNumeric | FamilyString, Right: FamilyNumeric | FamilyString, Result: BinaryResultBool},
	ast.OpLe:       {Left: FamilyNumeric | FamilyString, Right: FamilyNumeric | FamilyString, Result: BinaryResultBool},
	ast.OpGt:       {Left: FamilyNumeric | FamilyString, Right: FamilyNumeric | FamilyString, Result: BinaryResultBool},
	ast.OpGe:       {Left: FamilyNumeric | FamilyString, Right: FamilyNumeric | FamilyString, Result: BinaryResultBool},
	ast.OpAnd:      {Left: FamilyBool, Right: FamilyBool, Result: BinaryResultBool},
	ast.OpOr:       {Left: FamilyBool, Right: FamilyBool, Result: BinaryResultBool},
}

// SpecFor returns the acceptance spec for an operator.
func SpecFor(op ast.BinOp) (BinarySpec, bool) {
	spec, ok := binarySpecs[op]
	return spec, ok
}

// Accepts reports whether the family satisfies the mask.
func Accepts(mask, family FamilyMask) bool {
	if mask&FamilyAny != 0 {
		return true
	}
	return mask&family != 0
}
