package types

import (
	"math/big"
)

// pointer-width integers are checked at their narrowest supported target
// width so a program accepted on one platform never overflows on another.
const ptrCheckWidth = 32

var bigOne = big.NewInt(1)

// intBounds returns the inclusive [min, max] range for an integer type.
func intBounds(t Type) (*big.Int, *big.Int) {
	width := uint(64)
	switch t.Width {
	case Width8, Width16, Width32, Width64, Width128:
		width = uint(t.Width)
	case WidthPtr:
		width = ptrCheckWidth
	case WidthAny:
		width = 64
	}
	max := new(big.Int).Lsh(bigOne, width) // 2^width
	if t.Kind == KindUint {
		max.Sub(max, bigOne) // 2^width - 1
		return new(big.Int), max
	}
	max.Rsh(max, 1) // 2^(width-1)
	min := new(big.Int).Neg(max)
	max = new(big.Int).Sub(max, bigOne)
	return min, max
}

// IntLiteralFits reports whether the decimal literal text (optionally
// negated) is representable in the target integer type. Out-of-range
// literals are compile-time errors, never truncated.
func IntLiteralFits(text string, negative bool, target Type) bool {
	if !target.IsInteger() {
		return false
	}
	v, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return false
	}
	if negative {
		v.Neg(v)
	}
	min, max := intBounds(target)
	return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
}

// IntLiteralValue parses a decimal literal into an int64 when it fits;
// larger literals report ok=false and are kept as text only.
func IntLiteralValue(text string, negative bool) (int64, bool) {
	v, parsed := new(big.Int).SetString(text, 10)
	if !parsed {
		return 0, false
	}
	if negative {
		v.Neg(v)
	}
	if !v.IsInt64() {
		return 0, false
	}
	return v.Int64(), true
}
