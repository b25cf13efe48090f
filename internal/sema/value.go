package sema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind tags a compile-time constant value.
type ValueKind uint8

const (
	ValInvalid ValueKind = iota
	ValUnit
	ValBool
	ValInt
	ValFloat
	ValString
	ValTuple
	ValList
	ValSet
	ValMap
)

func (k ValueKind) String() string {
	switch k {
	case ValUnit:
		return "Unit"
	case ValBool:
		return "bool"
	case ValInt:
		return "int"
	case ValFloat:
		return "float"
	case ValString:
		return "str"
	case ValTuple:
		return "tuple"
	case ValList:
		return "list"
	case ValSet:
		return "set"
	case ValMap:
		return "map"
	default:
		return "invalid"
	}
}

// Value is a fully evaluated compile-time constant. Collections hold their
// elements in source order; maps pair Keys[i] with Elems[i].
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Elems []Value
	Keys  []Value
}

func IntValue(v int64) Value     { return Value{Kind: ValInt, Int: v} }
func FloatValue(v float64) Value { return Value{Kind: ValFloat, Float: v} }
func BoolValue(v bool) Value     { return Value{Kind: ValBool, Bool: v} }
func StringValue(v string) Value { return Value{Kind: ValString, Str: v} }
func UnitValue() Value           { return Value{Kind: ValUnit} }

// String renders the value the way the formatter prints constants.
func (v Value) String() string {
	switch v.Kind {
	case ValUnit:
		return "()"
	case ValBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValInt:
		return strconv.FormatInt(v.Int, 10)
	case ValFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValString:
		return strconv.Quote(v.Str)
	case ValTuple:
		return "(" + joinValues(v.Elems) + ")"
	case ValList:
		return "[" + joinValues(v.Elems) + "]"
	case ValSet:
		return "{" + joinValues(v.Elems) + "}"
	case ValMap:
		parts := make([]string, len(v.Keys))
		for i := range v.Keys {
			parts[i] = v.Keys[i].String() + ": " + v.Elems[i].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// floorDiv rounds the quotient toward negative infinity, so
// 7 // -3 == -3 and -7 // 3 == -3.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod keeps the identity a == (a // b) * b + (a % b); the remainder's
// sign follows the divisor, so -7 % 3 == 2.
func floorMod(a, b int64) int64 {
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// floatFloorMod is the float analogue of floorMod.
func floatFloorMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

var errIntOverflow = fmt.Errorf("integer overflow")

func checkedAdd(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, errIntOverflow
	}
	return a + b, nil
}

func checkedSub(a, b int64) (int64, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, errIntOverflow
	}
	return a - b, nil
}

func checkedMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	// MinInt64 * -1 wraps back to MinInt64 and passes the division check
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, errIntOverflow
	}
	p := a * b
	if p/b != a {
		return 0, errIntOverflow
	}
	return p, nil
}

// checkedPow raises an integer base to a non-negative exponent by repeated
// multiplication with overflow checks.
func checkedPow(base, exp int64) (int64, error) {
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		p, err := checkedMul(result, base)
		if err != nil {
			return 0, err
		}
		result = p
	}
	return result, nil
}
