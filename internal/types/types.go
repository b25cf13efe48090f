package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// IsValid reports whether id refers to a real interned type.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindString
	KindBytes
	KindInt  // signed integer; Width Any is the default wide integer
	KindUint // unsigned sized integer
	KindFloat
	KindNamed   // record/enum/newtype declaration reference
	KindGeneric // named type with arguments
	KindOption
	KindResult
	KindTuple
	KindList
	KindSet
	KindMap
	KindFunc
	KindConstrained
	KindModule // an imported module binding
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "Unit"
	case KindBool:
		return "bool"
	case KindString:
		return "str"
	case KindBytes:
		return "bytes"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindNamed:
		return "named"
	case KindGeneric:
		return "generic"
	case KindOption:
		return "Option"
	case KindResult:
		return "Result"
	case KindTuple:
		return "Tuple"
	case KindList:
		return "List"
	case KindSet:
		return "Set"
	case KindMap:
		return "Dict"
	case KindFunc:
		return "fn"
	case KindConstrained:
		return "constrained"
	case KindModule:
		return "module"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of sized integers and floats. WidthAny is
// the default wide signed integer or the double-wide float; sized widths
// are opted into via literal suffix or annotation and never mix with other
// widths implicitly.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
	Width128 Width = 128
	WidthPtr Width = 255 // pointer-width (isize/usize)
)

func (w Width) String() string {
	switch w {
	case WidthAny:
		return ""
	case WidthPtr:
		return "size"
	default:
		return fmt.Sprintf("%d", uint8(w))
	}
}

// Type is a structural descriptor for any supported type. Which fields are
// meaningful depends on Kind: numeric kinds use Width; Named/Generic use
// Name (+Args); Option/List/Set use Elem; Result uses Elem (ok) and Extra
// (err); Map uses Extra (key) and Elem (value); Tuple and Func use Args
// (Func's Elem is the return type); Constrained uses Elem (base) and Args
// (constraints).
type Type struct {
	Kind  Kind
	Width Width
	Name  string
	Elem  TypeID
	Extra TypeID
	Args  []TypeID
}

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer of the given width.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeNamed references a declared record, enum or newtype by name.
func MakeNamed(name string) Type {
	return Type{Kind: KindNamed, Name: name}
}

// MakeGeneric references a declared generic type applied to arguments.
func MakeGeneric(name string, args []TypeID) Type {
	return Type{Kind: KindGeneric, Name: name, Args: args}
}

// MakeOption wraps elem in Option.
func MakeOption(elem TypeID) Type {
	return Type{Kind: KindOption, Elem: elem}
}

// MakeResult describes Result[ok, err].
func MakeResult(ok, err TypeID) Type {
	return Type{Kind: KindResult, Elem: ok, Extra: err}
}

// MakeList describes List[elem].
func MakeList(elem TypeID) Type {
	return Type{Kind: KindList, Elem: elem}
}

// MakeSet describes Set[elem].
func MakeSet(elem TypeID) Type {
	return Type{Kind: KindSet, Elem: elem}
}

// MakeMap describes Dict[key, value].
func MakeMap(key, value TypeID) Type {
	return Type{Kind: KindMap, Extra: key, Elem: value}
}

// MakeTuple describes a fixed-arity tuple.
func MakeTuple(elems []TypeID) Type {
	return Type{Kind: KindTuple, Args: elems}
}

// MakeFunc describes a function type with a return type.
func MakeFunc(params []TypeID, ret TypeID) Type {
	return Type{Kind: KindFunc, Args: params, Elem: ret}
}

// MakeModule marks a binding that names an imported module.
func MakeModule(path string) Type {
	return Type{Kind: KindModule, Name: path}
}

// IsNumeric reports whether the type participates in numeric policy.
func (t Type) IsNumeric() bool {
	switch t.Kind {
	case KindInt, KindUint, KindFloat:
		return true
	}
	return false
}

// IsInteger reports whether the type is any integer kind.
func (t Type) IsInteger() bool {
	return t.Kind == KindInt || t.Kind == KindUint
}

// IsSized reports whether the integer/float carries an explicit width.
func (t Type) IsSized() bool {
	return t.IsNumeric() && t.Width != WidthAny
}
