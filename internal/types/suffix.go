package types

// SuffixType maps an integer literal suffix to its sized type. The empty
// suffix is the default wide signed integer.
func SuffixType(suffix string) (Type, bool) {
	switch suffix {
	case "":
		return MakeInt(WidthAny), true
	case "i8":
		return MakeInt(Width8), true
	case "i16":
		return MakeInt(Width16), true
	case "i32":
		return MakeInt(Width32), true
	case "i64":
		return MakeInt(Width64), true
	case "i128":
		return MakeInt(Width128), true
	case "isize":
		return MakeInt(WidthPtr), true
	case "u8":
		return MakeUint(Width8), true
	case "u16":
		return MakeUint(Width16), true
	case "u32":
		return MakeUint(Width32), true
	case "u64":
		return MakeUint(Width64), true
	case "u128":
		return MakeUint(Width128), true
	case "usize":
		return MakeUint(WidthPtr), true
	}
	return Type{}, false
}

// AnnotationType maps a primitive type annotation name to its descriptor.
func AnnotationType(name string) (Type, bool) {
	switch name {
	case "int":
		return MakeInt(WidthAny), true
	case "float":
		return MakeFloat(WidthAny), true
	case "f32":
		return MakeFloat(Width32), true
	case "f64":
		return MakeFloat(Width64), true
	case "bool":
		return Type{Kind: KindBool}, true
	case "str":
		return Type{Kind: KindString}, true
	case "bytes":
		return Type{Kind: KindBytes}, true
	case "Unit":
		return Type{Kind: KindUnit}, true
	}
	return SuffixType(name)
}

// IsPrimitiveName reports whether name denotes a builtin primitive or sized
// numeric type rather than a user declaration.
func IsPrimitiveName(name string) bool {
	if name == "" {
		return false
	}
	_, ok := AnnotationType(name)
	return ok
}
