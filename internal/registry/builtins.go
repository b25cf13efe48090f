package registry

import (
	"pyrite/internal/types"
)

// ResultRule describes how a builtin method's result type is derived.
type ResultRule uint8

const (
	// ResultFixed uses MethodSig.Result as-is.
	ResultFixed ResultRule = iota
	// ResultSelf returns the receiver's own type.
	ResultSelf
	// ResultElem returns the receiver's element type (containers).
	ResultElem
	// ResultOptionElem returns Option wrapping the receiver's element type.
	ResultOptionElem
)

// MethodSig is the signature of one builtin method.
type MethodSig struct {
	Params []types.TypeID
	Result types.TypeID
	Rule   ResultRule
}

type methodKey struct {
	typeName string
	method   string
}

// Builtins is the standard-surface catalogue: a lookup table from
// (type name, method name) to a signature. It is consulted, never owned,
// by the checker, so the surface can grow without checker changes.
type Builtins struct {
	methods map[methodKey]MethodSig
	sealed  bool
}

// NewBuiltins seeds the catalogue with the standard surface, using the
// provided interner for parameter and result types.
func NewBuiltins(in *types.Interner) *Builtins {
	b := &Builtins{methods: make(map[methodKey]MethodSig, 32)}
	bt := in.Builtins()
	listOfString := in.Intern(types.MakeList(bt.String))

	// strings
	b.Add("str", "upper", MethodSig{Result: bt.String})
	b.Add("str", "lower", MethodSig{Result: bt.String})
	b.Add("str", "strip", MethodSig{Result: bt.String})
	b.Add("str", "len", MethodSig{Result: bt.Int})
	b.Add("str", "startswith", MethodSig{Params: []types.TypeID{bt.String}, Result: bt.Bool})
	b.Add("str", "endswith", MethodSig{Params: []types.TypeID{bt.String}, Result: bt.Bool})
	b.Add("str", "contains", MethodSig{Params: []types.TypeID{bt.String}, Result: bt.Bool})
	b.Add("str", "split", MethodSig{Params: []types.TypeID{bt.String}, Result: listOfString})

	// numerics
	b.Add("int", "abs", MethodSig{Rule: ResultSelf})
	b.Add("float", "abs", MethodSig{Rule: ResultSelf})
	b.Add("float", "round", MethodSig{Result: bt.Int})
	b.Add("float", "floor", MethodSig{Result: bt.Int})
	b.Add("float", "ceil", MethodSig{Result: bt.Int})

	// containers
	b.Add("List", "len", MethodSig{Result: bt.Int})
	b.Add("List", "first", MethodSig{Rule: ResultOptionElem})
	b.Add("List", "last", MethodSig{Rule: ResultOptionElem})
	b.Add("Set", "len", MethodSig{Result: bt.Int})
	b.Add("Dict", "len", MethodSig{Result: bt.Int})

	return b
}

// Add registers a method. Panics after Seal; registries must be fully
// constructed before concurrent passes start.
func (b *Builtins) Add(typeName, method string, sig MethodSig) {
	if b.sealed {
		panic("registry: Add after Seal")
	}
	b.methods[methodKey{typeName, method}] = sig
}

// Seal freezes the catalogue.
func (b *Builtins) Seal() {
	b.sealed = true
}

// Lookup finds the signature for (type name, method name).
func (b *Builtins) Lookup(typeName, method string) (MethodSig, bool) {
	sig, ok := b.methods[methodKey{typeName, method}]
	return sig, ok
}

// Has reports whether the type has any method under that name.
func (b *Builtins) Has(typeName, method string) bool {
	_, ok := b.Lookup(typeName, method)
	return ok
}
