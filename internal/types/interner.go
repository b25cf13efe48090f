package types

import (
	"fmt"
	"strings"
	"sync"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Bool    TypeID
	String  TypeID
	Bytes   TypeID
	Int     TypeID
	Float   TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors. It is
// constructed once per checking session and shared by every per-module pass;
// interning is guarded by a lock so passes may run in parallel.
type Interner struct {
	mu       sync.RWMutex
	types    []Type
	index    map[string]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[string]TypeID, 64),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Bytes = in.Intern(Type{Kind: KindBytes})
	in.builtins.Int = in.Intern(MakeInt(WidthAny))
	in.builtins.Float = in.Intern(MakeFloat(WidthAny))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("type id overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Get returns the descriptor for an id. The zero id yields KindInvalid.
func (in *Interner) Get(id TypeID) Type {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.types) {
		return Type{Kind: KindInvalid}
	}
	return in.types[id]
}

// Len reports how many distinct types have been interned.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.types)
}

// String renders a TypeID the way users write types.
func (in *Interner) String(id TypeID) string {
	t := in.Get(id)
	switch t.Kind {
	case KindInt:
		if t.Width == WidthAny {
			return "int"
		}
		return "i" + t.Width.String()
	case KindUint:
		return "u" + t.Width.String()
	case KindFloat:
		if t.Width == WidthAny {
			return "float"
		}
		return "f" + t.Width.String()
	case KindNamed:
		return t.Name
	case KindGeneric:
		return t.Name + "[" + in.joinArgs(t.Args) + "]"
	case KindOption:
		return "Option[" + in.String(t.Elem) + "]"
	case KindResult:
		return "Result[" + in.String(t.Elem) + ", " + in.String(t.Extra) + "]"
	case KindList:
		return "List[" + in.String(t.Elem) + "]"
	case KindSet:
		return "Set[" + in.String(t.Elem) + "]"
	case KindMap:
		return "Dict[" + in.String(t.Extra) + ", " + in.String(t.Elem) + "]"
	case KindTuple:
		return "Tuple[" + in.joinArgs(t.Args) + "]"
	case KindFunc:
		return "fn(" + in.joinArgs(t.Args) + ") -> " + in.String(t.Elem)
	case KindConstrained:
		return in.String(t.Elem) + " where " + in.joinArgs(t.Args)
	case KindModule:
		return "module " + t.Name
	default:
		return t.Kind.String()
	}
}

func (in *Interner) joinArgs(args []TypeID) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = in.String(a)
	}
	return strings.Join(parts, ", ")
}

func typeKey(t Type) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:%d:%s:%d:%d", t.Kind, t.Width, t.Name, t.Elem, t.Extra)
	for _, a := range t.Args {
		fmt.Fprintf(&sb, ":%d", a)
	}
	return sb.String()
}
