package registry

import (
	"testing"

	"pyrite/internal/types"
)

func TestBuiltinLookup(t *testing.T) {
	in := types.NewInterner()
	b := NewBuiltins(in)
	b.Seal()

	sig, ok := b.Lookup("str", "upper")
	if !ok || sig.Result != in.Builtins().String {
		t.Fatalf("str.upper = %+v ok=%v", sig, ok)
	}
	sig, ok = b.Lookup("str", "startswith")
	if !ok || len(sig.Params) != 1 || sig.Params[0] != in.Builtins().String {
		t.Fatalf("str.startswith = %+v ok=%v", sig, ok)
	}
	if _, ok := b.Lookup("str", "frobnicate"); ok {
		t.Fatal("unknown method resolved")
	}
}

func TestBuiltinExtensionWithoutCheckerChanges(t *testing.T) {
	in := types.NewInterner()
	b := NewBuiltins(in)
	b.Add("str", "reverse", MethodSig{Result: in.Builtins().String})
	b.Seal()
	if !b.Has("str", "reverse") {
		t.Fatal("extension not visible")
	}
}

func TestSealPanicsOnAdd(t *testing.T) {
	in := types.NewInterner()
	b := NewBuiltins(in)
	b.Seal()
	defer func() {
		if recover() == nil {
			t.Fatal("Add after Seal must panic")
		}
	}()
	b.Add("str", "late", MethodSig{})
}
