package symbols

import (
	"testing"

	"pyrite/internal/source"
	"pyrite/internal/types"
)

func TestDeclareAndLookup(t *testing.T) {
	tab := NewTable()
	id, ok := tab.Declare("x", false, types.NoTypeID, source.Span{})
	if !ok || !id.IsValid() {
		t.Fatalf("declare failed: id=%v ok=%v", id, ok)
	}
	got, found := tab.Lookup("x")
	if !found || got != id {
		t.Fatalf("lookup = %v %v", got, found)
	}
	if _, found := tab.Lookup("y"); found {
		t.Fatal("lookup of undeclared name succeeded")
	}
}

func TestDuplicateInSameFrame(t *testing.T) {
	tab := NewTable()
	first, _ := tab.Declare("x", false, types.NoTypeID, source.Span{File: 1, Start: 0, End: 1})
	existing, ok := tab.Declare("x", true, types.NoTypeID, source.Span{File: 1, Start: 5, End: 6})
	if ok {
		t.Fatal("redeclaration in the same frame must fail")
	}
	if existing != first {
		t.Fatalf("existing = %v, want %v", existing, first)
	}
}

func TestShadowingInNestedFrame(t *testing.T) {
	tab := NewTable()
	outer, _ := tab.Declare("x", false, types.NoTypeID, source.Span{})

	tab.Push(ScopeBlock)
	inner, ok := tab.Declare("x", true, types.NoTypeID, source.Span{})
	if !ok {
		t.Fatal("shadowing via a nested frame is legal")
	}
	if got, _ := tab.Lookup("x"); got != inner {
		t.Fatalf("inner lookup = %v, want %v", got, inner)
	}
	tab.Pop()

	if got, _ := tab.Lookup("x"); got != outer {
		t.Fatalf("after pop lookup = %v, want %v", got, outer)
	}
}

func TestBlockBindingsDoNotLeak(t *testing.T) {
	tab := NewTable()
	tab.Push(ScopeBlock)
	tab.Declare("tmp", false, types.NoTypeID, source.Span{})
	tab.Pop()
	if _, found := tab.Lookup("tmp"); found {
		t.Fatal("block-local binding leaked to the enclosing frame")
	}
}

func TestLookupLocalStopsAtFrame(t *testing.T) {
	tab := NewTable()
	tab.Declare("x", false, types.NoTypeID, source.Span{})
	tab.Push(ScopeFunction)
	if _, found := tab.LookupLocal("x"); found {
		t.Fatal("LookupLocal must not walk outward")
	}
	if _, found := tab.Lookup("x"); !found {
		t.Fatal("Lookup must walk outward")
	}
}

func TestMutabilityRecorded(t *testing.T) {
	tab := NewTable()
	id, _ := tab.Declare("m", true, types.NoTypeID, source.Span{})
	if b := tab.Get(id); b == nil || !b.Mutable {
		t.Fatalf("binding = %+v", tab.Get(id))
	}
	id2, _ := tab.Declare("c", false, types.NoTypeID, source.Span{})
	if b := tab.Get(id2); b == nil || b.Mutable {
		t.Fatalf("binding = %+v", tab.Get(id2))
	}
}
