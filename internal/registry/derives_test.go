package registry

import (
	"reflect"
	"testing"
)

func TestExpandOrdImpliesEq(t *testing.T) {
	d := NewDerives()
	got := d.Expand([]string{"Ord"})
	if !reflect.DeepEqual(got, []string{"Ord", "Eq"}) {
		t.Fatalf("Expand(Ord) = %v", got)
	}
}

func TestExpandKeepsRequestOrder(t *testing.T) {
	d := NewDerives()
	got := d.Expand([]string{"Hash", "Show", "Ord"})
	want := []string{"Hash", "Show", "Ord", "Eq"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expand = %v, want %v", got, want)
	}
}

func TestExpandNoDuplicates(t *testing.T) {
	d := NewDerives()
	got := d.Expand([]string{"Ord", "Eq", "Ord"})
	want := []string{"Ord", "Eq"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expand = %v, want %v", got, want)
	}
}

func TestExpandCopyImpliesClone(t *testing.T) {
	d := NewDerives()
	got := d.Expand([]string{"Copy"})
	want := []string{"Copy", "Clone"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expand = %v, want %v", got, want)
	}
}

func TestClosestMatch(t *testing.T) {
	d := NewDerives()
	if got := d.Closest("Clon"); got != "Clone" {
		t.Errorf("Closest(Clon) = %q", got)
	}
	if got := d.Closest("ord"); got != "Ord" {
		t.Errorf("Closest(ord) = %q", got)
	}
	if got := d.Closest("Frobnicate"); got != "" {
		t.Errorf("Closest(Frobnicate) = %q, want no hint", got)
	}
}

func TestKnownIsCaseSensitive(t *testing.T) {
	d := NewDerives()
	if !d.Known("Eq") {
		t.Error("Eq must be known")
	}
	if d.Known("eq") {
		t.Error("matching is case-sensitive")
	}
}
