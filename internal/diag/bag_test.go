package diag

import (
	"testing"

	"pyrite/internal/source"
)

func TestBagSortDeterministic(t *testing.T) {
	mk := func(code Code, start uint32, sev Severity) Diagnostic {
		return Diagnostic{
			Severity: sev,
			Code:     code,
			Primary:  source.Span{File: 1, Start: start, End: start + 1},
		}
	}
	b := NewBag(10)
	b.Add(mk(SemaTypeMismatch, 20, SevError))
	b.Add(mk(SemaUnknownName, 5, SevError))
	b.Add(mk(SemaUnusedBinding, 5, SevWarning))
	b.Sort()

	items := b.Items()
	if items[0].Code != SemaUnknownName {
		t.Fatalf("first = %v", items[0].Code)
	}
	// same span: error sorts before warning
	if items[1].Code != SemaUnusedBinding {
		t.Fatalf("second = %v", items[1].Code)
	}
	if items[2].Code != SemaTypeMismatch {
		t.Fatalf("third = %v", items[2].Code)
	}
}

func TestBagCap(t *testing.T) {
	b := NewBag(1)
	if !b.Add(NewError(SemaUnknownName, source.Span{}, "x")) {
		t.Fatal("first add must succeed")
	}
	if b.Add(NewError(SemaUnknownName, source.Span{}, "y")) {
		t.Fatal("second add must be dropped")
	}
}

func TestBagDedup(t *testing.T) {
	sp := source.Span{File: 1, Start: 0, End: 3}
	b := NewBag(10)
	b.Add(NewError(SemaUnknownName, sp, "unknown name 'a'"))
	b.Add(NewError(SemaUnknownName, sp, "unknown name 'a'"))
	b.Dedup()
	if b.Len() != 1 {
		t.Fatalf("len = %d, want 1", b.Len())
	}
}

func TestCodeTagsStable(t *testing.T) {
	// these strings are a public contract for quick-fix tooling
	want := map[Code]string{
		SemaUnknownName:          "UnknownName",
		SemaReassignImmutable:    "ReassignImmutable",
		SemaDuplicateBinding:     "DuplicateBinding",
		SemaTypeMismatch:         "TypeMismatch",
		SemaNumericOutOfRange:    "NumericLiteralOutOfRange",
		SemaNonConstEvaluable:    "NonConstEvaluable",
		SemaConstDependencyCycle: "ConstDependencyCycle",
		SemaUnknownDerive:        "UnknownDerive",
		SemaInvalidDeriveTarget:  "InvalidDeriveTarget",
		SemaAliasCollision:       "AliasCollision",
		SemaDuplicateField:       "DuplicateFieldAssignment",
		ProjImportCycle:          "ImportCycle",
		ProjModuleNotFound:       "ModuleNotFound",
	}
	for code, tag := range want {
		if got := code.String(); got != tag {
			t.Errorf("%d.String() = %q, want %q", uint16(code), got, tag)
		}
	}
}
