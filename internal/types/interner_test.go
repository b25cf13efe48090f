package types

import "testing"

func TestInternStableIDs(t *testing.T) {
	in := NewInterner()
	a := in.Intern(MakeList(in.Builtins().Int))
	b := in.Intern(MakeList(in.Builtins().Int))
	if a != b {
		t.Fatalf("same structure interned twice: %d != %d", a, b)
	}
	c := in.Intern(MakeList(in.Builtins().Float))
	if c == a {
		t.Fatalf("distinct structures shared an id")
	}
}

func TestBuiltinsSeeded(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Int == NoTypeID || b.Float == NoTypeID || b.Bool == NoTypeID {
		t.Fatalf("builtins not seeded: %+v", b)
	}
	if got := in.Get(b.Int); got.Kind != KindInt || got.Width != WidthAny {
		t.Fatalf("int descriptor = %+v", got)
	}
}

func TestTypeString(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	cases := []struct {
		id   TypeID
		want string
	}{
		{b.Int, "int"},
		{b.Float, "float"},
		{in.Intern(MakeInt(Width32)), "i32"},
		{in.Intern(MakeUint(Width8)), "u8"},
		{in.Intern(MakeInt(WidthPtr)), "isize"},
		{in.Intern(MakeList(b.Int)), "List[int]"},
		{in.Intern(MakeMap(b.String, b.Int)), "Dict[str, int]"},
		{in.Intern(MakeOption(b.String)), "Option[str]"},
		{in.Intern(MakeResult(b.Int, b.String)), "Result[int, str]"},
	}
	for _, tc := range cases {
		if got := in.String(tc.id); got != tc.want {
			t.Errorf("String(%d) = %q, want %q", tc.id, got, tc.want)
		}
	}
}
