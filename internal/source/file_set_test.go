package source

import "testing"

func TestPositionResolution(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.py", []byte("a = 1\nbb = 2\n\nccc = 3\n"))

	cases := []struct {
		offset uint32
		line   uint32
		col    uint32
	}{
		{0, 1, 1},
		{4, 1, 5},
		{6, 2, 1},
		{9, 2, 4},
		{13, 3, 1},
		{14, 4, 1},
	}
	for _, tc := range cases {
		got := fs.Position(id, tc.offset)
		if got.Line != tc.line || got.Col != tc.col {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tc.offset, got.Line, got.Col, tc.line, tc.col)
		}
	}
}

func TestLineExtraction(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.py", []byte("first\nsecond\nthird"))

	if got := string(fs.Line(id, 2)); got != "second" {
		t.Errorf("Line(2) = %q, want %q", got, "second")
	}
	if got := string(fs.Line(id, 3)); got != "third" {
		t.Errorf("Line(3) = %q, want %q", got, "third")
	}
	if got := fs.Line(id, 4); got != nil {
		t.Errorf("Line(4) = %q, want nil", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 8 {
		t.Errorf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover across files must be identity, got %v", got)
	}
}
