package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"pyrite/internal/diag"
	"pyrite/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("let count = tally + 1\nlet other = 2\n")
	id := fs.AddVirtual("models/user.pyr", content)

	bag := diag.NewBag(16)
	d := diag.NewError(diag.SemaUnknownName,
		source.Span{File: id, Start: 12, End: 17},
		`name "tally" is not defined`)
	d = d.WithNote(source.Span{File: id, Start: 4, End: 9}, "while checking this binding")
	bag.Add(d)
	bag.Add(diag.NewWarning(diag.SemaUnusedBinding,
		source.Span{File: id, Start: 26, End: 31},
		`binding "other" is never used`))
	bag.Sort()
	return bag, fs, id
}

func TestPrettyHeaderAndCaret(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		Color:      ColorNever,
		ShowSource: true,
		ShowNotes:  true,
	})
	out := buf.String()

	if !strings.Contains(out, "models/user.pyr:1:13: ERROR UnknownName:") {
		t.Fatalf("header missing or misplaced:\n%s", out)
	}
	if !strings.Contains(out, "let count = tally + 1") {
		t.Fatalf("source line missing:\n%s", out)
	}
	// 12 bytes of padding, then a 5-cell underline
	if !strings.Contains(out, "    "+strings.Repeat(" ", 12)+"^~~~~") {
		t.Fatalf("caret underline wrong:\n%s", out)
	}
	if !strings.Contains(out, "note: while checking this binding (models/user.pyr:1:5)") {
		t.Fatalf("note missing:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color escapes leaked into ColorNever output:\n%s", out)
	}
}

func TestPrettyNoWarnings(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: ColorNever, NoWarnings: true})
	if strings.Contains(buf.String(), "WARNING") {
		t.Fatalf("warning survived NoWarnings:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "ERROR") {
		t.Fatalf("error dropped:\n%s", buf.String())
	}
}

func TestPrettyColorAlways(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: ColorAlways})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatal("ColorAlways produced no escapes")
	}
}

func TestPrettySpanlessDiagnostic(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.ProjModuleNotFound, source.Span{}, `module "ghost" not found`))
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: ColorNever, ShowSource: true})
	want := "ERROR ModuleNotFound: module \"ghost\" not found\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true})
	if err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d, diags = %d", out.Count, len(out.Diagnostics))
	}
	first := out.Diagnostics[0]
	if first.Code != "PYR4001" || first.Name != "UnknownName" {
		t.Fatalf("code = %s/%s", first.Code, first.Name)
	}
	if first.Location.File != "models/user.pyr" || first.Location.StartLine != 1 || first.Location.StartCol != 13 {
		t.Fatalf("location = %+v", first.Location)
	}
	if len(first.Notes) != 1 {
		t.Fatalf("notes = %d", len(first.Notes))
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("truncation failed: %+v", out)
	}
	if bag.Len() != 2 {
		t.Fatal("truncation must not touch the bag")
	}
}
