package astio

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"pyrite/internal/ast"
	"pyrite/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func sampleFile() *ast.File {
	return &ast.File{
		Module: "models/user",
		Span:   sp(0, 400),
		Imports: []*ast.Import{
			{Span: sp(0, 12), Path: "utils", PathSpan: sp(7, 12)},
			{Span: sp(13, 40), Path: "../common/errors", PathSpan: sp(20, 36), Alias: "errs"},
		},
		Consts: []*ast.Const{
			{
				Span:     sp(41, 60),
				Name:     "MAX_USERS",
				NameSpan: sp(41, 50),
				Type:     &ast.TypeRef{Span: sp(52, 55), Name: "i32"},
				Value: &ast.Binary{
					Span:  sp(58, 60),
					Op:    ast.OpMul,
					Left:  &ast.IntLit{Span: sp(58, 59), Text: "2"},
					Right: &ast.IntLit{Span: sp(59, 60), Text: "512"},
				},
			},
		},
		Funcs: []*ast.Func{
			{
				Span:     sp(61, 200),
				Name:     "total",
				NameSpan: sp(65, 70),
				Params: []*ast.Param{
					{Span: sp(71, 78), Name: "xs", Type: &ast.TypeRef{
						Span: sp(74, 78),
						Name: "List",
						Args: []*ast.TypeRef{{Span: sp(79, 82), Name: "int"}},
					}},
				},
				Return: &ast.TypeRef{Span: sp(84, 87), Name: "int"},
				Body: []ast.Stmt{
					&ast.Assign{
						Span:     sp(90, 100),
						Binding:  ast.BindLetMut,
						Name:     "sum",
						NameSpan: sp(94, 97),
						Value:    &ast.IntLit{Span: sp(99, 100), Text: "0"},
					},
					&ast.For{
						Span:    sp(101, 140),
						Var:     "x",
						VarSpan: sp(105, 106),
						Iter:    &ast.Name{Span: sp(110, 112), Ident: "xs"},
						Body: []ast.Stmt{
							&ast.OpAssign{
								Span:     sp(115, 124),
								Name:     "sum",
								NameSpan: sp(115, 118),
								Op:       ast.OpAdd,
								Value:    &ast.Name{Span: sp(123, 124), Ident: "x"},
							},
						},
					},
					&ast.If{
						Span: sp(141, 170),
						Cond: &ast.Binary{
							Span:  sp(144, 152),
							Op:    ast.OpGt,
							Left:  &ast.Name{Span: sp(144, 147), Ident: "sum"},
							Right: &ast.IntLit{Span: sp(150, 152), Text: "10"},
						},
						Then: []ast.Stmt{
							&ast.Return{Span: sp(155, 165), Value: &ast.Name{Span: sp(162, 165), Ident: "sum"}},
						},
					},
					&ast.Unpack{
						Span:    sp(171, 185),
						Binding: ast.BindLet,
						Pattern: &ast.TuplePattern{
							Span: sp(171, 178),
							Names: []ast.PatternName{
								{Span: sp(172, 173), Name: "a"},
								{Span: sp(175, 176), Name: "_"},
							},
						},
						Value: &ast.TupleLit{
							Span: sp(181, 185),
							Elems: []ast.Expr{
								&ast.IntLit{Span: sp(182, 183), Text: "1"},
								&ast.BoolLit{Span: sp(184, 185), Value: true},
							},
						},
					},
					&ast.ExprStmt{
						Span: sp(186, 198),
						X: &ast.Call{
							Span:   sp(186, 198),
							Callee: &ast.Member{Span: sp(186, 193), Object: &ast.Name{Span: sp(186, 188), Ident: "xs"}, Name: "len", NameSpan: sp(189, 192)},
						},
					},
					&ast.Return{Span: sp(199, 200), Value: &ast.Name{Span: sp(199, 200), Ident: "sum"}},
				},
			},
		},
		Records: []*ast.Record{
			{
				Span:     sp(201, 300),
				Name:     "User",
				NameSpan: sp(208, 212),
				Fields: []*ast.Field{
					{
						Span:     sp(215, 225),
						Name:     "id",
						NameSpan: sp(215, 217),
						Type:     &ast.TypeRef{Span: sp(219, 222), Name: "int"},
					},
					{
						Span:      sp(226, 260),
						Name:      "user_name",
						NameSpan:  sp(226, 235),
						Type:      &ast.TypeRef{Span: sp(237, 240), Name: "str"},
						AliasAttr: "userName",
						AliasSpan: sp(242, 252),
						Doc:       "display name",
						Default:   &ast.StringLit{Span: sp(255, 260), Value: "anon"},
					},
				},
				Methods: []*ast.Func{
					{
						Span:     sp(261, 290),
						Name:     "label",
						NameSpan: sp(265, 270),
						Return:   &ast.TypeRef{Span: sp(274, 277), Name: "str"},
						Body: []ast.Stmt{
							&ast.Return{
								Span: sp(280, 290),
								Value: &ast.Member{
									Span:     sp(287, 290),
									Object:   &ast.Name{Span: sp(287, 291), Ident: "self"},
									Name:     "user_name",
									NameSpan: sp(292, 301),
								},
							},
						},
					},
				},
				Derives: []*ast.Derive{
					{Span: sp(203, 206), Name: "Ord"},
					{Span: sp(207, 211), Name: "Show"},
				},
			},
		},
		Enums: []*ast.Enum{
			{
				Span:     sp(301, 340),
				Name:     "Color",
				NameSpan: sp(306, 311),
				Variants: []*ast.Variant{
					{Span: sp(315, 318), Name: "Red"},
					{Span: sp(320, 325), Name: "Green"},
				},
				Derives: []*ast.Derive{{Span: sp(303, 305), Name: "Eq"}},
			},
		},
	}
}

func TestBundleRoundTrip(t *testing.T) {
	in := &Bundle{
		Module: "models/user",
		Source: []byte("record User:\n    id: int\n"),
		File:   sampleFile(),
	}

	data, err := EncodeBytes(in)
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}

	out, err := DecodeBytes(data, 1)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	if out.Schema != SchemaVersion {
		t.Fatalf("schema = %d, want %d", out.Schema, SchemaVersion)
	}
	if out.Module != in.Module {
		t.Fatalf("module = %q, want %q", out.Module, in.Module)
	}
	if !bytes.Equal(out.Source, in.Source) {
		t.Fatalf("source text mismatch")
	}
	if !reflect.DeepEqual(out.File, in.File) {
		t.Fatalf("decoded file differs from original:\n got: %#v\nwant: %#v", out.File, in.File)
	}
}

func TestDeriveSpansCarrySessionFile(t *testing.T) {
	wire := []*wireDerive{
		{Span: wireSpan{Start: 203, End: 206}, Name: "Ord"},
		{Span: wireSpan{Start: 207, End: 211}, Name: "Show"},
	}
	got := decoder{file: 7}.fromWireDerives(wire)
	want := []*ast.Derive{
		{Span: source.Span{File: 7, Start: 203, End: 206}, Name: "Ord"},
		{Span: source.Span{File: 7, Start: 207, End: 211}, Name: "Show"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("derives = %#v, want %#v", got, want)
	}
}

func TestDecodeRejectsWrongSchema(t *testing.T) {
	data, err := EncodeBytes(&Bundle{
		Schema: SchemaVersion + 1,
		Module: "m",
		File:   &ast.File{Module: "m"},
	})
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}

	_, err = DecodeBytes(data, 1)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeBytes([]byte{0xc1, 0x00, 0xff}, 1); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDecodeRejectsMissingFile(t *testing.T) {
	data, err := EncodeBytes(&Bundle{Module: "m"})
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}
	if _, err := DecodeBytes(data, 1); err == nil {
		t.Fatal("expected error for bundle without file")
	}
}

func TestMalformedStatementRejected(t *testing.T) {
	if _, err := (decoder{file: 1}).fromWireStmt(&wireStmt{}); err == nil {
		t.Fatal("expected error for empty statement union")
	}
	if _, err := (decoder{file: 1}).fromWireExpr(&wireExpr{}); err == nil {
		t.Fatal("expected error for empty expression union")
	}
	if _, err := (decoder{file: 1}).fromWirePattern(&wirePattern{}); err == nil {
		t.Fatal("expected error for empty pattern union")
	}
}
