package sema

import (
	"testing"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/types"
)

func TestImportedConstInConstExpr(t *testing.T) {
	in := types.NewInterner()
	db := &astBuilder{}
	depFile := db.file("utils")
	depFile.Consts = append(depFile.Consts, db.constDecl("ANSWER", nil, db.intLit("42")))
	depRes, depBag := runCheckShared(t, depFile, nil, in)
	wantClean(t, depBag)

	b := &astBuilder{}
	f := b.file("main")
	f.Imports = append(f.Imports, &ast.Import{Span: b.span(), Path: "utils", PathSpan: b.span()})
	f.Consts = append(f.Consts, b.constDecl("DOUBLE", nil,
		b.bin(ast.OpMul, b.member(b.name("utils"), "ANSWER"), b.intLit("2"))))

	res, bag := runCheckShared(t, f, map[string]*ModuleExport{"utils": depRes.Exports}, in)
	wantClean(t, bag)
	if got := res.Consts["DOUBLE"].Value.Int; got != 84 {
		t.Fatalf("DOUBLE = %d, want 84", got)
	}
}

func TestImportAliasBinding(t *testing.T) {
	in := types.NewInterner()
	db := &astBuilder{}
	depFile := db.file("common/errors")
	depFile.Consts = append(depFile.Consts, db.constDecl("MAX", nil, db.intLit("10")))
	depRes, _ := runCheckShared(t, depFile, nil, in)

	b := &astBuilder{}
	f := b.file("main")
	f.Imports = append(f.Imports, &ast.Import{
		Span: b.span(), Path: "../common/errors", PathSpan: b.span(), Alias: "errs",
	})
	f.Funcs = append(f.Funcs, b.fn("run", nil, nil,
		b.assign(ast.BindLet, "m", b.tref("int"), b.member(b.name("errs"), "MAX")),
	))
	_, bag := runCheckShared(t, f, map[string]*ModuleExport{"../common/errors": depRes.Exports}, in)
	wantClean(t, bag)
}

func TestMissingImportReported(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Imports = append(f.Imports, &ast.Import{Span: b.span(), Path: "nowhere", PathSpan: b.span()})
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.ProjModuleNotFound)
}

func TestEnumVariantAccess(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Enums = append(f.Enums, &ast.Enum{
		Span: b.span(), Name: "Color", NameSpan: b.span(),
		Variants: []*ast.Variant{
			{Span: b.span(), Name: "Red"},
			{Span: b.span(), Name: "Blue"},
		},
	})
	f.Funcs = append(f.Funcs, b.fn("run", nil, nil,
		b.assign(ast.BindLet, "c", b.tref("Color"), b.member(b.name("Color"), "Red")),
		b.exprStmt(b.member(b.name("Color"), "Purple")),
	))
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.SemaUnknownField)
}

func TestBuiltinMethods(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Funcs = append(f.Funcs, b.fn("run",
		[]*ast.Param{b.param("s", b.tref("str")), b.param("xs", b.tref("List", b.tref("int")))},
		b.tref("int"),
		b.let("up", b.call(b.member(b.name("s"), "upper"))),
		b.exprStmt(b.call(b.member(b.name("s"), "shout"))),
		b.ret(b.call(b.member(b.name("xs"), "len"))),
	))
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.SemaUnknownMethod)
}

func TestBuiltinOptionResult(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Funcs = append(f.Funcs, b.fn("run",
		[]*ast.Param{b.param("xs", b.tref("List", b.tref("int")))},
		b.tref("Option", b.tref("int")),
		b.ret(b.call(b.member(b.name("xs"), "first"))),
	))
	_, bag := runCheck(t, f, nil)
	wantClean(t, bag)
}

func TestConversions(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Funcs = append(f.Funcs, b.fn("run",
		[]*ast.Param{b.param("n", b.tref("int"))},
		nil,
		b.assign(ast.BindLet, "w", b.tref("i32"), b.call(b.name("i32"), b.name("n"))),
		b.assign(ast.BindLet, "s", b.tref("str"), b.call(b.name("str"), b.name("n"))),
		b.exprStmt(b.call(b.name("f64"), b.str("nope"))),
	))
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.SemaTypeMismatch)
}

func TestListComprehension(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	comp := &ast.ListComp{
		Span:    b.span(),
		Elem:    b.bin(ast.OpMul, b.name("x"), b.name("x")),
		Var:     "x",
		VarSpan: b.span(),
		Iter:    b.name("xs"),
		Cond:    b.bin(ast.OpGt, b.name("x"), b.intLit("0")),
	}
	f.Funcs = append(f.Funcs, b.fn("run",
		[]*ast.Param{b.param("xs", b.tref("List", b.tref("int")))},
		b.tref("List", b.tref("int")),
		b.ret(comp),
	))
	res, bag := runCheck(t, f, nil)
	wantClean(t, bag)
	if got := res.TypeOf(comp); !got.IsValid() {
		t.Fatal("comprehension has no recorded type")
	}
}

func TestForLoopIteration(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Funcs = append(f.Funcs, b.fn("run",
		[]*ast.Param{b.param("xs", b.tref("List", b.tref("str")))},
		nil,
		&ast.For{
			Span: b.span(), Var: "s", VarSpan: b.span(), Iter: b.name("xs"),
			Body: []ast.Stmt{
				b.exprStmt(b.bin(ast.OpAdd, b.name("s"), b.str("!"))),
			},
		},
		b.exprStmt(b.name("s")),
	))
	_, bag := runCheck(t, f, nil)
	// the loop variable does not leak past the loop body
	wantCodes(t, bag, diag.SemaUnknownName)
}

func TestCheckIsIdempotent(t *testing.T) {
	build := func() *ast.File {
		b := &astBuilder{}
		f := b.file("main")
		f.Consts = append(f.Consts, b.constDecl("A", nil, b.bin(ast.OpAdd, b.name("B"), b.intLit("1"))))
		f.Consts = append(f.Consts, b.constDecl("B", nil, b.name("A")))
		f.Funcs = append(f.Funcs, b.fn("run", nil, nil,
			b.let("x", b.intLit("1")),
			b.plain("x", b.intLit("2")),
			b.exprStmt(b.name("missing")),
		))
		return f
	}

	_, first := runCheck(t, build(), nil)
	_, second := runCheck(t, build(), nil)
	a, bb := first.Items(), second.Items()
	if len(a) != len(bb) {
		t.Fatalf("run lengths differ: %d vs %d", len(a), len(bb))
	}
	for i := range a {
		if a[i].Code != bb[i].Code || a[i].Message != bb[i].Message || a[i].Primary != bb[i].Primary {
			t.Fatalf("run %d differs: %+v vs %+v", i, a[i], bb[i])
		}
	}
}

func TestExprTypesRecorded(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	lit := b.intLit("1")
	sum := b.bin(ast.OpAdd, lit, b.intLit("2"))
	f.Funcs = append(f.Funcs, b.fn("run", nil, nil, b.exprStmt(sum)))
	res, bag := runCheck(t, f, nil)
	wantClean(t, bag)
	if !res.TypeOf(lit).IsValid() || !res.TypeOf(sum).IsValid() {
		t.Fatal("expression types missing from the result")
	}
	if res.TypeOf(lit) != res.TypeOf(sum) {
		t.Fatal("1 and 1+2 should share the default int type")
	}
}

func TestExportsSurface(t *testing.T) {
	b := &astBuilder{}
	f := b.file("models/user")
	f.Consts = append(f.Consts, b.constDecl("LIMIT", nil, b.intLit("5")))
	f.Records = append(f.Records, b.record("User", []*ast.Field{b.field("id", b.tref("int"))}))
	f.Funcs = append(f.Funcs, b.fn("make", nil, b.tref("User"),
		b.ret(b.kwcall(b.name("User"), b.kw("id", b.intLit("1")))),
	))
	res, bag := runCheck(t, f, nil)
	wantClean(t, bag)
	exp := res.Exports
	if exp.Path != "models/user" {
		t.Fatalf("path = %q", exp.Path)
	}
	if _, ok := exp.Consts["LIMIT"]; !ok {
		t.Fatal("LIMIT not exported")
	}
	if _, ok := exp.Records["User"]; !ok {
		t.Fatal("User not exported")
	}
	if fi, ok := exp.Funcs["make"]; !ok || !fi.Return.IsValid() {
		t.Fatal("make not exported with a return type")
	}
}
