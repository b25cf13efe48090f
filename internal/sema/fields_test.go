package sema

import (
	"strings"
	"testing"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
)

func userRecord(b *astBuilder) *ast.Record {
	return b.record("User", []*ast.Field{
		b.field("id", b.tref("int")),
		b.aliasField("user_name", b.tref("str"), "userName"),
	})
}

func TestConstructThroughAlias(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Records = append(f.Records, userRecord(b))
	f.Funcs = append(f.Funcs, b.fn("run", nil, nil,
		b.let("u", b.kwcall(b.name("User"),
			b.kw("id", b.intLit("1")),
			b.kw("userName", b.str("ada")),
		)),
	))
	_, bag := runCheck(t, f, nil)
	wantClean(t, bag)
}

func TestConstructCanonicalAndAliasTogether(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Records = append(f.Records, userRecord(b))
	f.Funcs = append(f.Funcs, b.fn("run", nil, nil,
		b.let("u", b.kwcall(b.name("User"),
			b.kw("id", b.intLit("1")),
			b.kw("user_name", b.str("ada")),
			b.kw("userName", b.str("grace")),
		)),
	))
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.SemaDuplicateField)
}

func TestAliasMatchingIsExact(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Records = append(f.Records, userRecord(b))
	// "username" is neither the canonical name nor the exact alias
	f.Funcs = append(f.Funcs, b.fn("run", nil, nil,
		b.let("u", b.kwcall(b.name("User"),
			b.kw("id", b.intLit("1")),
			b.kw("username", b.str("ada")),
		)),
	))
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.SemaUnknownField, diag.SemaMissingField)
	var found bool
	for _, d := range bag.Items() {
		for _, n := range d.Notes {
			if strings.Contains(n.Msg, "userName") {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected a closest-match hint naming userName")
	}
}

func TestMemberAccessThroughAlias(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Records = append(f.Records, userRecord(b))
	f.Funcs = append(f.Funcs, b.fn("show",
		[]*ast.Param{b.param("u", b.tref("User"))},
		b.tref("str"),
		b.ret(b.member(b.name("u"), "userName")),
	))
	_, bag := runCheck(t, f, nil)
	wantClean(t, bag)
}

func TestMissingFieldsReported(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Records = append(f.Records, userRecord(b))
	f.Funcs = append(f.Funcs, b.fn("run", nil, nil,
		b.let("u", b.kwcall(b.name("User"), b.kw("id", b.intLit("1")))),
	))
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.SemaMissingField)
	if !strings.Contains(bag.Items()[0].Message, "user_name") {
		t.Fatalf("message should name the canonical field: %s", bag.Items()[0].Message)
	}
}

func TestAliasBothFormsRejected(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	fld := b.aliasField("user_name", b.tref("str"), "userName")
	fld.AliasDeco = "user-name"
	fld.DecoSpan = b.span()
	f.Records = append(f.Records, b.record("User", []*ast.Field{fld}))
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.SemaAliasCollision)
}

func TestAliasCollidesWithField(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Records = append(f.Records, b.record("User", []*ast.Field{
		b.field("id", b.tref("int")),
		b.aliasField("user_name", b.tref("str"), "id"),
	}))
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.SemaAliasCollision)
}

func TestAliasSharedByTwoFields(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Records = append(f.Records, b.record("User", []*ast.Field{
		b.aliasField("first", b.tref("str"), "name"),
		b.aliasField("last", b.tref("str"), "name"),
	}))
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.SemaAliasCollision)
}

func TestBlankAliasRejected(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Records = append(f.Records, b.record("User", []*ast.Field{
		b.aliasField("name", b.tref("str"), "   "),
	}))
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.SemaAliasCollision)
}

func TestRecordPatternResolvesAliases(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Records = append(f.Records, userRecord(b))
	pat := &ast.RecordPattern{Span: b.span(), Fields: []*ast.PatternField{
		{Span: b.span(), Key: "id", KeySpan: b.span()},
		{Span: b.span(), Key: "userName", KeySpan: b.span(), Binder: "name"},
	}}
	f.Funcs = append(f.Funcs, b.fn("run",
		[]*ast.Param{b.param("u", b.tref("User"))},
		nil,
		&ast.Unpack{Span: b.span(), Binding: ast.BindLet, Pattern: pat, Value: b.name("u")},
		b.exprStmt(b.bin(ast.OpAdd, b.name("name"), b.str("!"))),
	))
	_, bag := runCheck(t, f, nil)
	wantClean(t, bag)
}

func TestRecordPatternDuplicateMatch(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Records = append(f.Records, userRecord(b))
	pat := &ast.RecordPattern{Span: b.span(), Fields: []*ast.PatternField{
		{Span: b.span(), Key: "user_name", KeySpan: b.span()},
		{Span: b.span(), Key: "userName", KeySpan: b.span(), Binder: "other"},
	}}
	f.Funcs = append(f.Funcs, b.fn("run",
		[]*ast.Param{b.param("u", b.tref("User"))},
		nil,
		&ast.Unpack{Span: b.span(), Binding: ast.BindLet, Pattern: pat, Value: b.name("u")},
	))
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.SemaDuplicateField)
}

func TestMethodCall(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	rec := b.record("Point", []*ast.Field{
		b.field("x", b.tref("int")),
		b.field("y", b.tref("int")),
	})
	rec.Methods = append(rec.Methods, b.fn("sum", nil, b.tref("int"),
		b.ret(b.bin(ast.OpAdd,
			b.member(b.name("self"), "x"),
			b.member(b.name("self"), "y"),
		)),
	))
	f.Records = append(f.Records, rec)
	f.Funcs = append(f.Funcs, b.fn("run",
		[]*ast.Param{b.param("p", b.tref("Point"))},
		b.tref("int"),
		b.ret(b.call(b.member(b.name("p"), "sum"))),
	))
	_, bag := runCheck(t, f, nil)
	wantClean(t, bag)
}

func TestFieldIsNotCallable(t *testing.T) {
	b := &astBuilder{}
	f := b.file("main")
	f.Records = append(f.Records, userRecord(b))
	f.Funcs = append(f.Funcs, b.fn("run",
		[]*ast.Param{b.param("u", b.tref("User"))},
		nil,
		b.exprStmt(b.call(b.member(b.name("u"), "id"))),
	))
	_, bag := runCheck(t, f, nil)
	wantCodes(t, bag, diag.SemaUnknownMethod)
}
