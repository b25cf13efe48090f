package sema

import (
	"testing"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// astBuilder hands out monotonically increasing spans so every node is
// distinguishable in bag output and Sort stays meaningful.
type astBuilder struct {
	pos uint32
}

func (b *astBuilder) span() source.Span {
	b.pos += 8
	return source.Span{File: 1, Start: b.pos, End: b.pos + 4}
}

func (b *astBuilder) intLit(text string) *ast.IntLit {
	return &ast.IntLit{Span: b.span(), Text: text}
}

func (b *astBuilder) intSuf(text, suffix string) *ast.IntLit {
	return &ast.IntLit{Span: b.span(), Text: text, Suffix: suffix}
}

func (b *astBuilder) floatLit(v float64) *ast.FloatLit {
	return &ast.FloatLit{Span: b.span(), Value: v}
}

func (b *astBuilder) str(v string) *ast.StringLit {
	return &ast.StringLit{Span: b.span(), Value: v}
}

func (b *astBuilder) boolLit(v bool) *ast.BoolLit {
	return &ast.BoolLit{Span: b.span(), Value: v}
}

func (b *astBuilder) name(id string) *ast.Name {
	return &ast.Name{Span: b.span(), Ident: id}
}

func (b *astBuilder) neg(e ast.Expr) *ast.Unary {
	return &ast.Unary{Span: b.span(), Op: ast.UnNeg, Operand: e}
}

func (b *astBuilder) bin(op ast.BinOp, l, r ast.Expr) *ast.Binary {
	return &ast.Binary{Span: b.span(), Op: op, Left: l, Right: r}
}

func (b *astBuilder) member(obj ast.Expr, name string) *ast.Member {
	return &ast.Member{Span: b.span(), Object: obj, Name: name, NameSpan: b.span()}
}

func (b *astBuilder) call(callee ast.Expr, args ...ast.Expr) *ast.Call {
	return &ast.Call{Span: b.span(), Callee: callee, Args: args}
}

func (b *astBuilder) kwcall(callee ast.Expr, kwargs ...*ast.Kwarg) *ast.Call {
	return &ast.Call{Span: b.span(), Callee: callee, Kwargs: kwargs}
}

func (b *astBuilder) kw(name string, value ast.Expr) *ast.Kwarg {
	return &ast.Kwarg{Span: b.span(), Name: name, NameSpan: b.span(), Value: value}
}

func (b *astBuilder) tref(name string, args ...*ast.TypeRef) *ast.TypeRef {
	return &ast.TypeRef{Span: b.span(), Name: name, Args: args}
}

func (b *astBuilder) assign(kind ast.BindingKind, name string, ty *ast.TypeRef, value ast.Expr) *ast.Assign {
	return &ast.Assign{Span: b.span(), Binding: kind, Name: name, NameSpan: b.span(), Type: ty, Value: value}
}

func (b *astBuilder) plain(name string, value ast.Expr) *ast.Assign {
	return b.assign(ast.BindPlain, name, nil, value)
}

func (b *astBuilder) let(name string, value ast.Expr) *ast.Assign {
	return b.assign(ast.BindLet, name, nil, value)
}

func (b *astBuilder) letMut(name string, value ast.Expr) *ast.Assign {
	return b.assign(ast.BindLetMut, name, nil, value)
}

func (b *astBuilder) constDecl(name string, ty *ast.TypeRef, value ast.Expr) *ast.Const {
	return &ast.Const{Span: b.span(), Name: name, NameSpan: b.span(), Type: ty, Value: value}
}

func (b *astBuilder) fn(name string, params []*ast.Param, ret *ast.TypeRef, body ...ast.Stmt) *ast.Func {
	return &ast.Func{Span: b.span(), Name: name, NameSpan: b.span(), Params: params, Return: ret, Body: body}
}

func (b *astBuilder) param(name string, ty *ast.TypeRef) *ast.Param {
	return &ast.Param{Span: b.span(), Name: name, Type: ty}
}

func (b *astBuilder) field(name string, ty *ast.TypeRef) *ast.Field {
	return &ast.Field{Span: b.span(), Name: name, NameSpan: b.span(), Type: ty}
}

func (b *astBuilder) aliasField(name string, ty *ast.TypeRef, alias string) *ast.Field {
	f := b.field(name, ty)
	f.AliasAttr = alias
	f.AliasSpan = b.span()
	return f
}

func (b *astBuilder) record(name string, fields []*ast.Field, derives ...string) *ast.Record {
	rec := &ast.Record{Span: b.span(), Name: name, NameSpan: b.span(), Fields: fields}
	for _, d := range derives {
		rec.Derives = append(rec.Derives, &ast.Derive{Span: b.span(), Name: d})
	}
	return rec
}

func (b *astBuilder) exprStmt(e ast.Expr) *ast.ExprStmt {
	return &ast.ExprStmt{Span: b.span(), X: e}
}

func (b *astBuilder) opAssign(name string, op ast.BinOp, value ast.Expr) *ast.OpAssign {
	return &ast.OpAssign{Span: b.span(), Name: name, NameSpan: b.span(), Op: op, Value: value}
}

func (b *astBuilder) ifStmt(cond ast.Expr, then ...ast.Stmt) *ast.If {
	return &ast.If{Span: b.span(), Cond: cond, Then: then}
}

func (b *astBuilder) ret(value ast.Expr) *ast.Return {
	return &ast.Return{Span: b.span(), Value: value}
}

func (b *astBuilder) file(module string) *ast.File {
	return &ast.File{Module: module, Span: source.Span{File: 1}}
}

// runCheck runs one pass over the file with fresh registries and returns
// the result plus the sorted diagnostic bag.
func runCheck(t *testing.T, file *ast.File, deps map[string]*ModuleExport) (*Result, *diag.Bag) {
	t.Helper()
	return runCheckShared(t, file, deps, types.NewInterner())
}

// runCheckShared checks against a caller-owned interner. Passes that feed
// each other exports must share one, like the driver does.
func runCheckShared(t *testing.T, file *ast.File, deps map[string]*ModuleExport, in *types.Interner) (*Result, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(64)
	res := Check(file, Options{
		Reporter: diag.BagReporter{Bag: bag},
		Interner: in,
		Deps:     deps,
	})
	bag.Sort()
	return res, bag
}

func wantCodes(t *testing.T, bag *diag.Bag, want ...diag.Code) {
	t.Helper()
	items := bag.Items()
	if len(items) != len(want) {
		for _, d := range items {
			t.Logf("  %s: %s", d.Code, d.Message)
		}
		t.Fatalf("diag count = %d, want %d", len(items), len(want))
	}
	got := make(map[diag.Code]int)
	for _, d := range items {
		got[d.Code]++
	}
	expected := make(map[diag.Code]int)
	for _, c := range want {
		expected[c]++
	}
	for c, n := range expected {
		if got[c] != n {
			for _, d := range items {
				t.Logf("  %s: %s", d.Code, d.Message)
			}
			t.Fatalf("code %s seen %d times, want %d", c, got[c], n)
		}
	}
}

func wantClean(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if bag.Len() != 0 {
		for _, d := range bag.Items() {
			t.Logf("  %s: %s", d.Code, d.Message)
		}
		t.Fatalf("expected no diagnostics, got %d", bag.Len())
	}
}
