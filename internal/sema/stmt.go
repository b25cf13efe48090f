package sema

import (
	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/symbols"
	"pyrite/internal/types"
)

func (c *checker) checkFuncBodies() {
	for _, fn := range c.file.Funcs {
		info := c.res.Funcs[fn.Name]
		if info == nil || info.Span != fn.NameSpan {
			continue
		}
		c.checkFuncBody(fn, info, types.NoTypeID)
	}
	for _, rec := range c.file.Records {
		rinfo := c.res.Records[rec.Name]
		if rinfo == nil {
			continue
		}
		for _, m := range rec.Methods {
			minfo := rinfo.Methods[m.Name]
			if minfo == nil || minfo.Span != m.NameSpan {
				continue
			}
			c.checkFuncBody(m, minfo, rinfo.Type)
		}
	}
}

func (c *checker) checkFuncBody(fn *ast.Func, info *FuncInfo, self types.TypeID) {
	c.scopes.Push(symbols.ScopeFunction)
	if self.IsValid() {
		c.scopes.Declare("self", false, self, fn.NameSpan)
	}
	for i, p := range fn.Params {
		ty := types.NoTypeID
		if i < len(info.Params) {
			ty = info.Params[i]
		}
		if _, ok := c.scopes.Declare(p.Name, false, ty, p.Span); !ok {
			c.report(diag.SemaDuplicateBinding, p.Span,
				"parameter %q is declared more than once", p.Name)
		}
	}
	prev := c.currentReturn
	c.currentReturn = info.Return
	c.checkStmts(fn.Body)
	c.currentReturn = prev
	c.scopes.Pop()
}

func (c *checker) checkStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		c.checkStmt(s)
	}
}

func (c *checker) checkStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Assign:
		c.checkAssign(s)
	case *ast.OpAssign:
		c.checkOpAssign(s)
	case *ast.Unpack:
		c.checkUnpack(s)
	case *ast.ExprStmt:
		c.checkExpr(s.X)
	case *ast.If:
		c.requireBool(s.Cond, "if")
		c.checkBlock(s.Then)
		if s.Else != nil {
			c.checkBlock(s.Else)
		}
	case *ast.While:
		c.requireBool(s.Cond, "while")
		c.checkBlock(s.Body)
	case *ast.For:
		c.checkFor(s)
	case *ast.Return:
		c.checkReturn(s)
	case *ast.Block:
		c.checkBlock(s.Body)
	}
}

func (c *checker) checkBlock(body []ast.Stmt) {
	c.scopes.Push(symbols.ScopeBlock)
	c.checkStmts(body)
	c.scopes.Pop()
}

// checkAssign implements the binding rule. let and let mut always declare
// a fresh binding in the current frame. A plain assignment first resolves
// the name outward: a hit reassigns (rejected when the binding is
// immutable), a miss declares a new immutable binding in the current frame.
func (c *checker) checkAssign(s *ast.Assign) {
	var declared types.TypeID
	if s.Type != nil {
		declared = c.resolveTypeRef(s.Type)
	}

	if s.Binding == ast.BindLet || s.Binding == ast.BindLetMut {
		vt := c.checkExprWithTarget(s.Value, declared)
		if declared.IsValid() && !c.assignable(vt, declared) {
			c.report(diag.SemaTypeMismatch, s.Value.Pos(),
				"cannot assign %s to %s", c.typeName(vt), c.typeName(declared))
		}
		ty := declared
		if !ty.IsValid() {
			ty = vt
		}
		mutable := s.Binding == ast.BindLetMut
		if existing, ok := c.scopes.Declare(s.Name, mutable, ty, s.NameSpan); !ok {
			c.reportWithNote(diag.SemaDuplicateBinding, s.NameSpan,
				"binding "+s.Name+" is already declared in this scope",
				c.scopes.Get(existing).Span, "first declared here")
		}
		return
	}

	if id, ok := c.scopes.Lookup(s.Name); ok {
		b := c.scopes.Get(id)
		vt := c.checkExprWithTarget(s.Value, b.Type)
		if !b.Mutable {
			c.reportWithNote(diag.SemaReassignImmutable, s.NameSpan,
				"cannot reassign immutable binding "+s.Name+"; declare it with let mut",
				b.Span, "declared here")
			return
		}
		if declared.IsValid() && declared != b.Type {
			c.report(diag.SemaTypeMismatch, s.Span,
				"annotation %s conflicts with the declared type %s of %q",
				c.typeName(declared), c.typeName(b.Type), s.Name)
			return
		}
		if !c.assignable(vt, b.Type) {
			c.report(diag.SemaTypeMismatch, s.Value.Pos(),
				"cannot assign %s to %q of type %s",
				c.typeName(vt), s.Name, c.typeName(b.Type))
		}
		return
	}

	vt := c.checkExprWithTarget(s.Value, declared)
	if declared.IsValid() && !c.assignable(vt, declared) {
		c.report(diag.SemaTypeMismatch, s.Value.Pos(),
			"cannot assign %s to %s", c.typeName(vt), c.typeName(declared))
	}
	ty := declared
	if !ty.IsValid() {
		ty = vt
	}
	c.scopes.Declare(s.Name, false, ty, s.NameSpan)
}

// checkOpAssign type-checks x op= y exactly as x = x op y would check,
// including the promotion rules: x /= 2 on an int binding fails because
// true division floats.
func (c *checker) checkOpAssign(s *ast.OpAssign) {
	id, ok := c.scopes.Lookup(s.Name)
	if !ok {
		c.report(diag.SemaUnknownName, s.NameSpan, "unknown name %q", s.Name)
		c.checkExpr(s.Value)
		return
	}
	b := c.scopes.Get(id)
	rt := c.checkExpr(s.Value)
	if !b.Mutable {
		c.reportWithNote(diag.SemaReassignImmutable, s.NameSpan,
			"cannot reassign immutable binding "+s.Name+"; declare it with let mut",
			b.Span, "declared here")
		return
	}
	res := c.binaryResultType(s.Op, b.Type, rt, s.Span, s.Value)
	if res.IsValid() && !c.assignable(res, b.Type) {
		c.report(diag.SemaTypeMismatch, s.Span,
			"%s %s= ... produces %s, but %q has type %s",
			s.Name, s.Op, c.typeName(res), s.Name, c.typeName(b.Type))
	}
}

func (c *checker) checkUnpack(s *ast.Unpack) {
	vt := c.checkExpr(s.Value)
	mutable := s.Binding == ast.BindLetMut
	switch p := s.Pattern.(type) {
	case *ast.TuplePattern:
		c.checkTuplePattern(p, vt, mutable)
	case *ast.RecordPattern:
		c.checkRecordPattern(p, vt, mutable)
	}
}

func (c *checker) checkTuplePattern(p *ast.TuplePattern, vt types.TypeID, mutable bool) {
	var elems []types.TypeID
	if vt.IsValid() {
		t := c.interner.Get(vt)
		if t.Kind != types.KindTuple {
			c.report(diag.SemaTypeMismatch, p.Span,
				"cannot destructure %s as a tuple", c.typeName(vt))
		} else if len(t.Args) != len(p.Names) {
			c.report(diag.SemaArityMismatch, p.Span,
				"pattern has %d names, value is a %d-tuple", len(p.Names), len(t.Args))
		} else {
			elems = t.Args
		}
	}
	for i, n := range p.Names {
		if n.Name == "_" {
			continue
		}
		ty := types.NoTypeID
		if elems != nil {
			ty = elems[i]
		}
		if existing, ok := c.scopes.Declare(n.Name, mutable, ty, n.Span); !ok {
			c.reportWithNote(diag.SemaDuplicateBinding, n.Span,
				"binding "+n.Name+" is already declared in this scope",
				c.scopes.Get(existing).Span, "first declared here")
		}
	}
}

// checkRecordPattern destructures a record value. Keys resolve like
// construction keys do: canonical name first, then alias, and matching the
// same field through both spellings is an error.
func (c *checker) checkRecordPattern(p *ast.RecordPattern, vt types.TypeID, mutable bool) {
	var rec *RecordInfo
	if p.TypeName != "" {
		rec = c.res.Records[p.TypeName]
		if rec == nil {
			c.report(diag.SemaUnknownName, p.TypeSpan, "unknown type %q", p.TypeName)
		} else if vt.IsValid() && vt != rec.Type {
			c.report(diag.SemaTypeMismatch, p.Span,
				"pattern matches %s, value has type %s", rec.Name, c.typeName(vt))
		}
	} else {
		rec = c.recordFor(vt)
		if rec == nil && vt.IsValid() {
			c.report(diag.SemaTypeMismatch, p.Span,
				"cannot destructure %s as a record", c.typeName(vt))
		}
	}

	matched := make(map[string]*ast.PatternField, len(p.Fields))
	for _, f := range p.Fields {
		ty := types.NoTypeID
		if rec != nil {
			fd, ok := rec.Resolve(f.Key)
			if !ok {
				kw := &ast.Kwarg{Name: f.Key, NameSpan: f.KeySpan}
				c.reportUnknownConstructKey(rec, kw)
			} else if prev, dup := matched[fd.Name]; dup {
				c.reportWithNote(diag.SemaDuplicateField, f.KeySpan,
					"field "+fd.Name+" is matched more than once",
					prev.KeySpan, "first matched here")
			} else {
				matched[fd.Name] = f
				ty = fd.Type
			}
		}
		binder := f.Binder
		if binder == "" {
			binder = f.Key
		}
		if binder == "_" {
			continue
		}
		if existing, ok := c.scopes.Declare(binder, mutable, ty, f.Span); !ok {
			c.reportWithNote(diag.SemaDuplicateBinding, f.Span,
				"binding "+binder+" is already declared in this scope",
				c.scopes.Get(existing).Span, "first declared here")
		}
	}
}

func (c *checker) checkFor(s *ast.For) {
	iter := c.checkExpr(s.Iter)
	elem, ok := c.iterElem(iter)
	if !ok {
		c.report(diag.SemaTypeMismatch, s.Iter.Pos(),
			"cannot iterate over %s", c.typeName(iter))
		elem = types.NoTypeID
	}
	c.scopes.Push(symbols.ScopeBlock)
	if s.Var != "_" {
		c.scopes.Declare(s.Var, false, elem, s.VarSpan)
	}
	c.checkStmts(s.Body)
	c.scopes.Pop()
}

func (c *checker) checkReturn(s *ast.Return) {
	bt := c.interner.Builtins()
	want := c.currentReturn
	if s.Value == nil {
		if want.IsValid() && want != bt.Unit {
			c.report(diag.SemaTypeMismatch, s.Span,
				"missing return value; this function returns %s", c.typeName(want))
		}
		return
	}
	got := c.checkExprWithTarget(s.Value, want)
	if !c.assignable(got, want) {
		c.report(diag.SemaTypeMismatch, s.Value.Pos(),
			"returning %s, this function returns %s", c.typeName(got), c.typeName(want))
	}
}

func (c *checker) requireBool(cond ast.Expr, what string) {
	t := c.checkExpr(cond)
	if t.IsValid() && c.interner.Get(t).Kind != types.KindBool {
		c.report(diag.SemaTypeMismatch, cond.Pos(),
			"%s condition must be bool, got %s", what, c.typeName(t))
	}
}
