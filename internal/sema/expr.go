package sema

import (
	"strconv"
	"strings"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/registry"
	"pyrite/internal/symbols"
	"pyrite/internal/types"
)

func (c *checker) checkExpr(e ast.Expr) types.TypeID {
	bt := c.interner.Builtins()
	switch e := e.(type) {
	case *ast.IntLit:
		return c.checkIntLit(e, false)
	case *ast.FloatLit:
		return c.setType(e, bt.Float)
	case *ast.StringLit:
		return c.setType(e, bt.String)
	case *ast.BoolLit:
		return c.setType(e, bt.Bool)
	case *ast.UnitLit:
		return c.setType(e, bt.Unit)
	case *ast.Name:
		return c.checkName(e)
	case *ast.Unary:
		return c.checkUnary(e)
	case *ast.Binary:
		return c.checkBinary(e)
	case *ast.Member:
		return c.checkMember(e)
	case *ast.Call:
		return c.checkCall(e)
	case *ast.Index:
		return c.checkIndex(e)
	case *ast.TupleLit:
		elems := make([]types.TypeID, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = c.checkExpr(el)
		}
		return c.setType(e, c.interner.Intern(types.MakeTuple(elems)))
	case *ast.ListLit:
		elem, ok := c.unifyElems(e.Elems, "list")
		if !ok {
			if len(e.Elems) == 0 {
				c.report(diag.SemaTypeMismatch, e.Span,
					"cannot infer the element type of an empty list; add an annotation")
			}
			return c.setType(e, c.invalid())
		}
		return c.setType(e, c.interner.Intern(types.MakeList(elem)))
	case *ast.SetLit:
		elem, ok := c.unifyElems(e.Elems, "set")
		if !ok {
			if len(e.Elems) == 0 {
				c.report(diag.SemaTypeMismatch, e.Span,
					"cannot infer the element type of an empty set; add an annotation")
			}
			return c.setType(e, c.invalid())
		}
		return c.setType(e, c.interner.Intern(types.MakeSet(elem)))
	case *ast.MapLit:
		return c.checkMapLit(e)
	case *ast.ListComp:
		return c.checkListComp(e)
	default:
		return c.invalid()
	}
}

// checkExprWithTarget checks an expression that flows into a typed slot.
// Unsuffixed numeric literals and empty collection literals adapt to the
// target when they fit; everything else checks as usual and the caller
// decides assignability.
func (c *checker) checkExprWithTarget(e ast.Expr, target types.TypeID) types.TypeID {
	if !target.IsValid() {
		return c.checkExpr(e)
	}
	tt := c.interner.Get(target)
	switch e := e.(type) {
	case *ast.IntLit:
		if e.Suffix == "" && tt.IsInteger() {
			if !types.IntLiteralFits(e.Text, false, tt) {
				c.report(diag.SemaNumericOutOfRange, e.Span,
					"literal %s does not fit %s", e.Text, c.typeName(target))
				return c.setType(e, c.invalid())
			}
			return c.setType(e, target)
		}
		if e.Suffix == "" && tt.Kind == types.KindFloat {
			return c.setType(e, target)
		}
	case *ast.FloatLit:
		if tt.Kind == types.KindFloat {
			return c.setType(e, target)
		}
	case *ast.Unary:
		if lit, ok := e.Operand.(*ast.IntLit); ok && e.Op == ast.UnNeg && lit.Suffix == "" && tt.Kind == types.KindInt {
			if !types.IntLiteralFits(lit.Text, true, tt) {
				c.report(diag.SemaNumericOutOfRange, e.Span,
					"literal -%s does not fit %s", lit.Text, c.typeName(target))
				return c.setType(e, c.invalid())
			}
			c.setType(e.Operand, target)
			return c.setType(e, target)
		}
	case *ast.ListLit:
		if len(e.Elems) == 0 && tt.Kind == types.KindList {
			return c.setType(e, target)
		}
	case *ast.SetLit:
		if len(e.Elems) == 0 && tt.Kind == types.KindSet {
			return c.setType(e, target)
		}
	case *ast.MapLit:
		if len(e.Entries) == 0 && tt.Kind == types.KindMap {
			return c.setType(e, target)
		}
	}
	return c.checkExpr(e)
}

func (c *checker) checkIntLit(e *ast.IntLit, negative bool) types.TypeID {
	t, ok := types.SuffixType(e.Suffix)
	if !ok {
		c.report(diag.SemaNumericOutOfRange, e.Span, "unknown numeric suffix %q", e.Suffix)
		return c.setType(e, c.invalid())
	}
	if !types.IntLiteralFits(e.Text, negative, t) {
		rendered := e.Text + e.Suffix
		if negative {
			rendered = "-" + rendered
		}
		c.report(diag.SemaNumericOutOfRange, e.Span,
			"literal %s does not fit %s", rendered, c.typeName(c.interner.Intern(t)))
		return c.setType(e, c.invalid())
	}
	return c.setType(e, c.interner.Intern(t))
}

func (c *checker) checkName(e *ast.Name) types.TypeID {
	if id, ok := c.scopes.Lookup(e.Ident); ok {
		return c.setType(e, c.scopes.Get(id).Type)
	}
	if _, isType := c.res.Records[e.Ident]; isType {
		c.report(diag.SemaTypeMismatch, e.Span, "%s is a type, not a value", e.Ident)
		return c.setType(e, c.invalid())
	}
	if _, isType := c.res.Enums[e.Ident]; isType {
		c.report(diag.SemaTypeMismatch, e.Span, "%s is a type, not a value", e.Ident)
		return c.setType(e, c.invalid())
	}
	if fi, ok := c.res.Funcs[e.Ident]; ok {
		return c.setType(e, c.funcType(fi))
	}
	c.report(diag.SemaUnknownName, e.Span, "unknown name %q", e.Ident)
	return c.setType(e, c.invalid())
}

func (c *checker) funcType(fi *FuncInfo) types.TypeID {
	return c.interner.Intern(types.MakeFunc(fi.Params, fi.Return))
}

func (c *checker) checkUnary(e *ast.Unary) types.TypeID {
	if e.Op == ast.UnNeg {
		// a negated literal is range-checked as one signed value, so
		// -128i8 is fine even though 128i8 alone is not
		if lit, ok := e.Operand.(*ast.IntLit); ok {
			id := c.checkIntLit(lit, true)
			return c.setType(e, id)
		}
	}
	ot := c.checkExpr(e.Operand)
	if !ot.IsValid() {
		return c.setType(e, c.invalid())
	}
	t := c.interner.Get(ot)
	switch e.Op {
	case ast.UnNeg:
		if t.Kind == types.KindUint {
			c.report(diag.SemaInvalidOperands, e.Span,
				"cannot negate the unsigned type %s", c.typeName(ot))
			return c.setType(e, c.invalid())
		}
		if !t.IsNumeric() {
			c.report(diag.SemaInvalidOperands, e.Span,
				"cannot negate %s", c.typeName(ot))
			return c.setType(e, c.invalid())
		}
		return c.setType(e, ot)
	case ast.UnNot:
		if t.Kind != types.KindBool {
			c.report(diag.SemaInvalidOperands, e.Span,
				"not needs a bool operand, got %s", c.typeName(ot))
			return c.setType(e, c.invalid())
		}
		return c.setType(e, ot)
	}
	return c.setType(e, c.invalid())
}

func (c *checker) checkMember(m *ast.Member) types.TypeID {
	// enum namespaces are not value bindings, so Color.Red resolves
	// before the object is checked as an expression
	if n, ok := m.Object.(*ast.Name); ok {
		if _, bound := c.scopes.Lookup(n.Ident); !bound {
			if en, ok := c.res.Enums[n.Ident]; ok {
				c.setType(m.Object, en.Type)
				return c.checkVariantAccess(m, en)
			}
		}
	}
	ot := c.checkExpr(m.Object)
	if !ot.IsValid() {
		return c.setType(m, c.invalid())
	}
	t := c.interner.Get(ot)

	if t.Kind == types.KindModule {
		return c.checkModuleMember(m, t.Name)
	}
	if rec := c.recordFor(ot); rec != nil {
		if fd, ok := rec.Resolve(m.Name); ok {
			return c.setType(m, fd.Type)
		}
		if fi, ok := rec.Methods[m.Name]; ok {
			return c.setType(m, c.funcType(fi))
		}
		c.reportUnknownRecordMember(rec, m)
		return c.setType(m, c.invalid())
	}
	if en := c.enumFor(ot); en != nil {
		c.report(diag.SemaUnknownField, m.NameSpan,
			"enum values have no members; variants are accessed as %s.%s", en.Name, m.Name)
		return c.setType(m, c.invalid())
	}
	if tn, ok := builtinSurfaceName(t); ok {
		if sig, found := c.builtins.Lookup(tn, m.Name); found {
			return c.setType(m, c.interner.Intern(types.MakeFunc(sig.Params, c.builtinResult(sig, ot))))
		}
		c.report(diag.SemaUnknownMethod, m.NameSpan,
			"%s has no method %q", c.typeName(ot), m.Name)
		return c.setType(m, c.invalid())
	}
	c.report(diag.SemaUnknownMethod, m.NameSpan,
		"type %s has no member %q", c.typeName(ot), m.Name)
	return c.setType(m, c.invalid())
}

func (c *checker) checkVariantAccess(m *ast.Member, en *EnumInfo) types.TypeID {
	if en.Variant(m.Name) {
		return c.setType(m, en.Type)
	}
	d := diag.NewError(diag.SemaUnknownField, m.NameSpan,
		"enum "+en.Name+" has no variant "+m.Name)
	if hint := registry.ClosestName(m.Name, en.Variants); hint != "" {
		d = d.WithNote(m.NameSpan, "did you mean "+hint+"?")
	}
	diag.Emit(c.reporter, d)
	return c.setType(m, c.invalid())
}

func (c *checker) checkModuleMember(m *ast.Member, path string) types.TypeID {
	exp := c.moduleByPath(path)
	if exp == nil {
		return c.setType(m, c.invalid())
	}
	if cb, ok := exp.Consts[m.Name]; ok {
		return c.setType(m, cb.Type)
	}
	if fi, ok := exp.Funcs[m.Name]; ok {
		return c.setType(m, c.funcType(fi))
	}
	if _, ok := exp.Records[m.Name]; ok {
		c.report(diag.SemaTypeMismatch, m.NameSpan,
			"%s.%s is a type, not a value", path, m.Name)
		return c.setType(m, c.invalid())
	}
	if _, ok := exp.Enums[m.Name]; ok {
		c.report(diag.SemaTypeMismatch, m.NameSpan,
			"%s.%s is a type, not a value", path, m.Name)
		return c.setType(m, c.invalid())
	}
	c.report(diag.SemaUnknownName, m.NameSpan,
		"module %q has no member %q", path, m.Name)
	return c.setType(m, c.invalid())
}

func (c *checker) moduleByPath(path string) *ModuleExport {
	for _, exp := range c.modules {
		if exp.Path == path {
			return exp
		}
	}
	return nil
}

func (c *checker) reportUnknownRecordMember(rec *RecordInfo, m *ast.Member) {
	candidates := make([]string, 0, len(rec.ByName)+len(rec.ByAlias)+len(rec.Methods))
	for _, fd := range rec.Fields {
		candidates = append(candidates, fd.Name)
		if fd.Alias != "" {
			candidates = append(candidates, fd.Alias)
		}
	}
	for name := range rec.Methods {
		candidates = append(candidates, name)
	}
	d := diag.NewError(diag.SemaUnknownField, m.NameSpan,
		"record "+rec.Name+" has no field, alias or method "+strconv.Quote(m.Name))
	if hint := registry.ClosestName(m.Name, candidates); hint != "" {
		d = d.WithNote(m.NameSpan, "did you mean "+hint+"?")
	}
	diag.Emit(c.reporter, d)
}

func builtinSurfaceName(t types.Type) (string, bool) {
	switch t.Kind {
	case types.KindString:
		return "str", true
	case types.KindInt, types.KindUint:
		return "int", true
	case types.KindFloat:
		return "float", true
	case types.KindList:
		return "List", true
	case types.KindSet:
		return "Set", true
	case types.KindMap:
		return "Dict", true
	}
	return "", false
}

func (c *checker) builtinResult(sig registry.MethodSig, receiver types.TypeID) types.TypeID {
	t := c.interner.Get(receiver)
	switch sig.Rule {
	case registry.ResultSelf:
		return receiver
	case registry.ResultElem:
		return t.Elem
	case registry.ResultOptionElem:
		return c.interner.Intern(types.MakeOption(t.Elem))
	default:
		return sig.Result
	}
}

func (c *checker) checkCall(call *ast.Call) types.TypeID {
	switch callee := call.Callee.(type) {
	case *ast.Name:
		if _, bound := c.scopes.Lookup(callee.Ident); !bound {
			if types.IsPrimitiveName(callee.Ident) {
				return c.checkConversion(callee, call)
			}
			if rec, ok := c.res.Records[callee.Ident]; ok {
				c.setType(callee, rec.Type)
				return c.setType(call, c.checkConstruct(rec, call))
			}
			if en, ok := c.res.Enums[callee.Ident]; ok {
				c.report(diag.SemaTypeMismatch, call.Span,
					"enum %s is not callable; variants are accessed as %s.Variant",
					en.Name, en.Name)
				return c.setType(call, c.invalid())
			}
			if fi, ok := c.res.Funcs[callee.Ident]; ok {
				c.setType(callee, c.funcType(fi))
				return c.setType(call, c.checkArgs(fi, call, "function "+fi.Name))
			}
			c.report(diag.SemaUnknownName, callee.Span, "unknown function %q", callee.Ident)
			return c.setType(call, c.invalid())
		}
	case *ast.Member:
		return c.checkMemberCall(callee, call)
	}

	ct := c.checkExpr(call.Callee)
	if !ct.IsValid() {
		return c.setType(call, c.invalid())
	}
	t := c.interner.Get(ct)
	if t.Kind != types.KindFunc {
		c.report(diag.SemaTypeMismatch, call.Callee.Pos(),
			"%s is not callable", c.typeName(ct))
		return c.setType(call, c.invalid())
	}
	fi := &FuncInfo{Params: t.Args, Return: t.Elem}
	return c.setType(call, c.checkArgs(fi, call, "function value"))
}

func (c *checker) checkMemberCall(mem *ast.Member, call *ast.Call) types.TypeID {
	if n, ok := mem.Object.(*ast.Name); ok {
		if _, bound := c.scopes.Lookup(n.Ident); !bound {
			if en, ok := c.res.Enums[n.Ident]; ok {
				c.setType(mem.Object, en.Type)
				c.checkVariantAccess(mem, en)
				c.report(diag.SemaTypeMismatch, call.Span,
					"variant %s.%s is not callable", en.Name, mem.Name)
				return c.setType(call, c.invalid())
			}
		}
	}
	ot := c.checkExpr(mem.Object)
	if !ot.IsValid() {
		return c.setType(call, c.invalid())
	}
	t := c.interner.Get(ot)

	if t.Kind == types.KindModule {
		exp := c.moduleByPath(t.Name)
		if exp == nil {
			return c.setType(call, c.invalid())
		}
		if fi, ok := exp.Funcs[mem.Name]; ok {
			c.setType(mem, c.funcType(fi))
			return c.setType(call, c.checkArgs(fi, call, "function "+t.Name+"."+fi.Name))
		}
		if rec, ok := exp.Records[mem.Name]; ok {
			c.setType(mem, rec.Type)
			return c.setType(call, c.checkConstruct(rec, call))
		}
		if _, ok := exp.Consts[mem.Name]; ok {
			c.report(diag.SemaTypeMismatch, mem.NameSpan,
				"%s.%s is a constant, not a function", t.Name, mem.Name)
			return c.setType(call, c.invalid())
		}
		c.report(diag.SemaUnknownName, mem.NameSpan,
			"module %q has no member %q", t.Name, mem.Name)
		return c.setType(call, c.invalid())
	}

	if rec := c.recordFor(ot); rec != nil {
		if fi, ok := rec.Methods[mem.Name]; ok {
			c.setType(mem, c.funcType(fi))
			return c.setType(call, c.checkArgs(fi, call, "method "+rec.Name+"."+fi.Name))
		}
		if fd, ok := rec.Resolve(mem.Name); ok {
			c.reportWithNote(diag.SemaUnknownMethod, mem.NameSpan,
				"record "+rec.Name+" has no method "+mem.Name,
				fd.Span, "a field with that name exists, but fields are not callable")
			return c.setType(call, c.invalid())
		}
		c.reportUnknownRecordMember(rec, mem)
		return c.setType(call, c.invalid())
	}

	if tn, ok := builtinSurfaceName(t); ok {
		if sig, found := c.builtins.Lookup(tn, mem.Name); found {
			fi := &FuncInfo{Name: mem.Name, Params: sig.Params, Return: c.builtinResult(sig, ot)}
			c.setType(mem, c.funcType(fi))
			return c.setType(call, c.checkArgs(fi, call, "method "+c.typeName(ot)+"."+mem.Name))
		}
		c.report(diag.SemaUnknownMethod, mem.NameSpan,
			"%s has no method %q", c.typeName(ot), mem.Name)
		return c.setType(call, c.invalid())
	}

	c.report(diag.SemaUnknownMethod, mem.NameSpan,
		"type %s has no member %q", c.typeName(ot), mem.Name)
	return c.setType(call, c.invalid())
}

// checkArgs validates a call against a signature: positional arguments in
// order, keyword arguments by parameter name, every parameter bound
// exactly once.
func (c *checker) checkArgs(fi *FuncInfo, call *ast.Call, what string) types.TypeID {
	if len(call.Args) > len(fi.Params) {
		c.report(diag.SemaArityMismatch, call.Span,
			"%s takes %d arguments, got %d", what, len(fi.Params), len(call.Args)+len(call.Kwargs))
		return fi.Return
	}
	bound := make([]bool, len(fi.Params))
	for i, arg := range call.Args {
		bound[i] = true
		got := c.checkExprWithTarget(arg, fi.Params[i])
		if !c.assignable(got, fi.Params[i]) {
			c.report(diag.SemaTypeMismatch, arg.Pos(),
				"argument %d of %s has type %s, expected %s",
				i+1, what, c.typeName(got), c.typeName(fi.Params[i]))
		}
	}
	for _, kw := range call.Kwargs {
		idx := -1
		for i, pn := range fi.ParamNames {
			if pn == kw.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			c.report(diag.SemaUnknownName, kw.NameSpan,
				"%s has no parameter %q", what, kw.Name)
			c.checkExpr(kw.Value)
			continue
		}
		if bound[idx] {
			c.report(diag.SemaDuplicateBinding, kw.NameSpan,
				"parameter %q is bound more than once in this call", kw.Name)
			c.checkExpr(kw.Value)
			continue
		}
		bound[idx] = true
		got := c.checkExprWithTarget(kw.Value, fi.Params[idx])
		if !c.assignable(got, fi.Params[idx]) {
			c.report(diag.SemaTypeMismatch, kw.Value.Pos(),
				"argument %q of %s has type %s, expected %s",
				kw.Name, what, c.typeName(got), c.typeName(fi.Params[idx]))
		}
	}
	var missing []string
	for i, b := range bound {
		if !b {
			name := "#" + strconv.Itoa(i+1)
			if i < len(fi.ParamNames) && fi.ParamNames[i] != "" {
				name = fi.ParamNames[i]
			}
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		c.report(diag.SemaArityMismatch, call.Span,
			"%s is missing arguments: %s", what, strings.Join(missing, ", "))
	}
	return fi.Return
}

// checkConstruct validates Record(...) construction. Keyword arguments
// resolve canonical-first, then alias; binding the same field through both
// spellings is rejected.
func (c *checker) checkConstruct(rec *RecordInfo, call *ast.Call) types.TypeID {
	if len(call.Args) > len(rec.Fields) {
		c.report(diag.SemaArityMismatch, call.Span,
			"%s has %d fields, got %d positional arguments",
			rec.Name, len(rec.Fields), len(call.Args))
		return rec.Type
	}
	assigned := make(map[string]*ast.Kwarg, len(rec.Fields))
	for i, arg := range call.Args {
		fd := rec.Fields[i]
		assigned[fd.Name] = nil
		got := c.checkExprWithTarget(arg, fd.Type)
		if !c.assignable(got, fd.Type) {
			c.report(diag.SemaTypeMismatch, arg.Pos(),
				"field %s of %s has type %s, got %s",
				fd.Name, rec.Name, c.typeName(fd.Type), c.typeName(got))
		}
	}
	for _, kw := range call.Kwargs {
		fd, ok := rec.Resolve(kw.Name)
		if !ok {
			c.reportUnknownConstructKey(rec, kw)
			c.checkExpr(kw.Value)
			continue
		}
		if prev, dup := assigned[fd.Name]; dup {
			msg := "field " + fd.Name + " is assigned more than once"
			if kw.Name != fd.Name {
				msg = "field " + fd.Name + " is assigned again through its alias " + strconv.Quote(kw.Name)
			}
			d := diag.NewError(diag.SemaDuplicateField, kw.NameSpan, msg)
			if prev != nil {
				d = d.WithNote(prev.NameSpan, "first assigned here")
			}
			diag.Emit(c.reporter, d)
			c.checkExpr(kw.Value)
			continue
		}
		assigned[fd.Name] = kw
		got := c.checkExprWithTarget(kw.Value, fd.Type)
		if !c.assignable(got, fd.Type) {
			c.report(diag.SemaTypeMismatch, kw.Value.Pos(),
				"field %s of %s has type %s, got %s",
				fd.Name, rec.Name, c.typeName(fd.Type), c.typeName(got))
		}
	}
	var missing []string
	for _, fd := range rec.Fields {
		if _, ok := assigned[fd.Name]; !ok && !fd.HasDefault {
			missing = append(missing, fd.Name)
		}
	}
	if len(missing) > 0 {
		c.report(diag.SemaMissingField, call.Span,
			"construction of %s is missing fields: %s", rec.Name, strings.Join(missing, ", "))
	}
	return rec.Type
}

func (c *checker) reportUnknownConstructKey(rec *RecordInfo, kw *ast.Kwarg) {
	candidates := make([]string, 0, len(rec.Fields)*2)
	for _, fd := range rec.Fields {
		candidates = append(candidates, fd.Name)
		if fd.Alias != "" {
			candidates = append(candidates, fd.Alias)
		}
	}
	d := diag.NewError(diag.SemaUnknownField, kw.NameSpan,
		"record "+rec.Name+" has no field or alias "+strconv.Quote(kw.Name))
	if hint := registry.ClosestName(kw.Name, candidates); hint != "" {
		d = d.WithNote(kw.NameSpan, "did you mean "+hint+"?")
	}
	diag.Emit(c.reporter, d)
}

// checkConversion handles the builtin conversion form i32(x), float(x),
// str(x) and friends.
func (c *checker) checkConversion(callee *ast.Name, call *ast.Call) types.TypeID {
	target, _ := types.AnnotationType(callee.Ident)
	targetID := c.interner.Intern(target)
	c.setType(callee, targetID)
	if len(call.Args) != 1 || len(call.Kwargs) != 0 {
		c.report(diag.SemaArityMismatch, call.Span,
			"%s(...) takes exactly one argument", callee.Ident)
		return c.setType(call, c.invalid())
	}
	at := c.checkExpr(call.Args[0])
	if !at.IsValid() {
		return c.setType(call, c.invalid())
	}
	t := c.interner.Get(at)
	switch {
	case target.Kind == types.KindString:
		// everything renders
	case target.IsNumeric():
		if !t.IsNumeric() && t.Kind != types.KindBool {
			c.report(diag.SemaTypeMismatch, call.Args[0].Pos(),
				"cannot convert %s to %s", c.typeName(at), callee.Ident)
			return c.setType(call, c.invalid())
		}
	case target.Kind == types.KindBool:
		if !t.IsNumeric() && t.Kind != types.KindBool {
			c.report(diag.SemaTypeMismatch, call.Args[0].Pos(),
				"cannot convert %s to bool", c.typeName(at))
			return c.setType(call, c.invalid())
		}
	case target.Kind == types.KindBytes:
		if t.Kind != types.KindString && t.Kind != types.KindBytes {
			c.report(diag.SemaTypeMismatch, call.Args[0].Pos(),
				"cannot convert %s to bytes", c.typeName(at))
			return c.setType(call, c.invalid())
		}
	default:
		c.report(diag.SemaTypeMismatch, call.Span,
			"%s is not a conversion target", callee.Ident)
		return c.setType(call, c.invalid())
	}
	return c.setType(call, targetID)
}

func (c *checker) checkIndex(e *ast.Index) types.TypeID {
	ot := c.checkExpr(e.Object)
	if !ot.IsValid() {
		c.checkExpr(e.Key)
		return c.setType(e, c.invalid())
	}
	t := c.interner.Get(ot)
	bt := c.interner.Builtins()
	switch t.Kind {
	case types.KindList:
		c.requireIntKey(e.Key, "list")
		return c.setType(e, t.Elem)
	case types.KindMap:
		kt := c.checkExprWithTarget(e.Key, t.Extra)
		if !c.assignable(kt, t.Extra) {
			c.report(diag.SemaTypeMismatch, e.Key.Pos(),
				"%s key has type %s, expected %s",
				c.typeName(ot), c.typeName(kt), c.typeName(t.Extra))
		}
		return c.setType(e, t.Elem)
	case types.KindTuple:
		lit, ok := e.Key.(*ast.IntLit)
		if !ok {
			c.report(diag.SemaTypeMismatch, e.Key.Pos(),
				"tuple index must be an integer literal")
			return c.setType(e, c.invalid())
		}
		idx, ok := types.IntLiteralValue(lit.Text, false)
		if !ok || idx < 0 || idx >= int64(len(t.Args)) {
			c.report(diag.SemaTypeMismatch, lit.Span,
				"tuple index %s out of range for %s", lit.Text, c.typeName(ot))
			return c.setType(e, c.invalid())
		}
		c.setType(e.Key, bt.Int)
		return c.setType(e, t.Args[idx])
	case types.KindString:
		c.requireIntKey(e.Key, "str")
		return c.setType(e, bt.String)
	case types.KindBytes:
		c.requireIntKey(e.Key, "bytes")
		return c.setType(e, bt.Int)
	}
	c.report(diag.SemaTypeMismatch, e.Span, "%s cannot be indexed", c.typeName(ot))
	c.checkExpr(e.Key)
	return c.setType(e, c.invalid())
}

func (c *checker) requireIntKey(key ast.Expr, what string) {
	kt := c.checkExpr(key)
	if !kt.IsValid() {
		return
	}
	if !c.interner.Get(kt).IsInteger() {
		c.report(diag.SemaTypeMismatch, key.Pos(),
			"%s index must be an integer, got %s", what, c.typeName(kt))
	}
}

func (c *checker) checkMapLit(e *ast.MapLit) types.TypeID {
	if len(e.Entries) == 0 {
		c.report(diag.SemaTypeMismatch, e.Span,
			"cannot infer the type of an empty map; add an annotation")
		return c.setType(e, c.invalid())
	}
	keys := make([]ast.Expr, len(e.Entries))
	values := make([]ast.Expr, len(e.Entries))
	for i, en := range e.Entries {
		keys[i] = en.Key
		values[i] = en.Value
	}
	key, kok := c.unifyElems(keys, "map key")
	val, vok := c.unifyElems(values, "map value")
	if !kok || !vok {
		return c.setType(e, c.invalid())
	}
	return c.setType(e, c.interner.Intern(types.MakeMap(key, val)))
}

// unifyElems finds the common element type of a literal's elements,
// allowing the wide-int-to-float widening in either direction of the scan.
func (c *checker) unifyElems(elems []ast.Expr, what string) (types.TypeID, bool) {
	if len(elems) == 0 {
		return types.NoTypeID, false
	}
	unified := c.checkExpr(elems[0])
	if !unified.IsValid() {
		return types.NoTypeID, false
	}
	for _, el := range elems[1:] {
		et := c.checkExpr(el)
		if !et.IsValid() {
			return types.NoTypeID, false
		}
		if c.assignable(et, unified) {
			continue
		}
		if c.assignable(unified, et) {
			unified = et
			continue
		}
		c.report(diag.SemaTypeMismatch, el.Pos(),
			"%s elements mix %s and %s", what, c.typeName(unified), c.typeName(et))
		return types.NoTypeID, false
	}
	return unified, true
}

func (c *checker) checkListComp(e *ast.ListComp) types.TypeID {
	iter := c.checkExpr(e.Iter)
	elem, ok := c.iterElem(iter)
	if !ok {
		c.report(diag.SemaTypeMismatch, e.Iter.Pos(),
			"cannot iterate over %s", c.typeName(iter))
		elem = c.invalid()
	}
	c.scopes.Push(symbols.ScopeClosure)
	c.scopes.Declare(e.Var, false, elem, e.VarSpan)
	out := c.checkExpr(e.Elem)
	if e.Cond != nil {
		ct := c.checkExpr(e.Cond)
		if ct.IsValid() && c.interner.Get(ct).Kind != types.KindBool {
			c.report(diag.SemaTypeMismatch, e.Cond.Pos(),
				"comprehension filter must be bool, got %s", c.typeName(ct))
		}
	}
	c.scopes.Pop()
	if !out.IsValid() {
		return c.setType(e, c.invalid())
	}
	return c.setType(e, c.interner.Intern(types.MakeList(out)))
}

// iterElem yields the element type produced by iterating a value: list and
// set elements, map keys, string characters.
func (c *checker) iterElem(id types.TypeID) (types.TypeID, bool) {
	if !id.IsValid() {
		return types.NoTypeID, true // already reported
	}
	t := c.interner.Get(id)
	switch t.Kind {
	case types.KindList, types.KindSet:
		return t.Elem, true
	case types.KindMap:
		return t.Extra, true
	case types.KindString:
		return c.interner.Builtins().String, true
	}
	return types.NoTypeID, false
}

