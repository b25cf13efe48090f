package sema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// evalFailure explains why an expression could not be evaluated at compile
// time, pointing at the disqualifying subexpression. Silent failures mark
// cascades whose root cause was already reported.
type evalFailure struct {
	Span   source.Span
	Code   diag.Code
	Msg    string
	Notes  []diag.Note
	Silent bool
}

func (e *evalFailure) Error() string { return e.Msg }

func evalFail(span source.Span, format string, args ...any) *evalFailure {
	return &evalFailure{Span: span, Code: diag.SemaNonConstEvaluable, Msg: fmt.Sprintf(format, args...)}
}

func evalFailCode(code diag.Code, span source.Span, format string, args ...any) *evalFailure {
	return &evalFailure{Span: span, Code: code, Msg: fmt.Sprintf(format, args...)}
}

// resolveFn supplies named constants to the evaluator. Module-qualified
// references arrive as "mod.NAME".
type resolveFn func(name string, span source.Span) (Value, error)

// Probe is a pure, deterministic environment hook available only to
// collection-time evaluation. Arguments arrive fully evaluated.
type Probe func(args []Value) (Value, error)

// evalEnv carries what one evaluation may consult. Strict const evaluation
// runs with a nil probe table, so probes can never leak into const results.
type evalEnv struct {
	resolve resolveFn
	probes  map[string]Probe
}

// evalConstExpr evaluates the subset of expressions permitted in constant
// position: literals, collection literals, arithmetic, comparisons, logic,
// indexing and references to other constants. Everything mutable or
// runtime-dependent fails with a message naming the construct.
func evalConstExpr(e ast.Expr, env *evalEnv) (Value, error) {
	switch e := e.(type) {
	case *ast.IntLit:
		return evalIntLit(e, false)
	case *ast.FloatLit:
		return FloatValue(e.Value), nil
	case *ast.StringLit:
		return StringValue(e.Value), nil
	case *ast.BoolLit:
		return BoolValue(e.Value), nil
	case *ast.UnitLit:
		return UnitValue(), nil
	case *ast.Name:
		return env.resolve(e.Ident, e.Span)
	case *ast.Unary:
		return evalConstUnary(e, env)
	case *ast.Binary:
		return evalConstBinary(e, env)
	case *ast.Member:
		// Only module-qualified constant references are allowed; field
		// access needs a constructed value, which constants never are.
		if mod, ok := e.Object.(*ast.Name); ok {
			return env.resolve(mod.Ident+"."+e.Name, e.Span)
		}
		return Value{}, evalFail(e.Span, "field access is not const-evaluable")
	case *ast.TupleLit:
		elems, err := evalConstList(e.Elems, env)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValTuple, Elems: elems}, nil
	case *ast.ListLit:
		elems, err := evalConstList(e.Elems, env)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValList, Elems: elems}, nil
	case *ast.SetLit:
		elems, err := evalConstList(e.Elems, env)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValSet, Elems: elems}, nil
	case *ast.MapLit:
		v := Value{Kind: ValMap}
		for _, entry := range e.Entries {
			k, err := evalConstExpr(entry.Key, env)
			if err != nil {
				return Value{}, err
			}
			val, err := evalConstExpr(entry.Value, env)
			if err != nil {
				return Value{}, err
			}
			v.Keys = append(v.Keys, k)
			v.Elems = append(v.Elems, val)
		}
		return v, nil
	case *ast.Index:
		return evalConstIndex(e, env)
	case *ast.Call:
		return evalProbeCall(e, env)
	case *ast.ListComp:
		return Value{}, evalFail(e.Span, "comprehensions are not const-evaluable")
	default:
		return Value{}, evalFail(e.Pos(), "expression is not const-evaluable")
	}
}

// evalProbeCall handles the single kind of call collection-time evaluation
// permits: a probe from the caller's table, named directly, positional
// arguments only. Without a probe table every call fails.
func evalProbeCall(e *ast.Call, env *evalEnv) (Value, error) {
	name, ok := e.Callee.(*ast.Name)
	if !ok || env.probes == nil {
		return Value{}, evalFail(e.Span, "call expressions are not const-evaluable")
	}
	probe, ok := env.probes[name.Ident]
	if !ok {
		return Value{}, evalFail(e.Span, "call expressions are not const-evaluable")
	}
	if len(e.Kwargs) > 0 {
		return Value{}, evalFail(e.Kwargs[0].Span, "keyword arguments are not allowed in probe calls")
	}
	args, err := evalConstList(e.Args, env)
	if err != nil {
		return Value{}, err
	}
	v, err := probe(args)
	if err != nil {
		return Value{}, evalFail(e.Span, "probe %s: %s", name.Ident, err)
	}
	return v, nil
}

func evalConstList(exprs []ast.Expr, env *evalEnv) ([]Value, error) {
	out := make([]Value, 0, len(exprs))
	for _, e := range exprs {
		v, err := evalConstExpr(e, env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func evalIntLit(lit *ast.IntLit, negative bool) (Value, error) {
	if lit.Suffix != "" {
		t, ok := types.SuffixType(lit.Suffix)
		if !ok {
			return Value{}, evalFail(lit.Span, "unknown numeric suffix %q", lit.Suffix)
		}
		if !types.IntLiteralFits(lit.Text, negative, t) {
			rendered := lit.Text
			if negative {
				rendered = "-" + rendered
			}
			return Value{}, evalFailCode(diag.SemaNumericOutOfRange, lit.Span,
				"literal %s does not fit %s", rendered, lit.Suffix)
		}
	}
	v, ok := types.IntLiteralValue(lit.Text, negative)
	if !ok {
		return Value{}, evalFail(lit.Span, "integer literal exceeds the evaluable range")
	}
	return IntValue(v), nil
}

func evalConstUnary(e *ast.Unary, env *evalEnv) (Value, error) {
	if e.Op == ast.UnNeg {
		if lit, ok := e.Operand.(*ast.IntLit); ok {
			return evalIntLit(lit, true)
		}
	}
	v, err := evalConstExpr(e.Operand, env)
	if err != nil {
		return Value{}, err
	}
	switch e.Op {
	case ast.UnNeg:
		switch v.Kind {
		case ValInt:
			n, err := checkedSub(0, v.Int)
			if err != nil {
				return Value{}, evalFailCode(diag.SemaNumericOutOfRange, e.Span,
					"constant expression overflows")
			}
			return IntValue(n), nil
		case ValFloat:
			return FloatValue(-v.Float), nil
		}
		return Value{}, evalFail(e.Span, "cannot negate a %s constant", v.Kind)
	case ast.UnNot:
		if v.Kind != ValBool {
			return Value{}, evalFail(e.Span, "not needs a bool, got %s", v.Kind)
		}
		return BoolValue(!v.Bool), nil
	}
	return Value{}, evalFail(e.Span, "expression is not const-evaluable")
}

func evalConstBinary(e *ast.Binary, env *evalEnv) (Value, error) {
	if e.Op == ast.OpAnd || e.Op == ast.OpOr {
		l, err := evalConstExpr(e.Left, env)
		if err != nil {
			return Value{}, err
		}
		if l.Kind != ValBool {
			return Value{}, evalFail(e.Left.Pos(), "%s needs bool operands, got %s", e.Op, l.Kind)
		}
		// short-circuit like the runtime would
		if e.Op == ast.OpAnd && !l.Bool {
			return BoolValue(false), nil
		}
		if e.Op == ast.OpOr && l.Bool {
			return BoolValue(true), nil
		}
		r, err := evalConstExpr(e.Right, env)
		if err != nil {
			return Value{}, err
		}
		if r.Kind != ValBool {
			return Value{}, evalFail(e.Right.Pos(), "%s needs bool operands, got %s", e.Op, r.Kind)
		}
		return BoolValue(r.Bool), nil
	}

	l, err := evalConstExpr(e.Left, env)
	if err != nil {
		return Value{}, err
	}
	r, err := evalConstExpr(e.Right, env)
	if err != nil {
		return Value{}, err
	}

	if e.Op.IsComparison() {
		return evalConstCompare(e, l, r)
	}

	// string and list concatenation
	if e.Op == ast.OpAdd && l.Kind == ValString && r.Kind == ValString {
		return StringValue(l.Str + r.Str), nil
	}
	if e.Op == ast.OpAdd && l.Kind == ValList && r.Kind == ValList {
		elems := make([]Value, 0, len(l.Elems)+len(r.Elems))
		elems = append(elems, l.Elems...)
		elems = append(elems, r.Elems...)
		return Value{Kind: ValList, Elems: elems}, nil
	}

	if l.Kind == ValInt && r.Kind == ValInt {
		return evalIntArith(e, l.Int, r.Int)
	}
	lf, lok := numericFloat(l)
	rf, rok := numericFloat(r)
	if lok && rok {
		return evalFloatArith(e, lf, rf)
	}
	return Value{}, evalFail(e.Span, "operator %s is not defined for %s and %s constants",
		e.Op, l.Kind, r.Kind)
}

func numericFloat(v Value) (float64, bool) {
	switch v.Kind {
	case ValInt:
		return float64(v.Int), true
	case ValFloat:
		return v.Float, true
	}
	return 0, false
}

func evalConstCompare(e *ast.Binary, l, r Value) (Value, error) {
	lf, lok := numericFloat(l)
	rf, rok := numericFloat(r)
	switch {
	case l.Kind == ValInt && r.Kind == ValInt:
		return BoolValue(compareOrdered(e.Op, l.Int, r.Int)), nil
	case lok && rok:
		// mixed numeric comparison promotes both sides to float
		return BoolValue(compareOrdered(e.Op, lf, rf)), nil
	case l.Kind == ValString && r.Kind == ValString:
		return BoolValue(compareOrdered(e.Op, l.Str, r.Str)), nil
	case l.Kind == ValBool && r.Kind == ValBool:
		switch e.Op {
		case ast.OpEq:
			return BoolValue(l.Bool == r.Bool), nil
		case ast.OpNe:
			return BoolValue(l.Bool != r.Bool), nil
		}
	}
	return Value{}, evalFail(e.Span, "%s and %s constants cannot be compared with %s",
		l.Kind, r.Kind, e.Op)
}

func compareOrdered[T int64 | float64 | string](op ast.BinOp, a, b T) bool {
	switch op {
	case ast.OpEq:
		return a == b
	case ast.OpNe:
		return a != b
	case ast.OpLt:
		return a < b
	case ast.OpLe:
		return a <= b
	case ast.OpGt:
		return a > b
	default:
		return a >= b
	}
}

func evalIntArith(e *ast.Binary, a, b int64) (Value, error) {
	overflow := func() (Value, error) {
		return Value{}, evalFailCode(diag.SemaNumericOutOfRange, e.Span,
			"constant expression overflows")
	}
	switch e.Op {
	case ast.OpAdd:
		n, err := checkedAdd(a, b)
		if err != nil {
			return overflow()
		}
		return IntValue(n), nil
	case ast.OpSub:
		n, err := checkedSub(a, b)
		if err != nil {
			return overflow()
		}
		return IntValue(n), nil
	case ast.OpMul:
		n, err := checkedMul(a, b)
		if err != nil {
			return overflow()
		}
		return IntValue(n), nil
	case ast.OpDiv:
		if b == 0 {
			return Value{}, evalFail(e.Span, "division by zero in constant expression")
		}
		// true division always floats, even for int operands
		return FloatValue(float64(a) / float64(b)), nil
	case ast.OpFloorDiv:
		if b == 0 {
			return Value{}, evalFail(e.Span, "division by zero in constant expression")
		}
		if a == math.MinInt64 && b == -1 {
			return overflow()
		}
		return IntValue(floorDiv(a, b)), nil
	case ast.OpMod:
		if b == 0 {
			return Value{}, evalFail(e.Span, "division by zero in constant expression")
		}
		return IntValue(floorMod(a, b)), nil
	case ast.OpPow:
		if b < 0 {
			return FloatValue(math.Pow(float64(a), float64(b))), nil
		}
		n, err := checkedPow(a, b)
		if err != nil {
			return overflow()
		}
		return IntValue(n), nil
	}
	return Value{}, evalFail(e.Span, "expression is not const-evaluable")
}

func evalFloatArith(e *ast.Binary, a, b float64) (Value, error) {
	switch e.Op {
	case ast.OpAdd:
		return FloatValue(a + b), nil
	case ast.OpSub:
		return FloatValue(a - b), nil
	case ast.OpMul:
		return FloatValue(a * b), nil
	case ast.OpDiv:
		if b == 0 {
			return Value{}, evalFail(e.Span, "division by zero in constant expression")
		}
		return FloatValue(a / b), nil
	case ast.OpFloorDiv:
		if b == 0 {
			return Value{}, evalFail(e.Span, "division by zero in constant expression")
		}
		return FloatValue(math.Floor(a / b)), nil
	case ast.OpMod:
		if b == 0 {
			return Value{}, evalFail(e.Span, "division by zero in constant expression")
		}
		return FloatValue(floatFloorMod(a, b)), nil
	case ast.OpPow:
		return FloatValue(math.Pow(a, b)), nil
	}
	return Value{}, evalFail(e.Span, "expression is not const-evaluable")
}

func evalConstIndex(e *ast.Index, env *evalEnv) (Value, error) {
	obj, err := evalConstExpr(e.Object, env)
	if err != nil {
		return Value{}, err
	}
	key, err := evalConstExpr(e.Key, env)
	if err != nil {
		return Value{}, err
	}
	switch obj.Kind {
	case ValList, ValTuple:
		if key.Kind != ValInt {
			return Value{}, evalFail(e.Key.Pos(), "index must be an int constant, got %s", key.Kind)
		}
		idx := key.Int
		if idx < 0 {
			idx += int64(len(obj.Elems))
		}
		if idx < 0 || idx >= int64(len(obj.Elems)) {
			return Value{}, evalFail(e.Span, "index %d out of range in constant expression", key.Int)
		}
		return obj.Elems[idx], nil
	case ValMap:
		for i, k := range obj.Keys {
			if valueEq(k, key) {
				return obj.Elems[i], nil
			}
		}
		return Value{}, evalFail(e.Span, "key %s not present in constant map", key)
	case ValString:
		if key.Kind != ValInt {
			return Value{}, evalFail(e.Key.Pos(), "index must be an int constant, got %s", key.Kind)
		}
		runes := []rune(obj.Str)
		idx := key.Int
		if idx < 0 {
			idx += int64(len(runes))
		}
		if idx < 0 || idx >= int64(len(runes)) {
			return Value{}, evalFail(e.Span, "index %d out of range in constant expression", key.Int)
		}
		return StringValue(string(runes[idx])), nil
	}
	return Value{}, evalFail(e.Span, "%s constants cannot be indexed", obj.Kind)
}

// valueEq is structural equality over evaluated values, used for map key
// lookup and nothing else.
func valueEq(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ValUnit:
		return true
	case ValBool:
		return a.Bool == b.Bool
	case ValInt:
		return a.Int == b.Int
	case ValFloat:
		return a.Float == b.Float
	case ValString:
		return a.Str == b.Str
	case ValTuple:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !valueEq(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// checkConsts evaluates every module constant in declaration order.
// References between constants recurse; the visit state detects cycles and
// reports each one exactly once.
func (c *checker) checkConsts() {
	for _, cd := range c.file.Consts {
		c.constantFor(cd.Name, cd.NameSpan)
	}
}

func (c *checker) constantFor(name string, refSpan source.Span) (Value, bool) {
	switch c.constState[name] {
	case constDone:
		cb, ok := c.res.Consts[name]
		if !ok {
			return Value{}, false
		}
		return cb.Value, true
	case constFailed:
		return Value{}, false
	case constVisiting:
		c.reportConstCycle(name, refSpan)
		return Value{}, false
	}
	cd := c.constDecls[name]
	if cd == nil {
		return Value{}, false
	}
	c.constState[name] = constVisiting
	c.constStack = append(c.constStack, name)

	var deps []string
	v, err := evalConstExpr(cd.Value, &evalEnv{resolve: func(ref string, span source.Span) (Value, error) {
		return c.resolveConstRef(ref, span, &deps)
	}})

	c.constStack = c.constStack[:len(c.constStack)-1]
	c.constState[name] = constDone

	if err != nil {
		if fail, ok := err.(*evalFailure); ok && !fail.Silent {
			c.reporter.Report(fail.Code, diag.SevError, fail.Span,
				fmt.Sprintf("const %s: %s", name, fail.Msg), fail.Notes, nil)
		}
		c.constState[name] = constFailed
		return Value{}, false
	}
	ty, ok := c.constType(cd, v)
	if !ok {
		c.constState[name] = constFailed
		return Value{}, false
	}
	if ct := c.interner.Get(ty); ct.Kind == types.KindFloat && v.Kind == ValInt {
		v = FloatValue(float64(v.Int))
	}
	c.res.Consts[name] = &ConstBinding{
		Name:  name,
		Type:  ty,
		Value: v,
		Deps:  deps,
		Span:  cd.NameSpan,
	}
	c.scopes.Declare(name, false, ty, cd.NameSpan)
	return v, true
}

// resolveConstRef resolves a name inside a constant initializer: another
// constant of this module, a module-qualified constant of an import, or a
// failure naming whatever the reference actually is.
func (c *checker) resolveConstRef(ref string, span source.Span, deps *[]string) (Value, error) {
	if mod, rest, qualified := strings.Cut(ref, "."); qualified {
		exp, ok := c.modules[mod]
		if !ok {
			return Value{}, evalFail(span, "%q is not an imported module", mod)
		}
		cb, ok := exp.Consts[rest]
		if !ok {
			return Value{}, evalFail(span, "module %q has no constant %q", mod, rest)
		}
		*deps = append(*deps, ref)
		return cb.Value, nil
	}
	if cd, isConst := c.constDecls[ref]; isConst {
		*deps = append(*deps, ref)
		if c.constState[ref] == constFailed {
			return Value{}, &evalFailure{
				Span: span,
				Code: diag.SemaNonConstEvaluable,
				Msg:  fmt.Sprintf("constant %s has no value", ref),
				Notes: []diag.Note{{
					Span: cd.NameSpan,
					Msg:  fmt.Sprintf("%s is defined here but its evaluation failed", ref),
				}},
			}
		}
		v, ok := c.constantFor(ref, span)
		if !ok {
			// root cause reported at the failing declaration
			return Value{}, &evalFailure{Span: span, Silent: true}
		}
		return v, nil
	}
	if _, isFunc := c.res.Funcs[ref]; isFunc {
		return Value{}, evalFail(span, "%s is a function, not a constant", ref)
	}
	if _, isRecord := c.res.Records[ref]; isRecord {
		return Value{}, evalFail(span, "%s is a record type, not a constant", ref)
	}
	if _, isEnum := c.res.Enums[ref]; isEnum {
		return Value{}, evalFail(span, "%s is an enum type, not a constant", ref)
	}
	return Value{}, evalFailCode(diag.SemaUnknownName, span, "unknown name %q", ref)
}

func (c *checker) reportConstCycle(name string, span source.Span) {
	start := 0
	for i, n := range c.constStack {
		if n == name {
			start = i
			break
		}
	}
	path := append(append([]string{}, c.constStack[start:]...), name)
	c.report(diag.SemaConstDependencyCycle, span,
		"constant dependency cycle: %s", strings.Join(path, " -> "))
}

// constType reconciles the evaluated value with the declared annotation,
// preferring the annotation when both are present.
func (c *checker) constType(cd *ast.Const, v Value) (types.TypeID, bool) {
	if cd.Type != nil {
		declared := c.resolveTypeRef(cd.Type)
		if !declared.IsValid() {
			return types.NoTypeID, false
		}
		if !c.valueMatches(v, declared) {
			c.report(diag.SemaTypeMismatch, cd.Value.Pos(),
				"const %s evaluates to %s, annotation says %s",
				cd.Name, c.valueTypeName(v), c.typeName(declared))
			return types.NoTypeID, false
		}
		return declared, true
	}
	ty := c.typeOfValue(v)
	if !ty.IsValid() {
		c.report(diag.SemaTypeMismatch, cd.Value.Pos(),
			"cannot infer the type of const %s without an annotation", cd.Name)
		return types.NoTypeID, false
	}
	return ty, true
}

// typeOfValue infers the type of an evaluated constant. Empty collections
// have no inferable element type and yield the invalid sentinel; those
// constants need an annotation.
func (c *checker) typeOfValue(v Value) types.TypeID {
	bt := c.interner.Builtins()
	switch v.Kind {
	case ValUnit:
		return bt.Unit
	case ValBool:
		return bt.Bool
	case ValInt:
		return bt.Int
	case ValFloat:
		return bt.Float
	case ValString:
		return bt.String
	case ValTuple:
		elems := make([]types.TypeID, len(v.Elems))
		for i, el := range v.Elems {
			elems[i] = c.typeOfValue(el)
			if !elems[i].IsValid() {
				return types.NoTypeID
			}
		}
		return c.interner.Intern(types.MakeTuple(elems))
	case ValList, ValSet:
		if len(v.Elems) == 0 {
			return types.NoTypeID
		}
		elem := c.typeOfValue(v.Elems[0])
		if !elem.IsValid() {
			return types.NoTypeID
		}
		if v.Kind == ValList {
			return c.interner.Intern(types.MakeList(elem))
		}
		return c.interner.Intern(types.MakeSet(elem))
	case ValMap:
		if len(v.Keys) == 0 {
			return types.NoTypeID
		}
		key := c.typeOfValue(v.Keys[0])
		val := c.typeOfValue(v.Elems[0])
		if !key.IsValid() || !val.IsValid() {
			return types.NoTypeID
		}
		return c.interner.Intern(types.MakeMap(key, val))
	}
	return types.NoTypeID
}

func (c *checker) valueTypeName(v Value) string {
	if ty := c.typeOfValue(v); ty.IsValid() {
		return c.typeName(ty)
	}
	return v.Kind.String()
}

// valueMatches checks an evaluated value against a declared type,
// descending into collections element by element.
func (c *checker) valueMatches(v Value, declared types.TypeID) bool {
	t := c.interner.Get(declared)
	switch t.Kind {
	case types.KindUnit:
		return v.Kind == ValUnit
	case types.KindBool:
		return v.Kind == ValBool
	case types.KindString:
		return v.Kind == ValString
	case types.KindInt, types.KindUint:
		return v.Kind == ValInt && intValueFits(v.Int, t)
	case types.KindFloat:
		return v.Kind == ValFloat || v.Kind == ValInt
	case types.KindTuple:
		if v.Kind != ValTuple || len(v.Elems) != len(t.Args) {
			return false
		}
		for i, el := range v.Elems {
			if !c.valueMatches(el, t.Args[i]) {
				return false
			}
		}
		return true
	case types.KindList, types.KindSet:
		want := ValList
		if t.Kind == types.KindSet {
			want = ValSet
		}
		if v.Kind != want {
			return false
		}
		for _, el := range v.Elems {
			if !c.valueMatches(el, t.Elem) {
				return false
			}
		}
		return true
	case types.KindMap:
		if v.Kind != ValMap {
			return false
		}
		for i := range v.Keys {
			if !c.valueMatches(v.Keys[i], t.Extra) || !c.valueMatches(v.Elems[i], t.Elem) {
				return false
			}
		}
		return true
	}
	return false
}

// intValueFits range-checks an evaluated integer against a sized target.
func intValueFits(v int64, t types.Type) bool {
	text := strconv.FormatInt(v, 10)
	negative := strings.HasPrefix(text, "-")
	return types.IntLiteralFits(strings.TrimPrefix(text, "-"), negative, t)
}

// EvalConst evaluates an expression against this result's finished
// constant table. Probes supply extra named values; tooling uses this to
// answer "what would this constant expression be" without a full pass.
func (r *Result) EvalConst(e ast.Expr, probes map[string]Value) (Value, error) {
	return evalConstExpr(e, &evalEnv{resolve: r.resolveFinished(probes)})
}

// EvalCollection evaluates an expression for collection-time use. It
// follows the same rules as EvalConst plus calls to the supplied probes,
// which must be pure and deterministic. The strict evaluator never sees
// the probe table, so constant results stay probe-free.
func (r *Result) EvalCollection(e ast.Expr, values map[string]Value, probes map[string]Probe) (Value, error) {
	return evalConstExpr(e, &evalEnv{resolve: r.resolveFinished(values), probes: probes})
}

func (r *Result) resolveFinished(extra map[string]Value) resolveFn {
	return func(name string, span source.Span) (Value, error) {
		if v, ok := extra[name]; ok {
			return v, nil
		}
		if cb, ok := r.Consts[name]; ok {
			return cb.Value, nil
		}
		return Value{}, evalFail(span, "unknown constant %q", name)
	}
}
