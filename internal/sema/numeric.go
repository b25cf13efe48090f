package sema

import (
	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/source"
	"pyrite/internal/types"
)

func (c *checker) checkBinary(b *ast.Binary) types.TypeID {
	lt := c.checkExpr(b.Left)
	rt := c.checkExpr(b.Right)
	res := c.binaryResultType(b.Op, lt, rt, b.Span, b.Right)
	if res.IsValid() {
		if t := c.interner.Get(res); t.IsInteger() {
			c.res.Policies[b] = types.PolicyFor(t)
		}
	}
	return c.setType(b, res)
}

// binaryResultType applies the operator table plus the numeric promotion
// policy to a pair of operand types. The right operand expression is only
// consulted for the ** literal-exponent rule and may be nil when the node
// is synthetic (compound assignment).
func (c *checker) binaryResultType(op ast.BinOp, lt, rt types.TypeID, span source.Span, right ast.Expr) types.TypeID {
	if !lt.IsValid() || !rt.IsValid() {
		return c.invalid()
	}
	spec, ok := types.SpecFor(op)
	if !ok {
		return c.invalid()
	}
	l := c.interner.Get(lt)
	r := c.interner.Get(rt)
	if !types.Accepts(spec.Left, types.FamilyOf(l)) || !types.Accepts(spec.Right, types.FamilyOf(r)) {
		c.report(diag.SemaInvalidOperands, span,
			"operator %s is not defined for %s and %s", op, c.typeName(lt), c.typeName(rt))
		return c.invalid()
	}
	bt := c.interner.Builtins()

	if op == ast.OpAnd || op == ast.OpOr {
		return bt.Bool
	}
	if op.IsComparison() {
		return c.compareResult(op, lt, rt, span)
	}

	// concatenation and set difference keep the operand type
	if op == ast.OpAdd && l.Kind == types.KindString && r.Kind == types.KindString {
		return lt
	}
	if op == ast.OpAdd && l.Kind == types.KindList && r.Kind == types.KindList {
		if lt != rt {
			c.report(diag.SemaTypeMismatch, span,
				"cannot concatenate %s and %s", c.typeName(lt), c.typeName(rt))
			return c.invalid()
		}
		return lt
	}
	if op == ast.OpSub && l.Kind == types.KindSet && r.Kind == types.KindSet {
		if lt != rt {
			c.report(diag.SemaTypeMismatch, span,
				"cannot take the difference of %s and %s", c.typeName(lt), c.typeName(rt))
			return c.invalid()
		}
		return lt
	}

	if !l.IsNumeric() || !r.IsNumeric() {
		c.report(diag.SemaInvalidOperands, span,
			"operator %s is not defined for %s and %s", op, c.typeName(lt), c.typeName(rt))
		return c.invalid()
	}

	if l.IsInteger() && r.IsInteger() {
		if !types.SameIntWidth(l, r) {
			c.report(diag.SemaInvalidOperands, span,
				"cannot mix %s and %s without an explicit conversion",
				c.typeName(lt), c.typeName(rt))
			return c.invalid()
		}
		powExp := c.powExponentOf(right, rt)
		if types.NumericResult(op, types.ClassInt, types.ClassInt, powExp) == types.ClassFloat {
			return bt.Float
		}
		return lt
	}

	// at least one float operand
	if l.Kind == types.KindFloat && r.Kind == types.KindFloat {
		if l.Width == r.Width {
			return lt
		}
		if l.Width != types.WidthAny && r.Width != types.WidthAny {
			c.report(diag.SemaInvalidOperands, span,
				"cannot mix %s and %s without an explicit conversion",
				c.typeName(lt), c.typeName(rt))
			return c.invalid()
		}
		return bt.Float
	}
	if l.Kind == types.KindFloat {
		return lt
	}
	return rt
}

func (c *checker) compareResult(op ast.BinOp, lt, rt types.TypeID, span source.Span) types.TypeID {
	bt := c.interner.Builtins()
	l := c.interner.Get(lt)
	r := c.interner.Get(rt)

	if l.IsNumeric() && r.IsNumeric() {
		// int/float comparisons promote both sides to float; integer
		// pairs still need matching widths
		if l.IsInteger() && r.IsInteger() && !types.SameIntWidth(l, r) {
			c.report(diag.SemaInvalidOperands, span,
				"cannot compare %s with %s without an explicit conversion",
				c.typeName(lt), c.typeName(rt))
			return c.invalid()
		}
		return bt.Bool
	}
	if op == ast.OpEq || op == ast.OpNe {
		if lt == rt {
			return bt.Bool
		}
		c.report(diag.SemaInvalidOperands, span,
			"cannot compare %s with %s", c.typeName(lt), c.typeName(rt))
		return c.invalid()
	}
	if l.Kind == types.KindString && r.Kind == types.KindString {
		return bt.Bool
	}
	c.report(diag.SemaInvalidOperands, span,
		"operator %s is not defined for %s and %s", op, c.typeName(lt), c.typeName(rt))
	return c.invalid()
}

// powExponentOf classifies the right operand of ** for the integer-result
// rule: a bare (possibly negated) unsuffixed integer literal is the only
// shape that can keep the result integral.
func (c *checker) powExponentOf(right ast.Expr, rt types.TypeID) types.PowExponent {
	rhsIsFloat := rt.IsValid() && c.interner.Get(rt).Kind == types.KindFloat
	var lit *int64
	switch r := right.(type) {
	case *ast.IntLit:
		if v, ok := types.IntLiteralValue(r.Text, false); ok {
			lit = &v
		}
	case *ast.Unary:
		if inner, ok := r.Operand.(*ast.IntLit); ok && r.Op == ast.UnNeg {
			if v, ok := types.IntLiteralValue(inner.Text, true); ok {
				lit = &v
			}
		}
	}
	return types.PowExponentFor(rhsIsFloat, lit)
}
