package sema

import (
	"strings"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/types"
)

// resolveTypeRef turns a syntactic annotation into an interned type.
// Unknown names are reported once here; callers receive the invalid
// sentinel and keep going.
func (c *checker) resolveTypeRef(ref *ast.TypeRef) types.TypeID {
	if ref == nil {
		return types.NoTypeID
	}
	if len(ref.Args) == 0 {
		if t, ok := types.AnnotationType(ref.Name); ok {
			return c.interner.Intern(t)
		}
		return c.resolveNamedType(ref)
	}

	switch ref.Name {
	case "List", "Set", "Option":
		if len(ref.Args) != 1 {
			c.report(diag.SemaArityMismatch, ref.Span,
				"%s takes one type argument, got %d", ref.Name, len(ref.Args))
			return c.invalid()
		}
		elem := c.resolveTypeRef(ref.Args[0])
		switch ref.Name {
		case "List":
			return c.interner.Intern(types.MakeList(elem))
		case "Set":
			return c.interner.Intern(types.MakeSet(elem))
		default:
			return c.interner.Intern(types.MakeOption(elem))
		}
	case "Dict":
		if len(ref.Args) != 2 {
			c.report(diag.SemaArityMismatch, ref.Span,
				"Dict takes two type arguments, got %d", len(ref.Args))
			return c.invalid()
		}
		key := c.resolveTypeRef(ref.Args[0])
		value := c.resolveTypeRef(ref.Args[1])
		return c.interner.Intern(types.MakeMap(key, value))
	case "Result":
		if len(ref.Args) != 2 {
			c.report(diag.SemaArityMismatch, ref.Span,
				"Result takes two type arguments, got %d", len(ref.Args))
			return c.invalid()
		}
		okTy := c.resolveTypeRef(ref.Args[0])
		errTy := c.resolveTypeRef(ref.Args[1])
		return c.interner.Intern(types.MakeResult(okTy, errTy))
	case "Tuple":
		elems := make([]types.TypeID, len(ref.Args))
		for i, a := range ref.Args {
			elems[i] = c.resolveTypeRef(a)
		}
		return c.interner.Intern(types.MakeTuple(elems))
	}

	c.report(diag.SemaUnknownName, ref.Span, "unknown type %q", ref.Name)
	return c.invalid()
}

// resolveNamedType handles plain and module-qualified type names
// ("User", "models.User").
func (c *checker) resolveNamedType(ref *ast.TypeRef) types.TypeID {
	name := ref.Name
	if mod, rest, qualified := strings.Cut(name, "."); qualified {
		exp, ok := c.modules[mod]
		if !ok {
			c.report(diag.SemaUnknownName, ref.Span, "unknown module %q", mod)
			return c.invalid()
		}
		if rec, ok := exp.Records[rest]; ok {
			return rec.Type
		}
		if en, ok := exp.Enums[rest]; ok {
			return en.Type
		}
		c.report(diag.SemaUnknownName, ref.Span,
			"module %q has no type %q", mod, rest)
		return c.invalid()
	}
	if rec, ok := c.res.Records[name]; ok {
		return rec.Type
	}
	if en, ok := c.res.Enums[name]; ok {
		return en.Type
	}
	c.report(diag.SemaUnknownName, ref.Span, "unknown type %q", name)
	return c.invalid()
}

// recordFor returns the record info behind a type, looking through both
// this module's declarations and every imported module's exports.
func (c *checker) recordFor(id types.TypeID) *RecordInfo {
	t := c.interner.Get(id)
	if t.Kind != types.KindNamed {
		return nil
	}
	if rec, ok := c.res.Records[t.Name]; ok {
		return rec
	}
	for _, exp := range c.modules {
		if rec, ok := exp.Records[t.Name]; ok {
			return rec
		}
	}
	return nil
}

// enumFor is recordFor's counterpart for enum types.
func (c *checker) enumFor(id types.TypeID) *EnumInfo {
	t := c.interner.Get(id)
	if t.Kind != types.KindNamed {
		return nil
	}
	if en, ok := c.res.Enums[t.Name]; ok {
		return en
	}
	for _, exp := range c.modules {
		if en, ok := exp.Enums[t.Name]; ok {
			return en
		}
	}
	return nil
}

// assignable reports whether a value of type from may flow into a slot of
// type to. Identity plus one promotion: the default wide int widens to the
// default float. Sized numerics never convert implicitly. The invalid
// sentinel is compatible in both directions so one error does not cascade.
func (c *checker) assignable(from, to types.TypeID) bool {
	if from == to {
		return true
	}
	if !from.IsValid() || !to.IsValid() {
		return true
	}
	ft := c.interner.Get(from)
	tt := c.interner.Get(to)
	if ft.Kind == types.KindInt && ft.Width == types.WidthAny &&
		tt.Kind == types.KindFloat && tt.Width == types.WidthAny {
		return true
	}
	return false
}
