package sema

import (
	"pyrite/internal/ast"
	"pyrite/internal/diag"
)

// checkDerives validates a @derive(...) list against the trait registry
// and returns the dependency-expanded set. Matching is case-sensitive;
// a near-miss gets a closest-match hint alongside the full valid set.
func (c *checker) checkDerives(derives []*ast.Derive) []string {
	if len(derives) == 0 {
		return nil
	}
	requested := make([]string, 0, len(derives))
	for _, d := range derives {
		if c.derives.Known(d.Name) {
			requested = append(requested, d.Name)
			continue
		}
		if _, isType := c.res.Records[d.Name]; isType {
			c.report(diag.SemaInvalidDeriveTarget, d.Span,
				"%s is a declared type, not a trait", d.Name)
			continue
		}
		if _, isType := c.res.Enums[d.Name]; isType {
			c.report(diag.SemaInvalidDeriveTarget, d.Span,
				"%s is a declared type, not a trait", d.Name)
			continue
		}
		d2 := diag.NewError(diag.SemaUnknownDerive, d.Span,
			"unknown derive "+d.Name)
		if hint := c.derives.Closest(d.Name); hint != "" {
			d2 = d2.WithNote(d.Span, "did you mean "+hint+"?")
		}
		d2 = d2.WithNote(d.Span, "valid derives are: "+c.derives.NamesList())
		diag.Emit(c.reporter, d2)
	}
	return c.derives.Expand(requested)
}
