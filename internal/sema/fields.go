package sema

import (
	"fmt"
	"strings"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/source"
)

// checkRecords resolves every record's field table, method signatures and
// derive list. Alias uniqueness is validated here, once per declaration,
// so member access and construction can rely on RecordInfo.Resolve being
// unambiguous.
func (c *checker) checkRecords() {
	for _, rec := range c.file.Records {
		info := c.res.Records[rec.Name]
		if info == nil || info.Span != rec.NameSpan {
			continue // duplicate declaration, reported in collect
		}
		c.checkRecordFields(rec, info)
		c.checkRecordMethods(rec, info)
		info.Derives = c.checkDerives(rec.Derives)
	}
}

func (c *checker) checkRecordFields(rec *ast.Record, info *RecordInfo) {
	for _, f := range rec.Fields {
		if prev, dup := info.ByName[f.Name]; dup {
			c.reportWithNote(diag.SemaDuplicateBinding, f.NameSpan,
				"field "+f.Name+" is declared more than once",
				prev.Span, "first declared here")
			continue
		}
		fd := &FieldDescriptor{
			Name:       f.Name,
			Alias:      c.fieldAlias(f),
			Doc:        f.Doc,
			Type:       c.resolveTypeRef(f.Type),
			HasDefault: f.Default != nil,
			Span:       f.NameSpan,
		}
		info.Fields = append(info.Fields, fd)
		info.ByName[f.Name] = fd
	}

	// Aliases are validated after every canonical name and method name is
	// known: an alias must not shadow any of them, and two fields must not
	// share one.
	methodNames := make(map[string]source.Span, len(rec.Methods))
	for _, m := range rec.Methods {
		methodNames[m.Name] = m.NameSpan
	}
	for _, f := range rec.Fields {
		fd := info.ByName[f.Name]
		if fd == nil || fd.Span != f.NameSpan || fd.Alias == "" {
			continue
		}
		span := f.AliasSpan
		if f.AliasAttr == "" {
			span = f.DecoSpan
		}
		if other, clash := info.ByName[fd.Alias]; clash {
			c.reportWithNote(diag.SemaAliasCollision, span,
				fmt.Sprintf("alias %q collides with field %s", fd.Alias, other.Name),
				other.Span, "field declared here")
			fd.Alias = ""
			continue
		}
		if mspan, clash := methodNames[fd.Alias]; clash {
			c.reportWithNote(diag.SemaAliasCollision, span,
				fmt.Sprintf("alias %q collides with method %s", fd.Alias, fd.Alias),
				mspan, "method declared here")
			fd.Alias = ""
			continue
		}
		if other, clash := info.ByAlias[fd.Alias]; clash {
			c.reportWithNote(diag.SemaAliasCollision, span,
				fmt.Sprintf("alias %q is already used by field %s", fd.Alias, other.Name),
				other.Span, "field declared here")
			fd.Alias = ""
			continue
		}
		info.ByAlias[fd.Alias] = fd
	}
}

// fieldAlias extracts and validates the alias of one field declaration.
// The attribute and decorator forms are mutually exclusive; a blank alias
// is rejected outright.
func (c *checker) fieldAlias(f *ast.Field) string {
	if f.AliasAttr != "" && f.AliasDeco != "" {
		c.reportWithNote(diag.SemaAliasCollision, f.DecoSpan,
			"field "+f.Name+" declares an alias through both forms",
			f.AliasSpan, "attribute alias declared here")
		return ""
	}
	alias := f.AliasAttr
	span := f.AliasSpan
	if alias == "" {
		alias = f.AliasDeco
		span = f.DecoSpan
	}
	if alias == "" {
		return ""
	}
	if strings.TrimSpace(alias) == "" {
		c.report(diag.SemaAliasCollision, span,
			"alias of field %s must not be blank", f.Name)
		return ""
	}
	if alias == f.Name {
		c.report(diag.SemaAliasCollision, span,
			"alias of field %s repeats its canonical name", f.Name)
		return ""
	}
	return alias
}

func (c *checker) checkRecordMethods(rec *ast.Record, info *RecordInfo) {
	for _, m := range rec.Methods {
		if fd, clash := info.ByName[m.Name]; clash {
			c.reportWithNote(diag.SemaDuplicateBinding, m.NameSpan,
				"method "+m.Name+" collides with a field",
				fd.Span, "field declared here")
			continue
		}
		if prev, dup := info.Methods[m.Name]; dup {
			c.reportWithNote(diag.SemaDuplicateBinding, m.NameSpan,
				"method "+m.Name+" is declared more than once",
				prev.Span, "first declared here")
			continue
		}
		info.Methods[m.Name] = c.funcInfo(m)
	}
}

func (c *checker) checkEnums() {
	for _, en := range c.file.Enums {
		info := c.res.Enums[en.Name]
		if info == nil || info.Span != en.NameSpan {
			continue
		}
		seen := make(map[string]source.Span, len(en.Variants))
		for _, v := range en.Variants {
			if prev, dup := seen[v.Name]; dup {
				c.reportWithNote(diag.SemaDuplicateBinding, v.Span,
					"variant "+v.Name+" is declared more than once",
					prev, "first declared here")
				continue
			}
			seen[v.Name] = v.Span
			info.Variants = append(info.Variants, v.Name)
		}
		info.Derives = c.checkDerives(en.Derives)
	}
}

// checkFieldDefaults type-checks field default expressions. Runs after
// constant evaluation so defaults may reference module constants.
func (c *checker) checkFieldDefaults() {
	for _, rec := range c.file.Records {
		info := c.res.Records[rec.Name]
		if info == nil {
			continue
		}
		for _, f := range rec.Fields {
			if f.Default == nil {
				continue
			}
			fd := info.ByName[f.Name]
			if fd == nil {
				continue
			}
			got := c.checkExprWithTarget(f.Default, fd.Type)
			if !c.assignable(got, fd.Type) {
				c.report(diag.SemaTypeMismatch, f.Default.Pos(),
					"default for field %s has type %s, expected %s",
					f.Name, c.typeName(got), c.typeName(fd.Type))
			}
		}
	}
}

// Variant reports whether name is one of the enum's variants.
func (e *EnumInfo) Variant(name string) bool {
	for _, v := range e.Variants {
		if v == name {
			return true
		}
	}
	return false
}
