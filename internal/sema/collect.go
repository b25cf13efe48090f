package sema

import (
	"strings"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/types"
)

// collect registers every top-level declaration before any body is
// checked, so declaration order inside a module never matters: a function
// may call one declared below it and a field may reference a record that
// appears later in the file.
func (c *checker) collect() {
	for _, imp := range c.file.Imports {
		c.collectImport(imp)
	}
	for _, rec := range c.file.Records {
		if prev, dup := c.res.Records[rec.Name]; dup {
			c.reportWithNote(diag.SemaDuplicateBinding, rec.NameSpan,
				"type "+rec.Name+" is declared more than once",
				prev.Span, "first declared here")
			continue
		}
		if prev, dup := c.res.Enums[rec.Name]; dup {
			c.reportWithNote(diag.SemaDuplicateBinding, rec.NameSpan,
				"type "+rec.Name+" is declared more than once",
				prev.Span, "first declared here")
			continue
		}
		c.res.Records[rec.Name] = &RecordInfo{
			Name:    rec.Name,
			Type:    c.interner.Intern(types.MakeNamed(rec.Name)),
			ByName:  make(map[string]*FieldDescriptor),
			ByAlias: make(map[string]*FieldDescriptor),
			Methods: make(map[string]*FuncInfo),
			Span:    rec.NameSpan,
		}
	}
	for _, en := range c.file.Enums {
		if prev, dup := c.res.Enums[en.Name]; dup {
			c.reportWithNote(diag.SemaDuplicateBinding, en.NameSpan,
				"type "+en.Name+" is declared more than once",
				prev.Span, "first declared here")
			continue
		}
		if prev, dup := c.res.Records[en.Name]; dup {
			c.reportWithNote(diag.SemaDuplicateBinding, en.NameSpan,
				"type "+en.Name+" is declared more than once",
				prev.Span, "first declared here")
			continue
		}
		c.res.Enums[en.Name] = &EnumInfo{
			Name: en.Name,
			Type: c.interner.Intern(types.MakeNamed(en.Name)),
			Span: en.NameSpan,
		}
	}
	for _, cd := range c.file.Consts {
		if prev, dup := c.constDecls[cd.Name]; dup {
			c.reportWithNote(diag.SemaDuplicateBinding, cd.NameSpan,
				"constant "+cd.Name+" is declared more than once",
				prev.NameSpan, "first declared here")
			continue
		}
		c.constDecls[cd.Name] = cd
	}
	// Signatures only here; bodies wait until consts have values.
	for _, fn := range c.file.Funcs {
		if prev, dup := c.res.Funcs[fn.Name]; dup {
			c.reportWithNote(diag.SemaDuplicateBinding, fn.NameSpan,
				"function "+fn.Name+" is declared more than once",
				prev.Span, "first declared here")
			continue
		}
		c.res.Funcs[fn.Name] = c.funcInfo(fn)
	}
}

func (c *checker) collectImport(imp *ast.Import) {
	name := imp.Alias
	if name == "" {
		name = defaultImportName(imp.Path)
	}
	exp, ok := c.deps[imp.Path]
	if !ok {
		c.report(diag.ProjModuleNotFound, imp.PathSpan, "module %q not found", imp.Path)
		return
	}
	if _, taken := c.modules[name]; taken {
		c.report(diag.SemaDuplicateBinding, imp.Span,
			"import binding %q collides with an earlier import", name)
		return
	}
	c.modules[name] = exp
	modType := c.interner.Intern(types.MakeModule(exp.Path))
	c.scopes.Declare(name, false, modType, imp.Span)
}

// defaultImportName derives the binding name from the last segment of the
// path expression: "../common/errors" binds as "errors".
func defaultImportName(path string) string {
	path = strings.TrimSuffix(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path
}

func (c *checker) funcInfo(fn *ast.Func) *FuncInfo {
	info := &FuncInfo{
		Name:       fn.Name,
		ParamNames: make([]string, 0, len(fn.Params)),
		Params:     make([]types.TypeID, 0, len(fn.Params)),
		Span:       fn.NameSpan,
	}
	for _, p := range fn.Params {
		info.ParamNames = append(info.ParamNames, p.Name)
		info.Params = append(info.Params, c.resolveTypeRef(p.Type))
	}
	if fn.Return != nil {
		info.Return = c.resolveTypeRef(fn.Return)
	} else {
		info.Return = c.interner.Builtins().Unit
	}
	return info
}
