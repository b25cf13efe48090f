package sema

import (
	"fmt"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/registry"
	"pyrite/internal/source"
	"pyrite/internal/symbols"
	"pyrite/internal/types"
)

// Options configures one checking pass. The interner and registries are
// shared, read-only collaborators; everything mutable is private to the
// pass and discarded with it.
type Options struct {
	Reporter diag.Reporter
	Interner *types.Interner
	Builtins *registry.Builtins
	Derives  *registry.Derives
	// Deps maps an import path expression, exactly as written in the
	// source, to the exports of the already-checked target module. The
	// driver populates this; the checker never touches the filesystem.
	Deps map[string]*ModuleExport
}

// ConstBinding is one evaluated compile-time constant. Created once at
// check time and immutable thereafter.
type ConstBinding struct {
	Name  string
	Type  types.TypeID
	Value Value
	Deps  []string // names of other consts the initializer references
	Span  source.Span
}

// FieldDescriptor is the resolved shape of one record field.
type FieldDescriptor struct {
	Name       string // canonical
	Alias      string // optional; not required to be a legal identifier
	Doc        string
	Type       types.TypeID
	HasDefault bool
	Span       source.Span
}

// FuncInfo is the resolved signature of a function or method.
type FuncInfo struct {
	Name       string
	ParamNames []string
	Params     []types.TypeID
	Return     types.TypeID
	Span       source.Span
}

// RecordInfo carries everything checking learned about one record type:
// the two field maps (canonical and alias), methods and the expanded
// derive set. Invariant: the canonical-name set and alias set are pairwise
// disjoint and collectively unique, and neither collides with a method.
type RecordInfo struct {
	Name    string
	Type    types.TypeID
	Fields  []*FieldDescriptor
	ByName  map[string]*FieldDescriptor
	ByAlias map[string]*FieldDescriptor
	Methods map[string]*FuncInfo
	Derives []string
	Span    source.Span
}

// Resolve looks a member-access / constructor / destructuring key up:
// canonical match first, then alias. Alias matching is exact string
// equality; no normalization, no case-folding.
func (r *RecordInfo) Resolve(key string) (*FieldDescriptor, bool) {
	if fd, ok := r.ByName[key]; ok {
		return fd, true
	}
	if fd, ok := r.ByAlias[key]; ok {
		return fd, true
	}
	return nil, false
}

// EnumInfo describes one enum declaration.
type EnumInfo struct {
	Name     string
	Type     types.TypeID
	Variants []string
	Derives  []string
	Span     source.Span
}

// ModuleExport is the face a checked module shows to its importers.
type ModuleExport struct {
	Path    string
	Consts  map[string]*ConstBinding
	Records map[string]*RecordInfo
	Enums   map[string]*EnumInfo
	Funcs   map[string]*FuncInfo
}

// Result is the annotated output of one pass: every expression carries a
// resolved type, every record its expanded derive set, every const its
// evaluated value. The driver hands Result.Exports to dependent modules.
type Result struct {
	Module    string
	ExprTypes map[ast.Expr]types.TypeID
	Policies  map[*ast.Binary]types.OverflowPolicy
	Consts    map[string]*ConstBinding
	Records   map[string]*RecordInfo
	Enums     map[string]*EnumInfo
	Funcs     map[string]*FuncInfo
	Exports   *ModuleExport
}

// TypeOf returns the resolved type recorded for an expression.
func (r *Result) TypeOf(e ast.Expr) types.TypeID {
	return r.ExprTypes[e]
}

type constState uint8

const (
	constUnvisited constState = iota
	constVisiting
	constDone
	constFailed
)

type checker struct {
	file     *ast.File
	reporter diag.Reporter
	interner *types.Interner
	builtins *registry.Builtins
	derives  *registry.Derives
	deps     map[string]*ModuleExport

	scopes  *symbols.Table
	modules map[string]*ModuleExport // import binding name -> exports

	constDecls map[string]*ast.Const
	constState map[string]constState
	constStack []string

	// return type of the function body currently being checked
	currentReturn types.TypeID

	res *Result
}

// Check runs semantic analysis over one module's declarations. It is
// single-threaded, synchronous and idempotent: the same AST and registries
// produce identical results and diagnostics on every run.
func Check(file *ast.File, opts Options) *Result {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	interner := opts.Interner
	if interner == nil {
		interner = types.NewInterner()
	}
	builtins := opts.Builtins
	if builtins == nil {
		builtins = registry.NewBuiltins(interner)
	}
	derivesReg := opts.Derives
	if derivesReg == nil {
		derivesReg = registry.NewDerives()
	}

	c := &checker{
		file:       file,
		reporter:   reporter,
		interner:   interner,
		builtins:   builtins,
		derives:    derivesReg,
		deps:       opts.Deps,
		scopes:     symbols.NewTable(),
		modules:    make(map[string]*ModuleExport),
		constDecls: make(map[string]*ast.Const),
		constState: make(map[string]constState),
		res: &Result{
			Module:    file.Module,
			ExprTypes: make(map[ast.Expr]types.TypeID),
			Policies:  make(map[*ast.Binary]types.OverflowPolicy),
			Consts:    make(map[string]*ConstBinding),
			Records:   make(map[string]*RecordInfo),
			Enums:     make(map[string]*EnumInfo),
			Funcs:     make(map[string]*FuncInfo),
		},
	}

	c.collect()
	c.checkRecords()
	c.checkEnums()
	c.checkConsts()
	c.checkFieldDefaults()
	c.checkFuncBodies()

	c.res.Exports = &ModuleExport{
		Path:    file.Module,
		Consts:  c.res.Consts,
		Records: c.res.Records,
		Enums:   c.res.Enums,
		Funcs:   c.res.Funcs,
	}
	return c.res
}

func (c *checker) report(code diag.Code, span source.Span, format string, args ...any) {
	c.reporter.Report(code, diag.SevError, span, fmt.Sprintf(format, args...), nil, nil)
}

func (c *checker) reportWithNote(code diag.Code, span source.Span, msg string, noteSpan source.Span, note string) {
	c.reporter.Report(code, diag.SevError, span, msg, []diag.Note{{Span: noteSpan, Msg: note}}, nil)
}

func (c *checker) warn(code diag.Code, span source.Span, format string, args ...any) {
	c.reporter.Report(code, diag.SevWarning, span, fmt.Sprintf(format, args...), nil, nil)
}

func (c *checker) setType(e ast.Expr, id types.TypeID) types.TypeID {
	c.res.ExprTypes[e] = id
	return id
}

func (c *checker) typeName(id types.TypeID) string {
	return c.interner.String(id)
}

// invalid returns the sentinel used after a local error so checking can
// continue over sibling expressions without cascading.
func (c *checker) invalid() types.TypeID {
	return types.NoTypeID
}
