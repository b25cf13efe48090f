// Package driver orchestrates checking a whole project: it loads AST
// bundles through a ModuleLoader, builds the import graph, rejects cycles
// and checks modules in topological order, independent batches in parallel.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"pyrite/internal/ast"
	"pyrite/internal/astio"
	"pyrite/internal/diag"
	"pyrite/internal/project"
	"pyrite/internal/project/dag"
	"pyrite/internal/registry"
	"pyrite/internal/sema"
	"pyrite/internal/source"
	"pyrite/internal/types"
)

const defaultMaxDiagnostics = 256

// Options tunes a project check. Zero values select sane defaults; a nil
// Interner gets a fresh one shared by every module of the session.
type Options struct {
	Jobs           int
	MaxDiagnostics int
	Interner       *types.Interner
	Builtins       *registry.Builtins
	Derives        *registry.Derives
	Cache          *DiskCache
}

// ModuleResult is the outcome for one module.
type ModuleResult struct {
	Path     string
	FileID   source.FileID
	Bag      *diag.Bag
	Sema     *sema.Result
	Broken   bool
	CacheHit bool // previous run saw this exact module and dependency set
}

// Result is the outcome of a whole project check.
type Result struct {
	Files   *source.FileSet
	Modules map[string]*ModuleResult
	Order   []string // topological: dependencies before dependents
}

// HasErrors reports whether any module produced an error diagnostic.
func (r *Result) HasErrors() bool {
	for _, m := range r.Modules {
		if m.Bag.HasErrors() {
			return true
		}
	}
	return false
}

type loadedModule struct {
	path   string
	bag    *diag.Bag
	fileID source.FileID
	file   *ast.File
	meta   project.ModuleMeta
	res    *sema.Result
	broken bool
	skip   bool // nothing checkable: load or decode failed
	absent bool // loader has no such module
	hit    bool
}

// CheckProject loads the import closure of roots and checks every module.
// Load failures and cycles become diagnostics, not Go errors; the returned
// error is reserved for context cancellation and loader I/O faults that are
// not attributable to a module.
func CheckProject(ctx context.Context, loader ModuleLoader, roots []string, opts Options) (*Result, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = defaultMaxDiagnostics
	}
	interner := opts.Interner
	if interner == nil {
		interner = types.NewInterner()
	}
	builtins := opts.Builtins
	if builtins == nil {
		builtins = registry.NewBuiltins(interner)
	}
	builtins.Seal()
	derives := opts.Derives
	if derives == nil {
		derives = registry.NewDerives()
	}

	files := source.NewFileSet()
	loaded := make(map[string]*loadedModule)

	seen := make(map[string]struct{}, len(roots))
	rootSet := make(map[string]struct{}, len(roots))
	queue := make([]string, 0, len(roots))
	for _, r := range roots {
		normalized, err := project.NormalizeModulePath(r)
		if err != nil {
			return nil, fmt.Errorf("invalid module path %q", r)
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		rootSet[normalized] = struct{}{}
		queue = append(queue, normalized)
	}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		lm := loadModule(loader, files, path, maxDiag, rootSet)
		loaded[path] = lm
		for _, imp := range lm.meta.Imports {
			if !imp.Resolved {
				continue
			}
			if _, dup := seen[imp.Path]; dup {
				continue
			}
			seen[imp.Path] = struct{}{}
			queue = append(queue, imp.Path)
		}
	}

	var metas []project.ModuleMeta
	var nodes []dag.ModuleNode
	for _, path := range sortedPaths(loaded) {
		lm := loaded[path]
		if lm.absent {
			continue
		}
		metas = append(metas, lm.meta)
		nodes = append(nodes, dag.ModuleNode{
			Meta:     lm.meta,
			Reporter: diag.BagReporter{Bag: lm.bag},
		})
	}

	idx := dag.BuildIndex(metas)
	graph, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	dag.ReportCycles(idx, slots, topo)

	for _, batch := range topo.Batches {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(batch)))
		for _, id := range batch {
			lm := loaded[idx.IDToName[int(id)]]
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				checkModule(lm, loaded, interner, builtins, derives)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	// Broken status feeds dependency poisoning, so settle it before the
	// final report pass.
	for i := range slots {
		slot := &slots[i]
		if !slot.Present {
			continue
		}
		lm := loaded[slot.Meta.Path]
		lm.bag.Sort()
		lm.broken = lm.broken || lm.bag.HasErrors()
		slot.Broken = lm.broken
		slot.FirstErr = firstError(lm.bag)
	}
	dag.ReportBrokenDeps(idx, slots)

	stampModuleHashes(loaded, topo, idx)
	if opts.Cache != nil {
		consultCache(opts.Cache, loaded, topo, idx)
	}

	res := &Result{
		Files:   files,
		Modules: make(map[string]*ModuleResult, len(loaded)),
	}
	for path, lm := range loaded {
		lm.bag.Sort()
		lm.bag.Dedup()
		res.Modules[path] = &ModuleResult{
			Path:     path,
			FileID:   lm.fileID,
			Bag:      lm.bag,
			Sema:     lm.res,
			Broken:   lm.broken || lm.bag.HasErrors(),
			CacheHit: lm.hit,
		}
	}
	for _, id := range topo.Order {
		res.Order = append(res.Order, idx.IDToName[int(id)])
	}
	return res, nil
}

// loadModule fetches and decodes one bundle, registers its source text and
// resolves its import expressions. Failures become diagnostics in the
// module's own bag; only missing non-root modules stay silent here, their
// importers report them.
func loadModule(loader ModuleLoader, files *source.FileSet, path string, maxDiag int, rootSet map[string]struct{}) *loadedModule {
	lm := &loadedModule{
		path: path,
		bag:  diag.NewBag(maxDiag),
		meta: project.ModuleMeta{Path: path},
	}
	reporter := diag.BagReporter{Bag: lm.bag}

	data, err := loader.Load(path)
	if err != nil {
		lm.broken, lm.skip = true, true
		if errors.Is(err, ErrModuleNotFound) {
			lm.absent = true
			if _, isRoot := rootSet[path]; isRoot {
				reporter.Report(diag.ProjModuleNotFound, diag.SevError, source.Span{},
					fmt.Sprintf("module %q not found", path), nil, nil)
			}
			return lm
		}
		reporter.Report(diag.ProjBadBundle, diag.SevError, source.Span{},
			fmt.Sprintf("failed to load module %q: %v", path, err), nil, nil)
		return lm
	}

	payload, err := astio.DecodePayload(bytes.NewReader(data))
	if err != nil {
		lm.broken, lm.skip = true, true
		reporter.Report(diag.ProjBadBundle, diag.SevError, source.Span{},
			fmt.Sprintf("failed to decode bundle for %q: %v", path, err), nil, nil)
		return lm
	}
	if payload.Module != path {
		lm.broken, lm.skip = true, true
		reporter.Report(diag.ProjBadBundle, diag.SevError, source.Span{},
			fmt.Sprintf("bundle declares module %q, expected %q", payload.Module, path), nil, nil)
		return lm
	}

	fileID := files.AddVirtual(path+".pyr", payload.Source)
	bundle, err := payload.Materialize(fileID)
	if err != nil {
		lm.broken, lm.skip = true, true
		reporter.Report(diag.ProjBadBundle, diag.SevError, source.Span{},
			fmt.Sprintf("failed to decode bundle for %q: %v", path, err), nil, nil)
		return lm
	}

	lm.fileID = fileID
	lm.file = bundle.File
	lm.file.Module = path
	lm.meta.Span = bundle.File.Span
	lm.meta.ContentHash = project.Digest(files.Get(fileID).Hash)
	for _, imp := range bundle.File.Imports {
		resolved, err := project.ResolveImportExpr(path, imp.Path)
		if err != nil {
			// named during checking: the import binding stays unknown
			lm.meta.Imports = append(lm.meta.Imports, project.ImportMeta{
				Expr: imp.Path,
				Span: imp.PathSpan,
			})
			continue
		}
		lm.meta.Imports = append(lm.meta.Imports, project.ImportMeta{
			Expr:     imp.Path,
			Path:     resolved,
			Span:     imp.PathSpan,
			Resolved: true,
		})
	}
	return lm
}

// checkModule runs one sema pass. It only runs once every dependency in the
// same session has either produced exports or been marked broken.
func checkModule(lm *loadedModule, loaded map[string]*loadedModule, interner *types.Interner, builtins *registry.Builtins, derives *registry.Derives) {
	if lm.skip || lm.absent {
		return
	}
	deps := make(map[string]*sema.ModuleExport, len(lm.meta.Imports))
	blocked := false
	for _, imp := range lm.meta.Imports {
		if !imp.Resolved {
			continue
		}
		dep, ok := loaded[imp.Path]
		if !ok || dep.absent {
			continue
		}
		if dep.res == nil {
			// dependency failed before producing exports
			blocked = true
			continue
		}
		deps[imp.Expr] = dep.res.Exports
	}
	if blocked {
		lm.broken = true
		return
	}
	lm.res = sema.Check(lm.file, sema.Options{
		Reporter: diag.BagReporter{Bag: lm.bag},
		Interner: interner,
		Builtins: builtins,
		Derives:  derives,
		Deps:     deps,
	})
	lm.broken = lm.bag.HasErrors()
}

// stampModuleHashes aggregates content hashes in dependency order so a
// module's hash changes whenever anything it transitively imports changes.
func stampModuleHashes(loaded map[string]*loadedModule, topo *dag.Topo, idx dag.ModuleIndex) {
	for _, id := range topo.Order {
		lm := loaded[idx.IDToName[int(id)]]
		depPaths := make([]string, 0, len(lm.meta.Imports))
		for _, imp := range lm.meta.Imports {
			if imp.Resolved {
				depPaths = append(depPaths, imp.Path)
			}
		}
		sort.Strings(depPaths)
		depHashes := make([]project.Digest, 0, len(depPaths))
		for _, p := range depPaths {
			if dep, ok := loaded[p]; ok && !dep.absent {
				depHashes = append(depHashes, dep.meta.ModuleHash)
			}
		}
		lm.meta.ModuleHash = project.Combine(lm.meta.ContentHash, depHashes...)
	}
}

func consultCache(cache *DiskCache, loaded map[string]*loadedModule, topo *dag.Topo, idx dag.ModuleIndex) {
	for _, id := range topo.Order {
		lm := loaded[idx.IDToName[int(id)]]
		if lm.skip || lm.absent {
			continue
		}
		var prev CheckPayload
		if ok, err := cache.Get(lm.meta.ModuleHash, &prev); err == nil && ok {
			lm.hit = true
		}
		_ = cache.Put(lm.meta.ModuleHash, &CheckPayload{
			Schema:      cacheSchemaVersion,
			Path:        lm.path,
			ImportPaths: importPaths(lm.meta),
			ContentHash: lm.meta.ContentHash,
			ModuleHash:  lm.meta.ModuleHash,
			Broken:      lm.broken,
		})
	}
}

func importPaths(meta project.ModuleMeta) []string {
	var out []string
	for _, imp := range meta.Imports {
		if imp.Resolved {
			out = append(out, imp.Path)
		}
	}
	return out
}

func firstError(bag *diag.Bag) *diag.Diagnostic {
	items := bag.Items()
	for i := range items {
		if items[i].Severity == diag.SevError {
			return &items[i]
		}
	}
	return nil
}

func sortedPaths(loaded map[string]*loadedModule) []string {
	paths := make([]string, 0, len(loaded))
	for p := range loaded {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
