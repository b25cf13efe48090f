package dag

import (
	"testing"

	"pyrite/internal/diag"
	"pyrite/internal/project"
	"pyrite/internal/source"
)

func idsToNames(idx ModuleIndex, ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func batchesToNames(idx ModuleIndex, batches [][]ModuleID) [][]string {
	out := make([][]string, len(batches))
	for i, batch := range batches {
		out[i] = idsToNames(idx, batch)
	}
	return out
}

func TestBuildIndexIncludesImports(t *testing.T) {
	metas := []project.ModuleMeta{
		{
			Path: "core/main",
			Imports: []project.ImportMeta{
				{Path: "lib/math"},
				{Path: "lib/util"},
			},
		},
		{Path: "lib/util"},
	}

	idx := BuildIndex(metas)

	if len(idx.IDToName) != 3 {
		t.Fatalf("unexpected module count: %d", len(idx.IDToName))
	}

	wantNames := []string{"core/main", "lib/math", "lib/util"}
	for i, want := range wantNames {
		if got := idx.IDToName[i]; got != want {
			t.Fatalf("idx.IDToName[%d] = %q, want %q", i, got, want)
		}
		if id, ok := idx.NameToID[want]; !ok || int(id) != i {
			t.Fatalf("idx.NameToID[%q] = %v, want %d", want, id, i)
		}
	}
}

func TestBuildGraphReportsMissingModules(t *testing.T) {
	appSpan := source.Span{File: 1, Start: 0, End: 10}
	coreSpan := source.Span{File: 2, Start: 0, End: 8}

	appMeta := project.ModuleMeta{
		Path: "app",
		Span: appSpan,
		Imports: []project.ImportMeta{
			{Path: "core", Span: source.Span{File: 1, Start: 1, End: 4}},
			{Path: "util", Span: source.Span{File: 1, Start: 5, End: 8}},
		},
	}
	coreMeta := project.ModuleMeta{
		Path: "core",
		Span: coreSpan,
		Imports: []project.ImportMeta{
			{Path: "util", Span: source.Span{File: 2, Start: 2, End: 5}},
		},
	}

	bagApp := diag.NewBag(10)
	bagCore := diag.NewBag(10)

	nodes := []ModuleNode{
		{Meta: appMeta, Reporter: &diag.BagReporter{Bag: bagApp}},
		{Meta: coreMeta, Reporter: &diag.BagReporter{Bag: bagCore}},
	}
	idx := BuildIndex([]project.ModuleMeta{appMeta, coreMeta})
	graph, _ := BuildGraph(idx, nodes)

	appID := idx.NameToID["app"]
	coreID := idx.NameToID["core"]
	utilID := idx.NameToID["util"]

	coreImporters := graph.Edges[int(coreID)]
	if len(coreImporters) != 1 || coreImporters[0] != appID {
		t.Fatalf("core importers = %v, want [%v]", coreImporters, appID)
	}
	if len(graph.Edges[int(utilID)]) != 0 {
		t.Fatalf("missing module must not get edges, got %v", graph.Edges[int(utilID)])
	}
	if graph.Indeg[int(appID)] != 1 || graph.Indeg[int(coreID)] != 0 {
		t.Fatalf("unexpected indegrees: %v", graph.Indeg)
	}

	if !graph.Present[int(appID)] || !graph.Present[int(coreID)] || graph.Present[int(utilID)] {
		t.Fatalf("unexpected Present flags: %v", graph.Present)
	}

	if bagApp.Len() != 1 {
		t.Fatalf("app diagnostics = %d, want 1", bagApp.Len())
	}
	if bagApp.Items()[0].Code != diag.ProjModuleNotFound {
		t.Fatalf("app diag code = %v, want %v", bagApp.Items()[0].Code, diag.ProjModuleNotFound)
	}

	if bagCore.Len() != 1 {
		t.Fatalf("core diagnostics = %d, want 1", bagCore.Len())
	}
	if bagCore.Items()[0].Code != diag.ProjModuleNotFound {
		t.Fatalf("core diag code = %v, want %v", bagCore.Items()[0].Code, diag.ProjModuleNotFound)
	}
}

func TestBuildGraphDuplicateModules(t *testing.T) {
	spanA := source.Span{File: 1, Start: 0, End: 5}
	spanB := source.Span{File: 2, Start: 0, End: 5}

	metaA := project.ModuleMeta{Path: "dup/mod", Span: spanA}
	metaB := project.ModuleMeta{Path: "dup/mod", Span: spanB}

	bagA := diag.NewBag(10)
	bagB := diag.NewBag(10)

	nodes := []ModuleNode{
		{Meta: metaA, Reporter: &diag.BagReporter{Bag: bagA}},
		{Meta: metaB, Reporter: &diag.BagReporter{Bag: bagB}},
	}

	idx := BuildIndex([]project.ModuleMeta{metaA, metaB})
	graph, slots := BuildGraph(idx, nodes)

	if !graph.Present[idx.NameToID["dup/mod"]] {
		t.Fatalf("expected module to be present")
	}

	if bagA.Len() != 0 {
		t.Fatalf("unexpected diagnostics for first module: %v", bagA.Items())
	}
	if bagB.Len() != 1 {
		t.Fatalf("expected one diagnostic for duplicate, got %d", bagB.Len())
	}
	if bagB.Items()[0].Code != diag.ProjDuplicateModule {
		t.Fatalf("duplicate code = %v, want %v", bagB.Items()[0].Code, diag.ProjDuplicateModule)
	}

	// slots keep the first module's metadata
	slot := slots[int(idx.NameToID["dup/mod"])]
	if !slot.Present || slot.Meta.Span != spanA {
		t.Fatalf("expected slot to hold first module metadata")
	}
}

func TestBuildGraphSelfImport(t *testing.T) {
	meta := project.ModuleMeta{
		Path: "loop",
		Span: source.Span{File: 1, Start: 0, End: 4},
		Imports: []project.ImportMeta{
			{Path: "loop", Span: source.Span{File: 1, Start: 1, End: 3}},
		},
	}

	bag := diag.NewBag(10)
	idx := BuildIndex([]project.ModuleMeta{meta})
	graph, _ := BuildGraph(idx, []ModuleNode{{Meta: meta, Reporter: &diag.BagReporter{Bag: bag}}})

	if bag.Len() != 1 || bag.Items()[0].Code != diag.ProjSelfImport {
		t.Fatalf("self import diagnostics = %v", bag.Items())
	}
	if graph.Indeg[0] != 0 || len(graph.Edges[0]) != 0 {
		t.Fatalf("self import must not produce an edge")
	}
}

func TestToposortKahnDepsFirst(t *testing.T) {
	metas := []project.ModuleMeta{
		{Path: "b", Imports: []project.ImportMeta{{Path: "c"}}},
		{Path: "a"},
		{Path: "c"},
	}

	nodes := []ModuleNode{
		{Meta: metas[0]},
		{Meta: metas[1]},
		{Meta: metas[2]},
	}

	idx := BuildIndex(metas)
	graph, _ := BuildGraph(idx, nodes)

	topo := ToposortKahn(graph)
	if topo.Cyclic {
		t.Fatalf("expected acyclic graph")
	}

	orderNames := idsToNames(idx, topo.Order)
	wantOrder := []string{"a", "c", "b"}
	if len(orderNames) != len(wantOrder) {
		t.Fatalf("order len = %d, want %d", len(orderNames), len(wantOrder))
	}
	for i, want := range wantOrder {
		if orderNames[i] != want {
			t.Fatalf("order[%d] = %q, want %q", i, orderNames[i], want)
		}
	}

	batches := batchesToNames(idx, topo.Batches)
	wantBatches := [][]string{{"a", "c"}, {"b"}}
	if len(batches) != len(wantBatches) {
		t.Fatalf("batches len = %d, want %d", len(batches), len(wantBatches))
	}
	for i := range wantBatches {
		if len(batches[i]) != len(wantBatches[i]) {
			t.Fatalf("batch[%d] len = %d, want %d", i, len(batches[i]), len(wantBatches[i]))
		}
		for j, want := range wantBatches[i] {
			if batches[i][j] != want {
				t.Fatalf("batch[%d][%d] = %q, want %q", i, j, batches[i][j], want)
			}
		}
	}
}

func TestReportCycles(t *testing.T) {
	spanA := source.Span{File: 1, Start: 0, End: 4}
	spanB := source.Span{File: 2, Start: 0, End: 4}

	metaA := project.ModuleMeta{
		Path: "a",
		Span: spanA,
		Imports: []project.ImportMeta{
			{Path: "b", Span: spanA},
		},
	}
	metaB := project.ModuleMeta{
		Path: "b",
		Span: spanB,
		Imports: []project.ImportMeta{
			{Path: "a", Span: spanB},
		},
	}

	bagA := diag.NewBag(10)
	bagB := diag.NewBag(10)

	nodes := []ModuleNode{
		{Meta: metaA, Reporter: &diag.BagReporter{Bag: bagA}},
		{Meta: metaB, Reporter: &diag.BagReporter{Bag: bagB}},
	}

	idx := BuildIndex([]project.ModuleMeta{metaA, metaB})
	graph, slots := BuildGraph(idx, nodes)

	topo := ToposortKahn(graph)
	if !topo.Cyclic || len(topo.Cycles) != 2 {
		t.Fatalf("expected cycle with two modules, got %+v", topo)
	}

	ReportCycles(idx, slots, topo)

	if bagA.Len() != 1 || bagA.Items()[0].Code != diag.ProjImportCycle {
		t.Fatalf("module a diagnostics = %v", bagA.Items())
	}
	if bagB.Len() != 1 || bagB.Items()[0].Code != diag.ProjImportCycle {
		t.Fatalf("module b diagnostics = %v", bagB.Items())
	}
}

func TestToposortKahnCycleExcludesDownstreamImporters(t *testing.T) {
	metas := []project.ModuleMeta{
		{Path: "b", Imports: []project.ImportMeta{{Path: "c"}}},
		{Path: "c", Imports: []project.ImportMeta{{Path: "b"}}},
		{Path: "d", Imports: []project.ImportMeta{{Path: "b"}}},
		{Path: "e", Imports: []project.ImportMeta{{Path: "d"}}},
	}

	nodes := make([]ModuleNode, len(metas))
	for i := range metas {
		nodes[i] = ModuleNode{Meta: metas[i]}
	}

	idx := BuildIndex(metas)
	graph, _ := BuildGraph(idx, nodes)

	topo := ToposortKahn(graph)
	if !topo.Cyclic {
		t.Fatalf("expected a cyclic graph")
	}

	got := idsToNames(idx, topo.Cycles)
	want := []string{"b", "c"}
	if len(got) != len(want) {
		t.Fatalf("cycle members = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cycle members = %v, want %v", got, want)
		}
	}
}

func TestReportBrokenDeps(t *testing.T) {
	depErr := &diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaTypeMismatch,
		Message:  "type mismatch",
		Primary:  source.Span{File: 2, Start: 3, End: 7},
	}
	metaApp := project.ModuleMeta{
		Path: "app",
		Span: source.Span{File: 1, Start: 0, End: 4},
		Imports: []project.ImportMeta{
			{Path: "lib", Span: source.Span{File: 1, Start: 1, End: 3}},
		},
	}
	metaLib := project.ModuleMeta{Path: "lib", Span: source.Span{File: 2, Start: 0, End: 4}}

	bagApp := diag.NewBag(10)
	nodes := []ModuleNode{
		{Meta: metaApp, Reporter: &diag.BagReporter{Bag: bagApp}},
		{Meta: metaLib, Broken: true, FirstErr: depErr},
	}

	idx := BuildIndex([]project.ModuleMeta{metaApp, metaLib})
	_, slots := BuildGraph(idx, nodes)

	ReportBrokenDeps(idx, slots)

	if bagApp.Len() != 1 {
		t.Fatalf("app diagnostics = %d, want 1", bagApp.Len())
	}
	d := bagApp.Items()[0]
	if d.Code != diag.ProjDepFailed {
		t.Fatalf("diag code = %v, want %v", d.Code, diag.ProjDepFailed)
	}
	if len(d.Notes) != 1 || d.Notes[0].Span != depErr.Primary {
		t.Fatalf("expected note pointing at first dependency error, got %+v", d.Notes)
	}
}
