package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Topo is the result of a Kahn pass over the import graph. Because edges run
// dependency -> importer, Order lists dependencies before dependents and each
// Batch holds modules whose imports are all satisfied by earlier batches, so
// a batch can be checked in parallel.
type Topo struct {
	Order   []ModuleID   // linear order over present modules only
	Batches [][]ModuleID // waves of mutually independent modules
	Cyclic  bool
	Cycles  []ModuleID // nodes left inside a cycle
}

func safeModuleID(i int) (ModuleID, error) {
	mID, err := safecast.Conv[ModuleID](i)
	if err != nil {
		return 0, fmt.Errorf("module id overflow: %w", err)
	}
	return mID, nil
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]ModuleID, 0, nodeCount),
		Batches: make([][]ModuleID, 0),
	}

	active := 0
	for i := 0; i < nodeCount; i++ {
		if g.Present[i] {
			active++
		}
	}

	current := make([]ModuleID, 0, nodeCount)
	for i := 0; i < nodeCount; i++ {
		if !g.Present[i] {
			continue
		}
		if indeg[i] == 0 {
			mID, err := safeModuleID(i)
			if err != nil {
				panic(err)
			}
			current = append(current, mID)
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]ModuleID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]ModuleID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		residue := make([]bool, nodeCount)
		for i := 0; i < nodeCount; i++ {
			residue[i] = g.Present[i] && indeg[i] > 0
		}
		// The residue also holds modules that merely import a cycle. Those
		// importer tails have no outgoing edge left inside the residue, so
		// peeling them iteratively leaves exactly the cycle participants.
		for changed := true; changed; {
			changed = false
			for i := 0; i < nodeCount; i++ {
				if !residue[i] {
					continue
				}
				out := 0
				for _, to := range g.Edges[i] {
					if residue[int(to)] {
						out++
					}
				}
				if out == 0 {
					residue[i] = false
					changed = true
				}
			}
		}
		for i := 0; i < nodeCount; i++ {
			if !residue[i] {
				continue
			}
			mID, err := safeModuleID(i)
			if err != nil {
				panic(err)
			}
			topo.Cycles = append(topo.Cycles, mID)
		}
		slices.Sort(topo.Cycles)
	}

	return topo
}
