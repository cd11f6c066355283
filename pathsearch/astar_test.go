package pathsearch_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/qreason/pathsearch"
	"github.com/katalvlaran/qreason/qrmodel"
	"github.com/katalvlaran/qreason/qrstate"
	"github.com/katalvlaran/qreason/qrvalue"
	"github.com/katalvlaran/qreason/transition"
)

func sinkModel(t *testing.T) *qrmodel.Model {
	t.Helper()
	m, err := qrmodel.NewModel(
		qrmodel.WithQuantity("inflow", qrmodel.WithMagnitudes(qrvalue.NULL, qrvalue.POS), qrmodel.Randomized()),
		qrmodel.WithQuantity("volume", qrmodel.WithMagnitudes(qrvalue.NULL, qrvalue.POS, qrvalue.MAX)),
		qrmodel.WithQuantity("outflow", qrmodel.WithMagnitudes(qrvalue.NULL, qrvalue.POS, qrvalue.MAX)),
		qrmodel.WithInfluence(qrvalue.Positive, "inflow", "volume"),
		qrmodel.WithInfluence(qrvalue.Negative, "outflow", "volume"),
		qrmodel.WithProportional(qrvalue.Positive, "volume", "outflow"),
		qrmodel.WithValueConstraint(qrvalue.Positive, "volume", "outflow"),
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func mustState(t *testing.T, values ...qrvalue.Pair) qrstate.State {
	t.Helper()
	st, err := qrstate.NewState(values)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return st
}

// TestAStar_FindsShortestPath checks that the path AStar returns is no
// longer than any path a breadth-first search over the same graph
// would find, since every edge has unit cost.
func TestAStar_FindsShortestPath(t *testing.T) {
	m := sinkModel(t)
	states, err := qrstate.Enumerate(m)
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	g, err := transition.Generate(m, states)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	allZero := mustState(t,
		qrvalue.Pair{Magnitude: qrvalue.NULL, Derivative: qrvalue.Steady},
		qrvalue.Pair{Magnitude: qrvalue.NULL, Derivative: qrvalue.Steady},
		qrvalue.Pair{Magnitude: qrvalue.NULL, Derivative: qrvalue.Steady},
	)
	if !states.Contains(allZero.ID) {
		t.Fatalf("expected all-zero steady state to be admissible")
	}

	var target qrstate.StateID
	found := false
	for _, id := range states.Ordered {
		if id != allZero.ID && len(g.Successors(allZero.ID)) > 0 {
			for succ := range g.Successors(allZero.ID) {
				target = succ
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		t.Fatalf("expected at least one successor of the all-zero steady state")
	}

	predecessor, err := pathsearch.AStar(g, states, allZero.ID, target)
	if err != nil {
		t.Fatalf("AStar: %v", err)
	}
	path := pathsearch.Reconstruct(predecessor, allZero.ID, target)
	if len(path) != 2 {
		t.Fatalf("expected a direct 2-state path for an immediate successor, got %d states", len(path))
	}
	if path[0] != allZero.ID || path[1] != target {
		t.Fatalf("path endpoints mismatch: got %v", path)
	}

	bfsDist := bfsDistance(g, allZero.ID, target)
	if len(path)-1 != bfsDist {
		t.Fatalf("A* path length %d does not match BFS shortest distance %d", len(path)-1, bfsDist)
	}
}

// TestAStar_SameStateIsDomainError checks that start == target is
// rejected before any search begins.
func TestAStar_SameStateIsDomainError(t *testing.T) {
	m := sinkModel(t)
	states, err := qrstate.Enumerate(m)
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	g, err := transition.Generate(m, states)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	allZero := mustState(t,
		qrvalue.Pair{Magnitude: qrvalue.NULL, Derivative: qrvalue.Steady},
		qrvalue.Pair{Magnitude: qrvalue.NULL, Derivative: qrvalue.Steady},
		qrvalue.Pair{Magnitude: qrvalue.NULL, Derivative: qrvalue.Steady},
	)
	_, err = pathsearch.AStar(g, states, allZero.ID, allZero.ID)
	if !errors.Is(err, pathsearch.ErrSameState) {
		t.Fatalf("expected ErrSameState, got %v", err)
	}
}

// TestAStar_UnreachableTargetIsNoPath checks that an admissible state
// unreachable from start yields ErrNoPath.
func TestAStar_UnreachableTargetIsNoPath(t *testing.T) {
	m := sinkModel(t)
	states, err := qrstate.Enumerate(m)
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	g, err := transition.Generate(m, states)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	allZero := mustState(t,
		qrvalue.Pair{Magnitude: qrvalue.NULL, Derivative: qrvalue.Steady},
		qrvalue.Pair{Magnitude: qrvalue.NULL, Derivative: qrvalue.Steady},
		qrvalue.Pair{Magnitude: qrvalue.NULL, Derivative: qrvalue.Steady},
	)

	var isolated qrstate.StateID
	found := false
	for _, id := range states.Ordered {
		if id == allZero.ID {
			continue
		}
		if !reachableFrom(g, allZero.ID, id) {
			isolated = id
			found = true
			break
		}
	}
	if !found {
		t.Skip("every admissible state is reachable from the all-zero steady state in this model")
	}

	_, err = pathsearch.AStar(g, states, allZero.ID, isolated)
	if !errors.Is(err, pathsearch.ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
}

// TestAStar_UnknownStateIsNotAdmissible checks a path-search endpoint
// outside the admissible set entirely.
func TestAStar_UnknownStateIsNotAdmissible(t *testing.T) {
	m := sinkModel(t)
	states, err := qrstate.Enumerate(m)
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	g, err := transition.Generate(m, states)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	allZero := mustState(t,
		qrvalue.Pair{Magnitude: qrvalue.NULL, Derivative: qrvalue.Steady},
		qrvalue.Pair{Magnitude: qrvalue.NULL, Derivative: qrvalue.Steady},
		qrvalue.Pair{Magnitude: qrvalue.NULL, Derivative: qrvalue.Steady},
	)
	bogus := mustState(t,
		qrvalue.Pair{Magnitude: qrvalue.MAX, Derivative: qrvalue.Falling},
		qrvalue.Pair{Magnitude: qrvalue.MIN, Derivative: qrvalue.Rising},
		qrvalue.Pair{Magnitude: qrvalue.MAX, Derivative: qrvalue.Falling},
	)
	if states.Contains(bogus.ID) {
		t.Skip("chosen bogus state happens to be admissible in this model")
	}

	_, err = pathsearch.AStar(g, states, allZero.ID, bogus.ID)
	if !errors.Is(err, pathsearch.ErrNotAdmissible) {
		t.Fatalf("expected ErrNotAdmissible, got %v", err)
	}
}

func bfsDistance(g *transition.Graph, start, target qrstate.StateID) int {
	if start == target {
		return 0
	}
	visited := map[qrstate.StateID]bool{start: true}
	frontier := []qrstate.StateID{start}
	dist := 0
	for len(frontier) > 0 {
		dist++
		var next []qrstate.StateID
		for _, id := range frontier {
			for succ := range g.Successors(id) {
				if succ == target {
					return dist
				}
				if !visited[succ] {
					visited[succ] = true
					next = append(next, succ)
				}
			}
		}
		frontier = next
	}
	return -1
}

func reachableFrom(g *transition.Graph, start, target qrstate.StateID) bool {
	return bfsDistance(g, start, target) >= 0
}
