package pathsearch

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/katalvlaran/qreason/qrstate"
	"github.com/katalvlaran/qreason/transition"
)

// Sentinel errors. ErrNoPath signals callers to disable any path
// overlay rather than abort. ErrSameState and ErrNotAdmissible signal
// that the solver should still emit its graph, but path search itself
// cannot proceed.
var (
	// ErrSameState is returned when start == target.
	ErrSameState = errors.New("pathsearch: start and target are the same state")

	// ErrNotAdmissible is returned when start or target is not in the
	// admissible state set.
	ErrNotAdmissible = errors.New("pathsearch: state is not in the admissible set")

	// ErrNoPath is returned when the open set is exhausted without
	// reaching target.
	ErrNoPath = errors.New("pathsearch: target is unreachable from start")
)

// AStar finds a shortest path from start to target in g, restricted to
// states present in states. It returns the predecessor map built during
// the search: it holds the predecessor of every state the search
// discovered (start excluded), including every state on the path, so
// walking it backwards from target reaches start.
func AStar(g *transition.Graph, states *qrstate.StateSet, start, target qrstate.StateID) (map[qrstate.StateID]qrstate.StateID, error) {
	if start == target {
		return nil, ErrSameState
	}
	startState, ok := states.Get(start)
	if !ok {
		return nil, fmt.Errorf("%w: start %v", ErrNotAdmissible, start)
	}
	targetState, ok := states.Get(target)
	if !ok {
		return nil, fmt.Errorf("%w: target %v", ErrNotAdmissible, target)
	}

	gScore := map[qrstate.StateID]int{start: 0}
	predecessor := make(map[qrstate.StateID]qrstate.StateID)
	closed := make(map[qrstate.StateID]bool)

	open := &nodePQ{}
	heap.Init(open)
	heap.Push(open, &node{id: start, f: heuristic(startState, targetState)})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if closed[cur.id] {
			continue
		}
		if cur.id == target {
			return predecessor, nil
		}
		closed[cur.id] = true

		for succID := range g.Successors(cur.id) {
			if closed[succID] {
				continue
			}
			tentative := gScore[cur.id] + 1
			if best, ok := gScore[succID]; ok && tentative >= best {
				continue
			}
			gScore[succID] = tentative
			predecessor[succID] = cur.id

			succState, ok := states.Get(succID)
			if !ok {
				continue // transition.VerifyInvariants is the place to catch this; path search just skips it
			}
			heap.Push(open, &node{id: succID, f: tentative + heuristic(succState, targetState)})
		}
	}
	return nil, ErrNoPath
}

// heuristic is the Manhattan distance over the interleaved
// (magnitude, derivative) vector.
func heuristic(a, b qrstate.State) int {
	cost := 0
	for i := range a.Values {
		cost += absInt(int(a.Values[i].Magnitude) - int(b.Values[i].Magnitude))
		cost += absInt(int(a.Values[i].Derivative) - int(b.Values[i].Derivative))
	}
	return cost
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Reconstruct walks predecessor backwards from target to start,
// returning the path start→...→target, inclusive of both endpoints.
func Reconstruct(predecessor map[qrstate.StateID]qrstate.StateID, start, target qrstate.StateID) []qrstate.StateID {
	path := []qrstate.StateID{target}
	for cur := target; cur != start; {
		prev, ok := predecessor[cur]
		if !ok {
			return nil
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// node is a priority-queue entry keyed by f = g + h.
type node struct {
	id qrstate.StateID
	f  int
}

// nodePQ is a min-heap of *node ordered by ascending f, matching
// dijkstra's nodePQ lazy-decrease-key pattern: stale entries are
// skipped via the closed set rather than removed from the heap.
type nodePQ []*node

func (pq nodePQ) Len() int            { return len(pq) }
func (pq nodePQ) Less(i, j int) bool  { return pq[i].f < pq[j].f }
func (pq nodePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*node)) }
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
