package transition

import "github.com/katalvlaran/qreason/qrstate"

// Graph is a directed adjacency structure over admissible StateIDs,
// specialised to the fixed set of StateID vertices Generate discovers
// — there are no separate vertex/edge records to add or remove after
// the fact, so a single adjacency map is enough.
type Graph struct {
	edges map[qrstate.StateID]map[qrstate.StateID]struct{}
}

// NewGraph returns an empty Graph ready for Generate to populate.
func NewGraph() *Graph {
	return &Graph{edges: make(map[qrstate.StateID]map[qrstate.StateID]struct{})}
}

// addEdge adds from→to and reports whether it was new. Self-loops are
// rejected unconditionally: self-loops are forbidden.
func (g *Graph) addEdge(from, to qrstate.StateID) bool {
	if from == to {
		return false
	}
	succ, ok := g.edges[from]
	if !ok {
		succ = make(map[qrstate.StateID]struct{})
		g.edges[from] = succ
	}
	if _, dup := succ[to]; dup {
		return false
	}
	succ[to] = struct{}{}
	return true
}

// Successors returns the set of states reachable from id by one edge.
func (g *Graph) Successors(id qrstate.StateID) map[qrstate.StateID]struct{} {
	return g.edges[id]
}

// HasEdge reports whether from→to is an edge in g.
func (g *Graph) HasEdge(from, to qrstate.StateID) bool {
	_, ok := g.edges[from][to]
	return ok
}

// EdgeCount returns the total number of directed edges in g.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, succ := range g.edges {
		n += len(succ)
	}
	return n
}
