package qrio

import (
	"fmt"
	"os"
	"strings"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/katalvlaran/qreason/qrmodel"
	"github.com/katalvlaran/qreason/qrstate"
	"github.com/katalvlaran/qreason/transition"
)

// Node is one rendered state: id is its StateID formatted as a decimal
// string (JSON object keys and arbitrary-precision numbers don't mix
// well across decoders), label is the multi-line
// "quantity magnitude/derivative" text, one line per quantity in model
// declaration order, preceded by one line per entity relation when the
// model declares any.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Edge is one rendered transition; Highlight marks an edge that lies on
// the requested A* path, or is always false when no path was searched.
type Edge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Highlight bool   `json:"highlight"`
}

// Export is the full rendered graph: every admissible state as a node
// and every transition as an edge.
type Export struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// BuildExport renders states and g into an Export. When path is
// non-nil, every edge it names is marked Highlight.
func BuildExport(m *qrmodel.Model, states *qrstate.StateSet, g *transition.Graph, path []qrstate.StateID) *Export {
	onPath := make(map[[2]qrstate.StateID]bool, len(path))
	for i := 0; i+1 < len(path); i++ {
		onPath[[2]qrstate.StateID{path[i], path[i+1]}] = true
	}

	header := entityRelationHeader(m)

	exp := &Export{}
	for _, id := range states.Ordered {
		st, _ := states.Get(id)
		exp.Nodes = append(exp.Nodes, Node{
			ID:    formatStateID(id),
			Label: header + stateLabel(m, st),
		})
	}
	for _, from := range states.Ordered {
		for to := range g.Successors(from) {
			exp.Edges = append(exp.Edges, Edge{
				From:      formatStateID(from),
				To:        formatStateID(to),
				Highlight: onPath[[2]qrstate.StateID{from, to}],
			})
		}
	}
	return exp
}

// WriteExport marshals exp as pretty-printed JSON to path.
func WriteExport(path string, exp *Export) error {
	data, err := jsonv2.Marshal(exp, jsontext.Multiline(true))
	if err != nil {
		return fmt.Errorf("qrio: marshal export: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("qrio: write export %s: %w", path, err)
	}
	return nil
}

func formatStateID(id qrstate.StateID) string {
	return fmt.Sprintf("%d", uint64(id))
}

// stateLabel renders one line per quantity, in model declaration
// order.
func stateLabel(m *qrmodel.Model, st qrstate.State) string {
	var b strings.Builder
	for i, q := range m.Quantities {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(q.Name)
		b.WriteByte(' ')
		b.WriteString(st.Values[i].String())
	}
	return b.String()
}

// entityRelationHeader prefixes a node label with the model's entity
// relations when present, documenting the structural context (e.g. a
// tap sitting above a container) as descriptive metadata.
func entityRelationHeader(m *qrmodel.Model) string {
	if len(m.EntityRelations) == 0 {
		return ""
	}
	var b strings.Builder
	for _, er := range m.EntityRelations {
		fmt.Fprintf(&b, "%s: %s %s\n", er.Name, er.From, er.To)
	}
	return b.String()
}
