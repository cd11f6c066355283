package qrio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/qreason/qrio"
)

const sinkModelDoc = `{
	// comments and trailing commas are both fine here
	"entities": ["tap", "container", "sink"],
	"entityRelations": [
		{"name": "Above of", "from": "tap", "to": "container"},
		{"name": "In bottom of", "from": "sink", "to": "container"},
	],
	"quantities": [
		{"name": "inflow", "magnitudes": ["NULL", "POS"], "randomized": true},
		{"name": "volume", "magnitudes": ["NULL", "POS", "MAX"]},
		{"name": "outflow", "magnitudes": ["NULL", "POS", "MAX"]},
	],
	"relations": [
		{"kind": "Influence", "sign": 1, "from": "inflow", "to": "volume"},
		{"kind": "Influence", "sign": -1, "from": "outflow", "to": "volume"},
		{"kind": "Proportion", "sign": 1, "from": "volume", "to": "outflow"},
		{"kind": "ValueConstraint", "sign": 1, "from": "volume", "to": "outflow"},
	],
}
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadModel_ParsesHuJSONDocument(t *testing.T) {
	path := writeTemp(t, "sink_problem.json", sinkModelDoc)
	m, err := qrio.LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if len(m.Quantities) != 3 {
		t.Fatalf("expected 3 quantities, got %d", len(m.Quantities))
	}
	if len(m.EntityRelations) != 2 {
		t.Fatalf("expected 2 entity relations, got %d", len(m.EntityRelations))
	}
	if idx := m.QuantityIndex("volume"); idx < 0 {
		t.Fatalf("expected volume to resolve to an index")
	}
}

func TestLoadModel_UnknownRelationTypeIsConfigError(t *testing.T) {
	doc := `{
		"quantities": [{"name": "a", "magnitudes": ["NULL"]}, {"name": "b", "magnitudes": ["NULL"]}],
		"relations": [{"kind": "Bogus", "sign": 1, "from": "a", "to": "b"}]
	}`
	path := writeTemp(t, "bad.json", doc)
	if _, err := qrio.LoadModel(path); err == nil {
		t.Fatalf("expected an error for an unknown relation kind")
	}
}

func TestLoadState_ResolvesQuantitiesByName(t *testing.T) {
	modelPath := writeTemp(t, "sink_problem.json", sinkModelDoc)
	m, err := qrio.LoadModel(modelPath)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}

	stateDoc := `{
		"values": [
			{"quantity": "outflow", "magnitude": "NULL", "derivative": "Steady"},
			{"quantity": "inflow", "magnitude": "NULL", "derivative": "Steady"},
			{"quantity": "volume", "magnitude": "NULL", "derivative": "Steady"},
		]
	}`
	statePath := writeTemp(t, "start.json", stateDoc)
	st, err := qrio.LoadState(statePath, m)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if len(st.Values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(st.Values))
	}
}

func TestLoadState_MissingQuantityIsError(t *testing.T) {
	modelPath := writeTemp(t, "sink_problem.json", sinkModelDoc)
	m, err := qrio.LoadModel(modelPath)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}

	stateDoc := `{
		"values": [
			{"quantity": "inflow", "magnitude": "NULL", "derivative": "Steady"},
			{"quantity": "volume", "magnitude": "NULL", "derivative": "Steady"}
		]
	}`
	statePath := writeTemp(t, "incomplete.json", stateDoc)
	if _, err := qrio.LoadState(statePath, m); err == nil {
		t.Fatalf("expected an error for a state document missing a quantity")
	}
}
