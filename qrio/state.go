package qrio

import (
	"fmt"
	"os"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/tailscale/hujson"

	"github.com/katalvlaran/qreason/qrmodel"
	"github.com/katalvlaran/qreason/qrstate"
	"github.com/katalvlaran/qreason/qrvalue"
)

// stateDocument is the on-disk shape of a start/target state file: one
// (magnitude, derivative) assignment per quantity, named rather than
// positional so the document survives a model's quantities being
// reordered.
type stateDocument struct {
	Values []stateValueDocument `json:"values"`
}

type stateValueDocument struct {
	Quantity   string `json:"quantity"`
	Magnitude  string `json:"magnitude"`
	Derivative string `json:"derivative"`
}

// LoadState reads a huJSON state document from path and resolves it
// against m's quantity order, returning the corresponding
// qrstate.State. Every quantity in m must appear exactly once in the
// document; a missing or duplicate quantity is a *qrmodel.ConfigError.
func LoadState(path string, m *qrmodel.Model) (qrstate.State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return qrstate.State{}, fmt.Errorf("qrio: read state %s: %w", path, err)
	}
	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return qrstate.State{}, &qrmodel.ConfigError{Op: "qrio.LoadState", Err: fmt.Errorf("standardize state %s: %w", path, err)}
	}

	var doc stateDocument
	if err := jsonv2.Unmarshal(standardized, &doc); err != nil {
		return qrstate.State{}, &qrmodel.ConfigError{Op: "qrio.LoadState", Err: fmt.Errorf("decode state %s: %w", path, err)}
	}
	st, err := buildState(&doc, m)
	if err != nil {
		return qrstate.State{}, &qrmodel.ConfigError{Op: "qrio.LoadState", Err: err}
	}
	return st, nil
}

func buildState(doc *stateDocument, m *qrmodel.Model) (qrstate.State, error) {
	values := make([]qrvalue.Pair, len(m.Quantities))
	seen := make([]bool, len(m.Quantities))

	for _, v := range doc.Values {
		idx := m.QuantityIndex(v.Quantity)
		if idx < 0 {
			return qrstate.State{}, fmt.Errorf("%w: %s", qrmodel.ErrUnknownQuantity, v.Quantity)
		}
		if seen[idx] {
			return qrstate.State{}, fmt.Errorf("%w: %s", qrmodel.ErrDuplicateQuantity, v.Quantity)
		}
		seen[idx] = true

		magnitude, err := qrvalue.ParseLandmark(v.Magnitude)
		if err != nil {
			return qrstate.State{}, fmt.Errorf("qrio: quantity %s: %w", v.Quantity, err)
		}
		derivative, err := qrvalue.ParseDerivative(v.Derivative)
		if err != nil {
			return qrstate.State{}, fmt.Errorf("qrio: quantity %s: %w", v.Quantity, err)
		}
		values[idx] = qrvalue.Pair{Magnitude: magnitude, Derivative: derivative}
	}

	for i, ok := range seen {
		if !ok {
			return qrstate.State{}, fmt.Errorf("%w: state document missing %s", qrmodel.ErrUnknownQuantity, m.Quantities[i].Name)
		}
	}

	return qrstate.NewState(values)
}
