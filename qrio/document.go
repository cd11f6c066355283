package qrio

import (
	"errors"
	"fmt"
	"os"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/tailscale/hujson"

	"github.com/katalvlaran/qreason/qrmodel"
	"github.com/katalvlaran/qreason/qrvalue"
)

// modelDocument is the on-disk shape of a model file: entities and
// their relations, then quantities and the relation table between
// them, by name. LoadModel resolves every name reference the same way
// qrmodel.NewModel does for programmatic construction.
type modelDocument struct {
	Entities        []string                 `json:"entities"`
	EntityRelations []entityRelationDocument `json:"entityRelations"`
	Quantities      []quantityDocument       `json:"quantities"`
	Relations       []relationDocument       `json:"relations"`
}

type entityRelationDocument struct {
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

type quantityDocument struct {
	Name        string   `json:"name"`
	Magnitudes  []string `json:"magnitudes"`
	Derivatives []string `json:"derivatives,omitempty"`
	Randomized  bool     `json:"randomized,omitempty"`
}

type relationDocument struct {
	Kind string `json:"kind"` // "Influence", "Proportion", "ValueConstraint"
	Sign int8   `json:"sign"` // +1 or -1
	From string `json:"from"`
	To   string `json:"to"`
}

// LoadModel reads a huJSON model document from path and assembles a
// *qrmodel.Model from it. Any malformed field surfaces as a
// *qrmodel.ConfigError, matching the fail-fast-at-load contract
// qrmodel.NewModel already implements for programmatic construction.
func LoadModel(path string) (*qrmodel.Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("qrio: read model %s: %w", path, err)
	}
	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return nil, &qrmodel.ConfigError{Op: "qrio.LoadModel", Err: fmt.Errorf("standardize model %s: %w", path, err)}
	}

	var doc modelDocument
	if err := jsonv2.Unmarshal(standardized, &doc); err != nil {
		return nil, &qrmodel.ConfigError{Op: "qrio.LoadModel", Err: fmt.Errorf("decode model %s: %w", path, err)}
	}
	m, err := buildModel(&doc)
	var cfgErr *qrmodel.ConfigError
	if err != nil && !errors.As(err, &cfgErr) {
		return nil, &qrmodel.ConfigError{Op: "qrio.LoadModel", Err: err}
	}
	return m, err
}

func buildModel(doc *modelDocument) (*qrmodel.Model, error) {
	var opts []qrmodel.ModelOption

	for _, name := range doc.Entities {
		opts = append(opts, qrmodel.WithEntity(name))
	}
	for _, er := range doc.EntityRelations {
		name := er.Name
		if name == "" {
			// A document author may omit the descriptive name for a
			// purely structural entity relation; synthesize a stable
			// one rather than rejecting the document.
			name = "entityRelation-" + uuid.NewString()
		}
		opts = append(opts, qrmodel.WithEntityRelation(name, er.From, er.To))
	}

	for _, qd := range doc.Quantities {
		magnitudes, err := parseLandmarks(qd.Magnitudes)
		if err != nil {
			return nil, fmt.Errorf("qrio: quantity %s: %w", qd.Name, err)
		}

		var qopts []qrmodel.QuantityOption
		qopts = append(qopts, qrmodel.WithMagnitudes(magnitudes...))
		if len(qd.Derivatives) > 0 {
			derivatives, err := parseDerivatives(qd.Derivatives)
			if err != nil {
				return nil, fmt.Errorf("qrio: quantity %s: %w", qd.Name, err)
			}
			qopts = append(qopts, qrmodel.WithDerivatives(derivatives...))
		}
		if qd.Randomized {
			qopts = append(qopts, qrmodel.Randomized())
		}
		opts = append(opts, qrmodel.WithQuantity(qd.Name, qopts...))
	}

	for _, rd := range doc.Relations {
		sign := qrvalue.Positive
		if rd.Sign < 0 {
			sign = qrvalue.Negative
		}
		switch rd.Kind {
		case "Influence":
			opts = append(opts, qrmodel.WithInfluence(sign, rd.From, rd.To))
		case "Proportion", "Proportional":
			opts = append(opts, qrmodel.WithProportional(sign, rd.From, rd.To))
		case "ValueConstraint":
			opts = append(opts, qrmodel.WithValueConstraint(sign, rd.From, rd.To))
		default:
			return nil, fmt.Errorf("%w: %q", qrmodel.ErrUnknownRelationType, rd.Kind)
		}
	}

	return qrmodel.NewModel(opts...)
}

func parseLandmarks(names []string) ([]qrvalue.Landmark, error) {
	out := make([]qrvalue.Landmark, len(names))
	for i, name := range names {
		lm, err := qrvalue.ParseLandmark(name)
		if err != nil {
			return nil, err
		}
		out[i] = lm
	}
	return out, nil
}

func parseDerivatives(names []string) ([]qrvalue.Derivative, error) {
	out := make([]qrvalue.Derivative, len(names))
	for i, name := range names {
		d, err := qrvalue.ParseDerivative(name)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
