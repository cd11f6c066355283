// options.go — functional options for programmatic Model construction.
//
// Contract:
//   - Options are functional (type ModelOption func(*builder) error).
//   - Option constructors never panic; invalid input is recorded and
//     surfaced as a *ConfigError from NewModel, not at option-apply time,
//     since an option may reference a quantity declared by a later
//     option in the same call.
//   - NewModel resolves all cross-references (relation endpoints, entity
//     relation endpoints, value constraints) after every option has run.
package qrmodel

import (
	"fmt"

	"github.com/katalvlaran/qreason/qrvalue"
)

// ModelOption mutates a builder while NewModel assembles a Model.
type ModelOption func(*builder) error

// builder accumulates raw declarations before NewModel resolves names
// to indices and validates the whole graph of references at once.
type builder struct {
	entities   []Entity
	entityRels []rawEntityRelation
	quantities []Quantity
	relations  []rawRelation
}

type rawEntityRelation struct {
	name, from, to string
}

type rawRelation struct {
	kind     RelationKind
	sign     qrvalue.Sign
	from, to string
}

// WithEntity declares an opaque entity by name.
func WithEntity(name string) ModelOption {
	return func(b *builder) error {
		if name == "" {
			return ErrEmptyName
		}
		b.entities = append(b.entities, Entity{Name: name})
		return nil
	}
}

// WithEntityRelation declares a named directed pair of entities.
func WithEntityRelation(name, from, to string) ModelOption {
	return func(b *builder) error {
		if name == "" || from == "" || to == "" {
			return ErrEmptyName
		}
		b.entityRels = append(b.entityRels, rawEntityRelation{name, from, to})
		return nil
	}
}

// QuantityOption narrows a single Quantity before it is appended to the
// builder by WithQuantity.
type QuantityOption func(*Quantity)

// WithMagnitudes sets the quantity's ordered possible-magnitude tuple.
// Required: every quantity must declare at least one magnitude.
func WithMagnitudes(landmarks ...qrvalue.Landmark) QuantityOption {
	return func(q *Quantity) { q.Magnitudes = landmarks }
}

// WithDerivatives narrows the quantity's possible-derivative tuple away
// from the default (Falling, Steady, Rising).
func WithDerivatives(derivs ...qrvalue.Derivative) QuantityOption {
	return func(q *Quantity) { q.Derivatives = derivs }
}

// Randomized marks the quantity as exogenous: its derivative may change
// spontaneously by at most ±1 per transition.
func Randomized() QuantityOption {
	return func(q *Quantity) { q.Randomized = true }
}

// WithQuantity declares a quantity by name, defaulting its derivative
// tuple to qrvalue.DefaultDerivatives unless WithDerivatives overrides
// it.
func WithQuantity(name string, opts ...QuantityOption) ModelOption {
	return func(b *builder) error {
		if name == "" {
			return ErrEmptyName
		}
		q := Quantity{
			Name:        name,
			Derivatives: qrvalue.DefaultDerivatives,
		}
		for _, opt := range opts {
			opt(&q)
		}
		if len(q.Magnitudes) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyMagnitudes, name)
		}
		if q.Randomized && !hasStepOfOne(q.Derivatives) {
			return fmt.Errorf("%w: %s", ErrNarrowRandomDerivatives, name)
		}
		b.quantities = append(b.quantities, q)
		return nil
	}
}

// hasStepOfOne reports whether derivs contains two values exactly 1
// apart, the minimum needed for an exogenous ±1 step to ever land on a
// declared derivative other than the current one.
func hasStepOfOne(derivs []qrvalue.Derivative) bool {
	for _, a := range derivs {
		for _, b := range derivs {
			d := int(a) - int(b)
			if d == 1 || d == -1 {
				return true
			}
		}
	}
	return false
}

// WithInfluence declares an Influence(from, to) relation: a non-zero
// magnitude on from contributes sign to the derivative of to.
func WithInfluence(sign qrvalue.Sign, from, to string) ModelOption {
	return withRelation(Influence, sign, from, to)
}

// WithProportional declares a Proportional(from, to) relation: the
// derivative of from contributes sign to the derivative of to.
func WithProportional(sign qrvalue.Sign, from, to string) ModelOption {
	return withRelation(Proportional, sign, from, to)
}

// WithValueConstraint declares an equality constraint between two
// quantities' magnitudes. Sign is retained for schema symmetry with the
// other two relation kinds but is not consulted by the admissibility
// predicate, which implements equality unconditionally.
func WithValueConstraint(sign qrvalue.Sign, from, to string) ModelOption {
	return withRelation(ValueConstraint, sign, from, to)
}

func withRelation(kind RelationKind, sign qrvalue.Sign, from, to string) ModelOption {
	return func(b *builder) error {
		if from == "" || to == "" {
			return ErrEmptyName
		}
		b.relations = append(b.relations, rawRelation{kind: kind, sign: sign, from: from, to: to})
		return nil
	}
}

// NewModel assembles a Model from opts, resolving every name reference
// to an index and validating the whole document in one pass. Any
// violation is returned as a *ConfigError wrapping one of the sentinels
// declared in types.go; the caller must not proceed to solve.
func NewModel(opts ...ModelOption) (*Model, error) {
	b := &builder{}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, configErr("NewModel", err)
		}
	}

	m := &Model{
		Entities:   b.entities,
		Quantities: b.quantities,
		qIndex:     make(map[string]int, len(b.quantities)),
		eIndex:     make(map[string]int, len(b.entities)),
	}

	for i, e := range m.Entities {
		if _, dup := m.eIndex[e.Name]; dup {
			return nil, configErr("NewModel", fmt.Errorf("%w: %s", ErrDuplicateEntity, e.Name))
		}
		m.eIndex[e.Name] = i
	}
	for i, q := range m.Quantities {
		if _, dup := m.qIndex[q.Name]; dup {
			return nil, configErr("NewModel", fmt.Errorf("%w: %s", ErrDuplicateQuantity, q.Name))
		}
		m.qIndex[q.Name] = i
	}

	for _, er := range b.entityRels {
		fromIdx, fromOK := m.eIndex[er.from]
		_, toOK := m.eIndex[er.to]
		if !fromOK || !toOK {
			bad := er.from
			if fromOK {
				bad = er.to
			}
			return nil, configErr("NewModel", fmt.Errorf("%w: %s", ErrUnknownEntity, bad))
		}
		_ = fromIdx
		m.EntityRelations = append(m.EntityRelations, EntityRelation{Name: er.name, From: er.from, To: er.to})
	}

	for _, rr := range b.relations {
		fromIdx, fromOK := m.qIndex[rr.from]
		toIdx, toOK := m.qIndex[rr.to]
		if !fromOK {
			return nil, configErr("NewModel", fmt.Errorf("%w: %s", ErrUnknownQuantity, rr.from))
		}
		if !toOK {
			return nil, configErr("NewModel", fmt.Errorf("%w: %s", ErrUnknownQuantity, rr.to))
		}
		relIdx := len(m.Relations)
		m.Relations = append(m.Relations, Relation{Kind: rr.kind, Sign: rr.sign, From: fromIdx, To: toIdx})
		m.Quantities[toIdx].incoming = append(m.Quantities[toIdx].incoming, relRef{RelationIdx: relIdx, OtherIdx: fromIdx})
		m.Quantities[fromIdx].outgoing = append(m.Quantities[fromIdx].outgoing, relRef{RelationIdx: relIdx, OtherIdx: toIdx})
	}

	return m, nil
}
