package admissibility

import (
	"github.com/katalvlaran/qreason/qrmodel"
	"github.com/katalvlaran/qreason/qrvalue"
)

// Row is a candidate assignment of (magnitude, derivative) to every
// quantity in a model, ordered the same way as Model.Quantities.
type Row []qrvalue.Pair

// signSet is the small set of distinct sign contributions {-1,0,+1}
// collected from a quantity's incoming relations. Implemented as three
// booleans rather than a map — the domain is fixed and tiny.
type signSet struct {
	hasNeg, hasZero, hasPos bool
}

func (s *signSet) add(v int8) {
	switch {
	case v < 0:
		s.hasNeg = true
	case v > 0:
		s.hasPos = true
	default:
		s.hasZero = true
	}
}

// Check reports whether row satisfies every rule of the admissibility
// predicate with respect to m. row must have one entry per quantity in
// m.Quantities, in that order.
func Check(m *qrmodel.Model, row Row) bool {
	for i := range m.Quantities {
		if !checkQuantity(m, row, i) {
			return false
		}
	}
	return true
}

func checkQuantity(m *qrmodel.Model, row Row, i int) bool {
	q := &m.Quantities[i]
	pair := row[i]

	// Rule 1: landmark membership.
	magIdx := qrvalue.IndexOf(q.Magnitudes, pair.Magnitude)
	if magIdx < 0 {
		return false
	}
	if qrvalue.IndexOf(q.Derivatives, pair.Derivative) < 0 {
		return false
	}

	// Rule 2: landmark-boundary / derivative consistency.
	if pair.Magnitude == qrvalue.MAX && pair.Derivative > qrvalue.Steady {
		return false
	}
	if magIdx == 0 && pair.Derivative < qrvalue.Steady {
		return false
	}

	// Rule 3: value constraints (equality).
	for ri := range m.Relations {
		rel := &m.Relations[ri]
		if rel.Kind != qrmodel.ValueConstraint {
			continue
		}
		var other int
		switch i {
		case rel.From:
			other = rel.To
		case rel.To:
			other = rel.From
		default:
			continue
		}
		if row[other].Magnitude != pair.Magnitude {
			return false
		}
	}

	// Rule 4: relation/derivative consistency.
	required, ambiguous, constrained := resolveRequiredDerivative(m, row, q)
	if ambiguous || !constrained {
		return true
	}
	return pair.Derivative == required
}

// ResolveRequiredDerivative reports the single derivative quantity i's
// incoming relations force given row, for the transition generator's
// relation-propagation step: ambiguous is true when
// both signs appear (any derivative is acceptable, so the caller must
// leave the current value unchanged); constrained is false only when
// the quantity has no incoming Influence or Proportional relation. A
// set holding only zero contributions forces Steady. Only when
// constrained is true and ambiguous is false does required hold a
// single forced value.
func ResolveRequiredDerivative(m *qrmodel.Model, row Row, i int) (required qrvalue.Derivative, ambiguous, constrained bool) {
	return resolveRequiredDerivative(m, row, &m.Quantities[i])
}

func resolveRequiredDerivative(m *qrmodel.Model, row Row, q *qrmodel.Quantity) (required qrvalue.Derivative, ambiguous, constrained bool) {
	signs := signContributions(m, row, q)
	switch {
	case signs.hasNeg && signs.hasPos:
		return 0, true, true
	case signs.hasNeg:
		return qrvalue.Falling, false, true
	case signs.hasPos:
		return qrvalue.Rising, false, true
	case signs.hasZero:
		return qrvalue.Steady, false, true
	default:
		return 0, false, false
	}
}

// signContributions collects, for quantity q, the sign contribution of
// each incoming relation given the values the sources take in row.
func signContributions(m *qrmodel.Model, row Row, q *qrmodel.Quantity) signSet {
	var signs signSet
	for _, ref := range q.Incoming() {
		rel := &m.Relations[ref.RelationIdx]
		source := row[ref.OtherIdx]
		var contribution int8
		switch rel.Kind {
		case qrmodel.Influence:
			if source.Magnitude != qrvalue.NULL {
				contribution = int8(rel.Sign)
			}
		case qrmodel.Proportional:
			contribution = int8(rel.Sign) * int8(source.Derivative)
		default:
			// ValueConstraint relations do not contribute to the
			// derivative sign set; they are handled by rule 3.
			continue
		}
		signs.add(contribution)
	}
	return signs
}
