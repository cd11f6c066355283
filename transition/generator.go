package transition

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/qreason/admissibility"
	"github.com/katalvlaran/qreason/qrmodel"
	"github.com/katalvlaran/qreason/qrstate"
	"github.com/katalvlaran/qreason/qrvalue"
)

// ErrInvariantViolation signals that Generate produced an edge whose
// endpoint is missing from the admissible state set — a bug in the
// generator. It is never expected to surface; Generate checks before
// every insertion, so this exists only as a last-resort guard.
var ErrInvariantViolation = errors.New("transition: generated edge endpoint missing from admissible set")

// defaultMaxSubsetSize is the pragmatic cap on how many quantities a
// single transition step may shift at once. Configurable via
// WithMaxSubsetSize rather than hardcoded, since every other
// construction knob in this codebase is an Option.
const defaultMaxSubsetSize = 3

// Option configures Generate.
type Option func(*genConfig)

type genConfig struct {
	maxSubsetSize int
}

// WithMaxSubsetSize overrides the default subset-size cap of 3.
func WithMaxSubsetSize(n int) Option {
	return func(c *genConfig) {
		if n > 0 {
			c.maxSubsetSize = n
		}
	}
}

// Generate computes the transition graph over states by iterating the
// fixed-point procedure to completion.
func Generate(m *qrmodel.Model, states *qrstate.StateSet, opts ...Option) (*Graph, error) {
	cfg := genConfig{maxSubsetSize: defaultMaxSubsetSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := len(m.Quantities)
	subsets := combinationsUpTo(n, cfg.maxSubsetSize)
	randomQuantities := randomizedIndices(m)

	g := NewGraph()

	for progress := true; progress; {
		progress = false
		for _, id := range states.Ordered {
			s, _ := states.Get(id)
			for _, k := range subsets {
				for _, r := range randomQuantities {
					if stepState(m, states, g, s, k, r) {
						progress = true
					}
				}
			}
		}
	}
	return g, nil
}

// noRandomSentinel stands in for "no randomized quantity" so the
// subset-over-derivative pass still runs once per (state, subset) and
// discovers purely endogenous transitions even when the model declares
// no exogenous quantity at all.
const noRandomSentinel = -1

// randomizedIndices returns the quantity indices flagged Randomized,
// or the single no-random sentinel when there are none.
func randomizedIndices(m *qrmodel.Model) []int {
	var idx []int
	for i, q := range m.Quantities {
		if q.Randomized {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return []int{noRandomSentinel}
	}
	return idx
}

// stepState evaluates every exogenous-derivative candidate for one
// (state, subset, randomized-quantity) triple and accepts any edge that
// results in a new, distinct, admissible successor. It returns whether
// at least one edge was added.
func stepState(m *qrmodel.Model, states *qrstate.StateSet, g *Graph, s qrstate.State, k []int, r int) bool {
	inK := r != noRandomSentinel && containsInt(k, r)

	dStarOptions := []qrvalue.Derivative{qrvalue.Steady} // placeholder; only consulted when inK
	if inK {
		dStarOptions = nextDerivatives(&m.Quantities[r], s.Values[r].Derivative)
	}

	added := false
	for _, dStar := range dStarOptions {
		candidate := applyDerivatives(m, s.Values, k)
		applyRelationsOnce(m, candidate)
		if inK {
			candidate[r].Derivative = dStar
		}

		candidateState, err := qrstate.NewState(candidate)
		if err != nil {
			continue // cannot happen for a model Generate was built from, but never panic on it
		}
		if candidateState.ID == s.ID {
			continue
		}
		if !states.Contains(candidateState.ID) {
			continue
		}
		if g.addEdge(s.ID, candidateState.ID) {
			added = true
		}

		if !inK {
			break // every dStar produces the same candidate; one pass suffices
		}
	}
	return added
}

// applyDerivatives returns a fresh copy of values with every quantity
// in k shifted by its own current derivative, clamped to the last valid
// magnitude index — never past it.
func applyDerivatives(m *qrmodel.Model, values []qrvalue.Pair, k []int) []qrvalue.Pair {
	out := append([]qrvalue.Pair(nil), values...)
	for _, i := range k {
		q := &m.Quantities[i]
		cur := out[i]
		idx := qrvalue.IndexOf(q.Magnitudes, cur.Magnitude)
		idx = qrvalue.ClampIndex(idx+int(cur.Derivative), len(q.Magnitudes))
		out[i] = qrvalue.Pair{Magnitude: q.Magnitudes[idx], Derivative: cur.Derivative}
	}
	return out
}

// applyRelationsOnce recomputes every quantity's derivative from its
// incoming relations' sign set, in place, overwriting only when the
// result is unambiguous, constrained, and differs from the current
// value. Ambiguous or unconstrained quantities are left exactly as
// applyDerivatives left them.
func applyRelationsOnce(m *qrmodel.Model, row []qrvalue.Pair) {
	for i := range m.Quantities {
		required, ambiguous, constrained := admissibility.ResolveRequiredDerivative(m, admissibility.Row(row), i)
		if !constrained || ambiguous {
			continue
		}
		if row[i].Derivative != required {
			row[i].Derivative = required
		}
	}
}

// nextDerivatives returns the values within q's possible-derivative set
// that are at most 1 away (in qualitative sign) from current.
func nextDerivatives(q *qrmodel.Quantity, current qrvalue.Derivative) []qrvalue.Derivative {
	var out []qrvalue.Derivative
	for _, d := range q.Derivatives {
		diff := int(d) - int(current)
		if diff < 0 {
			diff = -diff
		}
		if diff <= 1 {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		out = []qrvalue.Derivative{current}
	}
	return out
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// combinationsUpTo returns every subset of {0,...,n-1} of size 1..max,
// inclusive, ordered by size and lexicographically within each size.
// The order is immaterial to the
// final edge set but fixed here for determinism across runs.
func combinationsUpTo(n, max int) [][]int {
	if max > n {
		max = n
	}
	var out [][]int
	var combo []int
	var rec func(start, size int)
	rec = func(start, size int) {
		if len(combo) == size {
			out = append(out, append([]int(nil), combo...))
			return
		}
		for i := start; i < n; i++ {
			combo = append(combo, i)
			rec(i+1, size)
			combo = combo[:len(combo)-1]
		}
	}
	for size := 1; size <= max; size++ {
		rec(0, size)
	}
	return out
}

// VerifyInvariants re-checks edge closure and step-size bounds against
// g and panics with ErrInvariantViolation if either is broken: an
// invariant violation here indicates a bug in Generate, not bad input,
// so it aborts rather than returning an error.
func VerifyInvariants(m *qrmodel.Model, states *qrstate.StateSet, g *Graph) {
	for from, succ := range g.edges {
		fromState, ok := states.Get(from)
		if !ok {
			panic(fmt.Errorf("%w: source %v", ErrInvariantViolation, from))
		}
		for to := range succ {
			toState, ok := states.Get(to)
			if !ok {
				panic(fmt.Errorf("%w: target %v", ErrInvariantViolation, to))
			}
			if from == to {
				panic(fmt.Errorf("%w: self-loop at %v", ErrInvariantViolation, from))
			}
			for i := range fromState.Values {
				if stepDistance(&m.Quantities[i], fromState.Values[i], toState.Values[i]) {
					panic(fmt.Errorf("%w: step exceeds ±1 between %v and %v", ErrInvariantViolation, fromState, toState))
				}
			}
		}
	}
}

// stepDistance reports whether a and b differ by more than 1 landmark
// index (within q's own possible-magnitude ordering) or more than 1
// derivative step — a step-size violation.
func stepDistance(q *qrmodel.Quantity, a, b qrvalue.Pair) bool {
	magDiff := qrvalue.IndexOf(q.Magnitudes, a.Magnitude) - qrvalue.IndexOf(q.Magnitudes, b.Magnitude)
	if magDiff < 0 {
		magDiff = -magDiff
	}
	derivDiff := int(a.Derivative) - int(b.Derivative)
	if derivDiff < 0 {
		derivDiff = -derivDiff
	}
	return magDiff > 1 || derivDiff > 1
}
