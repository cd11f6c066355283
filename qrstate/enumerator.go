package qrstate

import (
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/qreason/admissibility"
	"github.com/katalvlaran/qreason/qrmodel"
	"github.com/katalvlaran/qreason/qrvalue"
)

// ErrStateSpaceTooLarge indicates the cartesian candidate count exceeds
// the configured cap, most likely a model with far more quantities or
// landmark values than this enumerator is meant for (realistic use
// stays around N ≲ 6 quantities).
var ErrStateSpaceTooLarge = errors.New("qrstate: candidate state space exceeds configured cap")

// defaultMaxCandidates bounds the cartesian product size Enumerate will
// attempt before failing fast, so a mis-specified model degrades into
// an error rather than an unbounded allocation.
const defaultMaxCandidates = 5_000_000

// StateSet is the admissible state set produced by Enumerate: every
// state reachable by the model's quantities that satisfies the
// admissibility predicate, plus the order in which they were found in
// the cartesian product.
type StateSet struct {
	ByID    map[StateID]State
	Ordered []StateID
}

// Get returns the State for id and whether it was found.
func (s *StateSet) Get(id StateID) (State, bool) {
	st, ok := s.ByID[id]
	return st, ok
}

// Contains reports whether id names an admissible state.
func (s *StateSet) Contains(id StateID) bool {
	_, ok := s.ByID[id]
	return ok
}

// Option configures Enumerate.
type Option func(*enumConfig)

type enumConfig struct {
	maxCandidates int
	workers       int
}

// WithMaxCandidates overrides the cartesian-product safety cap.
func WithMaxCandidates(n int) Option {
	return func(c *enumConfig) { c.maxCandidates = n }
}

// WithParallelism sets how many goroutines share the admissibility
// filter pass; each candidate row is independent of every other, so
// this is a pure speedup. n <= 1 runs the filter sequentially; the
// observable StateSet is identical either way.
func WithParallelism(n int) Option {
	return func(c *enumConfig) { c.workers = n }
}

// Enumerate builds the cartesian candidate space for m (the union of
// every quantity's possible magnitudes and derivatives, raised to the
// 2N-tuple), filters it through admissibility.Check, and returns the
// surviving states in enumeration order.
func Enumerate(m *qrmodel.Model, opts ...Option) (*StateSet, error) {
	cfg := enumConfig{maxCandidates: defaultMaxCandidates, workers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := len(m.Quantities)
	universe := unionValues(m)
	slots := 2 * n

	total := 1
	for i := 0; i < slots; i++ {
		total *= len(universe)
		if total > cfg.maxCandidates {
			return nil, fmt.Errorf("%w: %d candidates (cap %d)", ErrStateSpaceTooLarge, total, cfg.maxCandidates)
		}
	}
	// slots == 0 (an empty model) leaves total == 1: the single
	// empty-tuple candidate for a model with no quantities at all.

	rows := make([]admissibility.Row, total)
	accepted := make([]bool, total)

	workers := cfg.workers
	if workers < 1 {
		workers = 1
	}
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}
	if workers > total {
		workers = 1
	}

	chunk := (total + workers - 1) / workers
	if chunk == 0 {
		chunk = total
	}

	var g errgroup.Group
	for start := 0; start < total; start += chunk {
		start := start
		end := start + chunk
		if end > total {
			end = total
		}
		g.Go(func() error {
			digits := make([]int8, slots)
			for idx := start; idx < end; idx++ {
				decode(idx, universe, digits)
				row := rowFromDigits(digits, n)
				rows[idx] = row
				accepted[idx] = admissibility.Check(m, row)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &StateSet{ByID: make(map[StateID]State)}
	for idx := 0; idx < total; idx++ {
		if !accepted[idx] {
			continue
		}
		st, err := NewState([]qrvalue.Pair(rows[idx]))
		if err != nil {
			return nil, err
		}
		if _, dup := set.ByID[st.ID]; dup {
			continue
		}
		set.ByID[st.ID] = st
		set.Ordered = append(set.Ordered, st.ID)
	}
	return set, nil
}

// unionValues collects the distinct union of every quantity's possible
// magnitudes and derivatives, as a sorted slice of raw ordinal values —
// both share an int8 domain, so one slice serves both even (magnitude)
// and odd (derivative) candidate slots.
func unionValues(m *qrmodel.Model) []int8 {
	seen := make(map[int8]struct{})
	for _, q := range m.Quantities {
		for _, lm := range q.Magnitudes {
			seen[int8(lm)] = struct{}{}
		}
		for _, d := range q.Derivatives {
			seen[int8(d)] = struct{}{}
		}
	}
	vals := make([]int8, 0, len(seen))
	for v := range seen {
		vals = append(vals, v)
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
	return vals
}

// decode fills digits with the mixed-radix representation of idx over
// universe, most significant slot first.
func decode(idx int, universe []int8, digits []int8) {
	radix := len(universe)
	for j := len(digits) - 1; j >= 0; j-- {
		digits[j] = universe[idx%radix]
		idx /= radix
	}
}

func rowFromDigits(digits []int8, n int) admissibility.Row {
	row := make(admissibility.Row, n)
	for i := 0; i < n; i++ {
		row[i] = qrvalue.Pair{
			Magnitude:  qrvalue.Landmark(digits[2*i]),
			Derivative: qrvalue.Derivative(digits[2*i+1]),
		}
	}
	return row
}
