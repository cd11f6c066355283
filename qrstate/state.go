package qrstate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/qreason/qrvalue"
)

// bitsPerQuantity is 3 bits for the landmark (offset by 2 so the range
// -2..2 fits in 0..4) plus 2 bits for the derivative (offset by 1 so
// -1..1 fits in 0..2).
const bitsPerQuantity = 5

// maxQuantities is the largest model Enumerate can pack into a uint64
// StateID: 64 / bitsPerQuantity, rounded down.
const maxQuantities = 64 / bitsPerQuantity

// ErrTooManyQuantities indicates a model with more quantities than a
// StateID can pack into 64 bits.
var ErrTooManyQuantities = errors.New("qrstate: model has more quantities than fit in a packed StateID")

// StateID is a packed, hashable identity for a State: 5 bits per
// quantity (3 for the landmark, 2 for the derivative), most significant
// quantity first.
type StateID uint64

// State is an immutable tuple of (magnitude, derivative) pairs, one per
// quantity, in quantity declaration order. Values derived from a State
// are always new States; nothing about a State is mutated in place.
type State struct {
	ID     StateID
	Values []qrvalue.Pair
}

// pack computes the StateID for values, the order matching the model's
// quantity declaration order.
func pack(values []qrvalue.Pair) (StateID, error) {
	if len(values) > maxQuantities {
		return 0, fmt.Errorf("%w: %d quantities, max %d", ErrTooManyQuantities, len(values), maxQuantities)
	}
	var id StateID
	for _, p := range values {
		cell := uint64(p.Magnitude+2)<<2 | uint64(p.Derivative+1)
		id = id<<bitsPerQuantity | StateID(cell)
	}
	return id, nil
}

// NewState packs values into a State, validating that the model can
// represent that many quantities in a single StateID.
func NewState(values []qrvalue.Pair) (State, error) {
	id, err := pack(values)
	if err != nil {
		return State{}, err
	}
	return State{ID: id, Values: append([]qrvalue.Pair(nil), values...)}, nil
}

// With returns a new State equal to s except that quantity index i
// takes value p. States are never mutated in place; a derived State is
// always a fresh value.
func (s State) With(i int, p qrvalue.Pair) (State, error) {
	values := append([]qrvalue.Pair(nil), s.Values...)
	values[i] = p
	return NewState(values)
}

// String renders a State as one "magnitude/derivative" line per
// quantity, in declaration order.
func (s State) String() string {
	var b strings.Builder
	for i, p := range s.Values {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.String())
	}
	return b.String()
}
