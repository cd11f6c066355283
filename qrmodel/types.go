package qrmodel

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/qreason/qrvalue"
)

// Sentinel errors wrapped into ConfigError by validation. Callers
// should match with errors.Is against these, not against ConfigError
// itself.
var (
	// ErrEmptyName indicates an entity, quantity, or relation endpoint
	// with an empty name.
	ErrEmptyName = errors.New("qrmodel: name is empty")

	// ErrDuplicateQuantity indicates two quantities sharing a name.
	ErrDuplicateQuantity = errors.New("qrmodel: duplicate quantity name")

	// ErrDuplicateEntity indicates two entities sharing a name.
	ErrDuplicateEntity = errors.New("qrmodel: duplicate entity name")

	// ErrUnknownQuantity indicates a relation or value constraint
	// referencing a quantity that was never declared.
	ErrUnknownQuantity = errors.New("qrmodel: unknown quantity reference")

	// ErrUnknownEntity indicates an entity relation referencing an
	// entity that was never declared.
	ErrUnknownEntity = errors.New("qrmodel: unknown entity reference")

	// ErrUnknownRelationType indicates a document's relation "kind"
	// field outside {"Influence","Proportion","Proportional","ValueConstraint"}.
	ErrUnknownRelationType = errors.New("qrmodel: unknown relation type")

	// ErrEmptyMagnitudes indicates a quantity declared with zero
	// possible magnitudes.
	ErrEmptyMagnitudes = errors.New("qrmodel: quantity has no possible magnitudes")

	// ErrNarrowRandomDerivatives indicates a randomized quantity whose
	// derivative set cannot ever move by exactly 1, so the exogenous
	// derivative step of the transition generator would never admit a
	// next value.
	ErrNarrowRandomDerivatives = errors.New("qrmodel: randomized quantity needs at least two derivative steps")
)

// ConfigError reports a malformed model document or programmatic
// construction call. It is always returned before a solve begins: a
// model that fails to construct never reaches the solver.
type ConfigError struct {
	Op  string // constructor or loader operation, e.g. "NewModel", "qrio.LoadModel"
	Err error  // wrapped sentinel
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("qrmodel: %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErr(op string, err error) *ConfigError {
	return &ConfigError{Op: op, Err: err}
}

// Entity is a named object with no dynamics of its own; it exists to
// be the endpoint of EntityRelations that document structural context.
type Entity struct {
	Name string
}

// EntityRelation is a named, directed pair of entities. Entities and
// entity relations are opaque to the solver.
type EntityRelation struct {
	Name string
	From string // Entity.Name
	To   string // Entity.Name
}

// RelationKind distinguishes the three QuantityRelation variants.
type RelationKind uint8

const (
	// Influence: source magnitude contributes (with Sign) to the
	// target's derivative. A zero source magnitude contributes nothing.
	Influence RelationKind = iota

	// Proportional: source derivative contributes (with Sign) to the
	// target's derivative.
	Proportional

	// ValueConstraint: target magnitude must equal source magnitude.
	// Only the equality form (sign-agnostic) is implemented; Sign is
	// still stored so a future inequality comparator has somewhere to
	// live without changing the wire shape.
	ValueConstraint
)

func (k RelationKind) String() string {
	switch k {
	case Influence:
		return "Influence"
	case Proportional:
		return "Proportion"
	case ValueConstraint:
		return "ValueConstraint"
	default:
		return fmt.Sprintf("RelationKind(%d)", uint8(k))
	}
}

// Relation is a directed, signed edge between two quantities, named by
// index into Model.Quantities rather than by pointer, so quantities and
// relations can be jointly owned by Model without cyclic ownership.
type Relation struct {
	Kind RelationKind
	Sign qrvalue.Sign
	From int // index into Model.Quantities
	To   int // index into Model.Quantities
}

// relRef pairs a relation index with the quantity index at its other
// endpoint — the shape Quantity.Incoming/Outgoing store: a relation
// plus the quantity at its other end, as a flat index pair rather than
// a pointer pair.
type relRef struct {
	RelationIdx int
	OtherIdx    int
}

// Quantity is a named variable with an ordered set of possible
// magnitudes and derivatives, an optional exogenous ("randomized")
// flag, and indices into Model.Relations for its incoming and outgoing
// edges.
type Quantity struct {
	Name        string
	Magnitudes  []qrvalue.Landmark
	Derivatives []qrvalue.Derivative
	Randomized  bool

	incoming []relRef
	outgoing []relRef
}

// Incoming returns the relations whose target is this quantity,
// together with the quantity index at the other (source) end.
func (q *Quantity) Incoming() []relRef { return q.incoming }

// Outgoing returns the relations whose source is this quantity,
// together with the quantity index at the other (target) end. The
// admissibility predicate and transition generator only ever need
// Incoming; Outgoing exists for consumers describing a quantity's full
// structural role (e.g. an export label or a debugging dump) that need
// the forward direction too.
func (q *Quantity) Outgoing() []relRef { return q.outgoing }

// ZeroDerivativeIndex returns the position of Steady (0) within
// Derivatives, or the middle index as an approximation when Steady was
// omitted from the declared set: the zero derivative is identified by
// position, not by value, when a quantity's derivative set is unusual.
func (q *Quantity) ZeroDerivativeIndex() int {
	if idx := qrvalue.IndexOf(q.Derivatives, qrvalue.Steady); idx >= 0 {
		return idx
	}
	return len(q.Derivatives) / 2
}

// Model is the full declarative schema: entities, entity relations,
// quantities, and the flat relation table, plus the name→index
// lookups every other package needs.
type Model struct {
	Entities        []Entity
	EntityRelations []EntityRelation
	Quantities      []Quantity
	Relations       []Relation

	qIndex map[string]int
	eIndex map[string]int
}

// QuantityIndex returns the index of the named quantity, or -1.
func (m *Model) QuantityIndex(name string) int {
	if idx, ok := m.qIndex[name]; ok {
		return idx
	}
	return -1
}
