// Package qrmodel defines the declarative schema a qualitative
// reasoning engine solves over: entities, quantities, and the
// relations between quantities.
//
// Entities and EntityRelations are opaque to the solver — they exist
// only to document structural context ("tap above container") and are
// threaded through to the export adapter unchanged.
//
// Quantities carry an ordered tuple of possible magnitudes and
// derivatives, an optional randomized flag, and indices into a flat
// Relation table (rather than owning pointers to other quantities),
// following the "quantity table and relation table jointly owned by
// the model" design. Relation is a tagged union over three variants —
// Influence, Proportional, ValueConstraint — distinguished by Kind
// rather than by Go's type-switch/isinstance idiom.
//
// A Model is built either declaratively via NewModel and functional
// ModelOptions, or parsed from a configuration document by qrio.
package qrmodel
