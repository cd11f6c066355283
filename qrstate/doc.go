// Package qrstate enumerates the admissible state space of a model and
// gives each admissible state a compact, hashable identity.
//
// A State is a totally ordered tuple of (magnitude, derivative) pairs,
// one per quantity, in the quantity declaration order carried by the
// model. Its identity, StateID, packs that tuple into a uint64 (3 bits
// per landmark, 2 bits per derivative) so that a StateSet can use it
// directly as a map key instead of hashing a slice or a struct of
// slices.
//
// Enumerate forms the cartesian product of the union of every
// quantity's possible magnitudes and derivatives, and keeps only the
// tuples the admissibility predicate accepts. For realistic models
// (N ≲ 6) this is the whole state space; the admissibility filter pass
// over the candidate list is embarrassingly parallel and is optionally
// sharded across goroutines.
package qrstate
