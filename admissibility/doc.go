// Package admissibility implements the single predicate the rest of
// the solver is built around: given a model and a candidate row of
// (magnitude, derivative) pairs — one per quantity, in declaration
// order — decide whether that row is internally consistent.
//
// The predicate is pure: it reads the model and the candidate row and
// nothing else, so the enumerator and the transition generator can both
// call it without coordinating any shared state.
package admissibility
