// Package transition computes the directed state-transition graph over
// an admissible state set: a fixed-point generator over derivative
// application, relation propagation, and exogenous perturbation.
//
// For every admissible state, every subset of 1 up to the maximum
// subset size (3 unless WithMaxSubsetSize overrides it) quantity names, every randomized quantity in the model (once, with a
// no-random sentinel when the model declares none), and every next
// derivative within ±1 of that quantity's current derivative, the
// generator derives a candidate successor by applying derivatives to
// the chosen subset, propagating relations once, and applying the
// exogenous derivative. A candidate becomes an edge only if it lands on
// a different state already in the admissible set. The whole pass
// repeats until a full sweep adds no new edge.
package transition
