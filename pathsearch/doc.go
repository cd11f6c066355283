// Package pathsearch implements A* over a transition graph: the
// shortest sequence of qualitative transitions from a start state to a
// target state.
//
// Cost is edge count; the heuristic is Manhattan distance over the
// interleaved (magnitude, derivative) vector. Because every edge
// changes each quantity's magnitude index and derivative by at most 1
// (guaranteed by the transition generator), the heuristic never
// overestimates the true remaining edge count and the search is
// admissible.
//
// AStar returns a predecessor map excluding the start state — walk it
// backwards from the target to reconstruct the path, mirroring
// dijkstra's ReturnPath convention.
package pathsearch
