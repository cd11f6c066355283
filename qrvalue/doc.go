// Package qrvalue defines the qualitative value algebra shared by every
// other package in qreason: the fixed landmark set, the derivative set,
// and the sign algebra used to combine relation contributions.
//
// A Landmark is one of five ordered qualitative magnitudes:
//
//	MIN < NEG < NULL < POS < MAX
//
// A quantity only ever occupies a subset of these, in order. A
// Derivative is one of three qualitative rates of change:
//
//	Falling < Steady < Rising
//
// Landmark and Derivative are both small signed integers so that a
// (Landmark, Derivative) pair packs into a handful of bits — see
// qrstate for the packed StateID encoding this enables.
package qrvalue
