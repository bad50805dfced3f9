// Package grid arranges the ranks of a communicator into an r×c process
// grid and answers every placement question the distributed matrices ask.
//
// Ranks are laid out column-major: the rank of a communicator (the "VC" rank)
// is row + r*col. The row-major numbering col + c*row is the "VR" rank.
// Diagonal paths: stepping (1,1) from (0,j) with wrap-around visits the grid
// in gcd(r,c) disjoint paths of length lcm(r,c); a process's path is
// (col-row) mod gcd(r,c) and its path rank is its position on that path.
//
// A Grid is immutable once built. Construction is local: the axis
// sub-communicators are derived deterministically, so every rank must call
// New on the same communicator in the same program order.
package grid
