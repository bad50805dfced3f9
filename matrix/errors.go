// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// Every message is prefixed with "matrix: ..." so that wrapped chains stay
// greppable. Kernels wrap at the detection site with the kernel name and
// callers match with errors.Is.

package matrix

import "errors"

var (
	// ErrBadShape is returned when a requested shape or leading dimension is invalid.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that an index or window is outside valid bounds.
	// Public indexers (At/Set/Update) return this instead of panicking.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates nonconformal operands (e.g. Gemm with
	// op(A).Cols != op(B).Rows, or Transpose into a wrongly shaped target).
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrLockedView is returned by every mutator of a BorrowedLocked matrix.
	ErrLockedView = errors.New("matrix: locked view is read-only")

	// ErrViewResize is returned when resizing storage the matrix does not own.
	ErrViewResize = errors.New("matrix: cannot resize a view")

	// ErrComplexOnly is returned by imaginary-part mutators on real data.
	ErrComplexOnly = errors.New("matrix: called complex-only routine with real data")

	// ErrNilMatrix indicates that a nil *Dense was passed.
	ErrNilMatrix = errors.New("matrix: nil matrix")
)
