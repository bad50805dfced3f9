// SPDX-License-Identifier: MIT

package matrix

import "gonum.org/v1/gonum/blas"

// Scalar is the element constraint of every matrix in lvdist.
type Scalar interface {
	float32 | float64 | complex64 | complex128
}

// Ownership tags who owns a matrix's storage.
type Ownership uint8

const (
	// Owned storage was allocated by the matrix itself.
	Owned Ownership = iota
	// Borrowed storage belongs to another matrix or to the caller; writable.
	Borrowed
	// BorrowedLocked storage belongs elsewhere and is read-only.
	BorrowedLocked
)

// String implements fmt.Stringer.
func (o Ownership) String() string {
	switch o {
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	case BorrowedLocked:
		return "borrowed-locked"
	default:
		return "ownership(?)"
	}
}

// Orientation selects op(A): A, A^T or A^H.
type Orientation uint8

const (
	Normal Orientation = iota
	Transpose
	Adjoint
)

// String implements fmt.Stringer.
func (o Orientation) String() string {
	switch o {
	case Normal:
		return "N"
	case Transpose:
		return "T"
	case Adjoint:
		return "C"
	default:
		return "?"
	}
}

// blasTranspose maps an Orientation onto gonum's flag. Real kernels treat
// Adjoint as Transpose.
func (o Orientation) blasTranspose(complexData bool) blas.Transpose {
	switch o {
	case Transpose:
		return blas.Trans
	case Adjoint:
		if complexData {
			return blas.ConjTrans
		}
		return blas.Trans
	default:
		return blas.NoTrans
	}
}

// Diag says whether a triangular matrix has an implicit unit diagonal.
type Diag uint8

const (
	NonUnit Diag = iota
	Unit
)

func (d Diag) blasDiag() blas.Diag {
	if d == Unit {
		return blas.Unit
	}
	return blas.NonUnit
}

// String implements fmt.Stringer.
func (d Diag) String() string {
	if d == Unit {
		return "U"
	}
	return "N"
}

// Uplo selects the referenced triangle.
type Uplo uint8

const (
	Lower Uplo = iota
	Upper
)

func (u Uplo) blasUplo() blas.Uplo {
	if u == Upper {
		return blas.Upper
	}
	return blas.Lower
}

// String implements fmt.Stringer.
func (u Uplo) String() string {
	if u == Upper {
		return "U"
	}
	return "L"
}

// Side says whether the triangular operand multiplies from the left or right.
type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) blasSide() blas.Side {
	if s == Right {
		return blas.Right
	}
	return blas.Left
}

// String implements fmt.Stringer.
func (s Side) String() string {
	if s == Right {
		return "R"
	}
	return "L"
}
