// SPDX-License-Identifier: MIT

package matrix

import "fmt"

const (
	opScale     = "Scale"
	opAxpy      = "Axpy"
	opTranspose = "TransposeInto"
	opAdjoint   = "AdjointInto"
	opTrapezoid = "MakeTrapezoidal"
	opDiagonal  = "SetDiagonal"
)

func scaleInPlace[T Scalar](alpha T, m *Dense[T]) {
	if m.isEmpty() {
		return
	}
	var zero T
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.ld : i*m.ld+m.cols]
		if alpha == zero {
			clear(row)
			continue
		}
		for j := range row {
			row[j] *= alpha
		}
	}
}

// Scale computes m := alpha*m.
func Scale[T Scalar](alpha T, m *Dense[T]) error {
	if m == nil {
		return matrixErrorf(opScale, ErrNilMatrix)
	}
	if m.Locked() {
		return matrixErrorf(opScale, ErrLockedView)
	}
	scaleInPlace(alpha, m)

	return nil
}

// Axpy computes y := alpha*x + y for equally shaped x and y.
func Axpy[T Scalar](alpha T, x, y *Dense[T]) error {
	if x == nil || y == nil {
		return matrixErrorf(opAxpy, ErrNilMatrix)
	}
	if y.Locked() {
		return matrixErrorf(opAxpy, ErrLockedView)
	}
	if x.rows != y.rows || x.cols != y.cols {
		return matrixErrorf(opAxpy, ErrDimensionMismatch)
	}
	if y.isEmpty() {
		return nil
	}
	for i := 0; i < y.rows; i++ {
		xr := x.data[i*x.ld : i*x.ld+x.cols]
		yr := y.data[i*y.ld : i*y.ld+y.cols]
		for j, v := range xr {
			yr[j] += alpha * v
		}
	}

	return nil
}

func transposeInto[T Scalar](tag string, conj bool, a, b *Dense[T]) error {
	if a == nil || b == nil {
		return matrixErrorf(tag, ErrNilMatrix)
	}
	if b.Locked() {
		return matrixErrorf(tag, ErrLockedView)
	}
	if b.rows != a.cols || b.cols != a.rows {
		return matrixErrorf(tag, fmt.Errorf("A %dx%d into B %dx%d: %w", a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch))
	}
	for i := 0; i < a.rows; i++ {
		for j := 0; j < a.cols; j++ {
			v := a.data[i*a.ld+j]
			if conj {
				v = Conj(v)
			}
			b.data[j*b.ld+i] = v
		}
	}

	return nil
}

// TransposeInto writes A^T into B (B must be a.Cols()×a.Rows()).
func TransposeInto[T Scalar](a, b *Dense[T]) error {
	return transposeInto(opTranspose, false, a, b)
}

// AdjointInto writes A^H into B (B must be a.Cols()×a.Rows()).
func AdjointInto[T Scalar](a, b *Dense[T]) error {
	return transposeInto(opAdjoint, true, a, b)
}

// MakeTrapezoidal zeroes the entries outside the uplo trapezoid: for Lower,
// entries with j-i > offset; for Upper, entries with j-i < offset.
// rowOffset and colOffset give the global position of m's (0,0) and the
// global index steps between consecutive local rows and columns, so the
// kernel also serves strided local blocks of distributed matrices.
func MakeTrapezoidal[T Scalar](uplo Uplo, offset int, m *Dense[T], rowOffset, rowStride, colOffset, colStride int) error {
	if m == nil {
		return matrixErrorf(opTrapezoid, ErrNilMatrix)
	}
	if m.Locked() {
		return matrixErrorf(opTrapezoid, ErrLockedView)
	}
	var zero T
	for i := 0; i < m.rows; i++ {
		gi := rowOffset + i*rowStride
		for j := 0; j < m.cols; j++ {
			d := colOffset + j*colStride - gi
			if (uplo == Lower && d > offset) || (uplo == Upper && d < offset) {
				m.data[i*m.ld+j] = zero
			}
		}
	}

	return nil
}

// SetDiagonal assigns v to every entry whose global row and column agree,
// using the same offset/stride convention as MakeTrapezoidal.
func SetDiagonal[T Scalar](v T, m *Dense[T], rowOffset, rowStride, colOffset, colStride int) error {
	if m == nil {
		return matrixErrorf(opDiagonal, ErrNilMatrix)
	}
	if m.Locked() {
		return matrixErrorf(opDiagonal, ErrLockedView)
	}
	for i := 0; i < m.rows; i++ {
		gi := rowOffset + i*rowStride
		for j := 0; j < m.cols; j++ {
			if colOffset+j*colStride == gi {
				m.data[i*m.ld+j] = v
			}
		}
	}

	return nil
}
