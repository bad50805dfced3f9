// SPDX-License-Identifier: MIT

// Package matrix - local BLAS level-3 kernels.
//
// Purpose:
//   - Gemm and Trmm on strided row-major Dense blocks, dispatched per scalar
//     type onto gonum's pure-Go BLAS (blas32, blas64, cblas64, cblas128).
//
// Behavior highlights:
//   - Shapes are validated before any kernel runs; gonum panics on bad
//     arguments, so nothing nonconformal ever reaches it.
//   - Empty operands short-circuit (gonum rejects zero leading extents on
//     some paths).

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/blas/cblas64"
)

const (
	opGemm = "Gemm"
	opTrmm = "Trmm"
)

// matrixErrorf wraps a sentinel with the operation tag.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// opShape returns the shape of op(m).
func opShape[T Scalar](o Orientation, m *Dense[T]) (rows, cols int) {
	if o == Normal {
		return m.rows, m.cols
	}
	return m.cols, m.rows
}

// Gemm computes C := alpha*op(A)*op(B) + beta*C.
// MAIN DESCRIPTION:
//   - General matrix-matrix multiply of local blocks.
//
// Implementation:
//   - Stage 1: validate non-nil operands, unlocked C and conformal shapes.
//   - Stage 2: handle empty products (only the beta scaling remains).
//   - Stage 3: dispatch on T to Sgemm/Dgemm/Cgemm/Zgemm.
//
// Errors:
//   - ErrNilMatrix, ErrLockedView, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(m*n*k), Space O(1).
func Gemm[T Scalar](tA, tB Orientation, alpha T, a, b *Dense[T], beta T, c *Dense[T]) error {
	if a == nil || b == nil || c == nil {
		return matrixErrorf(opGemm, ErrNilMatrix)
	}
	if c.Locked() {
		return matrixErrorf(opGemm, ErrLockedView)
	}
	m, k := opShape(tA, a)
	kb, n := opShape(tB, b)
	if k != kb || c.rows != m || c.cols != n {
		return matrixErrorf(opGemm, fmt.Errorf("op(A) %dx%d, op(B) %dx%d, C %dx%d: %w",
			m, k, kb, n, c.rows, c.cols, ErrDimensionMismatch))
	}
	if m == 0 || n == 0 {
		return nil
	}
	if k == 0 {
		scaleInPlace(beta, c)
		return nil
	}

	cx := IsComplex[T]()
	ta, tb := tA.blasTranspose(cx), tB.blasTranspose(cx)
	switch ad := any(a.data).(type) {
	case []float64:
		blas64.Implementation().Dgemm(ta, tb, m, n, k,
			any(alpha).(float64), ad, a.ld, any(b.data).([]float64), b.ld,
			any(beta).(float64), any(c.data).([]float64), c.ld)
	case []float32:
		blas32.Implementation().Sgemm(ta, tb, m, n, k,
			any(alpha).(float32), ad, a.ld, any(b.data).([]float32), b.ld,
			any(beta).(float32), any(c.data).([]float32), c.ld)
	case []complex128:
		cblas128.Implementation().Zgemm(ta, tb, m, n, k,
			any(alpha).(complex128), ad, a.ld, any(b.data).([]complex128), b.ld,
			any(beta).(complex128), any(c.data).([]complex128), c.ld)
	case []complex64:
		cblas64.Implementation().Cgemm(ta, tb, m, n, k,
			any(alpha).(complex64), ad, a.ld, any(b.data).([]complex64), b.ld,
			any(beta).(complex64), any(c.data).([]complex64), c.ld)
	}

	return nil
}

// Trmm computes B := alpha*op(A)*B (side Left) or B := alpha*B*op(A)
// (side Right), where A is triangular. Only the uplo triangle of A is read;
// with Unit the diagonal of A is taken as ones.
//
// Errors:
//   - ErrNilMatrix, ErrLockedView, ErrNonSquare, ErrDimensionMismatch.
func Trmm[T Scalar](side Side, uplo Uplo, o Orientation, diag Diag, alpha T, a, b *Dense[T]) error {
	if a == nil || b == nil {
		return matrixErrorf(opTrmm, ErrNilMatrix)
	}
	if b.Locked() {
		return matrixErrorf(opTrmm, ErrLockedView)
	}
	if a.rows != a.cols {
		return matrixErrorf(opTrmm, fmt.Errorf("A %dx%d: %w", a.rows, a.cols, ErrNonSquare))
	}
	order := b.rows
	if side == Right {
		order = b.cols
	}
	if a.rows != order {
		return matrixErrorf(opTrmm, fmt.Errorf("side %s, A %dx%d, B %dx%d: %w",
			side, a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch))
	}
	if b.rows == 0 || b.cols == 0 {
		return nil
	}

	s, ul, d := side.blasSide(), uplo.blasUplo(), diag.blasDiag()
	t := o.blasTranspose(IsComplex[T]())
	switch ad := any(a.data).(type) {
	case []float64:
		blas64.Implementation().Dtrmm(s, ul, t, d, b.rows, b.cols,
			any(alpha).(float64), ad, a.ld, any(b.data).([]float64), b.ld)
	case []float32:
		blas32.Implementation().Strmm(s, ul, t, d, b.rows, b.cols,
			any(alpha).(float32), ad, a.ld, any(b.data).([]float32), b.ld)
	case []complex128:
		cblas128.Implementation().Ztrmm(s, ul, t, d, b.rows, b.cols,
			any(alpha).(complex128), ad, a.ld, any(b.data).([]complex128), b.ld)
	case []complex64:
		cblas64.Implementation().Ctrmm(s, ul, t, d, b.rows, b.cols,
			any(alpha).(complex64), ad, a.ld, any(b.data).([]complex64), b.ld)
	}

	return nil
}
