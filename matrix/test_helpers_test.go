// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide deterministic fixtures and a naive reference product.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvdist/matrix"
	"github.com/stretchr/testify/require"
)

const tol = 1e-10

// MustDense allocates an r×c owned matrix or fails the test.
func MustDense[T matrix.Scalar](t *testing.T, r, c int) *matrix.Dense[T] {
	t.Helper()
	m, err := matrix.NewDense[T](r, c)
	require.NoError(t, err)
	return m
}

// randomDense fills an r×c matrix from a seeded source.
func randomDense[T matrix.Scalar](t *testing.T, rng *rand.Rand, r, c int) *matrix.Dense[T] {
	t.Helper()
	vals := make([]T, r*c)
	for i := range vals {
		vals[i] = matrix.FromParts[T](rng.Float64()*2-1, rng.Float64()*2-1)
	}
	m, err := matrix.NewDenseFrom(r, c, vals)
	require.NoError(t, err)
	return m
}

func opAt[T matrix.Scalar](o matrix.Orientation, m *matrix.Dense[T], i, j int) T {
	switch o {
	case matrix.Transpose:
		v, _ := m.At(j, i)
		return v
	case matrix.Adjoint:
		v, _ := m.At(j, i)
		return matrix.Conj(v)
	default:
		v, _ := m.At(i, j)
		return v
	}
}

// naiveGemm returns alpha*op(A)*op(B) + beta*C as a fresh matrix.
func naiveGemm[T matrix.Scalar](t *testing.T, tA, tB matrix.Orientation, alpha T, a, b *matrix.Dense[T], beta T, c *matrix.Dense[T]) *matrix.Dense[T] {
	t.Helper()
	out := c.Clone()
	k := a.Cols()
	if tA != matrix.Normal {
		k = a.Rows()
	}
	for i := 0; i < c.Rows(); i++ {
		for j := 0; j < c.Cols(); j++ {
			var s T
			for l := 0; l < k; l++ {
				s += opAt(tA, a, i, l) * opAt(tB, b, l, j)
			}
			old, _ := c.At(i, j)
			require.NoError(t, out.Set(i, j, alpha*s+beta*old))
		}
	}
	return out
}

// requireClose compares two matrices entry by entry.
func requireClose[T matrix.Scalar](t *testing.T, want, got *matrix.Dense[T]) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows())
	require.Equal(t, want.Cols(), got.Cols())
	for i := 0; i < want.Rows(); i++ {
		for j := 0; j < want.Cols(); j++ {
			w, _ := want.At(i, j)
			g, _ := got.At(i, j)
			require.LessOrEqual(t, matrix.Abs(w-g), tol, "entry (%d,%d): want %v got %v", i, j, w, g)
		}
	}
}
