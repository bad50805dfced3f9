package matrix_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvdist/matrix"
	"github.com/stretchr/testify/require"
)

var orientations = []matrix.Orientation{matrix.Normal, matrix.Transpose, matrix.Adjoint}

func shaped[T matrix.Scalar](t *testing.T, rng *rand.Rand, o matrix.Orientation, rows, cols int) *matrix.Dense[T] {
	t.Helper()
	if o == matrix.Normal {
		return randomDense[T](t, rng, rows, cols)
	}
	return randomDense[T](t, rng, cols, rows)
}

func testGemm[T matrix.Scalar](t *testing.T, alpha, beta T) {
	rng := rand.New(rand.NewSource(1))
	for _, tA := range orientations {
		for _, tB := range orientations {
			t.Run(fmt.Sprintf("%s%s", tA, tB), func(t *testing.T) {
				const m, n, k = 4, 3, 5
				a := shaped[T](t, rng, tA, m, k)
				b := shaped[T](t, rng, tB, k, n)
				c := randomDense[T](t, rng, m, n)
				want := naiveGemm(t, tA, tB, alpha, a, b, beta, c)

				require.NoError(t, matrix.Gemm(tA, tB, alpha, a, b, beta, c))
				requireClose(t, want, c)
			})
		}
	}
}

// TestGemmReal compares Dgemm against the naive product.
func TestGemmReal(t *testing.T) { testGemm[float64](t, 1.5, -0.5) }

// TestGemmComplex compares Zgemm against the naive product, including conjugation.
func TestGemmComplex(t *testing.T) { testGemm[complex128](t, complex(0.5, 2), complex(1, -1)) }

// TestGemmOnViews multiplies strided windows.
func TestGemmOnViews(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	base := randomDense[float64](t, rng, 6, 6)
	a, err := base.LockedView(1, 0, 2, 3)
	require.NoError(t, err)
	b, err := base.LockedView(0, 3, 3, 2)
	require.NoError(t, err)
	c := MustDense[float64](t, 2, 2)
	want := naiveGemm(t, matrix.Normal, matrix.Normal, 1.0, a, b, 0.0, c)

	require.NoError(t, matrix.Gemm(matrix.Normal, matrix.Normal, 1.0, a, b, 0.0, c))
	requireClose(t, want, c)
}

// TestGemmErrors covers conformance and empty cases.
func TestGemmErrors(t *testing.T) {
	a := MustDense[float64](t, 2, 3)
	b := MustDense[float64](t, 2, 3)
	c := MustDense[float64](t, 2, 3)
	err := matrix.Gemm(matrix.Normal, matrix.Normal, 1.0, a, b, 0.0, c)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch) // inner dims 3 vs 2

	err = matrix.Gemm(matrix.Normal, matrix.Normal, 1.0, a, nil, 0.0, c)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	// k == 0 only scales C by beta
	a0 := MustDense[float64](t, 2, 0)
	b0 := MustDense[float64](t, 0, 3)
	require.NoError(t, c.Set(1, 1, 4))
	require.NoError(t, matrix.Gemm(matrix.Normal, matrix.Normal, 1.0, a0, b0, 0.5, c))
	v, _ := c.At(1, 1)
	require.Equal(t, 2.0, v)
}

// naiveTrmmRight returns alpha * B * op(tri(A)).
func naiveTrmmRight[T matrix.Scalar](t *testing.T, uplo matrix.Uplo, o matrix.Orientation, diag matrix.Diag, alpha T, a, b *matrix.Dense[T]) *matrix.Dense[T] {
	t.Helper()
	tri := a.Clone()
	require.NoError(t, matrix.MakeTrapezoidal(uplo, 0, tri, 0, 1, 0, 1))
	if diag == matrix.Unit {
		require.NoError(t, matrix.SetDiagonal(T(1), tri, 0, 1, 0, 1))
	}
	out := MustDense[T](t, b.Rows(), b.Cols())
	return naiveGemm(t, matrix.Normal, o, alpha, b, tri, T(0), out)
}

// TestTrmmRight checks every Right-side combination on both scalar kinds.
func TestTrmmRight(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, uplo := range []matrix.Uplo{matrix.Lower, matrix.Upper} {
		for _, o := range orientations {
			for _, diag := range []matrix.Diag{matrix.NonUnit, matrix.Unit} {
				name := fmt.Sprintf("%s%s%s", uplo, o, diag)
				t.Run(name+"/float64", func(t *testing.T) {
					a := randomDense[float64](t, rng, 4, 4)
					b := randomDense[float64](t, rng, 3, 4)
					want := naiveTrmmRight(t, uplo, o, diag, 2.0, a, b)
					require.NoError(t, matrix.Trmm(matrix.Right, uplo, o, diag, 2.0, a, b))
					requireClose(t, want, b)
				})
				t.Run(name+"/complex128", func(t *testing.T) {
					a := randomDense[complex128](t, rng, 4, 4)
					b := randomDense[complex128](t, rng, 3, 4)
					want := naiveTrmmRight(t, uplo, o, diag, complex(-1, 0.5), a, b)
					require.NoError(t, matrix.Trmm(matrix.Right, uplo, o, diag, complex(-1, 0.5), a, b))
					requireClose(t, want, b)
				})
			}
		}
	}
}

// TestTrmmErrors covers shape validation.
func TestTrmmErrors(t *testing.T) {
	a := MustDense[float64](t, 3, 2)
	b := MustDense[float64](t, 2, 2)
	err := matrix.Trmm(matrix.Right, matrix.Lower, matrix.Transpose, matrix.NonUnit, 1.0, a, b)
	require.ErrorIs(t, err, matrix.ErrNonSquare)

	sq := MustDense[float64](t, 3, 3)
	err = matrix.Trmm(matrix.Right, matrix.Lower, matrix.Transpose, matrix.NonUnit, 1.0, sq, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch) // B has 2 columns
	err = matrix.Trmm(matrix.Left, matrix.Lower, matrix.Normal, matrix.NonUnit, 1.0, sq, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch) // B has 2 rows
}
