// Package matrix_test contains unit tests for the strided Dense storage.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/lvdist/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseShapes accepts empty shapes and rejects negative ones.
func TestNewDenseShapes(t *testing.T) {
	m, err := matrix.NewDense[float64](0, 3) // empty local blocks are legal
	require.NoError(t, err)
	require.Equal(t, 0, m.Rows())
	require.Equal(t, 3, m.Cols())
	require.Equal(t, matrix.Owned, m.Ownership())

	_, err = matrix.NewDense[float64](-1, 2)    // negative rows
	require.ErrorIs(t, err, matrix.ErrBadShape) // expect ErrBadShape

	_, err = matrix.NewDenseFrom(2, 2, []float64{1, 2, 3}) // 3 values for 4 slots
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestAtSetUpdate covers the checked accessors.
func TestAtSetUpdate(t *testing.T) {
	m := MustDense[float64](t, 2, 3)

	require.NoError(t, m.Set(1, 2, 7.5))    // set a value
	require.NoError(t, m.Update(1, 2, 0.5)) // and add to it
	v, err := m.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 8.0, v)

	_, err = m.At(2, 0)                           // row out of range
	require.ErrorIs(t, err, matrix.ErrOutOfRange) // expect ErrOutOfRange
	require.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Update(0, 3, 1), matrix.ErrOutOfRange)
}

// TestViewSharesStorage checks that windows alias their base.
func TestViewSharesStorage(t *testing.T) {
	m, err := matrix.NewDenseFrom(3, 4, []float64{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
	})
	require.NoError(t, err)

	v, err := m.View(1, 1, 2, 2)
	require.NoError(t, err)
	require.True(t, v.Viewing())
	require.Equal(t, 4, v.LDim()) // stride of the base
	require.Equal(t, []float64{5, 6, 9, 10}, v.Values())

	require.NoError(t, v.Set(0, 0, -5)) // write through the view
	got, _ := m.At(1, 1)
	require.Equal(t, -5.0, got) // visible in the base

	require.ErrorIs(t, v.ResizeTo(1, 1), matrix.ErrViewResize) // views never resize

	_, err = m.View(2, 2, 2, 2) // window overflows
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	empty, err := m.View(3, 0, 0, 4) // empty window at the bottom edge
	require.NoError(t, err)
	require.Equal(t, 0, empty.Rows())
}

// TestLockedViewRejectsWrites ensures read-only windows stay read-only.
func TestLockedViewRejectsWrites(t *testing.T) {
	m := MustDense[complex128](t, 2, 2)
	lv, err := m.LockedView(0, 0, 2, 2)
	require.NoError(t, err)
	require.True(t, lv.Locked())

	require.ErrorIs(t, lv.Set(0, 0, 1), matrix.ErrLockedView)
	require.ErrorIs(t, lv.Update(0, 0, 1), matrix.ErrLockedView)
	require.ErrorIs(t, lv.Zero(), matrix.ErrLockedView)
	require.ErrorIs(t, lv.CopyFrom(m), matrix.ErrLockedView)
	_, err = lv.View(0, 0, 1, 1) // mutable window of a locked view
	require.ErrorIs(t, err, matrix.ErrLockedView)
	_, err = lv.LockedView(0, 0, 1, 1) // read-only window is fine
	require.NoError(t, err)
}

// TestAttach wraps a caller buffer with a padded leading dimension.
func TestAttach(t *testing.T) {
	buf := []float64{1, 2, -1, 3, 4, -1}
	m, err := matrix.Attach(2, 2, buf, 3)
	require.NoError(t, err)
	require.Equal(t, matrix.Borrowed, m.Ownership())
	require.Equal(t, []float64{1, 2, 3, 4}, m.Values())

	require.NoError(t, m.Set(1, 1, 40))
	require.Equal(t, 40.0, buf[4]) // caller sees the write

	_, err = matrix.Attach(2, 3, buf, 2) // ld < cols
	require.ErrorIs(t, err, matrix.ErrBadShape)
	_, err = matrix.Attach(3, 3, buf, 3) // buffer too short
	require.ErrorIs(t, err, matrix.ErrBadShape)

	lm, err := matrix.LockedAttach(2, 2, buf, 3)
	require.NoError(t, err)
	require.ErrorIs(t, lm.Set(0, 0, 1), matrix.ErrLockedView)
}

// TestResizeCloneEmpty covers owned-storage lifecycle.
func TestResizeCloneEmpty(t *testing.T) {
	m := MustDense[float32](t, 2, 2)
	require.NoError(t, m.ResizeTo(3, 1))
	require.Equal(t, 3, m.Rows())
	require.Equal(t, 1, m.Cols())
	require.ErrorIs(t, m.ResizeTo(-1, 1), matrix.ErrBadShape)

	require.NoError(t, m.Set(2, 0, 9))
	c := m.Clone()
	require.NoError(t, m.Set(2, 0, 1)) // clone is independent
	v, _ := c.At(2, 0)
	require.Equal(t, float32(9), v)

	m.Empty()
	require.Equal(t, 0, m.Rows())
	require.Equal(t, 0, m.Cols())

	other := MustDense[float32](t, 2, 2)
	require.ErrorIs(t, other.CopyFrom(c), matrix.ErrDimensionMismatch)
}

// TestString renders rows in brackets.
func TestString(t *testing.T) {
	m, err := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, "[1, 2]\n[3, 4]\n", m.String())
}

// TestScalarHelpers checks conj and part extraction on every scalar type.
func TestScalarHelpers(t *testing.T) {
	require.False(t, matrix.IsComplex[float64]())
	require.True(t, matrix.IsComplex[complex64]())

	require.Equal(t, complex(1, -2), matrix.Conj(complex(1, 2)))
	require.Equal(t, complex64(complex(3, 4)), matrix.Conj(complex64(complex(3, -4))))
	require.Equal(t, 2.5, matrix.Conj(2.5))

	z := matrix.FromParts[complex128](1.5, -0.5)
	require.Equal(t, 1.5, matrix.RealPart(z))
	require.Equal(t, -0.5, matrix.ImagPart(z))
	require.Equal(t, float32(1.5), matrix.FromParts[float32](1.5, 9)) // imaginary part dropped
	require.Equal(t, 0.0, matrix.ImagPart(3.0))
	require.InDelta(t, 5.0, matrix.Abs(complex(3.0, 4.0)), 1e-15)
	require.Equal(t, 2.0, matrix.Abs(-2.0))
}

// TestZeroWidthBlocks runs every row-strided helper on 2×0 matrices, the
// shape a local block takes when a matrix is narrower than the grid.
func TestZeroWidthBlocks(t *testing.T) {
	m := MustDense[float64](t, 2, 0)
	require.Empty(t, m.Values())
	c := m.Clone()
	require.Equal(t, 2, c.Rows())
	require.Equal(t, 0, c.Cols())
	require.NoError(t, m.Zero())
	require.NoError(t, m.CopyFrom(c))
	require.NoError(t, matrix.Scale(2.0, m))
	require.NoError(t, matrix.Scale(0.0, m))
	require.NoError(t, matrix.Axpy(1.0, c, m))

	parent := MustDense[float64](t, 3, 2)
	v, err := parent.View(0, 1, 3, 0) // zero-width window inside a wider parent
	require.NoError(t, err)
	require.NoError(t, v.Zero())
	require.Empty(t, v.Values())
}
