package dist

import (
	"fmt"

	"github.com/katalvlaran/lvdist/grid"
	"github.com/katalvlaran/lvdist/matrix"
)

// Zeros resizes m to height×width and zeroes it. Views must already have
// that shape.
func (m *Matrix[T]) Zeros(height, width int) error {
	const op = "Zeros"
	if m.Viewing() {
		if m.height != height || m.width != width {
			return preconditionf(op, fmt.Errorf("view %dx%d, want %dx%d: %w", m.height, m.width, height, width, ErrShapeMismatch))
		}
	} else if err := m.ResizeTo(height, width); err != nil {
		return err
	}
	if err := m.local.Zero(); err != nil {
		return preconditionf(op, err)
	}
	return nil
}

// Scale multiplies every entry by alpha. Local.
func (m *Matrix[T]) Scale(alpha T) error {
	if err := matrix.Scale(alpha, m.local); err != nil {
		return preconditionf("Scale", err)
	}
	return nil
}

// MakeTrapezoidal zeroes the entries outside the uplo trapezoid: for Lower,
// entries with j-i > offset; for Upper, entries with j-i < offset. Local.
func (m *Matrix[T]) MakeTrapezoidal(uplo matrix.Uplo, offset int) error {
	if err := matrix.MakeTrapezoidal(uplo, offset, m.local, m.ColShift(), m.ColStride(), m.RowShift(), m.RowStride()); err != nil {
		return preconditionf("MakeTrapezoidal", err)
	}
	return nil
}

// SetDiagonal sets every main-diagonal entry to v. Local.
func (m *Matrix[T]) SetDiagonal(v T) error {
	if err := matrix.SetDiagonal(v, m.local, m.ColShift(), m.ColStride(), m.RowShift(), m.RowStride()); err != nil {
		return preconditionf("SetDiagonal", err)
	}
	return nil
}

// Gather returns the whole matrix as a dense copy on every process.
// Collective.
func (m *Matrix[T]) Gather() (*matrix.Dense[T], error) {
	full, err := New[T](m.g, StarStar)
	if err != nil {
		return nil, err
	}
	if err := full.CopyFrom(m); err != nil {
		return nil, err
	}
	return full.local, nil
}

// Distribute returns a new matrix in format f holding a, which every
// process must pass with identical contents. Collective.
func Distribute[T matrix.Scalar](g *grid.Grid, f Format, a *matrix.Dense[T], opts ...Option) (*Matrix[T], error) {
	const op = "Distribute"
	if a == nil {
		return nil, preconditionf(op, ErrNilMatrix)
	}
	m, err := New[T](g, f, opts...)
	if err != nil {
		return nil, err
	}
	replica, err := New[T](g, StarStar)
	if err != nil {
		return nil, err
	}
	if err := replica.LockedAttach(a.Rows(), a.Cols(), 0, 0, a.Data(), a.LDim()); err != nil {
		return nil, err
	}
	if err := m.CopyFrom(replica); err != nil {
		return nil, err
	}
	return m, nil
}
