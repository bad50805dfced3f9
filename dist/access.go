package dist

import (
	"fmt"

	"github.com/katalvlaran/lvdist/comm"
	"github.com/katalvlaran/lvdist/matrix"
)

func (m *Matrix[T]) checkIndex(op string, i, j int) error {
	if i < 0 || i >= m.height || j < 0 || j >= m.width {
		return preconditionf(op, fmt.Errorf("(%d,%d) in %dx%d: %w", i, j, m.height, m.width, ErrOutOfRange))
	}
	return nil
}

func (m *Matrix[T]) checkWritable(op string) error {
	if m.Locked() {
		return preconditionf(op, ErrLockedView)
	}
	return nil
}

// localOffset returns the buffer offset of global (i,j), which the caller
// must own.
func (m *Matrix[T]) localOffset(i, j int) int {
	iLoc := (i - m.ColShift()) / m.ColStride()
	jLoc := (j - m.RowShift()) / m.RowStride()
	return iLoc*m.local.LDim() + jLoc
}

// Get returns global entry (i,j) on every process. It is collective: the
// canonical owner broadcasts the value over the grid.
func (m *Matrix[T]) Get(i, j int) (T, error) {
	var v T
	if err := m.checkIndex("Get", i, j); err != nil {
		return v, err
	}
	root := m.owners(i, j).canonical(m.g)
	buf := []T{v}
	if m.g.Rank() == root {
		buf[0] = m.local.Data()[m.localOffset(i, j)]
	}
	if err := comm.Broadcast(m.g.Comm(), buf, root); err != nil {
		return v, fmt.Errorf("dist.Get: %w", err)
	}
	return buf[0], nil
}

// GetRealPart returns the real part of global entry (i,j). Collective.
func (m *Matrix[T]) GetRealPart(i, j int) (float64, error) {
	v, err := m.Get(i, j)
	return matrix.RealPart(v), err
}

// GetImagPart returns the imaginary part of global entry (i,j) (0 for real
// data). Collective.
func (m *Matrix[T]) GetImagPart(i, j int) (float64, error) {
	v, err := m.Get(i, j)
	return matrix.ImagPart(v), err
}

// modify applies fn to the local copy of (i,j) on every process storing it.
// It is local: replicas each perform the same write.
func (m *Matrix[T]) modify(op string, i, j int, fn func(old T) T) error {
	if err := m.checkWritable(op); err != nil {
		return err
	}
	if err := m.checkIndex(op, i, j); err != nil {
		return err
	}
	if m.owns(i, j) {
		data := m.local.Data()
		off := m.localOffset(i, j)
		data[off] = fn(data[off])
	}
	return nil
}

// Set assigns global entry (i,j) on every process that stores it.
func (m *Matrix[T]) Set(i, j int, v T) error {
	return m.modify("Set", i, j, func(T) T { return v })
}

// Update adds v to global entry (i,j) on every process that stores it.
func (m *Matrix[T]) Update(i, j int, v T) error {
	return m.modify("Update", i, j, func(old T) T { return old + v })
}

// SetRealPart replaces the real part of global entry (i,j).
func (m *Matrix[T]) SetRealPart(i, j int, re float64) error {
	return m.modify("SetRealPart", i, j, func(old T) T {
		return matrix.FromParts[T](re, matrix.ImagPart(old))
	})
}

// UpdateRealPart adds re to the real part of global entry (i,j).
func (m *Matrix[T]) UpdateRealPart(i, j int, re float64) error {
	return m.modify("UpdateRealPart", i, j, func(old T) T {
		return matrix.FromParts[T](matrix.RealPart(old)+re, matrix.ImagPart(old))
	})
}

// SetImagPart replaces the imaginary part of global entry (i,j). It fails
// with ErrTypeMismatch on real data.
func (m *Matrix[T]) SetImagPart(i, j int, im float64) error {
	if !matrix.IsComplex[T]() {
		return typeMismatchf("SetImagPart")
	}
	return m.modify("SetImagPart", i, j, func(old T) T {
		return matrix.FromParts[T](matrix.RealPart(old), im)
	})
}

// UpdateImagPart adds im to the imaginary part of global entry (i,j). It
// fails with ErrTypeMismatch on real data.
func (m *Matrix[T]) UpdateImagPart(i, j int, im float64) error {
	if !matrix.IsComplex[T]() {
		return typeMismatchf("UpdateImagPart")
	}
	return m.modify("UpdateImagPart", i, j, func(old T) T {
		return matrix.FromParts[T](matrix.RealPart(old), matrix.ImagPart(old)+im)
	})
}

// GetLocal returns local entry (iLoc,jLoc).
func (m *Matrix[T]) GetLocal(iLoc, jLoc int) (T, error) {
	v, err := m.local.At(iLoc, jLoc)
	if err != nil {
		return v, preconditionf("GetLocal", fmt.Errorf("%w: %w", ErrOutOfRange, err))
	}
	return v, nil
}

// SetLocal assigns local entry (iLoc,jLoc).
func (m *Matrix[T]) SetLocal(iLoc, jLoc int, v T) error {
	return m.localWrite("SetLocal", iLoc, jLoc, func(T) T { return v })
}

// UpdateLocal adds v to local entry (iLoc,jLoc).
func (m *Matrix[T]) UpdateLocal(iLoc, jLoc int, v T) error {
	return m.localWrite("UpdateLocal", iLoc, jLoc, func(old T) T { return old + v })
}

func (m *Matrix[T]) localWrite(op string, iLoc, jLoc int, fn func(T) T) error {
	if err := m.checkWritable(op); err != nil {
		return err
	}
	if iLoc < 0 || iLoc >= m.local.Rows() || jLoc < 0 || jLoc >= m.local.Cols() {
		return preconditionf(op, fmt.Errorf("local (%d,%d): %w", iLoc, jLoc, ErrOutOfRange))
	}
	data := m.local.Data()
	off := iLoc*m.local.LDim() + jLoc
	data[off] = fn(data[off])
	return nil
}
