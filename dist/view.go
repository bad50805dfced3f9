package dist

import (
	"fmt"

	"github.com/katalvlaran/lvdist/matrix"
)

// View returns a mutable view of the height×width block of a whose top-left
// entry is (i,j). The view shares a's local storage, keeps its format and
// has constrained alignments.
func View[T matrix.Scalar](a *Matrix[T], i, j, height, width int) (*Matrix[T], error) {
	if a != nil && a.Locked() {
		return nil, preconditionf("View", ErrLockedView)
	}
	return view("View", a, i, j, height, width, false)
}

// LockedView is View for read-only access. It accepts locked sources.
func LockedView[T matrix.Scalar](a *Matrix[T], i, j, height, width int) (*Matrix[T], error) {
	return view("LockedView", a, i, j, height, width, true)
}

func view[T matrix.Scalar](op string, a *Matrix[T], i, j, height, width int, locked bool) (*Matrix[T], error) {
	if a == nil {
		return nil, preconditionf(op, ErrNilMatrix)
	}
	if i < 0 || j < 0 || height < 0 || width < 0 || i+height > a.height || j+width > a.width {
		return nil, preconditionf(op, fmt.Errorf("block (%d,%d)+%dx%d of %dx%d: %w",
			i, j, height, width, a.height, a.width, ErrOutOfRange))
	}

	cs, rs := a.ColStride(), a.RowStride()
	v := &Matrix[T]{
		g:              a.g,
		f:              a.f,
		height:         height,
		width:          width,
		colAlign:       (a.colAlign + i) % cs,
		rowAlign:       (a.rowAlign + j) % rs,
		diagPath:       a.diagPath,
		colConstrained: a.f.Col != STAR,
		rowConstrained: a.f.Row != STAR,
		own:            matrix.Borrowed,
	}
	if locked {
		v.own = matrix.BorrowedLocked
	}

	if !a.Participating() {
		v.local = emptyLocal[T]()
		return v, nil
	}
	iLoc := LocalLength(i, a.ColShift(), cs)
	jLoc := LocalLength(j, a.RowShift(), rs)
	rows, cols := v.localDimsAt(v.g.Rank())
	var err error
	if locked {
		v.local, err = a.local.LockedView(iLoc, jLoc, rows, cols)
	} else {
		v.local, err = a.local.View(iLoc, jLoc, rows, cols)
	}
	if err != nil {
		return nil, preconditionf(op, err)
	}
	return v, nil
}
