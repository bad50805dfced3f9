package dist

import (
	"fmt"

	"github.com/katalvlaran/lvdist/grid"
)

// resolveAlign validates a user-facing alignment for a dimension distributed
// as d. For MD the value is the VC rank owning index 0; it resolves to a path
// rank and a diagonal path.
func (m *Matrix[T]) resolveAlign(d Dist, a int) (align, path int, err error) {
	switch d {
	case STAR:
		if a != 0 {
			return 0, 0, fmt.Errorf("%s alignment %d: %w", d, a, ErrInvalidAlignment)
		}
		return 0, 0, nil
	case MD:
		if a < 0 || a >= m.g.Size() {
			return 0, 0, fmt.Errorf("%s owner %d outside [0,%d): %w", d, a, m.g.Size(), ErrInvalidAlignment)
		}
		path, _ = m.g.DiagPathOf(a)
		align, _ = m.g.DiagPathRankOf(a)
		return align, path, nil
	default:
		if s := strideOf(d, m.g); a < 0 || a >= s {
			return 0, 0, fmt.Errorf("%s alignment %d outside [0,%d): %w", d, a, s, ErrInvalidAlignment)
		}
		return a, 0, nil
	}
}

func (m *Matrix[T]) setCol(align, path int, constrain bool) {
	m.colAlign = align
	if m.f.Col == MD {
		m.diagPath = path
	}
	if constrain && m.f.Col != STAR {
		m.colConstrained = true
	}
}

func (m *Matrix[T]) setRow(align, path int, constrain bool) {
	m.rowAlign = align
	if m.f.Row == MD {
		m.diagPath = path
	}
	if constrain && m.f.Row != STAR {
		m.rowConstrained = true
	}
}

func (m *Matrix[T]) checkRealign(op string, col, row bool) error {
	if m.Viewing() || (col && m.colConstrained) || (row && m.rowConstrained) {
		return preconditionf(op, ErrAlignmentConstrained)
	}
	return nil
}

// Align fixes both alignments and constrains them. The matrix is emptied.
// For an MD dimension the value is the VC rank that owns index 0.
func (m *Matrix[T]) Align(colAlign, rowAlign int) error {
	const op = "Align"
	if err := m.checkRealign(op, true, true); err != nil {
		return err
	}
	ca, cp, err := m.resolveAlign(m.f.Col, colAlign)
	if err != nil {
		return preconditionf(op, err)
	}
	ra, rp, err := m.resolveAlign(m.f.Row, rowAlign)
	if err != nil {
		return preconditionf(op, err)
	}
	m.Empty()
	m.setCol(ca, cp, true)
	m.setRow(ra, rp, true)

	return nil
}

// AlignCols fixes and constrains the column alignment. The matrix is emptied.
func (m *Matrix[T]) AlignCols(colAlign int) error {
	const op = "AlignCols"
	if err := m.checkRealign(op, true, false); err != nil {
		return err
	}
	ca, cp, err := m.resolveAlign(m.f.Col, colAlign)
	if err != nil {
		return preconditionf(op, err)
	}
	m.Empty()
	m.setCol(ca, cp, true)

	return nil
}

// AlignRows fixes and constrains the row alignment. The matrix is emptied.
func (m *Matrix[T]) AlignRows(rowAlign int) error {
	const op = "AlignRows"
	if err := m.checkRealign(op, false, true); err != nil {
		return err
	}
	ra, rp, err := m.resolveAlign(m.f.Row, rowAlign)
	if err != nil {
		return preconditionf(op, err)
	}
	m.Empty()
	m.setRow(ra, rp, true)

	return nil
}

// matchAxis finds the alignment a dimension distributed as d must take to
// line up with src: a dimension of src with the same distribution, or a
// compatible one (VC refines MC, VR refines MR).
func matchAxis(d Dist, g *grid.Grid, src Layout) (align, path int, ok bool) {
	if d == STAR {
		return 0, 0, false
	}
	sf := src.Format()
	axes := [2]struct {
		d Dist
		a int
	}{{sf.Col, src.ColAlignment()}, {sf.Row, src.RowAlignment()}}

	for _, ax := range axes {
		if ax.d == d {
			return ax.a, src.DiagPath(), true
		}
	}
	for _, ax := range axes {
		switch {
		case d == VC && ax.d == MC, d == VR && ax.d == MR:
			return ax.a, 0, true
		case d == MC && ax.d == VC:
			return ax.a % g.Height(), 0, true
		case d == MR && ax.d == VR:
			return ax.a % g.Width(), 0, true
		}
	}
	return 0, 0, false
}

func (m *Matrix[T]) checkLayout(op string, src Layout) error {
	if src == nil {
		return preconditionf(op, ErrNilMatrix)
	}
	if src.Grid() != m.g {
		return preconditionf(op, ErrGridMismatch)
	}
	return nil
}

// AlignWith aligns every dimension that has a counterpart in src (same or
// compatible distribution) and constrains those dimensions. Dimensions
// without a counterpart are left untouched. The matrix is emptied.
func (m *Matrix[T]) AlignWith(src Layout) error {
	const op = "AlignWith"
	if err := m.checkLayout(op, src); err != nil {
		return err
	}
	ca, cp, okC := matchAxis(m.f.Col, m.g, src)
	ra, rp, okR := matchAxis(m.f.Row, m.g, src)
	if err := m.checkRealign(op, okC, okR); err != nil {
		return err
	}
	m.Empty()
	if okC {
		m.setCol(ca, cp, true)
	}
	if okR {
		m.setRow(ra, rp, true)
	}

	return nil
}

// AlignColsWith aligns the column dimension with its counterpart in src.
func (m *Matrix[T]) AlignColsWith(src Layout) error {
	const op = "AlignColsWith"
	if err := m.checkLayout(op, src); err != nil {
		return err
	}
	a, p, ok := matchAxis(m.f.Col, m.g, src)
	if !ok {
		return preconditionf(op, fmt.Errorf("%s with %s: %w", m.f, src.Format(), ErrInvalidAlignment))
	}
	if err := m.checkRealign(op, true, false); err != nil {
		return err
	}
	m.Empty()
	m.setCol(a, p, true)

	return nil
}

// AlignRowsWith aligns the row dimension with its counterpart in src.
func (m *Matrix[T]) AlignRowsWith(src Layout) error {
	const op = "AlignRowsWith"
	if err := m.checkLayout(op, src); err != nil {
		return err
	}
	a, p, ok := matchAxis(m.f.Row, m.g, src)
	if !ok {
		return preconditionf(op, fmt.Errorf("%s with %s: %w", m.f, src.Format(), ErrInvalidAlignment))
	}
	if err := m.checkRealign(op, false, true); err != nil {
		return err
	}
	m.Empty()
	m.setRow(a, p, true)

	return nil
}

// diagonalOwner returns the VC rank owning entry 0 of the offset diagonal of
// a [MC,MR] or [MR,MC] matrix.
func diagonalOwner(g *grid.Grid, src Layout, offset int) (int, error) {
	r, c := g.Height(), g.Width()
	ca, ra := src.ColAlignment(), src.RowAlignment()
	var row, col int
	switch src.Format() {
	case MCMR:
		if offset >= 0 {
			row, col = ca, (ra+offset)%c
		} else {
			row, col = (ca-offset)%r, ra
		}
	case MRMC:
		if offset >= 0 {
			row, col = (ra+offset)%r, ca
		} else {
			row, col = ra, (ca-offset)%c
		}
	default:
		return 0, fmt.Errorf("diagonal of %s: %w", src.Format(), ErrInvalidFormat)
	}
	return g.VCRank(row, col), nil
}

// AlignWithDiagonal aligns an MD-format vector with the offset diagonal of a
// [MC,MR] or [MR,MC] matrix, so that entry k of the vector lives on the
// process owning diagonal entry k.
func (m *Matrix[T]) AlignWithDiagonal(src Layout, offset int) error {
	const op = "AlignWithDiagonal"
	if err := m.checkLayout(op, src); err != nil {
		return err
	}
	colMD := m.f.Col == MD
	if !m.f.HasMD() {
		return preconditionf(op, fmt.Errorf("%s: %w", m.f, ErrInvalidFormat))
	}
	owner, err := diagonalOwner(m.g, src, offset)
	if err != nil {
		return preconditionf(op, err)
	}
	if err := m.checkRealign(op, colMD, !colMD); err != nil {
		return err
	}
	align, _ := m.g.DiagPathRankOf(owner)
	path, _ := m.g.DiagPathOf(owner)
	m.Empty()
	if colMD {
		m.setCol(align, path, true)
	} else {
		m.setRow(align, path, true)
	}

	return nil
}

// AlignedWithDiagonal reports whether an MD-format matrix is aligned with
// the offset diagonal of src.
func (m *Matrix[T]) AlignedWithDiagonal(src Layout, offset int) bool {
	if !m.f.HasMD() || src == nil || src.Grid() != m.g {
		return false
	}
	owner, err := diagonalOwner(m.g, src, offset)
	if err != nil {
		return false
	}
	align, _ := m.g.DiagPathRankOf(owner)
	path, _ := m.g.DiagPathOf(owner)
	mine := m.rowAlign
	if m.f.Col == MD {
		mine = m.colAlign
	}
	return path == m.diagPath && align == mine
}

// alignedWith reports whether two matrices of the same format share their
// alignments.
func (m *Matrix[T]) alignedWith(src *Matrix[T]) bool {
	if m.colAlign != src.colAlign || m.rowAlign != src.rowAlign {
		return false
	}
	return !m.f.HasMD() || m.diagPath == src.diagPath
}

// adopt copies src's alignment into every free dimension with a counterpart
// in src, without constraining it. Used before resizing a destination.
func (m *Matrix[T]) adopt(src Layout) {
	if a, p, ok := matchAxis(m.f.Col, m.g, src); ok && !m.colConstrained {
		m.setCol(a, p, false)
	}
	if a, p, ok := matchAxis(m.f.Row, m.g, src); ok && !m.rowConstrained {
		m.setRow(a, p, false)
	}
}
