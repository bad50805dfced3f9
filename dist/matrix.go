package dist

import (
	"fmt"

	"github.com/katalvlaran/lvdist/grid"
	"github.com/katalvlaran/lvdist/matrix"
)

// Layout is the replicated metadata of a distributed matrix. It is all that
// alignment needs, so matrices of different element types can align with
// each other.
type Layout interface {
	Grid() *grid.Grid
	Format() Format
	Height() int
	Width() int
	ColAlignment() int
	RowAlignment() int
	DiagPath() int
}

// Matrix is one process's handle on a globally height×width matrix
// distributed over a grid in a fixed format.
//
// Everything except the local block is replicated: every process holds the
// same format, shape, alignments and view state. The local block has
// LocalLength(height, ColShift(), ColStride()) rows and
// LocalLength(width, RowShift(), RowStride()) columns on participating
// processes and is empty elsewhere.
type Matrix[T matrix.Scalar] struct {
	g *grid.Grid
	f Format

	height, width int

	// alignments; for an MD dimension the alignment is the path rank owning
	// index 0 and diagPath selects the path
	colAlign, rowAlign             int
	diagPath                       int
	colConstrained, rowConstrained bool

	own   matrix.Ownership
	local *matrix.Dense[T]
}

var _ Layout = (*Matrix[float64])(nil)

// Option configures New.
type Option func(*options)

type options struct {
	height, width      int
	aligned            bool
	colAlign, rowAlign int
	diagOwner          int
	hasDiagOwner       bool
}

// WithSize sets the global shape.
func WithSize(height, width int) Option {
	return func(o *options) { o.height, o.width = height, width }
}

// WithAlignments aligns and constrains both dimensions (see Align).
func WithAlignments(colAlign, rowAlign int) Option {
	return func(o *options) { o.aligned, o.colAlign, o.rowAlign = true, colAlign, rowAlign }
}

// WithDiagonalOwner aligns and constrains the MD dimension of an [MD,*] or
// [*,MD] matrix so that index 0 lives on VC rank owner.
func WithDiagonalOwner(owner int) Option {
	return func(o *options) { o.hasDiagOwner, o.diagOwner = true, owner }
}

// New creates an owned distributed matrix. Without options it is 0×0 with
// free zero alignments.
func New[T matrix.Scalar](g *grid.Grid, f Format, opts ...Option) (*Matrix[T], error) {
	const op = "New"
	if g == nil {
		return nil, preconditionf(op, ErrNilGrid)
	}
	if !f.Valid() {
		return nil, preconditionf(op, fmt.Errorf("%s: %w", f, ErrInvalidFormat))
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	m := &Matrix[T]{g: g, f: f, own: matrix.Owned, local: emptyLocal[T]()}
	if o.aligned {
		if err := m.Align(o.colAlign, o.rowAlign); err != nil {
			return nil, err
		}
	}
	if o.hasDiagOwner {
		var err error
		switch {
		case f.Col == MD:
			err = m.AlignCols(o.diagOwner)
		case f.Row == MD:
			err = m.AlignRows(o.diagOwner)
		default:
			err = preconditionf(op, fmt.Errorf("diagonal owner for %s: %w", f, ErrInvalidFormat))
		}
		if err != nil {
			return nil, err
		}
	}
	if err := m.ResizeTo(o.height, o.width); err != nil {
		return nil, err
	}

	return m, nil
}

func emptyLocal[T matrix.Scalar]() *matrix.Dense[T] {
	d, _ := matrix.NewDense[T](0, 0)
	return d
}

// Grid returns the process grid.
func (m *Matrix[T]) Grid() *grid.Grid { return m.g }

// Format returns the distribution format.
func (m *Matrix[T]) Format() Format { return m.f }

// Height returns the global number of rows.
func (m *Matrix[T]) Height() int { return m.height }

// Width returns the global number of columns.
func (m *Matrix[T]) Width() int { return m.width }

// ColAlignment returns the alignment of the column dimension.
func (m *Matrix[T]) ColAlignment() int { return m.colAlign }

// RowAlignment returns the alignment of the row dimension.
func (m *Matrix[T]) RowAlignment() int { return m.rowAlign }

// DiagPath returns the diagonal path an MD format lives on (0 otherwise).
func (m *Matrix[T]) DiagPath() int { return m.diagPath }

// ColConstrained reports whether the column alignment is fixed.
func (m *Matrix[T]) ColConstrained() bool { return m.colConstrained }

// RowConstrained reports whether the row alignment is fixed.
func (m *Matrix[T]) RowConstrained() bool { return m.rowConstrained }

// Ownership returns the storage tag of the matrix.
func (m *Matrix[T]) Ownership() matrix.Ownership { return m.own }

// Viewing reports whether the matrix borrows its storage.
func (m *Matrix[T]) Viewing() bool { return m.own != matrix.Owned }

// Locked reports whether the matrix is a read-only view.
func (m *Matrix[T]) Locked() bool { return m.own == matrix.BorrowedLocked }

// Local returns the local block. It is read-only when the matrix is locked.
func (m *Matrix[T]) Local() *matrix.Dense[T] { return m.local }

// LocalHeight returns the number of locally stored rows.
func (m *Matrix[T]) LocalHeight() int { return m.local.Rows() }

// LocalWidth returns the number of locally stored columns.
func (m *Matrix[T]) LocalWidth() int { return m.local.Cols() }

// ColStride returns the stride of the column dimension.
func (m *Matrix[T]) ColStride() int { return strideOf(m.f.Col, m.g) }

// RowStride returns the stride of the row dimension.
func (m *Matrix[T]) RowStride() int { return strideOf(m.f.Row, m.g) }

// ColRank returns the caller's rank along the column dimension.
func (m *Matrix[T]) ColRank() int { return rankAlong(m.f.Col, m.g, m.g.Rank()) }

// RowRank returns the caller's rank along the row dimension.
func (m *Matrix[T]) RowRank() int { return rankAlong(m.f.Row, m.g, m.g.Rank()) }

// Participating reports whether the caller stores any part of the matrix.
// Only MD formats have non-participating processes.
func (m *Matrix[T]) Participating() bool { return m.participatesAt(m.g.Rank()) }

func (m *Matrix[T]) participatesAt(vc int) bool {
	if !m.f.HasMD() {
		return true
	}
	path, _ := m.g.DiagPathOf(vc)
	return path == m.diagPath
}

// ColShift returns the first global row stored locally.
func (m *Matrix[T]) ColShift() int { return m.colShiftAt(m.g.Rank()) }

// RowShift returns the first global column stored locally.
func (m *Matrix[T]) RowShift() int { return m.rowShiftAt(m.g.Rank()) }

func (m *Matrix[T]) colShiftAt(vc int) int {
	if !m.participatesAt(vc) {
		return 0
	}
	return Shift(rankAlong(m.f.Col, m.g, vc), m.colAlign, m.ColStride())
}

func (m *Matrix[T]) rowShiftAt(vc int) int {
	if !m.participatesAt(vc) {
		return 0
	}
	return Shift(rankAlong(m.f.Row, m.g, vc), m.rowAlign, m.RowStride())
}

// localDimsAt returns the local block shape of process vc.
func (m *Matrix[T]) localDimsAt(vc int) (rows, cols int) {
	if !m.participatesAt(vc) {
		return 0, 0
	}
	return LocalLength(m.height, m.colShiftAt(vc), m.ColStride()),
		LocalLength(m.width, m.rowShiftAt(vc), m.RowStride())
}

// GlobalRow maps a local row index to its global row.
func (m *Matrix[T]) GlobalRow(iLoc int) int { return m.ColShift() + iLoc*m.ColStride() }

// GlobalCol maps a local column index to its global column.
func (m *Matrix[T]) GlobalCol(jLoc int) int { return m.RowShift() + jLoc*m.RowStride() }

// owners returns the placement of the processes storing (i,j).
func (m *Matrix[T]) owners(i, j int) place {
	cs, rs := m.ColStride(), m.RowStride()
	return ownerAlong(m.f.Col, m.g, (i+m.colAlign)%cs, m.diagPath).
		merge(ownerAlong(m.f.Row, m.g, (j+m.rowAlign)%rs, m.diagPath))
}

// owns reports whether the caller stores (i,j).
func (m *Matrix[T]) owns(i, j int) bool {
	return m.Participating() &&
		(i+m.colAlign)%m.ColStride() == m.ColRank() &&
		(j+m.rowAlign)%m.RowStride() == m.RowRank()
}

// primaryAt reports whether process vc is the canonical holder of its
// entries: it participates and sits at coordinate 0 of every grid dimension
// the format replicates over.
func (m *Matrix[T]) primaryAt(vc int) bool {
	if !m.participatesAt(vc) {
		return false
	}
	cr, cc := m.f.Col.coverage()
	rr, rc := m.f.Row.coverage()
	row, col := m.g.Coordinate(vc)
	return (cr || rr || row == 0) && (cc || rc || col == 0)
}

// ResizeTo sets the global shape. Local contents are unspecified afterwards.
func (m *Matrix[T]) ResizeTo(height, width int) error {
	const op = "ResizeTo"
	if m.Viewing() {
		return preconditionf(op, ErrViewResize)
	}
	if height < 0 || width < 0 {
		return preconditionf(op, fmt.Errorf("%dx%d: %w", height, width, ErrBadShape))
	}
	m.height, m.width = height, width
	rows, cols := m.localDimsAt(m.g.Rank())

	return m.local.ResizeTo(rows, cols)
}

// Empty makes the matrix an owned 0×0 matrix, releasing its storage.
// Alignments and their constraints are kept.
func (m *Matrix[T]) Empty() {
	m.height, m.width = 0, 0
	m.own = matrix.Owned
	m.local = emptyLocal[T]()
}

// FreeAlignments empties the matrix and releases its alignment constraints.
func (m *Matrix[T]) FreeAlignments() {
	m.Empty()
	m.colConstrained, m.rowConstrained = false, false
}

// Attach makes the matrix a mutable view of a caller-owned local buffer
// holding this process's part of a height×width matrix with the given
// alignments. For an MD dimension the alignment is the VC rank owning
// index 0.
func (m *Matrix[T]) Attach(height, width, colAlign, rowAlign int, buf []T, ld int) error {
	return m.attach("Attach", height, width, colAlign, rowAlign, buf, ld, false)
}

// LockedAttach is Attach for read-only buffers.
func (m *Matrix[T]) LockedAttach(height, width, colAlign, rowAlign int, buf []T, ld int) error {
	return m.attach("LockedAttach", height, width, colAlign, rowAlign, buf, ld, true)
}

func (m *Matrix[T]) attach(op string, height, width, colAlign, rowAlign int, buf []T, ld int, locked bool) error {
	if height < 0 || width < 0 {
		return preconditionf(op, fmt.Errorf("%dx%d: %w", height, width, ErrBadShape))
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
	m.height, m.width = height, width

	rows, cols := m.localDimsAt(m.g.Rank())
	var local *matrix.Dense[T]
	if locked {
		local, err = matrix.LockedAttach(rows, cols, buf, ld)
	} else {
		local, err = matrix.Attach(rows, cols, buf, ld)
	}
	if err != nil {
		m.Empty()
		return preconditionf(op, err)
	}
	m.local = local
	m.own = matrix.Borrowed
	if locked {
		m.own = matrix.BorrowedLocked
	}

	return nil
}

// String describes the replicated metadata.
func (m *Matrix[T]) String() string {
	return fmt.Sprintf("%s %dx%d align (%d,%d)", m.f, m.height, m.width, m.colAlign, m.rowAlign)
}
