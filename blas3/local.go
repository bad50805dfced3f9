package blas3

import (
	"fmt"

	"github.com/katalvlaran/lvdist/dist"
	"github.com/katalvlaran/lvdist/matrix"
)

// axis is the distribution of one matrix dimension with its alignment.
type axis struct {
	d     dist.Dist
	align int
	path  int
}

func (a axis) String() string { return fmt.Sprintf("%s@%d", a.d, a.align) }

func axesOf(l dist.Layout) (col, row axis) {
	f := l.Format()
	col = axis{d: f.Col, align: l.ColAlignment()}
	row = axis{d: f.Row, align: l.RowAlignment()}
	if f.Col == dist.MD {
		col.path = l.DiagPath()
	}
	if f.Row == dist.MD {
		row.path = l.DiagPath()
	}
	return col, row
}

// opAxes returns the row and column axes of op(m).
func opAxes(o matrix.Orientation, l dist.Layout) (rows, cols axis) {
	c, r := axesOf(l)
	if o == matrix.Normal {
		return c, r
	}
	return r, c
}

func opDims(o matrix.Orientation, l dist.Layout) (rows, cols int) {
	if o == matrix.Normal {
		return l.Height(), l.Width()
	}
	return l.Width(), l.Height()
}

// LocalGemm computes C := alpha·op(A)·op(B) + beta·C on the local blocks
// alone. The distributions must line up: the row axis of op(A) equals C's
// column axis, the column axis of op(A) equals the row axis of op(B), and the
// column axis of op(B) equals C's row axis (same Dist and alignment). The
// checks use replicated metadata, so they fail on every process alike.
func LocalGemm[T matrix.Scalar](tA, tB matrix.Orientation, alpha T, a, b *dist.Matrix[T], beta T, c *dist.Matrix[T]) error {
	const op = "LocalGemm"
	if a == nil || b == nil || c == nil {
		return preconditionf(op, dist.ErrNilMatrix)
	}
	if a.Grid() != b.Grid() || b.Grid() != c.Grid() {
		return preconditionf(op, dist.ErrGridMismatch)
	}
	if c.Locked() {
		return preconditionf(op, dist.ErrLockedView)
	}
	m, k := opDims(tA, a)
	kb, n := opDims(tB, b)
	if k != kb || c.Height() != m || c.Width() != n {
		return preconditionf(op, fmt.Errorf("op(A) %dx%d, op(B) %dx%d, C %dx%d: %w", m, k, kb, n, c.Height(), c.Width(), ErrNonconformal))
	}
	aRows, aCols := opAxes(tA, a)
	bRows, bCols := opAxes(tB, b)
	cRows, cCols := axesOf(c)
	if aRows != cRows || aCols != bRows || bCols != cCols {
		return preconditionf(op, fmt.Errorf("op(A) %s×%s, op(B) %s×%s, C %s×%s: %w",
			aRows, aCols, bRows, bCols, cRows, cCols, dist.ErrMisaligned))
	}
	if err := matrix.Gemm(tA, tB, alpha, a.Local(), b.Local(), beta, c.Local()); err != nil {
		return preconditionf(op, err)
	}
	return nil
}

// LocalTrmm computes B := alpha·op(A)·B (Left) or B := alpha·B·op(A)
// (Right) locally. A must be [*,*] and B must be replicated along the
// dimension A multiplies.
func LocalTrmm[T matrix.Scalar](side matrix.Side, uplo matrix.Uplo, o matrix.Orientation, diag matrix.Diag, alpha T, a, b *dist.Matrix[T]) error {
	const op = "LocalTrmm"
	if a == nil || b == nil {
		return preconditionf(op, dist.ErrNilMatrix)
	}
	if a.Grid() != b.Grid() {
		return preconditionf(op, dist.ErrGridMismatch)
	}
	if a.Format() != dist.StarStar {
		return preconditionf(op, fmt.Errorf("A in %s: %w", a.Format(), ErrFormat))
	}
	if b.Locked() {
		return preconditionf(op, dist.ErrLockedView)
	}
	order, replicated := b.Height(), b.Format().Col == dist.STAR
	if side == matrix.Right {
		order, replicated = b.Width(), b.Format().Row == dist.STAR
	}
	if a.Height() != a.Width() || a.Height() != order {
		return preconditionf(op, fmt.Errorf("side %s, A %dx%d, B %dx%d: %w", side, a.Height(), a.Width(), b.Height(), b.Width(), ErrNonconformal))
	}
	if !replicated {
		return preconditionf(op, fmt.Errorf("B in %s for side %s: %w", b.Format(), side, ErrFormat))
	}
	if err := matrix.Trmm(side, uplo, o, diag, alpha, a.Local(), b.Local()); err != nil {
		return preconditionf(op, err)
	}
	return nil
}
