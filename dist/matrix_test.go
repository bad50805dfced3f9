package dist_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/katalvlaran/lvdist/dist"
	"github.com/katalvlaran/lvdist/grid"
	"github.com/katalvlaran/lvdist/matrix"
	"github.com/stretchr/testify/require"
)

// TestLocalShapes checks the local block sizes of a 7×5 [MC,MR] matrix on a
// 2×3 grid with alignments (1,2).
func TestLocalShapes(t *testing.T) {
	type shape struct{ rows, cols, colShift, rowShift int }
	got := make([]shape, 6)
	onGrid(t, 2, 3, func(g *grid.Grid) error {
		a, err := dist.New[float64](g, dist.MCMR, dist.WithSize(7, 5), dist.WithAlignments(1, 2))
		if err != nil {
			return err
		}
		got[g.Rank()] = shape{a.LocalHeight(), a.LocalWidth(), a.ColShift(), a.RowShift()}
		return nil
	})
	// grid row 1 owns rows 0,2,4,6; grid column 2 owns columns 0,3
	require.Equal(t, shape{3, 2, 1, 1}, got[0]) // (0,0)
	require.Equal(t, shape{4, 2, 0, 1}, got[1]) // (1,0)
	require.Equal(t, shape{3, 1, 1, 2}, got[2]) // (0,1)
	require.Equal(t, shape{4, 1, 0, 2}, got[3]) // (1,1)
	require.Equal(t, shape{3, 2, 1, 0}, got[4]) // (0,2)
	require.Equal(t, shape{4, 2, 0, 0}, got[5]) // (1,2)
}

func TestNewValidation(t *testing.T) {
	_, err := dist.New[float64](nil, dist.MCMR)
	require.ErrorIs(t, err, dist.ErrNilGrid)

	onGrid(t, 2, 2, func(g *grid.Grid) error {
		if _, err := dist.New[float64](g, dist.Format{Col: dist.VC, Row: dist.VR}); !errors.Is(err, dist.ErrInvalidFormat) {
			return fmt.Errorf("format: %v", err)
		}
		if _, err := dist.New[float64](g, dist.MCMR, dist.WithSize(-1, 2)); !errors.Is(err, dist.ErrBadShape) {
			return fmt.Errorf("shape: %v", err)
		}
		if _, err := dist.New[float64](g, dist.MCMR, dist.WithAlignments(2, 0)); !errors.Is(err, dist.ErrInvalidAlignment) {
			return fmt.Errorf("alignment: %v", err)
		}
		if _, err := dist.New[float64](g, dist.MCStar, dist.WithAlignments(0, 1)); !errors.Is(err, dist.ErrInvalidAlignment) {
			return fmt.Errorf("star alignment: %v", err)
		}
		return nil
	})
}

func TestGetSet(t *testing.T) {
	for _, s := range shapes {
		onGrid(t, s[0], s[1], func(g *grid.Grid) error {
			for _, f := range []dist.Format{dist.MCMR, dist.StarStar, dist.VRStar, dist.StarMC} {
				a, err := dist.New[float64](g, f, dist.WithSize(4, 3), alignOne(g, f))
				if err != nil {
					return err
				}
				if err := a.Zeros(4, 3); err != nil {
					return err
				}
				if err := a.Set(3, 1, 7); err != nil {
					return err
				}
				if err := a.Update(3, 1, 0.5); err != nil {
					return err
				}
				v, err := a.Get(3, 1)
				if err != nil {
					return err
				}
				if v != 7.5 {
					return fmt.Errorf("%s Get(3,1) = %v", f, v)
				}
				full, err := a.Gather()
				if err != nil {
					return err
				}
				want, _ := matrix.NewDense[float64](4, 3)
				_ = want.Set(3, 1, 7.5)
				if err := sameDense(full, want); err != nil {
					return fmt.Errorf("%s: %w", f, err)
				}
				if _, err := a.Get(4, 0); !errors.Is(err, dist.ErrOutOfRange) {
					return fmt.Errorf("out of range: %v", err)
				}
			}
			return nil
		})
	}
}

func TestComplexParts(t *testing.T) {
	onGrid(t, 2, 2, func(g *grid.Grid) error {
		z, err := dist.New[complex128](g, dist.MCMR, dist.WithSize(3, 3))
		if err != nil {
			return err
		}
		if err := z.Zeros(3, 3); err != nil {
			return err
		}
		steps := []error{
			z.SetRealPart(1, 2, 2),
			z.SetImagPart(1, 2, -1),
			z.UpdateRealPart(1, 2, 1),
			z.UpdateImagPart(1, 2, -2),
		}
		if err := errors.Join(steps...); err != nil {
			return err
		}
		re, err := z.GetRealPart(1, 2)
		if err != nil {
			return err
		}
		im, err := z.GetImagPart(1, 2)
		if err != nil {
			return err
		}
		if re != 3 || im != -3 {
			return fmt.Errorf("got %v%+vi, want 3-3i", re, im)
		}

		x, err := dist.New[float64](g, dist.MCMR, dist.WithSize(3, 3))
		if err != nil {
			return err
		}
		if err := x.SetImagPart(0, 0, 1); !errors.Is(err, dist.ErrTypeMismatch) {
			return fmt.Errorf("SetImagPart on real data: %v", err)
		}
		if err := x.UpdateImagPart(0, 0, 1); !errors.Is(err, dist.ErrTypeMismatch) {
			return fmt.Errorf("UpdateImagPart on real data: %v", err)
		}
		return nil
	})
}

func TestLocalAccess(t *testing.T) {
	onGrid(t, 2, 2, func(g *grid.Grid) error {
		a, err := dist.Distribute(g, dist.MCMR, reference(4, 4))
		if err != nil {
			return err
		}
		if err := a.SetLocal(1, 1, -1); err != nil {
			return err
		}
		if err := a.UpdateLocal(1, 1, -1); err != nil {
			return err
		}
		v, err := a.GetLocal(1, 1)
		if err != nil {
			return err
		}
		if v != -2 {
			return fmt.Errorf("GetLocal = %v", v)
		}
		if _, err := a.GetLocal(2, 0); !errors.Is(err, dist.ErrOutOfRange) {
			return fmt.Errorf("local range: %v", err)
		}
		// local (1,1) is global (row+2, col+2)
		i, j := a.GlobalRow(1), a.GlobalCol(1)
		if i != g.Row()+2 || j != g.Col()+2 {
			return fmt.Errorf("local (1,1) maps to (%d,%d)", i, j)
		}
		// every process wrote its local (1,1); (3,3) lives on grid (1,1)
		got, err := a.Get(3, 3)
		if err != nil {
			return err
		}
		if got != -2 {
			return fmt.Errorf("Get(3,3) = %v", got)
		}
		return nil
	})
}

func TestViews(t *testing.T) {
	for _, s := range shapes {
		onGrid(t, s[0], s[1], func(g *grid.Grid) error {
			a, err := dist.Distribute(g, dist.MCMR, reference(6, 7), alignOne(g, dist.MCMR))
			if err != nil {
				return err
			}
			v, err := dist.View(a, 1, 2, 4, 3)
			if err != nil {
				return err
			}
			if !v.Viewing() || v.Locked() || !v.ColConstrained() || !v.RowConstrained() {
				return fmt.Errorf("view state %v", v.Ownership())
			}
			got, err := v.Gather()
			if err != nil {
				return err
			}
			ref := reference(6, 7)
			sub, _ := ref.View(1, 2, 4, 3)
			if err := sameDense(got, sub.Clone()); err != nil {
				return fmt.Errorf("view contents: %w", err)
			}

			// writes through the view reach the parent
			if err := v.Set(0, 0, -5); err != nil {
				return err
			}
			x, err := a.Get(1, 2)
			if err != nil {
				return err
			}
			if x != -5 {
				return fmt.Errorf("parent (1,2) = %v after view write", x)
			}

			lv, err := dist.LockedView(a, 0, 0, 2, 2)
			if err != nil {
				return err
			}
			if err := lv.Set(0, 0, 1); !errors.Is(err, dist.ErrLockedView) {
				return fmt.Errorf("write to locked view: %v", err)
			}
			if _, err := dist.View(lv, 0, 0, 1, 1); !errors.Is(err, dist.ErrLockedView) {
				return fmt.Errorf("mutable view of locked view: %v", err)
			}
			if _, err := dist.LockedView(lv, 1, 1, 1, 1); err != nil {
				return err
			}
			if _, err := dist.View(a, 5, 0, 2, 1); !errors.Is(err, dist.ErrOutOfRange) {
				return fmt.Errorf("view range: %v", err)
			}
			if err := v.ResizeTo(1, 1); !errors.Is(err, dist.ErrViewResize) {
				return fmt.Errorf("view resize: %v", err)
			}
			if err := v.Align(0, 0); !errors.Is(err, dist.ErrAlignmentConstrained) {
				return fmt.Errorf("view align: %v", err)
			}
			return nil
		})
	}
}

func TestAttach(t *testing.T) {
	onGrid(t, 1, 2, func(g *grid.Grid) error {
		// 3×4 [*,MR] matrix: process col k holds columns k and k+2
		buf := make([]float64, 3*2)
		for iL := 0; iL < 3; iL++ {
			for jL := 0; jL < 2; jL++ {
				buf[iL*2+jL] = float64(10*iL + g.Col() + 2*jL + 1)
			}
		}
		a, err := dist.New[float64](g, dist.StarMR)
		if err != nil {
			return err
		}
		if err := a.LockedAttach(3, 4, 0, 0, buf, 2); err != nil {
			return err
		}
		if !a.Locked() {
			return fmt.Errorf("attached matrix not locked")
		}
		got, err := a.Gather()
		if err != nil {
			return err
		}
		if err := sameDense(got, reference(3, 4)); err != nil {
			return err
		}
		if err := a.Attach(3, 4, 0, 0, buf[:2], 2); !errors.Is(err, dist.ErrPrecondition) {
			return fmt.Errorf("short buffer: %v", err)
		}
		return nil
	})
}

func TestAlignmentStateMachine(t *testing.T) {
	onGrid(t, 2, 2, func(g *grid.Grid) error {
		a, err := dist.New[float64](g, dist.MCMR, dist.WithSize(4, 4))
		if err != nil {
			return err
		}
		if a.ColConstrained() || a.RowConstrained() {
			return fmt.Errorf("new matrix constrained")
		}
		if err := a.Align(1, 0); err != nil {
			return err
		}
		if a.Height() != 0 || !a.ColConstrained() || a.ColAlignment() != 1 {
			return fmt.Errorf("after Align: %s", a)
		}
		if err := a.AlignCols(0); !errors.Is(err, dist.ErrAlignmentConstrained) {
			return fmt.Errorf("realign: %v", err)
		}
		a.FreeAlignments()
		if err := a.AlignRows(1); err != nil {
			return err
		}
		if a.ColConstrained() || !a.RowConstrained() {
			return fmt.Errorf("after AlignRows: col %v row %v", a.ColConstrained(), a.RowConstrained())
		}

		// [VC,*] refines [MC,MR] column alignment; [MC,*] reduces [VC,*] mod r
		src, _ := dist.New[float64](g, dist.MCMR, dist.WithAlignments(1, 1))
		vc, _ := dist.New[float64](g, dist.VCStar)
		if err := vc.AlignWith(src); err != nil {
			return err
		}
		if vc.ColAlignment() != 1 || !vc.ColConstrained() || vc.RowConstrained() {
			return fmt.Errorf("[VC,*] with [MC,MR]: %s", vc)
		}
		vc3, _ := dist.New[float64](g, dist.VCStar, dist.WithAlignments(3, 0))
		mc, _ := dist.New[float64](g, dist.MCStar)
		if err := mc.AlignColsWith(vc3); err != nil {
			return err
		}
		if mc.ColAlignment() != 1 {
			return fmt.Errorf("[MC,*] with VC alignment 3: %d", mc.ColAlignment())
		}
		mr, _ := dist.New[float64](g, dist.MRStar)
		if err := mr.AlignRowsWith(src); !errors.Is(err, dist.ErrInvalidAlignment) {
			return fmt.Errorf("[MR,*] rows with [MC,MR]: %v", err)
		}
		tr, _ := dist.New[float64](g, dist.MRMC)
		if err := tr.AlignWith(src); err != nil {
			return err
		}
		if tr.ColAlignment() != 1 || tr.RowAlignment() != 1 {
			return fmt.Errorf("[MR,MC] with [MC,MR]: %s", tr)
		}
		return nil
	})
}

func TestAlignWithDiagonal(t *testing.T) {
	onGrid(t, 2, 3, func(g *grid.Grid) error {
		a, _ := dist.New[float64](g, dist.MCMR, dist.WithAlignments(1, 2))
		d, _ := dist.New[float64](g, dist.MDStar)
		if err := d.AlignWithDiagonal(a, 1); err != nil {
			return err
		}
		if !d.AlignedWithDiagonal(a, 1) || d.AlignedWithDiagonal(a, 0) {
			return fmt.Errorf("diagonal alignment not recognized")
		}
		if err := d.AlignWithDiagonal(a, 0); !errors.Is(err, dist.ErrAlignmentConstrained) {
			return fmt.Errorf("realign: %v", err)
		}
		x, _ := dist.New[float64](g, dist.MCMR)
		if err := x.AlignWithDiagonal(a, 0); !errors.Is(err, dist.ErrInvalidFormat) {
			return fmt.Errorf("non-diagonal format: %v", err)
		}
		vc, _ := dist.New[float64](g, dist.VCStar)
		if err := d.AlignWithDiagonal(vc, 0); !errors.Is(err, dist.ErrInvalidFormat) {
			return fmt.Errorf("diagonal of [VC,*]: %v", err)
		}
		return nil
	})
}

func TestLocalOps(t *testing.T) {
	onGrid(t, 2, 3, func(g *grid.Grid) error {
		a, err := dist.Distribute(g, dist.MCMR, reference(5, 5), alignOne(g, dist.MCMR))
		if err != nil {
			return err
		}
		if err := a.MakeTrapezoidal(matrix.Lower, 0); err != nil {
			return err
		}
		if err := a.SetDiagonal(1); err != nil {
			return err
		}
		if err := a.Scale(2); err != nil {
			return err
		}
		got, err := a.Gather()
		if err != nil {
			return err
		}
		want := reference(5, 5)
		_ = matrix.MakeTrapezoidal(matrix.Lower, 0, want, 0, 1, 0, 1)
		_ = matrix.SetDiagonal(1, want, 0, 1, 0, 1)
		_ = matrix.Scale(2, want)
		return sameDense(got, want)
	})
}

func TestDiagonalOwnerOption(t *testing.T) {
	onGrid(t, 2, 2, func(g *grid.Grid) error {
		d, err := dist.New[float64](g, dist.StarMD, dist.WithDiagonalOwner(2), dist.WithSize(1, 5))
		if err != nil {
			return err
		}
		// VC 2 is grid (0,1): path 1, path rank 0
		if d.DiagPath() != 1 || d.RowAlignment() != 0 || !d.RowConstrained() {
			return fmt.Errorf("[*,MD] owner 2: %s path %d", d, d.DiagPath())
		}
		if want := g.DiagPath() == 1; d.Participating() != want {
			return fmt.Errorf("participation %v on path %d", d.Participating(), g.DiagPath())
		}
		if _, err := dist.New[float64](g, dist.MCMR, dist.WithDiagonalOwner(0)); !errors.Is(err, dist.ErrInvalidFormat) {
			return fmt.Errorf("owner on [MC,MR]: %v", err)
		}
		if _, err := dist.New[float64](g, dist.MDStar, dist.WithDiagonalOwner(4)); !errors.Is(err, dist.ErrInvalidAlignment) {
			return fmt.Errorf("owner 4 of 4: %v", err)
		}
		src, _ := dist.Distribute(g, dist.MCMR, reference(2, 2))
		dst, _ := dist.New[float64](g, dist.MRMC)
		if err := dist.Copy(dst, src); err != nil {
			return err
		}
		got, err := dst.Gather()
		if err != nil {
			return err
		}
		return sameDense(got, reference(2, 2))
	})
}
