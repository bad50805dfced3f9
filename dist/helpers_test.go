package dist_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/katalvlaran/lvdist/comm"
	"github.com/katalvlaran/lvdist/dist"
	"github.com/katalvlaran/lvdist/grid"
	"github.com/katalvlaran/lvdist/matrix"
	"github.com/stretchr/testify/require"
)

// shapes are the grid shapes every collective test runs on.
var shapes = [][2]int{{1, 1}, {2, 2}, {2, 3}, {3, 2}}

// onGrid runs fn on every process of an r×c grid. fn reports failures by
// returning an error; the assertion happens once the world has stopped.
func onGrid(t *testing.T, r, c int, fn func(g *grid.Grid) error) {
	t.Helper()
	err := comm.Run(context.Background(), r*c, func(_ context.Context, cm *comm.Comm) error {
		g, err := grid.New(cm, r, c)
		if err != nil {
			return err
		}
		return fn(g)
	})
	require.NoError(t, err, "grid %dx%d", r, c)
}

// reference returns the h×w matrix with entry (i,j) = 10i+j+1.
func reference(h, w int) *matrix.Dense[float64] {
	vals := make([]float64, h*w)
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			vals[i*w+j] = float64(10*i + j + 1)
		}
	}
	d, _ := matrix.NewDenseFrom(h, w, vals)
	return d
}

// complexReference returns the h×w matrix with entry (i,j) = (i+1) + (j-i)i.
func complexReference(h, w int) *matrix.Dense[complex128] {
	vals := make([]complex128, h*w)
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			vals[i*w+j] = complex(float64(i+1), float64(j-i))
		}
	}
	d, _ := matrix.NewDenseFrom(h, w, vals)
	return d
}

// sameDense returns a descriptive error if a and b differ.
func sameDense[T matrix.Scalar](a, b *matrix.Dense[T]) error {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return fmt.Errorf("shape %dx%d, want %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	av, bv := a.Values(), b.Values()
	for k := range av {
		if av[k] != bv[k] {
			return fmt.Errorf("entry (%d,%d) = %v, want %v", k/a.Cols(), k%a.Cols(), av[k], bv[k])
		}
	}
	return nil
}

// alignOne returns an alignment of 1 (mod stride) for every distributed
// dimension of f; MD dimensions take VC owner 1.
func alignOne(g *grid.Grid, f dist.Format) dist.Option {
	pick := func(d dist.Dist) int {
		switch d {
		case dist.MC:
			return 1 % g.Height()
		case dist.MR:
			return 1 % g.Width()
		case dist.VC, dist.VR, dist.MD:
			return 1 % g.Size()
		default:
			return 0
		}
	}
	return dist.WithAlignments(pick(f.Col), pick(f.Row))
}
