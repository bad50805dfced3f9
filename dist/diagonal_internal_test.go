package dist

import (
	"context"
	"fmt"
	"testing"

	"github.com/katalvlaran/lvdist/comm"
	"github.com/katalvlaran/lvdist/grid"
	"github.com/stretchr/testify/require"
)

// TestDiagonalOwnersMatch checks that after AlignWithDiagonal entry k of the
// diagonal vector lives on the process owning diagonal entry k of the
// matrix, for both [MC,MR] and [MR,MC] and several offsets.
func TestDiagonalOwnersMatch(t *testing.T) {
	for _, s := range [][2]int{{2, 2}, {2, 3}, {3, 2}, {2, 4}} {
		r, c := s[0], s[1]
		err := comm.Run(context.Background(), r*c, func(_ context.Context, cm *comm.Comm) error {
			g, err := grid.New(cm, r, c)
			if err != nil {
				return err
			}
			for _, f := range []Format{MCMR, MRMC} {
				a, err := New[float64](g, f, WithSize(7, 6), WithAlignments(1%strideOf(f.Col, g), (c-1)%strideOf(f.Row, g)))
				if err != nil {
					return err
				}
				for offset := -3; offset <= 3; offset++ {
					for _, vf := range []Format{MDStar, StarMD} {
						d, err := New[float64](g, vf)
						if err != nil {
							return err
						}
						if err := d.AlignWithDiagonal(a, offset); err != nil {
							return err
						}
						for k := 0; k < 4; k++ {
							i, j := k, k+offset
							if offset < 0 {
								i, j = k-offset, k
							}
							want := a.owners(i, j).canonical(g)
							di, dj := k, 0
							if vf == StarMD {
								di, dj = 0, k
							}
							if got := d.owners(di, dj).canonical(g); got != want {
								return fmt.Errorf("%dx%d %s offset %d entry %d: owner %d, want %d", r, c, f, offset, k, got, want)
							}
						}
					}
				}
			}
			return nil
		})
		require.NoError(t, err)
	}
}

func TestConversionTable(t *testing.T) {
	require.Len(t, conversions, 169)
	require.Equal(t, stratFromStarStar, conversions[formatPair{MDStar, StarStar}])
	require.Equal(t, stratGatherAll, conversions[formatPair{StarStar, StarMD}])
	require.Equal(t, stratLocalCopy, conversions[formatPair{VRStar, VRStar}])
	require.Equal(t, stratRedistribute, conversions[formatPair{MCMR, StarVC}])
	require.Equal(t, stratUnsupported, conversions[formatPair{MDStar, StarMD}])
}

func TestPlaceEach(t *testing.T) {
	err := comm.Run(context.Background(), 6, func(_ context.Context, cm *comm.Comm) error {
		g, err := grid.New(cm, 2, 3)
		if err != nil {
			return err
		}
		if cm.Rank() != 0 {
			return nil
		}
		var got []int
		place{-1, 1}.each(g, func(vc int) { got = append(got, vc) })
		if fmt.Sprint(got) != "[2 3]" {
			return fmt.Errorf("column 1 owners %v", got)
		}
		got = nil
		place{1, -1}.each(g, func(vc int) { got = append(got, vc) })
		if fmt.Sprint(got) != "[1 3 5]" {
			return fmt.Errorf("row 1 owners %v", got)
		}
		if anywhere.canonical(g) != 0 || (place{1, 2}).canonical(g) != 5 {
			return fmt.Errorf("canonical owners")
		}
		return nil
	})
	require.NoError(t, err)
}
