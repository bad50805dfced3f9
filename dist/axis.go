package dist

import "github.com/katalvlaran/lvdist/grid"

// Shift returns the first global index owned by the process of the given rank
// along a dimension with this alignment and stride.
func Shift(rank, align, stride int) int {
	return ((rank-align)%stride + stride) % stride
}

// LocalLength returns how many of n global indices fall on a process whose
// shift is shift, for the given stride.
func LocalLength(n, shift, stride int) int {
	if n > shift {
		return (n-shift-1)/stride + 1
	}
	return 0
}

func strideOf(d Dist, g *grid.Grid) int {
	switch d {
	case MC:
		return g.Height()
	case MR:
		return g.Width()
	case VC, VR:
		return g.Size()
	case MD:
		return g.LCM()
	default:
		return 1
	}
}

// rankAlong returns the rank of process vc along a dimension distributed as d.
func rankAlong(d Dist, g *grid.Grid, vc int) int {
	row, col := g.Coordinate(vc)
	switch d {
	case MC:
		return row
	case MR:
		return col
	case VC:
		return vc
	case VR:
		return g.VCToVR(vc)
	case MD:
		k, _ := g.DiagPathRankOf(vc)
		return k
	default:
		return 0
	}
}

// place constrains the grid coordinates of the processes owning an entry.
// -1 leaves a coordinate free (the entry is replicated along it).
type place struct{ row, col int }

var anywhere = place{-1, -1}

// ownerAlong returns the placement of axis-owner k of a dimension
// distributed as d.
func ownerAlong(d Dist, g *grid.Grid, k, diagPath int) place {
	switch d {
	case MC:
		return place{k, -1}
	case MR:
		return place{-1, k}
	case VC:
		row, col := g.Coordinate(k)
		return place{row, col}
	case VR:
		row, col := g.Coordinate(g.VRToVC(k))
		return place{row, col}
	case MD:
		row, col := g.Coordinate(g.DiagOwner(diagPath, k))
		return place{row, col}
	default:
		return anywhere
	}
}

func (p place) merge(q place) place {
	if p.row < 0 {
		p.row = q.row
	}
	if p.col < 0 {
		p.col = q.col
	}
	return p
}

// canonical picks the owner with every free coordinate set to zero.
func (p place) canonical(g *grid.Grid) int {
	return g.VCRank(max(p.row, 0), max(p.col, 0))
}

// each visits every VC rank matching p in ascending order.
func (p place) each(g *grid.Grid, fn func(vc int)) {
	for col := 0; col < g.Width(); col++ {
		if p.col >= 0 && col != p.col {
			continue
		}
		for row := 0; row < g.Height(); row++ {
			if p.row >= 0 && row != p.row {
				continue
			}
			fn(g.VCRank(row, col))
		}
	}
}
