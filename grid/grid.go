package grid

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvdist/comm"
)

// FindFactor returns the grid height chosen for p processes: the smallest
// divisor of p that is at least floor(sqrt(p)).
func FindFactor(p int) int {
	if p < 1 {
		return 1
	}
	r := int(math.Sqrt(float64(p)))
	if r < 1 {
		r = 1
	}
	for p%r != 0 {
		r++
	}

	return r
}

// NewAuto builds a grid whose height is FindFactor(c.Size()).
func NewAuto(c *comm.Comm) (*Grid, error) {
	if c == nil {
		return nil, ErrNilComm
	}
	r := FindFactor(c.Size())

	return New(c, r, c.Size()/r)
}

// New builds an height×width grid over c. Every member of c must call New
// with the same shape.
func New(c *comm.Comm, height, width int) (*Grid, error) {
	if c == nil {
		return nil, ErrNilComm
	}
	if height < 1 || width < 1 {
		return nil, fmt.Errorf("grid.New(%d,%d): %w", height, width, ErrBadShape)
	}
	if height*width != c.Size() {
		return nil, fmt.Errorf("grid.New(%d,%d) over %d processes: %w", height, width, c.Size(), ErrSizeMismatch)
	}

	g := &Grid{
		height: height,
		width:  width,
		row:    c.Rank() % height,
		col:    c.Rank() / height,
		gcd:    gcd(height, width),
		comm:   c,
	}
	g.lcm = height / g.gcd * width
	g.buildDiagonals()

	var err error
	colMembers := make([]int, height)
	for i := range colMembers {
		colMembers[i] = i + height*g.col
	}
	if g.colComm, err = c.Sub(fmt.Sprintf("col%d", g.col), colMembers); err != nil {
		return nil, err
	}
	rowMembers := make([]int, width)
	for j := range rowMembers {
		rowMembers[j] = g.row + height*j
	}
	if g.rowComm, err = c.Sub(fmt.Sprintf("row%d", g.row), rowMembers); err != nil {
		return nil, err
	}
	vrMembers := make([]int, height*width)
	for vr := range vrMembers {
		vrMembers[vr] = g.VRToVC(vr)
	}
	if g.vrComm, err = c.Sub("vr", vrMembers); err != nil {
		return nil, err
	}

	return g, nil
}

// buildDiagonals walks every diagonal path once and records, for each VC
// rank, its path and its position on the path.
func (g *Grid) buildDiagonals() {
	p := g.height * g.width
	g.diagPaths = make([]int, p)
	g.diagPathRanks = make([]int, p)
	for path := 0; path < g.gcd; path++ {
		for k := 0; k < g.lcm; k++ {
			vc := g.VCRank(k%g.height, (path+k)%g.width)
			g.diagPaths[vc] = path
			g.diagPathRanks[vc] = k
		}
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}

// Height returns r, the number of process rows.
func (g *Grid) Height() int { return g.height }

// Width returns c, the number of process columns.
func (g *Grid) Width() int { return g.width }

// Size returns r*c.
func (g *Grid) Size() int { return g.height * g.width }

// Row returns the caller's grid row.
func (g *Grid) Row() int { return g.row }

// Col returns the caller's grid column.
func (g *Grid) Col() int { return g.col }

// VCRank returns the column-major rank of (row, col). Callers pass valid
// coordinates; use Coordinate to go back.
func (g *Grid) VCRank(row, col int) int { return row + g.height*col }

// VRRank returns the row-major rank of (row, col).
func (g *Grid) VRRank(row, col int) int { return col + g.width*row }

// Rank returns the caller's VC rank (its rank in Comm()).
func (g *Grid) Rank() int { return g.VCRank(g.row, g.col) }

// VR returns the caller's VR rank.
func (g *Grid) VR() int { return g.VRRank(g.row, g.col) }

// Coordinate maps a VC rank to (row, col).
func (g *Grid) Coordinate(vc int) (row, col int) { return vc % g.height, vc / g.height }

// VCToVR converts a VC rank to the VR rank of the same process.
func (g *Grid) VCToVR(vc int) int {
	row, col := g.Coordinate(vc)

	return g.VRRank(row, col)
}

// VRToVC converts a VR rank to the VC rank of the same process.
func (g *Grid) VRToVC(vr int) int { return g.VCRank(vr/g.width, vr%g.width) }

// GCD returns gcd(r, c), the number of diagonal paths.
func (g *Grid) GCD() int { return g.gcd }

// LCM returns lcm(r, c), the length of each diagonal path.
func (g *Grid) LCM() int { return g.lcm }

// DiagPath returns the caller's diagonal path.
func (g *Grid) DiagPath() int { return g.diagPaths[g.Rank()] }

// DiagPathRank returns the caller's position on its diagonal path.
func (g *Grid) DiagPathRank() int { return g.diagPathRanks[g.Rank()] }

// DiagPathOf returns the diagonal path of VC rank vc.
func (g *Grid) DiagPathOf(vc int) (int, error) {
	if vc < 0 || vc >= g.Size() {
		return 0, fmt.Errorf("grid.DiagPathOf(%d): %w", vc, ErrRankOutOfRange)
	}

	return g.diagPaths[vc], nil
}

// DiagPathRankOf returns the position of VC rank vc on its diagonal path.
func (g *Grid) DiagPathRankOf(vc int) (int, error) {
	if vc < 0 || vc >= g.Size() {
		return 0, fmt.Errorf("grid.DiagPathRankOf(%d): %w", vc, ErrRankOutOfRange)
	}

	return g.diagPathRanks[vc], nil
}

// DiagOwner returns the VC rank at position k of diagonal path path.
func (g *Grid) DiagOwner(path, k int) int {
	return g.VCRank(k%g.height, (path+k)%g.width)
}

// Comm returns the communicator of all processes, indexed by VC rank.
func (g *Grid) Comm() *comm.Comm { return g.comm }

// ColComm returns the processes of the caller's grid column, indexed by row.
// Matrix dimensions distributed as MC communicate over it.
func (g *Grid) ColComm() *comm.Comm { return g.colComm }

// RowComm returns the processes of the caller's grid row, indexed by column.
// Matrix dimensions distributed as MR communicate over it.
func (g *Grid) RowComm() *comm.Comm { return g.rowComm }

// VRComm returns all processes indexed by VR rank.
func (g *Grid) VRComm() *comm.Comm { return g.vrComm }

// String renders the grid shape and the caller's coordinates.
func (g *Grid) String() string {
	return fmt.Sprintf("grid %dx%d at (%d,%d)", g.height, g.width, g.row, g.col)
}
