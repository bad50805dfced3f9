package grid

import (
	"errors"

	"github.com/katalvlaran/lvdist/comm"
)

// Sentinel errors for grid construction and queries.
var (
	// ErrNilComm indicates a nil communicator.
	ErrNilComm = errors.New("grid: communicator is nil")
	// ErrBadShape indicates a non-positive grid height or width.
	ErrBadShape = errors.New("grid: height and width must be positive")
	// ErrSizeMismatch indicates height*width differs from the communicator size.
	ErrSizeMismatch = errors.New("grid: height*width must equal the number of processes")
	// ErrRankOutOfRange indicates a rank or coordinate outside the grid.
	ErrRankOutOfRange = errors.New("grid: rank out of range")
)

// Grid is one process's view of an r×c process grid.
// Height and Width never change after New; all queries are local.
type Grid struct {
	height, width int
	row, col      int
	gcd, lcm      int

	// per-VC-rank diagonal placement, precomputed at construction
	diagPaths     []int
	diagPathRanks []int

	comm    *comm.Comm // all ranks, VC order
	colComm *comm.Comm // same grid column, member index = row
	rowComm *comm.Comm // same grid row, member index = column
	vrComm  *comm.Comm // all ranks, VR order
}
