package partition

import (
	"fmt"

	"github.com/katalvlaran/lvdist/dist"
	"github.com/katalvlaran/lvdist/matrix"
)

// DiagDirection is the direction a DiagCursor moves along the diagonal.
type DiagDirection uint8

const (
	// DownDiagonal starts at the top-left corner.
	DownDiagonal DiagDirection = iota
	// UpDiagonal starts at the bottom-right corner.
	UpDiagonal
)

// Blocks is the 3×3 split of a square matrix around a diagonal panel;
// Blocks[1][1] is the diagonal block.
type Blocks[T matrix.Scalar] [3][3]*dist.Matrix[T]

// DiagCursor walks the diagonal of a square distributed matrix in blocks.
type DiagCursor[T matrix.Scalar] struct {
	a      *dist.Matrix[T]
	dir    DiagDirection
	locked bool
	track
}

// NewDiagCursor returns a diagonal cursor yielding mutable views.
func NewDiagCursor[T matrix.Scalar](a *dist.Matrix[T], dir DiagDirection, bsize int) (*DiagCursor[T], error) {
	return newDiagCursor(a, dir, bsize, false)
}

// NewLockedDiagCursor returns a diagonal cursor yielding read-only views.
func NewLockedDiagCursor[T matrix.Scalar](a *dist.Matrix[T], dir DiagDirection, bsize int) (*DiagCursor[T], error) {
	return newDiagCursor(a, dir, bsize, true)
}

func newDiagCursor[T matrix.Scalar](a *dist.Matrix[T], dir DiagDirection, bsize int, locked bool) (*DiagCursor[T], error) {
	if a == nil {
		return nil, ErrNilMatrix
	}
	if a.Height() != a.Width() {
		return nil, fmt.Errorf("%dx%d: %w", a.Height(), a.Width(), ErrNonSquare)
	}
	if bsize < 1 {
		return nil, fmt.Errorf("%d: %w", bsize, ErrBadBlocksize)
	}
	return &DiagCursor[T]{a: a, dir: dir, locked: locked, track: track{n: a.Height(), bsize: bsize}}, nil
}

// Done reports whether the remaining part is empty.
func (c *DiagCursor[T]) Done() bool { return c.remaining() == 0 }

// Processed returns the extent of the processed part.
func (c *DiagCursor[T]) Processed() int { return c.done }

// State returns the cycle state.
func (c *DiagCursor[T]) State() State { return c.state }

// Repartition carves the next diagonal block out of the remaining part.
func (c *DiagCursor[T]) Repartition() error { return c.repartition() }

// Slide moves the current block into the processed part.
func (c *DiagCursor[T]) Slide() error { return c.slide() }

// Blocks returns the 3×3 split in geometric order. Valid only after
// Repartition.
func (c *DiagCursor[T]) Blocks() (Blocks[T], error) {
	var b Blocks[T]
	if c.state != Repartitioned {
		return b, fmt.Errorf("Blocks in state %s: %w", c.state, ErrCursorState)
	}
	n0, n1, n2 := c.splits(c.dir == UpDiagonal)
	offs := [3]int{0, n0, n0 + n1}
	lens := [3]int{n0, n1, n2}
	for bi := 0; bi < 3; bi++ {
		for bj := 0; bj < 3; bj++ {
			var err error
			if c.locked {
				b[bi][bj], err = dist.LockedView(c.a, offs[bi], offs[bj], lens[bi], lens[bj])
			} else {
				b[bi][bj], err = dist.View(c.a, offs[bi], offs[bj], lens[bi], lens[bj])
			}
			if err != nil {
				return b, err
			}
		}
	}
	return b, nil
}
