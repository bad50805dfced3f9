package partition

import (
	"fmt"

	"github.com/katalvlaran/lvdist/dist"
	"github.com/katalvlaran/lvdist/matrix"
)

// Direction is the direction a Cursor moves in.
type Direction uint8

const (
	// Down processes rows from the top.
	Down Direction = iota
	// Up processes rows from the bottom.
	Up
	// Right processes columns from the left.
	Right
	// Left processes columns from the right.
	Left
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Down:
		return "Down"
	case Up:
		return "Up"
	case Right:
		return "Right"
	case Left:
		return "Left"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// State is the position of a cursor in its two-step cycle.
type State uint8

const (
	// Partitioned: two parts, ready to Repartition.
	Partitioned State = iota
	// Repartitioned: three parts exposed, ready to Slide.
	Repartitioned
)

// String returns the state name.
func (s State) String() string {
	if s == Repartitioned {
		return "Repartitioned"
	}
	return "Partitioned"
}

// track is the bookkeeping shared by both cursors: an extent, the processed
// length, the current panel and the cycle state.
type track struct {
	n, bsize int
	done     int
	panel    int
	state    State
}

func (t *track) remaining() int { return t.n - t.done }

func (t *track) repartition() error {
	if t.state != Partitioned || t.remaining() == 0 {
		return fmt.Errorf("Repartition in state %s with %d remaining: %w", t.state, t.remaining(), ErrCursorState)
	}
	t.panel = min(t.bsize, t.remaining())
	t.state = Repartitioned
	return nil
}

func (t *track) slide() error {
	if t.state != Repartitioned {
		return fmt.Errorf("Slide in state %s: %w", t.state, ErrCursorState)
	}
	t.done += t.panel
	t.panel = 0
	t.state = Partitioned
	return nil
}

// splits returns the three extents along the traversal in geometric order
// (top to bottom or left to right).
func (t *track) splits(backward bool) (n0, n1, n2 int) {
	if backward {
		return t.n - t.done - t.panel, t.panel, t.done
	}
	return t.done, t.panel, t.n - t.done - t.panel
}

// Cursor walks one dimension of a distributed matrix in panels.
type Cursor[T matrix.Scalar] struct {
	a      *dist.Matrix[T]
	dir    Direction
	locked bool
	track
}

// NewCursor returns a cursor over a that yields mutable views.
func NewCursor[T matrix.Scalar](a *dist.Matrix[T], dir Direction, bsize int) (*Cursor[T], error) {
	return newCursor(a, dir, bsize, false)
}

// NewLockedCursor returns a cursor over a that yields read-only views.
func NewLockedCursor[T matrix.Scalar](a *dist.Matrix[T], dir Direction, bsize int) (*Cursor[T], error) {
	return newCursor(a, dir, bsize, true)
}

func newCursor[T matrix.Scalar](a *dist.Matrix[T], dir Direction, bsize int, locked bool) (*Cursor[T], error) {
	if a == nil {
		return nil, ErrNilMatrix
	}
	if bsize < 1 {
		return nil, fmt.Errorf("%d: %w", bsize, ErrBadBlocksize)
	}
	n := a.Height()
	if dir == Right || dir == Left {
		n = a.Width()
	}
	return &Cursor[T]{a: a, dir: dir, locked: locked, track: track{n: n, bsize: bsize}}, nil
}

// Done reports whether the remaining part is empty.
func (c *Cursor[T]) Done() bool { return c.remaining() == 0 }

// Processed returns the extent of the processed part.
func (c *Cursor[T]) Processed() int { return c.done }

// State returns the cycle state.
func (c *Cursor[T]) State() State { return c.state }

// Repartition carves the next panel out of the remaining part.
func (c *Cursor[T]) Repartition() error { return c.repartition() }

// Slide moves the current panel into the processed part.
func (c *Cursor[T]) Slide() error { return c.slide() }

// Parts returns the three parts in geometric order: for Down and Right
// (processed, panel, remaining); for Up and Left (remaining, panel,
// processed). Valid only after Repartition.
func (c *Cursor[T]) Parts() (a0, a1, a2 *dist.Matrix[T], err error) {
	if c.state != Repartitioned {
		return nil, nil, nil, fmt.Errorf("Parts in state %s: %w", c.state, ErrCursorState)
	}
	n0, n1, n2 := c.splits(c.dir == Up || c.dir == Left)
	offs := [3]int{0, n0, n0 + n1}
	lens := [3]int{n0, n1, n2}
	var out [3]*dist.Matrix[T]
	for k := range out {
		i, j, h, w := offs[k], 0, lens[k], c.a.Width()
		if c.dir == Right || c.dir == Left {
			i, j, h, w = 0, offs[k], c.a.Height(), lens[k]
		}
		if out[k], err = c.view(i, j, h, w); err != nil {
			return nil, nil, nil, err
		}
	}
	return out[0], out[1], out[2], nil
}

// Panel returns only the current panel.
func (c *Cursor[T]) Panel() (*dist.Matrix[T], error) {
	_, a1, _, err := c.Parts()
	return a1, err
}

func (c *Cursor[T]) view(i, j, h, w int) (*dist.Matrix[T], error) {
	if c.locked {
		return dist.LockedView(c.a, i, j, h, w)
	}
	return dist.View(c.a, i, j, h, w)
}
