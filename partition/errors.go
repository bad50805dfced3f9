package partition

import "errors"

var (
	// ErrCursorState is returned when Repartition, Slide or Parts is called
	// in the wrong state.
	ErrCursorState = errors.New("partition: operation not valid in current cursor state")

	// ErrBadBlocksize is returned for a blocksize < 1.
	ErrBadBlocksize = errors.New("partition: blocksize must be positive")

	// ErrNonSquare is returned when a DiagCursor is built over a non-square matrix.
	ErrNonSquare = errors.New("partition: diagonal traversal needs a square matrix")

	// ErrNilMatrix is returned for a nil matrix.
	ErrNilMatrix = errors.New("partition: nil matrix")
)
