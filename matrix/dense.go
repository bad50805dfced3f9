// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (strided row-major) & safe accessors.
//
// Purpose:
//   - Provide a row-major buffer with an explicit leading dimension:
//     offset(i,j) = i*ld + j, ld >= max(1, cols).
//   - Guarantee safety at the public surface: At/Set/Update return errors.
//   - Support no-copy windows (View, LockedView) and foreign buffers (Attach).
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); View: O(1).

package matrix

import (
	"fmt"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt       = "At"
	ctxSet      = "Set"
	ctxUpdate   = "Update"
	ctxView     = "View"
	ctxAttach   = "Attach"
	ctxResize   = "ResizeTo"
	ctxCopyFrom = "CopyFrom"
	ctxZero     = "Zero"
)

// ---------- Formatting literals ----------

const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a strided row-major matrix.
//   - rows, cols hold dimensions (zero allowed).
//   - data holds element (i,j) at i*ld+j; windows share the base buffer.
//   - own records whether the storage may be resized or written.
type Dense[T Scalar] struct {
	rows, cols int
	ld         int
	data       []T
	own        Ownership
}

// Compile-time assertion for fmt.Stringer conformance.
var _ fmt.Stringer = (*Dense[float64])(nil)

// NewDense creates a rows×cols zero matrix that owns its storage.
// MAIN DESCRIPTION:
//   - Public constructor with shape validation. Zero rows or columns are
//     legal because local blocks of distributed matrices are often empty.
//
// Implementation:
//   - Stage 1: validate rows >= 0 && cols >= 0; else ErrBadShape.
//   - Stage 2: allocate a compact zero-filled buffer (ld = max(1, cols)).
//
// Errors:
//   - ErrBadShape.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense[T Scalar](rows, cols int) (*Dense[T], error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", rows, cols, ErrBadShape)
	}

	return &Dense[T]{
		rows: rows,
		cols: cols,
		ld:   max(1, cols),
		data: make([]T, rows*cols),
		own:  Owned,
	}, nil
}

// NewDenseFrom builds an owned rows×cols matrix from row-major values.
// The slice is copied.
func NewDenseFrom[T Scalar](rows, cols int, values []T) (*Dense[T], error) {
	m, err := NewDense[T](rows, cols)
	if err != nil {
		return nil, err
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("NewDenseFrom(%d,%d): %d values: %w", rows, cols, len(values), ErrDimensionMismatch)
	}
	copy(m.data, values)

	return m, nil
}

// checkStrided validates that buf can back a rows×cols matrix with leading
// dimension ld.
func checkStrided[T Scalar](rows, cols, ld int, buf []T) error {
	if rows < 0 || cols < 0 || ld < max(1, cols) {
		return ErrBadShape
	}
	if rows > 0 && cols > 0 && len(buf) < (rows-1)*ld+cols {
		return ErrBadShape
	}

	return nil
}

// Attach wraps a caller-owned buffer as a mutable rows×cols matrix with
// leading dimension ld. Writes through the matrix are visible in buf.
func Attach[T Scalar](rows, cols int, buf []T, ld int) (*Dense[T], error) {
	if err := checkStrided(rows, cols, ld, buf); err != nil {
		return nil, denseErrorf(ctxAttach, rows, cols, err)
	}

	return &Dense[T]{rows: rows, cols: cols, ld: ld, data: buf, own: Borrowed}, nil
}

// LockedAttach is Attach for read-only buffers.
func LockedAttach[T Scalar](rows, cols int, buf []T, ld int) (*Dense[T], error) {
	m, err := Attach(rows, cols, buf, ld)
	if err != nil {
		return nil, err
	}
	m.own = BorrowedLocked

	return m, nil
}

// Rows returns the number of rows.
func (m *Dense[T]) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense[T]) Cols() int { return m.cols }

// LDim returns the leading dimension (distance between consecutive rows).
func (m *Dense[T]) LDim() int { return m.ld }

// Ownership returns the storage tag.
func (m *Dense[T]) Ownership() Ownership { return m.own }

// Viewing reports whether the storage is borrowed.
func (m *Dense[T]) Viewing() bool { return m.own != Owned }

// Locked reports whether the matrix is a read-only view.
func (m *Dense[T]) Locked() bool { return m.own == BorrowedLocked }

// Data exposes the underlying buffer: element (i,j) is Data()[i*LDim()+j].
// Callers must not write through the buffer of a locked matrix.
func (m *Dense[T]) Data() []T { return m.data }

func (m *Dense[T]) inBounds(i, j int) bool {
	return i >= 0 && i < m.rows && j >= 0 && j < m.cols
}

// At returns element (i,j).
func (m *Dense[T]) At(i, j int) (T, error) {
	if !m.inBounds(i, j) {
		var zero T
		return zero, denseErrorf(ctxAt, i, j, ErrOutOfRange)
	}

	return m.data[i*m.ld+j], nil
}

// Set assigns element (i,j).
func (m *Dense[T]) Set(i, j int, v T) error {
	if m.own == BorrowedLocked {
		return denseErrorf(ctxSet, i, j, ErrLockedView)
	}
	if !m.inBounds(i, j) {
		return denseErrorf(ctxSet, i, j, ErrOutOfRange)
	}
	m.data[i*m.ld+j] = v

	return nil
}

// Update adds v to element (i,j).
func (m *Dense[T]) Update(i, j int, v T) error {
	if m.own == BorrowedLocked {
		return denseErrorf(ctxUpdate, i, j, ErrLockedView)
	}
	if !m.inBounds(i, j) {
		return denseErrorf(ctxUpdate, i, j, ErrOutOfRange)
	}
	m.data[i*m.ld+j] += v

	return nil
}

// isEmpty reports a matrix without elements. Row-strided loops must skip
// such matrices: with zero columns the buffer may be shorter than rows*ld.
func (m *Dense[T]) isEmpty() bool { return m.rows == 0 || m.cols == 0 }

// window returns the sub-slice of data backing the h×w block at (i,j).
func (m *Dense[T]) window(i, j, h, w int) []T {
	if h == 0 || w == 0 {
		return nil
	}
	start := i*m.ld + j

	return m.data[start : start+(h-1)*m.ld+w]
}

// View returns a mutable h×w window whose top-left corner is (i,j).
// MAIN DESCRIPTION:
//   - No-copy window: writes through the view are visible in m.
//
// Errors:
//   - ErrOutOfRange if the window does not fit in m.
//   - ErrLockedView if m is locked (use LockedView).
func (m *Dense[T]) View(i, j, h, w int) (*Dense[T], error) {
	if m.own == BorrowedLocked {
		return nil, denseErrorf(ctxView, i, j, ErrLockedView)
	}
	v, err := m.view(i, j, h, w)
	if err != nil {
		return nil, err
	}
	v.own = Borrowed

	return v, nil
}

// LockedView returns a read-only h×w window whose top-left corner is (i,j).
func (m *Dense[T]) LockedView(i, j, h, w int) (*Dense[T], error) {
	v, err := m.view(i, j, h, w)
	if err != nil {
		return nil, err
	}
	v.own = BorrowedLocked

	return v, nil
}

func (m *Dense[T]) view(i, j, h, w int) (*Dense[T], error) {
	if i < 0 || j < 0 || h < 0 || w < 0 || i+h > m.rows || j+w > m.cols {
		return nil, denseErrorf(ctxView, i, j, ErrOutOfRange)
	}

	return &Dense[T]{rows: h, cols: w, ld: m.ld, data: m.window(i, j, h, w)}, nil
}

// ResizeTo reshapes an owned matrix to rows×cols. Contents are unspecified
// afterwards (zero when storage was reallocated).
func (m *Dense[T]) ResizeTo(rows, cols int) error {
	if m.own != Owned {
		return denseErrorf(ctxResize, rows, cols, ErrViewResize)
	}
	if rows < 0 || cols < 0 {
		return denseErrorf(ctxResize, rows, cols, ErrBadShape)
	}
	if rows == m.rows && cols == m.cols {
		return nil
	}
	ld := max(1, cols)
	if need := rows * ld; cap(m.data) >= need {
		m.data = m.data[:need]
	} else {
		m.data = make([]T, need)
	}
	m.rows, m.cols, m.ld = rows, cols, ld

	return nil
}

// Empty releases the storage and turns m into an owned 0×0 matrix.
func (m *Dense[T]) Empty() {
	m.rows, m.cols, m.ld = 0, 0, 1
	m.data = nil
	m.own = Owned
}

// CopyFrom copies src into m. Shapes must match.
func (m *Dense[T]) CopyFrom(src *Dense[T]) error {
	if m.own == BorrowedLocked {
		return denseErrorf(ctxCopyFrom, m.rows, m.cols, ErrLockedView)
	}
	if src.rows != m.rows || src.cols != m.cols {
		return denseErrorf(ctxCopyFrom, src.rows, src.cols, ErrDimensionMismatch)
	}
	if m.isEmpty() {
		return nil
	}
	for i := 0; i < m.rows; i++ {
		copy(m.data[i*m.ld:i*m.ld+m.cols], src.data[i*src.ld:i*src.ld+src.cols])
	}

	return nil
}

// Clone returns an owned compact copy of m.
func (m *Dense[T]) Clone() *Dense[T] {
	out := &Dense[T]{rows: m.rows, cols: m.cols, ld: max(1, m.cols), data: make([]T, m.rows*m.cols)}
	if m.isEmpty() {
		return out
	}
	for i := 0; i < m.rows; i++ {
		copy(out.data[i*out.ld:i*out.ld+m.cols], m.data[i*m.ld:i*m.ld+m.cols])
	}

	return out
}

// Values returns a compact row-major copy of the elements.
func (m *Dense[T]) Values() []T {
	return m.Clone().data
}

// Zero sets every element to zero.
func (m *Dense[T]) Zero() error {
	if m.own == BorrowedLocked {
		return denseErrorf(ctxZero, m.rows, m.cols, ErrLockedView)
	}
	if m.isEmpty() {
		return nil
	}
	for i := 0; i < m.rows; i++ {
		clear(m.data[i*m.ld : i*m.ld+m.cols])
	}

	return nil
}

// String implements fmt.Stringer: one bracketed row per line.
func (m *Dense[T]) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteString(_fmtRowOpen)
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(_fmtSep)
			}
			fmt.Fprintf(&sb, "%v", m.data[i*m.ld+j])
		}
		sb.WriteString(_fmtRowClose)
	}

	return sb.String()
}
