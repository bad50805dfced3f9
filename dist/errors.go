package dist

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	// ErrPrecondition marks a violated precondition: nonconformal shapes,
	// mismatched grids, constrained or invalid alignments, view misuse.
	ErrPrecondition = errors.New("dist: precondition violated")
	// ErrUnsupportedConversion marks a redistribution pair that is not
	// implemented. The concrete error is a *ConversionError.
	ErrUnsupportedConversion = errors.New("dist: unsupported conversion")
	// ErrTypeMismatch marks a complex-only routine called with real data.
	ErrTypeMismatch = errors.New("dist: called complex-only routine with real data")
)

// Specific preconditions. They are reported wrapped together with
// ErrPrecondition.
var (
	ErrNilMatrix            = errors.New("nil matrix")
	ErrNilGrid              = errors.New("nil grid")
	ErrGridMismatch         = errors.New("matrices are distributed over different grids")
	ErrShapeMismatch        = errors.New("nonconformal shapes")
	ErrBadShape             = errors.New("negative dimensions")
	ErrInvalidFormat        = errors.New("invalid distribution format")
	ErrAlignmentConstrained = errors.New("alignment is constrained")
	ErrInvalidAlignment     = errors.New("invalid alignment")
	ErrMisaligned           = errors.New("partial matrix distributions are misaligned")
	ErrLockedView           = errors.New("cannot modify a locked view")
	ErrViewResize           = errors.New("cannot resize a view")
	ErrOutOfRange           = errors.New("index out of range")
)

// preconditionf reports err as a precondition failure of op.
func preconditionf(op string, err error) error {
	return fmt.Errorf("dist.%s: %w: %w", op, err, ErrPrecondition)
}

// typeMismatchf reports a complex-only call of op on real data.
func typeMismatchf(op string) error {
	return fmt.Errorf("dist.%s: %w", op, ErrTypeMismatch)
}

// ConversionError describes an unsupported redistribution.
type ConversionError struct {
	Op       string
	Dst, Src Format
	// Unaligned is set when the pair is supported only between aligned operands.
	Unaligned bool
}

// Error implements error.
func (e *ConversionError) Error() string {
	prefix := ""
	if e.Unaligned {
		prefix = "unaligned "
	}
	return fmt.Sprintf("dist.%s: %s%s = %s not yet implemented", e.Op, prefix, e.Dst, e.Src)
}

// Is makes the error match ErrUnsupportedConversion.
func (e *ConversionError) Is(target error) bool { return target == ErrUnsupportedConversion }
