package blas3

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvdist/dist"
)

var (
	// ErrUnsupportedVariant is returned by Trmm for side/uplo/orientation
	// combinations that are not implemented.
	ErrUnsupportedVariant = errors.New("blas3: unsupported Trmm variant")

	// ErrNormalOrientation is returned when the right-lower multiply is asked
	// for op = Normal.
	ErrNormalOrientation = errors.New("blas3: expects an Adjoint/Transpose option")

	// ErrNonconformal is returned when operand shapes do not fit together.
	ErrNonconformal = errors.New("blas3: nonconformal operands")

	// ErrFormat is returned when an operand is not in the format a routine
	// requires.
	ErrFormat = errors.New("blas3: operand in wrong distribution format")
)

// preconditionf reports err as a precondition failure of op. The result
// also matches dist.ErrPrecondition.
func preconditionf(op string, err error) error {
	return fmt.Errorf("blas3.%s: %w: %w", op, err, dist.ErrPrecondition)
}
