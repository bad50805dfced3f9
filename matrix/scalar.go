// SPDX-License-Identifier: MIT

package matrix

import "math/cmplx"

// IsComplex reports whether T is a complex type.
func IsComplex[T Scalar]() bool {
	var z T
	switch any(z).(type) {
	case complex64, complex128:
		return true
	default:
		return false
	}
}

// Conj returns the complex conjugate of x (x itself for real types).
func Conj[T Scalar](x T) T {
	switch v := any(x).(type) {
	case complex128:
		return any(cmplx.Conj(v)).(T)
	case complex64:
		return any(complex64(cmplx.Conj(complex128(v)))).(T)
	default:
		return x
	}
}

// RealPart returns the real part of x as float64.
func RealPart[T Scalar](x T) float64 {
	switch v := any(x).(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case complex64:
		return float64(real(v))
	case complex128:
		return real(v)
	}
	return 0
}

// ImagPart returns the imaginary part of x (0 for real types).
func ImagPart[T Scalar](x T) float64 {
	switch v := any(x).(type) {
	case complex64:
		return float64(imag(v))
	case complex128:
		return imag(v)
	}
	return 0
}

// FromParts builds a T from real and imaginary parts. The imaginary part is
// dropped for real types.
func FromParts[T Scalar](re, im float64) T {
	var z T
	switch any(z).(type) {
	case float32:
		return any(float32(re)).(T)
	case float64:
		return any(re).(T)
	case complex64:
		return any(complex64(complex(re, im))).(T)
	default:
		return any(complex(re, im)).(T)
	}
}

// Abs returns |x|.
func Abs[T Scalar](x T) float64 {
	switch v := any(x).(type) {
	case complex64:
		return cmplx.Abs(complex128(v))
	case complex128:
		return cmplx.Abs(v)
	}
	r := RealPart(x)
	if r < 0 {
		return -r
	}
	return r
}
