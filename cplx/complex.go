// Package cplx provides the complex value type used by the modal solver.
//
// Values are immutable; every operation returns a new Complex. Division
// reports exact-zero divisors through ErrDivisionByZero instead of producing
// Inf or NaN. Near-singular divisors are the caller's concern.
package cplx

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDivisionByZero is returned when a divisor is exactly zero.
	ErrDivisionByZero = errors.New("cplx: division by zero")

	// ErrUnsupportedOperation is returned for complex exponents.
	ErrUnsupportedOperation = errors.New("cplx: unsupported operation")
)

// SingularEpsilon is the magnitude below which modal-sum callers treat a
// denominator as singular and skip the term.
const SingularEpsilon = 1e-9

// Complex is a complex number with float64 parts.
type Complex struct {
	Re float64
	Im float64
}

// New returns re + im·i.
func New(re, im float64) Complex {
	return Complex{Re: re, Im: im}
}

// Real returns re + 0i.
func Real(re float64) Complex {
	return Complex{Re: re}
}

// One is the multiplicative identity.
func One() Complex {
	return Complex{Re: 1}
}

// I is the imaginary unit.
func I() Complex {
	return Complex{Im: 1}
}

// Add returns a + b.
func (a Complex) Add(b Complex) Complex {
	return Complex{Re: a.Re + b.Re, Im: a.Im + b.Im}
}

// AddReal returns a + r.
func (a Complex) AddReal(r float64) Complex {
	return Complex{Re: a.Re + r, Im: a.Im}
}

// Sub returns a - b.
func (a Complex) Sub(b Complex) Complex {
	return Complex{Re: a.Re - b.Re, Im: a.Im - b.Im}
}

// SubReal returns a - r.
func (a Complex) SubReal(r float64) Complex {
	return Complex{Re: a.Re - r, Im: a.Im}
}

// Mul returns a · b.
func (a Complex) Mul(b Complex) Complex {
	return Complex{
		Re: a.Re*b.Re - a.Im*b.Im,
		Im: a.Re*b.Im + a.Im*b.Re,
	}
}

// Scale returns a · r.
func (a Complex) Scale(r float64) Complex {
	return Complex{Re: a.Re * r, Im: a.Im * r}
}

// Div returns a / b. It fails when |b|² is exactly zero.
func (a Complex) Div(b Complex) (Complex, error) {
	d := b.Re*b.Re + b.Im*b.Im
	if d == 0 {
		return Complex{}, ErrDivisionByZero
	}
	return Complex{
		Re: (a.Re*b.Re + a.Im*b.Im) / d,
		Im: (a.Im*b.Re - a.Re*b.Im) / d,
	}, nil
}

// DivReal returns a / r. It fails when r is exactly zero.
func (a Complex) DivReal(r float64) (Complex, error) {
	if r == 0 {
		return Complex{}, ErrDivisionByZero
	}
	return Complex{Re: a.Re / r, Im: a.Im / r}, nil
}

// Abs returns the magnitude sqrt(re² + im²).
func (a Complex) Abs() float64 {
	return math.Sqrt(a.Re*a.Re + a.Im*a.Im)
}

// Magnitude is an alias for Abs.
func (a Complex) Magnitude() float64 {
	return a.Abs()
}

// AbsSq returns re² + im² without the square root.
func (a Complex) AbsSq() float64 {
	return a.Re*a.Re + a.Im*a.Im
}

// Arg returns the phase angle atan2(im, re).
func (a Complex) Arg() float64 {
	return math.Atan2(a.Im, a.Re)
}

// IsZero reports whether both parts are zero.
func (a Complex) IsZero() bool {
	return a.Re == 0 && a.Im == 0
}

func (a Complex) String() string {
	if a.Im < 0 || (a.Im == 0 && math.Signbit(a.Im)) {
		return fmt.Sprintf("%g-%gi", a.Re, -a.Im)
	}
	return fmt.Sprintf("%g+%gi", a.Re, a.Im)
}

// maxIteratedPow is the largest integer exponent Pow computes by repeated
// multiplication. Larger integer exponents use binary exponentiation.
const maxIteratedPow = 64

// Pow raises base to a real exponent.
//
// e == 2 squares directly. Non-negative integers up to maxIteratedPow use
// repeated multiplication starting from 1+0i, larger ones square and
// multiply. Anything else goes through polar form. A zero base with a
// negative exponent returns +Inf+0i.
func Pow(base Complex, e float64) Complex {
	if e == 2 {
		return base.Mul(base)
	}
	if e >= 0 && e == math.Trunc(e) && e <= math.MaxInt32 {
		n := int(e)
		result := One()
		if n <= maxIteratedPow {
			for i := 0; i < n; i++ {
				result = result.Mul(base)
			}
			return result
		}
		for b := base; n > 0; n >>= 1 {
			if n&1 == 1 {
				result = result.Mul(b)
			}
			b = b.Mul(b)
		}
		return result
	}
	if base.IsZero() && e < 0 {
		return Complex{Re: math.Inf(1)}
	}
	r := math.Pow(base.Abs(), e)
	theta := base.Arg()
	return Complex{Re: r * math.Cos(e*theta), Im: r * math.Sin(e*theta)}
}

// PowComplex raises base to a complex exponent. Only exponents with a zero
// imaginary part are supported; others return ErrUnsupportedOperation.
func PowComplex(base, e Complex) (Complex, error) {
	if e.Im != 0 {
		return Complex{}, fmt.Errorf("complex exponent %v: %w", e, ErrUnsupportedOperation)
	}
	return Pow(base, e.Re), nil
}
