package cplx

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-12

func near(a, b Complex, eps float64) bool {
	return math.Abs(a.Re-b.Re) <= eps && math.Abs(a.Im-b.Im) <= eps
}

func TestArithmetic(t *testing.T) {
	a := New(3, -2)
	b := New(-1.5, 4)

	tests := []struct {
		name string
		got  Complex
		want Complex
	}{
		{"add", a.Add(b), New(1.5, 2)},
		{"sub", a.Sub(b), New(4.5, -6)},
		{"mul", a.Mul(b), New(3*-1.5-(-2*4), 3*4+(-2*-1.5))},
		{"add real", a.AddReal(2), New(5, -2)},
		{"sub real", a.SubReal(2), New(1, -2)},
		{"scale", a.Scale(-0.5), New(-1.5, 1)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestDivRoundTrip(t *testing.T) {
	values := []Complex{
		New(1, 0), New(0, 1), New(-3.25, 7.5), New(1e-3, -2e3), New(123.456, 0.001),
	}
	for _, a := range values {
		for _, b := range values {
			q, err := a.Div(b)
			if err != nil {
				t.Fatalf("%v / %v: unexpected error %v", a, b, err)
			}
			back := q.Mul(b)
			eps := 1e-9 * math.Max(1, a.Abs())
			if !near(back, a, eps) {
				t.Errorf("(%v / %v) * %v = %v, want %v", a, b, b, back, a)
			}
		}
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := New(1, 1).Div(Complex{}); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
	if _, err := New(1, 1).DivReal(0); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("expected ErrDivisionByZero from DivReal, got %v", err)
	}

	// Tiny but nonzero divisors are not an error at this level.
	if _, err := New(1, 1).Div(New(1e-12, 0)); err != nil {
		t.Errorf("unexpected error for tiny divisor: %v", err)
	}
}

func TestDivReal(t *testing.T) {
	got, err := New(3, -6).DivReal(3)
	if err != nil {
		t.Fatal(err)
	}
	if got != New(1, -2) {
		t.Errorf("got %v, want 1-2i", got)
	}
}

func TestAbs(t *testing.T) {
	if got := New(3, 4).Abs(); got != 5 {
		t.Errorf("|3+4i| = %v, want 5", got)
	}
	if got := New(-3, -4).Magnitude(); got != 5 {
		t.Errorf("|-3-4i| = %v, want 5", got)
	}
	if got := New(3, 4).AbsSq(); got != 25 {
		t.Errorf("|3+4i|² = %v, want 25", got)
	}
	if got := (Complex{}).Abs(); got != 0 {
		t.Errorf("|0| = %v, want 0", got)
	}
}

func TestPowZeroIsIdentity(t *testing.T) {
	for _, a := range []Complex{{}, New(2, 3), New(-1e6, 0.5)} {
		if got := Pow(a, 0); got != One() {
			t.Errorf("Pow(%v, 0) = %v, want 1+0i", a, got)
		}
	}
}

func TestPowSquareMatchesMul(t *testing.T) {
	for _, a := range []Complex{New(2, 3), New(-0.25, 7), New(5, 0)} {
		if got, want := Pow(a, 2), a.Mul(a); got != want {
			t.Errorf("Pow(%v, 2) = %v, want %v", a, got, want)
		}
	}
}

func TestPowInteger(t *testing.T) {
	a := New(1, 1)
	// (1+i)^4 = -4
	if got := Pow(a, 4); !near(got, New(-4, 0), tol) {
		t.Errorf("(1+i)^4 = %v, want -4", got)
	}
	if got := Pow(a, 1); got != a {
		t.Errorf("(1+i)^1 = %v, want %v", got, a)
	}
}

func TestPowLargeInteger(t *testing.T) {
	// i^(4n) is 1 for any n; 1e9 would take a billion multiplications
	// if iterated.
	if got := Pow(I(), 1e9); !near(got, One(), 1e-12) {
		t.Errorf("Pow(i, 1e9) = %v, want 1+0i", got)
	}
	if got := Pow(Real(2), 100); !near(got, Real(math.Pow(2, 100)), 1e-12*math.Pow(2, 100)) {
		t.Errorf("Pow(2, 100) = %v", got)
	}
	if got := Pow(New(0, 2), 65); !near(got, New(0, math.Pow(2, 65)), 1e-12*math.Pow(2, 65)) {
		t.Errorf("Pow(2i, 65) = %v, want %gi", got, math.Pow(2, 65))
	}
}

func TestPowZeroBaseNegativeExponent(t *testing.T) {
	for _, e := range []float64{-1, -2.5} {
		got := Pow(Complex{}, e)
		if !math.IsInf(got.Re, 1) || got.Im != 0 {
			t.Errorf("Pow(0, %v) = %v, want +Inf+0i", e, got)
		}
	}
}

func TestPowReal(t *testing.T) {
	// sqrt(i) = (1+i)/sqrt(2)
	got := Pow(I(), 0.5)
	want := New(math.Sqrt2/2, math.Sqrt2/2)
	if !near(got, want, tol) {
		t.Errorf("i^0.5 = %v, want %v", got, want)
	}

	// 4^1.5 = 8
	if got := Pow(Real(4), 1.5); !near(got, Real(8), 1e-12) {
		t.Errorf("4^1.5 = %v, want 8", got)
	}
}

func TestPowComplex(t *testing.T) {
	if _, err := PowComplex(New(1, 1), New(2, 1)); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("expected ErrUnsupportedOperation, got %v", err)
	}

	got, err := PowComplex(New(1, 2), Real(2))
	if err != nil {
		t.Fatal(err)
	}
	if want := New(1, 2).Mul(New(1, 2)); got != want {
		t.Errorf("PowComplex real exponent = %v, want %v", got, want)
	}
}

func TestString(t *testing.T) {
	if got := New(1, -2).String(); got != "1-2i" {
		t.Errorf("got %q", got)
	}
	if got := New(1.5, 2).String(); got != "1.5+2i" {
		t.Errorf("got %q", got)
	}
}
