package sitypes

import (
	"fmt"
	"strconv"
)

// Base identifies one of the seven SI base dimensions.
type Base int

const (
	Length Base = iota
	Mass
	Time
	Current
	Temperature
	Amount
	LuminousIntensity
)

// BaseCount is the number of SI base dimensions.
const BaseCount = 7

var baseSymbols = [BaseCount]string{"L", "M", "T", "I", "ϴ", "N", "J"}

var baseNames = [BaseCount]string{
	"length", "mass", "time", "current", "temperature", "amount", "luminous intensity",
}

// Symbol returns the dimension symbol (L, M, T, I, ϴ, N, J).
func (b Base) Symbol() string {
	if b < 0 || b >= BaseCount {
		return "?"
	}
	return baseSymbols[b]
}

func (b Base) String() string {
	if b < 0 || b >= BaseCount {
		return "unknown"
	}
	return baseNames[b]
}

// Bases lists the base dimensions in canonical order.
func Bases() [BaseCount]Base {
	return [BaseCount]Base{Length, Mass, Time, Current, Temperature, Amount, LuminousIntensity}
}

// Rational is an exponent kept in lowest terms with a positive denominator.
// The zero value is 0.
type Rational struct {
	num int
	den int
}

// NewRational returns num/den in lowest terms. It panics if den is zero.
func NewRational(num, den int) Rational {
	if den == 0 {
		panic("sitypes: zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	if g > 1 {
		num /= g
		den /= g
	}
	return Rational{num: num, den: den}
}

// Int returns the rational n/1.
func Int(n int) Rational {
	return Rational{num: n, den: 1}
}

// Num returns the numerator.
func (r Rational) Num() int { return r.num }

// Den returns the denominator, which is 1 for the zero value.
func (r Rational) Den() int {
	if r.den == 0 {
		return 1
	}
	return r.den
}

func (r Rational) norm() Rational {
	if r.den == 0 {
		return Rational{num: 0, den: 1}
	}
	return r
}

func (r Rational) Add(o Rational) Rational {
	r, o = r.norm(), o.norm()
	return NewRational(r.num*o.den+o.num*r.den, r.den*o.den)
}

func (r Rational) Sub(o Rational) Rational {
	return r.Add(o.Neg())
}

func (r Rational) Mul(o Rational) Rational {
	r, o = r.norm(), o.norm()
	return NewRational(r.num*o.num, r.den*o.den)
}

// Div panics on division by zero.
func (r Rational) Div(o Rational) Rational {
	r, o = r.norm(), o.norm()
	return NewRational(r.num*o.den, r.den*o.num)
}

func (r Rational) Neg() Rational {
	r = r.norm()
	return Rational{num: -r.num, den: r.den}
}

func (r Rational) Abs() Rational {
	if r.num < 0 {
		return r.Neg()
	}
	return r.norm()
}

func (r Rational) Sign() int {
	switch {
	case r.num > 0:
		return 1
	case r.num < 0:
		return -1
	}
	return 0
}

func (r Rational) IsZero() bool { return r.num == 0 }

// IsInteger reports whether the denominator is 1.
func (r Rational) IsInteger() bool { return r.Den() == 1 }

// Float returns the value as a float64.
func (r Rational) Float() float64 {
	return float64(r.num) / float64(r.Den())
}

// Equal compares values, treating the zero value as 0/1.
func (r Rational) Equal(o Rational) bool {
	r, o = r.norm(), o.norm()
	return r.num == o.num && r.den == o.den
}

func (r Rational) String() string {
	r = r.norm()
	if r.den == 1 {
		return strconv.Itoa(r.num)
	}
	return fmt.Sprintf("%d/%d", r.num, r.den)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
