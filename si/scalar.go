package si

import (
	"math"
	"strconv"

	"github.com/wippyai/sitypes/bridge"
	"github.com/wippyai/sitypes/engine"
	"github.com/wippyai/sitypes/errors"
)

// Scalar is a real or complex value paired with a unit.
//
// A Scalar owns a foreign object. Close releases it; a Scalar dropped without
// Close is released by a runtime cleanup. Arithmetic returns new Scalars and
// never modifies its operands.
type Scalar struct {
	h *bridge.Handle
}

func newScalar(op string, fail bridge.Failure, fn func(*engine.Ref) engine.Ref) (*Scalar, error) {
	h, err := bridge.CallOwned(library(), op, fail, fn)
	if err != nil {
		return nil, err
	}
	return &Scalar{h: h}, nil
}

// ParseScalar parses a quantity such as "9.81 m/s^2".
func ParseScalar(expr string) (*Scalar, error) {
	return newScalar("parse", parseFailure(expr), func(errOut *engine.Ref) engine.Ref {
		return library().ScalarFromExpression(expr, errOut)
	})
}

// MustParseScalar is ParseScalar that panics on error.
func MustParseScalar(expr string) *Scalar {
	s, err := ParseScalar(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// NewScalar creates a real scalar in unit u.
func NewScalar(v float64, u *Unit) (*Scalar, error) {
	if err := validUnits(u); err != nil {
		return nil, err
	}
	h, err := bridge.WrapOwned(library(), library().ScalarCreateWithDouble(v, u.ref()))
	if err != nil {
		return nil, err
	}
	return &Scalar{h: h}, nil
}

// NewComplexScalar creates a complex scalar in unit u.
func NewComplexScalar(v complex128, u *Unit) (*Scalar, error) {
	if err := validUnits(u); err != nil {
		return nil, err
	}
	h, err := bridge.WrapOwned(library(), library().ScalarCreateWithComplex(v, u.ref()))
	if err != nil {
		return nil, err
	}
	return &Scalar{h: h}, nil
}

// ScalarOf creates a real scalar from a value and a unit expression.
func ScalarOf(v float64, unit string) (*Scalar, error) {
	u, err := ParseUnit(unit)
	if err != nil {
		return nil, err
	}
	return NewScalar(v, u)
}

func (s *Scalar) ref() engine.Ref {
	return s.handle().Ref()
}

func (s *Scalar) handle() *bridge.Handle {
	if s == nil {
		return nil
	}
	return s.h
}

func validScalars(ss ...*Scalar) error {
	for _, s := range ss {
		if s.ref() == engine.Null {
			return errors.InvalidHandle("scalar")
		}
	}
	return nil
}

// Close releases the scalar. Calling Close more than once is harmless.
func (s *Scalar) Close() error {
	if s == nil {
		return nil
	}
	return s.h.Close()
}

// Copy returns an independent scalar with the same value and unit.
func (s *Scalar) Copy() (*Scalar, error) {
	if err := validScalars(s); err != nil {
		return nil, err
	}
	h, err := s.h.Copy()
	if err != nil {
		return nil, err
	}
	return &Scalar{h: h}, nil
}

// Value returns the real part of the value.
func (s *Scalar) Value() float64 {
	return bridge.Use(s.handle(), library().ScalarDoubleValue)
}

func (s *Scalar) Complex() complex128 {
	return bridge.Use(s.handle(), library().ScalarComplexValue)
}

// Unit returns the unit of s.
func (s *Scalar) Unit() *Unit {
	u, err := unitFor(bridge.Use(s.handle(), library().ScalarGetUnit))
	if err != nil {
		return &Unit{}
	}
	return u
}

// Dimensionality returns the dimensionality of the unit of s as a borrowed view.
func (s *Scalar) Dimensionality() *Dimensionality {
	return s.Unit().Dimensionality()
}

func (s *Scalar) IsReal() bool     { return bridge.Use(s.handle(), library().ScalarIsReal) }
func (s *Scalar) IsComplex() bool  { return bridge.Use(s.handle(), library().ScalarIsComplex) }
func (s *Scalar) IsZero() bool     { return bridge.Use(s.handle(), library().ScalarIsZero) }
func (s *Scalar) IsInfinite() bool { return bridge.Use(s.handle(), library().ScalarIsInfinite) }
func (s *Scalar) IsNaN() bool      { return bridge.Use(s.handle(), library().ScalarIsNaN) }

// String renders "value unit", or just the value when dimensionless.
func (s *Scalar) String() string {
	if s.ref() == engine.Null {
		return "<closed>"
	}
	return bridge.Use(s.handle(), library().ScalarString)
}

// Format renders s with the given number of significant digits; -1 uses the
// shortest representation that round-trips.
func (s *Scalar) Format(precision int) string {
	if precision < 0 {
		return s.String()
	}
	var v string
	if s.IsComplex() {
		v = strconv.FormatComplex(s.Complex(), 'g', precision, 128)
	} else {
		v = strconv.FormatFloat(s.Value(), 'g', precision, 64)
	}
	if sym := s.Unit().Symbol(); sym != "" {
		return v + " " + sym
	}
	return v
}

func (s *Scalar) binary(op string, o *Scalar, fail bridge.Failure, fn func(a, b engine.Ref, errOut *engine.Ref) engine.Ref) (*Scalar, error) {
	if err := validScalars(s, o); err != nil {
		return nil, err
	}
	return newScalar(op, fail, func(errOut *engine.Ref) engine.Ref {
		return bridge.Use2(s.h, o.h, func(a, b engine.Ref) engine.Ref {
			return fn(a, b, errOut)
		})
	})
}

// Add returns s+o in the unit of s. The operands must have the same reduced
// dimensionality.
func (s *Scalar) Add(o *Scalar) (*Scalar, error) {
	return s.binary("add", o, mismatchFailure("add", s, o), library().ScalarAdd)
}

// Sub returns s-o in the unit of s.
func (s *Scalar) Sub(o *Scalar) (*Scalar, error) {
	return s.binary("subtract", o, mismatchFailure("subtract", s, o), library().ScalarSubtract)
}

// Mul returns s*o with the reduced product unit.
func (s *Scalar) Mul(o *Scalar) (*Scalar, error) {
	return s.binary("multiply", o, algebraFailure("multiply"), library().ScalarMultiply)
}

// Div returns s/o. Division by zero fails with ErrAlgebra.
func (s *Scalar) Div(o *Scalar) (*Scalar, error) {
	return s.binary("divide", o, algebraFailure("divide"), library().ScalarDivide)
}

// PowInt raises s to an integer power.
func (s *Scalar) PowInt(n int) (*Scalar, error) {
	if err := validScalars(s); err != nil {
		return nil, err
	}
	return newScalar("power", algebraFailure("power"), func(errOut *engine.Ref) engine.Ref {
		return bridge.Use(s.h, func(a engine.Ref) engine.Ref {
			return library().ScalarRaiseToPower(a, n, errOut)
		})
	})
}

// Pow raises s to p. Integer exponents are applied directly and exact
// reciprocals of positive integers are taken as roots; any other exponent
// fails with ErrUnsupportedExponent. Integer exponents beyond the int32 range
// overflow the unit powers and fail with ErrAlgebra.
func (s *Scalar) Pow(p float64) (*Scalar, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return nil, errors.UnsupportedExponent(p)
	}
	if p == math.Trunc(p) {
		if math.Abs(p) > math.MaxInt32 {
			return nil, errors.Algebra("power", "exponent "+strconv.FormatFloat(p, 'g', -1, 64)+" overflows the unit powers")
		}
		return s.PowInt(int(p))
	}
	if p > 0 && p < 1 {
		n := math.Round(1 / p)
		if n >= 2 && math.Abs(1/n-p) <= 1e-12*p {
			return s.Root(int(n))
		}
	}
	return nil, errors.UnsupportedExponent(p)
}

// Root takes the nth root of s. The unit must have term powers divisible by n.
func (s *Scalar) Root(n int) (*Scalar, error) {
	if err := validScalars(s); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, errors.Algebra("nth_root", "root "+strconv.Itoa(n)+" must be a positive integer")
	}
	return newScalar("nth_root", algebraFailure("nth_root"), func(errOut *engine.Ref) engine.Ref {
		return bridge.Use(s.h, func(a engine.Ref) engine.Ref {
			return library().ScalarTakeNthRoot(a, n, errOut)
		})
	})
}

func (s *Scalar) unary(op string, fn func(a engine.Ref, errOut *engine.Ref) engine.Ref) (*Scalar, error) {
	if err := validScalars(s); err != nil {
		return nil, err
	}
	return newScalar(op, algebraFailure(op), func(errOut *engine.Ref) engine.Ref {
		return bridge.Use(s.h, func(a engine.Ref) engine.Ref {
			return fn(a, errOut)
		})
	})
}

// Abs returns the magnitude of s in the unit of s.
func (s *Scalar) Abs() (*Scalar, error) {
	return s.unary("magnitude", library().ScalarAbs)
}

// Argument returns the phase angle of s in radians.
func (s *Scalar) Argument() (*Scalar, error) {
	return s.unary("argument", library().ScalarArgument)
}

// Real returns the real part of s in the unit of s.
func (s *Scalar) Real() (*Scalar, error) {
	return s.unary("real", library().ScalarRealPart)
}

// Imag returns the imaginary part of s in the unit of s.
func (s *Scalar) Imag() (*Scalar, error) {
	return s.unary("imag", library().ScalarImaginaryPart)
}

// ConvertTo expresses s in unit u. It fails with ErrIncompatibleUnits when the
// dimensionalities differ.
func (s *Scalar) ConvertTo(u *Unit) (*Scalar, error) {
	if err := validScalars(s); err != nil {
		return nil, err
	}
	if err := validUnits(u); err != nil {
		return nil, err
	}
	return newScalar("convert", convertFailure("convert", s.Unit(), u), func(errOut *engine.Ref) engine.Ref {
		return bridge.Use(s.h, func(a engine.Ref) engine.Ref {
			return library().ScalarConvertToUnit(a, u.ref(), errOut)
		})
	})
}

// ConvertToUnit is ConvertTo with a unit expression.
func (s *Scalar) ConvertToUnit(expr string) (*Scalar, error) {
	u, err := ParseUnit(expr)
	if err != nil {
		return nil, err
	}
	return s.ConvertTo(u)
}

// ToCoherentSI expresses s in the coherent SI unit of its dimensionality.
func (s *Scalar) ToCoherentSI() (*Scalar, error) {
	return s.unary("to_coherent_si", library().ScalarConvertToCoherentSI)
}

// ToBestUnit picks the SI prefix that puts |s| in [1, 1000). Scalars in
// compound or unprefixable units are copied unchanged.
func (s *Scalar) ToBestUnit() (*Scalar, error) {
	return s.unary("best_unit", library().ScalarToBestUnit)
}

// Reduced merges repeated terms in the unit of s.
func (s *Scalar) Reduced() (*Scalar, error) {
	return s.unary("reduce", library().ScalarReduceUnit)
}
