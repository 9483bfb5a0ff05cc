package si

import (
	"github.com/wippyai/sitypes"
	"github.com/wippyai/sitypes/bridge"
	"github.com/wippyai/sitypes/engine"
	"github.com/wippyai/sitypes/errors"
)

// Dimensionality is a product of the seven SI base dimensions, each raised to a
// rational exponent. Numerator and denominator exponents are kept apart until
// the dimensionality is reduced, so L/L is compatible with but not equal to 1.
type Dimensionality struct {
	h *bridge.Handle
}

func newDimensionality(op string, fail bridge.Failure, fn func(*engine.Ref) engine.Ref) (*Dimensionality, error) {
	h, err := bridge.CallOwned(library(), op, fail, fn)
	if err != nil {
		return nil, err
	}
	return &Dimensionality{h: h}, nil
}

// ParseDimensionality parses an expression such as "L^2•M/T^2".
func ParseDimensionality(expr string) (*Dimensionality, error) {
	return newDimensionality("parse", parseFailure(expr), func(errOut *engine.Ref) engine.Ref {
		return library().DimensionalityParseExpression(expr, errOut)
	})
}

// DimensionalityForQuantity returns the dimensionality of a named quantity
// such as "force" or "luminous flux".
func DimensionalityForQuantity(quantity string) (*Dimensionality, error) {
	return newDimensionality("for_quantity", parseFailure(quantity), func(errOut *engine.Ref) engine.Ref {
		return library().DimensionalityForQuantity(quantity, errOut)
	})
}

// Quantities lists the names accepted by DimensionalityForQuantity.
func Quantities() []string {
	return engine.Quantities()
}

// Dimensionless returns the dimensionality "1".
func Dimensionless() *Dimensionality {
	h, _ := bridge.WrapOwned(library(), library().DimensionalityDimensionless())
	return &Dimensionality{h: h}
}

func (d *Dimensionality) ref() engine.Ref {
	return d.handle().Ref()
}

func (d *Dimensionality) handle() *bridge.Handle {
	if d == nil {
		return nil
	}
	return d.h
}

func validDimensionalities(ds ...*Dimensionality) error {
	for _, d := range ds {
		if d.ref() == engine.Null {
			return errors.InvalidHandle("dimensionality")
		}
	}
	return nil
}

func (d *Dimensionality) binary(op string, o *Dimensionality, fn func(a, b engine.Ref, errOut *engine.Ref) engine.Ref) (*Dimensionality, error) {
	if err := validDimensionalities(d, o); err != nil {
		return nil, err
	}
	return newDimensionality(op, algebraFailure(op), func(errOut *engine.Ref) engine.Ref {
		return bridge.Use2(d.h, o.h, func(a, b engine.Ref) engine.Ref {
			return fn(a, b, errOut)
		})
	})
}

// Mul returns the reduced product d*o.
func (d *Dimensionality) Mul(o *Dimensionality) (*Dimensionality, error) {
	return d.binary("multiply", o, library().DimensionalityByMultiplying)
}

// MulWithoutReducing returns d*o keeping numerator and denominator exponents apart.
func (d *Dimensionality) MulWithoutReducing(o *Dimensionality) (*Dimensionality, error) {
	return d.binary("multiply", o, library().DimensionalityByMultiplyingWithoutReducing)
}

// Div returns the reduced quotient d/o.
func (d *Dimensionality) Div(o *Dimensionality) (*Dimensionality, error) {
	return d.binary("divide", o, library().DimensionalityByDividing)
}

func (d *Dimensionality) DivWithoutReducing(o *Dimensionality) (*Dimensionality, error) {
	return d.binary("divide", o, library().DimensionalityByDividingWithoutReducing)
}

// Pow raises d to a rational power. Every resulting exponent must be an integer.
func (d *Dimensionality) Pow(p sitypes.Rational) (*Dimensionality, error) {
	if err := validDimensionalities(d); err != nil {
		return nil, err
	}
	return newDimensionality("power", algebraFailure("power"), func(errOut *engine.Ref) engine.Ref {
		return bridge.Use(d.h, func(a engine.Ref) engine.Ref {
			return library().DimensionalityByRaisingToPower(a, p, errOut)
		})
	})
}

// PowWithoutReducing is Pow keeping numerator and denominator exponents apart.
func (d *Dimensionality) PowWithoutReducing(p sitypes.Rational) (*Dimensionality, error) {
	if err := validDimensionalities(d); err != nil {
		return nil, err
	}
	return newDimensionality("power", algebraFailure("power"), func(errOut *engine.Ref) engine.Ref {
		return bridge.Use(d.h, func(a engine.Ref) engine.Ref {
			return library().DimensionalityByRaisingToPowerWithoutReducing(a, p, errOut)
		})
	})
}

// Root takes the nth root of d. n must be positive and divide every exponent.
func (d *Dimensionality) Root(n int) (*Dimensionality, error) {
	if err := validDimensionalities(d); err != nil {
		return nil, err
	}
	return newDimensionality("nth_root", algebraFailure("nth_root"), func(errOut *engine.Ref) engine.Ref {
		return bridge.Use(d.h, func(a engine.Ref) engine.Ref {
			return library().DimensionalityByTakingNthRoot(a, n, errOut)
		})
	})
}

// Reduced cancels numerator against denominator exponents.
func (d *Dimensionality) Reduced() (*Dimensionality, error) {
	if err := validDimensionalities(d); err != nil {
		return nil, err
	}
	h, err := bridge.WrapOwned(library(), bridge.Use(d.h, library().DimensionalityByReducing))
	if err != nil {
		return nil, err
	}
	return &Dimensionality{h: h}, nil
}

// Symbol returns the canonical symbol, "1" when dimensionless.
func (d *Dimensionality) Symbol() string {
	return bridge.Use(d.handle(), library().DimensionalityGetSymbol)
}

func (d *Dimensionality) String() string {
	return d.Symbol()
}

// Equal reports whether d and o have identical unreduced exponents.
func (d *Dimensionality) Equal(o *Dimensionality) bool {
	return bridge.Use2(d.handle(), o.handle(), library().DimensionalityEqual)
}

// CompatibleWith reports whether d and o agree after reduction.
func (d *Dimensionality) CompatibleWith(o *Dimensionality) bool {
	return bridge.Use2(d.handle(), o.handle(), library().DimensionalityHasSameReducedDimensionality)
}

// Exponent returns the reduced exponent of base.
func (d *Dimensionality) Exponent(base sitypes.Base) sitypes.Rational {
	return bridge.Use(d.handle(), func(a engine.Ref) sitypes.Rational {
		return library().DimensionalityReducedExponentAtIndex(a, base)
	})
}

// NumeratorExponent returns the unreduced numerator exponent of base.
func (d *Dimensionality) NumeratorExponent(base sitypes.Base) sitypes.Rational {
	return bridge.Use(d.handle(), func(a engine.Ref) sitypes.Rational {
		return library().DimensionalityNumeratorExponentAtIndex(a, base)
	})
}

// DenominatorExponent returns the unreduced denominator exponent of base.
func (d *Dimensionality) DenominatorExponent(base sitypes.Base) sitypes.Rational {
	return bridge.Use(d.handle(), func(a engine.Ref) sitypes.Rational {
		return library().DimensionalityDenominatorExponentAtIndex(a, base)
	})
}

func (d *Dimensionality) Length() sitypes.Rational { return d.Exponent(sitypes.Length) }
func (d *Dimensionality) Mass() sitypes.Rational   { return d.Exponent(sitypes.Mass) }
func (d *Dimensionality) Time() sitypes.Rational   { return d.Exponent(sitypes.Time) }
func (d *Dimensionality) Current() sitypes.Rational {
	return d.Exponent(sitypes.Current)
}
func (d *Dimensionality) Temperature() sitypes.Rational {
	return d.Exponent(sitypes.Temperature)
}
func (d *Dimensionality) Amount() sitypes.Rational { return d.Exponent(sitypes.Amount) }
func (d *Dimensionality) LuminousIntensity() sitypes.Rational {
	return d.Exponent(sitypes.LuminousIntensity)
}

func (d *Dimensionality) IsDimensionless() bool {
	return bridge.Use(d.handle(), library().DimensionalityIsDimensionless)
}

// IsBase reports whether d is a single base dimension such as M.
func (d *Dimensionality) IsBase() bool {
	return bridge.Use(d.handle(), library().DimensionalityIsBase)
}

func (d *Dimensionality) IsDerived() bool {
	return bridge.Use(d.handle(), library().DimensionalityIsDerived)
}

// Close releases the dimensionality. Dimensionalities borrowed from a unit
// are only invalidated.
func (d *Dimensionality) Close() error {
	if d == nil {
		return nil
	}
	return d.h.Close()
}
