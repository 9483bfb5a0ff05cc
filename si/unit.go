package si

import (
	"fmt"

	"github.com/wippyai/sitypes"
	"github.com/wippyai/sitypes/bridge"
	"github.com/wippyai/sitypes/engine"
	"github.com/wippyai/sitypes/errors"
)

// Unit is an interned unit of measure. Equal units are the same *Unit, so
// units compare with ==. Units live for the life of the process and need no
// Close.
type Unit struct {
	h *bridge.Handle
}

// Unit references are immortal, so engine calls on them need no bridge.Use.
func (u *Unit) ref() engine.Ref {
	if u == nil {
		return engine.Null
	}
	return u.h.Ref()
}

func validUnits(us ...*Unit) error {
	for _, u := range us {
		if u.ref() == engine.Null {
			return errors.InvalidHandle("unit")
		}
	}
	return nil
}

func callUnit(op string, fail bridge.Failure, fn func(*engine.Ref) engine.Ref) (*Unit, error) {
	r, err := bridge.Call(library(), op, fail, fn)
	if err != nil {
		return nil, err
	}
	return unitFor(r)
}

// ParseUnit parses a unit expression such as "kg•m/s^2" or "µs". Expressions
// carrying a numeric factor, like "1000 m", fail with ErrUnexpectedMultiplier.
// A blank expression is the dimensionless unit, whose symbol is "".
func ParseUnit(expr string) (*Unit, error) {
	u, mult, err := ParseUnitWithMultiplier(expr)
	if err != nil {
		return nil, err
	}
	if mult != 1 {
		return nil, errors.UnexpectedMultiplier(expr, mult)
	}
	return u, nil
}

// ParseUnitWithMultiplier parses a unit expression and returns its numeric
// factor separately: "1000 m" yields m and 1000.
func ParseUnitWithMultiplier(expr string) (*Unit, float64, error) {
	var mult float64
	u, err := callUnit("parse", parseFailure(expr), func(errOut *engine.Ref) engine.Ref {
		return library().UnitFromExpression(expr, &mult, errOut)
	})
	if err != nil {
		return nil, 0, err
	}
	return u, mult, nil
}

// MustParseUnit is ParseUnit that panics on error.
func MustParseUnit(expr string) *Unit {
	u, err := ParseUnit(expr)
	if err != nil {
		panic(err)
	}
	return u
}

// UnitNamed looks up a unit by name or plural name, such as "kilometers".
func UnitNamed(name string) (*Unit, error) {
	r := library().UnitFindWithName(name)
	if r == engine.Null {
		return nil, errors.Parse(name, "unknown unit name")
	}
	return unitFor(r)
}

// DimensionlessUnit returns the unit of pure numbers. Its symbol is empty.
func DimensionlessUnit() *Unit {
	u, _ := unitFor(library().UnitDimensionless())
	return u
}

// CoherentUnitFor returns the coherent SI unit of a dimensionality.
func CoherentUnitFor(d *Dimensionality) (*Unit, error) {
	if err := validDimensionalities(d); err != nil {
		return nil, err
	}
	return callUnit("coherent_unit", algebraFailure("coherent_unit"), func(errOut *engine.Ref) engine.Ref {
		return bridge.Use(d.h, func(a engine.Ref) engine.Ref {
			return library().UnitCoherentSIForDimensionality(a, errOut)
		})
	})
}

func (u *Unit) binary(op string, o *Unit, fn func(a, b engine.Ref, errOut *engine.Ref) engine.Ref) (*Unit, error) {
	if err := validUnits(u, o); err != nil {
		return nil, err
	}
	return callUnit(op, algebraFailure(op), func(errOut *engine.Ref) engine.Ref {
		return fn(u.ref(), o.ref(), errOut)
	})
}

// Mul returns the reduced product u*o.
func (u *Unit) Mul(o *Unit) (*Unit, error) {
	return u.binary("multiply", o, library().UnitByMultiplying)
}

// MulWithoutReducing returns u*o keeping every term, so m*m stays m•m.
func (u *Unit) MulWithoutReducing(o *Unit) (*Unit, error) {
	return u.binary("multiply", o, library().UnitByMultiplyingWithoutReducing)
}

func (u *Unit) Div(o *Unit) (*Unit, error) {
	return u.binary("divide", o, library().UnitByDividing)
}

func (u *Unit) DivWithoutReducing(o *Unit) (*Unit, error) {
	return u.binary("divide", o, library().UnitByDividingWithoutReducing)
}

// Pow raises u to a rational power. Every term power of the result must be an integer.
func (u *Unit) Pow(p sitypes.Rational) (*Unit, error) {
	if err := validUnits(u); err != nil {
		return nil, err
	}
	return callUnit("power", algebraFailure("power"), func(errOut *engine.Ref) engine.Ref {
		return library().UnitByRaisingToPower(u.ref(), p, errOut)
	})
}

func (u *Unit) PowWithoutReducing(p sitypes.Rational) (*Unit, error) {
	if err := validUnits(u); err != nil {
		return nil, err
	}
	return callUnit("power", algebraFailure("power"), func(errOut *engine.Ref) engine.Ref {
		return library().UnitByRaisingToPowerWithoutReducing(u.ref(), p, errOut)
	})
}

// Root takes the nth root of u.
func (u *Unit) Root(n int) (*Unit, error) {
	if err := validUnits(u); err != nil {
		return nil, err
	}
	return callUnit("nth_root", algebraFailure("nth_root"), func(errOut *engine.Ref) engine.Ref {
		return library().UnitByTakingNthRoot(u.ref(), n, errOut)
	})
}

// Reduced merges repeated terms: m•m/m becomes m.
func (u *Unit) Reduced() (*Unit, error) {
	if err := validUnits(u); err != nil {
		return nil, err
	}
	return unitFor(library().UnitByReducing(u.ref()))
}

// ToCoherentSI returns the coherent SI unit with the same dimensionality.
func (u *Unit) ToCoherentSI() (*Unit, error) {
	if err := validUnits(u); err != nil {
		return nil, err
	}
	return unitFor(library().UnitToCoherentSI(u.ref()))
}

// Dimensionality returns the dimensionality of u as a borrowed view.
func (u *Unit) Dimensionality() *Dimensionality {
	h, err := bridge.WrapBorrowed(library(), library().UnitGetDimensionality(u.ref()), u)
	if err != nil {
		return &Dimensionality{}
	}
	return &Dimensionality{h: h}
}

// ScaleToCoherentSI returns the factor converting values in u to its coherent SI unit.
func (u *Unit) ScaleToCoherentSI() float64 {
	return library().UnitScaleToCoherentSI(u.ref())
}

// ConversionFactor returns the factor converting values in u into o.
// It fails with ErrIncompatibleUnits when the dimensionalities differ.
func (u *Unit) ConversionFactor(o *Unit) (float64, error) {
	if err := validUnits(u, o); err != nil {
		return 0, err
	}
	var factor float64
	err := bridge.Check(library(), "convert", convertFailure("convert", u, o), func(errOut *engine.Ref) bool {
		return library().UnitConversion(u.ref(), o.ref(), &factor, errOut)
	})
	if err != nil {
		return 0, err
	}
	return factor, nil
}

// IsEquivalent reports whether u and o convert one to one, such as mL and cm^3.
func (u *Unit) IsEquivalent(o *Unit) bool {
	return library().UnitEquivalent(u.ref(), o.ref())
}

// CompatibleWith reports whether u and o have the same reduced dimensionality.
func (u *Unit) CompatibleWith(o *Unit) bool {
	return library().UnitHasSameReducedDimensionality(u.ref(), o.ref())
}

// DimensionallyEqual reports whether u and o have the same unreduced dimensionality.
func (u *Unit) DimensionallyEqual(o *Unit) bool {
	return library().UnitHasSameDimensionality(u.ref(), o.ref())
}

// Symbol returns the canonical symbol. The dimensionless unit has an empty symbol.
func (u *Unit) Symbol() string {
	return library().UnitSymbol(u.ref())
}

func (u *Unit) Name() string {
	return library().UnitName(u.ref())
}

func (u *Unit) PluralName() string {
	return library().UnitPluralName(u.ref())
}

// RootSymbol returns the unprefixed symbol of a single-term unit, "" otherwise.
func (u *Unit) RootSymbol() string {
	return library().UnitRootSymbol(u.ref())
}

// NumeratorPrefix returns the SI prefix exponent on the numerator unit of base.
func (u *Unit) NumeratorPrefix(base sitypes.Base) int {
	return library().UnitNumeratorPrefixAtIndex(u.ref(), base)
}

func (u *Unit) DenominatorPrefix(base sitypes.Base) int {
	return library().UnitDenominatorPrefixAtIndex(u.ref(), base)
}

func (u *Unit) IsSIBase() bool {
	return library().UnitIsSIBaseUnit(u.ref())
}

func (u *Unit) IsCoherentSI() bool {
	return library().UnitIsCoherentSI(u.ref())
}

func (u *Unit) IsDerived() bool {
	return library().UnitIsDerived(u.ref())
}

func (u *Unit) IsDimensionless() bool {
	return library().UnitIsDimensionless(u.ref())
}

func (u *Unit) String() string {
	return u.Symbol()
}

// GoString makes units readable in test failures.
func (u *Unit) GoString() string {
	return fmt.Sprintf("si.Unit(%q)", u.Symbol())
}
