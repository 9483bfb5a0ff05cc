package si

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/sitypes"
	"github.com/wippyai/sitypes/errors"
)

func TestParseUnit_Identity(t *testing.T) {
	for _, expr := range []string{"m", "kg*m/s^2", "µs", "mol/L", "1/m", "N•m", "km/h", "1", "m/m", "m•s/s"} {
		u, err := ParseUnit(expr)
		require.NoError(t, err, expr)

		again, err := ParseUnit(u.Symbol())
		require.NoError(t, err, u.Symbol())
		assert.Same(t, u, again, "%s round trip through %q", expr, u.Symbol())
	}

	a := MustParseUnit("m/s")
	b := MustParseUnit("m*s^-1")
	assert.True(t, a == b)
}

func TestParseUnit_Errors(t *testing.T) {
	_, err := ParseUnit("furlong")
	assert.True(t, errors.Is(err, errors.ErrParse), "got %v", err)

	_, err = ParseUnit("1000 m")
	assert.True(t, errors.Is(err, errors.ErrUnexpectedMultiplier), "got %v", err)

	u, mult, err := ParseUnitWithMultiplier("1000 m")
	require.NoError(t, err)
	assert.Equal(t, "m", u.Symbol())
	assert.Equal(t, 1000.0, mult)

	assert.Panics(t, func() { MustParseUnit("m + s") })
}

func TestUnit_FootIsNeverAPrefixedTonne(t *testing.T) {
	_, err := UnitNamed("femtotonne")
	assert.True(t, errors.Is(err, errors.ErrParse), "got %v", err)

	tiny := MustParseScalar("0.000000000000001 t")
	defer tiny.Close()
	best, err := tiny.ToBestUnit()
	require.NoError(t, err)
	defer best.Close()
	assert.Equal(t, "at", best.Unit().Symbol())

	ft := MustParseUnit("ft")
	assert.Equal(t, "foot", ft.Name())
	assert.NotSame(t, ft, best.Unit())

	feet := MustParseScalar("3 ft")
	defer feet.Close()
	m, err := feet.ConvertToUnit("m")
	require.NoError(t, err)
	defer m.Close()
	assert.InDelta(t, 0.9144, m.Value(), 1e-12)
}

func TestUnit_Names(t *testing.T) {
	km := MustParseUnit("km")
	assert.Equal(t, "kilometer", km.Name())
	assert.Equal(t, "kilometers", km.PluralName())
	assert.Equal(t, "m", km.RootSymbol())
	assert.Equal(t, 3, km.NumeratorPrefix(sitypes.Length))

	named, err := UnitNamed("kilometers")
	require.NoError(t, err)
	assert.Same(t, km, named)

	_, err = UnitNamed("parsec")
	assert.True(t, errors.Is(err, errors.ErrParse))

	perMs := MustParseUnit("m/ms")
	assert.Equal(t, -3, perMs.DenominatorPrefix(sitypes.Time))
}

func TestUnit_Algebra(t *testing.T) {
	m := MustParseUnit("m")
	s := MustParseUnit("s")

	v, err := m.Div(s)
	require.NoError(t, err)
	assert.Same(t, MustParseUnit("m/s"), v)

	mm, err := m.MulWithoutReducing(m)
	require.NoError(t, err)
	assert.Equal(t, "m•m", mm.Symbol())

	sq, err := m.Mul(m)
	require.NoError(t, err)
	assert.Equal(t, "m^2", sq.Symbol())

	red, err := mm.Reduced()
	require.NoError(t, err)
	assert.Same(t, sq, red)

	ratio, err := m.DivWithoutReducing(m)
	require.NoError(t, err)
	assert.Equal(t, "m/m", ratio.Symbol())
	assert.True(t, ratio.IsDimensionless())

	p, err := mm.PowWithoutReducing(sitypes.Int(2))
	require.NoError(t, err)
	assert.Equal(t, "m^2•m^2", p.Symbol())

	inv, err := s.Pow(sitypes.Int(-1))
	require.NoError(t, err)
	assert.Equal(t, "(1/s)", inv.Symbol())

	root, err := sq.Root(2)
	require.NoError(t, err)
	assert.Same(t, m, root)

	_, err = m.Pow(sitypes.NewRational(1, 2))
	assert.True(t, errors.Is(err, errors.ErrAlgebra))
}

func TestUnit_ConversionFactor(t *testing.T) {
	f, err := MustParseUnit("m").ConversionFactor(MustParseUnit("km"))
	require.NoError(t, err)
	assert.Equal(t, 0.001, f)

	f, err = MustParseUnit("km/h").ConversionFactor(MustParseUnit("m/s"))
	require.NoError(t, err)
	assert.InDelta(t, 1/3.6, f, 1e-15)

	_, err = MustParseUnit("m").ConversionFactor(MustParseUnit("s"))
	assert.True(t, errors.Is(err, errors.ErrIncompatibleUnits), "got %v", err)
	assert.Contains(t, err.Error(), "dimensionalities L and T differ")
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, []string{"m", "s"}, e.Operands)
	assert.Equal(t, "convert", e.Op)

	assert.InDelta(t, 1000.0/3600, MustParseUnit("km/h").ScaleToCoherentSI(), 1e-15)
}

func TestUnit_Equivalence(t *testing.T) {
	ml := MustParseUnit("mL")
	assert.True(t, ml.IsEquivalent(MustParseUnit("cm^3")))
	assert.False(t, ml.IsEquivalent(MustParseUnit("L")))
	assert.True(t, ml.CompatibleWith(MustParseUnit("L")))

	rad := MustParseUnit("rad")
	one := DimensionlessUnit()
	assert.Equal(t, "", one.Symbol())
	assert.True(t, rad.CompatibleWith(one))
	assert.False(t, rad.DimensionallyEqual(one))
}

func TestUnit_CoherentSI(t *testing.T) {
	tests := map[string]string{
		"km/h":     "m/s",
		"N*m":      "J",
		"kg*m/s^2": "N",
		"g":        "kg",
		"deg":      "rad",
	}
	for expr, want := range tests {
		si, err := MustParseUnit(expr).ToCoherentSI()
		require.NoError(t, err)
		assert.Equal(t, want, si.Symbol(), expr)
	}

	d, err := ParseDimensionality("L^2*M/T^2")
	require.NoError(t, err)
	defer d.Close()
	j, err := CoherentUnitFor(d)
	require.NoError(t, err)
	assert.Same(t, MustParseUnit("J"), j)
}

func TestUnit_Classification(t *testing.T) {
	assert.True(t, MustParseUnit("kg").IsSIBase())
	assert.False(t, MustParseUnit("g").IsSIBase())
	assert.True(t, MustParseUnit("N").IsCoherentSI())
	assert.False(t, MustParseUnit("km").IsCoherentSI())
	assert.True(t, MustParseUnit("N").IsDerived())
	assert.False(t, MustParseUnit("m").IsDerived())
}

func TestUnit_DimensionalityIsBorrowed(t *testing.T) {
	before := Live()
	d := MustParseUnit("N").Dimensionality()
	assert.Equal(t, "L•M/T^2", d.Symbol())
	require.NoError(t, d.Close())
	assert.Equal(t, before, Live())

	// a second view is unaffected by closing the first
	assert.Equal(t, "L•M/T^2", MustParseUnit("N").Dimensionality().Symbol())
}

func TestUnit_Invalid(t *testing.T) {
	var u *Unit
	_, err := u.Mul(MustParseUnit("m"))
	assert.True(t, errors.Is(err, errors.ErrInvalidHandle))
	_, err = NewScalar(1, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidHandle))
	assert.Equal(t, `si.Unit("m")`, MustParseUnit("m").GoString())
}
