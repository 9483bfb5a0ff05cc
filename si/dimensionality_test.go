package si

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/sitypes"
	"github.com/wippyai/sitypes/errors"
)

func mustDim(t *testing.T, expr string) *Dimensionality {
	t.Helper()
	d, err := ParseDimensionality(expr)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestParseDimensionality(t *testing.T) {
	d := mustDim(t, "M*L^2/T^2")
	assert.Equal(t, "L^2•M/T^2", d.Symbol())
	assert.Equal(t, "L^2•M/T^2", d.String())

	_, err := ParseDimensionality("L + T")
	assert.True(t, errors.Is(err, errors.ErrParse), "got %v", err)

	_, err = ParseDimensionality("Q")
	assert.True(t, errors.Is(err, errors.ErrParse))
}

func TestDimensionality_EqualAndCompatible(t *testing.T) {
	lt := mustDim(t, "L/T")
	assert.True(t, lt.Equal(mustDim(t, "L*T^-1")))
	assert.False(t, lt.Equal(mustDim(t, "L")))

	m, err := ParseUnit("m/s")
	require.NoError(t, err)
	assert.True(t, lt.CompatibleWith(m.Dimensionality()))

	angle := mustDim(t, "L/L")
	one := Dimensionless()
	defer one.Close()
	assert.False(t, angle.Equal(one))
	assert.True(t, angle.CompatibleWith(one))
	assert.True(t, angle.IsDimensionless())
}

func TestDimensionality_Algebra(t *testing.T) {
	v := mustDim(t, "L/T")
	tm := mustDim(t, "T")

	l, err := v.Mul(tm)
	require.NoError(t, err)
	defer l.Close()
	assert.Equal(t, "L", l.Symbol())

	raw, err := v.MulWithoutReducing(tm)
	require.NoError(t, err)
	defer raw.Close()
	assert.Equal(t, "L•T/T", raw.Symbol())

	red, err := raw.Reduced()
	require.NoError(t, err)
	defer red.Close()
	assert.True(t, red.Equal(l))

	acc, err := v.Div(tm)
	require.NoError(t, err)
	defer acc.Close()
	assert.Equal(t, "L/T^2", acc.Symbol())

	q, err := v.DivWithoutReducing(v)
	require.NoError(t, err)
	defer q.Close()
	assert.Equal(t, "L•T/(L•T)", q.Symbol())

	qsq, err := q.PowWithoutReducing(sitypes.Int(2))
	require.NoError(t, err)
	defer qsq.Close()
	assert.True(t, qsq.NumeratorExponent(sitypes.Length).Equal(sitypes.Int(2)))
	assert.True(t, qsq.DenominatorExponent(sitypes.Time).Equal(sitypes.Int(2)))
	one := Dimensionless()
	defer one.Close()
	assert.True(t, qsq.IsDimensionless())
	assert.True(t, qsq.CompatibleWith(one))
	assert.False(t, qsq.Equal(one))

	qred, err := q.Pow(sitypes.Int(2))
	require.NoError(t, err)
	defer qred.Close()
	assert.Equal(t, "1", qred.Symbol())

	_, err = v.PowWithoutReducing(sitypes.NewRational(1, 2))
	assert.True(t, errors.Is(err, errors.ErrAlgebra), "got %v", err)

	sq, err := v.Pow(sitypes.Int(2))
	require.NoError(t, err)
	defer sq.Close()
	assert.Equal(t, "L^2/T^2", sq.Symbol())

	root, err := sq.Root(2)
	require.NoError(t, err)
	defer root.Close()
	assert.True(t, root.Equal(v))

	_, err = v.Pow(sitypes.NewRational(1, 2))
	assert.True(t, errors.Is(err, errors.ErrAlgebra), "got %v", err)

	_, err = v.Root(2)
	assert.True(t, errors.Is(err, errors.ErrAlgebra))
}

func TestDimensionality_ReducedIdempotent(t *testing.T) {
	for _, expr := range []string{"L/L", "L^3*M/(L*T)", "1", "N^2/N^3", "J*L^2/L^2"} {
		d := mustDim(t, expr)
		r1, err := d.Reduced()
		require.NoError(t, err)
		r2, err := r1.Reduced()
		require.NoError(t, err)
		assert.True(t, r1.Equal(r2), expr)
		assert.True(t, d.CompatibleWith(r1), expr)
		r1.Close()
		r2.Close()
	}
}

func TestDimensionality_Exponents(t *testing.T) {
	d := mustDim(t, "L^2*M/(L*T^2*I)")

	assert.True(t, d.Length().Equal(sitypes.Int(1)))
	assert.True(t, d.Mass().Equal(sitypes.Int(1)))
	assert.True(t, d.Time().Equal(sitypes.Int(-2)))
	assert.True(t, d.Current().Equal(sitypes.Int(-1)))
	assert.True(t, d.Temperature().IsZero())
	assert.True(t, d.Amount().IsZero())
	assert.True(t, d.LuminousIntensity().IsZero())

	assert.True(t, d.NumeratorExponent(sitypes.Length).Equal(sitypes.Int(2)))
	assert.True(t, d.DenominatorExponent(sitypes.Length).Equal(sitypes.Int(1)))
}

func TestDimensionalityForQuantity(t *testing.T) {
	force, err := DimensionalityForQuantity("force")
	require.NoError(t, err)
	defer force.Close()

	n, err := ParseUnit("N")
	require.NoError(t, err)
	assert.True(t, force.Equal(n.Dimensionality()))
	assert.True(t, force.IsDerived())
	assert.False(t, force.IsBase())

	_, err = DimensionalityForQuantity("happiness")
	assert.True(t, errors.Is(err, errors.ErrParse))

	assert.Contains(t, Quantities(), "luminous flux")
}

func TestDimensionality_Closed(t *testing.T) {
	d, err := ParseDimensionality("L")
	require.NoError(t, err)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err = d.Mul(d)
	assert.True(t, errors.Is(err, errors.ErrInvalidHandle))
	assert.Equal(t, "", d.Symbol())
}
