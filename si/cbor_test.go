package si

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/sitypes/errors"
)

func TestScalarCBOR(t *testing.T) {
	tests := []struct {
		name string
		make func() (*Scalar, error)
	}{
		{"real", func() (*Scalar, error) { return ParseScalar("9.81 m/s^2") }},
		{"dimensionless", func() (*Scalar, error) { return ParseScalar("0.5") }},
		{"complex", func() (*Scalar, error) { return NewComplexScalar(1-2i, MustParseUnit("V")) }},
		{"prefixed", func() (*Scalar, error) { return ParseScalar("3 µs") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.make()
			require.NoError(t, err)
			defer s.Close()

			data, err := cbor.Marshal(s)
			require.NoError(t, err)

			var got Scalar
			require.NoError(t, cbor.Unmarshal(data, &got))
			defer got.Close()

			assert.True(t, got.Equal(s), "%s != %s", &got, s)
			assert.Same(t, s.Unit(), got.Unit())
			assert.Equal(t, s.IsComplex(), got.IsComplex())
		})
	}
}

func TestScalarCBOR_Deterministic(t *testing.T) {
	a := mustScalar(t, "1.5 kg")
	b := mustScalar(t, "1.5 kg")

	da, err := a.MarshalCBOR()
	require.NoError(t, err)
	db, err := b.MarshalCBOR()
	require.NoError(t, err)
	assert.Equal(t, da, db)

	var w scalarWire
	require.NoError(t, cbor.Unmarshal(da, &w))
	assert.Equal(t, scalarWire{Re: 1.5, Unit: "kg"}, w)
}

func TestScalarCBOR_Replace(t *testing.T) {
	before := Live()
	s, err := ParseScalar("1 m")
	require.NoError(t, err)

	data, err := mustScalar(t, "2 s").MarshalCBOR()
	require.NoError(t, err)
	require.NoError(t, s.UnmarshalCBOR(data))
	assert.Equal(t, "2 s", s.String())

	require.NoError(t, s.Close())
	// only the "2 s" source remains until cleanup
	assert.Equal(t, before+1, Live())
}

func TestScalarCBOR_Errors(t *testing.T) {
	var s Scalar
	err := s.UnmarshalCBOR([]byte{0xff})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput), "got %v", err)

	data, err := cbor.Marshal([]any{1.0, 0.0, "furlong"})
	require.NoError(t, err)
	err = s.UnmarshalCBOR(data)
	assert.Equal(t, errors.PhaseDecode, phaseOf(err))

	var closed *Scalar
	_, err = closed.MarshalCBOR()
	assert.True(t, errors.Is(err, errors.ErrInvalidHandle))
}

func phaseOf(err error) errors.Phase {
	var e *errors.Error
	if errors.As(err, &e) {
		return e.Phase
	}
	return ""
}
