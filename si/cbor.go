package si

import (
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/sitypes/errors"
)

// scalarWire is the CBOR form of a Scalar: [re, im, unit-symbol].
// A non-zero imaginary part marks a complex scalar.
type scalarWire struct {
	_    struct{} `cbor:",toarray"`
	Re   float64
	Im   float64
	Unit string
}

var encMode = sync.OnceValues(func() (cbor.EncMode, error) {
	return cbor.CoreDetEncOptions().EncMode()
})

// MarshalCBOR encodes s with deterministic core encoding.
func (s *Scalar) MarshalCBOR() ([]byte, error) {
	if err := validScalars(s); err != nil {
		return nil, err
	}
	em, err := encMode()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "cbor encoder")
	}
	v := s.Complex()
	return em.Marshal(scalarWire{Re: real(v), Im: imag(v), Unit: s.Unit().Symbol()})
}

// UnmarshalCBOR replaces the value of s, releasing any object it held.
func (s *Scalar) UnmarshalCBOR(data []byte) error {
	var w scalarWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, "scalar")
	}

	u := DimensionlessUnit()
	if w.Unit != "" {
		var err error
		if u, err = ParseUnit(w.Unit); err != nil {
			return errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, "scalar unit")
		}
	}

	var (
		d   *Scalar
		err error
	)
	if w.Im != 0 {
		d, err = NewComplexScalar(complex(w.Re, w.Im), u)
	} else {
		d, err = NewScalar(w.Re, u)
	}
	if err != nil {
		return err
	}
	if s.h != nil {
		s.h.Close()
	}
	s.h = d.h
	return nil
}
