package si

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/wippyai/sitypes/bridge"
	"github.com/wippyai/sitypes/engine"
	"github.com/wippyai/sitypes/errors"
)

// Compare orders s against o after converting o into the unit of s. It returns
// -1, 0 or +1. Scalars of different dimensionality, NaN values and unequal
// complex values fail with ErrIncomparable.
func (s *Scalar) Compare(o *Scalar) (int, error) {
	if err := validScalars(s, o); err != nil {
		return 0, err
	}
	switch bridge.Use2(s.h, o.h, library().ScalarCompare) {
	case engine.Less:
		return -1, nil
	case engine.Equal:
		return 0, nil
	case engine.Greater:
		return 1, nil
	}

	su, ou := s.Unit(), o.Unit()
	detail := "values are unordered"
	if !su.CompatibleWith(ou) {
		detail = fmt.Sprintf("dimensionalities %s and %s differ",
			su.Dimensionality().Symbol(), ou.Dimensionality().Symbol())
	}
	return 0, errors.Incomparable(s.String(), o.String(), detail)
}

// Less reports whether s < o.
func (s *Scalar) Less(o *Scalar) (bool, error) {
	c, err := s.Compare(o)
	return c < 0, err
}

// Equal reports whether s and o denote the same quantity. Scalars of different
// dimensionality are not equal.
func (s *Scalar) Equal(o *Scalar) bool {
	if validScalars(s, o) != nil {
		return false
	}
	return bridge.Use2(s.h, o.h, library().ScalarCompare) == engine.Equal
}

// Hash returns a hash of the quantity in its coherent SI unit, so 1 km and
// 1000 m hash alike. Complex, infinite and NaN scalars fail with ErrUnhashable.
func (s *Scalar) Hash() (uint64, error) {
	if err := validScalars(s); err != nil {
		return 0, err
	}
	switch {
	case s.IsComplex():
		return 0, errors.Unhashable(s.String(), "complex scalars are not hashable")
	case s.IsInfinite(), s.IsNaN():
		return 0, errors.Unhashable(s.String(), "non-finite scalars are not hashable")
	}

	c, err := s.ToCoherentSI()
	if err != nil {
		return 0, err
	}
	defer c.Close()

	v := c.Value()
	if v == 0 {
		v = 0 // fold -0
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))

	h := fnv.New64a()
	h.Write([]byte(c.Unit().Symbol()))
	h.Write([]byte{0})
	h.Write(buf[:])
	return h.Sum64(), nil
}
