package engine

import (
	"math"
	"math/cmplx"
	"strconv"

	"github.com/wippyai/sitypes"
)

type scalar struct {
	value   complex128
	unit    Ref
	complex bool
}

// Comparison is the result of ScalarCompare.
type Comparison int

const (
	Less Comparison = iota - 1
	Equal
	Greater
	NotComparable
)

func (c Comparison) String() string {
	switch c {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	}
	return "not comparable"
}

func (s *scalar) finite() bool {
	return !math.IsInf(real(s.value), 0) && !math.IsInf(imag(s.value), 0) &&
		!math.IsNaN(real(s.value)) && !math.IsNaN(imag(s.value))
}

func formatValue(v complex128, isComplex bool) string {
	if isComplex {
		return strconv.FormatComplex(v, 'g', -1, 128)
	}
	return strconv.FormatFloat(real(v), 'g', -1, 64)
}

// ScalarFromExpression parses a quantity such as "9.81 m/s^2" or "-3 ft".
func (l *Library) ScalarFromExpression(expr string, errOut *Ref) Ref {
	q, err := parseQuantity(expr)
	if err != nil {
		return l.fail(errOut, "cannot parse scalar %q: %v", expr, err)
	}
	return l.newScalar(complex(q.value, 0), false, l.intern(reduceTerms(q.terms)))
}

// ScalarCreateWithDouble creates a real scalar in unit u. It returns Null if u
// is not a unit.
func (l *Library) ScalarCreateWithDouble(v float64, u Ref) Ref {
	if _, ok := l.unitOf(u); !ok {
		return Null
	}
	return l.newScalar(complex(v, 0), false, u)
}

// ScalarCreateWithComplex creates a complex scalar in unit u.
func (l *Library) ScalarCreateWithComplex(v complex128, u Ref) Ref {
	if _, ok := l.unitOf(u); !ok {
		return Null
	}
	return l.newScalar(v, true, u)
}

// ScalarGetUnit returns the unit of s. The result is borrowed.
func (l *Library) ScalarGetUnit(s Ref) Ref {
	sc, ok := l.scalarOf(s)
	if !ok {
		return Null
	}
	return sc.unit
}

// ScalarDoubleValue returns the real part of s.
func (l *Library) ScalarDoubleValue(s Ref) float64 {
	sc, ok := l.scalarOf(s)
	if !ok {
		return math.NaN()
	}
	return real(sc.value)
}

func (l *Library) ScalarComplexValue(s Ref) complex128 {
	sc, ok := l.scalarOf(s)
	if !ok {
		return cmplx.NaN()
	}
	return sc.value
}

func (l *Library) ScalarIsComplex(s Ref) bool {
	sc, ok := l.scalarOf(s)
	return ok && sc.complex
}

func (l *Library) ScalarIsReal(s Ref) bool {
	sc, ok := l.scalarOf(s)
	return ok && !sc.complex
}

func (l *Library) ScalarIsZero(s Ref) bool {
	sc, ok := l.scalarOf(s)
	return ok && sc.value == 0
}

func (l *Library) ScalarIsInfinite(s Ref) bool {
	sc, ok := l.scalarOf(s)
	return ok && (math.IsInf(real(sc.value), 0) || math.IsInf(imag(sc.value), 0))
}

func (l *Library) ScalarIsNaN(s Ref) bool {
	sc, ok := l.scalarOf(s)
	return ok && (math.IsNaN(real(sc.value)) || math.IsNaN(imag(sc.value)))
}

// ScalarString renders s as "value unit", or just the value when dimensionless.
func (l *Library) ScalarString(s Ref) string {
	sc, ok := l.scalarOf(s)
	if !ok {
		return ""
	}
	v := formatValue(sc.value, sc.complex)
	u, _ := l.unitOf(sc.unit)
	if u.symbol == "" {
		return v
	}
	return v + " " + u.symbol
}

func (l *Library) scalarPair(a, b Ref, errOut *Ref) (*scalar, *scalar, bool) {
	sa, ok := l.scalarOf(a)
	if !ok {
		l.fail(errOut, "invalid scalar reference")
		return nil, nil, false
	}
	sb, ok := l.scalarOf(b)
	if !ok {
		l.fail(errOut, "invalid scalar reference")
		return nil, nil, false
	}
	return sa, sb, true
}

// harmonize returns the value of b expressed in the unit of a.
func (l *Library) harmonize(a, b *scalar, op string, errOut *Ref) (complex128, bool) {
	var factor float64
	if !l.UnitConversion(b.unit, a.unit, &factor, nil) {
		ua, _ := l.unitOf(a.unit)
		ub, _ := l.unitOf(b.unit)
		l.fail(errOut, "cannot %s %s and %s: dimensionalities %s and %s differ",
			op, displaySymbol(ua.symbol), displaySymbol(ub.symbol), ua.dims.symbol(), ub.dims.symbol())
		return 0, false
	}
	return b.value * complex(factor, 0), true
}

// ScalarAdd adds b to a. The result is in the unit of a.
func (l *Library) ScalarAdd(a, b Ref, errOut *Ref) Ref {
	sa, sb, ok := l.scalarPair(a, b, errOut)
	if !ok {
		return Null
	}
	v, ok := l.harmonize(sa, sb, "add", errOut)
	if !ok {
		return Null
	}
	return l.newScalar(sa.value+v, sa.complex || sb.complex, sa.unit)
}

// ScalarSubtract subtracts b from a. The result is in the unit of a.
func (l *Library) ScalarSubtract(a, b Ref, errOut *Ref) Ref {
	sa, sb, ok := l.scalarPair(a, b, errOut)
	if !ok {
		return Null
	}
	v, ok := l.harmonize(sa, sb, "subtract", errOut)
	if !ok {
		return Null
	}
	return l.newScalar(sa.value-v, sa.complex || sb.complex, sa.unit)
}

// ScalarMultiply multiplies a by b. The result unit is the reduced product.
func (l *Library) ScalarMultiply(a, b Ref, errOut *Ref) Ref {
	sa, sb, ok := l.scalarPair(a, b, errOut)
	if !ok {
		return Null
	}
	u := l.UnitByMultiplying(sa.unit, sb.unit, errOut)
	if u == Null {
		return Null
	}
	return l.newScalar(sa.value*sb.value, sa.complex || sb.complex, u)
}

// ScalarDivide divides a by b. Division by zero fails.
func (l *Library) ScalarDivide(a, b Ref, errOut *Ref) Ref {
	sa, sb, ok := l.scalarPair(a, b, errOut)
	if !ok {
		return Null
	}
	if sb.value == 0 {
		return l.fail(errOut, "division by zero")
	}
	u := l.UnitByDividing(sa.unit, sb.unit, errOut)
	if u == Null {
		return Null
	}
	return l.newScalar(sa.value/sb.value, sa.complex || sb.complex, u)
}

// ScalarRaiseToPower raises a to an integer power. A result that overflows to
// infinity is returned with a diagnostic.
func (l *Library) ScalarRaiseToPower(a Ref, n int, errOut *Ref) Ref {
	sa, ok := l.scalarOf(a)
	if !ok {
		return l.fail(errOut, "invalid scalar reference")
	}
	if n < 0 && sa.value == 0 {
		return l.fail(errOut, "division by zero: zero raised to negative power %d", n)
	}
	u, _ := l.unitOf(sa.unit)
	terms, _ := powerTerms(reduceTerms(u.terms), sitypes.Int(n))

	var v complex128
	if sa.complex {
		v = complexPow(sa.value, n)
	} else {
		v = complex(math.Pow(real(sa.value), float64(n)), 0)
	}
	r := l.newScalar(v, sa.complex, l.intern(reduceTerms(terms)))
	if sa.finite() && (math.IsInf(real(v), 0) || math.IsInf(imag(v), 0)) {
		l.note(errOut, "overflow: %s raised to the power %d is infinite", formatValue(sa.value, sa.complex), n)
	}
	return r
}

// complexPow computes z^n by repeated squaring, which keeps exact results for
// values like (1+1i)^2.
func complexPow(z complex128, n int) complex128 {
	neg := n < 0
	if neg {
		n = -n
	}
	result := complex(1, 0)
	for n > 0 {
		if n&1 == 1 {
			result *= z
		}
		z *= z
		n >>= 1
	}
	if neg {
		return 1 / result
	}
	return result
}

// ScalarTakeNthRoot takes the nth root of a. The root of a negative real value
// with even n is the complex principal root.
func (l *Library) ScalarTakeNthRoot(a Ref, n int, errOut *Ref) Ref {
	sa, ok := l.scalarOf(a)
	if !ok {
		return l.fail(errOut, "invalid scalar reference")
	}
	u := l.UnitByTakingNthRoot(sa.unit, n, errOut)
	if u == Null {
		return Null
	}

	x := real(sa.value)
	switch {
	case sa.complex:
		return l.newScalar(cmplx.Pow(sa.value, complex(1/float64(n), 0)), true, u)
	case x < 0 && n%2 == 0:
		return l.newScalar(cmplx.Pow(complex(x, 0), complex(1/float64(n), 0)), true, u)
	case n == 2:
		return l.newScalar(complex(math.Sqrt(x), 0), false, u)
	case n == 3:
		return l.newScalar(complex(math.Cbrt(x), 0), false, u)
	case x < 0:
		return l.newScalar(complex(-math.Pow(-x, 1/float64(n)), 0), false, u)
	}
	return l.newScalar(complex(math.Pow(x, 1/float64(n)), 0), false, u)
}

// ScalarAbs returns |a| in the unit of a.
func (l *Library) ScalarAbs(a Ref, errOut *Ref) Ref {
	sa, ok := l.scalarOf(a)
	if !ok {
		return l.fail(errOut, "invalid scalar reference")
	}
	return l.newScalar(complex(cmplx.Abs(sa.value), 0), false, sa.unit)
}

// ScalarArgument returns the phase angle of a in radians.
func (l *Library) ScalarArgument(a Ref, errOut *Ref) Ref {
	sa, ok := l.scalarOf(a)
	if !ok {
		return l.fail(errOut, "invalid scalar reference")
	}
	rad := l.intern([]term{{root: rootRadian, power: 1}})
	return l.newScalar(complex(cmplx.Phase(sa.value), 0), false, rad)
}

// ScalarRealPart returns the real part of a in the unit of a.
func (l *Library) ScalarRealPart(a Ref, errOut *Ref) Ref {
	sa, ok := l.scalarOf(a)
	if !ok {
		return l.fail(errOut, "invalid scalar reference")
	}
	return l.newScalar(complex(real(sa.value), 0), false, sa.unit)
}

// ScalarImaginaryPart returns the imaginary part of a in the unit of a.
func (l *Library) ScalarImaginaryPart(a Ref, errOut *Ref) Ref {
	sa, ok := l.scalarOf(a)
	if !ok {
		return l.fail(errOut, "invalid scalar reference")
	}
	return l.newScalar(complex(imag(sa.value), 0), false, sa.unit)
}

// ScalarConvertToUnit expresses a in unit u.
func (l *Library) ScalarConvertToUnit(a, u Ref, errOut *Ref) Ref {
	sa, ok := l.scalarOf(a)
	if !ok {
		return l.fail(errOut, "invalid scalar reference")
	}
	var factor float64
	if !l.UnitConversion(sa.unit, u, &factor, errOut) {
		return Null
	}
	return l.newScalar(sa.value*complex(factor, 0), sa.complex, u)
}

// ScalarConvertToCoherentSI expresses a in the coherent SI unit of its dimensionality.
func (l *Library) ScalarConvertToCoherentSI(a Ref, errOut *Ref) Ref {
	sa, ok := l.scalarOf(a)
	if !ok {
		return l.fail(errOut, "invalid scalar reference")
	}
	return l.ScalarConvertToUnit(a, l.UnitToCoherentSI(sa.unit), errOut)
}

// ScalarReduceUnit merges repeated terms in the unit of a.
func (l *Library) ScalarReduceUnit(a Ref, errOut *Ref) Ref {
	sa, ok := l.scalarOf(a)
	if !ok {
		return l.fail(errOut, "invalid scalar reference")
	}
	return l.ScalarConvertToUnit(a, l.UnitByReducing(sa.unit), errOut)
}

var engineeringExps = []int{-30, -27, -24, -21, -18, -15, -12, -9, -6, -3, 0, 3, 6, 9, 12, 15, 18, 21, 24, 27, 30}

// ScalarToBestUnit picks the engineering SI prefix that puts the magnitude of a
// in [1, 1000). Values in compound or unprefixable units are copied unchanged.
func (l *Library) ScalarToBestUnit(a Ref, errOut *Ref) Ref {
	sa, ok := l.scalarOf(a)
	if !ok {
		return l.fail(errOut, "invalid scalar reference")
	}
	u, _ := l.unitOf(sa.unit)
	mag := cmplx.Abs(sa.value)
	if len(u.terms) != 1 || !u.terms[0].root.prefixable || mag == 0 || !sa.finite() {
		return l.newScalar(sa.value, sa.complex, sa.unit)
	}

	t := u.terms[0]
	// magnitude expressed in the unprefixed root
	base := mag * math.Pow(10, float64(t.prefixExp()*t.power))
	best, found := 0, false
	for _, e := range engineeringExps {
		if base/math.Pow(10, float64(e*t.power)) < 1 {
			continue
		}
		if e != 0 && shadowed(prefixesByExp[e], t.root) {
			continue
		}
		// larger prefixes shrink the value for positive powers and grow it for negative ones
		if !found || (t.power > 0 && e > best) || (t.power < 0 && e < best) {
			best, found = e, true
		}
	}
	if !found {
		best = engineeringExps[0]
		if t.power < 0 {
			best = engineeringExps[len(engineeringExps)-1]
		}
	}

	t.prefix = prefixesByExp[best]
	if best == 0 {
		t.prefix = nil
	}
	return l.ScalarConvertToUnit(a, l.intern([]term{t}), errOut)
}

// ScalarCompare orders a and b after converting b into the unit of a.
// Mismatched dimensionalities and NaN compare as NotComparable; complex values
// are only ever Equal or NotComparable.
func (l *Library) ScalarCompare(a, b Ref) Comparison {
	sa, sb, ok := l.scalarPair(a, b, nil)
	if !ok {
		return NotComparable
	}
	v, ok := l.harmonize(sa, sb, "compare", nil)
	if !ok {
		return NotComparable
	}
	if sa.complex || sb.complex {
		if sa.value == v {
			return Equal
		}
		return NotComparable
	}
	x, y := real(sa.value), real(v)
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return NotComparable
	case x < y:
		return Less
	case x > y:
		return Greater
	}
	return Equal
}
