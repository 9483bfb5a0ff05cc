package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/sitypes"
	"github.com/wippyai/sitypes/engine/internal/parser"
	"github.com/wippyai/sitypes/engine/internal/token"
)

// dims holds integral numerator and denominator exponents per base dimension.
// The unreduced form is kept: L/L is not the same as 1.
type dims struct {
	num [sitypes.BaseCount]int
	den [sitypes.BaseCount]int
}

type dimensionality struct {
	dims dims
}

func baseDims(b sitypes.Base) dims {
	var d dims
	d.num[b] = 1
	return d
}

// netDims builds a reduced dimensionality from signed exponents in base order.
func netDims(exps ...int) dims {
	var d dims
	for i, e := range exps {
		if e > 0 {
			d.num[i] = e
		} else {
			d.den[i] = -e
		}
	}
	return d
}

func (d dims) multiply(o dims) dims {
	var r dims
	for i := range r.num {
		r.num[i] = d.num[i] + o.num[i]
		r.den[i] = d.den[i] + o.den[i]
	}
	return r
}

func (d dims) divide(o dims) dims {
	return d.multiply(o.invert())
}

func (d dims) invert() dims {
	return dims{num: d.den, den: d.num}
}

func (d dims) net(b int) int {
	return d.num[b] - d.den[b]
}

func (d dims) reduce() dims {
	var r dims
	for i := range r.num {
		if n := d.net(i); n > 0 {
			r.num[i] = n
		} else {
			r.den[i] = -n
		}
	}
	return r
}

// power scales every exponent by p. Each result must stay integral.
func (d dims) power(p sitypes.Rational) (dims, bool) {
	if p.Sign() < 0 {
		d = d.invert()
		p = p.Neg()
	}
	var r dims
	for i := range r.num {
		n, ok := scaleExponent(d.num[i], p)
		if !ok {
			return dims{}, false
		}
		m, ok := scaleExponent(d.den[i], p)
		if !ok {
			return dims{}, false
		}
		r.num[i], r.den[i] = n, m
	}
	return r, true
}

func scaleExponent(e int, p sitypes.Rational) (int, bool) {
	v := e * p.Num()
	if v%p.Den() != 0 {
		return 0, false
	}
	return v / p.Den(), true
}

func (d dims) sameReduced(o dims) bool {
	for i := range d.num {
		if d.net(i) != o.net(i) {
			return false
		}
	}
	return true
}

func (d dims) isDimensionless() bool {
	return d.sameReduced(dims{})
}

// isBase reports whether d is exactly one base dimension to the first power.
func (d dims) isBase() bool {
	if d.den != ([sitypes.BaseCount]int{}) {
		return false
	}
	count := 0
	for _, n := range d.num {
		switch n {
		case 0:
		case 1:
			count++
		default:
			return false
		}
	}
	return count == 1
}

func (d dims) symbol() string {
	numer := dimsFactors(d.num)
	denom := dimsFactors(d.den)
	switch {
	case len(numer) == 0 && len(denom) == 0:
		return "1"
	case len(denom) == 0:
		return strings.Join(numer, "•")
	case len(numer) == 0:
		return "1/" + group(denom)
	}
	return strings.Join(numer, "•") + "/" + group(denom)
}

func dimsFactors(exps [sitypes.BaseCount]int) []string {
	var out []string
	for i, e := range exps {
		if e == 0 {
			continue
		}
		s := sitypes.Base(i).Symbol()
		if e != 1 {
			s += "^" + strconv.Itoa(e)
		}
		out = append(out, s)
	}
	return out
}

func group(factors []string) string {
	if len(factors) == 1 {
		return factors[0]
	}
	return "(" + strings.Join(factors, "•") + ")"
}

var dimensionSymbols = map[string]sitypes.Base{
	"L": sitypes.Length,
	"M": sitypes.Mass,
	"T": sitypes.Time,
	"I": sitypes.Current,
	"ϴ": sitypes.Temperature,
	"N": sitypes.Amount,
	"J": sitypes.LuminousIntensity,
}

func parseDims(expr string) (dims, error) {
	n, err := parser.Parse(expr)
	if err != nil {
		return dims{}, err
	}
	return evalDims(n)
}

func evalDims(n parser.Node) (dims, error) {
	switch n := n.(type) {
	case *parser.Number:
		if n.Value != 1 {
			return dims{}, fmt.Errorf("numeric factor %s not allowed in a dimensionality", n.Text)
		}
		return dims{}, nil
	case *parser.Symbol:
		b, ok := dimensionSymbols[n.Name]
		if !ok {
			return dims{}, fmt.Errorf("unknown dimension symbol %q", n.Name)
		}
		return baseDims(b), nil
	case *parser.Binary:
		left, err := evalDims(n.Left)
		if err != nil {
			return dims{}, err
		}
		right, err := evalDims(n.Right)
		if err != nil {
			return dims{}, err
		}
		if n.Op == token.Div {
			return left.divide(right), nil
		}
		return left.multiply(right), nil
	case *parser.Power:
		base, err := evalDims(n.Base)
		if err != nil {
			return dims{}, err
		}
		d, ok := base.power(n.Exp)
		if !ok {
			return dims{}, fmt.Errorf("power %s of %s has a fractional exponent", n.Exp, base.symbol())
		}
		return d, nil
	case *parser.Negate:
		return dims{}, fmt.Errorf("sign not allowed in a dimensionality")
	}
	return dims{}, fmt.Errorf("unsupported expression")
}

// DimensionalityParseExpression parses a dimensionality such as "L^2•M/T^2".
// The result keeps the unreduced form of the expression.
func (l *Library) DimensionalityParseExpression(expr string, errOut *Ref) Ref {
	d, err := parseDims(expr)
	if err != nil {
		return l.fail(errOut, "cannot parse dimensionality %q: %v", expr, err)
	}
	return l.newDimensionality(d)
}

// DimensionalityForQuantity returns the dimensionality of a named physical quantity.
func (l *Library) DimensionalityForQuantity(quantity string, errOut *Ref) Ref {
	d, ok := lookupQuantity(quantity)
	if !ok {
		return l.fail(errOut, "unknown quantity %q", quantity)
	}
	return l.newDimensionality(d)
}

// DimensionalityDimensionless returns a new dimensionless dimensionality.
func (l *Library) DimensionalityDimensionless() Ref {
	return l.newDimensionality(dims{})
}

func (l *Library) dimensionalityPair(a, b Ref, errOut *Ref) (*dimensionality, *dimensionality, bool) {
	da, ok := l.dimensionalityOf(a)
	if !ok {
		l.fail(errOut, "invalid dimensionality reference")
		return nil, nil, false
	}
	db, ok := l.dimensionalityOf(b)
	if !ok {
		l.fail(errOut, "invalid dimensionality reference")
		return nil, nil, false
	}
	return da, db, true
}

// DimensionalityByMultiplying returns the reduced product of a and b.
func (l *Library) DimensionalityByMultiplying(a, b Ref, errOut *Ref) Ref {
	da, db, ok := l.dimensionalityPair(a, b, errOut)
	if !ok {
		return Null
	}
	return l.newDimensionality(da.dims.multiply(db.dims).reduce())
}

// DimensionalityByMultiplyingWithoutReducing returns the product of a and b
// keeping numerator and denominator exponents apart.
func (l *Library) DimensionalityByMultiplyingWithoutReducing(a, b Ref, errOut *Ref) Ref {
	da, db, ok := l.dimensionalityPair(a, b, errOut)
	if !ok {
		return Null
	}
	return l.newDimensionality(da.dims.multiply(db.dims))
}

// DimensionalityByDividing returns the reduced quotient of a and b.
func (l *Library) DimensionalityByDividing(a, b Ref, errOut *Ref) Ref {
	da, db, ok := l.dimensionalityPair(a, b, errOut)
	if !ok {
		return Null
	}
	return l.newDimensionality(da.dims.divide(db.dims).reduce())
}

// DimensionalityByDividingWithoutReducing returns the unreduced quotient of a and b.
func (l *Library) DimensionalityByDividingWithoutReducing(a, b Ref, errOut *Ref) Ref {
	da, db, ok := l.dimensionalityPair(a, b, errOut)
	if !ok {
		return Null
	}
	return l.newDimensionality(da.dims.divide(db.dims))
}

// DimensionalityByRaisingToPower raises a to a rational power. It fails when an
// exponent of the result would not be an integer.
func (l *Library) DimensionalityByRaisingToPower(a Ref, power sitypes.Rational, errOut *Ref) Ref {
	d, ok := l.powerDims(a, power, errOut)
	if !ok {
		return Null
	}
	return l.newDimensionality(d.reduce())
}

// DimensionalityByRaisingToPowerWithoutReducing is DimensionalityByRaisingToPower
// without cancelling numerator against denominator.
func (l *Library) DimensionalityByRaisingToPowerWithoutReducing(a Ref, power sitypes.Rational, errOut *Ref) Ref {
	d, ok := l.powerDims(a, power, errOut)
	if !ok {
		return Null
	}
	return l.newDimensionality(d)
}

func (l *Library) powerDims(a Ref, power sitypes.Rational, errOut *Ref) (dims, bool) {
	da, ok := l.dimensionalityOf(a)
	if !ok {
		l.fail(errOut, "invalid dimensionality reference")
		return dims{}, false
	}
	d, ok := da.dims.power(power)
	if !ok {
		l.fail(errOut, "cannot raise %s to the power %s: exponent is not an integer", da.dims.symbol(), power)
		return dims{}, false
	}
	return d, true
}

// DimensionalityByTakingNthRoot takes the nth root of a. n must be positive
// and divide every exponent.
func (l *Library) DimensionalityByTakingNthRoot(a Ref, n int, errOut *Ref) Ref {
	if n <= 0 {
		return l.fail(errOut, "root %d must be a positive integer", n)
	}
	da, ok := l.dimensionalityOf(a)
	if !ok {
		return l.fail(errOut, "invalid dimensionality reference")
	}
	d, ok := da.dims.power(sitypes.NewRational(1, n))
	if !ok {
		return l.fail(errOut, "cannot take root %d of %s: exponent is not divisible", n, da.dims.symbol())
	}
	return l.newDimensionality(d.reduce())
}

// DimensionalityByReducing cancels numerator against denominator exponents.
func (l *Library) DimensionalityByReducing(a Ref) Ref {
	da, ok := l.dimensionalityOf(a)
	if !ok {
		return Null
	}
	return l.newDimensionality(da.dims.reduce())
}

// DimensionalityGetSymbol returns the symbol of a, "1" when dimensionless.
func (l *Library) DimensionalityGetSymbol(a Ref) string {
	da, ok := l.dimensionalityOf(a)
	if !ok {
		return ""
	}
	return da.dims.symbol()
}

// DimensionalityEqual reports whether a and b have identical unreduced exponents.
func (l *Library) DimensionalityEqual(a, b Ref) bool {
	da, ok1 := l.dimensionalityOf(a)
	db, ok2 := l.dimensionalityOf(b)
	return ok1 && ok2 && da.dims == db.dims
}

// DimensionalityHasSameReducedDimensionality reports whether a and b agree after reduction.
func (l *Library) DimensionalityHasSameReducedDimensionality(a, b Ref) bool {
	da, ok1 := l.dimensionalityOf(a)
	db, ok2 := l.dimensionalityOf(b)
	return ok1 && ok2 && da.dims.sameReduced(db.dims)
}

// DimensionalityReducedExponentAtIndex returns the net exponent of base.
func (l *Library) DimensionalityReducedExponentAtIndex(a Ref, base sitypes.Base) sitypes.Rational {
	da, ok := l.dimensionalityOf(a)
	if !ok || base < 0 || int(base) >= sitypes.BaseCount {
		return sitypes.Rational{}
	}
	return sitypes.Int(da.dims.net(int(base)))
}

// DimensionalityNumeratorExponentAtIndex returns the unreduced numerator exponent of base.
func (l *Library) DimensionalityNumeratorExponentAtIndex(a Ref, base sitypes.Base) sitypes.Rational {
	da, ok := l.dimensionalityOf(a)
	if !ok || base < 0 || int(base) >= sitypes.BaseCount {
		return sitypes.Rational{}
	}
	return sitypes.Int(da.dims.num[base])
}

// DimensionalityDenominatorExponentAtIndex returns the unreduced denominator exponent of base.
func (l *Library) DimensionalityDenominatorExponentAtIndex(a Ref, base sitypes.Base) sitypes.Rational {
	da, ok := l.dimensionalityOf(a)
	if !ok || base < 0 || int(base) >= sitypes.BaseCount {
		return sitypes.Rational{}
	}
	return sitypes.Int(da.dims.den[base])
}

// DimensionalityIsDimensionless reports whether every reduced exponent is zero.
func (l *Library) DimensionalityIsDimensionless(a Ref) bool {
	da, ok := l.dimensionalityOf(a)
	return ok && da.dims.isDimensionless()
}

// DimensionalityIsBase reports whether a is a single base dimension.
func (l *Library) DimensionalityIsBase(a Ref) bool {
	da, ok := l.dimensionalityOf(a)
	return ok && da.dims.isBase()
}

// DimensionalityIsDerived reports whether a is neither a base dimension nor "1".
func (l *Library) DimensionalityIsDerived(a Ref) bool {
	da, ok := l.dimensionalityOf(a)
	return ok && !da.dims.isBase() && da.dims != (dims{})
}
