package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/wippyai/sitypes"
)

// term is a prefixed root raised to a non-zero integer power.
type term struct {
	prefix *prefix
	root   *root
	power  int
}

func (t term) symbol() string {
	if t.prefix == nil {
		return t.root.symbol
	}
	return t.prefix.symbol + t.root.symbol
}

func (t term) prefixExp() int {
	if t.prefix == nil {
		return 0
	}
	return t.prefix.exp
}

// isKilogram reports whether t is the coherent unit of mass.
func (t term) isKilogram() bool {
	return t.root == rootGram && t.prefixExp() == 3
}

func (t term) name(plural bool) string {
	n := t.root.name
	if plural {
		n = t.root.plural
	}
	if t.prefix != nil {
		n = t.prefix.name + n
	}
	switch p := abs(t.power); p {
	case 1:
		return n
	case 2:
		return "square " + n
	case 3:
		return "cubic " + n
	default:
		return fmt.Sprintf("%s to the power %d", n, p)
	}
}

type unit struct {
	terms  []term
	symbol string
	name   string
	plural string
	dims   dims
	scale  float64
	dimRef Ref
}

func newUnit(terms []term, symbol string) *unit {
	u := &unit{
		terms:  terms,
		symbol: symbol,
		name:   renderName(terms, false),
		plural: renderName(terms, true),
	}

	factor, exp := 1.0, 0
	for _, t := range terms {
		d, _ := t.root.dims.power(sitypes.Int(t.power))
		u.dims = u.dims.multiply(d)
		if t.root.scale != 1 {
			factor *= math.Pow(t.root.scale, float64(t.power))
		}
		exp += (t.prefixExp() + t.root.exp10) * t.power
	}
	u.scale = factor * math.Pow10(exp)
	return u
}

func (u *unit) isSIBase() bool {
	if len(u.terms) != 1 || u.terms[0].power != 1 {
		return false
	}
	t := u.terms[0]
	return (t.root.base && t.prefix == nil) || t.isKilogram()
}

func (u *unit) isCoherentSI() bool {
	for _, t := range u.terms {
		if t.isKilogram() {
			continue
		}
		if t.prefix != nil || !t.root.coherent {
			return false
		}
	}
	return true
}

// hasUnreducedRoot reports whether a root like rad or sr carries an
// unreduced dimensionality into u.
func (u *unit) hasUnreducedRoot() bool {
	for _, t := range u.terms {
		if t.root.dims != t.root.dims.reduce() {
			return true
		}
	}
	return false
}

// termsKey identifies a term list by prefix, root and power.
func termsKey(terms []term) string {
	var b strings.Builder
	for _, t := range terms {
		if t.prefix != nil {
			b.WriteString(t.prefix.name)
		}
		b.WriteByte('|')
		b.WriteString(t.root.symbol)
		b.WriteByte('^')
		b.WriteString(strconv.Itoa(t.power))
		b.WriteByte(';')
	}
	return b.String()
}

func renderSymbol(terms []term) string {
	var numer, denom []string
	for _, t := range terms {
		s := t.symbol()
		p := t.power
		if p < 0 {
			p = -p
		}
		if p != 1 {
			s += "^" + strconv.Itoa(p)
		}
		if t.power > 0 {
			numer = append(numer, s)
		} else {
			denom = append(denom, s)
		}
	}
	switch {
	case len(numer) == 0 && len(denom) == 0:
		return ""
	case len(denom) == 0:
		return strings.Join(numer, "•")
	case len(numer) == 0:
		return "(1/" + group(denom) + ")"
	}
	return strings.Join(numer, "•") + "/" + group(denom)
}

func renderName(terms []term, plural bool) string {
	last := -1
	for i, t := range terms {
		if t.power > 0 {
			last = i
		}
	}
	if last < 0 {
		last = len(terms) - 1
	}

	var numer, denom []string
	for i, t := range terms {
		n := t.name(plural && i == last)
		if t.power > 0 {
			numer = append(numer, n)
		} else {
			denom = append(denom, n)
		}
	}
	switch {
	case len(numer) == 0 && len(denom) == 0:
		return ""
	case len(denom) == 0:
		return strings.Join(numer, " ")
	case len(numer) == 0:
		return "inverse " + strings.Join(denom, " ")
	}
	return strings.Join(numer, " ") + " per " + strings.Join(denom, " ")
}

// reduceTerms merges terms with the same prefix and root, drops zero powers and
// sorts by symbol so equal units share one canonical symbol.
func reduceTerms(terms []term) []term {
	type key struct {
		p *prefix
		r *root
	}
	index := make(map[key]int, len(terms))
	var out []term
	for _, t := range terms {
		k := key{t.prefix, t.root}
		if i, ok := index[k]; ok {
			out[i].power += t.power
			continue
		}
		index[k] = len(out)
		out = append(out, t)
	}
	out = dropZero(out)
	sort.Slice(out, func(i, j int) bool {
		return out[i].symbol() < out[j].symbol()
	})
	return out
}

func dropZero(terms []term) []term {
	out := terms[:0:0]
	for _, t := range terms {
		if t.power != 0 {
			out = append(out, t)
		}
	}
	return out
}

func invertTerms(terms []term) []term {
	out := make([]term, len(terms))
	for i, t := range terms {
		t.power = -t.power
		out[i] = t
	}
	return out
}

func concatTerms(a, b []term) []term {
	out := make([]term, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

func powerTerms(terms []term, p sitypes.Rational) ([]term, bool) {
	out := make([]term, len(terms))
	for i, t := range terms {
		v, ok := scaleExponent(t.power, p)
		if !ok {
			return nil, false
		}
		t.power = v
		out[i] = t
	}
	return dropZero(out), true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// coherentFor returns the coherent SI unit for d.
func (l *Library) coherentFor(d dims, exact bool) Ref {
	if exact {
		for _, r := range exactCoherent {
			if r.dims == d {
				return l.intern([]term{{root: r, power: 1}})
			}
		}
	}
	rd := d.reduce()
	if rd == (dims{}) {
		return l.intern(nil)
	}
	for _, r := range preferredCoherent {
		if r.dims == rd {
			return l.intern([]term{{root: r, power: 1}})
		}
	}
	var terms []term
	for b := range baseRoots {
		e := rd.net(b)
		if e == 0 {
			continue
		}
		t := term{root: baseRoots[b], power: e}
		if baseRoots[b] == rootGram {
			t.prefix = prefixesByExp[3]
		}
		terms = append(terms, t)
	}
	return l.intern(reduceTerms(terms))
}

func (l *Library) unitPair(a, b Ref, errOut *Ref) (*unit, *unit, bool) {
	ua, ok := l.unitOf(a)
	if !ok {
		l.fail(errOut, "invalid unit reference")
		return nil, nil, false
	}
	ub, ok := l.unitOf(b)
	if !ok {
		l.fail(errOut, "invalid unit reference")
		return nil, nil, false
	}
	return ua, ub, true
}

// UnitFromExpression parses a unit expression such as "kg•m/s^2". Numeric
// factors in the expression are returned through multiplier, which is 1 for a
// pure unit.
func (l *Library) UnitFromExpression(expr string, multiplier *float64, errOut *Ref) Ref {
	// the dimensionless unit renders as "", so a blank expression names it
	if strings.TrimSpace(expr) == "" {
		if multiplier != nil {
			*multiplier = 1
		}
		return l.UnitDimensionless()
	}
	q, err := parseQuantity(expr)
	if err != nil {
		return l.fail(errOut, "cannot parse unit %q: %v", expr, err)
	}
	if multiplier != nil {
		*multiplier = q.value
	}
	return l.intern(reduceTerms(q.terms))
}

// UnitFindWithName looks up a unit by name or plural name, such as "kilometers".
// It returns Null for unknown names.
func (l *Library) UnitFindWithName(name string) Ref {
	t, ok := lookupName(name)
	if !ok {
		return Null
	}
	return l.intern([]term{t})
}

// UnitDimensionless returns the dimensionless unit, whose symbol is empty.
func (l *Library) UnitDimensionless() Ref {
	return l.intern(nil)
}

// UnitCoherentSIForDimensionality returns the coherent SI unit for a dimensionality.
func (l *Library) UnitCoherentSIForDimensionality(d Ref, errOut *Ref) Ref {
	dd, ok := l.dimensionalityOf(d)
	if !ok {
		return l.fail(errOut, "invalid dimensionality reference")
	}
	return l.coherentFor(dd.dims, true)
}

// UnitByMultiplying returns the reduced product of a and b.
func (l *Library) UnitByMultiplying(a, b Ref, errOut *Ref) Ref {
	ua, ub, ok := l.unitPair(a, b, errOut)
	if !ok {
		return Null
	}
	return l.intern(reduceTerms(concatTerms(ua.terms, ub.terms)))
}

// UnitByMultiplyingWithoutReducing returns the product of a and b keeping every term.
func (l *Library) UnitByMultiplyingWithoutReducing(a, b Ref, errOut *Ref) Ref {
	ua, ub, ok := l.unitPair(a, b, errOut)
	if !ok {
		return Null
	}
	return l.intern(concatTerms(ua.terms, ub.terms))
}

// UnitByDividing returns the reduced quotient of a and b.
func (l *Library) UnitByDividing(a, b Ref, errOut *Ref) Ref {
	ua, ub, ok := l.unitPair(a, b, errOut)
	if !ok {
		return Null
	}
	return l.intern(reduceTerms(concatTerms(ua.terms, invertTerms(ub.terms))))
}

// UnitByDividingWithoutReducing returns the quotient of a and b keeping every term.
func (l *Library) UnitByDividingWithoutReducing(a, b Ref, errOut *Ref) Ref {
	ua, ub, ok := l.unitPair(a, b, errOut)
	if !ok {
		return Null
	}
	return l.intern(concatTerms(ua.terms, invertTerms(ub.terms)))
}

// UnitByRaisingToPower raises a to a rational power. Every term power of the
// result must be an integer.
func (l *Library) UnitByRaisingToPower(a Ref, power sitypes.Rational, errOut *Ref) Ref {
	terms, ok := l.powerUnit(a, power, true, errOut)
	if !ok {
		return Null
	}
	return l.intern(reduceTerms(terms))
}

// UnitByRaisingToPowerWithoutReducing is UnitByRaisingToPower without merging terms.
func (l *Library) UnitByRaisingToPowerWithoutReducing(a Ref, power sitypes.Rational, errOut *Ref) Ref {
	terms, ok := l.powerUnit(a, power, false, errOut)
	if !ok {
		return Null
	}
	return l.intern(terms)
}

func (l *Library) powerUnit(a Ref, power sitypes.Rational, reduce bool, errOut *Ref) ([]term, bool) {
	ua, ok := l.unitOf(a)
	if !ok {
		l.fail(errOut, "invalid unit reference")
		return nil, false
	}
	terms := ua.terms
	if reduce {
		terms = reduceTerms(terms)
	}
	terms, ok = powerTerms(terms, power)
	if !ok {
		l.fail(errOut, "cannot raise %s to the power %s: exponent is not an integer", ua.symbol, power)
		return nil, false
	}
	return terms, true
}

// UnitByTakingNthRoot takes the nth root of a. n must be positive and divide
// every term power.
func (l *Library) UnitByTakingNthRoot(a Ref, n int, errOut *Ref) Ref {
	if n <= 0 {
		return l.fail(errOut, "root %d must be a positive integer", n)
	}
	ua, ok := l.unitOf(a)
	if !ok {
		return l.fail(errOut, "invalid unit reference")
	}
	terms, ok := powerTerms(reduceTerms(ua.terms), sitypes.NewRational(1, n))
	if !ok {
		return l.fail(errOut, "cannot take root %d of %s: exponent is not divisible", n, ua.symbol)
	}
	return l.intern(reduceTerms(terms))
}

// UnitByReducing merges repeated terms of a.
func (l *Library) UnitByReducing(a Ref) Ref {
	ua, ok := l.unitOf(a)
	if !ok {
		return Null
	}
	return l.intern(reduceTerms(ua.terms))
}

// UnitToCoherentSI returns the coherent SI unit with the dimensionality of a.
func (l *Library) UnitToCoherentSI(a Ref) Ref {
	ua, ok := l.unitOf(a)
	if !ok {
		return Null
	}
	return l.coherentFor(ua.dims, ua.hasUnreducedRoot())
}

// UnitGetDimensionality returns the dimensionality of a. The result is
// borrowed and must not be released.
func (l *Library) UnitGetDimensionality(a Ref) Ref {
	ua, ok := l.unitOf(a)
	if !ok {
		return Null
	}
	return ua.dimRef
}

// UnitScaleToCoherentSI returns the factor converting a to its coherent SI unit.
func (l *Library) UnitScaleToCoherentSI(a Ref) float64 {
	ua, ok := l.unitOf(a)
	if !ok {
		return 0
	}
	return ua.scale
}

// UnitConversionFactor returns the factor converting values in from into to,
// or 0 if the units are not compatible.
func (l *Library) UnitConversionFactor(from, to Ref) float64 {
	uf, ok1 := l.unitOf(from)
	ut, ok2 := l.unitOf(to)
	if !ok1 || !ok2 || !uf.dims.sameReduced(ut.dims) {
		return 0
	}
	return uf.scale / ut.scale
}

// UnitConversion is UnitConversionFactor with error reporting.
func (l *Library) UnitConversion(from, to Ref, factor *float64, errOut *Ref) bool {
	uf, ut, ok := l.unitPair(from, to, errOut)
	if !ok {
		return false
	}
	if !uf.dims.sameReduced(ut.dims) {
		l.fail(errOut, "cannot convert %s to %s: dimensionalities %s and %s differ",
			displaySymbol(uf.symbol), displaySymbol(ut.symbol), uf.dims.symbol(), ut.dims.symbol())
		return false
	}
	if factor != nil {
		*factor = uf.scale / ut.scale
	}
	return true
}

func displaySymbol(s string) string {
	if s == "" {
		return "1"
	}
	return s
}

// UnitSymbol returns the symbol of a. The dimensionless unit has an empty symbol.
func (l *Library) UnitSymbol(a Ref) string {
	ua, ok := l.unitOf(a)
	if !ok {
		return ""
	}
	return ua.symbol
}

func (l *Library) UnitName(a Ref) string {
	ua, ok := l.unitOf(a)
	if !ok {
		return ""
	}
	return ua.name
}

func (l *Library) UnitPluralName(a Ref) string {
	ua, ok := l.unitOf(a)
	if !ok {
		return ""
	}
	return ua.plural
}

// UnitRootSymbol returns the unprefixed symbol of a single-term unit.
func (l *Library) UnitRootSymbol(a Ref) string {
	ua, ok := l.unitOf(a)
	if !ok || len(ua.terms) != 1 {
		return ""
	}
	return ua.terms[0].root.symbol
}

// UnitNumeratorPrefixAtIndex returns the SI prefix exponent applied to the
// coherent unit of base in the numerator of a, 0 if none.
func (l *Library) UnitNumeratorPrefixAtIndex(a Ref, base sitypes.Base) int {
	return l.basePrefix(a, base, 1)
}

// UnitDenominatorPrefixAtIndex is UnitNumeratorPrefixAtIndex for the denominator.
func (l *Library) UnitDenominatorPrefixAtIndex(a Ref, base sitypes.Base) int {
	return l.basePrefix(a, base, -1)
}

func (l *Library) basePrefix(a Ref, base sitypes.Base, sign int) int {
	ua, ok := l.unitOf(a)
	if !ok || base < 0 || int(base) >= sitypes.BaseCount {
		return 0
	}
	for _, t := range ua.terms {
		if t.root != baseRoots[base] || t.power*sign <= 0 {
			continue
		}
		return t.prefixExp()
	}
	return 0
}

func (l *Library) UnitIsSIBaseUnit(a Ref) bool {
	ua, ok := l.unitOf(a)
	return ok && ua.isSIBase()
}

// UnitIsCoherentSI reports whether a is built only from unprefixed coherent
// roots and the kilogram.
func (l *Library) UnitIsCoherentSI(a Ref) bool {
	ua, ok := l.unitOf(a)
	return ok && ua.isCoherentSI()
}

func (l *Library) UnitIsDerived(a Ref) bool {
	ua, ok := l.unitOf(a)
	return ok && !ua.dims.isBase() && ua.dims != (dims{})
}

func (l *Library) UnitIsDimensionless(a Ref) bool {
	ua, ok := l.unitOf(a)
	return ok && ua.dims.isDimensionless()
}

// UnitEquivalent reports whether a and b convert one to one.
func (l *Library) UnitEquivalent(a, b Ref) bool {
	ua, ub, ok := l.unitPair(a, b, nil)
	if !ok || !ua.dims.sameReduced(ub.dims) {
		return false
	}
	return math.Abs(ua.scale-ub.scale) <= 1e-12*math.Max(math.Abs(ua.scale), math.Abs(ub.scale))
}

func (l *Library) UnitHasSameReducedDimensionality(a, b Ref) bool {
	ua, ub, ok := l.unitPair(a, b, nil)
	return ok && ua.dims.sameReduced(ub.dims)
}

func (l *Library) UnitHasSameDimensionality(a, b Ref) bool {
	ua, ub, ok := l.unitPair(a, b, nil)
	return ok && ua.dims == ub.dims
}
