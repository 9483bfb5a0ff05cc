package engine

import (
	"math"
	"sort"
	"strings"
)

type prefix struct {
	symbol string
	name   string
	exp    int
}

var prefixes = []*prefix{
	{"q", "quecto", -30},
	{"r", "ronto", -27},
	{"y", "yocto", -24},
	{"z", "zepto", -21},
	{"a", "atto", -18},
	{"f", "femto", -15},
	{"p", "pico", -12},
	{"n", "nano", -9},
	{"µ", "micro", -6},
	{"m", "milli", -3},
	{"c", "centi", -2},
	{"d", "deci", -1},
	{"da", "deca", 1},
	{"h", "hecto", 2},
	{"k", "kilo", 3},
	{"M", "mega", 6},
	{"G", "giga", 9},
	{"T", "tera", 12},
	{"P", "peta", 15},
	{"E", "exa", 18},
	{"Z", "zetta", 21},
	{"Y", "yotta", 24},
	{"R", "ronna", 27},
	{"Q", "quetta", 30},
}

// root is a named unit that terms are built from.
type root struct {
	symbol     string
	name       string
	plural     string
	dims       dims
	scale      float64
	exp10      int
	prefixable bool
	coherent   bool
	base       bool
}

var (
	planeAngle = dims{num: [7]int{1}, den: [7]int{1}}
	solidAngle = dims{num: [7]int{2}, den: [7]int{2}}
)

var (
	rootMeter     = &root{symbol: "m", name: "meter", plural: "meters", dims: netDims(1), scale: 1, prefixable: true, coherent: true, base: true}
	rootGram      = &root{symbol: "g", name: "gram", plural: "grams", dims: netDims(0, 1), scale: 1, exp10: -3, prefixable: true}
	rootSecond    = &root{symbol: "s", name: "second", plural: "seconds", dims: netDims(0, 0, 1), scale: 1, prefixable: true, coherent: true, base: true}
	rootAmpere    = &root{symbol: "A", name: "ampere", plural: "amperes", dims: netDims(0, 0, 0, 1), scale: 1, prefixable: true, coherent: true, base: true}
	rootKelvin    = &root{symbol: "K", name: "kelvin", plural: "kelvin", dims: netDims(0, 0, 0, 0, 1), scale: 1, prefixable: true, coherent: true, base: true}
	rootMole      = &root{symbol: "mol", name: "mole", plural: "moles", dims: netDims(0, 0, 0, 0, 0, 1), scale: 1, prefixable: true, coherent: true, base: true}
	rootCandela   = &root{symbol: "cd", name: "candela", plural: "candelas", dims: netDims(0, 0, 0, 0, 0, 0, 1), scale: 1, prefixable: true, coherent: true, base: true}
	rootRadian    = &root{symbol: "rad", name: "radian", plural: "radians", dims: planeAngle, scale: 1, prefixable: true, coherent: true}
	rootSteradian = &root{symbol: "sr", name: "steradian", plural: "steradians", dims: solidAngle, scale: 1, prefixable: true, coherent: true}
)

// baseRoots holds the unit used for each base dimension in coherent SI units.
var baseRoots = [7]*root{rootMeter, rootGram, rootSecond, rootAmpere, rootKelvin, rootMole, rootCandela}

func coherentRoot(symbol, name, plural string, d dims) *root {
	return &root{symbol: symbol, name: name, plural: plural, dims: d, scale: 1, prefixable: true, coherent: true}
}

func otherRoot(symbol, name, plural string, d dims, scale float64, exp10 int, prefixable bool) *root {
	return &root{symbol: symbol, name: name, plural: plural, dims: d, scale: scale, exp10: exp10, prefixable: prefixable}
}

var (
	rootNewton  = coherentRoot("N", "newton", "newtons", netDims(1, 1, -2))
	rootJoule   = coherentRoot("J", "joule", "joules", netDims(2, 1, -2))
	rootWatt    = coherentRoot("W", "watt", "watts", netDims(2, 1, -3))
	rootPascal  = coherentRoot("Pa", "pascal", "pascals", netDims(-1, 1, -2))
	rootCoulomb = coherentRoot("C", "coulomb", "coulombs", netDims(0, 0, 1, 1))
	rootVolt    = coherentRoot("V", "volt", "volts", netDims(2, 1, -3, -1))
	rootOhm     = coherentRoot("Ω", "ohm", "ohms", netDims(2, 1, -3, -2))
	rootFarad   = coherentRoot("F", "farad", "farads", netDims(-2, -1, 4, 2))
	rootSiemens = coherentRoot("S", "siemens", "siemens", netDims(-2, -1, 3, 2))
	rootWeber   = coherentRoot("Wb", "weber", "webers", netDims(2, 1, -2, -1))
	rootTesla   = coherentRoot("T", "tesla", "teslas", netDims(0, 1, -2, -1))
	rootHenry   = coherentRoot("H", "henry", "henries", netDims(2, 1, -2, -2))
	rootLumen   = coherentRoot("lm", "lumen", "lumens", dims{num: [7]int{2, 0, 0, 0, 0, 0, 1}, den: [7]int{2}})
	rootLux     = coherentRoot("lx", "lux", "lux", dims{num: [7]int{2, 0, 0, 0, 0, 0, 1}, den: [7]int{4}})
)

var allRoots = []*root{
	rootMeter, rootGram, rootSecond, rootAmpere, rootKelvin, rootMole, rootCandela,
	rootNewton, rootJoule, rootWatt, rootPascal, rootCoulomb, rootVolt, rootOhm,
	rootFarad, rootSiemens, rootWeber, rootTesla, rootHenry, rootLumen, rootLux,
	coherentRoot("Hz", "hertz", "hertz", netDims(0, 0, -1)),
	coherentRoot("Bq", "becquerel", "becquerels", netDims(0, 0, -1)),
	coherentRoot("Gy", "gray", "grays", netDims(2, 0, -2)),
	coherentRoot("Sv", "sievert", "sieverts", netDims(2, 0, -2)),
	coherentRoot("kat", "katal", "katals", netDims(0, 0, -1, 0, 0, 1)),
	rootRadian, rootSteradian,

	otherRoot("min", "minute", "minutes", netDims(0, 0, 1), 60, 0, false),
	otherRoot("h", "hour", "hours", netDims(0, 0, 1), 3600, 0, false),
	otherRoot("d", "day", "days", netDims(0, 0, 1), 86400, 0, false),
	otherRoot("L", "liter", "liters", netDims(3), 1, -3, true),
	otherRoot("l", "liter", "liters", netDims(3), 1, -3, true),
	otherRoot("t", "tonne", "tonnes", netDims(0, 1), 1, 3, true),
	otherRoot("eV", "electronvolt", "electronvolts", netDims(2, 1, -2), 1.602176634, -19, true),
	otherRoot("bar", "bar", "bars", netDims(-1, 1, -2), 1, 5, true),
	otherRoot("atm", "atmosphere", "atmospheres", netDims(-1, 1, -2), 101325, 0, false),
	otherRoot("Torr", "torr", "torr", netDims(-1, 1, -2), 101325.0/760, 0, false),
	otherRoot("psi", "pound-force per square inch", "pounds-force per square inch", netDims(-1, 1, -2), 6894.757293168361, 0, false),
	otherRoot("ft", "foot", "feet", netDims(1), 0.3048, 0, false),
	otherRoot("in", "inch", "inches", netDims(1), 0.0254, 0, false),
	otherRoot("yd", "yard", "yards", netDims(1), 0.9144, 0, false),
	otherRoot("mi", "mile", "miles", netDims(1), 1609.344, 0, false),
	otherRoot("lb", "pound", "pounds", netDims(0, 1), 0.45359237, 0, false),
	otherRoot("lbf", "pound-force", "pounds-force", netDims(1, 1, -2), 4.4482216152605, 0, false),
	otherRoot("cal", "calorie", "calories", netDims(2, 1, -2), 4.184, 0, true),
	otherRoot("deg", "degree", "degrees", planeAngle, math.Pi/180, 0, false),
	otherRoot("°", "degree", "degrees", planeAngle, math.Pi/180, 0, false),
	otherRoot("Å", "ångström", "ångströms", netDims(1), 1, -10, false),
	otherRoot("%", "percent", "percent", dims{}, 1, -2, false),
	otherRoot("ppm", "part per million", "parts per million", dims{}, 1, -6, false),
}

// Coherent named units chosen for a dimensionality when one exists.
// exactCoherent roots have unreduced dimensionalities and only match exactly.
var (
	exactCoherent     = []*root{rootRadian, rootSteradian, rootLumen, rootLux}
	preferredCoherent = []*root{
		rootNewton, rootJoule, rootWatt, rootPascal, rootCoulomb, rootVolt,
		rootOhm, rootFarad, rootSiemens, rootWeber, rootTesla, rootHenry,
	}
)

var (
	rootsBySymbol = make(map[string]*root)
	termsByName   = make(map[string]term)

	// prefixes ordered longest symbol first so "da" wins over "d"
	prefixesByLength []*prefix
	prefixesByExp    = make(map[int]*prefix)
)

func init() {
	for _, r := range allRoots {
		rootsBySymbol[r.symbol] = r
	}
	for _, r := range allRoots {
		addName(r.name, r.plural, term{root: r, power: 1})
		if !r.prefixable {
			continue
		}
		for _, p := range prefixes {
			if shadowed(p, r) {
				continue
			}
			addName(p.name+r.name, p.name+r.plural, term{prefix: p, root: r, power: 1})
		}
	}
	addName("metre", "metres", term{root: rootMeter, power: 1})
	addName("litre", "litres", term{root: rootsBySymbol["L"], power: 1})

	prefixesByLength = append(prefixesByLength, prefixes...)
	sort.SliceStable(prefixesByLength, func(i, j int) bool {
		return len(prefixesByLength[i].symbol) > len(prefixesByLength[j].symbol)
	})
	for _, p := range prefixes {
		prefixesByExp[p.exp] = p
	}
}

// shadowed reports whether p applied to r spells another root's symbol, as
// femto-tonne does with the foot. Such combinations do not exist.
func shadowed(p *prefix, r *root) bool {
	_, ok := rootsBySymbol[p.symbol+r.symbol]
	return ok
}

func addName(name, plural string, t term) {
	if _, ok := termsByName[name]; !ok {
		termsByName[name] = t
	}
	if _, ok := termsByName[plural]; !ok {
		termsByName[plural] = t
	}
}

// resolveSymbol maps a symbol such as "km" to a prefixed root.
// Exact root symbols win, so "min" is a minute and "cd" a candela.
func resolveSymbol(s string) (term, bool) {
	if r, ok := rootsBySymbol[s]; ok {
		return term{root: r, power: 1}, true
	}
	for _, p := range prefixesByLength {
		rest, ok := strings.CutPrefix(s, p.symbol)
		if !ok || rest == "" {
			continue
		}
		if r, ok := rootsBySymbol[rest]; ok && r.prefixable {
			return term{prefix: p, root: r, power: 1}, true
		}
	}
	// ASCII spelling of micro
	if rest, ok := strings.CutPrefix(s, "u"); ok {
		if r, ok := rootsBySymbol[rest]; ok && r.prefixable {
			return term{prefix: prefixesByExp[-6], root: r, power: 1}, true
		}
	}
	if t, ok := termsByName[strings.ToLower(s)]; ok {
		return t, true
	}
	return term{}, false
}

// lookupName resolves a unit name like "kilometers" or "newton".
func lookupName(name string) (term, bool) {
	t, ok := termsByName[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}
