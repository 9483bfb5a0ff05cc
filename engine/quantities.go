package engine

import (
	"sort"
	"strings"
)

// Exponent order: L, M, T, I, ϴ, N, J.
var quantities = map[string]dims{
	"dimensionless":         {},
	"length":                netDims(1),
	"mass":                  netDims(0, 1),
	"time":                  netDims(0, 0, 1),
	"current":               netDims(0, 0, 0, 1),
	"electric current":      netDims(0, 0, 0, 1),
	"temperature":           netDims(0, 0, 0, 0, 1),
	"amount":                netDims(0, 0, 0, 0, 0, 1),
	"amount of substance":   netDims(0, 0, 0, 0, 0, 1),
	"luminous intensity":    netDims(0, 0, 0, 0, 0, 0, 1),
	"plane angle":           {num: [7]int{1}, den: [7]int{1}},
	"solid angle":           {num: [7]int{2}, den: [7]int{2}},
	"area":                  netDims(2),
	"volume":                netDims(3),
	"velocity":              netDims(1, 0, -1),
	"speed":                 netDims(1, 0, -1),
	"acceleration":          netDims(1, 0, -2),
	"wavenumber":            netDims(-1),
	"density":               netDims(-3, 1),
	"mass density":          netDims(-3, 1),
	"frequency":             netDims(0, 0, -1),
	"force":                 netDims(1, 1, -2),
	"pressure":              netDims(-1, 1, -2),
	"stress":                netDims(-1, 1, -2),
	"energy":                netDims(2, 1, -2),
	"work":                  netDims(2, 1, -2),
	"heat":                  netDims(2, 1, -2),
	"power":                 netDims(2, 1, -3),
	"momentum":              netDims(1, 1, -1),
	"charge":                netDims(0, 0, 1, 1),
	"electric charge":       netDims(0, 0, 1, 1),
	"voltage":               netDims(2, 1, -3, -1),
	"electric potential":    netDims(2, 1, -3, -1),
	"resistance":            netDims(2, 1, -3, -2),
	"conductance":           netDims(-2, -1, 3, 2),
	"capacitance":           netDims(-2, -1, 4, 2),
	"inductance":            netDims(2, 1, -2, -2),
	"magnetic flux":         netDims(2, 1, -2, -1),
	"magnetic flux density": netDims(0, 1, -2, -1),
	"luminous flux":         {num: [7]int{2, 0, 0, 0, 0, 0, 1}, den: [7]int{2}},
	"illuminance":           {num: [7]int{2, 0, 0, 0, 0, 0, 1}, den: [7]int{4}},
	"amount concentration":  netDims(-3, 0, 0, 0, 0, 1),
	"catalytic activity":    netDims(0, 0, -1, 0, 0, 1),
	"dynamic viscosity":     netDims(-1, 1, -1),
}

var quantityReplacer = strings.NewReplacer("_", " ", "-", " ")

func lookupQuantity(name string) (dims, bool) {
	key := quantityReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
	d, ok := quantities[strings.Join(strings.Fields(key), " ")]
	return d, ok
}

// Quantities returns the names accepted by DimensionalityForQuantity, sorted.
func Quantities() []string {
	names := make([]string, 0, len(quantities))
	for name := range quantities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
