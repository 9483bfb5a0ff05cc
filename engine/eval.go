package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/wippyai/sitypes/engine/internal/parser"
	"github.com/wippyai/sitypes/engine/internal/token"
)

// quantity is a numeric factor times a product of unit terms.
type quantity struct {
	terms []term
	value float64
}

func parseQuantity(expr string) (quantity, error) {
	n, err := parser.Parse(expr)
	if err != nil {
		return quantity{}, err
	}
	return evalQuantity(n)
}

func evalQuantity(n parser.Node) (quantity, error) {
	switch n := n.(type) {
	case *parser.Number:
		return quantity{value: n.Value}, nil
	case *parser.Symbol:
		switch strings.ToLower(n.Name) {
		case "inf", "infinity":
			return quantity{value: math.Inf(1)}, nil
		case "nan":
			return quantity{value: math.NaN()}, nil
		}
		t, ok := resolveSymbol(n.Name)
		if !ok {
			return quantity{}, fmt.Errorf("position %d: unknown unit %q", n.Pos, n.Name)
		}
		return quantity{value: 1, terms: []term{t}}, nil
	case *parser.Binary:
		left, err := evalQuantity(n.Left)
		if err != nil {
			return quantity{}, err
		}
		right, err := evalQuantity(n.Right)
		if err != nil {
			return quantity{}, err
		}
		if n.Op == token.Div {
			if right.value == 0 {
				return quantity{}, fmt.Errorf("division by zero")
			}
			return quantity{
				value: left.value / right.value,
				terms: concatTerms(left.terms, invertTerms(right.terms)),
			}, nil
		}
		return quantity{
			value: left.value * right.value,
			terms: concatTerms(left.terms, right.terms),
		}, nil
	case *parser.Power:
		base, err := evalQuantity(n.Base)
		if err != nil {
			return quantity{}, err
		}
		terms, ok := powerTerms(reduceTerms(base.terms), n.Exp)
		if !ok {
			return quantity{}, fmt.Errorf("power %s of %s has a fractional exponent", n.Exp, renderSymbol(base.terms))
		}
		return quantity{value: math.Pow(base.value, n.Exp.Float()), terms: terms}, nil
	case *parser.Negate:
		x, err := evalQuantity(n.X)
		if err != nil {
			return quantity{}, err
		}
		x.value = -x.value
		return x, nil
	}
	return quantity{}, fmt.Errorf("unsupported expression")
}
