package main

import (
	"strconv"
	"strings"

	"github.com/wippyai/sitypes/errors"
	"github.com/wippyai/sitypes/si"
)

// line is one calculation: A [op B] [-> UNIT].
type line struct {
	left, op, right string
	target          string
}

var operators = map[string]bool{"+": true, "-": true, "*": true, "/": true, "^": true, "root": true}

// parseLine splits text at the first top-level operator field. Operators
// must be surrounded by whitespace; inside a scalar expression "m/s" is a
// unit and "(10 m / 2 s)" is grouped.
func parseLine(text string) (line, error) {
	var l line
	text = strings.TrimSpace(text)
	if i := strings.LastIndex(text, "->"); i >= 0 {
		l.target = strings.TrimSpace(text[i+2:])
		text = strings.TrimSpace(text[:i])
		if l.target == "" {
			return l, errors.InvalidInput(errors.PhaseParse, "missing unit after ->")
		}
	}
	if text == "" {
		return l, errors.InvalidInput(errors.PhaseParse, "empty expression")
	}

	fields := strings.Fields(text)
	depth := 0
	for i, f := range fields {
		if i > 0 && depth == 0 && operators[f] {
			l.left = strings.Join(fields[:i], " ")
			l.op = f
			l.right = strings.Join(fields[i+1:], " ")
			if l.right == "" {
				return l, errors.InvalidInput(errors.PhaseParse, "missing operand after "+f)
			}
			return l, nil
		}
		depth += strings.Count(f, "(") - strings.Count(f, ")")
	}
	l.left = text
	return l, nil
}

// eval computes l. The caller closes the result.
func (l line) eval() (*si.Scalar, error) {
	a, err := si.ParseScalar(l.left)
	if err != nil {
		return nil, err
	}
	if l.op == "" {
		return convertTo(a, l.target)
	}
	defer a.Close()

	var r *si.Scalar
	switch l.op {
	case "^":
		p, perr := strconv.ParseFloat(l.right, 64)
		if perr != nil {
			return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, perr, "exponent "+l.right)
		}
		r, err = a.Pow(p)
	case "root":
		n, perr := strconv.Atoi(l.right)
		if perr != nil {
			return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, perr, "root "+l.right)
		}
		r, err = a.Root(n)
	default:
		b, berr := si.ParseScalar(l.right)
		if berr != nil {
			return nil, berr
		}
		defer b.Close()
		switch l.op {
		case "+":
			r, err = a.Add(b)
		case "-":
			r, err = a.Sub(b)
		case "*":
			r, err = a.Mul(b)
		case "/":
			r, err = a.Div(b)
		}
	}
	if err != nil {
		return nil, err
	}
	return convertTo(r, l.target)
}

// convertTo converts s to target and closes s. An empty target returns s.
func convertTo(s *si.Scalar, target string) (*si.Scalar, error) {
	if target == "" {
		return s, nil
	}
	defer s.Close()
	return s.ConvertToUnit(target)
}

// evalLine parses and evaluates text.
func evalLine(text string) (*si.Scalar, error) {
	l, err := parseLine(text)
	if err != nil {
		return nil, err
	}
	return l.eval()
}
