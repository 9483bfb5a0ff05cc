// Package si provides dimensionally checked physical quantities.
//
// Three types cover the algebra:
//
//	Dimensionality - exponents over L, M, T, I, ϴ, N, J
//	Unit           - an interned unit such as kg•m/s^2; compare with ==
//	Scalar         - a real or complex value in a unit
//
// Values are parsed from expressions:
//
//	g, err := si.ParseScalar("9.81 m/s^2")
//	if err != nil {
//	    return err
//	}
//	defer g.Close()
//
//	t, _ := si.ScalarOf(2, "s")
//	defer t.Close()
//
//	v, err := g.Mul(t) // 19.62 m/s
//
// Addition and subtraction require operands of the same reduced
// dimensionality and return the result in the left operand's unit. Mul and
// Div always succeed dimensionally. Numbers mix in through the package-level
// functions:
//
//	twice, err := si.Mul(si.Real(2), v)
//
// Scalars and Dimensionalities own foreign objects and should be closed.
// Units are interned and never need closing. A Dimensionality obtained from
// a Unit or Scalar is a borrowed view.
//
// Errors carry a Kind from package errors; test them with errors.Is against
// the sentinels ErrParse, ErrDimensionalMismatch, ErrIncompatibleUnits and so on.
package si
