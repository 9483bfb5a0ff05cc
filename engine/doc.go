// Package engine is the in-process unit library behind package si.
//
// The library exposes a flat, handle-based API in the style of a C library:
// every object is an opaque Ref, every object that is not interned carries a
// manual reference count, and fallible calls report errors through an
// out-parameter holding a string object.
//
// # Object Kinds
//
//	Dimensionality - seven base-dimension exponents, numerator and denominator kept apart
//	Unit           - product of prefixed roots with integer powers; interned by terms
//	Scalar         - real or complex value paired with a unit
//	String         - error messages and diagnostics
//
// # Ownership
//
// A Ref returned by a constructor or an algebraic operation is owned by the
// caller and must be released exactly once:
//
//	var errRef engine.Ref
//	s := lib.ScalarFromExpression("9.81 m/s^2", &errRef)
//	if s == engine.Null {
//	    msg, _ := lib.StringValue(errRef)
//	    lib.Release(errRef)
//	    return errors.New(msg)
//	}
//	defer lib.Release(s)
//
// Units are immortal, so releasing one is harmless. The unit of a scalar and
// the dimensionality of a unit are borrowed views and must not be released.
// Copy duplicates an object with a fresh reference count.
//
// # Expressions
//
// Unit, scalar and dimensionality expressions share one grammar: products of
// symbol[^exponent] factors joined by '*', '/' or juxtaposition, with
// parentheses. Exponents are signed integers or parenthesized rationals such
// as m^(1/2). Addition and subtraction are rejected. Common spelling variants
// (µ and μ, • · × for '*', ÷ for '/', superscript digits) are normalized.
//
// # Reduction
//
// Dimensionality and unit operations come in reducing and non-reducing
// variants. Reduction cancels numerator against denominator exponents for
// dimensionalities and merges repeated prefix+root terms for units, so
// m•m/m reduces to m while the non-reducing product keeps every term.
package engine
