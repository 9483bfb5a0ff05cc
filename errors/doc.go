// Package errors provides structured error types for the sitypes module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Kinds form the module's error taxonomy: parse, algebra, dimensional mismatch,
// incompatible units, unsupported exponent, unexpected multiplier, invalid handle,
// unhashable value and incomparable.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAlgebra, errors.KindAlgebra).
//		Op("nth_root").
//		Operands("L^3").
//		Detail("exponent 3 is not divisible by 2").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.IncompatibleUnits("m", "s")
//	err := errors.Parse("L+T", "addition is not allowed")
//
// Every Kind has a sentinel that matches through errors.Is regardless of Phase:
//
//	if errors.Is(err, sierrors.ErrDimensionalMismatch) { ... }
package errors
