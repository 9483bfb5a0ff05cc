package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse   Phase = "parse"   // expression parsing
	PhaseAlgebra Phase = "algebra" // multiply/divide/power/root
	PhaseConvert Phase = "convert" // unit conversion
	PhaseCompare Phase = "compare" // ordering and equality
	PhaseHash    Phase = "hash"    // hashing
	PhaseBridge  Phase = "bridge"  // handle wrapping and release
	PhaseEncode  Phase = "encode"  // wire encoding
	PhaseDecode  Phase = "decode"  // wire decoding
	PhaseConfig  Phase = "config"  // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindParse                Kind = "parse_error"
	KindAlgebra              Kind = "algebra_error"
	KindDimensionalMismatch  Kind = "dimensional_mismatch"
	KindIncompatibleUnits    Kind = "incompatible_units"
	KindUnsupportedExponent  Kind = "unsupported_exponent"
	KindUnexpectedMultiplier Kind = "unexpected_multiplier"
	KindInvalidHandle        Kind = "invalid_handle"
	KindUnhashable           Kind = "unhashable_value"
	KindIncomparable         Kind = "incomparable"
	KindInvalidInput         Kind = "invalid_input"
)

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrParse                = &Error{Kind: KindParse}
	ErrAlgebra              = &Error{Kind: KindAlgebra}
	ErrDimensionalMismatch  = &Error{Kind: KindDimensionalMismatch}
	ErrIncompatibleUnits    = &Error{Kind: KindIncompatibleUnits}
	ErrUnsupportedExponent  = &Error{Kind: KindUnsupportedExponent}
	ErrUnexpectedMultiplier = &Error{Kind: KindUnexpectedMultiplier}
	ErrInvalidHandle        = &Error{Kind: KindInvalidHandle}
	ErrUnhashable           = &Error{Kind: KindUnhashable}
	ErrIncomparable         = &Error{Kind: KindIncomparable}
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Op       string
	Expr     string
	Detail   string
	Operands []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if len(e.Operands) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Operands, ", "))
		b.WriteByte(')')
	}

	if e.Expr != "" {
		b.WriteString(": expression ")
		b.WriteString(fmt.Sprintf("%q", e.Expr))
	}

	if e.Detail != "" {
		if e.Expr != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Operands sets the operand descriptions
func (b *Builder) Operands(operands ...string) *Builder {
	b.err.Operands = operands
	return b
}

// Expr sets the offending expression
func (b *Builder) Expr(expr string) *Builder {
	b.err.Expr = expr
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the error taxonomy

// Parse creates a malformed-expression error
func Parse(expr, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindParse,
		Expr:   expr,
		Detail: detail,
	}
}

// Algebra creates an error for an operation without a valid algebraic result
func Algebra(op, detail string) *Error {
	return &Error{
		Phase:  PhaseAlgebra,
		Kind:   KindAlgebra,
		Op:     op,
		Detail: detail,
	}
}

// DimensionalMismatch creates an error for an additive operation across dimensionalities
func DimensionalMismatch(op, left, right string) *Error {
	return &Error{
		Phase:    PhaseAlgebra,
		Kind:     KindDimensionalMismatch,
		Op:       op,
		Operands: []string{left, right},
		Detail:   fmt.Sprintf("dimensionality %s does not match %s", left, right),
	}
}

// IncompatibleUnits creates a conversion error between unrelated dimensionalities
func IncompatibleUnits(from, to string) *Error {
	return &Error{
		Phase:    PhaseConvert,
		Kind:     KindIncompatibleUnits,
		Operands: []string{from, to},
		Detail:   fmt.Sprintf("cannot convert %q to %q", from, to),
	}
}

// UnsupportedExponent creates an error for a fractional power with no root interpretation
func UnsupportedExponent(exponent float64) *Error {
	return &Error{
		Phase:  PhaseAlgebra,
		Kind:   KindUnsupportedExponent,
		Op:     "power",
		Value:  exponent,
		Detail: fmt.Sprintf("exponent %v is neither an integer nor the reciprocal of a positive integer", exponent),
	}
}

// UnexpectedMultiplier creates an error for a unit expression that encodes a scaled quantity
func UnexpectedMultiplier(expr string, multiplier float64) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindUnexpectedMultiplier,
		Expr:   expr,
		Value:  multiplier,
		Detail: fmt.Sprintf("unit expression carries multiplier %v, expected 1", multiplier),
	}
}

// InvalidHandle creates an error for a null or released foreign handle
func InvalidHandle(what string) *Error {
	return &Error{
		Phase:  PhaseBridge,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("invalid %s handle", what),
	}
}

// Unhashable creates an error for hashing a complex, infinite or NaN value
func Unhashable(value any, reason string) *Error {
	return &Error{
		Phase:  PhaseHash,
		Kind:   KindUnhashable,
		Value:  value,
		Detail: reason,
	}
}

// Incomparable creates an ordering error between incompatible quantities
func Incomparable(left, right, detail string) *Error {
	return &Error{
		Phase:    PhaseCompare,
		Kind:     KindIncomparable,
		Operands: []string{left, right},
		Detail:   detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
