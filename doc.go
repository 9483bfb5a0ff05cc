// Package sitypes provides a Go binding for an SI units library and a physical-quantity
// algebra built on top of it.
//
// The wrapped library manages its objects through opaque handles with explicit
// retain/release semantics. This module bridges that discipline into Go and exposes
// dimensionalities, units and scalar quantities whose arithmetic is dimensionally checked.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	sitypes/             Root package with shared value types (Rational, Base)
//	├── si/              High-level API: Dimensionality, Unit and Scalar algebra
//	├── bridge/          Ownership bridge (owned/borrowed/copied handles) and error translation
//	├── engine/          The wrapped unit library: handle ABI, expression parser, unit tables
//	├── resource/        Reference-counted handle table used by the engine
//	├── errors/          Structured error types for the error taxonomy
//	├── config/          Configuration loading for the siq command
//	└── cmd/siq/         Command line calculator and interactive REPL
//
// # Quick Start
//
// Parse and combine quantities:
//
//	a, err := si.ParseScalar("5 m")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Close()
//
//	b, _ := si.ParseScalar("3 ft")
//	defer b.Close()
//
//	sum, err := a.Add(b)
//	fmt.Println(sum) // "5.9144 m"
//
// # Dimensional Safety
//
// Every arithmetic operation checks dimensionality:
//
//   - Add/Sub require the same reduced dimensionality and harmonize into the left unit
//   - Mul/Div always succeed and combine units
//   - Pow accepts integers and exact reciprocals of positive integers
//   - Compare fails across dimensionalities, Equal reports false
//
// # Ownership
//
// Scalars own their foreign handle. Close releases it exactly once; a runtime cleanup
// releases it if Close is never called. Units and dimensionalities obtained from a scalar
// are borrowed views that keep the scalar reachable.
package sitypes
