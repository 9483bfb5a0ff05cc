// Package bridge carries references from the manually reference-counted unit
// library into Go.
//
// Every reference crosses the boundary through exactly one of three wrappers,
// chosen when the reference is wrapped and never changed afterwards:
//
//	WrapOwned    - the caller's reference now belongs to the Handle
//	WrapBorrowed - a view; the Handle never releases and keeps its owner alive
//	WrapCopy     - the library duplicates the object and the Handle owns the copy
//
// Close on an owned Handle releases the reference once; repeated Close calls
// are no-ops. A runtime cleanup releases handles that are dropped without Close.
//
// Foreign calls report failure through an error out-parameter. Call and Check
// read the error string, release it and translate it into an *errors.Error
// using a Failure chosen by the caller:
//
//	h, err := bridge.CallOwned(lib, "parse", bridge.As(errors.PhaseParse, errors.KindParse, "parse"),
//		func(errOut *engine.Ref) engine.Ref {
//			return lib.ScalarFromExpression(expr, errOut)
//		})
package bridge
