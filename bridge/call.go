package bridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/sitypes/engine"
	"github.com/wippyai/sitypes/errors"
)

// Failure builds the host error for a failed foreign call from the library's
// diagnostic text.
type Failure func(msg string) *errors.Error

// As returns a Failure producing errors of the given phase and kind for op.
func As(phase errors.Phase, kind errors.Kind, op string) Failure {
	return func(msg string) *errors.Error {
		return errors.New(phase, kind).Op(op).Detail("%s", msg).Build()
	}
}

// takeString reads and releases an error string. It returns "" for Null.
func takeString(lib Lib, ref engine.Ref) string {
	if ref == engine.Null {
		return ""
	}
	msg, _ := lib.StringValue(ref)
	lib.Release(ref)
	return msg
}

// Call runs a foreign function that reports failure by returning Null and an
// error string through errOut. The error string is always released. A
// diagnostic left behind by a successful call is logged and discarded.
func Call(lib Lib, op string, fail Failure, fn func(errOut *engine.Ref) engine.Ref) (engine.Ref, error) {
	var errRef engine.Ref
	r := fn(&errRef)
	msg := takeString(lib, errRef)
	if r == engine.Null {
		if msg == "" {
			msg = op + " failed"
		}
		return engine.Null, fail(msg)
	}
	if errRef != engine.Null {
		debug("discarded diagnostic", zap.String("op", op), zap.String("message", msg))
	}
	return r, nil
}

// Check is Call for foreign functions that report success as a bool.
func Check(lib Lib, op string, fail Failure, fn func(errOut *engine.Ref) bool) error {
	var errRef engine.Ref
	ok := fn(&errRef)
	msg := takeString(lib, errRef)
	if !ok {
		if msg == "" {
			msg = op + " failed"
		}
		return fail(msg)
	}
	if errRef != engine.Null {
		debug("discarded diagnostic", zap.String("op", op), zap.String("message", msg))
	}
	return nil
}

// CallOwned is Call followed by WrapOwned.
func CallOwned(lib Lib, op string, fail Failure, fn func(errOut *engine.Ref) engine.Ref) (*Handle, error) {
	r, err := Call(lib, op, fail, fn)
	if err != nil {
		return nil, err
	}
	return WrapOwned(lib, r)
}
