package si

import (
	"sync"

	"github.com/wippyai/sitypes/bridge"
	"github.com/wippyai/sitypes/engine"
	"github.com/wippyai/sitypes/errors"
)

func library() *engine.Library {
	return engine.Shared()
}

// Live returns the number of foreign objects currently owned by the process.
// Interned units are not counted.
func Live() int {
	return library().Live()
}

// units maps interned unit references to their wrappers so that equal units
// are the same *Unit.
var units sync.Map // engine.Ref -> *Unit

func unitFor(ref engine.Ref) (*Unit, error) {
	if ref == engine.Null {
		return nil, errors.InvalidHandle("unit")
	}
	if u, ok := units.Load(ref); ok {
		return u.(*Unit), nil
	}
	h, err := bridge.WrapBorrowed(library(), ref, nil)
	if err != nil {
		return nil, err
	}
	u, _ := units.LoadOrStore(ref, &Unit{h: h})
	return u.(*Unit), nil
}

func parseFailure(expr string) bridge.Failure {
	return func(msg string) *errors.Error {
		return errors.Parse(expr, msg)
	}
}

func algebraFailure(op string) bridge.Failure {
	return bridge.As(errors.PhaseAlgebra, errors.KindAlgebra, op)
}

// convertFailure reports a failed conversion between from and to. The engine
// message, when present, replaces the generic detail.
func convertFailure(op string, from, to *Unit) bridge.Failure {
	return func(msg string) *errors.Error {
		e := errors.IncompatibleUnits(unitLabel(from), unitLabel(to))
		e.Op = op
		if msg != "" {
			e.Detail = msg
		}
		return e
	}
}

func mismatchFailure(op string, a, b *Scalar) bridge.Failure {
	return func(msg string) *errors.Error {
		e := errors.DimensionalMismatch(op, a.Dimensionality().Symbol(), b.Dimensionality().Symbol())
		if msg != "" {
			e.Detail = msg
		}
		return e
	}
}

func unitLabel(u *Unit) string {
	if sym := u.Symbol(); sym != "" {
		return sym
	}
	return "1"
}
