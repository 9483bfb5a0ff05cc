package bridge

import (
	"strings"
	"testing"

	"github.com/wippyai/sitypes/engine"
	"github.com/wippyai/sitypes/errors"
)

var parseFailure = As(errors.PhaseParse, errors.KindParse, "parse")

func TestCall_Success(t *testing.T) {
	lib := newFakeLib()
	want := lib.create()

	r, err := Call(lib, "op", parseFailure, func(errOut *engine.Ref) engine.Ref {
		return want
	})
	if err != nil || r != want {
		t.Fatalf("Call = %v, %v", r, err)
	}
}

func TestCall_Failure(t *testing.T) {
	lib := newFakeLib()

	_, err := Call(lib, "parse", parseFailure, func(errOut *engine.Ref) engine.Ref {
		*errOut = lib.newString("unknown unit \"furlong\"")
		return engine.Null
	})
	if !errors.Is(err, errors.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if !strings.Contains(err.Error(), "furlong") {
		t.Errorf("error %q lost the library message", err)
	}
	if lib.live() != 0 {
		t.Fatal("error string was not released")
	}
}

func TestCall_FailureWithoutMessage(t *testing.T) {
	lib := newFakeLib()
	_, err := Call(lib, "multiply", As(errors.PhaseAlgebra, errors.KindAlgebra, "multiply"),
		func(*engine.Ref) engine.Ref { return engine.Null })
	if !errors.Is(err, errors.ErrAlgebra) {
		t.Fatalf("expected ErrAlgebra, got %v", err)
	}
	if !strings.Contains(err.Error(), "multiply failed") {
		t.Errorf("unexpected message %q", err)
	}
}

func TestCall_DiscardsDiagnostic(t *testing.T) {
	lib := newFakeLib()
	want := lib.create()

	r, err := Call(lib, "power", parseFailure, func(errOut *engine.Ref) engine.Ref {
		*errOut = lib.newString("overflow")
		return want
	})
	if err != nil || r != want {
		t.Fatalf("Call = %v, %v", r, err)
	}
	if lib.live() != 1 {
		t.Fatalf("live = %d: diagnostic string was not released", lib.live())
	}
}

func TestCheck(t *testing.T) {
	lib := newFakeLib()
	fail := As(errors.PhaseConvert, errors.KindIncompatibleUnits, "convert")

	if err := Check(lib, "convert", fail, func(*engine.Ref) bool { return true }); err != nil {
		t.Fatalf("Check: %v", err)
	}

	err := Check(lib, "convert", fail, func(errOut *engine.Ref) bool {
		*errOut = lib.newString("dimensionalities L and T differ")
		return false
	})
	if !errors.Is(err, errors.ErrIncompatibleUnits) {
		t.Fatalf("expected ErrIncompatibleUnits, got %v", err)
	}
	if errors.KindOf(err) != errors.KindIncompatibleUnits {
		t.Fatal("KindOf mismatch")
	}
	if lib.live() != 0 {
		t.Fatal("error string was not released")
	}
}

func TestCallOwned(t *testing.T) {
	lib := engine.New()

	h, err := CallOwned(lib, "parse", parseFailure, func(errOut *engine.Ref) engine.Ref {
		return lib.ScalarFromExpression("9.81 m/s^2", errOut)
	})
	if err != nil {
		t.Fatalf("CallOwned: %v", err)
	}
	if lib.ScalarString(h.Ref()) != "9.81 m/s^2" {
		t.Fatalf("unexpected scalar %q", lib.ScalarString(h.Ref()))
	}
	h.Close()
	if lib.Live() != 0 {
		t.Fatalf("Live() = %d", lib.Live())
	}

	_, err = CallOwned(lib, "parse", parseFailure, func(errOut *engine.Ref) engine.Ref {
		return lib.ScalarFromExpression("5 m + 3 m", errOut)
	})
	if !errors.Is(err, errors.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if lib.Live() != 0 {
		t.Fatalf("Live() = %d after failure", lib.Live())
	}
}
