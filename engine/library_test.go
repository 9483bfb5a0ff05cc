package engine

import (
	"strings"
	"testing"

	"github.com/wippyai/sitypes/resource"
)

// takeError returns and releases the error string stored in errRef.
func takeError(t *testing.T, lib *Library, errRef Ref) string {
	t.Helper()
	if errRef == Null {
		t.Fatal("expected an error string")
	}
	msg, ok := lib.StringValue(errRef)
	if !ok {
		t.Fatalf("error reference %d is not a string", errRef)
	}
	if !lib.Release(errRef) {
		t.Fatal("releasing the error string failed")
	}
	return msg
}

type countingObserver struct {
	created, destroyed int
}

func (o *countingObserver) OnResourceEvent(e resource.Event) {
	switch e.Type {
	case resource.EventCreated:
		o.created++
	case resource.EventDestroyed:
		o.destroyed++
	}
}

func TestLibrary_Strings(t *testing.T) {
	lib := New()

	s := lib.NewString("hello")
	if lib.TypeOf(s) != TypeString {
		t.Fatalf("TypeOf = %v, want string", lib.TypeOf(s))
	}
	v, ok := lib.StringValue(s)
	if !ok || v != "hello" {
		t.Fatalf("StringValue = %q, %v", v, ok)
	}

	c := lib.Copy(s)
	if c == s {
		t.Fatal("Copy of a string must be a new object")
	}
	lib.Release(s)
	if v, ok := lib.StringValue(c); !ok || v != "hello" {
		t.Fatal("copy must outlive the original")
	}
	lib.Release(c)

	if lib.Live() != 0 {
		t.Fatalf("Live() = %d after releasing everything", lib.Live())
	}
}

func TestLibrary_RetainRelease(t *testing.T) {
	lib := New()

	d := lib.DimensionalityDimensionless()
	if lib.RefCount(d) != 1 {
		t.Fatalf("RefCount = %d, want 1", lib.RefCount(d))
	}
	lib.Retain(d)
	if lib.RefCount(d) != 2 {
		t.Fatalf("RefCount = %d, want 2", lib.RefCount(d))
	}
	lib.Release(d)
	if !lib.Valid(d) {
		t.Fatal("object destroyed while a reference remained")
	}
	lib.Release(d)
	if lib.Valid(d) {
		t.Fatal("object should be destroyed after the last release")
	}
	if lib.Release(d) {
		t.Fatal("double release must be rejected")
	}
}

func TestLibrary_UnitsAreImmortal(t *testing.T) {
	lib := New()
	before := lib.Live()

	u := lib.UnitFromExpression("m/s", nil, nil)
	if u == Null {
		t.Fatal("UnitFromExpression failed")
	}
	if lib.Live() != before {
		t.Fatal("interned units must not count as live objects")
	}
	for i := 0; i < 3; i++ {
		lib.Release(u)
	}
	if !lib.Valid(u) {
		t.Fatal("unit destroyed by Release")
	}
	if lib.Copy(u) != u {
		t.Fatal("Copy of a unit must return the interned reference")
	}
	if lib.UnitFromExpression("m/s", nil, nil) != u {
		t.Fatal("units must be interned")
	}
}

func TestLibrary_ErrorOut(t *testing.T) {
	lib := New()

	var errRef Ref
	r := lib.ScalarFromExpression("5 furlongs", &errRef)
	if r != Null {
		t.Fatal("expected Null for unknown unit")
	}
	msg := takeError(t, lib, errRef)
	if !strings.Contains(msg, "furlongs") {
		t.Errorf("error %q does not name the unit", msg)
	}

	// A nil errOut is allowed
	if lib.ScalarFromExpression("5 furlongs", nil) != Null {
		t.Fatal("expected Null")
	}
	if lib.Live() != 0 {
		t.Fatalf("Live() = %d, error strings leaked", lib.Live())
	}
}

func TestLibrary_InvalidReferences(t *testing.T) {
	lib := New()

	var errRef Ref
	if lib.DimensionalityByMultiplying(Null, Null, &errRef) != Null {
		t.Fatal("expected Null")
	}
	if msg := takeError(t, lib, errRef); !strings.Contains(msg, "invalid dimensionality") {
		t.Errorf("unexpected error %q", msg)
	}

	errRef = Null
	u := lib.UnitFromExpression("m", nil, nil)
	if lib.ScalarAdd(u, u, &errRef) != Null {
		t.Fatal("a unit is not a scalar")
	}
	takeError(t, lib, errRef)

	if lib.ScalarCreateWithDouble(1, Null) != Null {
		t.Fatal("expected Null for invalid unit")
	}
	if lib.TypeOf(Null) != TypeInvalid {
		t.Fatal("Null must have no type")
	}
	if lib.Copy(Null) != Null {
		t.Fatal("Copy(Null) must be Null")
	}
}

func TestLibrary_Observer(t *testing.T) {
	lib := New()
	obs := &countingObserver{}
	lib.Subscribe(obs)

	s := lib.ScalarFromExpression("1 m", nil)
	lib.Release(s)

	if obs.created < 1 || obs.destroyed != 1 {
		t.Fatalf("created=%d destroyed=%d", obs.created, obs.destroyed)
	}

	lib.Unsubscribe(obs)
	s = lib.ScalarFromExpression("2 m", nil)
	lib.Release(s)
	if obs.destroyed != 1 {
		t.Fatal("events delivered after Unsubscribe")
	}
}

func TestShared(t *testing.T) {
	if Shared() != Shared() {
		t.Fatal("Shared must return one instance")
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypeString, "string"},
		{TypeDimensionality, "dimensionality"},
		{TypeUnit, "unit"},
		{TypeScalar, "scalar"},
		{TypeInvalid, "invalid"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
