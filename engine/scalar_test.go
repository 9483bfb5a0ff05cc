package engine

import (
	"math"
	"math/cmplx"
	"strings"
	"testing"
)

func parseScalar(t *testing.T, lib *Library, expr string) Ref {
	t.Helper()
	var errRef Ref
	s := lib.ScalarFromExpression(expr, &errRef)
	if s == Null {
		t.Fatalf("ScalarFromExpression(%q): %s", expr, takeError(t, lib, errRef))
	}
	return s
}

// expectScalar checks the value and unit symbol of s and releases it.
func expectScalar(t *testing.T, lib *Library, s Ref, value float64, symbol string) {
	t.Helper()
	if s == Null {
		t.Fatal("operation failed")
	}
	defer lib.Release(s)
	if got := lib.ScalarDoubleValue(s); !approx(got, value) {
		t.Errorf("value = %v, want %v", got, value)
	}
	if got := lib.UnitSymbol(lib.ScalarGetUnit(s)); got != symbol {
		t.Errorf("unit = %q, want %q", got, symbol)
	}
}

func TestScalar_FromExpression(t *testing.T) {
	tests := []struct {
		expr   string
		value  float64
		symbol string
	}{
		{"5 m", 5, "m"},
		{"9.81 m/s^2", 9.81, "m/s^2"},
		{"-3 ft", -3, "ft"},
		{"2.5e3 kg", 2500, "kg"},
		{"5eV", 5, "eV"},
		{"1/2 s", 0.5, "s"},
		{"42", 42, ""},
		{"3 m * 2 m", 6, "m^2"},
		{"10 m / (2 s)", 5, "m/s"},
		{"10 m / 2 s", 5, "m•s"},
		{"(2 m)^2", 4, "m^2"},
	}

	lib := New()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			expectScalar(t, lib, parseScalar(t, lib, tt.expr), tt.value, tt.symbol)
		})
	}
	if lib.Live() != 0 {
		t.Fatalf("Live() = %d", lib.Live())
	}
}

func TestScalar_FromExpressionErrors(t *testing.T) {
	lib := New()
	for _, expr := range []string{"", "5 m + 3 m", "5 m / 0", "abc xyz"} {
		var errRef Ref
		if s := lib.ScalarFromExpression(expr, &errRef); s != Null {
			t.Errorf("%q: expected failure", expr)
			lib.Release(s)
			continue
		}
		takeError(t, lib, errRef)
	}
}

func TestScalar_String(t *testing.T) {
	lib := New()
	tests := []struct {
		expr string
		want string
	}{
		{"5 m", "5 m"},
		{"0.5 kg*m/s^2", "0.5 kg•m/s^2"},
		{"42", "42"},
	}
	for _, tt := range tests {
		s := parseScalar(t, lib, tt.expr)
		if got := lib.ScalarString(s); got != tt.want {
			t.Errorf("ScalarString(%q) = %q, want %q", tt.expr, got, tt.want)
		}
		lib.Release(s)
	}

	m := lib.UnitFromExpression("m", nil, nil)
	c := lib.ScalarCreateWithComplex(complex(1, 2), m)
	defer lib.Release(c)
	if got := lib.ScalarString(c); got != "(1+2i) m" {
		t.Errorf("complex string = %q", got)
	}
}

func TestScalar_AddSubtract(t *testing.T) {
	lib := New()
	m5 := parseScalar(t, lib, "5 m")
	ft3 := parseScalar(t, lib, "3 ft")
	mm := parseScalar(t, lib, "1000 mm")
	half := parseScalar(t, lib, "0.5 m")
	s3 := parseScalar(t, lib, "3 s")
	defer func() {
		for _, r := range []Ref{m5, ft3, mm, half, s3} {
			lib.Release(r)
		}
	}()

	expectScalar(t, lib, lib.ScalarAdd(m5, ft3, nil), 5.9144, "m")
	expectScalar(t, lib, lib.ScalarAdd(mm, half, nil), 1500, "mm")
	expectScalar(t, lib, lib.ScalarSubtract(m5, half, nil), 4.5, "m")

	var errRef Ref
	if lib.ScalarAdd(m5, s3, &errRef) != Null {
		t.Fatal("adding meters and seconds must fail")
	}
	msg := takeError(t, lib, errRef)
	if !strings.Contains(msg, "cannot add m and s") {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestScalar_MultiplyDivide(t *testing.T) {
	lib := New()
	dist := parseScalar(t, lib, "100 m")
	dur := parseScalar(t, lib, "9.58 s")
	zero := parseScalar(t, lib, "0 s")
	defer lib.Release(dist)
	defer lib.Release(dur)
	defer lib.Release(zero)

	expectScalar(t, lib, lib.ScalarDivide(dist, dur, nil), 100/9.58, "m/s")
	expectScalar(t, lib, lib.ScalarMultiply(dist, dist, nil), 10000, "m^2")
	expectScalar(t, lib, lib.ScalarDivide(dist, dist, nil), 1, "")

	var errRef Ref
	if lib.ScalarDivide(dist, zero, &errRef) != Null {
		t.Fatal("division by zero must fail")
	}
	if msg := takeError(t, lib, errRef); msg != "division by zero" {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestScalar_Power(t *testing.T) {
	lib := New()
	side := parseScalar(t, lib, "3 m")
	defer lib.Release(side)

	expectScalar(t, lib, lib.ScalarRaiseToPower(side, 2, nil), 9, "m^2")
	expectScalar(t, lib, lib.ScalarRaiseToPower(side, -1, nil), 1.0/3, "(1/m)")
	expectScalar(t, lib, lib.ScalarRaiseToPower(side, 0, nil), 1, "")

	zero := parseScalar(t, lib, "0 m")
	defer lib.Release(zero)
	var errRef Ref
	if lib.ScalarRaiseToPower(zero, -2, &errRef) != Null {
		t.Fatal("zero to a negative power must fail")
	}
	takeError(t, lib, errRef)

	big := parseScalar(t, lib, "1e300 m")
	defer lib.Release(big)
	errRef = Null
	r := lib.ScalarRaiseToPower(big, 2, &errRef)
	if r == Null {
		t.Fatal("overflow returns a result")
	}
	defer lib.Release(r)
	if !lib.ScalarIsInfinite(r) {
		t.Error("expected an infinite result")
	}
	if msg := takeError(t, lib, errRef); !strings.Contains(msg, "overflow") {
		t.Errorf("unexpected diagnostic %q", msg)
	}
}

func TestScalar_ComplexPower(t *testing.T) {
	lib := New()
	one := lib.UnitDimensionless()
	z := lib.ScalarCreateWithComplex(complex(1, 1), one)
	defer lib.Release(z)

	r := lib.ScalarRaiseToPower(z, 2, nil)
	defer lib.Release(r)
	if got := lib.ScalarComplexValue(r); got != complex(0, 2) {
		t.Errorf("(1+1i)^2 = %v, want 2i", got)
	}
	if !lib.ScalarIsComplex(r) {
		t.Error("result must stay complex")
	}
}

func TestScalar_Root(t *testing.T) {
	lib := New()
	area := parseScalar(t, lib, "16 m^2")
	vol := parseScalar(t, lib, "-27 m^3")
	neg := parseScalar(t, lib, "-4 m^2")
	defer lib.Release(area)
	defer lib.Release(vol)
	defer lib.Release(neg)

	expectScalar(t, lib, lib.ScalarTakeNthRoot(area, 2, nil), 4, "m")
	expectScalar(t, lib, lib.ScalarTakeNthRoot(vol, 3, nil), -3, "m")

	r := lib.ScalarTakeNthRoot(neg, 2, nil)
	defer lib.Release(r)
	if !lib.ScalarIsComplex(r) {
		t.Fatal("even root of a negative value is complex")
	}
	if got := lib.ScalarComplexValue(r); cmplx.Abs(got-complex(0, 2)) > 1e-12 {
		t.Errorf("sqrt(-4) = %v, want 2i", got)
	}

	var errRef Ref
	if lib.ScalarTakeNthRoot(area, 3, &errRef) != Null {
		t.Fatal("cube root of m^2 must fail")
	}
	takeError(t, lib, errRef)
}

func TestScalar_ComplexParts(t *testing.T) {
	lib := New()
	v := lib.UnitFromExpression("V", nil, nil)
	z := lib.ScalarCreateWithComplex(complex(3, 4), v)
	defer lib.Release(z)

	expectScalar(t, lib, lib.ScalarAbs(z, nil), 5, "V")
	expectScalar(t, lib, lib.ScalarRealPart(z, nil), 3, "V")
	expectScalar(t, lib, lib.ScalarImaginaryPart(z, nil), 4, "V")
	expectScalar(t, lib, lib.ScalarArgument(z, nil), math.Atan2(4, 3), "rad")
}

func TestScalar_Convert(t *testing.T) {
	lib := New()
	speed := parseScalar(t, lib, "36 km/h")
	defer lib.Release(speed)

	expectScalar(t, lib, lib.ScalarConvertToCoherentSI(speed, nil), 10, "m/s")

	mph := lib.UnitFromExpression("mi/h", nil, nil)
	expectScalar(t, lib, lib.ScalarConvertToUnit(speed, mph, nil), 36/1.609344, "mi/h")

	s := lib.UnitFromExpression("s", nil, nil)
	var errRef Ref
	if lib.ScalarConvertToUnit(speed, s, &errRef) != Null {
		t.Fatal("conversion to an incompatible unit must fail")
	}
	takeError(t, lib, errRef)

	angle := parseScalar(t, lib, "180 deg")
	defer lib.Release(angle)
	expectScalar(t, lib, lib.ScalarConvertToCoherentSI(angle, nil), math.Pi, "rad")
}

func TestScalar_ReduceUnit(t *testing.T) {
	lib := New()
	m := lib.UnitFromExpression("m", nil, nil)
	mm := lib.UnitByMultiplyingWithoutReducing(m, m, nil)
	s := lib.ScalarCreateWithDouble(2, mm)
	defer lib.Release(s)
	if got := lib.UnitSymbol(lib.ScalarGetUnit(s)); got != "m•m" {
		t.Fatalf("unit = %q", got)
	}
	expectScalar(t, lib, lib.ScalarReduceUnit(s, nil), 2, "m^2")
}

func TestScalar_ToBestUnit(t *testing.T) {
	tests := []struct {
		expr   string
		value  float64
		symbol string
	}{
		{"1500 g", 1.5, "kg"},
		{"0.0005 m", 500, "µm"},
		{"2500000 Hz", 2.5, "MHz"},
		{"12 m", 12, "m"},
		{"0.002 kg", 2, "g"},
		{"5 ft", 5, "ft"},
		{"3 m/s", 3, "m/s"},
		{"0 m", 0, "m"},
		{"0.000000000000001 t", 1000, "at"},
	}

	lib := New()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			s := parseScalar(t, lib, tt.expr)
			defer lib.Release(s)
			expectScalar(t, lib, lib.ScalarToBestUnit(s, nil), tt.value, tt.symbol)
		})
	}
}

func TestScalar_Compare(t *testing.T) {
	lib := New()
	tests := []struct {
		a, b string
		want Comparison
	}{
		{"1 km", "1000 m", Equal},
		{"1 m", "1 ft", Greater},
		{"1 in", "1 cm", Greater},
		{"1 mm", "1 m", Less},
		{"1 m", "1 s", NotComparable},
		{"nan m", "1 m", NotComparable},
	}
	for _, tt := range tests {
		a := parseScalar(t, lib, tt.a)
		b := parseScalar(t, lib, tt.b)
		if got := lib.ScalarCompare(a, b); got != tt.want {
			t.Errorf("Compare(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		lib.Release(a)
		lib.Release(b)
	}

	one := lib.UnitDimensionless()
	z1 := lib.ScalarCreateWithComplex(complex(1, 1), one)
	z2 := lib.ScalarCreateWithComplex(complex(1, 2), one)
	defer lib.Release(z1)
	defer lib.Release(z2)
	if got := lib.ScalarCompare(z1, z1); got != Equal {
		t.Errorf("complex self compare = %v", got)
	}
	if got := lib.ScalarCompare(z1, z2); got != NotComparable {
		t.Errorf("complex values are unordered, got %v", got)
	}
}

func TestScalar_Predicates(t *testing.T) {
	lib := New()
	for expr, want := range map[string][3]bool{
		"0 m":   {true, false, false},
		"inf m": {false, true, false},
		"nan":   {false, false, true},
		"1 s":   {false, false, false},
	} {
		s := parseScalar(t, lib, expr)
		got := [3]bool{lib.ScalarIsZero(s), lib.ScalarIsInfinite(s), lib.ScalarIsNaN(s)}
		if got != want {
			t.Errorf("%q: zero/inf/nan = %v, want %v", expr, got, want)
		}
		if !lib.ScalarIsReal(s) || lib.ScalarIsComplex(s) {
			t.Errorf("%q must be real", expr)
		}
		lib.Release(s)
	}
}

func TestComparisonString(t *testing.T) {
	for c, want := range map[Comparison]string{
		Less:          "less",
		Equal:         "equal",
		Greater:       "greater",
		NotComparable: "not comparable",
	} {
		if got := c.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", c, got, want)
		}
	}
}
