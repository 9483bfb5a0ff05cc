package engine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/sitypes/resource"
)

// Ref is an opaque reference to a library object.
type Ref = resource.Handle

// Null is the invalid reference returned by failed calls.
const Null Ref = 0

// Type identifies the kind of object behind a Ref.
type Type uint32

const (
	TypeInvalid Type = iota
	TypeString
	TypeDimensionality
	TypeUnit
	TypeScalar
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeDimensionality:
		return "dimensionality"
	case TypeUnit:
		return "unit"
	case TypeScalar:
		return "scalar"
	}
	return "invalid"
}

// Library is an instance of the unit library.
//
// Objects follow manual reference counting. Every Ref returned by a
// constructor or algebraic operation carries one reference owned by the caller,
// who must Release it exactly once. Units are interned and immortal: Retain and
// Release on a unit are no-ops. Refs documented as borrowed (the
// dimensionality of a unit, the unit of a scalar) must not be released.
//
// Calls that can fail take an errOut parameter. On failure they return Null
// and, if errOut is non-nil, store a string object describing the error which
// the caller must Release. A successful call may also store a diagnostic.
type Library struct {
	table *resource.UnifiedTable

	mu    sync.Mutex
	units map[string]Ref // by termsKey
}

var (
	shared     *Library
	sharedOnce sync.Once
)

// New creates an independent library instance.
func New() *Library {
	l := &Library{
		table: resource.NewTable(),
		units: make(map[string]Ref),
	}
	l.table.Subscribe(&lifecycleLogger{})
	return l
}

// Shared returns the process-wide library instance.
func Shared() *Library {
	sharedOnce.Do(func() {
		shared = New()
	})
	return shared
}

// Retain adds a reference to r.
func (l *Library) Retain(r Ref) bool {
	return l.table.Retain(r)
}

// Release drops a reference to r. The object is destroyed when no references remain.
func (l *Library) Release(r Ref) bool {
	return l.table.Release(r)
}

// Copy returns a new object with the same value as r, owned by the caller.
// Units are interned, so copying one returns the same Ref.
func (l *Library) Copy(r Ref) Ref {
	v, ok := l.table.Get(r)
	if !ok {
		return Null
	}
	switch v := v.(type) {
	case string:
		return l.table.Insert(uint32(TypeString), v)
	case *dimensionality:
		return l.newDimensionality(v.dims)
	case *unit:
		return r
	case *scalar:
		return l.newScalar(v.value, v.complex, v.unit)
	}
	return Null
}

// Valid reports whether r refers to a live object.
func (l *Library) Valid(r Ref) bool {
	_, ok := l.table.Get(r)
	return ok
}

// TypeOf returns the kind of object behind r.
func (l *Library) TypeOf(r Ref) Type {
	id, ok := l.table.TypeID(r)
	if !ok {
		return TypeInvalid
	}
	return Type(id)
}

// RefCount returns the reference count of r. Immortal objects report 1.
func (l *Library) RefCount(r Ref) uint32 {
	refs, _, ok := l.table.RefCount(r)
	if !ok {
		return 0
	}
	return refs
}

// Live returns the number of objects that are not interned.
// It drops back to its previous value once callers release what they own.
func (l *Library) Live() int {
	return l.table.Live()
}

// Subscribe registers an observer for object lifecycle events.
func (l *Library) Subscribe(o resource.Observer) {
	l.table.Subscribe(o)
}

// Unsubscribe removes an observer.
func (l *Library) Unsubscribe(o resource.Observer) {
	l.table.Unsubscribe(o)
}

// NewString creates a string object.
func (l *Library) NewString(s string) Ref {
	return l.table.Insert(uint32(TypeString), s)
}

// StringValue returns the contents of a string object.
func (l *Library) StringValue(r Ref) (string, bool) {
	v, ok := l.table.GetTyped(r, uint32(TypeString))
	if !ok {
		return "", false
	}
	return v.(string), true
}

// fail stores an error string in errOut and returns Null.
func (l *Library) fail(errOut *Ref, format string, args ...any) Ref {
	if errOut != nil {
		*errOut = l.NewString(fmt.Sprintf(format, args...))
	}
	return Null
}

// note stores a diagnostic in errOut on an otherwise successful call.
func (l *Library) note(errOut *Ref, format string, args ...any) {
	if errOut != nil {
		*errOut = l.NewString(fmt.Sprintf(format, args...))
	}
}

func (l *Library) dimensionalityOf(r Ref) (*dimensionality, bool) {
	v, ok := l.table.GetTyped(r, uint32(TypeDimensionality))
	if !ok {
		return nil, false
	}
	return v.(*dimensionality), true
}

func (l *Library) unitOf(r Ref) (*unit, bool) {
	v, ok := l.table.GetTyped(r, uint32(TypeUnit))
	if !ok {
		return nil, false
	}
	return v.(*unit), true
}

func (l *Library) scalarOf(r Ref) (*scalar, bool) {
	v, ok := l.table.GetTyped(r, uint32(TypeScalar))
	if !ok {
		return nil, false
	}
	return v.(*scalar), true
}

func (l *Library) newDimensionality(d dims) Ref {
	return l.table.Insert(uint32(TypeDimensionality), &dimensionality{dims: d})
}

func (l *Library) newScalar(value complex128, isComplex bool, u Ref) Ref {
	return l.table.Insert(uint32(TypeScalar), &scalar{value: value, complex: isComplex, unit: u})
}

// intern returns the unit for terms, creating it on first use.
func (l *Library) intern(terms []term) Ref {
	key := termsKey(terms)

	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok := l.units[key]; ok {
		return r
	}

	symbol := renderSymbol(terms)
	u := newUnit(terms, symbol)
	u.dimRef = l.table.InsertImmortal(uint32(TypeDimensionality), &dimensionality{dims: u.dims})
	r := l.table.InsertImmortal(uint32(TypeUnit), u)
	l.units[key] = r

	Logger().Debug("unit interned",
		zap.String("symbol", symbol),
		zap.Float64("scale", u.scale),
		zap.String("dimensionality", u.dims.symbol()),
	)
	return r
}

// Units returns the number of interned units.
func (l *Library) Units() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.units)
}
