package resource

// Handle is an opaque reference to an object in a table.
// The low 32 bits select a slot, the high 32 bits carry the slot generation,
// so a handle to a destroyed object never resolves to a later occupant of its slot.
// Handle 0 is reserved and always invalid.
type Handle uint64

func makeHandle(slot, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(slot+1))
}

func (h Handle) slot() (uint32, bool) {
	idx := uint32(h)
	if idx == 0 {
		return 0, false
	}
	return idx - 1, true
}

func (h Handle) gen() uint32 {
	return uint32(h >> 32)
}

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventRetained
	EventReleased
	EventDestroyed
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventRetained:
		return "retained"
	case EventReleased:
		return "released"
	case EventDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// Event represents a resource lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Refs   uint32
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Backend provides the underlying storage mechanism for resources.
type Backend interface {
	// Create stores a value with a reference count of one and returns a handle.
	Create(typeID uint32, value any) (Handle, error)

	// CreateImmortal stores a value that ignores Retain and Release.
	CreateImmortal(typeID uint32, value any) (Handle, error)

	// Get retrieves a value by handle.
	Get(handle Handle) (any, bool)

	// Retain increments the reference count. Returns false for invalid handles.
	Retain(handle Handle) bool

	// Release decrements the reference count and reports whether the object was
	// destroyed. ok is false for invalid handles.
	Release(handle Handle) (value any, destroyed bool, ok bool)

	// Drop destroys a resource regardless of its reference count.
	Drop(handle Handle) (any, bool)

	// Close releases all resources held by the backend.
	Close() error
}

// Table manages resources with type information and observer support.
type Table interface {
	// Insert adds a value with one reference and returns its handle.
	Insert(typeID uint32, value any) Handle

	// InsertImmortal adds a value that is never destroyed by Release.
	InsertImmortal(typeID uint32, value any) Handle

	// Get retrieves a value by handle.
	Get(handle Handle) (any, bool)

	// GetTyped retrieves a value only if it matches the expected type.
	GetTyped(handle Handle, typeID uint32) (any, bool)

	// Retain adds a reference.
	Retain(handle Handle) bool

	// Release drops a reference, destroying the value when none remain.
	Release(handle Handle) bool

	// Remove destroys a resource and returns (value, true) if found.
	Remove(handle Handle) (any, bool)

	// Subscribe adds an observer for lifecycle events.
	Subscribe(Observer)

	// Unsubscribe removes an observer.
	Unsubscribe(Observer)

	// Len returns the number of active resources.
	Len() int

	// Live returns the number of active resources that are not immortal.
	Live() int

	// Clear drops all resources.
	Clear()

	// Close releases all resources and stops accepting operations.
	Close() error
}

// Dropper is optionally implemented by resource values that need cleanup.
type Dropper interface {
	Drop()
}
