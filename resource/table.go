package resource

import (
	"sync"
)

// UnifiedTable implements the Table interface using a Backend for storage.
type UnifiedTable struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new unified table with a LocalBackend.
func NewTable() *UnifiedTable {
	return &UnifiedTable{
		backend: NewLocalBackend(),
	}
}

// Insert adds a value with one reference and returns its handle.
func (t *UnifiedTable) Insert(typeID uint32, value any) Handle {
	return t.insert(typeID, value, false)
}

// InsertImmortal adds a value that is never destroyed by Release.
func (t *UnifiedTable) InsertImmortal(typeID uint32, value any) Handle {
	return t.insert(typeID, value, true)
}

func (t *UnifiedTable) insert(typeID uint32, value any, immortal bool) Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	var (
		handle Handle
		err    error
	)
	if immortal {
		handle, err = t.backend.CreateImmortal(typeID, value)
	} else {
		handle, err = t.backend.Create(typeID, value)
	}
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
		Refs:   1,
	})

	return handle
}

// Get retrieves a value by handle.
func (t *UnifiedTable) Get(handle Handle) (any, bool) {
	return t.backend.Get(handle)
}

// GetTyped retrieves a value only if it matches the expected type.
func (t *UnifiedTable) GetTyped(handle Handle, typeID uint32) (any, bool) {
	actualTypeID, ok := t.backend.TypeID(handle)
	if !ok || actualTypeID != typeID {
		return nil, false
	}
	return t.backend.Get(handle)
}

// TypeID returns the type ID recorded for handle.
func (t *UnifiedTable) TypeID(handle Handle) (uint32, bool) {
	return t.backend.TypeID(handle)
}

// Retain adds a reference to handle.
func (t *UnifiedTable) Retain(handle Handle) bool {
	if !t.backend.Retain(handle) {
		return false
	}
	refs, immortal, _ := t.backend.RefCount(handle)
	if !immortal {
		typeID, _ := t.backend.TypeID(handle)
		t.notify(Event{
			Type:   EventRetained,
			Handle: handle,
			TypeID: typeID,
			Refs:   refs,
		})
	}
	return true
}

// Release drops a reference to handle and destroys the value when none remain.
func (t *UnifiedTable) Release(handle Handle) bool {
	typeID, _ := t.backend.TypeID(handle)
	refs, immortal, _ := t.backend.RefCount(handle)
	value, destroyed, ok := t.backend.Release(handle)
	if !ok {
		return false
	}
	if immortal {
		return true
	}

	t.notify(Event{
		Type:   EventReleased,
		Handle: handle,
		TypeID: typeID,
		Refs:   refs - 1,
	})

	if destroyed {
		t.finish(handle, typeID, value)
	}
	return true
}

// Remove destroys a resource and returns (value, true) if found.
func (t *UnifiedTable) Remove(handle Handle) (any, bool) {
	typeID, _ := t.backend.TypeID(handle)
	value, ok := t.backend.Drop(handle)
	if !ok {
		return nil, false
	}

	t.finish(handle, typeID, value)
	return value, true
}

func (t *UnifiedTable) finish(handle Handle, typeID uint32, value any) {
	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventDestroyed,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})
}

// RefCount returns the reference count of handle and whether it is immortal.
func (t *UnifiedTable) RefCount(handle Handle) (uint32, bool, bool) {
	return t.backend.RefCount(handle)
}

// Subscribe adds an observer for lifecycle events.
func (t *UnifiedTable) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *UnifiedTable) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of active resources.
func (t *UnifiedTable) Len() int {
	return t.backend.Len()
}

// Live returns the number of active resources that are not immortal.
func (t *UnifiedTable) Live() int {
	return t.backend.Live()
}

// Clear drops all resources.
func (t *UnifiedTable) Clear() {
	// Collect handles first to avoid holding lock during Remove
	var handles []Handle
	t.backend.Each(func(h Handle, typeID uint32, value any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close releases all resources and stops accepting operations.
func (t *UnifiedTable) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.backend.Close()
}

// Backend returns the underlying backend.
func (t *UnifiedTable) Backend() *LocalBackend {
	return t.backend
}

func (t *UnifiedTable) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
