package resource

import (
	"errors"
	"sync"
)

var (
	ErrClosed = errors.New("resource backend closed")
)

// LocalBackend is an in-memory resource backend with reference counting.
type LocalBackend struct {
	entries  []entry
	freeList []uint32
	live     int
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value    any
	typeID   uint32
	gen      uint32
	refs     uint32
	immortal bool
	valid    bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Create stores a value with one reference and returns a handle.
func (b *LocalBackend) Create(typeID uint32, value any) (Handle, error) {
	return b.create(typeID, value, false)
}

// CreateImmortal stores a value that Retain and Release leave untouched.
func (b *LocalBackend) CreateImmortal(typeID uint32, value any) (Handle, error) {
	return b.create(typeID, value, true)
}

func (b *LocalBackend) create(typeID uint32, value any, immortal bool) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	e := entry{
		typeID:   typeID,
		value:    value,
		refs:     1,
		immortal: immortal,
		valid:    true,
	}
	if !immortal {
		b.live++
	}

	if len(b.freeList) > 0 {
		slot := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		e.gen = b.entries[slot].gen + 1
		b.entries[slot] = e
		return makeHandle(slot, e.gen), nil
	}

	b.entries = append(b.entries, e)
	return makeHandle(uint32(len(b.entries)-1), 0), nil
}

// lookup returns the entry for handle. Caller must hold b.mu.
func (b *LocalBackend) lookup(handle Handle) *entry {
	slot, ok := handle.slot()
	if !ok || int(slot) >= len(b.entries) {
		return nil
	}
	e := &b.entries[slot]
	if !e.valid || e.gen != handle.gen() {
		return nil
	}
	return e
}

// Get retrieves a value by handle.
func (b *LocalBackend) Get(handle Handle) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// Retain increments the reference count for a handle.
func (b *LocalBackend) Retain(handle Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return false
	}
	if !e.immortal {
		e.refs++
	}
	return true
}

// Release decrements the reference count and destroys the entry at zero.
func (b *LocalBackend) Release(handle Handle) (any, bool, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, false, false
	}
	if e.immortal {
		return e.value, false, true
	}

	e.refs--
	if e.refs > 0 {
		return e.value, false, true
	}
	return b.destroy(handle, e), true, true
}

// Drop destroys a resource regardless of its reference count.
func (b *LocalBackend) Drop(handle Handle) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, false
	}
	return b.destroy(handle, e), true
}

// destroy invalidates e and recycles its slot. Caller must hold b.mu.
func (b *LocalBackend) destroy(handle Handle, e *entry) any {
	value := e.value
	if !e.immortal {
		b.live--
	}
	e.valid = false
	e.value = nil
	e.refs = 0
	slot, _ := handle.slot()
	b.freeList = append(b.freeList, slot)
	return value
}

// RefCount returns the reference count and whether the entry is immortal.
func (b *LocalBackend) RefCount(handle Handle) (refs uint32, immortal bool, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return 0, false, false
	}
	return e.refs, e.immortal, true
}

// Close releases all resources.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for i := range b.entries {
		if b.entries[i].valid {
			if d, ok := b.entries[i].value.(Dropper); ok {
				d.Drop()
			}
			b.entries[i].valid = false
			b.entries[i].value = nil
		}
	}

	b.entries = nil
	b.freeList = nil
	b.live = 0
	return nil
}

// TypeID returns the type ID for a handle.
func (b *LocalBackend) TypeID(handle Handle) (uint32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return 0, false
	}
	return e.typeID, true
}

// Len returns the number of active resources.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, e := range b.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Live returns the number of active resources that are not immortal.
func (b *LocalBackend) Live() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.live
}

// Each iterates over all active resources.
func (b *LocalBackend) Each(fn func(Handle, uint32, any) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e.valid {
			if !fn(makeHandle(uint32(i), e.gen), e.typeID, e.value) {
				break
			}
		}
	}
}
