// Package resource provides the reference-counted handle table behind the unit library.
//
// Objects handed across the library boundary are opaque handles. This package maps
// handles to Go values and implements the manual retain/release discipline the
// library's callers must follow.
//
// # Object Lifecycle
//
// Every object starts with one reference owned by whoever created it:
//
//	retain  - add a reference (handle stays valid)
//	release - drop a reference; the object is destroyed when none remain
//	remove  - destroy immediately regardless of outstanding references
//
// Immortal objects (interned singletons) ignore retain and release and are never
// destroyed before the table is closed.
//
// # Handle Table
//
// The UnifiedTable maps handles to Go values:
//
//	table := resource.NewTable()
//
//	// Insert a value, get a handle with one reference
//	handle := table.Insert(typeID, myValue)
//
//	// Retrieve value by handle
//	value, ok := table.Get(handle)
//
//	// Drop the reference
//	table.Release(handle)
//
// Handles embed a slot generation. A handle to a destroyed object stays invalid even
// after its slot is recycled, so a double release is detected instead of silently
// hitting another object.
//
// # Type Safety
//
// Handles are typed - each object kind gets a unique type ID:
//
//	value, ok := table.GetTyped(handle, ScalarTypeID)
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	table.Subscribe(observer)
//
// Observers receive EventCreated, EventRetained, EventReleased and EventDestroyed for
// mortal objects; immortal objects only report creation.
package resource
