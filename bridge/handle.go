package bridge

import (
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/sitypes/engine"
	"github.com/wippyai/sitypes/errors"
)

// Lib is the subset of the foreign library the bridge needs.
// *engine.Library implements it.
type Lib interface {
	Retain(engine.Ref) bool
	Release(engine.Ref) bool
	Copy(engine.Ref) engine.Ref
	StringValue(engine.Ref) (string, bool)
}

// Ownership records whether a Handle releases its reference.
type Ownership uint8

const (
	// Owned handles release their reference exactly once.
	Owned Ownership = iota
	// Borrowed handles never release; the owner keeps the object alive.
	Borrowed
)

func (o Ownership) String() string {
	if o == Borrowed {
		return "borrowed"
	}
	return "owned"
}

// releaseState is shared between a Handle and its cleanup. It must not point
// back to the Handle or the cleanup would keep it reachable forever.
type releaseState struct {
	lib  Lib
	ref  engine.Ref
	done atomic.Bool
}

func (s *releaseState) release() bool {
	if !s.done.CompareAndSwap(false, true) {
		return false
	}
	s.lib.Release(s.ref)
	return true
}

// Handle wraps a foreign reference with a fixed ownership policy.
//
// An owned Handle releases its reference on the first Close. If Close is never
// called, a runtime cleanup releases it after the Handle becomes unreachable.
// A borrowed Handle holds its owner so the owner outlives the view.
type Handle struct {
	state   *releaseState
	owner   any
	cleanup runtime.Cleanup
	own     Ownership
}

// WrapOwned takes over the caller's reference to ref.
func WrapOwned(lib Lib, ref engine.Ref) (*Handle, error) {
	if ref == engine.Null {
		return nil, errors.InvalidHandle("owned")
	}
	h := &Handle{
		state: &releaseState{lib: lib, ref: ref},
		own:   Owned,
	}
	h.cleanup = runtime.AddCleanup(h, finalize, h.state)
	debug("wrap", zap.Uint64("ref", uint64(ref)), zap.Stringer("ownership", Owned))
	return h, nil
}

// WrapBorrowed creates a view of ref that never releases it. owner is kept
// reachable for the lifetime of the view and may be nil for immortal objects.
func WrapBorrowed(lib Lib, ref engine.Ref, owner any) (*Handle, error) {
	if ref == engine.Null {
		return nil, errors.InvalidHandle("borrowed")
	}
	debug("wrap", zap.Uint64("ref", uint64(ref)), zap.Stringer("ownership", Borrowed))
	return &Handle{
		state: &releaseState{lib: lib, ref: ref},
		owner: owner,
		own:   Borrowed,
	}, nil
}

// WrapCopy duplicates ref through the library and owns the duplicate. The
// caller keeps its own reference and may release it at any time.
func WrapCopy(lib Lib, ref engine.Ref) (*Handle, error) {
	if ref == engine.Null {
		return nil, errors.InvalidHandle("copied")
	}
	dup := lib.Copy(ref)
	if dup == engine.Null {
		return nil, errors.InvalidHandle("copied")
	}
	return WrapOwned(lib, dup)
}

func finalize(s *releaseState) {
	if s.release() {
		debug("release by cleanup", zap.Uint64("ref", uint64(s.ref)))
	}
}

// Ref returns the wrapped reference, or engine.Null once the handle is closed.
func (h *Handle) Ref() engine.Ref {
	if h == nil || h.state.done.Load() {
		return engine.Null
	}
	return h.state.ref
}

// Use calls fn with the reference of h and keeps h reachable until fn
// returns, so the cleanup cannot release the reference during the call.
func Use[T any](h *Handle, fn func(engine.Ref) T) T {
	v := fn(h.Ref())
	runtime.KeepAlive(h)
	return v
}

// Use2 is Use for calls taking two references.
func Use2[T any](a, b *Handle, fn func(a, b engine.Ref) T) T {
	v := fn(a.Ref(), b.Ref())
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
	return v
}

// Lib returns the library the reference belongs to.
func (h *Handle) Lib() Lib {
	return h.state.lib
}

func (h *Handle) Ownership() Ownership {
	return h.own
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	return h.state.done.Load()
}

// Copy returns a new owned handle to a duplicate of the object.
func (h *Handle) Copy() (*Handle, error) {
	c, err := WrapCopy(h.state.lib, h.Ref())
	runtime.KeepAlive(h)
	return c, err
}

// Close releases an owned reference. Further calls do nothing. Closing a
// borrowed handle only invalidates the view.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	if h.own == Borrowed {
		h.state.done.Store(true)
		h.owner = nil
		return nil
	}
	if h.state.release() {
		h.cleanup.Stop()
		debug("release", zap.Uint64("ref", uint64(h.state.ref)))
	}
	return nil
}
