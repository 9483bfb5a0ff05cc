package bridge

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/wippyai/sitypes/engine"
	"github.com/wippyai/sitypes/errors"
)

// fakeLib counts references per handle.
type fakeLib struct {
	mu       sync.Mutex
	refs     map[engine.Ref]int
	strings  map[engine.Ref]string
	next     engine.Ref
	releases int
}

func newFakeLib() *fakeLib {
	return &fakeLib{
		refs:    make(map[engine.Ref]int),
		strings: make(map[engine.Ref]string),
		next:    1,
	}
}

func (f *fakeLib) create() engine.Ref {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.next
	f.next++
	f.refs[r] = 1
	return r
}

func (f *fakeLib) newString(s string) engine.Ref {
	r := f.create()
	f.mu.Lock()
	f.strings[r] = s
	f.mu.Unlock()
	return r
}

func (f *fakeLib) Retain(r engine.Ref) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refs[r] == 0 {
		return false
	}
	f.refs[r]++
	return true
}

func (f *fakeLib) Release(r engine.Ref) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refs[r] == 0 {
		return false
	}
	f.releases++
	f.refs[r]--
	if f.refs[r] == 0 {
		delete(f.refs, r)
		delete(f.strings, r)
	}
	return true
}

func (f *fakeLib) Copy(r engine.Ref) engine.Ref {
	f.mu.Lock()
	_, ok := f.refs[r]
	s, isString := f.strings[r]
	f.mu.Unlock()
	if !ok {
		return engine.Null
	}
	if isString {
		return f.newString(s)
	}
	return f.create()
}

func (f *fakeLib) StringValue(r engine.Ref) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.strings[r]
	return s, ok
}

func (f *fakeLib) live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.refs)
}

func (f *fakeLib) refCount(r engine.Ref) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refs[r]
}

func TestWrapOwned(t *testing.T) {
	lib := newFakeLib()
	r := lib.create()

	h, err := WrapOwned(lib, r)
	if err != nil {
		t.Fatalf("WrapOwned: %v", err)
	}
	if h.Ref() != r || h.Ownership() != Owned {
		t.Fatalf("unexpected handle %v/%v", h.Ref(), h.Ownership())
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if lib.live() != 0 {
		t.Fatal("Close must release the reference")
	}
	if h.Ref() != engine.Null || !h.Closed() {
		t.Fatal("closed handle must not expose its reference")
	}
}

func TestClose_Idempotent(t *testing.T) {
	lib := newFakeLib()
	r := lib.create()
	lib.Retain(r) // a second owner elsewhere

	h, _ := WrapOwned(lib, r)
	for i := 0; i < 5; i++ {
		h.Close()
	}
	if lib.refCount(r) != 1 {
		t.Fatalf("refs = %d, want 1: repeated Close released more than once", lib.refCount(r))
	}
	if lib.releases != 1 {
		t.Fatalf("releases = %d, want 1", lib.releases)
	}
}

func TestClose_Concurrent(t *testing.T) {
	lib := newFakeLib()
	r := lib.create()
	lib.Retain(r)
	h, _ := WrapOwned(lib, r)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Close()
		}()
	}
	wg.Wait()

	if lib.refCount(r) != 1 {
		t.Fatalf("refs = %d, want 1", lib.refCount(r))
	}
}

func TestWrapBorrowed(t *testing.T) {
	lib := newFakeLib()
	r := lib.create()
	owner, _ := WrapOwned(lib, r)

	view, err := WrapBorrowed(lib, r, owner)
	if err != nil {
		t.Fatalf("WrapBorrowed: %v", err)
	}
	if view.Ownership() != Borrowed {
		t.Fatal("expected a borrowed handle")
	}
	view.Close()
	if lib.refCount(r) != 1 {
		t.Fatal("closing a borrowed handle must not release")
	}
	if view.Ref() != engine.Null {
		t.Fatal("closed view must not expose its reference")
	}
	owner.Close()
	if lib.live() != 0 {
		t.Fatal("owner must release")
	}
}

func TestWrapCopy(t *testing.T) {
	lib := newFakeLib()
	r := lib.create()

	h, err := WrapCopy(lib, r)
	if err != nil {
		t.Fatalf("WrapCopy: %v", err)
	}
	if h.Ref() == r {
		t.Fatal("WrapCopy must own a duplicate")
	}

	// the caller drops its own reference
	lib.Release(r)
	if lib.refCount(h.Ref()) != 1 {
		t.Fatal("copy must outlive the caller's reference")
	}
	h.Close()
	if lib.live() != 0 {
		t.Fatalf("live = %d after closing the copy", lib.live())
	}
}

func TestWrap_Null(t *testing.T) {
	lib := newFakeLib()
	wraps := map[string]func() (*Handle, error){
		"owned":    func() (*Handle, error) { return WrapOwned(lib, engine.Null) },
		"borrowed": func() (*Handle, error) { return WrapBorrowed(lib, engine.Null, nil) },
		"copy":     func() (*Handle, error) { return WrapCopy(lib, engine.Null) },
		"stale":    func() (*Handle, error) { return WrapCopy(lib, 99) },
	}
	for name, wrap := range wraps {
		h, err := wrap()
		if h != nil || !errors.Is(err, errors.ErrInvalidHandle) {
			t.Errorf("%s: got %v, %v; want ErrInvalidHandle", name, h, err)
		}
	}
}

func TestHandle_Copy(t *testing.T) {
	lib := newFakeLib()
	h, _ := WrapOwned(lib, lib.create())
	c, err := h.Copy()
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	h.Close()
	if c.Ref() == engine.Null || lib.refCount(c.Ref()) != 1 {
		t.Fatal("copy must be independent of the original")
	}
	c.Close()

	if _, err := h.Copy(); !errors.Is(err, errors.ErrInvalidHandle) {
		t.Fatalf("Copy of a closed handle: %v", err)
	}
}

func TestCleanup(t *testing.T) {
	lib := engine.New()

	func() {
		r := lib.ScalarFromExpression("1 m", nil)
		if _, err := WrapOwned(lib, r); err != nil {
			t.Fatalf("WrapOwned: %v", err)
		}
	}()

	deadline := time.Now().Add(5 * time.Second)
	for lib.Live() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Live() = %d: unreachable handle was not released", lib.Live())
		}
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
}

// collect forces collections while an engine call is in flight.
func collect() {
	for i := 0; i < 5; i++ {
		runtime.GC()
		time.Sleep(time.Millisecond)
	}
}

func TestUse_KeepsHandleReachable(t *testing.T) {
	lib := newFakeLib()
	h, err := WrapOwned(lib, lib.create())
	if err != nil {
		t.Fatalf("WrapOwned: %v", err)
	}

	// h is not used after this call, so only Use keeps it reachable.
	refs := Use(h, func(r engine.Ref) int {
		collect()
		return lib.refCount(r)
	})
	if refs != 1 {
		t.Fatalf("reference released during the call: refs = %d", refs)
	}
}

func TestUse2_KeepsBothReachable(t *testing.T) {
	lib := newFakeLib()
	a, err := WrapOwned(lib, lib.create())
	if err != nil {
		t.Fatalf("WrapOwned: %v", err)
	}
	b, err := WrapOwned(lib, lib.create())
	if err != nil {
		t.Fatalf("WrapOwned: %v", err)
	}

	refs := Use2(a, b, func(ra, rb engine.Ref) int {
		collect()
		return lib.refCount(ra) + lib.refCount(rb)
	})
	if refs != 2 {
		t.Fatalf("reference released during the call: refs = %d", refs)
	}
}

func TestUse_NilHandle(t *testing.T) {
	got := Use(nil, func(r engine.Ref) engine.Ref { return r })
	if got != engine.Null {
		t.Fatalf("Use(nil) passed %d", got)
	}
}

func TestOwnershipString(t *testing.T) {
	if Owned.String() != "owned" || Borrowed.String() != "borrowed" {
		t.Fatal("unexpected ownership names")
	}
}
