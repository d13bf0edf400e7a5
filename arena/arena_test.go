package arena

import (
	"math"
	"testing"
)

func TestAllocateGet(t *testing.T) {
	a := New[string]()
	h := a.Allocate("hello")
	v, ok := a.Get(h)
	if !ok || v != "hello" {
		t.Fatalf("Get(%v) = %q, %v; want hello, true", h, v, ok)
	}
	if a.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", a.Len())
	}
}

func TestDeallocateInvalidatesHandle(t *testing.T) {
	a := New[int]()
	h := a.Allocate(42)
	old, ok := a.Deallocate(h)
	if !ok || old != 42 {
		t.Fatalf("Deallocate = %d, %v; want 42, true", old, ok)
	}
	if _, ok := a.Get(h); ok {
		t.Fatalf("Get after Deallocate should fail")
	}
	if a.Contains(h) {
		t.Fatalf("Contains after Deallocate should be false")
	}
}

func TestFreeListReuseIsLIFOWithHigherGeneration(t *testing.T) {
	a := New[int]()
	h0 := a.Allocate(0)
	h1 := a.Allocate(1)
	h2 := a.Allocate(2)

	a.Deallocate(h1)
	a.Deallocate(h2)

	// Free list is LIFO: h2's slot comes back first, then h1's.
	r1 := a.Allocate(20)
	r2 := a.Allocate(10)

	if r1.Index != h2.Index || r1.Generation != h2.Generation+1 {
		t.Fatalf("first reuse = %v; want index %d gen %d", r1, h2.Index, h2.Generation+1)
	}
	if r2.Index != h1.Index || r2.Generation != h1.Generation+1 {
		t.Fatalf("second reuse = %v; want index %d gen %d", r2, h1.Index, h1.Generation+1)
	}
	if a.Contains(h0) == false {
		t.Fatalf("untouched handle h0 should still resolve")
	}
}

func TestGenerationWrap(t *testing.T) {
	a := New[int]()
	h := a.Allocate(0)
	// Force the slot to the last generation before wrap.
	s := &a.slots[h.Index]
	s.generation = math.MaxUint32
	h.Generation = math.MaxUint32

	a.Deallocate(h)
	reused := a.Allocate(1)

	if reused.Index != h.Index {
		t.Fatalf("expected slot reuse")
	}
	if reused.Generation != 0 {
		t.Fatalf("generation after wrap = %d; want 0", reused.Generation)
	}
	if a.Contains(h) {
		t.Fatalf("original max-generation handle must not resolve after wrap")
	}
}

func TestClearRebuildsContiguousFreeChain(t *testing.T) {
	a := New[int]()
	var handles []Handle
	for i := 0; i < 5; i++ {
		handles = append(handles, a.Allocate(i))
	}
	a.Deallocate(handles[1])
	a.Deallocate(handles[3])

	a.Clear()
	if a.Len() != 0 {
		t.Fatalf("Len after Clear = %d; want 0", a.Len())
	}

	for i := 0; i < 5; i++ {
		h := a.Allocate(i * 100)
		if h.Index != uint32(i) {
			t.Fatalf("allocation %d got index %d; want %d (contiguous chain)", i, h.Index, i)
		}
		if h.Generation != handles[i].Generation+1 {
			t.Fatalf("allocation %d got generation %d; want %d", i, h.Generation, handles[i].Generation+1)
		}
	}
}

func TestIterOrderAndMutation(t *testing.T) {
	a := New[int]()
	h0 := a.Allocate(1)
	a.Allocate(2)
	a.Deallocate(h0)
	a.Allocate(3)

	var seen []int
	a.Iter(func(h Handle, v int) bool {
		seen = append(seen, v)
		return true
	})
	if len(seen) != 2 || seen[0] != 3 || seen[1] != 2 {
		t.Fatalf("Iter order = %v; want [3 2]", seen)
	}

	a.IterMut(func(h Handle, v *int) bool {
		*v *= 10
		return true
	})
	seen = nil
	a.Iter(func(h Handle, v int) bool {
		seen = append(seen, v)
		return true
	})
	if seen[0] != 30 || seen[1] != 20 {
		t.Fatalf("IterMut did not persist mutations: %v", seen)
	}
}

func TestGetMutInvalidHandle(t *testing.T) {
	a := New[int]()
	h := Handle{Index: 99, Generation: 0}
	if a.GetMut(h) != nil {
		t.Fatalf("GetMut of out-of-range handle should be nil")
	}
}

func TestDeallocateTwiceIsNoop(t *testing.T) {
	a := New[int]()
	h := a.Allocate(5)
	a.Deallocate(h)
	if _, ok := a.Deallocate(h); ok {
		t.Fatalf("second Deallocate of same handle should report false")
	}
}
