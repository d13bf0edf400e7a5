// Package arena implements a generational-index slot arena: the
// lifetime-safe handle substrate used by the dom and layout trees.
//
// A [Handle] is a (slot index, generation) pair. A handle only resolves to
// a value while the slot it names is still occupied at that generation;
// once the slot is freed and reused the generation advances and every old
// handle becomes permanently stale.
package arena

import "math"

// Handle is a versioned reference into an [Arena]. Handles compare
// structurally; a handle resolves only while the slot it names is still
// occupied at the same generation.
type Handle struct {
	Index      uint32
	Generation uint32
}

type slot[T any] struct {
	generation uint32
	occupied   bool
	value      T
	nextFree   uint32 // valid only when !occupied; index into slots, or noFree
}

const noFree = math.MaxUint32

// Arena is a slotted container yielding versioned [Handle]s. It never
// moves or reference-counts values; a stale handle is always detected
// because the generation check cannot alias.
type Arena[T any] struct {
	slots    []slot[T]
	freeHead uint32 // noFree if empty
	len      int
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{freeHead: noFree}
}

// Allocate stores value and returns a handle to it. It prefers reusing the
// head of the free list; otherwise it appends a fresh slot at generation 0.
func (a *Arena[T]) Allocate(value T) Handle {
	a.len++
	if a.freeHead != noFree {
		idx := a.freeHead
		s := &a.slots[idx]
		a.freeHead = s.nextFree
		s.occupied = true
		s.value = value
		return Handle{Index: idx, Generation: s.generation}
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{generation: 0, occupied: true, value: value})
	return Handle{Index: idx, Generation: 0}
}

// Get returns a copy of the value at h, and whether it was live.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	var zero T
	if int(h.Index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[h.Index]
	if !s.occupied || s.generation != h.Generation {
		return zero, false
	}
	return s.value, true
}

// GetMut returns a pointer to the live value at h, or nil if stale.
// The pointer is invalidated by any subsequent Deallocate or Clear call.
func (a *Arena[T]) GetMut(h Handle) *T {
	if int(h.Index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.Index]
	if !s.occupied || s.generation != h.Generation {
		return nil
	}
	return &s.value
}

// Contains reports whether h currently resolves to a live value.
func (a *Arena[T]) Contains(h Handle) bool {
	_, ok := a.Get(h)
	return ok
}

// Deallocate frees the slot named by h, advancing its generation (wrapping
// on overflow) and linking it onto the free list. It returns the freed
// value and true if h was live; otherwise it is a no-op.
func (a *Arena[T]) Deallocate(h Handle) (T, bool) {
	var zero T
	if int(h.Index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[h.Index]
	if !s.occupied || s.generation != h.Generation {
		return zero, false
	}
	old := s.value
	s.value = zero
	s.occupied = false
	if s.generation == math.MaxUint32 {
		s.generation = 0
	} else {
		s.generation++
	}
	s.nextFree = a.freeHead
	a.freeHead = h.Index
	a.len--
	return old, true
}

// Clear empties every occupied slot, bumping each one's generation, and
// rebuilds the free list as a contiguous chain from slot 0 to the last
// slot so that subsequent allocations reuse slots in index order.
func (a *Arena[T]) Clear() {
	var zero T
	for i := range a.slots {
		s := &a.slots[i]
		if s.occupied {
			s.value = zero
			s.occupied = false
			if s.generation == math.MaxUint32 {
				s.generation = 0
			} else {
				s.generation++
			}
		}
	}
	a.len = 0
	for i := range a.slots {
		if i == len(a.slots)-1 {
			a.slots[i].nextFree = noFree
		} else {
			a.slots[i].nextFree = uint32(i + 1)
		}
	}
	if len(a.slots) == 0 {
		a.freeHead = noFree
	} else {
		a.freeHead = 0
	}
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int { return a.len }

// IsEmpty reports whether the arena holds no live values.
func (a *Arena[T]) IsEmpty() bool { return a.len == 0 }

// Iter calls fn for every live (handle, value) pair in slot-index order.
// It stops early if fn returns false.
func (a *Arena[T]) Iter(fn func(Handle, T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.occupied {
			if !fn(Handle{Index: uint32(i), Generation: s.generation}, s.value) {
				return
			}
		}
	}
}

// IterMut calls fn with a mutable pointer to every live value in
// slot-index order.
func (a *Arena[T]) IterMut(fn func(Handle, *T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.occupied {
			if !fn(Handle{Index: uint32(i), Generation: s.generation}, &s.value) {
				return
			}
		}
	}
}
