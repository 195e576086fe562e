package core

import "math"

// Unbounded is the logical-capacity sentinel reported by a channel whose
// buffer has no user-visible size limit. It is distinct from the ring
// buffer's physical capacity, which starts small and doubles — callers of
// Capacity must never confuse the two.
const Unbounded = math.MaxInt

const unboundedStartCap = 2048

// ringBuffer is a slice-backed circular FIFO of T. A zero-capacity
// ringBuffer is valid and always full and empty simultaneously (len==cap==0)
// — it backs a pure rendezvous channel where every transfer is direct.
type ringBuffer[T any] struct {
	buf        []T
	head       int
	length     int
	bounded    bool
	logicalCap int // Unbounded sentinel when !bounded
}

func newBoundedRing[T any](size int) *ringBuffer[T] {
	return &ringBuffer[T]{
		buf:        make([]T, size),
		bounded:    true,
		logicalCap: size,
	}
}

func newUnboundedRing[T any]() *ringBuffer[T] {
	return &ringBuffer[T]{
		buf:        make([]T, unboundedStartCap),
		bounded:    false,
		logicalCap: Unbounded,
	}
}

// Len returns the number of buffered payloads.
func (r *ringBuffer[T]) Len() int { return r.length }

// Cap returns the logical capacity: the fixed size for a bounded buffer, or
// Unbounded — never the physical slice length.
func (r *ringBuffer[T]) Cap() int { return r.logicalCap }

// Bounded reports whether this buffer has a fixed logical capacity.
func (r *ringBuffer[T]) Bounded() bool { return r.bounded }

// Full reports whether the buffer has reached its logical capacity. Always
// false for unbounded buffers.
func (r *ringBuffer[T]) Full() bool {
	return r.bounded && r.length >= r.logicalCap
}

// PushBack appends payload to the tail. Returns false (and leaves the
// buffer untouched) if a bounded buffer is already full; an unbounded
// buffer doubles its physical storage instead of failing.
func (r *ringBuffer[T]) PushBack(payload T) bool {
	if r.Full() {
		return false
	}
	if r.length == len(r.buf) {
		r.grow()
	}
	idx := (r.head + r.length) % len(r.buf)
	r.buf[idx] = payload
	r.length++
	return true
}

// PopFront removes and returns the head payload.
func (r *ringBuffer[T]) PopFront() (T, bool) {
	var zero T
	if r.length == 0 {
		return zero, false
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero // drop the reference so the GC can reclaim it
	r.head = (r.head + 1) % len(r.buf)
	r.length--
	return v, true
}

// grow doubles physical capacity and relays out elements contiguously
// starting at index 0. Only ever called on unbounded buffers: a bounded
// buffer's physical size equals its logical capacity for its entire
// lifetime, so PushBack always rejects before reaching this point for it.
func (r *ringBuffer[T]) grow() {
	next := make([]T, len(r.buf)*2)
	for i := 0; i < r.length; i++ {
		next[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	r.buf = next
	r.head = 0
}
