package core

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

// state is the lifecycle of a Signal. Monotonic: Waiting can only move to
// Transferred (a peer completed the transfer) or Terminated (shutdown), never
// back, and never both.
type state int32

const (
	waiting state = iota
	transferred
	terminated
)

// Signal binds one parked waiter to the memory cell its payload lives in.
// The owner publishes a Signal on a WaitQueue, releases the channel mutex,
// and calls Wait; a peer under the mutex pops the Signal and calls Complete
// or Consume exactly once, outside the mutex except for the buffer-drain
// promotion, which calls Consume with the mutex held.
//
// slot must stay valid from publication until the state leaves waiting.
// ChannelCore points it at Send's own payload parameter (send side) or at
// a cell Recv allocates for the call (receive side), never into the Signal
// itself; the async endpoints go through the same Send/Recv calls.
type Signal[T any] struct {
	slot *T
	st   atomic.Int32
	done chan struct{}
	once sync.Once
	elem *list.Element // this Signal's node in whichever WaitQueue holds it
}

// NewSignal constructs a Signal in the Waiting state pointing at slot. For a
// receive-side Signal slot is uninitialized storage the peer will write
// into; for a send-side Signal it already holds the payload the peer will
// move out of.
func NewSignal[T any](slot *T) *Signal[T] {
	s := &Signal[T]{done: make(chan struct{})}
	s.st.Store(int32(waiting))
	s.slot = slot
	return s
}

func (s *Signal[T]) close() {
	s.once.Do(func() { close(s.done) })
}

// Complete is called by a receive-side peer's counterpart: the sender moves
// payload into *slot, transitions Waiting -> Transferred, and wakes the
// owner. Must be called at most once, only while Waiting.
func (s *Signal[T]) Complete(payload T) {
	*s.slot = payload
	s.st.Store(int32(transferred))
	s.close()
}

// Consume is called on a send-side Signal by the receiver taking its
// payload: it reads *slot, transitions Waiting -> Transferred, wakes the
// owner, and returns the value. The owner must treat its local copy as
// logically moved and never use it again.
func (s *Signal[T]) Consume() T {
	v := *s.slot
	s.st.Store(int32(transferred))
	s.close()
	return v
}

// Terminate forces Waiting -> Terminated and wakes the owner. Used by
// shutdown and by the endpoint-drop cascade.
func (s *Signal[T]) Terminate() {
	s.st.Store(int32(terminated))
	s.close()
}

// Wait blocks (or, for an async future, suspends its driving goroutine)
// until the Signal leaves Waiting or ctx is done. It returns ok=true if the
// Signal transferred, ok=false if it was terminated, and timedOut=true if
// ctx expired or was cancelled before either — in which case the Signal's
// state has NOT changed and the caller (still holding the only reference
// to this Signal outside the WaitQueue) must retract it via
// WaitQueue.Remove before deciding anything about its outcome.
func (s *Signal[T]) Wait(ctx context.Context) (ok bool, timedOut bool) {
	select {
	case <-s.done:
		return state(s.st.Load()) == transferred, false
	case <-ctx.Done():
		select {
		case <-s.done:
			// Lost the race: a peer finished between the two selects.
			return state(s.st.Load()) == transferred, false
		default:
			return false, true
		}
	}
}

// Value returns the payload written into slot. Valid only after Wait has
// reported ok=true (Transferred).
func (s *Signal[T]) Value() T { return *s.slot }

// State reports the current lifecycle state. Exposed for WaitQueue.Remove's
// caller to decide whether a retraction attempt is even meaningful; the
// authoritative check remains the queue removal itself.
func (s *Signal[T]) State() (ok bool, terminatedState bool) {
	switch state(s.st.Load()) {
	case transferred:
		return true, false
	case terminated:
		return false, true
	default:
		return false, false
	}
}
