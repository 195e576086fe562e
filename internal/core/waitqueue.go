package core

import "container/list"

// WaitQueue is the FIFO of pending Signals for one direction (send or
// receive) of a single ChannelCore. It does not own the Signals — the
// owning stack frame or async future does — it only orders them.
//
// Every method here is called with the core's mutex already held; WaitQueue
// itself has no locking of its own, matching container/list's non-safe-for-
// concurrent-use contract.
type WaitQueue[T any] struct {
	l list.List
}

// PushBack registers s at the tail of the queue.
func (q *WaitQueue[T]) PushBack(s *Signal[T]) {
	s.elem = q.l.PushBack(s)
}

// PopFront removes and returns the head Signal, or nil if the queue is
// empty.
func (q *WaitQueue[T]) PopFront() *Signal[T] {
	e := q.l.Front()
	if e == nil {
		return nil
	}
	q.l.Remove(e)
	s := e.Value.(*Signal[T])
	s.elem = nil
	return s
}

// Remove retracts s from the queue if it is still present, returning true
// in that case. It is the core of the cancellation race: a timed-out owner
// calls Remove under the mutex, and if it returns true the owner has
// reclaimed sole ownership of a still-Waiting Signal. If it returns false, a
// peer already popped s (via PopFront, see Complete/Consume callers) and is
// mid-transfer; the owner must Wait to observe the outcome.
func (q *WaitQueue[T]) Remove(s *Signal[T]) bool {
	if s.elem == nil {
		return false
	}
	q.l.Remove(s.elem)
	s.elem = nil
	return true
}

// Len reports the number of pending Signals.
func (q *WaitQueue[T]) Len() int { return q.l.Len() }

// Empty reports whether the queue has no pending Signals.
func (q *WaitQueue[T]) Empty() bool { return q.l.Len() == 0 }

// DrainTerminate pops every Signal and terminates it, used by shutdown and
// by the endpoint-drop cascade. The queue is empty on return.
func (q *WaitQueue[T]) DrainTerminate() {
	for {
		s := q.PopFront()
		if s == nil {
			return
		}
		s.Terminate()
	}
}
