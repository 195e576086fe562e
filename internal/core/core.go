// Package core implements the rendezvous and buffering heart of relay's
// MPMC channel: the shared channel state, its two wait queues, the direct
// stack-to-stack handoff protocol, and the shutdown semantics that keep
// every in-flight payload accounted for exactly once. Nothing in this
// package is exported outside the module — it is the shared engine that
// package relay's Sender/Receiver/AsyncSender/AsyncReceiver drive.
package core

import (
	"context"
	"sync"
)

// ChannelCore is the state shared by every endpoint of one channel: the
// optional ring buffer, the two wait queues, live endpoint counts, and the
// mutex serializing all of it. At most one of sendWaiters/recvWaiters is
// ever non-empty (invariant 1 in the design doc); a parked sender exists
// only while the buffer is full, a parked receiver only while it is empty
// (invariant 2).
type ChannelCore[T any] struct {
	mu sync.Mutex

	buffer      *ringBuffer[T]
	sendWaiters WaitQueue[T]
	recvWaiters WaitQueue[T]

	sendCount int
	recvCount int
}

// NewBounded builds a core with a fixed-capacity buffer (size 0 yields a
// pure rendezvous channel) and one live sender and one live receiver.
func NewBounded[T any](size int) *ChannelCore[T] {
	return &ChannelCore[T]{
		buffer:    newBoundedRing[T](size),
		sendCount: 1,
		recvCount: 1,
	}
}

// NewUnbounded builds a core whose buffer grows without a logical limit,
// physically starting at 2048 and doubling, and one live sender and
// receiver.
func NewUnbounded[T any]() *ChannelCore[T] {
	return &ChannelCore[T]{
		buffer:    newUnboundedRing[T](),
		sendCount: 1,
		recvCount: 1,
	}
}

// Send implements spec step sequence 1-5: closed check, direct handoff to a
// parked receiver, buffer admission, a receive-closed check, and finally
// parking the caller's own Signal until a peer completes it, it is
// terminated by shutdown, or ctx expires.
func (c *ChannelCore[T]) Send(ctx context.Context, payload T) error {
	c.mu.Lock()
	if c.sendCount == 0 {
		c.mu.Unlock()
		return Closed
	}
	if r := c.recvWaiters.PopFront(); r != nil {
		c.mu.Unlock()
		r.Complete(payload)
		return nil
	}
	if c.buffer.PushBack(payload) {
		c.mu.Unlock()
		return nil
	}
	if c.recvCount == 0 {
		c.mu.Unlock()
		return ReceiveClosed
	}
	sig := NewSignal(&payload)
	c.sendWaiters.PushBack(sig)
	c.mu.Unlock()

	return c.awaitSend(ctx, sig)
}

// awaitSend resolves a parked send-side Signal, including the cancellation
// race described in the design doc: a timed-out owner must retract the
// Signal from its queue before trusting its own "timed out" verdict, and if
// retraction fails a peer has already committed to the transfer.
func (c *ChannelCore[T]) awaitSend(ctx context.Context, sig *Signal[T]) error {
	ok, timedOut := sig.Wait(ctx)
	if !timedOut {
		if ok {
			return nil
		}
		return SendClosed
	}
	c.mu.Lock()
	if c.sendWaiters.Remove(sig) {
		c.mu.Unlock()
		return ErrTimeout
	}
	c.mu.Unlock()
	ok, _ = sig.Wait(context.Background())
	if ok {
		return nil
	}
	return SendClosed
}

// Recv implements the symmetric sequence, with the buffer-drain wrinkle
// from the design doc: draining a buffered payload, when a sender is
// parked, immediately promotes that sender's payload onto the buffer's
// tail so FIFO order relative to already-buffered messages is preserved.
func (c *ChannelCore[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	c.mu.Lock()
	if c.recvCount == 0 {
		c.mu.Unlock()
		return zero, Closed
	}
	if c.buffer.Len() > 0 {
		v, _ := c.buffer.PopFront()
		c.promoteSender()
		c.mu.Unlock()
		return v, nil
	}
	if s := c.sendWaiters.PopFront(); s != nil {
		c.mu.Unlock()
		return s.Consume(), nil
	}
	if c.sendCount == 0 {
		c.mu.Unlock()
		return zero, SendClosed
	}
	sig := NewSignal(new(T))
	c.recvWaiters.PushBack(sig)
	c.mu.Unlock()

	return c.awaitRecv(ctx, sig)
}

// promoteSender moves the parked sender at the front of sendWaiters (if
// any) onto the buffer's tail, filling the slot the preceding buffer pop
// just vacated. Called with the mutex held.
//
// This deliberately keeps Consume inside the critical section rather than
// releasing the mutex first (as the direct-handoff branches above do): the
// promoted payload's destination is the buffer, not a second waiter, so
// releasing the mutex here would let a receiver that arrives in the gap
// park on recvWaiters while the buffer still looks empty — producing a
// moment where recvWaiters is non-empty and the buffer is about to gain an
// entry nobody will ever wake that parked receiver for. Consume itself is
// O(1) (an atomic store and a channel close, no user destructor runs in
// Go), so holding the mutex across it is cheap and closes that window.
func (c *ChannelCore[T]) promoteSender() {
	s := c.sendWaiters.PopFront()
	if s == nil {
		return
	}
	c.buffer.PushBack(s.Consume())
}

func (c *ChannelCore[T]) awaitRecv(ctx context.Context, sig *Signal[T]) (T, error) {
	var zero T
	ok, timedOut := sig.Wait(ctx)
	if !timedOut {
		if ok {
			return sig.Value(), nil
		}
		return zero, SendClosed
	}
	c.mu.Lock()
	if c.recvWaiters.Remove(sig) {
		c.mu.Unlock()
		return zero, ErrTimeout
	}
	c.mu.Unlock()
	ok, _ = sig.Wait(context.Background())
	if ok {
		return sig.Value(), nil
	}
	return zero, SendClosed
}

// TrySend performs steps 1-3 of Send only: it never parks. A false return
// with a nil error means the buffer is full and no receiver is waiting —
// the same "would block" outcome whether or not any receiver will ever
// arrive.
func (c *ChannelCore[T]) TrySend(payload T) (bool, error) {
	c.mu.Lock()
	if c.sendCount == 0 {
		c.mu.Unlock()
		return false, Closed
	}
	if r := c.recvWaiters.PopFront(); r != nil {
		c.mu.Unlock()
		r.Complete(payload)
		return true, nil
	}
	if c.buffer.PushBack(payload) {
		c.mu.Unlock()
		return true, nil
	}
	c.mu.Unlock()
	return false, nil
}

// TryRecv performs the symmetric non-parking steps, including the
// buffer-drain sender promotion. A false return with a nil error means the
// buffer is empty and no sender is waiting.
func (c *ChannelCore[T]) TryRecv() (T, bool, error) {
	var zero T
	c.mu.Lock()
	if c.recvCount == 0 {
		c.mu.Unlock()
		return zero, false, Closed
	}
	if c.buffer.Len() > 0 {
		v, _ := c.buffer.PopFront()
		c.promoteSender()
		c.mu.Unlock()
		return v, true, nil
	}
	if s := c.sendWaiters.PopFront(); s != nil {
		c.mu.Unlock()
		return s.Consume(), true, nil
	}
	c.mu.Unlock()
	return zero, false, nil
}

// Close forces both endpoint counts to zero and terminates every parked
// Signal on both queues, returning whether the channel had been live
// (either count non-zero) beforehand.
func (c *ChannelCore[T]) Close() bool {
	c.mu.Lock()
	wasLive := c.sendCount > 0 || c.recvCount > 0
	c.sendCount = 0
	c.recvCount = 0
	c.sendWaiters.DrainTerminate()
	c.recvWaiters.DrainTerminate()
	c.mu.Unlock()
	return wasLive
}

// CloneSend increments sendCount only if it is already positive, returning
// whether the increment happened. A clone attempted after the producer
// side has shut down must not resurrect the channel — it is born
// disconnected instead.
func (c *ChannelCore[T]) CloneSend() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendCount > 0 {
		c.sendCount++
		return true
	}
	return false
}

// CloneRecv is CloneSend's receive-side mirror.
func (c *ChannelCore[T]) CloneRecv() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.recvCount > 0 {
		c.recvCount++
		return true
	}
	return false
}

// DropSend decrements sendCount; on the decrement that reaches zero it
// terminates every parked receive-side Signal, since no producer will ever
// satisfy them again. A no-op if sendCount is already zero: Close may have
// forced it there out from under a still-live handle, and releasing that
// handle afterward must be tolerated silently rather than treated as an
// over-release — the per-handle guard against a genuine double-release
// lives in the caller's own drop-once bool, not here.
func (c *ChannelCore[T]) DropSend() {
	c.mu.Lock()
	if c.sendCount == 0 {
		c.mu.Unlock()
		return
	}
	c.sendCount--
	if c.sendCount == 0 {
		c.recvWaiters.DrainTerminate()
	}
	c.mu.Unlock()
}

// DropRecv is DropSend's mirror: on reaching zero it terminates every
// parked send-side Signal, returning their payloads to their owners intact
// via the SendClosed path. Buffered payloads are left in the buffer, but
// Recv and TryRecv report Closed once recvCount is zero, so they are not
// delivered. Also a no-op once recvCount is already zero, for the same
// reason as DropSend.
func (c *ChannelCore[T]) DropRecv() {
	c.mu.Lock()
	if c.recvCount == 0 {
		c.mu.Unlock()
		return
	}
	c.recvCount--
	if c.recvCount == 0 {
		c.sendWaiters.DrainTerminate()
	}
	c.mu.Unlock()
}

// Len reports the number of payloads currently buffered.
func (c *ChannelCore[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.Len()
}

// IsEmpty reports whether the buffer currently holds no payloads.
func (c *ChannelCore[T]) IsEmpty() bool { return c.Len() == 0 }

// Capacity reports the logical capacity: the fixed size for a bounded
// channel, or the Unbounded sentinel.
func (c *ChannelCore[T]) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.Cap()
}

// IsBounded reports whether this channel has a fixed logical capacity.
func (c *ChannelCore[T]) IsBounded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.Bounded()
}

// IsClosed reports whether both endpoint counts have reached zero.
func (c *ChannelCore[T]) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendCount == 0 && c.recvCount == 0
}

// SendLive reports whether at least one producer is still connected.
func (c *ChannelCore[T]) SendLive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendCount > 0
}

// RecvLive reports whether at least one consumer is still connected.
func (c *ChannelCore[T]) RecvLive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recvCount > 0
}
