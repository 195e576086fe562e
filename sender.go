package relay

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/relaychan/relay/internal/core"
)

// Sender is the synchronous (thread-driven) producer handle onto a shared
// channel. The zero value is not usable; obtain one from Bounded, Unbounded,
// or by cloning an existing Sender/AsyncSender.
type Sender[T any] struct {
	core      *core.ChannelCore[T]
	connected bool // false for a clone born after the send side already shut down
	dropped   atomic.Bool
}

func newSender[T any](c *core.ChannelCore[T]) *Sender[T] {
	return &Sender[T]{core: c, connected: true}
}

// Send blocks the calling goroutine until the payload is handed to a
// receiver (directly or via the buffer), the channel is closed, or ctx is
// done. Pass context.Background() for an unqualified (non-timed) send.
//
// Errors: ErrClosed, ErrSendClosed, ErrReceiveClosed, ErrTimeout.
func (s *Sender[T]) Send(ctx context.Context, payload T) error {
	return s.core.Send(ctx, payload)
}

// SendTimeout is Send with a deadline; it is exactly
// Send(ctx-with-timeout, payload) spelled out for callers that prefer a
// duration over constructing a context.
func (s *Sender[T]) SendTimeout(payload T, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return s.Send(ctx, payload)
}

// SendOptionTimeout sends *payload before the deadline. On success *payload
// is set to nil (the value has been logically moved out and handed off or
// buffered). On ErrTimeout or ErrSendClosed, *payload is left exactly as it
// was, so the caller can retry the same send without reconstructing the
// value. payload must not be nil, and *payload must not be nil.
func (s *Sender[T]) SendOptionTimeout(payload **T, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	v := **payload
	if err := s.Send(ctx, v); err != nil {
		return err
	}
	*payload = nil
	return nil
}

// TrySend attempts a non-parking send. It returns (true, nil) on success,
// (false, nil) if the buffer is full and no receiver is waiting (the
// channel may still be perfectly usable; this call simply would have
// blocked), or an error for ErrClosed.
func (s *Sender[T]) TrySend(payload T) (bool, error) {
	return s.core.TrySend(payload)
}

// TrySendOption is TrySend for a recoverable payload: on a false return
// *payload is untouched; on true it is set to nil.
func (s *Sender[T]) TrySendOption(payload **T) (bool, error) {
	ok, err := s.core.TrySend(**payload)
	if err != nil {
		return false, err
	}
	if ok {
		*payload = nil
	}
	return ok, nil
}

// IsBounded reports whether this channel has a fixed logical capacity.
func (s *Sender[T]) IsBounded() bool { return s.core.IsBounded() }

// Len reports the number of payloads currently buffered.
func (s *Sender[T]) Len() int { return s.core.Len() }

// IsEmpty reports whether the buffer currently holds no payloads.
func (s *Sender[T]) IsEmpty() bool { return s.core.IsEmpty() }

// Capacity reports the logical capacity, or core.Unbounded.
func (s *Sender[T]) Capacity() int { return s.core.Capacity() }

// IsClosed reports whether both sides of the channel have shut down.
func (s *Sender[T]) IsClosed() bool { return s.core.IsClosed() }

// IsDisconnected reports whether every receiver has disconnected — a send
// from this point on will fail with ErrReceiveClosed once the buffer, if
// any, is full.
func (s *Sender[T]) IsDisconnected() bool { return !s.core.RecvLive() }

// Close releases this Sender handle, decrementing the channel's
// live-producer count if this handle was ever actually counted (a clone
// born after the send side had already shut down was not, and releasing it
// is a no-op — see Clone). On the release that brings the count to zero,
// every parked receiver is woken with ErrSendClosed. Close is safe to call
// at most once per handle; calling it again panics, matching the
// double-disconnect guard the teacher's bus.go enforces on its own
// reference count via its coopTerm panic.
//
// This is the Go stand-in for spec.md's endpoint Drop: Go has no
// destructors, so the per-handle release that Rust performs implicitly on
// scope exit is an explicit method here. It is distinct from Shutdown,
// which forces the whole channel closed regardless of other live handles.
func (s *Sender[T]) Close() {
	if !s.dropped.CompareAndSwap(false, true) {
		panic("relay: Sender closed more than once")
	}
	if s.connected {
		s.core.DropSend()
	}
}

// Shutdown forces the entire channel closed: both endpoint counts are set
// to zero and every parked Signal on both wait queues is terminated,
// regardless of how many other Sender/Receiver handles remain live. It
// returns whether the channel had been live (either side non-zero)
// beforehand. This is spec.md's endpoint close() operation.
func (s *Sender[T]) Shutdown() bool { return s.core.Close() }

// Clone produces a new Sender sharing this channel. If the send side has
// already shut down, the clone is born disconnected — it behaves exactly
// like an endpoint on a closed channel, and releasing it with Close is a
// no-op rather than an erroneous extra decrement.
func (s *Sender[T]) Clone() *Sender[T] {
	connected := s.core.CloneSend()
	return &Sender[T]{core: s.core, connected: connected}
}

// CloneAsync produces an AsyncSender sharing this channel, converting this
// connection's driving mode from thread-driven to cooperative without
// losing its place as a live producer.
func (s *Sender[T]) CloneAsync(opts ...Option) *AsyncSender[T] {
	connected := s.core.CloneSend()
	return newAsyncSenderConnected(s.core, connected, opts...)
}
