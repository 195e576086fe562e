package relay

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/relaychan/relay/internal/core"
)

// Result carries a received value together with any error from an
// AsyncReceiver.Recv future, since a channel receive can fail.
type Result[T any] struct {
	Value T
	Err   error
}

// AsyncSender is the cooperative (task-driven) producer handle onto a
// shared channel. Send returns a future immediately instead of blocking the
// calling goroutine; the future is driven by a goroutine admitted through
// sem, which stands in for the bounded executor a true coroutine runtime
// would schedule the task onto.
type AsyncSender[T any] struct {
	core      *core.ChannelCore[T]
	sem       *semaphore.Weighted
	connected bool // false for a clone born after the send side already shut down
	dropped   atomic.Bool
}

func newAsyncSender[T any](c *core.ChannelCore[T], opts ...Option) *AsyncSender[T] {
	return newAsyncSenderConnected(c, true, opts...)
}

// newAsyncSenderConnected builds an AsyncSender whose connected state is
// known ahead of time — used by Sender.CloneAsync, whose core.CloneSend()
// call has already run.
func newAsyncSenderConnected[T any](c *core.ChannelCore[T], connected bool, opts ...Option) *AsyncSender[T] {
	cfg := newAsyncConfig(opts)
	return &AsyncSender[T]{core: c, sem: semaphore.NewWeighted(cfg.maxInFlight), connected: connected}
}

// Send returns a future (a buffered channel that will receive exactly one
// value) for a send of payload. Cancelling ctx before the future resolves
// triggers the same remove-then-wait retraction ChannelCore.Send performs
// for a synchronous timeout: the driving goroutine always runs to
// completion and reports ErrTimeout, success, or the shutdown error it
// met, so payload is never lost even if the caller stops reading the
// future.
func (s *AsyncSender[T]) Send(ctx context.Context, payload T) <-chan error {
	future := make(chan error, 1)
	go func() {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			future <- ErrTimeout
			return
		}
		defer s.sem.Release(1)
		future <- s.core.Send(ctx, payload)
	}()
	return future
}

// TrySend attempts a non-parking send without spawning a future; it is
// already non-blocking so there is nothing to admit through sem.
func (s *AsyncSender[T]) TrySend(payload T) (bool, error) {
	return s.core.TrySend(payload)
}

// TrySendOption is TrySend for a recoverable payload.
func (s *AsyncSender[T]) TrySendOption(payload **T) (bool, error) {
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
func (s *AsyncSender[T]) IsBounded() bool { return s.core.IsBounded() }

// Len reports the number of payloads currently buffered.
func (s *AsyncSender[T]) Len() int { return s.core.Len() }

// IsEmpty reports whether the buffer currently holds no payloads.
func (s *AsyncSender[T]) IsEmpty() bool { return s.core.IsEmpty() }

// Capacity reports the logical capacity, or core.Unbounded.
func (s *AsyncSender[T]) Capacity() int { return s.core.Capacity() }

// IsClosed reports whether both sides of the channel have shut down.
func (s *AsyncSender[T]) IsClosed() bool { return s.core.IsClosed() }

// IsDisconnected reports whether every receiver has disconnected.
func (s *AsyncSender[T]) IsDisconnected() bool { return !s.core.RecvLive() }

// Close releases this AsyncSender handle; see Sender.Close. Safe to call at
// most once per handle.
func (s *AsyncSender[T]) Close() {
	if !s.dropped.CompareAndSwap(false, true) {
		panic("relay: AsyncSender closed more than once")
	}
	if s.connected {
		s.core.DropSend()
	}
}

// Shutdown forces the entire channel closed; see Sender.Shutdown.
func (s *AsyncSender[T]) Shutdown() bool { return s.core.Close() }

// Clone produces a new AsyncSender sharing this channel and this handle's
// admission semaphore. If the send side has already shut down, the clone is
// born disconnected.
func (s *AsyncSender[T]) Clone() *AsyncSender[T] {
	connected := s.core.CloneSend()
	return &AsyncSender[T]{core: s.core, sem: s.sem, connected: connected}
}

// CloneSync produces a synchronous Sender sharing this channel, converting
// this connection's driving mode from cooperative back to thread-driven.
func (s *AsyncSender[T]) CloneSync() *Sender[T] {
	connected := s.core.CloneSend()
	return &Sender[T]{core: s.core, connected: connected}
}

// AsyncReceiver is the cooperative (task-driven) consumer handle onto a
// shared channel.
type AsyncReceiver[T any] struct {
	core      *core.ChannelCore[T]
	sem       *semaphore.Weighted
	connected bool // false for a clone born after the receive side already shut down
	dropped   atomic.Bool
}

func newAsyncReceiver[T any](c *core.ChannelCore[T], opts ...Option) *AsyncReceiver[T] {
	return newAsyncReceiverConnected(c, true, opts...)
}

// newAsyncReceiverConnected builds an AsyncReceiver whose connected state is
// known ahead of time — used by Receiver.CloneAsync, whose
// core.CloneRecv() call has already run.
func newAsyncReceiverConnected[T any](c *core.ChannelCore[T], connected bool, opts ...Option) *AsyncReceiver[T] {
	cfg := newAsyncConfig(opts)
	return &AsyncReceiver[T]{core: c, sem: semaphore.NewWeighted(cfg.maxInFlight), connected: connected}
}

// Recv returns a future for one received value. See AsyncSender.Send for
// the cancellation contract.
func (r *AsyncReceiver[T]) Recv(ctx context.Context) <-chan Result[T] {
	future := make(chan Result[T], 1)
	go func() {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			future <- Result[T]{Err: ErrTimeout}
			return
		}
		defer r.sem.Release(1)
		v, err := r.core.Recv(ctx)
		future <- Result[T]{Value: v, Err: err}
	}()
	return future
}

// TryRecv attempts a non-parking receive.
func (r *AsyncReceiver[T]) TryRecv() (value T, ok bool, err error) {
	return r.core.TryRecv()
}

// IsBounded reports whether this channel has a fixed logical capacity.
func (r *AsyncReceiver[T]) IsBounded() bool { return r.core.IsBounded() }

// Len reports the number of payloads currently buffered.
func (r *AsyncReceiver[T]) Len() int { return r.core.Len() }

// IsEmpty reports whether the buffer currently holds no payloads.
func (r *AsyncReceiver[T]) IsEmpty() bool { return r.core.IsEmpty() }

// Capacity reports the logical capacity, or core.Unbounded.
func (r *AsyncReceiver[T]) Capacity() int { return r.core.Capacity() }

// IsClosed reports whether both sides of the channel have shut down.
func (r *AsyncReceiver[T]) IsClosed() bool { return r.core.IsClosed() }

// IsDisconnected reports whether every sender has disconnected.
func (r *AsyncReceiver[T]) IsDisconnected() bool { return !r.core.SendLive() }

// Close releases this AsyncReceiver handle; see Receiver.Close. Safe to
// call at most once per handle.
func (r *AsyncReceiver[T]) Close() {
	if !r.dropped.CompareAndSwap(false, true) {
		panic("relay: AsyncReceiver closed more than once")
	}
	if r.connected {
		r.core.DropRecv()
	}
}

// Shutdown forces the entire channel closed; see Sender.Shutdown.
func (r *AsyncReceiver[T]) Shutdown() bool { return r.core.Close() }

// Clone produces a new AsyncReceiver sharing this channel and this handle's
// admission semaphore. If the receive side has already shut down, the
// clone is born disconnected.
func (r *AsyncReceiver[T]) Clone() *AsyncReceiver[T] {
	connected := r.core.CloneRecv()
	return &AsyncReceiver[T]{core: r.core, sem: r.sem, connected: connected}
}

// CloneSync produces a synchronous Receiver sharing this channel.
func (r *AsyncReceiver[T]) CloneSync() *Receiver[T] {
	connected := r.core.CloneRecv()
	return &Receiver[T]{core: r.core, connected: connected}
}
