package relay

import (
	"context"
	"iter"
	"sync/atomic"
	"time"

	"github.com/relaychan/relay/internal/core"
)

// Receiver is the synchronous (thread-driven) consumer handle onto a
// shared channel. The zero value is not usable; obtain one from Bounded,
// Unbounded, or by cloning an existing Receiver/AsyncReceiver.
type Receiver[T any] struct {
	core      *core.ChannelCore[T]
	connected bool // false for a clone born after the receive side already shut down
	dropped   atomic.Bool
}

func newReceiver[T any](c *core.ChannelCore[T]) *Receiver[T] {
	return &Receiver[T]{core: c, connected: true}
}

// Recv blocks the calling goroutine until a payload is available (directly
// from a sender or from the buffer), the channel is closed, or ctx is done.
// Pass context.Background() for an unqualified (non-timed) receive.
//
// Errors: ErrClosed, ErrSendClosed, ErrTimeout.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	return r.core.Recv(ctx)
}

// RecvTimeout is Recv with a deadline.
func (r *Receiver[T]) RecvTimeout(d time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return r.Recv(ctx)
}

// TryRecv attempts a non-parking receive. ok is false with a nil error when
// the buffer is empty and no sender is waiting.
func (r *Receiver[T]) TryRecv() (value T, ok bool, err error) {
	return r.core.TryRecv()
}

// IsBounded reports whether this channel has a fixed logical capacity.
func (r *Receiver[T]) IsBounded() bool { return r.core.IsBounded() }

// Len reports the number of payloads currently buffered.
func (r *Receiver[T]) Len() int { return r.core.Len() }

// IsEmpty reports whether the buffer currently holds no payloads.
func (r *Receiver[T]) IsEmpty() bool { return r.core.IsEmpty() }

// Capacity reports the logical capacity, or core.Unbounded.
func (r *Receiver[T]) Capacity() int { return r.core.Capacity() }

// IsClosed reports whether both sides of the channel have shut down.
func (r *Receiver[T]) IsClosed() bool { return r.core.IsClosed() }

// IsDisconnected reports whether every sender has disconnected — once any
// buffered payloads are drained, a Recv from this point on will fail with
// ErrSendClosed.
func (r *Receiver[T]) IsDisconnected() bool { return !r.core.SendLive() }

// Close releases this Receiver handle, decrementing the channel's
// live-consumer count if this handle was ever actually counted (see
// Clone). On the release that brings the count to zero, every parked
// sender is woken with ErrSendClosed — spec.md names every terminated
// send-side wait that way regardless of which side's count triggered the
// termination — its payload left with the caller. Close is safe to call at
// most once per handle. See Sender.Close for why this, not Shutdown, is
// the Go stand-in for spec.md's endpoint Drop.
func (r *Receiver[T]) Close() {
	if !r.dropped.CompareAndSwap(false, true) {
		panic("relay: Receiver closed more than once")
	}
	if r.connected {
		r.core.DropRecv()
	}
}

// Shutdown forces the entire channel closed; see Sender.Shutdown.
func (r *Receiver[T]) Shutdown() bool { return r.core.Close() }

// Clone produces a new Receiver sharing this channel. If the receive side
// has already shut down, the clone is born disconnected.
func (r *Receiver[T]) Clone() *Receiver[T] {
	connected := r.core.CloneRecv()
	return &Receiver[T]{core: r.core, connected: connected}
}

// CloneAsync produces an AsyncReceiver sharing this channel, converting
// this connection's driving mode from thread-driven to cooperative.
func (r *Receiver[T]) CloneAsync(opts ...Option) *AsyncReceiver[T] {
	connected := r.core.CloneRecv()
	return newAsyncReceiverConnected(r.core, connected, opts...)
}

// Iter yields payloads until the channel reports any error (ErrClosed,
// ErrSendClosed, or a cancelled ctx); the error itself is not surfaced
// through the sequence, matching the external iterate-consumer contract.
func (r *Receiver[T]) Iter(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := r.Recv(ctx)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
