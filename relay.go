package relay

import "github.com/relaychan/relay/internal/core"

// Bounded creates a channel with a fixed buffer capacity. size may be zero,
// yielding a pure rendezvous channel where every transfer is a direct
// handoff between a parked sender and a parked receiver.
func Bounded[T any](size int) (*Sender[T], *Receiver[T]) {
	c := core.NewBounded[T](size)
	return newSender(c), newReceiver(c)
}

// Unbounded creates a channel whose buffer has no logical size limit. Its
// physical storage starts at 2048 entries and doubles whenever it fills.
func Unbounded[T any]() (*Sender[T], *Receiver[T]) {
	c := core.NewUnbounded[T]()
	return newSender(c), newReceiver(c)
}

// BoundedAsync is Bounded, yielding cooperative (task-driven) endpoints.
func BoundedAsync[T any](size int, opts ...Option) (*AsyncSender[T], *AsyncReceiver[T]) {
	c := core.NewBounded[T](size)
	return newAsyncSender(c, opts...), newAsyncReceiver(c, opts...)
}

// UnboundedAsync is Unbounded, yielding cooperative (task-driven)
// endpoints.
func UnboundedAsync[T any](opts ...Option) (*AsyncSender[T], *AsyncReceiver[T]) {
	c := core.NewUnbounded[T]()
	return newAsyncSender(c, opts...), newAsyncReceiver(c, opts...)
}
