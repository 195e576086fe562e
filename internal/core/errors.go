package core

import "errors"

// Sentinel errors returned by ChannelCore operations. Callers compare with
// errors.Is rather than type assertion, since none of these carry a payload.
var (
	// Closed is returned by Send/TrySend once sendCount is zero and by
	// Recv/TryRecv once recvCount is zero (after Close, both).
	Closed = errors.New("relay: channel is closed")

	// SendClosed is returned to a receiver when every producer has
	// disconnected, and to a parked sender whose Signal was terminated
	// (by Close or by the last DropRecv).
	SendClosed = errors.New("relay: send side is closed")

	// ReceiveClosed is returned to a sender when every consumer has
	// disconnected and the payload could never be drained.
	ReceiveClosed = errors.New("relay: receive side is closed")

	// ErrTimeout is returned when a timed or context-bound wait expires (or
	// its context is cancelled) and the owner successfully retracted its
	// Signal before a peer could complete it.
	ErrTimeout = errors.New("relay: operation timed out")
)
