package relay

import "github.com/relaychan/relay/internal/core"

// Sentinel errors returned by Sender/Receiver operations. Compare with
// errors.Is; none of these carry a payload of their own.
var (
	// ErrClosed indicates the caller's own side of the channel has shut
	// down: a send once the live-producer count is zero, a receive once the
	// live-consumer count is zero (after Shutdown, both).
	ErrClosed = core.Closed

	// ErrSendClosed indicates a receive found no producer left, or a parked
	// send was terminated (by Shutdown, or by the last Receiver's Close)
	// before a peer took its payload, which stays with the caller.
	ErrSendClosed = core.SendClosed

	// ErrReceiveClosed indicates every consumer has disconnected, so a send
	// can never be drained. The payload the caller offered is not consumed.
	ErrReceiveClosed = core.ReceiveClosed

	// ErrTimeout indicates a timed or context-bound operation's deadline
	// passed (or its context was cancelled) before a peer committed to the
	// transfer. Payload retention is guaranteed for sends: the caller's
	// value was never handed to anyone.
	ErrTimeout = core.ErrTimeout
)
