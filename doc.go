/*
Package relay is a multi-producer multi-consumer channel that unifies
blocking, thread-driven usage and cooperative, context-driven usage against
the same underlying channel.

A single channel is created with one of four constructors:

	tx, rx := relay.Bounded[int](16)
	tx, rx := relay.Unbounded[int]()
	atx, arx := relay.BoundedAsync[int](16)
	atx, arx := relay.UnboundedAsync[int]()

Senders and Receivers are reference-counted handles onto a shared core
(package internal/core): cloning a handle increments its side's live count,
Close decrements it, and the channel as a whole shuts down once both the
send-side and receive-side counts reach zero. A handle can be converted
between the synchronous and cooperative driving mode at any point with
CloneAsync/CloneSync without losing its place in the channel.

	err := tx.Send(ctx, 7)   // blocks the caller
	future := atx.Send(ctx, 7) // returns a future immediately

Messages sent across the channel travel exactly once to exactly one
receiver; there is no broadcast, no priority among waiters beyond arrival
order, and no persistence across process restarts.
*/
package relay
