// Package workerpool pairs a relay channel with a small fixed-size worker
// pool that drains a Receiver and dispatches each payload to a handler
// function. It is built entirely on the public relay.Sender/relay.Receiver
// API — it never touches relay's internal rendezvous core — and exists to
// exercise the channel under the kind of N-producer/M-consumer load the
// teacher's own Benchmark_Example demonstrates with several senderCommand
// goroutines draining into one shared receiver.
package workerpool

import (
	"context"
	"sync"

	"github.com/relaychan/relay"
)

// Handler processes one payload pulled off the pool's Receiver. A non-nil
// return is sent on Run's result channel if its buffer (one slot per
// worker) has room, and dropped otherwise; it does not stop the worker
// that produced it from pulling the next payload.
type Handler[T any] func(context.Context, T) error

// Pool runs a fixed number of goroutines, each pulling payloads from a
// shared relay.Receiver and applying a Handler to them.
type Pool[T any] struct {
	rx      *relay.Receiver[T]
	workers int
}

// New builds a Pool draining rx with the given number of workers. workers
// is clamped to at least 1.
func New[T any](rx *relay.Receiver[T], workers int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}
	return &Pool[T]{rx: rx, workers: workers}
}

// Run starts the pool's workers and returns a channel of handler errors.
// Each worker calls Recv(ctx) in a loop and exits, without closing the
// Receiver itself, once Recv reports any error (the channel closed, the
// send side closed, or ctx done) — ownership of the Receiver (and the
// decision to Close it) stays with the caller. The result channel is
// closed once every worker has exited.
func (p *Pool[T]) Run(ctx context.Context, handle Handler[T]) <-chan error {
	results := make(chan error, p.workers)
	var wg sync.WaitGroup
	wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer wg.Done()
			for {
				v, err := p.rx.Recv(ctx)
				if err != nil {
					return
				}
				if herr := handle(ctx, v); herr != nil {
					select {
					case results <- herr:
					default:
						// Result buffer full: drop rather than block a worker
						// on a slow consumer of the error channel.
					}
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}
