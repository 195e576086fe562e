package workerpool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/relaychan/relay"
)

func TestPoolDrainsAllPayloads(t *testing.T) {
	require := require.New(t)
	tx, rx := relay.Bounded[int](8)

	var eg errgroup.Group
	const producers = 4
	const perProducer = 10
	for p := 0; p < producers; p++ {
		p := p
		eg.Go(func() error {
			for i := 0; i < perProducer; i++ {
				if err := tx.Send(context.Background(), p*perProducer+i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	var mu sync.Mutex
	seen := make(map[int]bool)
	pool := New(rx, 3)
	results := pool.Run(context.Background(), func(ctx context.Context, v int) error {
		mu.Lock()
		seen[v] = true
		mu.Unlock()
		return nil
	})

	require.NoError(eg.Wait())
	tx.Close()

	for range results {
		t.Fatal("no handler error expected")
	}

	require.Len(seen, producers*perProducer)
}

func TestPoolReportsHandlerErrors(t *testing.T) {
	require := require.New(t)
	tx, rx := relay.Bounded[int](4)

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		require.NoError(tx.Send(context.Background(), i))
	}
	tx.Close()

	pool := New(rx, 2)
	results := pool.Run(context.Background(), func(ctx context.Context, v int) error {
		if v == 1 {
			return boom
		}
		return nil
	})

	var errs []error
	for err := range results {
		errs = append(errs, err)
	}
	require.Len(errs, 1)
	require.ErrorIs(errs[0], boom)
}

func TestPoolStopsWhenContextCancelled(t *testing.T) {
	require := require.New(t)
	_, rx := relay.Bounded[int](1) // no sender ever sends

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	pool := New(rx, 2)
	results := pool.Run(ctx, func(ctx context.Context, v int) error { return nil })

	select {
	case _, ok := <-results:
		require.False(ok, "results must close once workers stop on ctx cancellation")
	case <-time.After(time.Second):
		t.Fatal("pool workers never stopped after context cancellation")
	}
}

func TestPoolClampsNonPositiveWorkerCount(t *testing.T) {
	require := require.New(t)
	_, rx := relay.Bounded[int](1)
	pool := New(rx, 0)
	require.Equal(1, pool.workers)
}
