package relay_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/relaychan/relay"
	"github.com/relaychan/relay/workerpool"
)

// ExampleBounded demonstrates several producers feeding one bounded channel
// drained by a small worker pool, mirroring the teacher's own pattern of
// multiple senders racing into a single shared receiver.
func ExampleBounded() {
	tx, rx := relay.Bounded[int](4)

	const producers = 3
	const perProducer = 4

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		p := p
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = tx.Send(context.Background(), p*perProducer+i)
			}
		}()
	}

	var mu sync.Mutex
	var got []int
	pool := workerpool.New(rx, 2)
	results := pool.Run(context.Background(), func(ctx context.Context, v int) error {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
		return nil
	})

	wg.Wait()
	tx.Close()
	for range results {
		// drain any handler errors; none expected here
	}

	sort.Ints(got)
	fmt.Println(len(got))
	// Output: 12
}
