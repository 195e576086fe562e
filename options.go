package relay

// Option configures an async endpoint at construction or conversion time.
// Modeled on the functional-options pattern used for concurrent data
// structure configuration throughout the pack (see
// gravitational/teleport's concurrentqueue.Option), rather than a struct of
// public fields, since the option set is expected to grow.
type Option func(*asyncConfig)

type asyncConfig struct {
	maxInFlight int64
}

const defaultMaxInFlight = 64

func newAsyncConfig(opts []Option) asyncConfig {
	cfg := asyncConfig{maxInFlight: defaultMaxInFlight}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxInFlight bounds how many of this async endpoint's Send/Recv
// futures may have a goroutine actively running the rendezvous protocol at
// once. Additional calls queue on a semaphore rather than spawning
// unboundedly many goroutines — the admission control that stands in for
// "the executor" a true cooperative runtime would provide. Must be
// positive; non-positive values are replaced with the default.
func WithMaxInFlight(n int64) Option {
	return func(c *asyncConfig) {
		if n > 0 {
			c.maxInFlight = n
		}
	}
}
