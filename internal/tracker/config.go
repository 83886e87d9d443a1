package tracker

import "time"

const (
	DefaultBatchSize     = 10
	DefaultFlushInterval = 5 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryBase     = time.Second

	// MaxBatch is the most entries the collector accepts in one request.
	MaxBatch = 100
)

// Config tunes batching and delivery. Zero values take the defaults.
type Config struct {
	// Endpoint is the collector URL. Empty discards batches.
	Endpoint string
	// BatchSize is the queue length that triggers a flush, at most MaxBatch.
	BatchSize     int
	FlushInterval time.Duration
	// MaxRetries counts delivery retries after the first attempt. Negative disables retries.
	MaxRetries int
	// RetryBase is the first backoff; each retry doubles it.
	RetryBase time.Duration
	// Development logs every report locally.
	Development bool
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	c.BatchSize = min(c.BatchSize, MaxBatch)
	if c.FlushInterval <= 0 {
		c.FlushInterval = DefaultFlushInterval
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryBase <= 0 {
		c.RetryBase = DefaultRetryBase
	}
	return c
}

// retries is the number of delivery retries, never negative.
func (c Config) retries() int {
	return max(c.MaxRetries, 0)
}
