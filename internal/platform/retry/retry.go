// Package retry runs an operation again after failures with linear backoff.
package retry

import (
	"context"
	"fmt"
	"sync"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/janisto/legalhelp-api/internal/tracker"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
)

// Reporter receives every failed attempt.
type Reporter interface {
	LogError(
		ctx context.Context,
		err any,
		where string,
		metadata map[string]any,
		severity tracker.Severity,
		category tracker.Category,
	)
}

type options struct {
	maxRetries int
	baseDelay  time.Duration
	reporter   Reporter
}

// Option configures Do.
type Option func(*options)

// WithMaxRetries sets the total number of attempts. Values below 1 mean 1.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = max(n, 1)
	}
}

// WithBaseDelay sets the wait after the first failure. The wait after attempt
// n is n times this value.
func WithBaseDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.baseDelay = d
		}
	}
}

// WithReporter replaces the process-wide tracker as the failure sink.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// Do calls op until it succeeds or the attempts run out, and returns the last
// error unchanged. Every error is retried. Cancelling ctx ends the wait early
// and returns ctx.Err().
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	o := options{maxRetries: DefaultMaxRetries, baseDelay: DefaultBaseDelay}
	for _, opt := range opts {
		opt(&o)
	}
	reporter := o.reporter
	if reporter == nil {
		reporter = tracker.Default()
	}

	attempt := 0
	backoff := goretry.WithMaxRetries(uint64(o.maxRetries-1), linear(o.baseDelay))
	return goretry.DoValue(ctx, backoff, func(ctx context.Context) (T, error) {
		attempt++
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		reporter.LogError(ctx, err, fmt.Sprintf("Retry attempt %d/%d", attempt, o.maxRetries),
			map[string]any{"attempt": attempt, "maxRetries": o.maxRetries},
			tracker.SeverityMedium, tracker.CategoryJavaScript)
		return v, goretry.RetryableError(err)
	})
}

// linear yields base, 2*base, 3*base and so on.
func linear(base time.Duration) goretry.Backoff {
	var mu sync.Mutex
	var n int64
	return goretry.BackoffFunc(func() (time.Duration, bool) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return base * time.Duration(n), false
	})
}
