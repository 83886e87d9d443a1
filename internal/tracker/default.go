package tracker

import "sync/atomic"

var defaultTracker atomic.Pointer[Tracker]

// Default returns the process-wide tracker, creating a discarding one on
// first use.
func Default() *Tracker {
	if t := defaultTracker.Load(); t != nil {
		return t
	}
	defaultTracker.CompareAndSwap(nil, New(Config{}))
	return defaultTracker.Load()
}

// SetDefault replaces the process-wide tracker.
func SetDefault(t *Tracker) {
	if t != nil {
		defaultTracker.Store(t)
	}
}
