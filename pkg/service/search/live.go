package search

import (
	"context"
	"sync"
	"time"
)

// DefaultLiveDebounce is the quiet period after the last keystroke
// before a live query executes.
const DefaultLiveDebounce = 300 * time.Millisecond

// Live debounces query updates from live typing so the corpus is not
// re-ranked on every keystroke. Clearing the query resets to the
// unfiltered corpus immediately rather than producing an empty result
// set.
type Live struct {
	delay time.Duration
	run   func(ctx context.Context, query string)

	mu    sync.Mutex
	timer *time.Timer
}

type LiveOption func(*Live)

// WithLiveDebounce overrides the debounce delay, mainly for tests
func WithLiveDebounce(d time.Duration) LiveOption {
	return func(l *Live) {
		l.delay = d
	}
}

// NewLive creates a live query debouncer. run executes a search for the
// settled query; it is invoked with "" when the query is cleared.
func NewLive(run func(ctx context.Context, query string), opts ...LiveOption) *Live {
	l := &Live{
		delay: DefaultLiveDebounce,
		run:   run,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Update records a new query snapshot, restarting the debounce timer.
// An empty query cancels pending work and resets immediately.
func (l *Live) Update(ctx context.Context, query string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopTimerLocked()

	if query == "" {
		l.run(ctx, "")
		return
	}

	l.timer = time.AfterFunc(l.delay, func() {
		l.mu.Lock()
		l.timer = nil
		l.mu.Unlock()
		l.run(ctx, query)
	})
}

// Stop cancels any pending query execution
func (l *Live) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopTimerLocked()
}

func (l *Live) stopTimerLocked() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}
