// Package autosave debounces persistence writes for an editing session
// and keeps them from racing an in-flight enrichment job or an explicit
// user save.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/papyrus-lab/papyrus/pkg/utils/async"
	"github.com/papyrus-lab/papyrus/pkg/utils/logging"
)

// DefaultDebounce is the quiet period after the last edit before an
// automatic save fires.
const DefaultDebounce = 3 * time.Second

// Coordinator schedules debounced saves. A fire is suppressed entirely
// while the enrichment gate reports processing, so stale enrichment
// fields that are about to be overwritten are never persisted; edits
// during that window re-arm the timer, so a save is attempted again
// once enrichment settles and a further quiet period elapses.
type Coordinator struct {
	delay      time.Duration
	save       func(ctx context.Context) error
	processing func() bool
	empty      func() bool

	mu    sync.Mutex
	timer *time.Timer
}

type Option func(*Coordinator)

// WithDebounce overrides the debounce delay, mainly for tests
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) {
		c.delay = d
	}
}

// New creates a coordinator. save performs the persistence write;
// processing gates automatic saves while enrichment is running; empty
// reports whether the session has neither title nor content, in which
// case saving is a no-op.
func New(save func(ctx context.Context) error, processing func() bool, empty func() bool, opts ...Option) *Coordinator {
	c := &Coordinator{
		delay:      DefaultDebounce,
		save:       save,
		processing: processing,
		empty:      empty,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Changed restarts the debounce timer. Called on every title, content,
// or tag change, including the application of an enrichment result.
func (c *Coordinator) Changed(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(ctx)
	})
}

// Flush cancels any pending automatic save and performs the write
// itself, synchronously. Used by explicit user saves so that an
// autosave and a manual save never append two versions for the same
// logical edit.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	c.stopTimerLocked()
	c.mu.Unlock()

	if c.empty() {
		return nil
	}
	return c.save(ctx)
}

// Stop cancels any pending automatic save
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
}

func (c *Coordinator) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) fire(ctx context.Context) {
	c.mu.Lock()
	c.timer = nil
	c.mu.Unlock()

	if c.processing() {
		logging.From(ctx).Debug("autosave suppressed while enrichment is running")
		return
	}
	if c.empty() {
		return
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		return c.save(ctx)
	})
}
