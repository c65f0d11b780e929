package enrich

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/utils/async"
)

// DefaultDebounce is the quiet period after the last content change
// before enrichment runs.
const DefaultDebounce = 1500 * time.Millisecond

// ApplyFunc receives a completed enrichment result. Tags are already
// merged with the session's existing tags; summary and embedding
// replace the previous values outright.
type ApplyFunc func(ctx context.Context, result *model.Enrichment)

// Scheduler debounces and coalesces enrichment requests for one
// editing session. Only the most recent content snapshot is ever
// enriched; superseded snapshots' scheduled work is discarded
// unstarted. At most one enrichment runs at a time, so results are
// applied in completion order and never out of order.
type Scheduler struct {
	engine      *Engine
	delay       time.Duration
	apply       ApplyFunc
	currentTags func() []string

	mu      sync.Mutex
	timer   *time.Timer
	running bool
	rerun   bool
	latest  string
}

type SchedulerOption func(*Scheduler)

// WithDebounce overrides the debounce delay, mainly for tests
func WithDebounce(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.delay = d
	}
}

// WithCurrentTags supplies the session's existing tags for the
// case-insensitive merge on completion.
func WithCurrentTags(f func() []string) SchedulerOption {
	return func(s *Scheduler) {
		s.currentTags = f
	}
}

// NewScheduler creates a scheduler for one editing session
func NewScheduler(engine *Engine, apply ApplyFunc, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		engine:      engine,
		delay:       DefaultDebounce,
		apply:       apply,
		currentTags: func() []string { return nil },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ContentChanged records a new content snapshot and restarts the
// debounce timer. Content below the minimum threshold cancels any
// pending work and schedules nothing. While a job is running the
// change is recorded and a new cycle starts after it completes.
func (s *Scheduler) ContentChanged(ctx context.Context, plainText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = plainText

	if utf8.RuneCountInString(plainText) < MinEmbeddingLength {
		s.stopTimerLocked()
		return
	}

	if s.running {
		s.rerun = true
		return
	}

	s.restartTimerLocked(ctx)
}

// Regenerate bypasses the debounce timer. A regenerate issued while a
// job is running coalesces into a single re-trigger after the running
// job finishes instead of stacking a concurrent call.
func (s *Scheduler) Regenerate(ctx context.Context) {
	s.mu.Lock()

	if utf8.RuneCountInString(s.latest) < MinEmbeddingLength {
		s.mu.Unlock()
		return
	}
	if s.running {
		s.rerun = true
		s.mu.Unlock()
		return
	}

	s.stopTimerLocked()
	text := s.latest
	s.running = true
	s.mu.Unlock()

	s.dispatch(ctx, text)
}

// Processing reports whether an enrichment job is currently running.
// Completion, success or fallback, always returns this to false.
func (s *Scheduler) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop cancels any pending debounce timer. A running job is not
// interrupted; its result is still applied.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

func (s *Scheduler) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) restartTimerLocked(ctx context.Context) {
	s.stopTimerLocked()
	s.timer = time.AfterFunc(s.delay, func() {
		s.fire(ctx)
	})
}

func (s *Scheduler) fire(ctx context.Context) {
	s.mu.Lock()
	s.timer = nil

	if s.running {
		s.rerun = true
		s.mu.Unlock()
		return
	}
	text := s.latest
	if utf8.RuneCountInString(text) < MinEmbeddingLength {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.dispatch(ctx, text)
}

func (s *Scheduler) dispatch(ctx context.Context, text string) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		result := s.engine.Enrich(ctx, text)
		result.Tags = model.MergeTags(s.currentTags(), result.Tags)
		s.apply(ctx, result)

		s.mu.Lock()
		s.running = false
		rerun := s.rerun
		s.rerun = false
		if rerun {
			s.restartTimerLocked(ctx)
		}
		s.mu.Unlock()
		return nil
	})
}
