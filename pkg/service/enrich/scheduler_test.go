package enrich_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/service/enrich"
)

// applyRecorder collects applied enrichment results thread-safely
type applyRecorder struct {
	mu      sync.Mutex
	results []*model.Enrichment
}

func (r *applyRecorder) apply(ctx context.Context, result *model.Enrichment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *applyRecorder) snapshot() []*model.Enrichment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.Enrichment(nil), r.results...)
}

func (r *applyRecorder) waitFor(t *testing.T, n int, timeout time.Duration) []*model.Enrichment {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if results := r.snapshot(); len(results) >= n {
			return results
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d enrichment results, got %d", n, len(r.snapshot()))
	return nil
}

func TestSchedulerDebounce(t *testing.T) {
	engine := enrich.New(nil)
	rec := &applyRecorder{}
	scheduler := enrich.NewScheduler(engine, rec.apply, enrich.WithDebounce(150*time.Millisecond))
	defer scheduler.Stop()
	ctx := context.Background()

	// Rapid edits within the debounce window collapse to one run with
	// the final snapshot.
	first := strings.Repeat("draft one ", 5)
	second := strings.Repeat("draft two ", 5)
	final := strings.Repeat("final version of the note ", 5)

	scheduler.ContentChanged(ctx, first)
	time.Sleep(10 * time.Millisecond)
	scheduler.ContentChanged(ctx, second)
	time.Sleep(10 * time.Millisecond)
	scheduler.ContentChanged(ctx, final)

	results := rec.waitFor(t, 1, 5*time.Second)
	gt.Array(t, results).Length(1)
	gt.Array(t, results[0].Embedding).Equal(enrich.FallbackEmbedding(final))
}

func TestSchedulerShortContentCancels(t *testing.T) {
	engine := enrich.New(nil)
	rec := &applyRecorder{}
	scheduler := enrich.NewScheduler(engine, rec.apply, enrich.WithDebounce(20*time.Millisecond))
	defer scheduler.Stop()
	ctx := context.Background()

	scheduler.ContentChanged(ctx, strings.Repeat("long enough content ", 3))
	scheduler.ContentChanged(ctx, "tiny") // below threshold, cancels pending work

	time.Sleep(100 * time.Millisecond)
	gt.Array(t, rec.snapshot()).Length(0)
	gt.Bool(t, scheduler.Processing()).False()
}

func TestSchedulerRegenerate(t *testing.T) {
	engine := enrich.New(nil)
	rec := &applyRecorder{}
	scheduler := enrich.NewScheduler(engine, rec.apply, enrich.WithDebounce(10*time.Second))
	defer scheduler.Stop()
	ctx := context.Background()

	text := strings.Repeat("regenerate me now please ", 4)
	scheduler.ContentChanged(ctx, text)

	// Regenerate bypasses the long debounce window.
	scheduler.Regenerate(ctx)

	results := rec.waitFor(t, 1, 2*time.Second)
	gt.Array(t, results[0].Embedding).Equal(enrich.FallbackEmbedding(text))
}

func TestSchedulerRegenerateBelowThreshold(t *testing.T) {
	engine := enrich.New(nil)
	rec := &applyRecorder{}
	scheduler := enrich.NewScheduler(engine, rec.apply, enrich.WithDebounce(10*time.Millisecond))
	defer scheduler.Stop()
	ctx := context.Background()

	scheduler.ContentChanged(ctx, "tiny")
	scheduler.Regenerate(ctx)

	time.Sleep(50 * time.Millisecond)
	gt.Array(t, rec.snapshot()).Length(0)
}

func TestSchedulerMergesCurrentTags(t *testing.T) {
	engine := enrich.New(nil)
	rec := &applyRecorder{}
	scheduler := enrich.NewScheduler(engine, rec.apply,
		enrich.WithDebounce(10*time.Millisecond),
		enrich.WithCurrentTags(func() []string { return []string{"Pinned"} }),
	)
	defer scheduler.Stop()
	ctx := context.Background()

	text := strings.Repeat("pinned gardening notes for spring ", 3)
	scheduler.ContentChanged(ctx, text)

	results := rec.waitFor(t, 1, 2*time.Second)
	gt.Value(t, results[0].Tags[0]).Equal("Pinned")
	// "pinned" from the content must not reappear under different casing
	for _, tag := range results[0].Tags[1:] {
		gt.Value(t, strings.ToLower(tag)).NotEqual("pinned")
	}
}

func TestSchedulerProcessingSettles(t *testing.T) {
	engine := enrich.New(nil)
	rec := &applyRecorder{}
	scheduler := enrich.NewScheduler(engine, rec.apply, enrich.WithDebounce(10*time.Millisecond))
	defer scheduler.Stop()
	ctx := context.Background()

	scheduler.ContentChanged(ctx, strings.Repeat("settles back to idle ", 4))
	rec.waitFor(t, 1, 2*time.Second)

	// Completion always returns the scheduler to idle.
	deadline := time.Now().Add(time.Second)
	for scheduler.Processing() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	gt.Bool(t, scheduler.Processing()).False()
}
