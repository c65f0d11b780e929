package search_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/papyrus-lab/papyrus/pkg/service/search"
)

// queryRecorder collects executed queries thread-safely
type queryRecorder struct {
	mu      sync.Mutex
	queries []string
}

func (r *queryRecorder) run(ctx context.Context, query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
}

func (r *queryRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func (r *queryRecorder) waitFor(t *testing.T, n int, timeout time.Duration) []string {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if queries := r.snapshot(); len(queries) >= n {
			return queries
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d queries, got %d", n, len(r.snapshot()))
	return nil
}

func TestLiveDebounce(t *testing.T) {
	rec := &queryRecorder{}
	live := search.NewLive(rec.run, search.WithLiveDebounce(150*time.Millisecond))
	defer live.Stop()
	ctx := context.Background()

	// Keystroke-by-keystroke updates collapse to the settled query.
	live.Update(ctx, "g")
	time.Sleep(10 * time.Millisecond)
	live.Update(ctx, "ga")
	time.Sleep(10 * time.Millisecond)
	live.Update(ctx, "garden")

	queries := rec.waitFor(t, 1, 5*time.Second)
	gt.Array(t, queries).Equal([]string{"garden"})
}

func TestLiveEmptyQueryResetsImmediately(t *testing.T) {
	rec := &queryRecorder{}
	live := search.NewLive(rec.run, search.WithLiveDebounce(10*time.Second))
	defer live.Stop()
	ctx := context.Background()

	live.Update(ctx, "garden")
	live.Update(ctx, "")

	// The reset runs synchronously and the pending query is discarded.
	gt.Array(t, rec.snapshot()).Equal([]string{""})

	time.Sleep(50 * time.Millisecond)
	gt.Array(t, rec.snapshot()).Equal([]string{""})
}

func TestLiveStopCancelsPending(t *testing.T) {
	rec := &queryRecorder{}
	live := search.NewLive(rec.run, search.WithLiveDebounce(10*time.Millisecond))
	ctx := context.Background()

	live.Update(ctx, "garden")
	live.Stop()

	time.Sleep(100 * time.Millisecond)
	gt.Array(t, rec.snapshot()).Length(0)
}
