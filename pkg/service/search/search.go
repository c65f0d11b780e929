// Package search serves lexical filtering/ranking and cosine-similarity
// semantic ranking over the note corpus.
package search

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/service/normalize"
)

// ErrDimensionMismatch is returned when comparing vectors of unequal
// length. The corpus-wide fixed embedding dimension makes this a
// programmer error rather than an expected condition.
var ErrDimensionMismatch = goerr.New("embedding dimension mismatch")

// DefaultSemanticLimit caps semantic search results
const DefaultSemanticLimit = 10

// Lexical match weights per field
const (
	weightTitle   = 10.0
	weightTag     = 7.0
	weightSummary = 5.0
	weightContent = 2.0
)

// Embedder computes an embedding for query text. Implemented by
// enrich.Engine.
type Embedder interface {
	Embed(ctx context.Context, plainText string) []float32
}

// Result pairs a note with its relevance score
type Result struct {
	Note  *model.Note
	Score float64
}

// Engine ranks a materialized note collection. It holds no state of
// its own; the caller supplies the corpus on each call.
type Engine struct {
	embedder Embedder
}

func New(embedder Embedder) *Engine {
	return &Engine{embedder: embedder}
}

// Lexical performs case-insensitive substring matching against title,
// tags, summary, and normalized content, scoring weighted hits and
// sorting descending. Ties keep the original corpus order. An empty
// query returns the unfiltered corpus with zero scores.
func (e *Engine) Lexical(notes []*model.Note, query string) []Result {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		results := make([]Result, len(notes))
		for i, n := range notes {
			results[i] = Result{Note: n}
		}
		return results
	}

	results := make([]Result, 0, len(notes))
	for _, n := range notes {
		score := lexicalScore(n, query)
		if score > 0 {
			results = append(results, Result{Note: n, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func lexicalScore(n *model.Note, loweredQuery string) float64 {
	var score float64
	if strings.Contains(strings.ToLower(n.Title), loweredQuery) {
		score += weightTitle
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), loweredQuery) {
			score += weightTag
			break
		}
	}
	if strings.Contains(strings.ToLower(n.Summary), loweredQuery) {
		score += weightSummary
	}
	if strings.Contains(strings.ToLower(normalize.PlainText(n.Content)), loweredQuery) {
		score += weightContent
	}
	return score
}

// Semantic embeds the query and ranks all notes that carry an embedding
// by cosine similarity, descending, truncated to limit. Notes without
// an embedding are excluded rather than scored as zero.
func (e *Engine) Semantic(ctx context.Context, notes []*model.Note, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultSemanticLimit
	}

	queryVec := e.embedder.Embed(ctx, normalize.PlainText(query))

	results := make([]Result, 0, len(notes))
	for _, n := range notes {
		if len(n.Embedding) == 0 {
			continue
		}
		sim, err := Cosine(queryVec, n.Embedding)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to score note", goerr.V("id", n.ID))
		}
		results = append(results, Result{Note: n, Score: sim})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Cosine computes dot(a,b) / (||a|| * ||b||). Vectors of unequal
// length yield ErrDimensionMismatch; a zero-norm vector yields 0
// rather than dividing by zero.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, goerr.Wrap(ErrDimensionMismatch, "cannot compare vectors",
			goerr.V("lenA", len(a)), goerr.V("lenB", len(b)))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
