// Package enrich computes the derived {summary, tags, embedding} triple
// for a note's normalized text and schedules that work against live
// edits. When an LLM backend is configured each output is requested
// independently; any per-call failure falls back to a deterministic
// local computation, so callers never observe a backend error.
package enrich

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Minimum normalized-text lengths, counted in runes, below which each
// output short-circuits to its trivial result without any backend call.
const (
	MinSummaryLength   = 50
	MinTagsLength      = 20
	MinEmbeddingLength = 10
)

// NoContentSummary is returned for empty input
const NoContentSummary = "(no content)"

// Engine produces enrichment results. A nil LLM client is a valid,
// permanent configuration that always selects the fallback algorithms.
type Engine struct {
	llmClient gollem.LLMClient
	maxTags   int
}

type Option func(*Engine)

// WithMaxTags overrides the maximum number of generated tags
func WithMaxTags(n int) Option {
	return func(e *Engine) {
		e.maxTags = n
	}
}

// New creates an enrichment engine. llmClient may be nil, in which case
// every output is computed by the deterministic fallback algorithms.
func New(llmClient gollem.LLMClient, opts ...Option) *Engine {
	e := &Engine{
		llmClient: llmClient,
		maxTags:   DefaultMaxTags,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BackendEnabled reports whether an LLM backend is configured
func (e *Engine) BackendEnabled() bool {
	return e.llmClient != nil
}

// Enrich computes summary, tags, and embedding for the given normalized
// text as one atomic unit. The three outputs are requested concurrently
// and each falls back independently, so the result is always complete.
func (e *Engine) Enrich(ctx context.Context, plainText string) *model.Enrichment {
	result := &model.Enrichment{}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		result.Summary = e.Summarize(ctx, plainText)
		return nil
	})
	eg.Go(func() error {
		result.Tags = e.Tags(ctx, plainText)
		return nil
	})
	eg.Go(func() error {
		result.Embedding = e.Embed(ctx, plainText)
		return nil
	})
	_ = eg.Wait()

	return result
}

// Summarize returns a one-line summary of the text. Short inputs are
// returned verbatim; empty input yields the NoContentSummary sentinel.
func (e *Engine) Summarize(ctx context.Context, plainText string) string {
	if plainText == "" {
		return NoContentSummary
	}
	if utf8.RuneCountInString(plainText) < MinSummaryLength {
		return plainText
	}

	if e.llmClient != nil {
		summary, err := e.llmSummarize(ctx, plainText)
		if err == nil {
			return summary
		}
		logging.From(ctx).Warn("summary backend failed, using fallback", "error", err)
	}

	return FallbackSummary(plainText)
}

// Tags returns a deduplicated set of tags for the text. Inputs below
// the threshold yield no tags.
func (e *Engine) Tags(ctx context.Context, plainText string) []string {
	if utf8.RuneCountInString(plainText) < MinTagsLength {
		return []string{}
	}

	if e.llmClient != nil {
		tags, err := e.llmTags(ctx, plainText)
		if err == nil {
			return tags
		}
		logging.From(ctx).Warn("tag backend failed, using fallback", "error", err)
	}

	return FallbackTags(plainText, e.maxTags)
}

// Embed returns an embedding vector of model.EmbeddingDimension. Inputs
// below the threshold always use the deterministic fallback vector.
func (e *Engine) Embed(ctx context.Context, plainText string) []float32 {
	if utf8.RuneCountInString(plainText) >= MinEmbeddingLength && e.llmClient != nil {
		vec, err := e.llmEmbed(ctx, plainText)
		if err == nil {
			return vec
		}
		logging.From(ctx).Warn("embedding backend failed, using fallback", "error", err)
	}

	return FallbackEmbedding(plainText)
}

const summarySystemPrompt = "You are a note summarization assistant. " +
	"Summarize the user's note in a single plain sentence, in the same language as the note. " +
	"Respond with the summary only."

func (e *Engine) llmSummarize(ctx context.Context, text string) (string, error) {
	session, err := e.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(summarySystemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(text))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate summary")
	}
	if len(resp.Texts) == 0 || resp.Texts[0] == "" {
		return "", goerr.New("empty summary response")
	}

	return resp.Texts[0], nil
}

const tagSystemPrompt = "You are a note tagging assistant. " +
	"Propose short lowercase topic tags for the user's note. " +
	"Only include tags clearly supported by the note content."

// tagResponse is the structured output from the LLM
type tagResponse struct {
	Tags []string `json:"tags"`
}

func (e *Engine) llmTags(ctx context.Context, text string) ([]string, error) {
	session, err := e.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(e.tagResponseSchema()),
		gollem.WithSessionSystemPrompt(tagSystemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(text))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate tags")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("empty tag response")
	}

	var parsed tagResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse tag response", goerr.V("response", resp.Texts[0]))
	}

	tags := model.MergeTags(nil, parsed.Tags)
	if len(tags) > e.maxTags {
		tags = tags[:e.maxTags]
	}
	return tags, nil
}

func (e *Engine) tagResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "NoteTagResponse",
		Description: "Topic tags for a note",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"tags": {
				Type:        gollem.TypeArray,
				Description: "Short lowercase topic tags",
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
				Required: true,
			},
		},
	}
}

func (e *Engine) llmEmbed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}
	if len(embeddings) == 0 {
		return nil, goerr.New("no embedding returned")
	}
	if len(embeddings[0]) != model.EmbeddingDimension {
		return nil, goerr.New("unexpected embedding dimension",
			goerr.V("got", len(embeddings[0])),
			goerr.V("want", model.EmbeddingDimension))
	}

	result := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		result[i] = float32(v)
	}
	return result, nil
}
