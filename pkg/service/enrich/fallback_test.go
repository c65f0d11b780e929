package enrich_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/service/enrich"
)

func TestFallbackSummary(t *testing.T) {
	t.Run("empty input yields sentinel", func(t *testing.T) {
		gt.Value(t, enrich.FallbackSummary("")).Equal(enrich.NoContentSummary)
	})

	t.Run("short text returned unchanged", func(t *testing.T) {
		text := "A short note about nothing in particular"
		gt.Value(t, enrich.FallbackSummary(text)).Equal(text)
	})

	t.Run("keyword template wins for long text", func(t *testing.T) {
		text := "This recipe needs flour sugar butter eggs and vanilla " +
			strings.Repeat("mix everything together carefully ", 10)
		gt.Value(t, enrich.FallbackSummary(text)).
			Equal("A recipe note with ingredients and preparation steps.")
	})

	t.Run("meeting keyword selects meeting template", func(t *testing.T) {
		text := "Weekly meeting with the platform group " +
			strings.Repeat("we discussed several follow ups ", 10)
		gt.Value(t, enrich.FallbackSummary(text)).
			Equal("Notes from a meeting covering agenda items and decisions.")
	})

	t.Run("first sentence used when no keyword matches", func(t *testing.T) {
		text := "The observatory opened at dawn. " +
			strings.Repeat("Visitors wandered between telescopes looking upward. ", 10)
		gt.Value(t, enrich.FallbackSummary(text)).Equal("The observatory opened at dawn.")
	})

	t.Run("word truncation as last resort", func(t *testing.T) {
		text := strings.TrimSpace(strings.Repeat("tiny gap fig ury bon cat dog elm fox gnu ", 20))
		got := enrich.FallbackSummary(text)
		gt.Bool(t, strings.HasSuffix(got, "...")).True()
		gt.Bool(t, len(strings.Fields(got)) <= 25).True()
	})

	t.Run("deterministic", func(t *testing.T) {
		text := strings.Repeat("an unremarkable paragraph about ordinary events in town ", 8)
		gt.Value(t, enrich.FallbackSummary(text)).Equal(enrich.FallbackSummary(text))
	})
}

func TestFallbackTags(t *testing.T) {
	t.Run("extracts long tokens in order", func(t *testing.T) {
		tags := enrich.FallbackTags("planning the garden layout for spring", enrich.DefaultMaxTags)
		gt.Array(t, tags).Equal([]string{"planning", "garden", "layout", "notes", "personal"})
	})

	t.Run("short tokens excluded", func(t *testing.T) {
		tags := enrich.FallbackTags("the cat sat on a mat", enrich.DefaultMaxTags)
		gt.Array(t, tags).Equal([]string{"notes", "personal"})
	})

	t.Run("capped at maxTags", func(t *testing.T) {
		tags := enrich.FallbackTags("alpha bravo charlie delta echo foxtrot golf hotel", 5)
		gt.Array(t, tags).Length(5)
	})

	t.Run("no duplicates", func(t *testing.T) {
		tags := enrich.FallbackTags("coffee coffee coffee beans beans", enrich.DefaultMaxTags)
		seen := map[string]bool{}
		for _, tag := range tags {
			gt.Bool(t, seen[tag]).False()
			seen[tag] = true
		}
	})
}

func TestFallbackEmbedding(t *testing.T) {
	t.Run("fixed dimension", func(t *testing.T) {
		gt.Array(t, enrich.FallbackEmbedding("anything")).Length(model.EmbeddingDimension)
		gt.Array(t, enrich.FallbackEmbedding("")).Length(model.EmbeddingDimension)
	})

	t.Run("deterministic per text", func(t *testing.T) {
		a := enrich.FallbackEmbedding("same text")
		b := enrich.FallbackEmbedding("same text")
		gt.Array(t, a).Equal(b)
	})

	t.Run("distinct texts yield distinct vectors", func(t *testing.T) {
		a := enrich.FallbackEmbedding("first text")
		b := enrich.FallbackEmbedding("second text")

		same := true
		for i := range a {
			if a[i] != b[i] {
				same = false
				break
			}
		}
		gt.Bool(t, same).False()
	})

	t.Run("values stay within unit range", func(t *testing.T) {
		for _, v := range enrich.FallbackEmbedding("range check") {
			gt.Bool(t, v >= -1 && v <= 1).True()
		}
	})
}
