package enrich

import (
	"math"
	"regexp"
	"strings"

	"github.com/papyrus-lab/papyrus/pkg/domain/model"
)

// DefaultMaxTags caps the number of generated tags
const DefaultMaxTags = 5

// fallbackSummaryMaxLength is the longest text returned unchanged and
// the cutoff for using the first sentence as the summary.
const fallbackSummaryMaxLength = 160

// fallbackSummaryWordCount is the truncation width of the last-resort
// summary.
const fallbackSummaryWordCount = 24

// summaryTemplate maps keyword presence to a fixed topical summary
type summaryTemplate struct {
	keywords []string
	summary  string
}

var summaryTemplates = []summaryTemplate{
	{
		keywords: []string{"recipe", "ingredients"},
		summary:  "A recipe note with ingredients and preparation steps.",
	},
	{
		keywords: []string{"meeting", "agenda", "minutes"},
		summary:  "Notes from a meeting covering agenda items and decisions.",
	},
	{
		keywords: []string{"shopping", "groceries"},
		summary:  "A shopping list of items to pick up.",
	},
	{
		keywords: []string{"todo", "task", "checklist"},
		summary:  "A checklist of tasks to complete.",
	},
	{
		keywords: []string{"idea", "brainstorm"},
		summary:  "A collection of ideas and brainstorming notes.",
	},
}

// stopWords to exclude from content-word extraction
var stopWords = map[string]bool{
	"the": true, "of": true, "and": true, "a": true, "an": true,
	"to": true, "in": true, "on": true, "for": true, "at": true, "by": true,
	"is": true, "it": true, "as": true, "be": true, "was": true,
	"are": true, "been": true, "with": true, "from": true, "into": true,
	"that": true, "this": true, "these": true, "those": true,
	"has": true, "have": true, "had": true, "will": true, "would": true,
	"his": true, "her": true, "its": true, "their": true, "your": true,
	"about": true, "which": true, "there": true, "where": true, "when": true,
	"should": true, "could": true, "other": true, "after": true, "before": true,
}

// commonTagVocabulary tops up the fallback tag set
var commonTagVocabulary = []string{"notes", "personal"}

var nonWordSplitter = regexp.MustCompile(`\W+`)

// FallbackSummary produces a deterministic offline summary. Texts at or
// under the target length are returned unchanged; otherwise keyword
// presence selects a topical template, then the first sentence, then a
// synthesized topic sentence from content words, then a word-count
// truncation with an ellipsis.
func FallbackSummary(plainText string) string {
	if plainText == "" {
		return NoContentSummary
	}
	if len(plainText) <= fallbackSummaryMaxLength {
		return plainText
	}

	lower := strings.ToLower(plainText)
	for _, tmpl := range summaryTemplates {
		for _, kw := range tmpl.keywords {
			if strings.Contains(lower, kw) {
				return tmpl.summary
			}
		}
	}

	if sentence := firstSentence(plainText); sentence != "" && len(sentence) <= fallbackSummaryMaxLength {
		return sentence
	}

	if topics := contentWords(plainText, 3); len(topics) > 0 {
		return "A note covering topics such as " + strings.Join(topics, ", ") + "."
	}

	words := strings.Fields(plainText)
	if len(words) > fallbackSummaryWordCount {
		words = words[:fallbackSummaryWordCount]
	}
	return strings.Join(words, " ") + "..."
}

// FallbackTags produces deterministic offline tags: unique lowercase
// tokens longer than 3 characters in order of first appearance, topped
// up with the fixed common vocabulary and truncated to maxTags.
func FallbackTags(plainText string, maxTags int) []string {
	if maxTags <= 0 {
		maxTags = DefaultMaxTags
	}

	seen := make(map[string]bool)
	tags := make([]string, 0, maxTags)
	for _, token := range nonWordSplitter.Split(strings.ToLower(plainText), -1) {
		if len(token) <= 3 || seen[token] {
			continue
		}
		seen[token] = true
		tags = append(tags, token)
		if len(tags) >= maxTags-len(commonTagVocabulary) {
			break
		}
	}

	for _, common := range commonTagVocabulary {
		if !seen[common] {
			seen[common] = true
			tags = append(tags, common)
		}
	}

	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// FallbackEmbedding produces a deterministic pseudo-random vector of
// model.EmbeddingDimension from a 32-bit rolling hash of the text.
// Identical text yields a bit-identical vector, which keeps semantic
// search fully functional offline and in tests.
func FallbackEmbedding(plainText string) []float32 {
	var hash uint32
	for _, ch := range plainText {
		hash = hash*31 + uint32(ch)
	}

	vec := make([]float32, model.EmbeddingDimension)
	for i := range vec {
		x := float64(hash) + float64(i)
		vec[i] = float32((math.Sin(x) + math.Cos(2*x)) / 2)
	}
	return vec
}

func firstSentence(text string) string {
	for i, ch := range text {
		if ch == '.' || ch == '!' || ch == '?' {
			return strings.TrimSpace(text[:i+1])
		}
	}
	return ""
}

// contentWords extracts up to max distinct words longer than 4
// characters, excluding stop words, in order of first appearance.
func contentWords(text string, max int) []string {
	seen := make(map[string]bool)
	words := make([]string, 0, max)
	for _, token := range nonWordSplitter.Split(strings.ToLower(text), -1) {
		if len(token) <= 4 || stopWords[token] || seen[token] {
			continue
		}
		seen[token] = true
		words = append(words, token)
		if len(words) >= max {
			break
		}
	}
	return words
}
