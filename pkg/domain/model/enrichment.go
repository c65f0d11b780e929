package model

import "strings"

// Enrichment is the derived {summary, tags, embedding} triple computed
// from a note's normalized text. It is always produced as one atomic
// unit: a failed or timed-out backend call yields an entire fallback
// result, never a partially written one.
type Enrichment struct {
	Summary   string
	Tags      []string
	Embedding []float32
}

// MergeTags returns the case-insensitive union of existing and incoming
// tags. Existing tags keep their original casing; an incoming tag is
// appended only if no existing tag matches it case-insensitively.
// Blank tags are dropped.
func MergeTags(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	merged := make([]string, 0, len(existing)+len(incoming))
	appendTags := func(tags []string) {
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			key := strings.ToLower(tag)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, tag)
		}
	}
	appendTags(existing)
	appendTags(incoming)
	return merged
}
