package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// EmbeddingDimension is the dimension of the embedding vector.
// Gemini text-embedding-004 uses 768 dimensions, and the fallback
// embedding generator produces vectors of the same length so the
// corpus stays comparable regardless of how each note was enriched.
const EmbeddingDimension = 768

// NoteID is a UUID-based identifier for Note
type NoteID string

// NewNoteID generates a new UUID v4 NoteID
func NewNoteID() NoteID {
	return NoteID(uuid.New().String())
}

// UserID identifies a user. It is supplied by the authentication
// collaborator and is opaque to this service.
type UserID string

// Version is an immutable snapshot of a note's title and content,
// appended on each content-changing save. Never mutated or deleted.
type Version struct {
	Title     string
	Content   string
	Timestamp time.Time
}

// Note represents a user note with its AI-derived enrichment fields
// and append-only version history.
type Note struct {
	ID        NoteID
	Title     string
	Content   string // markup source, normalized on demand
	Tags      []string
	Summary   string
	Embedding []float32 // empty or EmbeddingDimension long
	OwnerID   UserID
	SharedWith []UserID
	CreatedAt time.Time
	UpdatedAt time.Time
	Versions  []Version // oldest first
}

// Validate checks the note's structural invariants
func (n *Note) Validate() error {
	if n.ID == "" {
		return goerr.New("note ID is required")
	}
	if n.OwnerID == "" {
		return goerr.New("note owner is required", goerr.V("id", n.ID))
	}
	if len(n.Embedding) != 0 && len(n.Embedding) != EmbeddingDimension {
		return goerr.New("invalid embedding dimension",
			goerr.V("id", n.ID),
			goerr.V("got", len(n.Embedding)),
			goerr.V("want", EmbeddingDimension))
	}
	if n.UpdatedAt.Before(n.CreatedAt) {
		return goerr.New("updatedAt precedes createdAt", goerr.V("id", n.ID))
	}
	return nil
}

// CanRead reports whether the given user may read this note. The owner
// and any identity in SharedWith have read access.
func (n *Note) CanRead(uid UserID) bool {
	if n.OwnerID == uid {
		return true
	}
	for _, shared := range n.SharedWith {
		if shared == uid {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the note
func (n *Note) Clone() *Note {
	copied := *n
	if n.Tags != nil {
		copied.Tags = make([]string, len(n.Tags))
		copy(copied.Tags, n.Tags)
	}
	if n.Embedding != nil {
		copied.Embedding = make([]float32, len(n.Embedding))
		copy(copied.Embedding, n.Embedding)
	}
	if n.SharedWith != nil {
		copied.SharedWith = make([]UserID, len(n.SharedWith))
		copy(copied.SharedWith, n.SharedWith)
	}
	if n.Versions != nil {
		copied.Versions = make([]Version, len(n.Versions))
		copy(copied.Versions, n.Versions)
	}
	return &copied
}

// LastVersion returns the most recent version snapshot, or nil if the
// note has never been saved.
func (n *Note) LastVersion() *Version {
	if len(n.Versions) == 0 {
		return nil
	}
	return &n.Versions[len(n.Versions)-1]
}

// NoteUpdate is a typed partial update of a note. Nil pointer fields are
// left untouched. Tags are merged as a case-insensitive union with the
// existing tags; Title and Content overwrite.
type NoteUpdate struct {
	Title   *string
	Content *string
	Tags    []string
}

// Apply merges the update into the note and reports whether the content
// field changed (which decides re-enrichment and version appending).
func (u NoteUpdate) Apply(n *Note) (contentChanged bool) {
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Content != nil && *u.Content != n.Content {
		n.Content = *u.Content
		contentChanged = true
	}
	if len(u.Tags) > 0 {
		n.Tags = MergeTags(n.Tags, u.Tags)
	}
	return contentChanged
}
