package interfaces

import (
	"context"

	"github.com/papyrus-lab/papyrus/pkg/domain/model"
)

// NoteRepository defines the interface for Note data persistence.
// Ownership and sharing checks are the gateway's job; a repository only
// stores and retrieves documents.
type NoteRepository interface {
	// Put writes the note document, creating or replacing it
	Put(ctx context.Context, note *model.Note) (*model.Note, error)

	// Get retrieves a note by ID
	Get(ctx context.Context, id model.NoteID) (*model.Note, error)

	// ListByOwner retrieves all notes owned by the given user, sorted
	// by UpdatedAt descending
	ListByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Note, error)

	// Delete deletes a note by ID
	Delete(ctx context.Context, id model.NoteID) error
}

// DraftRepository defines the interface for ephemeral Draft persistence
type DraftRepository interface {
	// Put stores the draft, replacing any draft with the same key
	Put(ctx context.Context, draft *model.Draft) error

	// Get retrieves a draft by key for the given owner
	Get(ctx context.Context, ownerID model.UserID, key model.DraftKey) (*model.Draft, error)

	// Delete removes a draft by key for the given owner
	Delete(ctx context.Context, ownerID model.UserID, key model.DraftKey) error
}
