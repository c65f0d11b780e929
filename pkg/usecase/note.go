package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/domain/interfaces"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/service/enrich"
	"github.com/papyrus-lab/papyrus/pkg/service/normalize"
	"github.com/papyrus-lab/papyrus/pkg/utils/logging"
)

// NoteUseCase is the persistence gateway. Every operation is scoped to
// a requesting identity. Writes go to the primary (remote) store; when
// the store is unavailable the identical logical operation is retried
// against the local fallback store, so the caller never observes a
// backend outage. Version history is computed once, before the first
// write attempt, so a fallback retry can never double-append.
type NoteUseCase struct {
	primary  interfaces.Repository
	fallback interfaces.Repository
	engine   *enrich.Engine
}

// NewNoteUseCase creates the persistence gateway over a primary and a
// local fallback repository.
func NewNoteUseCase(primary, fallback interfaces.Repository, engine *enrich.Engine) *NoteUseCase {
	return &NoteUseCase{
		primary:  primary,
		fallback: fallback,
		engine:   engine,
	}
}

// isUnavailable classifies a repository error as a store availability
// failure. NotFound resolves normally and is never fallback-eligible;
// neither are access decisions, which are made in this layer, not in
// the stores.
func isUnavailable(err error) bool {
	return err != nil && !errors.Is(err, interfaces.ErrNotFound)
}

// CreateNoteInput carries the fields of a note to be created. When
// Enrichment is nil the gateway runs enrichment inline.
type CreateNoteInput struct {
	Title      string
	Content    string
	Tags       []string
	Enrichment *model.Enrichment
}

// Create persists a new note. Both timestamps are set equal, a single
// initial Version is appended, and the note's draft is superseded.
func (uc *NoteUseCase) Create(ctx context.Context, input CreateNoteInput, ownerID model.UserID) (*model.Note, error) {
	if ownerID == "" {
		return nil, goerr.Wrap(ErrAccessDenied, "owner is required")
	}

	enrichment := input.Enrichment
	if enrichment == nil {
		enrichment = uc.engine.Enrich(ctx, normalize.PlainText(input.Content))
	}

	now := time.Now().UTC()
	note := &model.Note{
		ID:        model.NewNoteID(),
		Title:     input.Title,
		Content:   input.Content,
		Tags:      model.MergeTags(input.Tags, enrichment.Tags),
		Summary:   enrichment.Summary,
		Embedding: enrichment.Embedding,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
		Versions: []model.Version{
			{Title: input.Title, Content: input.Content, Timestamp: now},
		},
	}

	created, err := uc.primary.Note().Put(ctx, note)
	if isUnavailable(err) {
		logging.From(ctx).Warn("remote store unavailable, creating note in local fallback",
			"id", note.ID, "error", err)
		created, err = uc.fallback.Note().Put(ctx, note)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create note", goerr.V("id", note.ID))
	}

	return created, nil
}

// Get retrieves a note. Access denial is surfaced as not-found so that
// probing for note IDs reveals nothing.
func (uc *NoteUseCase) Get(ctx context.Context, id model.NoteID, requesterID model.UserID) (*model.Note, error) {
	note, err := uc.primary.Note().Get(ctx, id)
	if err != nil {
		if isUnavailable(err) {
			logging.From(ctx).Warn("remote store unavailable, reading note from local fallback",
				"id", id, "error", err)
		}
		// Notes created during an outage exist only in the fallback
		// store, so a remote miss still checks locally.
		note, err = uc.fallback.Note().Get(ctx, id)
	}
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrNoteNotFound, "note not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get note", goerr.V("id", id))
	}

	if !note.CanRead(requesterID) {
		return nil, goerr.Wrap(ErrNoteNotFound, "note not accessible", goerr.V("id", id))
	}

	return note, nil
}

// List returns the requester's notes sorted by UpdatedAt descending.
// The remote and local collections are reconciled: the remote copy
// wins per ID, and local-only notes (written during an outage) are
// included.
func (uc *NoteUseCase) List(ctx context.Context, ownerID model.UserID) ([]*model.Note, error) {
	remote, err := uc.primary.Note().ListByOwner(ctx, ownerID)
	if err != nil {
		logging.From(ctx).Warn("remote store unavailable, listing notes from local fallback",
			"ownerID", ownerID, "error", err)
		remote = nil
	}

	local, lerr := uc.fallback.Note().ListByOwner(ctx, ownerID)
	if lerr != nil {
		if err != nil {
			return nil, goerr.Wrap(lerr, "failed to list notes", goerr.V("ownerID", ownerID))
		}
		local = nil
	}

	seen := make(map[model.NoteID]bool, len(remote))
	merged := make([]*model.Note, 0, len(remote)+len(local))
	for _, n := range remote {
		seen[n.ID] = true
		merged = append(merged, n)
	}
	for _, n := range local {
		if !seen[n.ID] {
			merged = append(merged, n)
		}
	}

	// Re-sort: local-only notes interleave by update time.
	for i := 1; i < len(merged); i++ {
		for j := i; j > 0 && merged[j].UpdatedAt.After(merged[j-1].UpdatedAt); j-- {
			merged[j], merged[j-1] = merged[j-1], merged[j]
		}
	}

	return merged, nil
}

// Update applies a typed partial update. Enrichment re-runs only when
// the content actually changed, and exactly one Version is appended
// when the resulting title/content differ from the last snapshot.
func (uc *NoteUseCase) Update(ctx context.Context, id model.NoteID, update model.NoteUpdate, requesterID model.UserID) (*model.Note, error) {
	note, err := uc.Get(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	if note.OwnerID != requesterID {
		// Shared identities have read access only.
		return nil, goerr.Wrap(ErrAccessDenied, "only the owner may modify a note", goerr.V("id", id))
	}

	contentChanged := update.Apply(note)
	if contentChanged {
		enrichment := uc.engine.Enrich(ctx, normalize.PlainText(note.Content))
		note.Summary = enrichment.Summary
		note.Embedding = enrichment.Embedding
		note.Tags = model.MergeTags(note.Tags, enrichment.Tags)
	}

	now := time.Now().UTC()
	note.UpdatedAt = now

	if last := note.LastVersion(); last == nil || last.Title != note.Title || last.Content != note.Content {
		note.Versions = append(note.Versions, model.Version{
			Title:     note.Title,
			Content:   note.Content,
			Timestamp: now,
		})
	}

	updated, err := uc.primary.Note().Put(ctx, note)
	if isUnavailable(err) {
		logging.From(ctx).Warn("remote store unavailable, updating note in local fallback",
			"id", id, "error", err)
		updated, err = uc.fallback.Note().Put(ctx, note)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update note", goerr.V("id", id))
	}

	return updated, nil
}

// Delete removes a note from whichever stores hold it. Returns false
// without error when the note is not found or the requester is not the
// owner.
func (uc *NoteUseCase) Delete(ctx context.Context, id model.NoteID, requesterID model.UserID) (bool, error) {
	note, err := uc.Get(ctx, id, requesterID)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return false, nil
		}
		return false, err
	}
	if note.OwnerID != requesterID {
		return false, nil
	}

	// Remove from both stores so a stale local copy cannot resurface
	// in the reconciled list.
	deleted := false

	perr := uc.primary.Note().Delete(ctx, id)
	if perr == nil {
		deleted = true
	} else if isUnavailable(perr) {
		logging.From(ctx).Warn("remote store unavailable, deleting note from local fallback",
			"id", id, "error", perr)
	}

	lerr := uc.fallback.Note().Delete(ctx, id)
	if lerr == nil {
		deleted = true
	} else if !errors.Is(lerr, interfaces.ErrNotFound) {
		logging.From(ctx).Warn("local fallback delete failed", "id", id, "error", lerr)
	}

	return deleted, nil
}

// Share sets the identities with read access to a note. Only the owner
// may share.
func (uc *NoteUseCase) Share(ctx context.Context, id model.NoteID, recipients []model.UserID, requesterID model.UserID) (bool, error) {
	note, err := uc.Get(ctx, id, requesterID)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return false, nil
		}
		return false, err
	}
	if note.OwnerID != requesterID {
		return false, goerr.Wrap(ErrAccessDenied, "only the owner may share a note", goerr.V("id", id))
	}

	seen := make(map[model.UserID]bool, len(recipients))
	shared := make([]model.UserID, 0, len(recipients))
	for _, uid := range recipients {
		if uid == "" || uid == note.OwnerID || seen[uid] {
			continue
		}
		seen[uid] = true
		shared = append(shared, uid)
	}
	note.SharedWith = shared
	note.UpdatedAt = time.Now().UTC()

	if _, err := uc.primary.Note().Put(ctx, note); err != nil {
		if !isUnavailable(err) {
			return false, goerr.Wrap(err, "failed to share note", goerr.V("id", id))
		}
		logging.From(ctx).Warn("remote store unavailable, sharing note in local fallback",
			"id", id, "error", err)
		if _, err := uc.fallback.Note().Put(ctx, note); err != nil {
			return false, goerr.Wrap(err, "failed to share note", goerr.V("id", id))
		}
	}

	return true, nil
}
