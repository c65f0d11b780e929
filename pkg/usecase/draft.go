package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/domain/interfaces"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
)

// DraftUseCase manages ephemeral local-only drafts. Drafts live in the
// local store exclusively: they exist to survive a client restart
// before the first successful save, and a persisted note supersedes
// them.
type DraftUseCase struct {
	drafts interfaces.DraftRepository
}

func NewDraftUseCase(drafts interfaces.DraftRepository) *DraftUseCase {
	return &DraftUseCase{drafts: drafts}
}

// DraftInput carries the fields of a draft snapshot
type DraftInput struct {
	Title   string
	Content string
	Tags    []string
}

// Save stores a draft snapshot under the given key
func (uc *DraftUseCase) Save(ctx context.Context, ownerID model.UserID, key model.DraftKey, input DraftInput) error {
	draft := &model.Draft{
		Key:     key,
		OwnerID: ownerID,
		Title:   input.Title,
		Content: input.Content,
		Tags:    input.Tags,
		SavedAt: time.Now().UTC(),
	}
	if err := uc.drafts.Put(ctx, draft); err != nil {
		return goerr.Wrap(err, "failed to save draft", goerr.V("key", key))
	}
	return nil
}

// Get retrieves a draft snapshot
func (uc *DraftUseCase) Get(ctx context.Context, ownerID model.UserID, key model.DraftKey) (*model.Draft, error) {
	draft, err := uc.drafts.Get(ctx, ownerID, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrDraftNotFound, "draft not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get draft", goerr.V("key", key))
	}
	return draft, nil
}

// Delete removes a draft. Deleting a missing draft is a no-op.
func (uc *DraftUseCase) Delete(ctx context.Context, ownerID model.UserID, key model.DraftKey) error {
	if err := uc.drafts.Delete(ctx, ownerID, key); err != nil {
		return goerr.Wrap(err, "failed to delete draft", goerr.V("key", key))
	}
	return nil
}
