package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
)

type draftKey struct {
	owner model.UserID
	key   model.DraftKey
}

type draftRepository struct {
	mu     sync.RWMutex
	drafts map[draftKey]*model.Draft
}

func newDraftRepository() *draftRepository {
	return &draftRepository{
		drafts: make(map[draftKey]*model.Draft),
	}
}

func (r *draftRepository) Put(ctx context.Context, draft *model.Draft) error {
	if draft.Key == "" {
		return goerr.New("draft key is required")
	}
	if draft.OwnerID == "" {
		return goerr.New("draft owner is required", goerr.V("key", draft.Key))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.drafts[draftKey{owner: draft.OwnerID, key: draft.Key}] = draft.Clone()
	return nil
}

func (r *draftRepository) Get(ctx context.Context, ownerID model.UserID, key model.DraftKey) (*model.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	draft, exists := r.drafts[draftKey{owner: ownerID, key: key}]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "draft not found", goerr.V("key", key))
	}

	return draft.Clone(), nil
}

func (r *draftRepository) Delete(ctx context.Context, ownerID model.UserID, key model.DraftKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Deleting a missing draft is a no-op: drafts are superseded
	// opportunistically after a successful save.
	delete(r.drafts, draftKey{owner: ownerID, key: key})
	return nil
}
