package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/papyrus-lab/papyrus/pkg/domain/interfaces"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/repository/memory"
)

// Drafts live only in the local store, so the suite runs against the
// memory repository alone.
func TestMemoryDraftRepository(t *testing.T) {
	newDraft := func(owner model.UserID, key model.DraftKey) *model.Draft {
		return &model.Draft{
			Key:     key,
			OwnerID: owner,
			Title:   "Draft title",
			Content: "unsaved content",
			Tags:    []string{"pending"},
			SavedAt: time.Now().UTC(),
		}
	}

	t.Run("Put and Get round-trip", func(t *testing.T) {
		repo := memory.New().Draft()
		ctx := context.Background()

		draft := newDraft("user-1", model.DraftKeyNew)
		gt.NoError(t, repo.Put(ctx, draft)).Required()

		got, err := repo.Get(ctx, "user-1", model.DraftKeyNew)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("Draft title")
		gt.Value(t, got.Content).Equal("unsaved content")
		gt.Array(t, got.Tags).Equal([]string{"pending"})
	})

	t.Run("Put replaces existing draft", func(t *testing.T) {
		repo := memory.New().Draft()
		ctx := context.Background()

		gt.NoError(t, repo.Put(ctx, newDraft("user-1", model.DraftKeyNew))).Required()

		updated := newDraft("user-1", model.DraftKeyNew)
		updated.Content = "second snapshot"
		gt.NoError(t, repo.Put(ctx, updated)).Required()

		got, err := repo.Get(ctx, "user-1", model.DraftKeyNew)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Content).Equal("second snapshot")
	})

	t.Run("drafts are scoped per owner", func(t *testing.T) {
		repo := memory.New().Draft()
		ctx := context.Background()

		gt.NoError(t, repo.Put(ctx, newDraft("user-1", model.DraftKeyNew))).Required()

		_, err := repo.Get(ctx, "user-2", model.DraftKeyNew)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("note-scoped draft key", func(t *testing.T) {
		repo := memory.New().Draft()
		ctx := context.Background()

		noteID := model.NewNoteID()
		key := model.DraftKeyFor(noteID)
		gt.NoError(t, repo.Put(ctx, newDraft("user-1", key))).Required()

		got, err := repo.Get(ctx, "user-1", key)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Key).Equal(key)
	})

	t.Run("Delete removes the draft", func(t *testing.T) {
		repo := memory.New().Draft()
		ctx := context.Background()

		gt.NoError(t, repo.Put(ctx, newDraft("user-1", model.DraftKeyNew))).Required()
		gt.NoError(t, repo.Delete(ctx, "user-1", model.DraftKeyNew))

		_, err := repo.Get(ctx, "user-1", model.DraftKeyNew)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("Delete of missing draft is a no-op", func(t *testing.T) {
		repo := memory.New().Draft()
		ctx := context.Background()

		gt.NoError(t, repo.Delete(ctx, "user-1", model.DraftKeyNew))
	})
}
