package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/papyrus-lab/papyrus/pkg/domain/interfaces"
	"github.com/papyrus-lab/papyrus/pkg/domain/model/auth"
	"github.com/papyrus-lab/papyrus/pkg/repository/memory"
)

func runTokenRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("PutToken and GetToken", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		token := auth.NewToken("user-123", "test@example.com", "Test User")
		gt.NoError(t, repo.PutToken(ctx, token)).Required()

		got, err := repo.GetToken(ctx, token.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(token.ID)
		gt.Value(t, got.Secret).Equal(token.Secret)
		gt.Value(t, got.Sub).Equal("user-123")
		gt.Value(t, got.Email).Equal("test@example.com")
		gt.Value(t, got.Name).Equal("Test User")

		// Firestore stores timestamps with lower precision.
		if diff := got.ExpiresAt.Sub(token.ExpiresAt); diff > time.Second || diff < -time.Second {
			t.Errorf("ExpiresAt mismatch: got %v, want %v", got.ExpiresAt, token.ExpiresAt)
		}
	})

	t.Run("GetToken not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.GetToken(ctx, auth.TokenID("missing-token"))
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("DeleteToken", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		token := auth.NewToken("user-456", "delete@example.com", "Delete User")
		gt.NoError(t, repo.PutToken(ctx, token)).Required()
		gt.NoError(t, repo.DeleteToken(ctx, token.ID))

		_, err := repo.GetToken(ctx, token.ID)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("DeleteToken not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.DeleteToken(ctx, auth.TokenID("missing-token"))
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})
}

func TestMemoryTokenRepository(t *testing.T) {
	runTokenRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreTokenRepository(t *testing.T) {
	runTokenRepositoryTest(t, newFirestoreRepo)
}
