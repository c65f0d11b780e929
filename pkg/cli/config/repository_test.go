package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/papyrus-lab/papyrus/pkg/cli/config"
)

func TestRepository_Configure(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		cfg := config.NewRepositoryForTest("memory", "", "")
		repo, err := cfg.Configure(t.Context())
		gt.NoError(t, err)
		gt.Value(t, repo).NotNil()
		gt.NoError(t, repo.Close())
	})

	t.Run("firestore backend requires project ID", func(t *testing.T) {
		cfg := config.NewRepositoryForTest("firestore", "", "")
		_, err := cfg.Configure(t.Context())
		gt.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := config.NewRepositoryForTest("dynamodb", "", "")
		_, err := cfg.Configure(t.Context())
		gt.Error(t, err)
	})

	t.Run("returns flags", func(t *testing.T) {
		cfg := config.NewRepositoryForTest("", "", "")
		gt.Value(t, len(cfg.Flags())).Equal(3)
	})
}

func TestGemini_Configure(t *testing.T) {
	t.Run("returns nil client when project ID is empty", func(t *testing.T) {
		cfg := config.NewGeminiForTest("", "us-central1")
		client, err := cfg.Configure(t.Context())
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})

	t.Run("returns flags", func(t *testing.T) {
		cfg := config.NewGeminiForTest("", "")
		gt.Value(t, len(cfg.Flags())).Equal(2)
	})
}
