package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/domain/interfaces"
	"github.com/papyrus-lab/papyrus/pkg/domain/model/auth"
)

// AuthUseCaseInterface abstracts session-token validation. The identity
// provider itself is an external collaborator; this layer only needs a
// uid per request.
type AuthUseCaseInterface interface {
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)
	Logout(ctx context.Context, tokenID auth.TokenID) error
	IsNoAuthn() bool
}

// AuthUseCase validates tokens against the repository token store
type AuthUseCase struct {
	repo interfaces.Repository
}

func NewAuthUseCase(repo interfaces.Repository) *AuthUseCase {
	return &AuthUseCase{repo: repo}
}

// Issue creates and stores a session token for the given user. Token
// creation is normally the identity provider's callback; this is the
// path used by the CLI token command and by tests.
func (uc *AuthUseCase) Issue(ctx context.Context, sub, email, name string) (*auth.Token, error) {
	token := auth.NewToken(sub, email, name)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store token")
	}
	return token, nil
}

// ValidateToken checks the token ID and secret against the stored
// token and its expiry.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	token, err := uc.repo.GetToken(ctx, tokenID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrInvalidToken, "unknown token")
		}
		return nil, goerr.Wrap(err, "failed to look up token")
	}

	if token.Secret != tokenSecret {
		return nil, goerr.Wrap(ErrInvalidToken, "secret mismatch")
	}
	if token.IsExpired(time.Now()) {
		return nil, goerr.Wrap(ErrInvalidToken, "token expired")
	}

	return token, nil
}

// Logout deletes the stored token
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	if err := uc.repo.DeleteToken(ctx, tokenID); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(err, "failed to delete token")
	}
	return nil
}

// IsNoAuthn returns false for the repository-backed use case
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}
