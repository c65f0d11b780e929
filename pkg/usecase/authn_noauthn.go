package usecase

import (
	"context"

	"github.com/papyrus-lab/papyrus/pkg/domain/model/auth"
)

// NoAuthnUseCase provides authentication using a specified user, for
// development and testing.
type NoAuthnUseCase struct {
	sub   string
	email string
	name  string
}

// NewNoAuthnUseCase creates a NoAuthnUseCase with the specified user info
func NewNoAuthnUseCase(sub, email, name string) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		sub:   sub,
		email: email,
		name:  name,
	}
}

// ValidateToken always returns a token for the specified user
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	return auth.NewToken(uc.sub, uc.email, uc.name), nil
}

// Logout does nothing in no-auth mode
func (uc *NoAuthnUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	return nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
