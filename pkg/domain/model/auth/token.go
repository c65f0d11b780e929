package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TokenID identifies a session token
type TokenID string

// TokenSecret is the secret half of a session token. Tagged so the
// logging filter redacts it.
type TokenSecret string

// Validate checks the token ID format
func (id TokenID) Validate() error {
	if id == "" {
		return goerr.New("token ID is empty")
	}
	return nil
}

// Token represents an authenticated session issued by the external
// authentication collaborator. Only Sub matters to the note pipeline;
// it becomes the note owner identity.
type Token struct {
	ID        TokenID
	Secret    TokenSecret `masq:"secret"`
	Sub       string
	Email     string
	Name      string
	ExpiresAt time.Time
}

// NewToken creates a session token for the given user
func NewToken(sub, email, name string) *Token {
	return &Token{
		ID:        TokenID(uuid.New().String()),
		Secret:    TokenSecret(uuid.New().String()),
		Sub:       sub,
		Email:     email,
		Name:      name,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
}

// NewAnonymousUser creates the fixed token used when authentication is
// disabled.
func NewAnonymousUser() *Token {
	return &Token{
		ID:    TokenID("anonymous"),
		Sub:   "anonymous",
		Email: "anonymous@localhost",
		Name:  "Anonymous",
	}
}

// Validate checks the token's structural invariants
func (t *Token) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return err
	}
	if t.Sub == "" {
		return goerr.New("token sub is empty", goerr.V("id", t.ID))
	}
	return nil
}

// IsExpired reports whether the token has expired. Tokens without an
// expiry (anonymous) never expire.
func (t *Token) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

type ctxTokenKey struct{}

// ContextWithToken embeds the token into the context
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext extracts the token from the context
func TokenFromContext(ctx context.Context) (*Token, bool) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	return token, ok
}
