package interfaces

import (
	"context"

	"github.com/papyrus-lab/papyrus/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence. Both the
// remote (Firestore) and local fallback (memory) stores implement it,
// which is what lets the persistence gateway retry a failed remote
// write against the fallback with the same logical operation.
type Repository interface {
	Note() NoteRepository

	// Auth methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error

	// Close releases any underlying connections
	Close() error
}
