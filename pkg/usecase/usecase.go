package usecase

import (
	"github.com/papyrus-lab/papyrus/pkg/domain/interfaces"
	"github.com/papyrus-lab/papyrus/pkg/service/enrich"
	"github.com/papyrus-lab/papyrus/pkg/service/search"
)

// UseCases aggregates the application's use cases around one primary
// repository, one local fallback repository, and one enrichment
// engine.
type UseCases struct {
	engine   *enrich.Engine
	Note     *NoteUseCase
	Draft    *DraftUseCase
	Search   *SearchUseCase
	Sessions *SessionManager
	Auth     AuthUseCaseInterface
}

type Option func(*UseCases)

// WithAuth overrides the authentication use case
func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// New wires the use case layer. fallback must be the local store; it
// doubles as the draft store since drafts are local-only.
func New(primary interfaces.Repository, fallback LocalRepository, engine *enrich.Engine, opts ...Option) *UseCases {
	uc := &UseCases{
		engine: engine,
		Auth:   NewAuthUseCase(primary),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Note = NewNoteUseCase(primary, fallback, engine)
	uc.Draft = NewDraftUseCase(fallback.Draft())
	uc.Search = NewSearchUseCase(uc.Note, search.New(engine))
	uc.Sessions = NewSessionManager(uc.Note, uc.Draft, engine)

	return uc
}

// LocalRepository is a repository that additionally stores drafts
type LocalRepository interface {
	interfaces.Repository
	Draft() interfaces.DraftRepository
}
