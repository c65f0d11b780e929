package memory

import (
	"github.com/papyrus-lab/papyrus/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = interfaces.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is a fully in-process repository. It serves two roles: the
// development backend, and the local fallback store the persistence
// gateway retries against when the remote store is unavailable.
type Memory struct {
	note   *noteRepository
	draft  *draftRepository
	tokens *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		note:   newNoteRepository(),
		draft:  newDraftRepository(),
		tokens: newTokenStore(),
	}
}

func (m *Memory) Note() interfaces.NoteRepository {
	return m.note
}

func (m *Memory) Draft() interfaces.DraftRepository {
	return m.draft
}

func (m *Memory) Close() error {
	return nil
}
