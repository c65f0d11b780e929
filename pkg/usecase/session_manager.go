package usecase

import (
	"context"
	"sync"

	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/service/enrich"
)

type sessionKey struct {
	owner model.UserID
	note  model.NoteID // "" for a new-note session
}

// SessionManager tracks one editor session per (user, note) pair
type SessionManager struct {
	notes   *NoteUseCase
	drafts  *DraftUseCase
	engine  *enrich.Engine
	options []SessionOption

	mu       sync.Mutex
	sessions map[sessionKey]*EditorSession
}

func NewSessionManager(notes *NoteUseCase, drafts *DraftUseCase, engine *enrich.Engine, opts ...SessionOption) *SessionManager {
	return &SessionManager{
		notes:    notes,
		drafts:   drafts,
		engine:   engine,
		options:  opts,
		sessions: make(map[sessionKey]*EditorSession),
	}
}

// Open returns the user's session for the note, creating it if needed.
// noteID "" opens a new-note session. For an existing note the session
// starts from its persisted state; access rules apply as in Get.
func (m *SessionManager) Open(ctx context.Context, ownerID model.UserID, noteID model.NoteID) (*EditorSession, error) {
	key := sessionKey{owner: ownerID, note: noteID}

	m.mu.Lock()
	if s, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	var note *model.Note
	if noteID != "" {
		var err error
		note, err = m.notes.Get(ctx, noteID, ownerID)
		if err != nil {
			return nil, err
		}
	}

	s := NewEditorSession(m.notes, m.drafts, m.engine, ownerID, note, m.options...)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[key]; ok {
		// Lost the race; keep the first session.
		s.Close()
		return existing, nil
	}
	m.sessions[key] = s
	return s, nil
}

// Promote re-keys a new-note session under its assigned note ID after
// the first successful save.
func (m *SessionManager) Promote(ownerID model.UserID, s *EditorSession) {
	id := s.NoteID()
	if id == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	newKey := sessionKey{owner: ownerID, note: id}
	oldKey := sessionKey{owner: ownerID}
	if m.sessions[oldKey] == s {
		delete(m.sessions, oldKey)
	}
	m.sessions[newKey] = s
}

// Close tears down the user's session for the note, if any
func (m *SessionManager) Close(ownerID model.UserID, noteID model.NoteID) {
	key := sessionKey{owner: ownerID, note: noteID}

	m.mu.Lock()
	s, ok := m.sessions[key]
	if ok {
		delete(m.sessions, key)
	}
	m.mu.Unlock()

	if ok {
		s.Close()
	}
}
