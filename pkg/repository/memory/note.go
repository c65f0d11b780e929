package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
)

type noteRepository struct {
	mu    sync.RWMutex
	notes map[model.NoteID]*model.Note
}

func newNoteRepository() *noteRepository {
	return &noteRepository{
		notes: make(map[model.NoteID]*model.Note),
	}
}

func (r *noteRepository) Put(ctx context.Context, note *model.Note) (*model.Note, error) {
	if err := note.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid note")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.notes[note.ID] = note.Clone()
	return note.Clone(), nil
}

func (r *noteRepository) Get(ctx context.Context, id model.NoteID) (*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, exists := r.notes[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "note not found", goerr.V("id", id))
	}

	return note.Clone(), nil
}

func (r *noteRepository) ListByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Note, 0)
	for _, n := range r.notes {
		if n.OwnerID == ownerID {
			result = append(result, n.Clone())
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})

	return result, nil
}

func (r *noteRepository) Delete(ctx context.Context, id model.NoteID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.notes[id]; !exists {
		return goerr.Wrap(ErrNotFound, "note not found", goerr.V("id", id))
	}

	delete(r.notes, id)
	return nil
}
