package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/service/autosave"
	"github.com/papyrus-lab/papyrus/pkg/service/enrich"
	"github.com/papyrus-lab/papyrus/pkg/service/normalize"
)

// EditorSession models one user editing one note: it routes content
// changes through the enrichment scheduler, drives the autosave
// coordinator, and persists through the gateway. A session starts from
// an existing note or from scratch (a note is created on the first
// save, superseding the "new" draft).
type EditorSession struct {
	notes  *NoteUseCase
	drafts *DraftUseCase

	mu        sync.Mutex
	ownerID   model.UserID
	noteID    model.NoteID // empty until first successful save
	title     string
	content   string
	tags      []string
	summary   string
	embedding []float32

	scheduler *enrich.Scheduler
	saver     *autosave.Coordinator
}

// SessionOption configures an editor session
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	schedulerOpts []enrich.SchedulerOption
	autosaveOpts  []autosave.Option
}

// WithSchedulerOptions passes options through to the enrichment
// scheduler, mainly to shorten debounce delays in tests.
func WithSchedulerOptions(opts ...enrich.SchedulerOption) SessionOption {
	return func(c *sessionConfig) {
		c.schedulerOpts = append(c.schedulerOpts, opts...)
	}
}

// WithAutosaveOptions passes options through to the autosave
// coordinator.
func WithAutosaveOptions(opts ...autosave.Option) SessionOption {
	return func(c *sessionConfig) {
		c.autosaveOpts = append(c.autosaveOpts, opts...)
	}
}

// NewEditorSession opens an editing session. note may be nil for a new
// note.
func NewEditorSession(notes *NoteUseCase, drafts *DraftUseCase, engine *enrich.Engine, ownerID model.UserID, note *model.Note, opts ...SessionOption) *EditorSession {
	var cfg sessionConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &EditorSession{
		notes:   notes,
		drafts:  drafts,
		ownerID: ownerID,
	}
	if note != nil {
		s.noteID = note.ID
		s.title = note.Title
		s.content = note.Content
		s.tags = append([]string(nil), note.Tags...)
		s.summary = note.Summary
		s.embedding = append([]float32(nil), note.Embedding...)
	}

	schedulerOpts := append([]enrich.SchedulerOption{
		enrich.WithCurrentTags(s.currentTags),
	}, cfg.schedulerOpts...)
	s.scheduler = enrich.NewScheduler(engine, s.applyEnrichment, schedulerOpts...)

	s.saver = autosave.New(s.save, s.scheduler.Processing, s.empty, cfg.autosaveOpts...)

	return s
}

// Edit applies a user edit to the session. Nil pointer fields are
// untouched; tags replace the session's tag set (the editing widget
// owns the visible tag list). A content change restarts the enrichment
// debounce cycle, and every edit re-arms autosave and refreshes the
// draft.
func (s *EditorSession) Edit(ctx context.Context, title, content *string, tags []string) {
	s.mu.Lock()
	contentChanged := false
	if title != nil {
		s.title = *title
	}
	if content != nil && *content != s.content {
		s.content = *content
		contentChanged = true
	}
	if tags != nil {
		s.tags = model.MergeTags(tags, nil)
	}
	plain := normalize.PlainText(s.content)
	draft := DraftInput{Title: s.title, Content: s.content, Tags: s.tags}
	key := model.DraftKeyFor(s.noteID)
	s.mu.Unlock()

	if contentChanged {
		s.scheduler.ContentChanged(ctx, plain)
	}
	s.saver.Changed(ctx)

	// Draft failures are not the user's problem; the next edit retries.
	_ = s.drafts.Save(ctx, s.ownerID, key, draft)
}

// Regenerate requests fresh enrichment for the current content,
// bypassing the debounce timer.
func (s *EditorSession) Regenerate(ctx context.Context) {
	s.mu.Lock()
	plain := normalize.PlainText(s.content)
	s.mu.Unlock()

	s.scheduler.ContentChanged(ctx, plain)
	s.scheduler.Regenerate(ctx)
}

// Save performs an explicit save, cancelling any pending autosave so
// only one Version is appended for the current edit.
func (s *EditorSession) Save(ctx context.Context) (*model.Note, error) {
	if err := s.saver.Flush(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	id := s.noteID
	s.mu.Unlock()
	if id == "" {
		// Empty title and content: saving was a no-op.
		return nil, nil
	}
	return s.notes.Get(ctx, id, s.ownerID)
}

// Processing reports whether enrichment is running for this session
func (s *EditorSession) Processing() bool {
	return s.scheduler.Processing()
}

// NoteID returns the persisted note's ID, or "" before the first save
func (s *EditorSession) NoteID() model.NoteID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noteID
}

// Snapshot returns the session's current working state as a note value
func (s *EditorSession) Snapshot() *model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &model.Note{
		ID:        s.noteID,
		Title:     s.title,
		Content:   s.content,
		Tags:      append([]string(nil), s.tags...),
		Summary:   s.summary,
		Embedding: append([]float32(nil), s.embedding...),
		OwnerID:   s.ownerID,
	}
}

// Close cancels pending timers. A running enrichment job finishes and
// its result is applied to the (now inert) session state.
func (s *EditorSession) Close() {
	s.scheduler.Stop()
	s.saver.Stop()
}

func (s *EditorSession) currentTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tags...)
}

// applyEnrichment is the scheduler's completion callback. Tags arrive
// already merged; summary and embedding replace the previous values.
// Applying a result counts as a change, which re-arms autosave.
func (s *EditorSession) applyEnrichment(ctx context.Context, result *model.Enrichment) {
	s.mu.Lock()
	s.tags = result.Tags
	s.summary = result.Summary
	s.embedding = result.Embedding
	s.mu.Unlock()

	s.saver.Changed(ctx)
}

func (s *EditorSession) empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title == "" && s.content == ""
}

// save is the autosave coordinator's write action. The first save
// creates the note and supersedes the "new" draft; later saves update
// it with the session's full working state so the stored enrichment
// fields match what the user last saw.
func (s *EditorSession) save(ctx context.Context) error {
	s.mu.Lock()
	id := s.noteID
	input := CreateNoteInput{
		Title:   s.title,
		Content: s.content,
		Tags:    append([]string(nil), s.tags...),
	}
	if s.summary != "" || len(s.embedding) > 0 {
		input.Enrichment = &model.Enrichment{
			Summary:   s.summary,
			Tags:      append([]string(nil), s.tags...),
			Embedding: append([]float32(nil), s.embedding...),
		}
	}
	s.mu.Unlock()

	if id == "" {
		created, err := s.notes.Create(ctx, input, s.ownerID)
		if err != nil {
			return goerr.Wrap(err, "failed to create note from session")
		}
		// Creation enriched inline when the scheduler had not produced
		// a result yet; mirror the stored note so Snapshot never shows
		// a persisted note without its summary.
		s.mu.Lock()
		s.noteID = created.ID
		s.tags = append([]string(nil), created.Tags...)
		s.summary = created.Summary
		s.embedding = append([]float32(nil), created.Embedding...)
		s.mu.Unlock()

		_ = s.drafts.Delete(ctx, s.ownerID, model.DraftKeyNew)
		return nil
	}

	update := model.NoteUpdate{
		Title:   &input.Title,
		Content: &input.Content,
		Tags:    input.Tags,
	}
	if _, err := s.notes.Update(ctx, id, update, s.ownerID); err != nil {
		return goerr.Wrap(err, "failed to update note from session", goerr.V("id", id))
	}

	_ = s.drafts.Delete(ctx, s.ownerID, model.DraftKeyFor(id))
	return nil
}
