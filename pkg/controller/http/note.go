package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/usecase"
	"github.com/papyrus-lab/papyrus/pkg/utils/errutil"
)

type noteResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	Summary    string    `json:"summary"`
	OwnerID    string    `json:"ownerId"`
	SharedWith []string  `json:"sharedWith,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Versions   int       `json:"versions"`
}

func toNoteResponse(n *model.Note) noteResponse {
	resp := noteResponse{
		ID:        string(n.ID),
		Title:     n.Title,
		Content:   n.Content,
		Tags:      n.Tags,
		Summary:   n.Summary,
		OwnerID:   string(n.OwnerID),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		Versions:  len(n.Versions),
	}
	for _, uid := range n.SharedWith {
		resp.SharedWith = append(resp.SharedWith, string(uid))
	}
	return resp
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// statusFor maps use case errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrNoteNotFound), errors.Is(err, usecase.ErrDraftNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type noteRequest struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	input := usecase.CreateNoteInput{Tags: req.Tags}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Content != nil {
		input.Content = *req.Content
	}

	note, err := s.uc.Note.Create(r.Context(), input, requestUser(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusCreated, toNoteResponse(note))
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.uc.Note.List(r.Context(), requestUser(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	resp := make([]noteResponse, len(notes))
	for i, n := range notes {
		resp[i] = toNoteResponse(n)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	id := model.NoteID(chi.URLParam(r, "noteID"))

	note, err := s.uc.Note.Get(r.Context(), id, requestUser(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusOK, toNoteResponse(note))
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id := model.NoteID(chi.URLParam(r, "noteID"))

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	update := model.NoteUpdate{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}

	note, err := s.uc.Note.Update(r.Context(), id, update, requestUser(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusOK, toNoteResponse(note))
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id := model.NoteID(chi.URLParam(r, "noteID"))

	deleted, err := s.uc.Note.Delete(r.Context(), id, requestUser(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}
	if !deleted {
		errutil.HandleHTTP(r.Context(), w, usecase.ErrNoteNotFound, http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type shareRequest struct {
	UserIDs []string `json:"userIds"`
}

func (s *Server) shareNote(w http.ResponseWriter, r *http.Request) {
	id := model.NoteID(chi.URLParam(r, "noteID"))

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	recipients := make([]model.UserID, len(req.UserIDs))
	for i, uid := range req.UserIDs {
		recipients[i] = model.UserID(uid)
	}

	shared, err := s.uc.Note.Share(r.Context(), id, recipients, requestUser(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}
	if !shared {
		errutil.HandleHTTP(r.Context(), w, usecase.ErrNoteNotFound, http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type versionResponse struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) listVersions(w http.ResponseWriter, r *http.Request) {
	id := model.NoteID(chi.URLParam(r, "noteID"))

	note, err := s.uc.Note.Get(r.Context(), id, requestUser(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	resp := make([]versionResponse, len(note.Versions))
	for i, v := range note.Versions {
		resp[i] = versionResponse{
			Title:     v.Title,
			Content:   v.Content,
			Timestamp: v.Timestamp,
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}
