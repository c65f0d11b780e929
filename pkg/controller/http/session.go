package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/utils/errutil"
)

// sessionNoteID resolves the path parameter to a session note ID.
// "new" opens a new-note session.
func sessionNoteID(r *http.Request) model.NoteID {
	id := chi.URLParam(r, "noteID")
	if id == "new" {
		return ""
	}
	return model.NoteID(id)
}

type editRequest struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

type sessionStateResponse struct {
	NoteID     string   `json:"noteId,omitempty"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	Summary    string   `json:"summary"`
	Processing bool     `json:"processing"`
}

func (s *Server) editNote(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	sess, err := s.uc.Sessions.Open(r.Context(), requestUser(r), sessionNoteID(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	sess.Edit(r.Context(), req.Title, req.Content, req.Tags)

	snap := sess.Snapshot()
	writeJSON(w, r, http.StatusOK, sessionStateResponse{
		NoteID:     string(snap.ID),
		Title:      snap.Title,
		Content:    snap.Content,
		Tags:       snap.Tags,
		Summary:    snap.Summary,
		Processing: sess.Processing(),
	})
}

func (s *Server) saveNote(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)

	sess, err := s.uc.Sessions.Open(r.Context(), user, sessionNoteID(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	note, err := sess.Save(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}
	if note == nil {
		// Nothing to persist yet: the session has no content.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.uc.Sessions.Promote(user, sess)

	writeJSON(w, r, http.StatusOK, toNoteResponse(note))
}

func (s *Server) regenerateNote(w http.ResponseWriter, r *http.Request) {
	sess, err := s.uc.Sessions.Open(r.Context(), requestUser(r), sessionNoteID(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	sess.Regenerate(r.Context())

	w.WriteHeader(http.StatusAccepted)
}
