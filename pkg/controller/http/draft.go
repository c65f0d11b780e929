package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/usecase"
	"github.com/papyrus-lab/papyrus/pkg/utils/errutil"
)

type draftRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type draftResponse struct {
	Key     string    `json:"key"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Tags    []string  `json:"tags"`
	SavedAt time.Time `json:"savedAt"`
}

func (s *Server) putDraft(w http.ResponseWriter, r *http.Request) {
	key := model.DraftKey(chi.URLParam(r, "draftKey"))

	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	input := usecase.DraftInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if err := s.uc.Draft.Save(r.Context(), requestUser(r), key, input); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getDraft(w http.ResponseWriter, r *http.Request) {
	key := model.DraftKey(chi.URLParam(r, "draftKey"))

	draft, err := s.uc.Draft.Get(r.Context(), requestUser(r), key)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusOK, draftResponse{
		Key:     string(draft.Key),
		Title:   draft.Title,
		Content: draft.Content,
		Tags:    draft.Tags,
		SavedAt: draft.SavedAt,
	})
}

func (s *Server) deleteDraft(w http.ResponseWriter, r *http.Request) {
	key := model.DraftKey(chi.URLParam(r, "draftKey"))

	if err := s.uc.Draft.Delete(r.Context(), requestUser(r), key); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
