package http

import (
	"net/http"
	"strconv"

	"github.com/papyrus-lab/papyrus/pkg/usecase"
	"github.com/papyrus-lab/papyrus/pkg/utils/errutil"
)

type searchResultResponse struct {
	Note  noteResponse `json:"note"`
	Score float64      `json:"score"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	mode := usecase.SearchModeLexical
	if r.URL.Query().Get("mode") == string(usecase.SearchModeSemantic) {
		mode = usecase.SearchModeSemantic
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	results, err := s.uc.Search.Search(r.Context(), requestUser(r), query, mode, limit)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	resp := make([]searchResultResponse, len(results))
	for i, res := range results {
		resp[i] = searchResultResponse{
			Note:  toNoteResponse(res.Note),
			Score: res.Score,
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}
