package http

import (
	"net/http"

	"github.com/papyrus-lab/papyrus/pkg/domain/model/auth"
	"github.com/papyrus-lab/papyrus/pkg/utils/errutil"
)

type userResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) authMe(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	writeJSON(w, r, http.StatusOK, userResponse{
		Sub:   token.Sub,
		Email: token.Email,
		Name:  token.Name,
	})
}

func (s *Server) authLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := auth.TokenFromContext(r.Context()); ok && s.uc.Auth != nil {
		if err := s.uc.Auth.Logout(r.Context(), token.ID); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
			return
		}
	}

	expireCookie(w, "token_id")
	expireCookie(w, "token_secret")
	w.WriteHeader(http.StatusNoContent)
}

func expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
