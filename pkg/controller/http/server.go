package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/papyrus-lab/papyrus/pkg/usecase"
	"github.com/papyrus-lab/papyrus/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(uc.Auth))

		r.Route("/notes", func(r chi.Router) {
			r.Post("/", s.createNote)
			r.Get("/", s.listNotes)
			r.Route("/{noteID}", func(r chi.Router) {
				r.Get("/", s.getNote)
				r.Put("/", s.updateNote)
				r.Delete("/", s.deleteNote)
				r.Post("/share", s.shareNote)
				r.Get("/versions", s.listVersions)
				r.Post("/edit", s.editNote)
				r.Post("/save", s.saveNote)
				r.Post("/regenerate", s.regenerateNote)
			})
		})

		r.Get("/search", s.search)

		r.Route("/drafts/{draftKey}", func(r chi.Router) {
			r.Put("/", s.putDraft)
			r.Get("/", s.getDraft)
			r.Delete("/", s.deleteDraft)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/me", s.authMe)
			r.Post("/logout", s.authLogout)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
