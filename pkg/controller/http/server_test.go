package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	httpctrl "github.com/papyrus-lab/papyrus/pkg/controller/http"
	"github.com/papyrus-lab/papyrus/pkg/repository/memory"
	"github.com/papyrus-lab/papyrus/pkg/service/enrich"
	"github.com/papyrus-lab/papyrus/pkg/usecase"
)

func newTestServer() *httpctrl.Server {
	uc := usecase.New(memory.New(), memory.New(), enrich.New(nil),
		usecase.WithAuth(usecase.NewNoAuthnUseCase("dev-user", "dev-user@localhost", "Dev User")))
	return httpctrl.New(uc)
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

type noteJSON struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Summary  string   `json:"summary"`
	OwnerID  string   `json:"ownerId"`
	Versions int      `json:"versions"`
}

func TestNoteLifecycle(t *testing.T) {
	srv := newTestServer()

	// Create
	w := doJSON(t, srv, http.MethodPost, "/api/notes", map[string]any{
		"title":   "Garden plan",
		"content": "Sketch the raised beds and order seeds for spring planting",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created noteJSON
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a note ID")
	}
	if created.OwnerID != "dev-user" {
		t.Errorf("expected owner dev-user, got %q", created.OwnerID)
	}
	if created.Summary == "" {
		t.Error("expected an enriched summary")
	}
	if created.Versions != 1 {
		t.Errorf("expected 1 version, got %d", created.Versions)
	}

	// List
	w = doJSON(t, srv, http.MethodGet, "/api/notes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var listed []noteJSON
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 note, got %d", len(listed))
	}

	// Update content
	w = doJSON(t, srv, http.MethodPut, "/api/notes/"+created.ID, map[string]any{
		"content": "Sketch the raised beds, order seeds, and build the compost bin",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated noteJSON
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if updated.Versions != 2 {
		t.Errorf("expected 2 versions after content change, got %d", updated.Versions)
	}

	// Versions
	w = doJSON(t, srv, http.MethodGet, "/api/notes/"+created.ID+"/versions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var versions []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &versions); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(versions) != 2 {
		t.Errorf("expected 2 versions, got %d", len(versions))
	}

	// Delete
	w = doJSON(t, srv, http.MethodDelete, "/api/notes/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/notes/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestNoteNotFound(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodGet, "/api/notes/no-such-note", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodDelete, "/api/notes/no-such-note", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestShareEndpoint(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/notes", map[string]any{
		"title":   "Shared",
		"content": "A note intended for the whole team to read",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var created noteJSON
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	w = doJSON(t, srv, http.MethodPost, "/api/notes/"+created.ID+"/share", map[string]any{
		"userIds": []string{"alice", "bob"},
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodPost, "/api/notes/missing/share", map[string]any{
		"userIds": []string{"alice"},
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing note, got %d", w.Code)
	}
}

func TestDraftEndpoints(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodPut, "/api/drafts/new", map[string]any{
		"title":   "Draft",
		"content": "still typing",
		"tags":    []string{"wip"},
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodGet, "/api/drafts/new", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var draft map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &draft); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if draft["content"] != "still typing" {
		t.Errorf("unexpected draft content: %v", draft["content"])
	}

	w = doJSON(t, srv, http.MethodDelete, "/api/drafts/new", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/drafts/new", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer()

	for i, content := range []string{
		"Sketch the raised garden beds and order seeds",
		"Reconcile the March invoices before the audit",
	} {
		w := doJSON(t, srv, http.MethodPost, "/api/notes", map[string]any{
			"title":   fmt.Sprintf("Note %d", i),
			"content": content,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	}

	w := doJSON(t, srv, http.MethodGet, "/api/search?q=garden", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var results []struct {
		Note  noteJSON `json:"note"`
		Score float64  `json:"score"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Score <= 0 {
		t.Errorf("expected a positive score, got %f", results[0].Score)
	}
}

func TestEditSaveFlow(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/notes/new/edit", map[string]any{
		"title":   "Session note",
		"content": "Captured during a live editing session",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodPost, "/api/notes/new/save", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var saved noteJSON
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected a note ID after save")
	}
	if saved.Versions != 1 {
		t.Errorf("expected 1 version, got %d", saved.Versions)
	}

	// Saving an untouched new-note session has nothing to persist
	w = doJSON(t, srv, http.MethodPost, "/api/notes/new/save", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for an empty session, got %d", w.Code)
	}
}

func TestAuthEndpoints(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodGet, "/api/auth/me", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var me map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if me["sub"] != "dev-user" {
		t.Errorf("expected sub dev-user, got %v", me["sub"])
	}

	w = doJSON(t, srv, http.MethodPost, "/api/auth/logout", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo, memory.New(), enrich.New(nil))
	srv := httpctrl.New(uc)

	t.Run("no credentials", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodGet, "/api/notes", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("valid token cookies", func(t *testing.T) {
		token, err := usecase.NewAuthUseCase(repo).Issue(context.Background(), "user-1", "user-1@example.com", "User One")
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
		req.AddCookie(&http.Cookie{Name: "token_id", Value: string(token.ID)})
		req.AddCookie(&http.Cookie{Name: "token_secret", Value: string(token.Secret)})
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
}
