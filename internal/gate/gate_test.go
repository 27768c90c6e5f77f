package gate_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/clwillhuang/code-projectorium/internal/auth"
	"github.com/clwillhuang/code-projectorium/internal/gate"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/repository/sqlite"
)

type fixture struct {
	db    *sqlite.DB
	gates *gate.Gate

	owner    *model.User
	stranger *model.User
	project  *model.Project
	page     *model.Page
	snippet  *model.Snippet
	comment  *model.Comment
}

// newFixture seeds one owner with a full project subtree plus a second
// account that owns nothing.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &fixture{db: db}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.gates = gate.New(db.Projects, db.Pages, db.Snippets, db.Comments, logger)

	f.owner = &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	if err := db.Users.Create(ctx, f.owner); err != nil {
		t.Fatalf("creating owner: %v", err)
	}
	f.stranger = &model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	if err := db.Users.Create(ctx, f.stranger); err != nil {
		t.Fatalf("creating stranger: %v", err)
	}

	f.project = &model.Project{UserID: f.owner.ID, Name: "Demo"}
	if err := db.Projects.Create(ctx, f.project); err != nil {
		t.Fatalf("creating project: %v", err)
	}
	f.page = &model.Page{ProjectID: f.project.ID, Title: "Intro"}
	if err := db.Pages.Create(ctx, f.page); err != nil {
		t.Fatalf("creating page: %v", err)
	}
	f.snippet = &model.Snippet{
		ProjectID: f.project.ID,
		PageID:    f.page.ID,
		Language:  model.LanguagePlaintext,
	}
	if err := db.Snippets.Create(ctx, f.snippet); err != nil {
		t.Fatalf("creating snippet: %v", err)
	}
	f.comment = &model.Comment{
		ProjectID: f.project.ID,
		PageID:    f.page.ID,
		SnippetID: f.snippet.ID,
		PosterID:  f.stranger.ID,
		Markdown:  "a comment long enough to store",
	}
	if err := db.Comments.Create(ctx, f.comment); err != nil {
		t.Fatalf("creating comment: %v", err)
	}

	return f
}

// route mounts a gate in front of a probe handler and performs one request.
func route(t *testing.T, mw func(http.Handler) http.Handler, id string, identity *auth.Identity) int {
	t.Helper()

	r := chi.NewRouter()
	r.With(mw).Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/"+id, nil)
	if identity != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), *identity))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr.Code
}

func (f *fixture) asOwner() *auth.Identity {
	return &auth.Identity{UserID: f.owner.ID, Username: f.owner.Username}
}

func (f *fixture) asStranger() *auth.Identity {
	return &auth.Identity{UserID: f.stranger.ID, Username: f.stranger.Username}
}

func TestOwnershipGates(t *testing.T) {
	f := newFixture(t)

	// Every ownership gate follows its entity to the owning project, so the
	// same cases hold across the hierarchy.
	gates := []struct {
		name string
		mw   func(http.Handler) http.Handler
		id   string
	}{
		{"project", f.gates.RequireProjectOwnership, f.project.ID},
		{"page", f.gates.RequirePageOwnership, f.page.ID},
		{"snippet", f.gates.RequireSnippetOwnership, f.snippet.ID},
		{"comment", f.gates.RequireCommentOwnership, f.comment.ID},
	}

	for _, g := range gates {
		t.Run(g.name, func(t *testing.T) {
			if code := route(t, g.mw, g.id, f.asOwner()); code != http.StatusOK {
				t.Errorf("owner: status = %d, want 200", code)
			}
			if code := route(t, g.mw, g.id, f.asStranger()); code != http.StatusNotFound {
				t.Errorf("stranger: status = %d, want 404 (mismatch must read as absence)", code)
			}
			if code := route(t, g.mw, "not-an-id", f.asOwner()); code != http.StatusBadRequest {
				t.Errorf("malformed id: status = %d, want 400", code)
			}
			if code := route(t, g.mw, "9m4e2mr0ui3e8a215n4g", f.asOwner()); code != http.StatusNotFound {
				t.Errorf("absent id: status = %d, want 404", code)
			}
		})
	}
}

func TestVisibilityGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gates := []struct {
		name string
		mw   func(http.Handler) http.Handler
		id   string
	}{
		{"project", f.gates.RequirePublishedProject, f.project.ID},
		{"page", f.gates.RequirePublishedPage, f.page.ID},
		{"snippet", f.gates.RequirePublishedSnippet, f.snippet.ID},
	}

	// Unpublished: hidden from everyone, identity or not.
	for _, g := range gates {
		if code := route(t, g.mw, g.id, nil); code != http.StatusNotFound {
			t.Errorf("%s unpublished anonymous: status = %d, want 404", g.name, code)
		}
		if code := route(t, g.mw, g.id, f.asOwner()); code != http.StatusNotFound {
			t.Errorf("%s unpublished owner: status = %d, want 404", g.name, code)
		}
	}

	f.project.Published = true
	if err := f.db.Projects.Update(ctx, f.project); err != nil {
		t.Fatalf("publishing project: %v", err)
	}

	for _, g := range gates {
		if code := route(t, g.mw, g.id, nil); code != http.StatusOK {
			t.Errorf("%s published anonymous: status = %d, want 200", g.name, code)
		}
	}
}

func TestGateAttachesRecords(t *testing.T) {
	f := newFixture(t)

	r := chi.NewRouter()
	r.With(f.gates.RequireSnippetOwnership).Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
		snippet, ok := gate.SnippetFromContext(req.Context())
		if !ok || snippet.ID != f.snippet.ID {
			t.Error("snippet missing from gated request context")
		}
		project, ok := gate.ProjectFromContext(req.Context())
		if !ok || project.ID != f.project.ID {
			t.Error("owning project missing from gated request context")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/"+f.snippet.ID, nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), *f.asOwner()))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}
