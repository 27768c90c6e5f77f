package gate

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/auth"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/repository"
)

// Gate builds the ownership and visibility middleware over the record
// stores. It runs after the session middleware; ownership variants assume
// RequireAuth has already rejected anonymous requests.
type Gate struct {
	projects repository.ProjectRepository
	pages    repository.PageRepository
	snippets repository.SnippetRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

// New creates a Gate over the given stores.
func New(
	projects repository.ProjectRepository,
	pages repository.PageRepository,
	snippets repository.SnippetRepository,
	comments repository.CommentRepository,
	logger *slog.Logger,
) *Gate {
	return &Gate{
		projects: projects,
		pages:    pages,
		snippets: snippets,
		comments: comments,
		logger:   logger,
	}
}

// RequireProjectOwnership admits the request only when the {id} path
// parameter names a project owned by the requester. Absent project and
// owner mismatch produce the identical not-found response.
func (g *Gate) RequireProjectOwnership(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeBadRequest(w, "project id")
			return
		}

		project, ok := g.resolveOwnedProject(w, r, id)
		if !ok {
			return
		}

		next.ServeHTTP(w, r.WithContext(withProject(r.Context(), project)))
	})
}

// RequirePageOwnership resolves the page named by {id}, then delegates to
// the project-level ownership check through the page's denormalized project
// reference. Both the page and its project end up in the context.
func (g *Gate) RequirePageOwnership(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeBadRequest(w, "page id")
			return
		}

		page, err := g.pages.GetByID(r.Context(), id)
		if err != nil {
			g.writeResolveError(w, err, "page", id)
			return
		}

		project, ok := g.resolveOwnedProject(w, r, page.ProjectID)
		if !ok {
			return
		}

		ctx := withProject(withPage(r.Context(), page), project)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSnippetOwnership resolves the snippet named by {id}, then delegates
// to the project-level ownership check.
func (g *Gate) RequireSnippetOwnership(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeBadRequest(w, "snippet id")
			return
		}

		snippet, err := g.snippets.GetByID(r.Context(), id)
		if err != nil {
			g.writeResolveError(w, err, "snippet", id)
			return
		}

		project, ok := g.resolveOwnedProject(w, r, snippet.ProjectID)
		if !ok {
			return
		}

		ctx := withProject(withSnippet(r.Context(), snippet), project)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCommentOwnership resolves the comment named by {id}, then requires
// ownership of the comment's project. Project owners moderate all comments
// under their projects regardless of who posted them.
func (g *Gate) RequireCommentOwnership(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeBadRequest(w, "comment id")
			return
		}

		comment, err := g.comments.GetByID(r.Context(), id)
		if err != nil {
			g.writeResolveError(w, err, "comment", id)
			return
		}

		project, ok := g.resolveOwnedProject(w, r, comment.ProjectID)
		if !ok {
			return
		}

		ctx := withProject(withComment(r.Context(), comment), project)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveOwnedProject fetches the project and verifies the requester owns
// it, writing the response itself on failure. Mismatch collapses into the
// same not-found as absence.
func (g *Gate) resolveOwnedProject(w http.ResponseWriter, r *http.Request, projectID string) (*model.Project, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// RequireAuth runs before any ownership gate; reaching this point
		// without an identity is a routing mistake.
		g.logger.Error("ownership gate reached without identity",
			slog.String("path", r.URL.Path))
		writeServerError(w)
		return nil, false
	}

	project, err := g.projects.GetByID(r.Context(), projectID)
	if err != nil {
		g.writeResolveError(w, err, "project", projectID)
		return nil, false
	}

	if project.UserID != identity.UserID {
		writeNotFound(w, "project", projectID)
		return nil, false
	}

	return project, true
}

func (g *Gate) writeResolveError(w http.ResponseWriter, err error, resource, id string) {
	if errors.Is(err, apperror.ErrNotFound) {
		writeNotFound(w, resource, id)
		return
	}
	g.logger.Error("gate store failure",
		slog.String("resource", resource),
		slog.String("id", id),
		slog.String("error", err.Error()),
	)
	writeServerError(w)
}
