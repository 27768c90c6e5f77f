package gate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clwillhuang/code-projectorium/internal/model"
)

// The visibility gates mirror the ownership gates' two-hop resolution, but
// the final predicate is the owning project's published flag and no
// identity is consulted: the /view surface is open to anonymous callers.
// An unpublished project is reported exactly like an absent one.

// RequirePublishedProject admits the request only when {id} names a
// published project.
func (g *Gate) RequirePublishedProject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			writeBadRequest(w, "project id")
			return
		}

		project, ok := g.resolvePublishedProject(w, r, id)
		if !ok {
			return
		}

		next.ServeHTTP(w, r.WithContext(withProject(r.Context(), project)))
	})
}

// RequirePublishedPage admits the request only when {id} names a page whose
// project is published.
func (g *Gate) RequirePublishedPage(next http.Handler) http.Handler {
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

		project, ok := g.resolvePublishedProject(w, r, page.ProjectID)
		if !ok {
			return
		}

		ctx := withProject(withPage(r.Context(), page), project)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePublishedSnippet admits the request only when {id} names a snippet
// whose project is published.
func (g *Gate) RequirePublishedSnippet(next http.Handler) http.Handler {
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

		project, ok := g.resolvePublishedProject(w, r, snippet.ProjectID)
		if !ok {
			return
		}

		ctx := withProject(withSnippet(r.Context(), snippet), project)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolvePublishedProject fetches the project and requires published=true,
// writing the response itself on failure. Unpublished collapses into the
// same not-found as absence.
func (g *Gate) resolvePublishedProject(w http.ResponseWriter, r *http.Request, projectID string) (*model.Project, bool) {
	project, err := g.projects.GetByID(r.Context(), projectID)
	if err != nil {
		g.writeResolveError(w, err, "project", projectID)
		return nil, false
	}

	if !project.Published {
		writeNotFound(w, "project", projectID)
		return nil, false
	}

	return project, true
}
