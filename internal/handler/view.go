package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/gate"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/service"
)

// ViewHandler serves the public reading surface. No session is required;
// the visibility gates admit only published projects and their
// descendants.
type ViewHandler struct {
	views  *service.ViewService
	logger *slog.Logger
}

// NewViewHandler creates a ViewHandler.
func NewViewHandler(views *service.ViewService, logger *slog.Logger) *ViewHandler {
	return &ViewHandler{views: views, logger: logger}
}

type publishedProjectsResponse struct {
	Projects []model.ProjectWithUsername `json:"projects"`
}

// HandleListProjects lists published projects, each enriched with its
// owner's username. An optional ?user= query narrows the list to one
// owner.
//
// GET /view/projects
func (h *ViewHandler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("user")
	if ownerID != "" {
		if _, err := xid.FromString(ownerID); err != nil {
			writeError(w, apperror.ValidationFailed("user", "malformed user id"))
			return
		}
	}

	projects, err := h.views.PublishedProjects(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("listing published projects",
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, publishedProjectsResponse{Projects: projects})
}

type viewProjectResponse struct {
	model.ProjectWithUsername
	Pages []model.Page `json:"pages"`
}

// HandleGetProject returns the gate-resolved published project with its
// owner's username and pages.
//
// GET /view/projects/{id}
func (h *ViewHandler) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	project, _ := gate.ProjectFromContext(r.Context())

	enriched, pages, err := h.views.ProjectDetail(r.Context(), project)
	if err != nil {
		h.logger.Error("loading published project",
			slog.String("projectID", project.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewProjectResponse{ProjectWithUsername: *enriched, Pages: pages})
}

// HandleGetPage returns the gate-resolved page of a published project with
// its snippets.
//
// GET /view/pages/{id}
func (h *ViewHandler) HandleGetPage(w http.ResponseWriter, r *http.Request) {
	page, _ := gate.PageFromContext(r.Context())

	snippets, err := h.views.PageDetail(r.Context(), page)
	if err != nil {
		h.logger.Error("loading published page",
			slog.String("pageID", page.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageDetailResponse{Page: *page, Snippets: snippets})
}

type viewSnippetResponse struct {
	model.Snippet
	Comments []model.CommentWithUsername `json:"comments"`
}

// HandleGetSnippet returns the gate-resolved snippet of a published
// project with its enriched comments.
//
// GET /view/snippets/{id}
func (h *ViewHandler) HandleGetSnippet(w http.ResponseWriter, r *http.Request) {
	snippet, _ := gate.SnippetFromContext(r.Context())

	comments, err := h.views.SnippetDetail(r.Context(), snippet)
	if err != nil {
		h.logger.Error("loading published snippet",
			slog.String("snippetID", snippet.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewSnippetResponse{Snippet: *snippet, Comments: comments})
}
