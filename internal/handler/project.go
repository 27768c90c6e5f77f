package handler

import (
	"log/slog"
	"net/http"

	"github.com/clwillhuang/code-projectorium/internal/auth"
	"github.com/clwillhuang/code-projectorium/internal/gate"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/service"
)

// ProjectHandler serves the authenticated /projects surface. Single-project
// routes run behind the project ownership gate, so handlers read the
// resolved record from the request context instead of re-fetching it.
type ProjectHandler struct {
	projects *service.ProjectService
	logger   *slog.Logger
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(projects *service.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

type projectListResponse struct {
	Projects []model.Project `json:"projects"`
	Username string          `json:"username"`
}

// HandleList returns every project the requester owns.
//
// GET /projects
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	projects, err := h.projects.ListOwn(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("listing projects", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectListResponse{
		Projects: projects,
		Username: identity.Username,
	})
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate creates a new unpublished project owned by the requester.
//
// POST /projects
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req createProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	project, err := h.projects.Create(r.Context(), identity.UserID, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

type projectDetailResponse struct {
	model.ProjectWithUsername
	Pages []model.Page `json:"pages"`
}

// HandleGet returns the gate-resolved project with its owner's username and
// its pages.
//
// GET /projects/{id}
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	project, _ := gate.ProjectFromContext(r.Context())

	enriched, pages, err := h.projects.Detail(r.Context(), project)
	if err != nil {
		h.logger.Error("loading project detail",
			slog.String("projectID", project.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectDetailResponse{
		ProjectWithUsername: *enriched,
		Pages:               pages,
	})
}

// HandlePatch applies a typed patch to the gate-resolved project and
// returns the updated record.
//
// PATCH /projects/{id}
func (h *ProjectHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	project, _ := gate.ProjectFromContext(r.Context())

	var patch service.ProjectPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	updated, err := h.projects.Patch(r.Context(), project, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete cascade-deletes the gate-resolved project.
//
// DELETE /projects/{id}
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	project, _ := gate.ProjectFromContext(r.Context())

	if err := h.projects.Delete(r.Context(), project.ID); err != nil {
		h.logger.Error("deleting project",
			slog.String("projectID", project.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
