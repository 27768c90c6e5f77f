package handler

import (
	"log/slog"
	"net/http"

	"github.com/clwillhuang/code-projectorium/internal/gate"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/service"
)

// PageHandler serves the authenticated page surface. Creation runs behind
// the project ownership gate; the single-page routes run behind the page
// ownership gate (page → project two-hop).
type PageHandler struct {
	pages  *service.PageService
	logger *slog.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(pages *service.PageService, logger *slog.Logger) *PageHandler {
	return &PageHandler{pages: pages, logger: logger}
}

type createPageRequest struct {
	Title string `json:"title"`
}

// HandleCreate creates a page under the gate-resolved project.
//
// POST /projects/{id}/pages
func (h *PageHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	project, _ := gate.ProjectFromContext(r.Context())

	var req createPageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	page, err := h.pages.Create(r.Context(), project, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, page)
}

type pageDetailResponse struct {
	model.Page
	Snippets []model.Snippet `json:"snippets"`
}

// HandleGet returns the gate-resolved page with its snippets in insertion
// order.
//
// GET /pages/{id}
func (h *PageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	page, _ := gate.PageFromContext(r.Context())

	snippets, err := h.pages.Detail(r.Context(), page)
	if err != nil {
		h.logger.Error("loading page detail",
			slog.String("pageID", page.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageDetailResponse{Page: *page, Snippets: snippets})
}

// HandlePatch applies a typed patch to the gate-resolved page.
//
// PATCH /pages/{id}
func (h *PageHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	page, _ := gate.PageFromContext(r.Context())

	var patch service.PagePatch
	if !decodeBody(w, r, &patch) {
		return
	}

	updated, err := h.pages.Patch(r.Context(), page, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete cascade-deletes the gate-resolved page.
//
// DELETE /pages/{id}
func (h *PageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	page, _ := gate.PageFromContext(r.Context())

	if err := h.pages.Delete(r.Context(), page.ID); err != nil {
		h.logger.Error("deleting page",
			slog.String("pageID", page.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
