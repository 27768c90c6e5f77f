package handler

import (
	"log/slog"
	"net/http"

	"github.com/clwillhuang/code-projectorium/internal/gate"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/service"
)

// SnippetHandler serves the authenticated snippet surface. Creation runs
// behind the page ownership gate; the single-snippet routes run behind the
// snippet ownership gate (snippet → project two-hop).
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

// HandleCreate creates a snippet under the gate-resolved page.
//
// POST /pages/{id}/snippets
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	page, _ := gate.PageFromContext(r.Context())

	var input service.SnippetInput
	if !decodeBody(w, r, &input) {
		return
	}

	snippet, err := h.snippets.Create(r.Context(), page, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// HandleGet returns the gate-resolved snippet.
//
// GET /snippets/{id}
func (h *SnippetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snippet, _ := gate.SnippetFromContext(r.Context())
	writeJSON(w, http.StatusOK, snippet)
}

// HandlePatch applies a typed patch to the gate-resolved snippet.
//
// PATCH /snippets/{id}
func (h *SnippetHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	snippet, _ := gate.SnippetFromContext(r.Context())

	var patch service.SnippetPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	updated, err := h.snippets.Patch(r.Context(), snippet, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete deletes the gate-resolved snippet and its comments.
//
// DELETE /snippets/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	snippet, _ := gate.SnippetFromContext(r.Context())

	if err := h.snippets.Delete(r.Context(), snippet.ID); err != nil {
		h.logger.Error("deleting snippet",
			slog.String("snippetID", snippet.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type commentListResponse struct {
	Comments []model.CommentWithUsername `json:"comments"`
}

// HandleListComments returns the gate-resolved snippet's comments, each
// enriched with its poster's username.
//
// GET /snippets/{id}/comments
func (h *SnippetHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	snippet, _ := gate.SnippetFromContext(r.Context())

	comments, err := h.snippets.Comments(r.Context(), snippet.ID)
	if err != nil {
		h.logger.Error("listing snippet comments",
			slog.String("snippetID", snippet.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, commentListResponse{Comments: comments})
}
