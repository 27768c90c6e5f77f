package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/auth"
	"github.com/clwillhuang/code-projectorium/internal/gate"
	"github.com/clwillhuang/code-projectorium/internal/service"
)

// CommentHandler serves comment posting and deletion. Posting resolves the
// target snippet itself because publish state, not ownership, decides who
// may comment. Deletion runs behind the comment ownership gate.
type CommentHandler struct {
	comments *service.CommentService
	logger   *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(comments *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

type postCommentRequest struct {
	Markdown string `json:"markdown"`
}

// HandlePost posts a comment on a snippet. The poster must be
// authenticated; commenting on a snippet of an unpublished project is
// allowed only for the project owner.
//
// POST /snippets/{id}/comments
func (h *CommentHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	snippetID := chi.URLParam(r, "id")
	if _, err := xid.FromString(snippetID); err != nil {
		writeError(w, apperror.ValidationFailed("id", "malformed snippet id"))
		return
	}

	var req postCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.comments.Post(r.Context(), identity.UserID, snippetID, req.Markdown)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// HandleDelete deletes the gate-resolved comment.
//
// DELETE /comments/{id}
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	comment, _ := gate.CommentFromContext(r.Context())

	if err := h.comments.Delete(r.Context(), comment.ID); err != nil {
		h.logger.Error("deleting comment",
			slog.String("commentID", comment.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
