package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/repository"
)

// CommentService handles comment posting and moderation.
type CommentService struct {
	projects repository.ProjectRepository
	snippets repository.SnippetRepository
	comments repository.CommentRepository
	enricher *Enricher
	logger   *slog.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(
	projects repository.ProjectRepository,
	snippets repository.SnippetRepository,
	comments repository.CommentRepository,
	enricher *Enricher,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		projects: projects,
		snippets: snippets,
		comments: comments,
		enricher: enricher,
		logger:   logger,
	}
}

// Post creates a comment on a snippet. Any authenticated user may post when
// the snippet's project is published; otherwise only the project owner may.
// This is the one place an identity mismatch surfaces as forbidden rather
// than collapsing into not-found: the snippet's existence has already been
// revealed by the published check's failure mode.
func (s *CommentService) Post(ctx context.Context, posterID, snippetID, markdown string) (*model.CommentWithUsername, error) {
	snippet, err := s.snippets.GetByID(ctx, snippetID)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, snippet.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.Published && project.UserID != posterID {
		return nil, apperror.Forbidden("project is not published")
	}

	if len(strings.TrimSpace(markdown)) < model.MinCommentLength {
		return nil, apperror.ValidationFailed("markdown",
			fmt.Sprintf("comment must be at least %d characters", model.MinCommentLength))
	}

	comment := &model.Comment{
		ProjectID: snippet.ProjectID,
		PageID:    snippet.PageID,
		SnippetID: snippet.ID,
		PosterID:  posterID,
		Markdown:  markdown,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment posted",
		slog.String("commentID", comment.ID),
		slog.String("snippetID", snippet.ID),
	)

	enriched, err := s.enricher.CommentUsername(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("enriching comment %s: %w", comment.ID, err)
	}
	return enriched, nil
}

// Delete removes a single comment. The ownership gate has already verified
// the requester owns the comment's project; comment authorship is
// irrelevant to moderation.
func (s *CommentService) Delete(ctx context.Context, commentID string) error {
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("deleting comment %s: %w", commentID, err)
	}

	s.logger.Info("comment deleted", slog.String("commentID", commentID))
	return nil
}
