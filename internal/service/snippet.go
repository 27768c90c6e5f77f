package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/repository"
)

// SnippetInput carries the writable fields for snippet creation. Display
// flags default to visible when omitted.
type SnippetInput struct {
	Markdown     string `json:"markdown"`
	Code         string `json:"code"`
	Language     string `json:"language"`
	ShowCode     *bool  `json:"showCode"`
	ShowMarkdown *bool  `json:"showMarkdown"`
}

// SnippetPatch lists every field a snippet update may change. The parent
// page and project references are not patchable.
type SnippetPatch struct {
	Markdown     *string `json:"markdown"`
	Code         *string `json:"code"`
	Language     *string `json:"language"`
	ShowCode     *bool   `json:"showCode"`
	ShowMarkdown *bool   `json:"showMarkdown"`
}

// SnippetService handles snippet business logic.
type SnippetService struct {
	snippets repository.SnippetRepository
	comments repository.CommentRepository
	enricher *Enricher
	cascader *Cascader
	logger   *slog.Logger
}

// NewSnippetService creates a SnippetService.
func NewSnippetService(
	snippets repository.SnippetRepository,
	comments repository.CommentRepository,
	enricher *Enricher,
	cascader *Cascader,
	logger *slog.Logger,
) *SnippetService {
	return &SnippetService{
		snippets: snippets,
		comments: comments,
		enricher: enricher,
		cascader: cascader,
		logger:   logger,
	}
}

// Create saves a new snippet under a gate-resolved page, denormalizing the
// page's project reference onto the snippet.
func (s *SnippetService) Create(ctx context.Context, page *model.Page, input SnippetInput) (*model.Snippet, error) {
	language := model.NormalizeLanguage(input.Language)
	if !language.Valid() {
		return nil, apperror.ValidationFailed("language",
			fmt.Sprintf("unsupported language %q", input.Language))
	}

	snippet := &model.Snippet{
		ProjectID:    page.ProjectID,
		PageID:       page.ID,
		Markdown:     input.Markdown,
		Code:         input.Code,
		Language:     language,
		ShowCode:     true,
		ShowMarkdown: true,
	}
	if input.ShowCode != nil {
		snippet.ShowCode = *input.ShowCode
	}
	if input.ShowMarkdown != nil {
		snippet.ShowMarkdown = *input.ShowMarkdown
	}

	if err := s.snippets.Create(ctx, snippet); err != nil {
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("snippetID", snippet.ID),
		slog.String("pageID", page.ID),
	)
	return snippet, nil
}

// Patch applies the non-nil fields of patch to a gate-resolved snippet.
func (s *SnippetService) Patch(ctx context.Context, snippet *model.Snippet, patch SnippetPatch) (*model.Snippet, error) {
	if patch.Language != nil {
		language := model.NormalizeLanguage(*patch.Language)
		if !language.Valid() {
			return nil, apperror.ValidationFailed("language",
				fmt.Sprintf("unsupported language %q", *patch.Language))
		}
		snippet.Language = language
	}
	if patch.Markdown != nil {
		snippet.Markdown = *patch.Markdown
	}
	if patch.Code != nil {
		snippet.Code = *patch.Code
	}
	if patch.ShowCode != nil {
		snippet.ShowCode = *patch.ShowCode
	}
	if patch.ShowMarkdown != nil {
		snippet.ShowMarkdown = *patch.ShowMarkdown
	}

	if err := s.snippets.Update(ctx, snippet); err != nil {
		return nil, fmt.Errorf("updating snippet %s: %w", snippet.ID, err)
	}

	s.logger.Info("snippet updated", slog.String("snippetID", snippet.ID))
	return snippet, nil
}

// Delete cascade-deletes the snippet and its comments.
func (s *SnippetService) Delete(ctx context.Context, snippetID string) error {
	if err := s.cascader.DeleteSnippet(ctx, snippetID); err != nil {
		return fmt.Errorf("deleting snippet %s: %w", snippetID, err)
	}
	return nil
}

// Comments returns a snippet's comments, oldest first, enriched with poster
// usernames.
func (s *SnippetService) Comments(ctx context.Context, snippetID string) ([]model.CommentWithUsername, error) {
	comments, err := s.comments.ListBySnippet(ctx, snippetID)
	if err != nil {
		return nil, fmt.Errorf("listing comments of snippet %s: %w", snippetID, err)
	}

	enriched, err := s.enricher.CommentUsernames(ctx, comments)
	if err != nil {
		return nil, fmt.Errorf("enriching comments of snippet %s: %w", snippetID, err)
	}
	return enriched, nil
}
