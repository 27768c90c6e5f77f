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

// PagePatch lists every field a page update may change.
type PagePatch struct {
	Title *string `json:"title"`
}

// PageService handles page business logic.
type PageService struct {
	pages    repository.PageRepository
	snippets repository.SnippetRepository
	cascader *Cascader
	logger   *slog.Logger
}

// NewPageService creates a PageService.
func NewPageService(
	pages repository.PageRepository,
	snippets repository.SnippetRepository,
	cascader *Cascader,
	logger *slog.Logger,
) *PageService {
	return &PageService{
		pages:    pages,
		snippets: snippets,
		cascader: cascader,
		logger:   logger,
	}
}

// Create saves a new page under a gate-resolved project. The parent
// reference is validated by construction: the gate has already proven the
// project exists and is owned by the requester.
func (s *PageService) Create(ctx context.Context, project *model.Project, title string) (*model.Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "page title is required")
	}

	page := &model.Page{
		ProjectID: project.ID,
		Title:     title,
	}
	if err := s.pages.Create(ctx, page); err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	s.logger.Info("page created",
		slog.String("pageID", page.ID),
		slog.String("projectID", project.ID),
	)
	return page, nil
}

// Detail returns the page's snippets in insertion order.
func (s *PageService) Detail(ctx context.Context, page *model.Page) ([]model.Snippet, error) {
	snippets, err := s.snippets.ListByPage(ctx, page.ID)
	if err != nil {
		return nil, fmt.Errorf("listing snippets of page %s: %w", page.ID, err)
	}
	return snippets, nil
}

// Patch applies the non-nil fields of patch to a gate-resolved page.
func (s *PageService) Patch(ctx context.Context, page *model.Page, patch PagePatch) (*model.Page, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "page title is required")
		}
		page.Title = title
	}

	if err := s.pages.Update(ctx, page); err != nil {
		return nil, fmt.Errorf("updating page %s: %w", page.ID, err)
	}

	s.logger.Info("page updated", slog.String("pageID", page.ID))
	return page, nil
}

// Delete cascade-deletes the page, its snippets, and their comments.
func (s *PageService) Delete(ctx context.Context, pageID string) error {
	if err := s.cascader.DeletePage(ctx, pageID); err != nil {
		return fmt.Errorf("deleting page %s: %w", pageID, err)
	}
	return nil
}
