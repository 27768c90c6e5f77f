package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/repository"
)

// ViewService serves the anonymous read path over published projects. The
// visibility gate has already vetted the records it is handed; this layer
// only assembles subtrees and enrichment.
type ViewService struct {
	projects repository.ProjectRepository
	pages    repository.PageRepository
	snippets repository.SnippetRepository
	comments repository.CommentRepository
	enricher *Enricher
	logger   *slog.Logger
}

// NewViewService creates a ViewService.
func NewViewService(
	projects repository.ProjectRepository,
	pages repository.PageRepository,
	snippets repository.SnippetRepository,
	comments repository.CommentRepository,
	enricher *Enricher,
	logger *slog.Logger,
) *ViewService {
	return &ViewService{
		projects: projects,
		pages:    pages,
		snippets: snippets,
		comments: comments,
		enricher: enricher,
		logger:   logger,
	}
}

// PublishedProjects returns all published projects enriched with their
// owners' usernames, optionally filtered to one owner id.
func (s *ViewService) PublishedProjects(ctx context.Context, ownerID string) ([]model.ProjectWithUsername, error) {
	projects, err := s.projects.ListPublished(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing published projects: %w", err)
	}

	enriched, err := s.enricher.ProjectUsernames(ctx, projects)
	if err != nil {
		return nil, fmt.Errorf("enriching published projects: %w", err)
	}
	return enriched, nil
}

// ProjectDetail returns a gate-resolved published project enriched with its
// owner's username plus its pages.
func (s *ViewService) ProjectDetail(ctx context.Context, project *model.Project) (*model.ProjectWithUsername, []model.Page, error) {
	enriched, err := s.enricher.ProjectUsername(ctx, project)
	if err != nil {
		return nil, nil, fmt.Errorf("enriching project %s: %w", project.ID, err)
	}

	pages, err := s.pages.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing pages of project %s: %w", project.ID, err)
	}
	return enriched, pages, nil
}

// PageDetail returns a gate-resolved page's snippets in insertion order.
func (s *ViewService) PageDetail(ctx context.Context, page *model.Page) ([]model.Snippet, error) {
	snippets, err := s.snippets.ListByPage(ctx, page.ID)
	if err != nil {
		return nil, fmt.Errorf("listing snippets of page %s: %w", page.ID, err)
	}
	return snippets, nil
}

// SnippetDetail returns a gate-resolved snippet's comments enriched with
// poster usernames.
func (s *ViewService) SnippetDetail(ctx context.Context, snippet *model.Snippet) ([]model.CommentWithUsername, error) {
	comments, err := s.comments.ListBySnippet(ctx, snippet.ID)
	if err != nil {
		return nil, fmt.Errorf("listing comments of snippet %s: %w", snippet.ID, err)
	}

	enriched, err := s.enricher.CommentUsernames(ctx, comments)
	if err != nil {
		return nil, fmt.Errorf("enriching comments of snippet %s: %w", snippet.ID, err)
	}
	return enriched, nil
}
