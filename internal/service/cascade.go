// Package service contains the business logic layer: validation, the
// cascade lifecycle, and username enrichment. Handlers stay HTTP-only and
// repositories stay SQL-only.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clwillhuang/code-projectorium/internal/repository"
)

// Cascader removes a hierarchy node together with every descendant record.
// Cascades are explicit calls, not store hooks, so their ordering is visible
// here: comments, then snippets, then pages, then the parent row itself.
// Each level completes before the level above is touched, which keeps
// orphans from outliving their parent. No transaction spans the steps; the
// store guarantees per-statement atomicity only, and two overlapping
// cascades may interleave (accepted best-effort consistency).
//
// The bulk deletes report nothing about which rows they removed, so each
// level first resolves the matching ids and then bulk-deletes the level
// below by "parent id IN {ids}". An empty id list short-circuits the
// children query.
type Cascader struct {
	projects repository.ProjectRepository
	pages    repository.PageRepository
	snippets repository.SnippetRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

// NewCascader creates a Cascader over the given stores.
func NewCascader(
	projects repository.ProjectRepository,
	pages repository.PageRepository,
	snippets repository.SnippetRepository,
	comments repository.CommentRepository,
	logger *slog.Logger,
) *Cascader {
	return &Cascader{
		projects: projects,
		pages:    pages,
		snippets: snippets,
		comments: comments,
		logger:   logger,
	}
}

// DeleteProject removes a project and all of its pages, snippets, and
// comments, deepest level first.
func (c *Cascader) DeleteProject(ctx context.Context, projectID string) error {
	pageIDs, err := c.pages.IDsByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("cascade: resolving pages of project %s: %w", projectID, err)
	}

	snippetIDs, err := c.snippets.IDsByPageIn(ctx, pageIDs)
	if err != nil {
		return fmt.Errorf("cascade: resolving snippets of project %s: %w", projectID, err)
	}

	if err := c.comments.DeleteBySnippetIn(ctx, snippetIDs); err != nil {
		return fmt.Errorf("cascade: deleting comments of project %s: %w", projectID, err)
	}
	if err := c.snippets.DeleteByPageIn(ctx, pageIDs); err != nil {
		return fmt.Errorf("cascade: deleting snippets of project %s: %w", projectID, err)
	}
	if err := c.pages.DeleteByProject(ctx, projectID); err != nil {
		return fmt.Errorf("cascade: deleting pages of project %s: %w", projectID, err)
	}
	if err := c.projects.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("cascade: deleting project %s: %w", projectID, err)
	}

	c.logger.Info("project cascade complete",
		slog.String("projectID", projectID),
		slog.Int("pages", len(pageIDs)),
		slog.Int("snippets", len(snippetIDs)),
	)
	return nil
}

// DeletePage removes a page, its snippets, and their comments.
func (c *Cascader) DeletePage(ctx context.Context, pageID string) error {
	snippetIDs, err := c.snippets.IDsByPage(ctx, pageID)
	if err != nil {
		return fmt.Errorf("cascade: resolving snippets of page %s: %w", pageID, err)
	}

	if err := c.comments.DeleteBySnippetIn(ctx, snippetIDs); err != nil {
		return fmt.Errorf("cascade: deleting comments of page %s: %w", pageID, err)
	}
	if err := c.snippets.DeleteByPage(ctx, pageID); err != nil {
		return fmt.Errorf("cascade: deleting snippets of page %s: %w", pageID, err)
	}
	if err := c.pages.Delete(ctx, pageID); err != nil {
		return fmt.Errorf("cascade: deleting page %s: %w", pageID, err)
	}

	c.logger.Info("page cascade complete",
		slog.String("pageID", pageID),
		slog.Int("snippets", len(snippetIDs)),
	)
	return nil
}

// DeleteSnippet removes a snippet and its comments.
func (c *Cascader) DeleteSnippet(ctx context.Context, snippetID string) error {
	if err := c.comments.DeleteBySnippet(ctx, snippetID); err != nil {
		return fmt.Errorf("cascade: deleting comments of snippet %s: %w", snippetID, err)
	}
	if err := c.snippets.Delete(ctx, snippetID); err != nil {
		return fmt.Errorf("cascade: deleting snippet %s: %w", snippetID, err)
	}

	c.logger.Info("snippet cascade complete", slog.String("snippetID", snippetID))
	return nil
}
