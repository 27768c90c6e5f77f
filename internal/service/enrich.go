package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/repository"
)

// Enricher joins owner/poster ids to display names before records are
// returned. Batch variants run their lookups concurrently and preserve
// input order. Repeated poster ids are looked up repeatedly; the store is a
// local file and the duplication has never shown up in profiles.
type Enricher struct {
	users repository.UserRepository
}

// NewEnricher creates an Enricher over the user store.
func NewEnricher(users repository.UserRepository) *Enricher {
	return &Enricher{users: users}
}

// ProjectUsername attaches the owner's username to a project. A missing
// owner is an invariant violation, since projects cannot outlive their
// user, and is reported as an error rather than masked.
func (e *Enricher) ProjectUsername(ctx context.Context, project *model.Project) (*model.ProjectWithUsername, error) {
	user, err := e.users.GetByID(ctx, project.UserID)
	if err != nil {
		return nil, fmt.Errorf("enrich: resolving owner of project %s: %w", project.ID, err)
	}
	return &model.ProjectWithUsername{Project: *project, Username: user.Username}, nil
}

// ProjectUsernames is the batch variant of ProjectUsername. Output order
// mirrors input order.
func (e *Enricher) ProjectUsernames(ctx context.Context, projects []model.Project) ([]model.ProjectWithUsername, error) {
	enriched := make([]model.ProjectWithUsername, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	for i := range projects {
		i := i
		g.Go(func() error {
			p, err := e.ProjectUsername(gctx, &projects[i])
			if err != nil {
				return err
			}
			enriched[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return enriched, nil
}

// CommentUsername attaches the poster's username to a comment. A poster
// whose account has been deleted renders as the placeholder name instead of
// failing the read.
func (e *Enricher) CommentUsername(ctx context.Context, comment *model.Comment) (*model.CommentWithUsername, error) {
	user, err := e.users.GetByID(ctx, comment.PosterID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return &model.CommentWithUsername{
				Comment:  *comment,
				Username: model.DeletedUsername,
			}, nil
		}
		return nil, fmt.Errorf("enrich: resolving poster of comment %s: %w", comment.ID, err)
	}
	return &model.CommentWithUsername{Comment: *comment, Username: user.Username}, nil
}

// CommentUsernames is the batch variant of CommentUsername. Output order
// mirrors input order.
func (e *Enricher) CommentUsernames(ctx context.Context, comments []model.Comment) ([]model.CommentWithUsername, error) {
	enriched := make([]model.CommentWithUsername, len(comments))

	g, gctx := errgroup.WithContext(ctx)
	for i := range comments {
		i := i
		g.Go(func() error {
			c, err := e.CommentUsername(gctx, &comments[i])
			if err != nil {
				return err
			}
			enriched[i] = *c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return enriched, nil
}
