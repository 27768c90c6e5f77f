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

// ProjectPatch lists every field a project update may change. Nil means
// "leave unchanged". The owner is not patchable.
type ProjectPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Published   *bool   `json:"published"`
}

// ProjectService handles project business logic. Deletion delegates to the
// cascader so the whole subtree goes with the project.
type ProjectService struct {
	projects repository.ProjectRepository
	pages    repository.PageRepository
	enricher *Enricher
	cascader *Cascader
	logger   *slog.Logger
}

// NewProjectService creates a ProjectService.
func NewProjectService(
	projects repository.ProjectRepository,
	pages repository.PageRepository,
	enricher *Enricher,
	cascader *Cascader,
	logger *slog.Logger,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		pages:    pages,
		enricher: enricher,
		cascader: cascader,
		logger:   logger,
	}
}

// Create validates and saves a new unpublished project owned by ownerID.
// Ownership is fixed here for the project's lifetime.
func (s *ProjectService) Create(ctx context.Context, ownerID, name, description string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "project name is required")
	}
	if len(description) > model.MaxProjectDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("project description must be %d characters or less", model.MaxProjectDescriptionLength))
	}

	project := &model.Project{
		UserID:      ownerID,
		Name:        name,
		Description: description,
		Published:   false,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created",
		slog.String("projectID", project.ID),
		slog.String("ownerID", ownerID),
	)
	return project, nil
}

// ListOwn returns every project owned by the user, published or not.
func (s *ProjectService) ListOwn(ctx context.Context, ownerID string) ([]model.Project, error) {
	projects, err := s.projects.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Detail returns the project enriched with its owner's username plus its
// pages in insertion order. The caller supplies a project already resolved
// by a gate.
func (s *ProjectService) Detail(ctx context.Context, project *model.Project) (*model.ProjectWithUsername, []model.Page, error) {
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

// Patch applies the non-nil fields of patch to a gate-resolved project and
// saves it, returning the updated record.
func (s *ProjectService) Patch(ctx context.Context, project *model.Project, patch ProjectPatch) (*model.Project, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "project name is required")
		}
		project.Name = name
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if len(description) > model.MaxProjectDescriptionLength {
			return nil, apperror.ValidationFailed("description",
				fmt.Sprintf("project description must be %d characters or less", model.MaxProjectDescriptionLength))
		}
		project.Description = description
	}
	if patch.Published != nil {
		project.Published = *patch.Published
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("updating project %s: %w", project.ID, err)
	}

	s.logger.Info("project updated",
		slog.String("projectID", project.ID),
		slog.Bool("published", project.Published),
	)
	return project, nil
}

// Delete cascade-deletes the project and its whole subtree.
func (s *ProjectService) Delete(ctx context.Context, projectID string) error {
	if err := s.cascader.DeleteProject(ctx, projectID); err != nil {
		return fmt.Errorf("deleting project %s: %w", projectID, err)
	}
	return nil
}
