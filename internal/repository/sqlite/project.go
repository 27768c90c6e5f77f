package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/repository"
)

// ProjectStore implements repository.ProjectRepository.
type ProjectStore struct {
	conn *sql.DB
}

var _ repository.ProjectRepository = (*ProjectStore)(nil)

const projectColumns = `id, user_id, name, description, published, created_at`

func scanProject(row interface{ Scan(...any) error }) (*model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Published, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project, generating its id and creation timestamp.
// The owner (UserID) set here is immutable for the project's lifetime.
func (s *ProjectStore) Create(ctx context.Context, project *model.Project) error {
	project.ID = xid.New().String()
	project.CreatedAt = time.Now().UTC()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		project.ID, project.UserID, project.Name, project.Description,
		project.Published, project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating project: %w", err)
	}
	return nil
}

func (s *ProjectStore) GetByID(ctx context.Context, id string) (*model.Project, error) {
	project, err := scanProject(s.conn.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("project", id)
		}
		return nil, fmt.Errorf("sqlite: getting project %s: %w", id, err)
	}
	return project, nil
}

func (s *ProjectStore) ListByUser(ctx context.Context, userID string) ([]model.Project, error) {
	return s.list(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = ? ORDER BY created_at, id`,
		userID,
	)
}

// ListPublished returns published projects, optionally filtered to one
// owner. An empty userID means all published projects.
func (s *ProjectStore) ListPublished(ctx context.Context, userID string) ([]model.Project, error) {
	if userID != "" {
		return s.list(ctx,
			`SELECT `+projectColumns+` FROM projects
			 WHERE published = 1 AND user_id = ? ORDER BY created_at, id`,
			userID,
		)
	}
	return s.list(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE published = 1 ORDER BY created_at, id`,
	)
}

func (s *ProjectStore) list(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing projects: %w", err)
	}
	defer rows.Close()

	projects := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning project row: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating projects: %w", err)
	}
	return projects, nil
}

// Update writes the mutable fields (name, description, published). The
// owner column is deliberately excluded.
func (s *ProjectStore) Update(ctx context.Context, project *model.Project) error {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, published = ? WHERE id = ?`,
		project.Name, project.Description, project.Published, project.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating project %s: %w", project.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("project", project.ID)
	}
	return nil
}

// Delete removes only the project row. Callers are responsible for having
// cascaded the project's descendants first.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting project %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("project", id)
	}
	return nil
}
