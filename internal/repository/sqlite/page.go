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

// PageStore implements repository.PageRepository.
type PageStore struct {
	conn *sql.DB
}

var _ repository.PageRepository = (*PageStore)(nil)

func (s *PageStore) Create(ctx context.Context, page *model.Page) error {
	page.ID = xid.New().String()
	page.CreatedAt = time.Now().UTC()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO pages (id, project_id, title, created_at) VALUES (?, ?, ?, ?)`,
		page.ID, page.ProjectID, page.Title, page.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating page: %w", err)
	}
	return nil
}

func (s *PageStore) GetByID(ctx context.Context, id string) (*model.Page, error) {
	var page model.Page
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, project_id, title, created_at FROM pages WHERE id = ?`, id,
	).Scan(&page.ID, &page.ProjectID, &page.Title, &page.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("page", id)
		}
		return nil, fmt.Errorf("sqlite: getting page %s: %w", id, err)
	}
	return &page, nil
}

// ListByProject returns a project's pages in insertion order.
func (s *PageStore) ListByProject(ctx context.Context, projectID string) ([]model.Page, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, project_id, title, created_at FROM pages
		 WHERE project_id = ? ORDER BY created_at, id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing pages: %w", err)
	}
	defer rows.Close()

	pages := make([]model.Page, 0)
	for rows.Next() {
		var p model.Page
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Title, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning page row: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating pages: %w", err)
	}
	return pages, nil
}

// IDsByProject resolves the ids a project-level cascade will delete.
func (s *PageStore) IDsByProject(ctx context.Context, projectID string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id FROM pages WHERE project_id = ?`, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing page ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning page id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating page ids: %w", err)
	}
	return ids, nil
}

func (s *PageStore) Update(ctx context.Context, page *model.Page) error {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE pages SET title = ? WHERE id = ?`,
		page.Title, page.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating page %s: %w", page.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("page", page.ID)
	}
	return nil
}

func (s *PageStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting page %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("page", id)
	}
	return nil
}

// DeleteByProject bulk-deletes a project's pages. The statement reports no
// affected documents, which is why cascades resolve IDsByProject first.
func (s *PageStore) DeleteByProject(ctx context.Context, projectID string) error {
	if _, err := s.conn.ExecContext(ctx,
		`DELETE FROM pages WHERE project_id = ?`, projectID,
	); err != nil {
		return fmt.Errorf("sqlite: deleting pages of project %s: %w", projectID, err)
	}
	return nil
}
