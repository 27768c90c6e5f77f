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

// SnippetStore implements repository.SnippetRepository.
type SnippetStore struct {
	conn *sql.DB
}

var _ repository.SnippetRepository = (*SnippetStore)(nil)

const snippetColumns = `id, project_id, page_id, markdown, code, language, show_code, show_markdown, created_at`

func scanSnippet(row interface{ Scan(...any) error }) (*model.Snippet, error) {
	var s model.Snippet
	err := row.Scan(&s.ID, &s.ProjectID, &s.PageID, &s.Markdown, &s.Code,
		&s.Language, &s.ShowCode, &s.ShowMarkdown, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *SnippetStore) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()
	snippet.CreatedAt = time.Now().UTC()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO snippets (`+snippetColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID, snippet.ProjectID, snippet.PageID, snippet.Markdown,
		snippet.Code, snippet.Language, snippet.ShowCode, snippet.ShowMarkdown,
		snippet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}
	return nil
}

func (s *SnippetStore) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	snippet, err := scanSnippet(s.conn.QueryRowContext(ctx,
		`SELECT `+snippetColumns+` FROM snippets WHERE id = ?`, id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}
	return snippet, nil
}

// ListByPage returns a page's snippets in insertion order.
func (s *SnippetStore) ListByPage(ctx context.Context, pageID string) ([]model.Snippet, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+snippetColumns+` FROM snippets
		 WHERE page_id = ? ORDER BY created_at, id`,
		pageID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := make([]model.Snippet, 0)
	for rows.Next() {
		sn, err := scanSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, *sn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}
	return snippets, nil
}

func (s *SnippetStore) IDsByPage(ctx context.Context, pageID string) ([]string, error) {
	return s.IDsByPageIn(ctx, []string{pageID})
}

// IDsByPageIn resolves the snippet ids under any of the given pages. An
// empty page list short-circuits to an empty result.
func (s *SnippetStore) IDsByPageIn(ctx context.Context, pageIDs []string) ([]string, error) {
	if len(pageIDs) == 0 {
		return nil, nil
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id FROM snippets WHERE page_id IN (`+placeholders(len(pageIDs))+`)`,
		toArgs(pageIDs)...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippet ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippet ids: %w", err)
	}
	return ids, nil
}

func (s *SnippetStore) Update(ctx context.Context, snippet *model.Snippet) error {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET markdown = ?, code = ?, language = ?, show_code = ?, show_markdown = ?
		 WHERE id = ?`,
		snippet.Markdown, snippet.Code, snippet.Language,
		snippet.ShowCode, snippet.ShowMarkdown, snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}
	return nil
}

func (s *SnippetStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}
	return nil
}

func (s *SnippetStore) DeleteByPage(ctx context.Context, pageID string) error {
	return s.DeleteByPageIn(ctx, []string{pageID})
}

// DeleteByPageIn bulk-deletes snippets under any of the given pages.
// An empty page list is a no-op.
func (s *SnippetStore) DeleteByPageIn(ctx context.Context, pageIDs []string) error {
	if len(pageIDs) == 0 {
		return nil
	}

	if _, err := s.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE page_id IN (`+placeholders(len(pageIDs))+`)`,
		toArgs(pageIDs)...,
	); err != nil {
		return fmt.Errorf("sqlite: deleting snippets by page: %w", err)
	}
	return nil
}
