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

// CommentStore implements repository.CommentRepository.
type CommentStore struct {
	conn *sql.DB
}

var _ repository.CommentRepository = (*CommentStore)(nil)

const commentColumns = `id, project_id, page_id, snippet_id, poster_id, markdown, posted`

func scanComment(row interface{ Scan(...any) error }) (*model.Comment, error) {
	var c model.Comment
	err := row.Scan(&c.ID, &c.ProjectID, &c.PageID, &c.SnippetID,
		&c.PosterID, &c.Markdown, &c.Posted)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CommentStore) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()
	if comment.Posted.IsZero() {
		comment.Posted = time.Now().UTC()
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO comments (`+commentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		comment.ID, comment.ProjectID, comment.PageID, comment.SnippetID,
		comment.PosterID, comment.Markdown, comment.Posted,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment: %w", err)
	}
	return nil
}

func (s *CommentStore) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	comment, err := scanComment(s.conn.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}
	return comment, nil
}

// ListBySnippet returns a snippet's comments oldest first.
func (s *CommentStore) ListBySnippet(ctx context.Context, snippetID string) ([]model.Comment, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments
		 WHERE snippet_id = ? ORDER BY posted, id`,
		snippetID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}
	return comments, nil
}

func (s *CommentStore) CountBySnippet(ctx context.Context, snippetID string) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE snippet_id = ?`, snippetID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting comments: %w", err)
	}
	return count, nil
}

func (s *CommentStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("comment", id)
	}
	return nil
}

func (s *CommentStore) DeleteBySnippet(ctx context.Context, snippetID string) error {
	return s.DeleteBySnippetIn(ctx, []string{snippetID})
}

// DeleteBySnippetIn bulk-deletes comments under any of the given snippets.
// An empty snippet list is a no-op.
func (s *CommentStore) DeleteBySnippetIn(ctx context.Context, snippetIDs []string) error {
	if len(snippetIDs) == 0 {
		return nil
	}

	if _, err := s.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE snippet_id IN (`+placeholders(len(snippetIDs))+`)`,
		toArgs(snippetIDs)...,
	); err != nil {
		return fmt.Errorf("sqlite: deleting comments by snippet: %w", err)
	}
	return nil
}
