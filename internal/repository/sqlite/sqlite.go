// Package sqlite implements the repository interfaces on SQLite via the
// pure-Go modernc.org/sqlite driver.
//
// Parent references between tables are plain indexed columns, not
// ON DELETE CASCADE foreign keys: cascade deletion is explicit application
// logic (see internal/service), so its ordering stays visible and testable.
// SQLite gives per-statement atomicity only; a multi-table cascade is
// deliberately not wrapped in a transaction.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DB wraps a sql.DB connection pool and exposes one store per record kind.
// All stores share the same pool; each implements its interface from
// internal/repository.
type DB struct {
	conn *sql.DB

	Users    *UserStore
	Sessions *SessionStore
	Projects *ProjectStore
	Pages    *PageStore
	Snippets *SnippetStore
	Comments *CommentStore
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets concurrent reads proceed during a write, which matters for a
	// web server sharing one database file across requests.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	db.Users = &UserStore{conn: conn}
	db.Sessions = &SessionStore{conn: conn}
	db.Projects = &ProjectStore{conn: conn}
	db.Pages = &PageStore{conn: conn}
	db.Snippets = &SnippetStore{conn: conn}
	db.Comments = &CommentStore{conn: conn}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token      TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			published   INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_user_id ON projects(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_published ON projects(published)`,
		`CREATE TABLE IF NOT EXISTS pages (
			id         TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			title      TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_project_id ON pages(project_id)`,
		`CREATE TABLE IF NOT EXISTS snippets (
			id            TEXT PRIMARY KEY,
			project_id    TEXT NOT NULL,
			page_id       TEXT NOT NULL,
			markdown      TEXT NOT NULL DEFAULT '',
			code          TEXT NOT NULL DEFAULT '',
			language      TEXT NOT NULL DEFAULT 'plaintext',
			show_code     INTEGER NOT NULL DEFAULT 1,
			show_markdown INTEGER NOT NULL DEFAULT 1,
			created_at    DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snippets_page_id ON snippets(page_id)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			page_id    TEXT NOT NULL,
			snippet_id TEXT NOT NULL,
			poster_id  TEXT NOT NULL,
			markdown   TEXT NOT NULL,
			posted     DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_snippet_id ON comments(snippet_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return nil
}

// placeholders returns "?, ?, ..., ?" with n placeholders, for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// toArgs widens a string slice for variadic query arguments.
func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
