package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/clwillhuang/code-projectorium/internal/model"
	"github.com/clwillhuang/code-projectorium/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestUser(t *testing.T, db *sqlite.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestProject(t *testing.T, db *sqlite.DB, userID, name string) *model.Project {
	t.Helper()
	project := &model.Project{UserID: userID, Name: name}
	if err := db.Projects.Create(context.Background(), project); err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

func createTestPage(t *testing.T, db *sqlite.DB, projectID, title string) *model.Page {
	t.Helper()
	page := &model.Page{ProjectID: projectID, Title: title}
	if err := db.Pages.Create(context.Background(), page); err != nil {
		t.Fatalf("failed to create test page: %v", err)
	}
	return page
}

func createTestSnippet(t *testing.T, db *sqlite.DB, projectID, pageID string) *model.Snippet {
	t.Helper()
	snippet := &model.Snippet{
		ProjectID:    projectID,
		PageID:       pageID,
		Markdown:     "notes",
		Code:         "print('hi')",
		Language:     model.LanguagePython,
		ShowCode:     true,
		ShowMarkdown: true,
	}
	if err := db.Snippets.Create(context.Background(), snippet); err != nil {
		t.Fatalf("failed to create test snippet: %v", err)
	}
	return snippet
}

func createTestComment(t *testing.T, db *sqlite.DB, snippet *model.Snippet, posterID string) *model.Comment {
	t.Helper()
	comment := &model.Comment{
		ProjectID: snippet.ProjectID,
		PageID:    snippet.PageID,
		SnippetID: snippet.ID,
		PosterID:  posterID,
		Markdown:  "a comment long enough to store",
	}
	if err := db.Comments.Create(context.Background(), comment); err != nil {
		t.Fatalf("failed to create test comment: %v", err)
	}
	return comment
}

func newTestCascader(db *sqlite.DB) *Cascader {
	return NewCascader(db.Projects, db.Pages, db.Snippets, db.Comments, discardLogger())
}
