package service

import (
	"context"
	"errors"
	"testing"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
)

func TestCommentPost_PublishedProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db.Projects, db.Snippets, db.Comments, NewEnricher(db.Users), discardLogger())
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")
	poster := createTestUser(t, db, "bob")
	project := createTestProject(t, db, owner.ID, "Demo")
	project.Published = true
	if err := db.Projects.Update(ctx, project); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	page := createTestPage(t, db, project.ID, "Intro")
	snippet := createTestSnippet(t, db, project.ID, page.ID)

	comment, err := svc.Post(ctx, poster.ID, snippet.ID, "this snippet deserves a thoughtful remark")
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if comment.Username != "bob" {
		t.Errorf("Username = %q, want %q", comment.Username, "bob")
	}
	if comment.SnippetID != snippet.ID || comment.ProjectID != project.ID {
		t.Errorf("comment references wrong parents: %+v", comment)
	}
}

func TestCommentPost_UnpublishedProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db.Projects, db.Snippets, db.Comments, NewEnricher(db.Users), discardLogger())
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")
	stranger := createTestUser(t, db, "bob")
	project := createTestProject(t, db, owner.ID, "Demo")
	page := createTestPage(t, db, project.ID, "Intro")
	snippet := createTestSnippet(t, db, project.ID, page.ID)

	// A non-owner is rejected with forbidden, not not-found.
	_, err := svc.Post(ctx, stranger.ID, snippet.ID, "this snippet deserves a thoughtful remark")
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Post() by non-owner error = %v, want ErrForbidden", err)
	}

	// The owner may comment on their own unpublished work.
	if _, err := svc.Post(ctx, owner.ID, snippet.ID, "leaving myself a note on this snippet"); err != nil {
		t.Errorf("Post() by owner error = %v, want nil", err)
	}
}

func TestCommentPost_TooShort(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db.Projects, db.Snippets, db.Comments, NewEnricher(db.Users), discardLogger())
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")
	project := createTestProject(t, db, owner.ID, "Demo")
	page := createTestPage(t, db, project.ID, "Intro")
	snippet := createTestSnippet(t, db, project.ID, page.ID)

	if _, err := svc.Post(ctx, owner.ID, snippet.ID, "too short"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Post() with short markdown error = %v, want ErrValidation", err)
	}
}

func TestCommentPost_MissingSnippet(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db.Projects, db.Snippets, db.Comments, NewEnricher(db.Users), discardLogger())

	owner := createTestUser(t, db, "alice")
	_, err := svc.Post(context.Background(), owner.ID, "missing", "this snippet deserves a thoughtful remark")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Post() on missing snippet error = %v, want ErrNotFound", err)
	}
}
