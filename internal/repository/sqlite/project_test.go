package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/model"
)

func TestProjectCreate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	project := &model.Project{
		UserID:      user.ID,
		Name:        "Demo",
		Description: "a demo project",
	}
	if err := db.Projects.Create(context.Background(), project); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if project.ID == "" {
		t.Error("Create() did not set project.ID")
	}
	if project.CreatedAt.IsZero() {
		t.Error("Create() did not set project.CreatedAt")
	}
	if project.Published {
		t.Error("new project should not be published")
	}
}

func TestProjectGetByID(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	original := createTestProject(t, db, user.ID, "Demo")

	found, err := db.Projects.GetByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Name != original.Name {
		t.Errorf("Name = %q, want %q", found.Name, original.Name)
	}
	if found.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, user.ID)
	}
}

func TestProjectGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Projects.GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestProjectListByUser(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	createTestProject(t, db, alice.ID, "First")
	createTestProject(t, db, alice.ID, "Second")
	createTestProject(t, db, bob.ID, "Other")

	projects, err := db.Projects.ListByUser(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("ListByUser() returned %d projects, want 2", len(projects))
	}
	// Insertion order.
	if projects[0].Name != "First" || projects[1].Name != "Second" {
		t.Errorf("unexpected order: %q, %q", projects[0].Name, projects[1].Name)
	}
}

func TestProjectListPublished(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	createTestProject(t, db, alice.ID, "Hidden")

	visible := createTestProject(t, db, alice.ID, "Visible")
	visible.Published = true
	if err := db.Projects.Update(context.Background(), visible); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	bobs := createTestProject(t, db, bob.ID, "Bobs")
	bobs.Published = true
	if err := db.Projects.Update(context.Background(), bobs); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	all, err := db.Projects.ListPublished(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPublished() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListPublished(\"\") returned %d projects, want 2", len(all))
	}

	mine, err := db.Projects.ListPublished(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListPublished() error = %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Visible" {
		t.Fatalf("ListPublished(alice) = %v, want just the published alice project", mine)
	}
}

func TestProjectUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	project := createTestProject(t, db, user.ID, "Demo")

	project.Name = "Renamed"
	project.Description = "updated"
	project.Published = true
	if err := db.Projects.Update(context.Background(), project); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.Projects.GetByID(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Name != "Renamed" || found.Description != "updated" || !found.Published {
		t.Errorf("update not persisted: %+v", found)
	}
}

func TestProjectUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Projects.Update(context.Background(), &model.Project{ID: "missing", Name: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestProjectDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	project := createTestProject(t, db, user.ID, "Demo")

	if err := db.Projects.Delete(context.Background(), project.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.Projects.GetByID(context.Background(), project.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := db.Projects.Delete(context.Background(), project.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
