// Package repository declares the storage interfaces consumed by the
// service and gate layers. The sqlite subpackage provides the concrete
// implementation; tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/clwillhuang/code-projectorium/internal/model"
)

// UserRepository stores accounts. Delete exists so that comments can outlive
// their poster; nothing cascades from a user deletion.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// SessionRepository stores server-side login sessions keyed by opaque token.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// ProjectRepository stores top-level project containers.
// ListPublished takes an optional owner filter; an empty userID means all
// published projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	ListByUser(ctx context.Context, userID string) ([]model.Project, error)
	ListPublished(ctx context.Context, userID string) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
}

// PageRepository stores pages. IDsByProject and DeleteByProject support the
// fetch-then-bulk-delete cascade: the bulk delete reports no affected rows,
// so matching ids are resolved up front for the next level down.
type PageRepository interface {
	Create(ctx context.Context, page *model.Page) error
	GetByID(ctx context.Context, id string) (*model.Page, error)
	ListByProject(ctx context.Context, projectID string) ([]model.Page, error)
	IDsByProject(ctx context.Context, projectID string) ([]string, error)
	Update(ctx context.Context, page *model.Page) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
}

// SnippetRepository stores snippets. The In variants batch over the page ids
// resolved by a project-level cascade.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	ListByPage(ctx context.Context, pageID string) ([]model.Snippet, error)
	IDsByPage(ctx context.Context, pageID string) ([]string, error)
	IDsByPageIn(ctx context.Context, pageIDs []string) ([]string, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id string) error
	DeleteByPage(ctx context.Context, pageID string) error
	DeleteByPageIn(ctx context.Context, pageIDs []string) error
}

// CommentRepository stores comments, the leaves of every cascade.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	ListBySnippet(ctx context.Context, snippetID string) ([]model.Comment, error)
	CountBySnippet(ctx context.Context, snippetID string) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteBySnippet(ctx context.Context, snippetID string) error
	DeleteBySnippetIn(ctx context.Context, snippetIDs []string) error
}
