// Package gate implements the access-control middleware chains: ownership
// gates for the authenticated CRUD surface and visibility gates for the
// anonymous /view surface.
//
// Both chains share the same two-hop resolution: resolve the requested
// entity, follow its denormalized project reference, then apply the final
// predicate (owner identity for the ownership gate, the published flag for
// the visibility gate). Resolved records are attached to the request context
// so handlers never re-fetch them.
package gate

import (
	"context"

	"github.com/clwillhuang/code-projectorium/internal/model"
)

type contextKey int

const (
	projectKey contextKey = iota
	pageKey
	snippetKey
	commentKey
)

func withProject(ctx context.Context, p *model.Project) context.Context {
	return context.WithValue(ctx, projectKey, p)
}

// ProjectFromContext returns the project resolved by a gate on this request.
func ProjectFromContext(ctx context.Context) (*model.Project, bool) {
	p, ok := ctx.Value(projectKey).(*model.Project)
	return p, ok
}

func withPage(ctx context.Context, p *model.Page) context.Context {
	return context.WithValue(ctx, pageKey, p)
}

// PageFromContext returns the page resolved by a gate on this request.
func PageFromContext(ctx context.Context) (*model.Page, bool) {
	p, ok := ctx.Value(pageKey).(*model.Page)
	return p, ok
}

func withSnippet(ctx context.Context, s *model.Snippet) context.Context {
	return context.WithValue(ctx, snippetKey, s)
}

// SnippetFromContext returns the snippet resolved by a gate on this request.
func SnippetFromContext(ctx context.Context) (*model.Snippet, bool) {
	s, ok := ctx.Value(snippetKey).(*model.Snippet)
	return s, ok
}

func withComment(ctx context.Context, c *model.Comment) context.Context {
	return context.WithValue(ctx, commentKey, c)
}

// CommentFromContext returns the comment resolved by a gate on this request.
func CommentFromContext(ctx context.Context) (*model.Comment, bool) {
	c, ok := ctx.Value(commentKey).(*model.Comment)
	return c, ok
}
