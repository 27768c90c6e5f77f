package model

import "time"

// Comment annotates a snippet. The full ancestor chain (project, page,
// snippet) is denormalized onto the comment so cascade deletes can match
// comments at any level without joins. PosterID may reference a user that
// has since been deleted; enrichment substitutes a placeholder name rather
// than failing.
type Comment struct {
	ID        string    `json:"id"       db:"id"`
	ProjectID string    `json:"project"  db:"project_id"`
	PageID    string    `json:"page"     db:"page_id"`
	SnippetID string    `json:"snippet"  db:"snippet_id"`
	PosterID  string    `json:"poster"   db:"poster_id"`
	Markdown  string    `json:"markdown" db:"markdown"`
	Posted    time.Time `json:"posted"   db:"posted"`
}

// MinCommentLength is the shortest accepted comment body.
const MinCommentLength = 15

// DeletedUsername is the display name substituted for comments whose poster
// account no longer exists.
const DeletedUsername = "Deleted user"

// CommentWithUsername is a Comment joined with its poster's display name.
type CommentWithUsername struct {
	Comment
	Username string `json:"username"`
}
