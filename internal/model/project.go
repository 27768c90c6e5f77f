package model

import "time"

// Project is the top-level owned container and the unit of publication.
// UserID is fixed at creation and never changes for the project's lifetime.
// Published gates the anonymous /view read path for the project and every
// record beneath it.
type Project struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"user"        db:"user_id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	Published   bool      `json:"published"   db:"published"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

// MaxProjectDescriptionLength caps the project description.
const MaxProjectDescriptionLength = 140

// ProjectWithUsername is a Project joined with its owner's display name.
type ProjectWithUsername struct {
	Project
	Username string `json:"username"`
}
