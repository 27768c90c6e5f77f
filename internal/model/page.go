package model

import "time"

// Page is a sub-document of a Project. Pages carry no explicit order field;
// presentation order is insertion order (created_at, id).
type Page struct {
	ID        string    `json:"id"        db:"id"`
	ProjectID string    `json:"project"   db:"project_id"`
	Title     string    `json:"title"     db:"title"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
