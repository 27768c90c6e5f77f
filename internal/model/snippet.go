package model

import (
	"strings"
	"time"
)

// Language is the syntax-highlighting hint attached to a snippet's code.
type Language string

// Supported snippet languages.
const (
	LanguagePlaintext  Language = "plaintext"
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
)

// NormalizeLanguage lowercases and trims a language value, substituting the
// default for an empty input.
func NormalizeLanguage(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LanguagePlaintext
	}
	return Language(s)
}

// Valid reports whether the language is one of the supported values.
func (l Language) Valid() bool {
	switch l {
	case LanguagePlaintext, LanguageJavaScript, LanguagePython:
		return true
	}
	return false
}

// Snippet is the leaf content unit: a markdown block plus a code block.
// PageID is its parent; ProjectID is denormalized from the page so the
// ownership gate resolves the owning project in a single extra lookup.
type Snippet struct {
	ID           string    `json:"id"           db:"id"`
	ProjectID    string    `json:"project"      db:"project_id"`
	PageID       string    `json:"page"         db:"page_id"`
	Markdown     string    `json:"markdown"     db:"markdown"`
	Code         string    `json:"code"         db:"code"`
	Language     Language  `json:"language"     db:"language"`
	ShowCode     bool      `json:"showCode"     db:"show_code"`
	ShowMarkdown bool      `json:"showMarkdown" db:"show_markdown"`
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
}
