package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrAlreadyExists is returned when inserting a book whose ISBN is already
// stored. Synchronization treats it as idempotent success.
var ErrAlreadyExists = errors.New("book already exists")

// Book represents a book entity. ISBN is the business key; ID is the
// storage-assigned surrogate.
type Book struct {
	ID           string    `json:"id"`
	ISBN         string    `json:"isbn"`
	Title        string    `json:"title"`
	Author       string    `json:"author,omitempty"`
	Description  string    `json:"description,omitempty"`
	Genre        string    `json:"genre,omitempty"`
	Publisher    string    `json:"publisher,omitempty"`
	PageCount    int       `json:"page_count,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
