package book

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	// GetByISBN returns the book with the given ISBN, or ErrNotFound.
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	// Create inserts a new book. Returns ErrAlreadyExists when the ISBN is
	// already stored, so concurrent synchronization of the same ISBN stays
	// a benign no-op.
	Create(ctx context.Context, b *Book) error
	// List returns stored books with simple pagination.
	List(ctx context.Context, limit, offset int) ([]Book, error)
}
