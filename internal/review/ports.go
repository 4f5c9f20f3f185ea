package review

import (
	"context"

	"booksync/internal/book"
)

// Repository defines the contract for review storage.
type Repository interface {
	// Save persists a review and returns its assigned identifier.
	Save(ctx context.Context, r *Review) (string, error)
	// ListByISBN returns all reviews for one book, newest first.
	ListByISBN(ctx context.Context, isbn string) ([]Review, error)
	// Statistics aggregates count and mean rating per book with at least
	// one review, in a single pass over current store contents.
	Statistics(ctx context.Context) ([]Statistic, error)
	// DeleteByID removes a review; deleting an absent id is a no-op.
	DeleteByID(ctx context.Context, isbn, reviewID string) error
}

// BookFinder is the slice of the book store the review service needs.
type BookFinder interface {
	GetByISBN(ctx context.Context, isbn string) (book.Book, error)
}

// QualityVerifier gates review content before persistence.
type QualityVerifier interface {
	DoesMeetQualityStandards(content string) bool
}
