package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booksync/internal/book"
)

// Request carries the caller-supplied fields of a new review.
type Request struct {
	Title   string `json:"reviewTitle"`
	Content string `json:"reviewContent"`
	Rating  int    `json:"rating"`
}

// Service orchestrates review creation behind the quality gate and exposes
// the aggregation query.
type Service struct {
	reviews  Repository
	books    BookFinder
	verifier QualityVerifier
}

func NewService(reviews Repository, books BookFinder, verifier QualityVerifier) *Service {
	return &Service{reviews: reviews, books: books, verifier: verifier}
}

// CreateBookReview persists a review for an existing book once the content
// passes the quality gate, and returns the assigned review id. The rating
// range is re-validated here even though the transport layer bounds it, since
// it is a data invariant of Review.
func (s *Service) CreateBookReview(ctx context.Context, isbn string, req Request, username, email string) (string, error) {
	if req.Rating < MinRating || req.Rating > MaxRating {
		return "", ErrInvalidRating
	}

	if _, err := s.books.GetByISBN(ctx, isbn); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			return "", ErrUnknownBook
		}
		return "", fmt.Errorf("lookup book %s: %w", isbn, err)
	}

	if !s.verifier.DoesMeetQualityStandards(req.Content) {
		return "", ErrBadQuality
	}

	r := &Review{
		BookISBN:      isbn,
		ReviewerName:  username,
		ReviewerEmail: email,
		Title:         req.Title,
		Content:       req.Content,
		Rating:        req.Rating,
		CreatedAt:     time.Now(),
	}
	id, err := s.reviews.Save(ctx, r)
	if err != nil {
		return "", fmt.Errorf("save review for %s: %w", isbn, err)
	}
	return id, nil
}

// GetReviewStatistics re-aggregates on every call. The snapshot may be stale
// by the time it returns under concurrent submissions, which is acceptable
// for a reporting read.
func (s *Service) GetReviewStatistics(ctx context.Context) ([]Statistic, error) {
	return s.reviews.Statistics(ctx)
}

// ListReviews returns all reviews for one book.
func (s *Service) ListReviews(ctx context.Context, isbn string) ([]Review, error) {
	return s.reviews.ListByISBN(ctx, isbn)
}

// DeleteReview removes a review by id. Idempotent; authorization is the
// transport layer's concern.
func (s *Service) DeleteReview(ctx context.Context, isbn, reviewID string) error {
	return s.reviews.DeleteByID(ctx, isbn, reviewID)
}
