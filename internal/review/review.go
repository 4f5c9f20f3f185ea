package review

import (
	"errors"
	"time"
)

// Distinct failure kinds so callers can branch on cause.
var (
	// ErrUnknownBook is returned when a review targets an ISBN that is not
	// in the store.
	ErrUnknownBook = errors.New("unknown book")
	// ErrBadQuality is returned when review content fails the quality gate.
	ErrBadQuality = errors.New("review does not meet quality standards")
	// ErrInvalidRating is returned when the rating is outside the allowed
	// range.
	ErrInvalidRating = errors.New("rating out of range")
)

// Rating bounds for a review.
const (
	MinRating = 0
	MaxRating = 5
)

// Review is a stored book review. Reviews are immutable once stored except
// for moderated deletion.
type Review struct {
	ID            string    `json:"id"`
	BookISBN      string    `json:"isbn"`
	ReviewerName  string    `json:"reviewer_name"`
	ReviewerEmail string    `json:"-"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Rating        int       `json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
}

// Statistic is the derived per-book aggregate, computed on demand and never
// cached.
type Statistic struct {
	ISBN    string  `json:"isbn"`
	Ratings int     `json:"ratings"`
	Avg     float64 `json:"avg"`
}
