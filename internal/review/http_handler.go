package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"booksync/internal/httpx"
)

// ReviewService is the surface of the service the handler needs, kept as an
// interface so tests can substitute a double.
type ReviewService interface {
	CreateBookReview(ctx context.Context, isbn string, req Request, username, email string) (string, error)
	GetReviewStatistics(ctx context.Context) ([]Statistic, error)
	ListReviews(ctx context.Context, isbn string) ([]Review, error)
	DeleteReview(ctx context.Context, isbn, reviewID string) error
}

type HTTPHandler struct {
	service ReviewService
}

func NewHTTPHandler(service ReviewService) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Create handles POST /api/books/{isbn}/reviews
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")

	username := httpx.UsernameFrom(r)
	email := httpx.EmailFrom(r)
	if username == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body Request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if body.Rating < MinRating || body.Rating > MaxRating {
		httpx.JSONError(w, http.StatusBadRequest, "INVALID_RATING",
			fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating), nil)
		return
	}

	id, err := h.service.CreateBookReview(r.Context(), isbn, body, username, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownBook):
			httpx.JSONError(w, http.StatusNotFound, "UNKNOWN_BOOK", "Book not found", nil)
		case errors.Is(err, ErrBadQuality):
			httpx.JSONError(w, http.StatusBadRequest, "BAD_REVIEW_QUALITY", "Review does not meet quality standards", nil)
		case errors.Is(err, ErrInvalidRating):
			httpx.JSONError(w, http.StatusBadRequest, "INVALID_RATING", "Rating out of range", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/books/%s/reviews/%s", isbn, id))
	httpx.JSONSuccessCreated(w, map[string]string{"id": id})
}

// ListByBook handles GET /api/books/{isbn}/reviews
func (h *HTTPHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")

	reviews, err := h.service.ListReviews(r.Context(), isbn)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if reviews == nil {
		reviews = []Review{}
	}
	httpx.JSONSuccess(w, reviews, nil)
}

// Statistics handles GET /api/books/reviews/statistics
func (h *HTTPHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetReviewStatistics(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if stats == nil {
		stats = []Statistic{}
	}
	httpx.JSONSuccess(w, stats, nil)
}

// Delete handles DELETE /api/books/{isbn}/reviews/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	reviewID := r.PathValue("id")

	if err := h.service.DeleteReview(r.Context(), isbn, reviewID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
