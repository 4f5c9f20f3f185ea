package review

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Save(ctx context.Context, rev *Review) (string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
	INSERT INTO reviews (book_isbn, reviewer_name, reviewer_email, title, content, rating, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
	`
	var id string
	err := r.db.QueryRow(ctx, query,
		rev.BookISBN, rev.ReviewerName, rev.ReviewerEmail,
		rev.Title, rev.Content, rev.Rating, rev.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	rev.ID = id
	return id, nil
}

func (r *PostgresRepo) ListByISBN(ctx context.Context, isbn string) ([]Review, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
	SELECT id, book_isbn, reviewer_name, reviewer_email, title, content, rating, created_at
	FROM reviews
	WHERE book_isbn = $1
	ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, isbn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(
			&rev.ID, &rev.BookISBN, &rev.ReviewerName, &rev.ReviewerEmail,
			&rev.Title, &rev.Content, &rev.Rating, &rev.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Statistics computes count and mean rating per reviewed book in one pass.
// Books without reviews are omitted by construction. The average keeps full
// float precision; rounding is left to presentation.
func (r *PostgresRepo) Statistics(ctx context.Context) ([]Statistic, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
	SELECT book_isbn, COUNT(*), AVG(rating)::FLOAT
	FROM reviews
	GROUP BY book_isbn
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Statistic
	for rows.Next() {
		var s Statistic
		if err := rows.Scan(&s.ISBN, &s.Ratings, &s.Avg); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *PostgresRepo) DeleteByID(ctx context.Context, isbn, reviewID string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `DELETE FROM reviews WHERE id = $1 AND book_isbn = $2`
	_, err := r.db.Exec(ctx, query, reviewID, isbn)
	return err
}
