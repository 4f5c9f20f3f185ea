package book

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
	SELECT id, isbn, title, author, description, genre, publisher, page_count, thumbnail_url, created_at
	FROM books
	WHERE isbn = $1
	`
	var b Book
	err := r.db.QueryRow(ctx, query, isbn).Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Description,
		&b.Genre, &b.Publisher, &b.PageCount, &b.ThumbnailURL, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
	INSERT INTO books (isbn, title, author, description, genre, publisher, page_count, thumbnail_url, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		b.ISBN, b.Title, b.Author, b.Description,
		b.Genre, b.Publisher, b.PageCount, b.ThumbnailURL,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		// The unique index on isbn is the final arbiter under concurrent
		// synchronization of the same ISBN.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
	SELECT id, isbn, title, author, description, genre, publisher, page_count, thumbnail_url, created_at
	FROM books
	ORDER BY title
	LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Description,
			&b.Genre, &b.Publisher, &b.PageCount, &b.ThumbnailURL, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}
