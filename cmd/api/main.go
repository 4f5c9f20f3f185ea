package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"booksync/internal/book"
	"booksync/internal/httpx"
	"booksync/internal/platform/config"
	"booksync/internal/review"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("missing required environment variable: JWT_SECRET")
	}

	dbPool := mustOpenDB(cfg.DatabaseDSN)
	defer dbPool.Close()

	bookRepo := book.NewPostgresRepo(dbPool, dbTimeout)
	reviewRepo := review.NewPostgresRepo(dbPool, dbTimeout)
	reviewService := review.NewService(reviewRepo, bookRepo, review.NewVerifier())

	bookHandler := book.NewHTTPHandler(bookRepo)
	reviewHandler := review.NewHTTPHandler(reviewService)

	auth := httpx.AuthMiddleware(cfg.JWTSecret)
	moderatorOnly := func(next http.Handler) http.Handler {
		return auth(httpx.RequireRole("MODERATOR")(next))
	}

	router := http.NewServeMux()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := dbPool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /api/books", bookHandler.List)
	router.HandleFunc("GET /api/books/{isbn}", bookHandler.GetByISBN)

	router.Handle("GET /api/books/reviews/statistics", auth(http.HandlerFunc(reviewHandler.Statistics)))
	router.HandleFunc("GET /api/books/{isbn}/reviews", reviewHandler.ListByBook)
	router.Handle("POST /api/books/{isbn}/reviews", auth(http.HandlerFunc(reviewHandler.Create)))
	router.Handle("DELETE /api/books/{isbn}/reviews/{id}", moderatorOnly(http.HandlerFunc(reviewHandler.Delete)))

	handler := httpx.RequestIDMiddleware(
		httpx.AccessLogMiddleware(
			httpx.SecurityHeadersMiddleware(
				httpx.RequestSizeLimitMiddleware(1<<20)(router))))

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on %s", cfg.ServerAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database: %v", err)
	}
	log.Println("database connection OK")
	return pool
}
