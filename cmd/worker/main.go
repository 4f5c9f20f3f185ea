// The worker consumes book synchronization requests from a Redis Stream and
// runs the enrich-and-persist pipeline for each ISBN.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booksync/internal/book"
	"booksync/internal/platform/config"
	"booksync/internal/platform/openlibrary"
	syncpkg "booksync/internal/sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const dbTimeout = 3 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool := mustOpenDB(ctx, cfg.DatabaseDSN)
	defer dbPool.Close()

	redisClient := mustOpenRedis(ctx, cfg.RedisURL)
	defer redisClient.Close()

	bookRepo := book.NewPostgresRepo(dbPool, dbTimeout)
	catalogClient := openlibrary.NewClient(cfg.CatalogBaseURL, cfg.CatalogUserAgent, cfg.CatalogRPS)
	listener := syncpkg.NewListener(bookRepo, catalogClient)

	hostname, _ := os.Hostname()
	consumer := syncpkg.NewConsumer(redisClient, listener, syncpkg.ConsumerConfig{
		Stream:        cfg.SyncStream,
		Group:         cfg.SyncGroup,
		Consumer:      hostname,
		MaxDeliveries: cfg.SyncMaxDeliveries,
	})

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("consumer error: %v", err)
	}
	log.Println("worker stopped")
}

func mustOpenDB(ctx context.Context, dsn string) *pgxpool.Pool {
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

func mustOpenRedis(ctx context.Context, redisURL string) *redis.Client {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("invalid redis url: %v", err)
	}
	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("cannot ping redis: %v", err)
	}
	log.Println("redis connection OK")
	return client
}
