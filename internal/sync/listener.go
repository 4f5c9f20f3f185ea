package sync

import (
	"context"
	"errors"
	"fmt"
	"log"

	"booksync/internal/book"
)

// MetadataClient fetches book metadata for an ISBN from the external catalog.
type MetadataClient interface {
	FetchMetadataForBook(ctx context.Context, isbn string) (book.Book, error)
}

// Listener processes one synchronization request per invocation. It performs
// no internal retry; a returned error signals the transport to redeliver.
type Listener struct {
	books   book.Repository
	catalog MetadataClient
}

func NewListener(books book.Repository, catalog MetadataClient) *Listener {
	return &Listener{books: books, catalog: catalog}
}

// Consume runs validate -> idempotency check -> fetch -> persist for a single
// request.
//
// A malformed ISBN is discarded silently: redelivery cannot fix a structurally
// invalid key. An already synchronized ISBN is a deliberate no-op. A catalog
// failure propagates so the transport can redeliver or dead-letter. A
// uniqueness violation on insert means a concurrent consumer won the race and
// counts as success.
func (l *Listener) Consume(ctx context.Context, req SyncRequest) error {
	if !book.ValidISBN(req.ISBN) {
		log.Printf("discarding sync request with malformed isbn %q", req.ISBN)
		return nil
	}

	if _, err := l.books.GetByISBN(ctx, req.ISBN); err == nil {
		return nil
	} else if !errors.Is(err, book.ErrNotFound) {
		return fmt.Errorf("lookup book %s: %w", req.ISBN, err)
	}

	fetched, err := l.catalog.FetchMetadataForBook(ctx, req.ISBN)
	if err != nil {
		return fmt.Errorf("fetch metadata for %s: %w", req.ISBN, err)
	}
	fetched.ISBN = req.ISBN

	if err := l.books.Create(ctx, &fetched); err != nil {
		if errors.Is(err, book.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("persist book %s: %w", req.ISBN, err)
	}

	log.Printf("synchronized book %s (%s)", req.ISBN, fetched.Title)
	return nil
}
