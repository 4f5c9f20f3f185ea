package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"booksync/internal/book"
)

const validISBN = "9780596004651"

type mockBookRepo struct {
	mock.Mock
}

func (m *mockBookRepo) GetByISBN(ctx context.Context, isbn string) (book.Book, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(book.Book), args.Error(1)
}

func (m *mockBookRepo) Create(ctx context.Context, b *book.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBookRepo) List(ctx context.Context, limit, offset int) ([]book.Book, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]book.Book), args.Error(1)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) FetchMetadataForBook(ctx context.Context, isbn string) (book.Book, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(book.Book), args.Error(1)
}

func TestListener_Consume(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed isbn is discarded without side effects", func(t *testing.T) {
		mRepo := new(mockBookRepo)
		mCatalog := new(mockCatalog)
		l := NewListener(mRepo, mCatalog)

		err := l.Consume(ctx, SyncRequest{ISBN: "42"})

		assert.NoError(t, err)
		mRepo.AssertNotCalled(t, "GetByISBN", mock.Anything, mock.Anything)
		mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mCatalog.AssertNotCalled(t, "FetchMetadataForBook", mock.Anything, mock.Anything)
	})

	t.Run("already synchronized book is not overridden", func(t *testing.T) {
		mRepo := new(mockBookRepo)
		mCatalog := new(mockCatalog)
		l := NewListener(mRepo, mCatalog)

		mRepo.On("GetByISBN", ctx, validISBN).Return(book.Book{ISBN: validISBN}, nil)

		err := l.Consume(ctx, SyncRequest{ISBN: validISBN})

		assert.NoError(t, err)
		mCatalog.AssertNotCalled(t, "FetchMetadataForBook", mock.Anything, mock.Anything)
		mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("catalog failure propagates for redelivery", func(t *testing.T) {
		mRepo := new(mockBookRepo)
		mCatalog := new(mockCatalog)
		l := NewListener(mRepo, mCatalog)

		mRepo.On("GetByISBN", ctx, validISBN).Return(book.Book{}, book.ErrNotFound)
		fetchErr := errors.New("network timeout")
		mCatalog.On("FetchMetadataForBook", ctx, validISBN).Return(book.Book{}, fetchErr)

		err := l.Consume(ctx, SyncRequest{ISBN: validISBN})

		assert.Error(t, err)
		assert.ErrorIs(t, err, fetchErr)
		mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure propagates for redelivery", func(t *testing.T) {
		mRepo := new(mockBookRepo)
		mCatalog := new(mockCatalog)
		l := NewListener(mRepo, mCatalog)

		dbErr := errors.New("connection refused")
		mRepo.On("GetByISBN", ctx, validISBN).Return(book.Book{}, dbErr)

		err := l.Consume(ctx, SyncRequest{ISBN: validISBN})

		assert.ErrorIs(t, err, dbErr)
		mCatalog.AssertNotCalled(t, "FetchMetadataForBook", mock.Anything, mock.Anything)
	})

	t.Run("new valid isbn is fetched and persisted", func(t *testing.T) {
		mRepo := new(mockBookRepo)
		mCatalog := new(mockCatalog)
		l := NewListener(mRepo, mCatalog)

		mRepo.On("GetByISBN", ctx, validISBN).Return(book.Book{}, book.ErrNotFound)
		mCatalog.On("FetchMetadataForBook", ctx, validISBN).
			Return(book.Book{ISBN: validISBN, Title: "Java Book"}, nil)
		mRepo.On("Create", ctx, mock.MatchedBy(func(b *book.Book) bool {
			return b.ISBN == validISBN && b.Title == "Java Book"
		})).Return(nil)

		err := l.Consume(ctx, SyncRequest{ISBN: validISBN})

		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("insert race with concurrent consumer counts as success", func(t *testing.T) {
		mRepo := new(mockBookRepo)
		mCatalog := new(mockCatalog)
		l := NewListener(mRepo, mCatalog)

		mRepo.On("GetByISBN", ctx, validISBN).Return(book.Book{}, book.ErrNotFound)
		mCatalog.On("FetchMetadataForBook", ctx, validISBN).
			Return(book.Book{ISBN: validISBN, Title: "Java Book"}, nil)
		mRepo.On("Create", ctx, mock.Anything).Return(book.ErrAlreadyExists)

		err := l.Consume(ctx, SyncRequest{ISBN: validISBN})

		assert.NoError(t, err)
	})

	t.Run("persist failure propagates", func(t *testing.T) {
		mRepo := new(mockBookRepo)
		mCatalog := new(mockCatalog)
		l := NewListener(mRepo, mCatalog)

		mRepo.On("GetByISBN", ctx, validISBN).Return(book.Book{}, book.ErrNotFound)
		mCatalog.On("FetchMetadataForBook", ctx, validISBN).
			Return(book.Book{ISBN: validISBN}, nil)
		insertErr := errors.New("disk full")
		mRepo.On("Create", ctx, mock.Anything).Return(insertErr)

		err := l.Consume(ctx, SyncRequest{ISBN: validISBN})

		assert.ErrorIs(t, err, insertErr)
	})
}
