package book

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, b *Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]Book, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Book), args.Error(1)
}

func getByISBNRequest(isbn string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/books/"+isbn, nil)
	r.SetPathValue("isbn", isbn)
	return r
}

func TestHTTPHandler_GetByISBN(t *testing.T) {
	const isbn = "9780596004651"

	t.Run("returns stored book", func(t *testing.T) {
		mRepo := new(mockRepo)
		h := NewHTTPHandler(mRepo)

		mRepo.On("GetByISBN", mock.Anything, isbn).
			Return(Book{ISBN: isbn, Title: "Head First Java"}, nil)

		rec := httptest.NewRecorder()
		h.GetByISBN(rec, getByISBNRequest(isbn))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data Book `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, isbn, resp.Data.ISBN)
		assert.Equal(t, "Head First Java", resp.Data.Title)
	})

	t.Run("returns 404 for unknown book", func(t *testing.T) {
		mRepo := new(mockRepo)
		h := NewHTTPHandler(mRepo)

		mRepo.On("GetByISBN", mock.Anything, isbn).Return(Book{}, ErrNotFound)

		rec := httptest.NewRecorder()
		h.GetByISBN(rec, getByISBNRequest(isbn))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects malformed isbn without hitting the store", func(t *testing.T) {
		mRepo := new(mockRepo)
		h := NewHTTPHandler(mRepo)

		rec := httptest.NewRecorder()
		h.GetByISBN(rec, getByISBNRequest("not-an-isbn"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mRepo.AssertNotCalled(t, "GetByISBN", mock.Anything, mock.Anything)
	})
}

func TestHTTPHandler_List(t *testing.T) {
	mRepo := new(mockRepo)
	h := NewHTTPHandler(mRepo)

	mRepo.On("List", mock.Anything, 20, 0).Return([]Book{{ISBN: "9780596004651"}}, nil)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/books", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "9780596004651")
}
