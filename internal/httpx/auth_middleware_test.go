package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	. "booksync/internal/httpx"
	"booksync/internal/testutil"
)

const testSecret = "test-secret"

func TestAuthMiddleware(t *testing.T) {
	var sawUsername, sawEmail, sawRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawUsername = UsernameFrom(r)
		sawEmail = EmailFrom(r)
		sawRole = RoleFrom(r)
		w.WriteHeader(http.StatusOK)
	})
	protected := AuthMiddleware(testSecret)(next)

	t.Run("rejects request without bearer token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer not-a-jwt")

		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("puts claims into the request context", func(t *testing.T) {
		token := testutil.GenerateTestToken(testSecret, "user-1", "duke", "duke@spring.io", "USER")
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "duke", sawUsername)
		assert.Equal(t, "duke@spring.io", sawEmail)
		assert.Equal(t, "USER", sawRole)
	})
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := AuthMiddleware(testSecret)(RequireRole("MODERATOR")(next))

	t.Run("forbids non-moderators", func(t *testing.T) {
		token := testutil.GenerateTestToken(testSecret, "user-1", "duke", "duke@spring.io", "USER")
		r := httptest.NewRequest(http.MethodDelete, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("allows moderators", func(t *testing.T) {
		token := testutil.GenerateTestToken(testSecret, "mod-1", "mike", "mike@spring.io", "MODERATOR")
		r := httptest.NewRequest(http.MethodDelete, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
