package httpx

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDMiddleware tags every request with an ID for log correlation.
// An inbound X-Request-Id is trusted and propagated; otherwise one is
// generated. The ID is echoed on the response and stored in the context.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id)))
	})
}
