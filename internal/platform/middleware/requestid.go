package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// maxRequestIDLength caps client-supplied ids so a hostile header
// cannot bloat every log line of the request.
const maxRequestIDLength = 128

// isValidRequestID accepts only non-empty printable ASCII up to the
// length cap. Anything else could smuggle control characters into the
// structured logs that carry the id on every entry.
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxRequestIDLength {
		return false
	}
	for i := range len(id) {
		if c := id[i]; c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

// RequestID assigns each request a correlation id, stored under chi's
// request id key and echoed in the X-Request-Id response header. A
// valid incoming X-Request-Id is kept so mobile clients can correlate
// retries; invalid ones are replaced with a fresh UUIDv4.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(middleware.RequestIDHeader)
			if !isValidRequestID(reqID) {
				reqID = uuid.NewString()
			}

			r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, reqID))
			w.Header().Set(middleware.RequestIDHeader, reqID)
			next.ServeHTTP(w, r)
		})
	}
}
