package middleware

import "net/http"

// Vary adds Accept to the Vary header on every response. The API
// serves JSON or CBOR depending on content negotiation, so caches must
// key on Accept (RFC 9110 section 12.5.5). The CORS middleware adds
// Origin to Vary on its own.
func Vary() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept")
			next.ServeHTTP(w, r)
		})
	}
}
