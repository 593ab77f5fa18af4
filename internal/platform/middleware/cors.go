package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS applies permissive cross-origin defaults for the API. Clients
// need to read the pagination Link header, the Location header on
// account creation, and the request id for support correlation, so all
// three are exposed. traceparent and X-Request-Id are allowed inbound
// for distributed trace propagation.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
			"X-Request-Id",
			"traceparent",
		},
		ExposedHeaders: []string{"Link", "Location", "X-Request-Id"},
		MaxAge:         300,
	})
}
