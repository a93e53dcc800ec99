package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/helixir/publication-metadata-service/internal/observability"
)

// requestIDMiddleware ensures every request carries a request ID, echoing
// it back in the X-Request-ID response header.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}
		if requestID == "" {
			requestID = observability.NewRequestID()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := observability.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
