// Package request provides middleware assigning each request a correlation ID.
package request

import (
	"net/http"

	"github.com/google/uuid"

	"awardsreport/pkg/requestcontext"
)

const headerRequestID = "X-Request-ID"

// ID attaches a request ID to the context and response headers. Incoming
// X-Request-ID values are trusted so upstream proxies can correlate logs.
func ID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
