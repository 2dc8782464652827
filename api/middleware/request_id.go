package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/assetnest/assetnest-backend/pkg/logger"
)

const headerRequestID = "X-Request-Id"

// RequestID carries the caller's X-Request-Id through the request, minting a
// fresh UUID when the header is absent. The id is echoed on the response and
// attached to the request-scoped logger so every log line can be correlated.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(headerRequestID, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
