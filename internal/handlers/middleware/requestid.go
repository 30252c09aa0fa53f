package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/gestiondocente/internal/requestid"
)

// RequestIDMiddleware keeps inbound X-Request-ID or generates one.
// The id is echoed in response and forwarded to backend calls
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestid.Header, id)
		next.ServeHTTP(w, r.WithContext(requestid.New(r.Context(), id)))
	})
}
