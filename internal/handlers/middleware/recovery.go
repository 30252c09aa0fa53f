package middleware

import (
	"net/http"

	"github.com/nkiryanov/gestiondocente/internal/handlers/render"
	"github.com/nkiryanov/gestiondocente/internal/requestid"
)

func RecoveryMiddleware(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					l.Error("panic recovered", "error", rec, "request_id", requestid.FromContext(r.Context()))
					render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
