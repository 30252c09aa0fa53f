package middleware

import (
	"context"
	"net/http"

	"github.com/nkiryanov/gestiondocente/internal/handlers/render"
	"github.com/nkiryanov/gestiondocente/internal/models"
)

type userSource interface {
	User(ctx context.Context) (models.User, bool)
}

type userKey struct{}

// UserFromContext returns user put by UserMiddleware
func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey{}).(models.User)
	return u, ok
}

// UserMiddleware puts session user into request context.
// Responds 401 if there is no user, so handlers may rely on UserFromContext
func UserMiddleware(us userSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := us.User(r.Context())
			if !ok {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
