package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/gestiondocente/internal/apperrors"
	"github.com/nkiryanov/gestiondocente/internal/backend"
	"github.com/nkiryanov/gestiondocente/internal/handlers/render"
	"github.com/nkiryanov/gestiondocente/internal/logger"
)

// Render failed backend call. Backend messages for rejected requests are passed to the user as is
func backendError(w http.ResponseWriter, err error, l logger.Logger) {
	var be *backend.Error
	message := ""
	if errors.As(err, &be) {
		message = be.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrCredentialsRejected):
		render.ServiceError(w, orDefault(message, "Unauthorized"), http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrForbidden):
		render.ServiceError(w, orDefault(message, "Forbidden"), http.StatusForbidden)
	case errors.Is(err, apperrors.ErrNotFound):
		render.ServiceError(w, orDefault(message, "Not found"), http.StatusNotFound)
	case errors.Is(err, apperrors.ErrBackendRejected):
		code := http.StatusUnprocessableEntity
		if be != nil && be.StatusCode >= 400 && be.StatusCode < 500 {
			code = be.StatusCode
		}
		render.ServiceError(w, orDefault(message, "Request rejected"), code)
	case errors.Is(err, apperrors.ErrBackendUnavailable):
		l.Warn("Backend unavailable", "error", err)
		render.ServiceError(w, "Backend unavailable", http.StatusBadGateway)
	default:
		l.Error("Unexpected backend error", "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func orDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}
