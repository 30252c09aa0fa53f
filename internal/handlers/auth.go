package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/nkiryanov/gestiondocente/internal/apperrors"
	"github.com/nkiryanov/gestiondocente/internal/handlers/middleware"
	"github.com/nkiryanov/gestiondocente/internal/handlers/render"
	"github.com/nkiryanov/gestiondocente/internal/logger"
	"github.com/nkiryanov/gestiondocente/internal/models"
)

type sessionService interface {
	// Has to return apperrors.ErrAlreadyAuthenticated if already signed in
	SignIn(ctx context.Context, creds models.Credentials) (models.TokenPair, error)

	// Always succeeds
	SignOut(ctx context.Context)

	Check(ctx context.Context) bool
	User(ctx context.Context) (models.User, bool)
}

type AuthHandler struct {
	session sessionService
	logger  logger.Logger
}

func NewAuth(session sessionService, l logger.Logger) *AuthHandler {
	return &AuthHandler{session: session, logger: l}
}

type LoginView struct {
	View   string   `json:"view"`
	Fields []string `json:"fields"`
}

type LoginResponse struct {
	Message  string      `json:"message"`
	Redirect string      `json:"redirect"`
	User     models.User `json:"user"`
}

// Login view. Reachable only while signed out
func (h *AuthHandler) loginView(w http.ResponseWriter, _ *http.Request) {
	render.JSON(w, LoginView{View: "login", Fields: []string{"username", "password"}})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	_, err = h.session.SignIn(r.Context(), models.Credentials{Username: data.Username, Password: data.Password})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyAuthenticated):
			render.ServiceError(w, "User already signed in", http.StatusConflict)
		case errors.Is(err, apperrors.ErrSignInInProgress):
			render.ServiceError(w, "Sign in already in progress", http.StatusConflict)
		case errors.Is(err, apperrors.ErrCredentialsRejected):
			h.logger.Info("Sign in rejected", "username", data.Username)
			render.ServiceError(w, "Invalid username or password", http.StatusUnauthorized)
		default:
			backendError(w, err, h.logger)
		}
		return
	}

	user, _ := h.session.User(r.Context())
	render.JSON(w, LoginResponse{
		Message:  "User signed in successfully",
		Redirect: middleware.LandingPath(user),
		User:     user,
	})
}

// Sign out and go back to login view
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.session.SignOut(r.Context())
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}
