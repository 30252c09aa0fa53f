package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nkiryanov/gestiondocente/internal/apperrors"
	"github.com/nkiryanov/gestiondocente/internal/models"
)

// Auth endpoints answer either {"data": {...pair}} or the bare pair
type tokenResponse struct {
	Data *models.TokenPair `json:"data"`
	models.TokenPair
}

func (r tokenResponse) pair() (models.TokenPair, error) {
	pair := r.TokenPair
	if r.Data != nil && r.Data.Access != "" {
		pair = *r.Data
	}
	if pair.Access == "" {
		return models.TokenPair{}, errors.New("backend response has no access token")
	}
	return pair, nil
}

// Login exchanges credentials for a token pair.
// Rejected credentials give *Error wrapping apperrors.ErrCredentialsRejected
func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	var resp tokenResponse

	err := c.do(ctx, http.MethodPost, PathLogin, nil, creds, &resp)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusBadRequest) {
			e.Err = apperrors.ErrCredentialsRejected
		}
		return models.TokenPair{}, err
	}

	return resp.pair()
}

// Refresh exchanges refresh token for a new pair
func (c *Client) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	var resp tokenResponse

	body := map[string]string{"refreshToken": refreshToken}
	if err := c.do(ctx, http.MethodPost, PathRefresh, nil, body, &resp); err != nil {
		return models.TokenPair{}, fmt.Errorf("refresh failed: %w", err)
	}

	return resp.pair()
}
