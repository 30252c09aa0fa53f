// Package tokenstore keeps the access and refresh token strings of the running gateway.
//
// Stores are plain durable string key-value surfaces: they know nothing about
// expiry or token structure. Keys are the literal names "accessToken" and
// "refreshToken" in every backend.
package tokenstore

import (
	"context"

	"github.com/nkiryanov/gestiondocente/internal/models"
)

// Store persists token strings by kind
type Store interface {
	// Persist value under the kind key, overwriting any previous value
	Set(ctx context.Context, kind models.TokenKind, value string) error

	// Return stored value or empty string if nothing is stored
	Get(ctx context.Context, kind models.TokenKind) (string, error)

	// Remove both access and refresh entries
	Clear(ctx context.Context) error
}

// Kinds lists every kind a store holds
var Kinds = []models.TokenKind{models.AccessToken, models.RefreshToken}
