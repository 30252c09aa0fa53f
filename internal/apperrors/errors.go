package apperrors

import (
	"errors"
)

var (
	ErrAlreadyAuthenticated = errors.New("user already signed in")
	ErrSignInInProgress     = errors.New("sign in already in progress")
	ErrCredentialsRejected  = errors.New("credentials rejected")
	ErrRefreshTokenMissing  = errors.New("refresh token not available")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrBackendRejected    = errors.New("backend rejected request")
	ErrBackendUnavailable = errors.New("backend unavailable")

	ErrTokenStoreNotMigrated = errors.New("token store schema is not migrated")
)
