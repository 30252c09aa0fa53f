package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/gestiondocente/internal/apperrors"
	"github.com/nkiryanov/gestiondocente/internal/models"
	"github.com/nkiryanov/gestiondocente/internal/tokenstore"
)

// Common interface of pgxpool.Pool, pgx.Conn and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Token store on top of 'client_tokens' table
type Store struct {
	DB DBTX
}

var _ tokenstore.Store = (*Store)(nil)

func NewStore(db DBTX) *Store {
	return &Store{DB: db}
}

const setToken = `-- name: SetToken
INSERT INTO client_tokens (kind, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (kind) DO UPDATE
SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`

func (s *Store) Set(ctx context.Context, kind models.TokenKind, value string) error {
	_, err := s.DB.Exec(ctx, setToken, string(kind), value)
	if err != nil {
		return dbError(err)
	}
	return nil
}

const getToken = `-- name: GetToken
SELECT value
FROM client_tokens
WHERE kind = $1
`

func (s *Store) Get(ctx context.Context, kind models.TokenKind) (string, error) {
	rows, _ := s.DB.Query(ctx, getToken, string(kind))
	value, err := pgx.CollectOneRow(rows, pgx.RowTo[string])

	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, pgx.ErrNoRows):
		return "", nil
	default:
		return "", dbError(err)
	}
}

const clearTokens = `-- name: ClearTokens
DELETE FROM client_tokens
WHERE kind = ANY($1)
`

func (s *Store) Clear(ctx context.Context) error {
	kinds := make([]string, 0, len(tokenstore.Kinds))
	for _, kind := range tokenstore.Kinds {
		kinds = append(kinds, string(kind))
	}

	_, err := s.DB.Exec(ctx, clearTokens, kinds)
	if err != nil {
		return dbError(err)
	}
	return nil
}

func dbError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("db error: %w", apperrors.ErrTokenStoreNotMigrated)
	}
	return fmt.Errorf("db error: %w", err)
}
