// Package storetest holds behaviour checks shared by every token store backend
package storetest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/gestiondocente/internal/models"
	"github.com/nkiryanov/gestiondocente/internal/tokenstore"
)

// Run checks store contract. newStore must return an empty store on each call
func Run(t *testing.T, newStore func(t *testing.T) tokenstore.Store) {
	t.Run("get missing returns empty", func(t *testing.T) {
		s := newStore(t)

		for _, kind := range tokenstore.Kinds {
			got, err := s.Get(t.Context(), kind)

			require.NoError(t, err, "missing token is not an error")
			require.Empty(t, got)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)

		err := s.Set(t.Context(), models.AccessToken, "access-1")
		require.NoError(t, err)
		err = s.Set(t.Context(), models.RefreshToken, "refresh-1")
		require.NoError(t, err)

		access, err := s.Get(t.Context(), models.AccessToken)
		require.NoError(t, err)
		refresh, err := s.Get(t.Context(), models.RefreshToken)
		require.NoError(t, err)

		require.Equal(t, "access-1", access)
		require.Equal(t, "refresh-1", refresh)
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Set(t.Context(), models.AccessToken, "old"))
		require.NoError(t, s.Set(t.Context(), models.AccessToken, "new"))

		got, err := s.Get(t.Context(), models.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "new", got)
	})

	t.Run("clear removes both", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(t.Context(), models.AccessToken, "access"))
		require.NoError(t, s.Set(t.Context(), models.RefreshToken, "refresh"))

		err := s.Clear(t.Context())
		require.NoError(t, err)

		for _, kind := range tokenstore.Kinds {
			got, err := s.Get(t.Context(), kind)
			require.NoError(t, err)
			require.Emptyf(t, got, "%s must be cleared", kind)
		}
	})

	t.Run("clear empty store ok", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Clear(t.Context()))
	})

	t.Run("token alphabet kept as is", func(t *testing.T) {
		s := newStore(t)
		value := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJqdWFuIn0.c2ln-_w+/=="

		require.NoError(t, s.Set(t.Context(), models.RefreshToken, value))

		got, err := s.Get(t.Context(), models.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, value, got)
	})
}
