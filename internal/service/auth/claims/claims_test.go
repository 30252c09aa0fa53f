package claims

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/gestiondocente/internal/models"
	"github.com/nkiryanov/gestiondocente/internal/testutil"
)

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

func TestClaims_Decode(t *testing.T) {
	t.Run("decode ok", func(t *testing.T) {
		exp := mustParseTime("2025-03-01 12:00:00Z")
		token := testutil.AccessToken(t, exp, nil)

		c, ok := Decode(token)

		require.True(t, ok)
		assert.Equal(t, "jperez", c.Subject)
		assert.Equal(t, "jperez", c.Username)
		assert.Equal(t, "Juan Perez", c.Name)
		assert.Equal(t, []string{"DOCENTE"}, c.Roles)
		assert.Equal(t, "7", c.TeacherID)
		require.NotNil(t, c.ExpiresAt)
		assert.True(t, exp.Equal(c.ExpiresAt.Time))
	})

	t.Run("roles as single string", func(t *testing.T) {
		token := testutil.AccessToken(t, time.Now().Add(time.Hour), jwt.MapClaims{"roles": "ADMINISTRATIVO"})

		c, ok := Decode(token)

		require.True(t, ok)
		assert.Equal(t, []string{"ADMINISTRATIVO"}, c.Roles)
	})

	t.Run("profile claims of unexpected type", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		token := testutil.AccessToken(t, exp, jwt.MapClaims{
			"idDocente": "DOC-7",
			"name":      42,
			"username":  []string{"jperez"},
			"roles":     map[string]any{"main": "DOCENTE"},
			"docente":   "Juan",
		})

		c, ok := Decode(token)

		require.True(t, ok, "profile claims must not make token unreadable")
		assert.Equal(t, "DOC-7", c.TeacherID)
		assert.Equal(t, "42", c.Name)
		assert.Empty(t, c.Username)
		assert.Nil(t, c.Roles)
		assert.Nil(t, c.Teacher)
		require.NotNil(t, c.ExpiresAt)
		assert.True(t, exp.Equal(c.ExpiresAt.Time))
		assert.False(t, IsExpired(token, 0, time.Now()))
		assert.Positive(t, TimeUntilExpiry(token, 10*time.Second, time.Now()))
	})

	t.Run("roles array with non string items", func(t *testing.T) {
		token := testutil.AccessToken(t, time.Now().Add(time.Hour), jwt.MapClaims{"roles": []any{1, "DOCENTE"}})

		c, ok := Decode(token)

		require.True(t, ok)
		assert.Equal(t, []string{"DOCENTE"}, c.Roles)
	})

	t.Run("malformed exp", func(t *testing.T) {
		token := testutil.AccessToken(t, time.Now().Add(time.Hour), jwt.MapClaims{"exp": "tomorrow"})

		c, ok := Decode(token)

		require.True(t, ok)
		assert.Nil(t, c.ExpiresAt)
		assert.True(t, IsExpired(token, 0, time.Now()), "token without readable expiry is expired")
	})

	t.Run("malformed never fails", func(t *testing.T) {
		notJSON := "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".sig"

		tests := []struct {
			name  string
			token string
		}{
			{"empty", ""},
			{"no separator", "abcdef"},
			{"two segments", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJqIn0"},
			{"payload not base64", "eyJhbGciOiJIUzI1NiJ9.%%%.sig"},
			{"payload not json", notJSON},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				c, ok := Decode(tt.token)

				require.False(t, ok)
				require.Equal(t, Claims{}, c, "claims must be empty on failure")
			})
		}
	})
}

func TestClaims_IsExpired(t *testing.T) {
	now := mustParseTime("2025-03-01 12:00:00Z")

	tests := []struct {
		name    string
		token   string
		leeway  time.Duration
		expired bool
	}{
		{"absent", "", 0, true},
		{"garbage", "garbage", 0, true},
		{"no exp claim", testutil.AccessToken(t, now.Add(time.Hour), jwt.MapClaims{"exp": nil}), 0, true},
		{"expired in past", testutil.AccessToken(t, now.Add(-time.Second), nil), 0, true},
		{"expires exactly now", testutil.AccessToken(t, now, nil), 0, true},
		{"valid without leeway", testutil.AccessToken(t, now.Add(time.Second), nil), 0, false},
		{"beyond leeway", testutil.AccessToken(t, now.Add(11*time.Second), nil), 10 * time.Second, false},
		{"exactly at exp minus leeway", testutil.AccessToken(t, now.Add(10*time.Second), nil), 10 * time.Second, true},
		{"within leeway", testutil.AccessToken(t, now.Add(5*time.Second), nil), 10 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsExpired(tt.token, tt.leeway, now)

			require.Equal(t, tt.expired, got)
		})
	}
}

func TestClaims_TimeUntilExpiry(t *testing.T) {
	now := mustParseTime("2025-03-01 12:00:00Z")

	tests := []struct {
		name     string
		token    string
		leeway   time.Duration
		expected time.Duration
	}{
		{"invalid", "garbage", 10 * time.Second, 0},
		{"expired", testutil.AccessToken(t, now.Add(-time.Minute), nil), 0, 0},
		{"within leeway", testutil.AccessToken(t, now.Add(5*time.Second), nil), 10 * time.Second, 0},
		{"leeway subtracted", testutil.AccessToken(t, now.Add(15*time.Minute), nil), 10 * time.Second, 15*time.Minute - 10*time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, TimeUntilExpiry(tt.token, tt.leeway, now))
		})
	}
}

func TestClaims_User(t *testing.T) {
	exp := time.Now().Add(time.Hour)

	t.Run("teacher", func(t *testing.T) {
		token := testutil.AccessToken(t, exp, jwt.MapClaims{"docente": map[string]any{"nombre": "Juan"}})
		c, ok := Decode(token)
		require.True(t, ok)

		u := c.User()

		require.Equal(t, "7", u.ID)
		require.NotNil(t, u.TeacherID)
		require.Equal(t, int64(7), *u.TeacherID)
		require.Equal(t, "jperez", u.Username)
		require.Equal(t, "Juan Perez", u.DisplayName)
		require.Equal(t, models.RoleTeacher, u.Role)
		require.JSONEq(t, `{"nombre":"Juan"}`, string(u.Teacher))
	})

	t.Run("missing fields fall back to subject", func(t *testing.T) {
		token := testutil.AccessToken(t, exp, jwt.MapClaims{
			"username":  nil,
			"idDocente": nil,
			"roles":     nil,
			"role":      "ADMINISTRATIVO",
			"sub":       "admin",
		})
		c, ok := Decode(token)
		require.True(t, ok)

		u := c.User()

		require.Equal(t, "admin", u.ID)
		require.Nil(t, u.TeacherID)
		require.Equal(t, "admin", u.Username)
		require.Equal(t, models.RoleAdmin, u.Role)
		require.Nil(t, u.Teacher)
	})

	t.Run("non numeric teacher id", func(t *testing.T) {
		token := testutil.AccessToken(t, exp, jwt.MapClaims{"idDocente": "DOC-7"})
		c, ok := Decode(token)
		require.True(t, ok)

		u := c.User()

		require.Equal(t, "DOC-7", u.ID)
		require.Nil(t, u.TeacherID, "only numeric ids identify teacher profile")
		require.Equal(t, models.RoleTeacher, u.Role)
	})

	t.Run("first role wins", func(t *testing.T) {
		token := testutil.AccessToken(t, exp, jwt.MapClaims{"roles": []string{"SECRETARIA", "DOCENTE"}})
		c, ok := Decode(token)
		require.True(t, ok)

		u := c.User()

		require.Equal(t, models.RoleOther, u.Role)
		require.Equal(t, "SECRETARIA", u.RawRole)
	})
}
