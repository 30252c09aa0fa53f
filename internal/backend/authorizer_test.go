package backend

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/gestiondocente/internal/models"
	"github.com/nkiryanov/gestiondocente/internal/requestid"
	"github.com/nkiryanov/gestiondocente/internal/tokenstore"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestAuthorizer_RoundTrip(t *testing.T) {
	// Send request through authorizer and return request seen by the next transport
	send := func(t *testing.T, access string, req *http.Request) *http.Request {
		t.Helper()

		store := tokenstore.NewMemoryStore()
		if access != "" {
			require.NoError(t, store.Set(t.Context(), models.AccessToken, access))
		}

		var seen *http.Request
		a := NewAuthorizer(store, roundTripFunc(func(r *http.Request) (*http.Response, error) {
			seen = r
			return httptest.NewRecorder().Result(), nil
		}))

		_, err := a.RoundTrip(req)
		require.NoError(t, err)
		require.NotNil(t, seen)
		return seen
	}

	newRequest := func(t *testing.T, target string) *http.Request {
		req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, target, nil)
		require.NoError(t, err)
		return req
	}

	t.Run("attaches bearer token", func(t *testing.T) {
		req := newRequest(t, "http://backend/api/cursos")

		seen := send(t, "access-1", req)

		require.Equal(t, "Bearer access-1", seen.Header.Get("Authorization"))
		require.Empty(t, req.Header.Get("Authorization"), "caller request must stay untouched")
	})

	t.Run("auth endpoints excluded", func(t *testing.T) {
		tests := []struct {
			name   string
			target string
		}{
			{"login", "http://backend/public/auth/login"},
			{"refresh", "http://backend/public/auth/refresh"},
			{"login behind prefix", "http://backend/v1/public/auth/login"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				seen := send(t, "access-1", newRequest(t, tt.target))

				require.Empty(t, seen.Header.Get("Authorization"))
			})
		}
	})

	t.Run("no token stored", func(t *testing.T) {
		seen := send(t, "", newRequest(t, "http://backend/api/cursos"))

		require.Empty(t, seen.Header.Get("Authorization"))
	})

	t.Run("existing header wins", func(t *testing.T) {
		req := newRequest(t, "http://backend/api/cursos")
		req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")

		seen := send(t, "access-1", req)

		require.Equal(t, "Basic Zm9vOmJhcg==", seen.Header.Get("Authorization"))
	})

	t.Run("request id", func(t *testing.T) {
		req := newRequest(t, "http://backend/api/cursos")

		seen := send(t, "", req)

		_, err := uuid.Parse(seen.Header.Get(HeaderRequestID))
		require.NoError(t, err, "request id must be uuid")
		require.Empty(t, req.Header.Get(HeaderRequestID))

		req.Header.Set(HeaderRequestID, "caller-id")
		seen = send(t, "", req)
		require.Equal(t, "caller-id", seen.Header.Get(HeaderRequestID))
	})

	t.Run("inbound request id forwarded", func(t *testing.T) {
		ctx := requestid.New(t.Context(), "inbound-id")
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://backend/api/cursos", nil)
		require.NoError(t, err)

		seen := send(t, "", req)

		require.Equal(t, "inbound-id", seen.Header.Get(HeaderRequestID))
	})
}
