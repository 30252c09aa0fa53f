package backend

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nkiryanov/gestiondocente/internal/models"
	"github.com/nkiryanov/gestiondocente/internal/requestid"
	"github.com/nkiryanov/gestiondocente/internal/tokenstore"
)

const (
	PathLogin   = "/public/auth/login"
	PathRefresh = "/public/auth/refresh"

	HeaderRequestID = requestid.Header
)

// Authorizer attaches stored access token to outbound requests
type Authorizer struct {
	store tokenstore.Store
	next  http.RoundTripper
}

var _ http.RoundTripper = (*Authorizer)(nil)

func NewAuthorizer(store tokenstore.Store, next http.RoundTripper) *Authorizer {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Authorizer{store: store, next: next}
}

// RoundTrip sends request with 'Authorization: Bearer <access>' unless
// the request targets login or refresh endpoints, already has Authorization
// header or no access token is stored. Inbound request id is forwarded, new one generated otherwise.
// Caller's request is never modified
func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	var clone *http.Request
	cloneOnce := func() *http.Request {
		if clone == nil {
			clone = req.Clone(req.Context())
		}
		return clone
	}

	if req.Header.Get(HeaderRequestID) == "" {
		id := requestid.FromContext(req.Context())
		if id == "" {
			id = uuid.NewString()
		}
		cloneOnce().Header.Set(HeaderRequestID, id)
	}

	if a.shouldAuthorize(req) {
		access, err := a.store.Get(req.Context(), models.AccessToken)
		if err == nil && access != "" {
			cloneOnce().Header.Set("Authorization", "Bearer "+access)
		}
	}

	if clone != nil {
		return a.next.RoundTrip(clone)
	}
	return a.next.RoundTrip(req)
}

func (a *Authorizer) shouldAuthorize(req *http.Request) bool {
	path := req.URL.Path
	if strings.HasSuffix(path, PathLogin) || strings.HasSuffix(path, PathRefresh) {
		return false
	}
	return req.Header.Get("Authorization") == ""
}
