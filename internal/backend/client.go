// Package backend is the typed client of the academic management REST API.
//
// Every outbound request passes through the Authorizer, so callers never deal
// with tokens: the access token kept in the token store is attached on the way out.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/gestiondocente/internal/apperrors"
	"github.com/nkiryanov/gestiondocente/internal/logger"
	"github.com/nkiryanov/gestiondocente/internal/metrics"
	"github.com/nkiryanov/gestiondocente/internal/tokenstore"
)

const defaultTimeout = 10 * time.Second

func init() {
	// Backend exchanges grades as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Error returned for every failed backend call
type Error struct {
	// Zero when no response was received
	StatusCode int

	// Message reported by backend or status text
	Message string

	// One of apperrors sentinels
	Err error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("backend: %v: %s", e.Err, e.Message)
	}
	return fmt.Sprintf("backend: status %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config with sensible defaults
type Config struct {
	// Backend base URL, like "http://localhost:8080"
	// Required to be set
	BaseURL string

	// Deadline of every single request
	// If not set than default is used
	Timeout time.Duration

	// Transport under the authorizer. http.DefaultTransport if not set
	Transport http.RoundTripper

	// If not set than no-op logger is used
	Logger logger.Logger
}

type Client struct {
	baseURL string
	timeout time.Duration

	client *http.Client
	logger logger.Logger
}

// NewClient creates client that authorizes requests with access token kept in store
func NewClient(cfg Config, store tokenstore.Store) (*Client, error) {
	if store == nil {
		return nil, errors.New("token store must not be nil")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.BaseURL)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoOpLogger()
	}

	transport := promhttp.InstrumentRoundTripperDuration(
		metrics.BackendRequestDuration,
		NewAuthorizer(store, cfg.Transport),
	)

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		timeout: cfg.Timeout,
		client:  &http.Client{Transport: transport},
		logger:  cfg.Logger,
	}, nil
}

// Send request with optional JSON body and decode JSON response into out (if not nil)
func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed", "method", method, "path", path, "error", err)
		return &Error{Message: err.Error(), Err: apperrors.ErrBackendUnavailable}
	}
	defer resp.Body.Close() // nolint:errcheck

	c.logger.Debug("Backend response", "method", method, "path", path, "status_code", resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		c.logger.Warn("Failed to decode backend response", "path", path, "error", err)
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, path, query, nil, &out)
	return out, err
}

// Backend error bodies look like {"message": "..."} or {"error": "..."}
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func responseError(resp *http.Response) *Error {
	e := &Error{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		Err:        statusError(resp.StatusCode),
	}

	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		switch {
		case body.Message != "":
			e.Message = body.Message
		case body.Error != "":
			e.Message = body.Error
		}
	}
	return e
}

func statusError(code int) error {
	switch {
	case code == http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case code == http.StatusForbidden:
		return apperrors.ErrForbidden
	case code == http.StatusNotFound:
		return apperrors.ErrNotFound
	case code >= http.StatusInternalServerError:
		return apperrors.ErrBackendUnavailable
	default:
		return apperrors.ErrBackendRejected
	}
}
