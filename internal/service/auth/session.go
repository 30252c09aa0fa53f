// Package auth keeps the operator session of the gateway.
//
// Session owns the token pair: it signs in against the backend, keeps tokens in
// the token store, refreshes the access token shortly before it expires and
// clears everything on sign out. Exactly one Session exists per process and it
// is passed explicitly to everything that needs it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nkiryanov/gestiondocente/internal/apperrors"
	"github.com/nkiryanov/gestiondocente/internal/logger"
	"github.com/nkiryanov/gestiondocente/internal/metrics"
	"github.com/nkiryanov/gestiondocente/internal/models"
	"github.com/nkiryanov/gestiondocente/internal/service/auth/claims"
	"github.com/nkiryanov/gestiondocente/internal/tokenstore"
)

const (
	defaultRefreshLeeway  = 10 * time.Second
	defaultRefreshTimeout = 30 * time.Second
)

// Backend authentication endpoints
type API interface {
	// Exchange credentials for a fresh token pair
	Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error)

	// Exchange refresh token for a new pair. Refresh tokens rotate: the old one is unusable afterwards
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
}

// Session with sensible defaults
type Config struct {
	// Access token is refreshed this long before it expires
	// If not set than default is used
	RefreshLeeway time.Duration

	// Deadline for refreshes started by the background task
	// If not set than default is used
	RefreshTimeout time.Duration

	// Clock and scheduler. Real ones are used if not set
	Now       func() time.Time
	AfterFunc AfterFunc

	// If not set than no-op logger is used
	Logger logger.Logger
}

type Session struct {
	store tokenstore.Store
	api   API

	leeway         time.Duration
	refreshTimeout time.Duration
	now            func() time.Time
	afterFunc      AfterFunc
	logger         logger.Logger

	mu            sync.Mutex
	authenticated bool
	signingIn     bool
	task          *RefreshTask

	// Concurrent refreshes share one backend call
	refreshGroup singleflight.Group
}

func NewSession(cfg Config, store tokenstore.Store, api API) (*Session, error) {
	if store == nil || api == nil {
		return nil, errors.New("store and api must not be nil")
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.RefreshLeeway, defaultRefreshLeeway)
	setDefaultDuration(&cfg.RefreshTimeout, defaultRefreshTimeout)

	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = timeAfterFunc
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoOpLogger()
	}

	return &Session{
		store:          store,
		api:            api,
		leeway:         cfg.RefreshLeeway,
		refreshTimeout: cfg.RefreshTimeout,
		now:            cfg.Now,
		afterFunc:      cfg.AfterFunc,
		logger:         cfg.Logger,
	}, nil
}

// ResumeSession restores session from stored tokens on startup.
// Valid access token marks session authenticated and schedules refresh,
// anything else clears the store
func (s *Session) ResumeSession(ctx context.Context) {
	access := s.token(ctx, models.AccessToken)

	if access != "" && !claims.IsExpired(access, 0, s.now()) {
		s.setAuthenticated(true)
		s.armRefresh(access)
		s.logger.Info("Session resumed from stored tokens")
		return
	}

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("Error clearing stale tokens", "error", err)
	}
	s.setAuthenticated(false)
}

// SignIn exchanges credentials for tokens and stores them.
// Fails without calling backend if session is already signed in or sign in is in progress
func (s *Session) SignIn(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	s.mu.Lock()
	switch {
	case s.authenticated:
		s.mu.Unlock()
		return models.TokenPair{}, apperrors.ErrAlreadyAuthenticated
	case s.signingIn:
		s.mu.Unlock()
		return models.TokenPair{}, apperrors.ErrSignInInProgress
	}
	s.signingIn = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.signingIn = false
		s.mu.Unlock()
	}()

	pair, err := s.api.Login(ctx, creds)
	if err != nil {
		return models.TokenPair{}, err
	}

	if err := s.storePair(ctx, pair); err != nil {
		return models.TokenPair{}, err
	}

	s.setAuthenticated(true)
	s.armRefresh(pair.Access)

	s.logger.Info("User signed in", "username", creds.Username)
	return pair, nil
}

// Refresh exchanges stored refresh token for a new pair.
// Concurrent callers share a single backend call. The shared call is not bound to
// the caller that started it: cancelled callers return early, the call goes on
// for the others within refresh timeout
func (s *Session) Refresh(ctx context.Context) (models.TokenPair, error) {
	ch := s.refreshGroup.DoChan("refresh", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.refreshTimeout)
		defer cancel()

		return s.refresh(ctx)
	})

	select {
	case <-ctx.Done():
		return models.TokenPair{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.TokenPair{}, res.Err
		}
		return res.Val.(models.TokenPair), nil
	}
}

func (s *Session) refresh(ctx context.Context) (models.TokenPair, error) {
	refreshToken := s.token(ctx, models.RefreshToken)
	if refreshToken == "" {
		metrics.SessionRefreshTotal.WithLabelValues(metrics.RefreshMissing).Inc()
		return models.TokenPair{}, apperrors.ErrRefreshTokenMissing
	}

	pair, err := s.api.Refresh(ctx, refreshToken)
	if err != nil {
		metrics.SessionRefreshTotal.WithLabelValues(metrics.RefreshFailed).Inc()
		return models.TokenPair{}, err
	}

	if err := s.storePair(ctx, pair); err != nil {
		metrics.SessionRefreshTotal.WithLabelValues(metrics.RefreshFailed).Inc()
		return models.TokenPair{}, err
	}

	s.armRefresh(pair.Access)
	metrics.SessionRefreshTotal.WithLabelValues(metrics.RefreshOK).Inc()

	s.logger.Debug("Access token refreshed")
	return pair, nil
}

// SignOut clears tokens and cancels pending refresh.
// Never fails: store errors are logged only
func (s *Session) SignOut(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("Error clearing tokens on sign out", "error", err)
	}

	s.mu.Lock()
	s.authenticated = false
	s.stopTask()
	s.mu.Unlock()

	s.logger.Info("User signed out")
}

// Check reports whether navigation to a protected view may proceed.
// Access token about to expire is refreshed once; failed refresh leaves tokens untouched
func (s *Session) Check(ctx context.Context) bool {
	s.mu.Lock()
	authenticated := s.authenticated
	s.mu.Unlock()

	if authenticated {
		return true
	}

	access := s.token(ctx, models.AccessToken)
	if access == "" {
		return false
	}

	if claims.IsExpired(access, s.leeway, s.now()) {
		if _, err := s.Refresh(ctx); err != nil {
			s.logger.Warn("Error refreshing token during session check", "error", err)
			return false
		}
	}

	return true
}

// IsLoggedIn reports whether stored access token is present and not expired
func (s *Session) IsLoggedIn(ctx context.Context) bool {
	access := s.token(ctx, models.AccessToken)
	return access != "" && !claims.IsExpired(access, 0, s.now())
}

// User derived from stored access token
func (s *Session) User(ctx context.Context) (models.User, bool) {
	c, ok := claims.Decode(s.token(ctx, models.AccessToken))
	if !ok {
		return models.User{}, false
	}
	return c.User(), true
}

// AccessToken returns stored access token or empty string
func (s *Session) AccessToken(ctx context.Context) string {
	return s.token(ctx, models.AccessToken)
}

// ScheduledRefresh returns pending refresh task if any
func (s *Session) ScheduledRefresh() (*RefreshTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task, s.task != nil
}

// Close cancels pending refresh. Tokens stay in the store so the next start resumes the session
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTask()
}

func (s *Session) setAuthenticated(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = v
}

func (s *Session) token(ctx context.Context, kind models.TokenKind) string {
	value, err := s.store.Get(ctx, kind)
	if err != nil {
		s.logger.Warn("Error reading token store", "kind", kind, "error", err)
		return ""
	}
	return value
}

func (s *Session) storePair(ctx context.Context, pair models.TokenPair) error {
	if err := s.store.Set(ctx, models.AccessToken, pair.Access); err != nil {
		return fmt.Errorf("error while saving access token. Err: %w", err)
	}
	if err := s.store.Set(ctx, models.RefreshToken, pair.Refresh); err != nil {
		return fmt.Errorf("error while saving refresh token. Err: %w", err)
	}
	return nil
}

// Replace pending task with one firing leeway before access expiry.
// Nothing is armed if that moment has already passed
func (s *Session) armRefresh(access string) {
	now := s.now()
	wait := claims.TimeUntilExpiry(access, s.leeway, now)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTask()
	if wait <= 0 {
		return
	}

	task := &RefreshTask{due: now.Add(wait)}
	task.timer = s.afterFunc(wait, func() { s.runScheduled(task) })
	s.task = task
}

func (s *Session) runScheduled(task *RefreshTask) {
	s.mu.Lock()
	if s.task != task {
		s.mu.Unlock()
		return
	}
	s.task = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.refreshTimeout)
	defer cancel()

	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Warn("Error renewing token", "error", err)
	}
}

// Must be called with mu held
func (s *Session) stopTask() {
	if s.task != nil {
		s.task.Stop()
		s.task = nil
	}
}
