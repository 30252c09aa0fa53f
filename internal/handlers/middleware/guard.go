package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nkiryanov/gestiondocente/internal/metrics"
	"github.com/nkiryanov/gestiondocente/internal/models"
)

const (
	LoginPath        = "/auth/login"
	DashboardPath    = "/dashboard"
	AdminDashboard   = "/dashboard-admin"
	publicAuthPrefix = "/auth/"
)

// Decision of a guard: empty Redirect means navigation is allowed
type Decision struct {
	Redirect string
}

func Pass() Decision {
	return Decision{}
}

func RedirectTo(path string) Decision {
	return Decision{Redirect: path}
}

func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// Guard decides whether navigation to path may proceed
type Guard interface {
	Allow(ctx context.Context, path string) Decision
}

type session interface {
	// Report whether protected navigation may proceed. May refresh tokens
	Check(ctx context.Context) bool

	// User derived from stored access token
	User(ctx context.Context) (models.User, bool)
}

// Protects everything outside public auth section: unauthenticated navigation goes to login
type ProtectedGuard struct {
	session session
}

func NewProtectedGuard(s session) *ProtectedGuard {
	return &ProtectedGuard{session: s}
}

func (g *ProtectedGuard) Name() string { return "protected" }

func (g *ProtectedGuard) Allow(ctx context.Context, path string) Decision {
	if isPublicAuthPath(path) {
		return Pass()
	}
	if check(ctx, g.session) {
		return Pass()
	}
	return RedirectTo(LoginPath)
}

// Keeps signed in users away from login views: they go to their landing page
type PublicOnlyGuard struct {
	session session
}

func NewPublicOnlyGuard(s session) *PublicOnlyGuard {
	return &PublicOnlyGuard{session: s}
}

func (g *PublicOnlyGuard) Name() string { return "public_only" }

func (g *PublicOnlyGuard) Allow(ctx context.Context, _ string) Decision {
	if !check(ctx, g.session) {
		return Pass()
	}
	u, _ := g.session.User(ctx)
	return RedirectTo(LandingPath(u))
}

// LandingPath is the first view shown to user after sign in
func LandingPath(u models.User) string {
	if u.IsAdmin() {
		return AdminDashboard
	}
	return DashboardPath
}

// Guarded adapts guard to middleware. Redirects are answered with 303 See Other
func Guarded(g Guard, l logger) func(http.Handler) http.Handler {
	name := "guard"
	if n, ok := g.(interface{ Name() string }); ok {
		name = n.Name()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Allow(r.Context(), r.URL.Path)

			if !d.Allowed() {
				metrics.GuardDecisionsTotal.WithLabelValues(name, metrics.GuardRedirect).Inc()
				l.Debug("Navigation redirected", "guard", name, "path", r.URL.Path, "to", d.Redirect)
				http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
				return
			}

			metrics.GuardDecisionsTotal.WithLabelValues(name, metrics.GuardAllow).Inc()
			next.ServeHTTP(w, r)
		})
	}
}

// Public auth section is "/auth" and everything under "/auth/"
func isPublicAuthPath(path string) bool {
	return path == strings.TrimSuffix(publicAuthPrefix, "/") || strings.HasPrefix(path, publicAuthPrefix)
}

// Session check that never panics: failure is just "not authenticated"
func check(ctx context.Context, s session) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return s.Check(ctx)
}
