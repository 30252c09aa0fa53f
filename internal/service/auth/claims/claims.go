// Package claims reads access token payloads without verifying signatures.
//
// Decoded claims shape the UI only (role, user name, refresh timing).
// They are never an authorization decision: the backend verifies every token.
package claims

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nkiryanov/gestiondocente/internal/models"
)

type Claims struct {
	jwt.RegisteredClaims

	Username string
	Name     string
	Roles    []string
	Role     string

	// Teacher id as sent: numeric ids are kept as their decimal text
	TeacherID string
	Teacher   json.RawMessage
}

var parser = jwt.NewParser(jwt.WithJSONNumber())

// Decode token payload
// Returns false if token is empty or can't be parsed; never fails otherwise.
// Claims of unexpected type are left empty and never make the token unreadable
func Decode(token string) (Claims, bool) {
	if token == "" {
		return Claims{}, false
	}

	m := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, m); err != nil {
		return Claims{}, false
	}

	c := Claims{
		Username:  text(m["username"]),
		Name:      text(m["name"]),
		Roles:     texts(m["roles"]),
		Role:      text(m["role"]),
		TeacherID: text(m["idDocente"]),
	}
	c.Subject = text(m["sub"])
	if exp, err := m.GetExpirationTime(); err == nil {
		c.ExpiresAt = exp
	}
	if iat, err := m.GetIssuedAt(); err == nil {
		c.IssuedAt = iat
	}
	if profile, ok := m["docente"].(map[string]any); ok {
		c.Teacher, _ = json.Marshal(profile)
	}

	return c, true
}

// String or number as text. Empty for anything else
func text(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Single string or array; non string items are dropped
func texts(v any) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Expiry returns token 'exp' claim
func Expiry(token string) (time.Time, bool) {
	c, ok := Decode(token)
	if !ok || c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}

// IsExpired reports whether token is absent, unparseable, has no expiry
// or expires within leeway: exp - leeway <= now
func IsExpired(token string, leeway time.Duration, now time.Time) bool {
	exp, ok := Expiry(token)
	if !ok {
		return true
	}
	return !now.Before(exp.Add(-leeway))
}

// TimeUntilExpiry returns how long token stays valid taking leeway into account
// Zero for expired or invalid tokens
func TimeUntilExpiry(token string, leeway time.Duration, now time.Time) time.Duration {
	exp, ok := Expiry(token)
	if !ok {
		return 0
	}
	return max(exp.Add(-leeway).Sub(now), 0)
}

// User maps claims to the user shown by views
func (c Claims) User() models.User {
	u := models.User{
		ID:          c.Subject,
		Username:    c.Username,
		DisplayName: c.Name,
		Teacher:     c.Teacher,
	}

	if c.TeacherID != "" {
		u.ID = c.TeacherID
	}
	if id, err := strconv.ParseInt(c.TeacherID, 10, 64); err == nil {
		u.TeacherID = &id
	}
	if u.Username == "" {
		u.Username = c.Subject
	}

	switch {
	case len(c.Roles) > 0:
		u.RawRole = c.Roles[0]
	default:
		u.RawRole = c.Role
	}
	u.Role = models.ParseRole(u.RawRole)

	return u
}
