package models

import (
	"encoding/json"
)

type Role string

const (
	RoleTeacher Role = "DOCENTE"
	RoleAdmin   Role = "ADMINISTRATIVO"
	RoleOther   Role = "OTRO"
)

// ParseRole maps a raw role claim to the known roles
func ParseRole(value string) Role {
	switch Role(value) {
	case RoleTeacher, RoleAdmin:
		return Role(value)
	default:
		return RoleOther
	}
}

// User derived from the access token claims.
// Used for UI shaping only: the backend enforces authorization on its own.
type User struct {
	ID          string          `json:"id"`
	TeacherID   *int64          `json:"idDocente,omitempty"`
	Username    string          `json:"username"`
	DisplayName string          `json:"name,omitempty"`
	Role        Role            `json:"rol"`
	RawRole     string          `json:"-"`
	Teacher     json.RawMessage `json:"docente,omitempty"`
}

func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
