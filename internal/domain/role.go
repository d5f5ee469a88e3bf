package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RolePatient      Role = "patient"
	RolePractitioner Role = "practitioner"
	RoleAdmin        Role = "admin"
)

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RolePatient, RolePractitioner, RoleAdmin:
		return r, nil
	default:
		return "", ErrUnknownRole
	}
}

// Actor is the authenticated caller of a booking operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
