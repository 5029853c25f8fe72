package domain

import (
	"errors"
	"strings"
)

// Role is the privilege level of an account. Roles are totally ordered:
// Guest < Client < Manager < Admin.
type Role int

// Known roles. The zero value is RoleGuest.
const (
	RoleGuest Role = iota
	RoleClient
	RoleManager
	RoleAdmin
)

// ErrUnknownRole is returned by ParseRole for a string that names no role.
var ErrUnknownRole = errors.New("unknown role")

var roleNames = map[Role]string{
	RoleGuest:   "guest",
	RoleClient:  "client",
	RoleManager: "manager",
	RoleAdmin:   "admin",
}

// Display labels used by the legacy data set and the back-office UI.
var roleLabels = map[Role]string{
	RoleGuest:   "Гость",
	RoleClient:  "Авторизированный клиент",
	RoleManager: "Менеджер",
	RoleAdmin:   "Администратор",
}

// String returns the storage name of the role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Label returns the human-readable display label of the role.
func (r Role) Label() string {
	return roleLabels[r]
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

// AtLeast reports whether r grants at least the privileges of other.
func (r Role) AtLeast(other Role) bool {
	return r.IsValid() && r >= other
}

// ParseRole converts a storage name or a display label into a Role.
func ParseRole(s string) (Role, error) {
	trimmed := strings.TrimSpace(s)
	for role, name := range roleNames {
		if strings.EqualFold(trimmed, name) {
			return role, nil
		}
	}
	for role, label := range roleLabels {
		if trimmed == label {
			return role, nil
		}
	}
	return RoleGuest, ErrUnknownRole
}

// MarshalText encodes the role as its storage name.
func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, ErrUnknownRole
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a storage name or display label.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
