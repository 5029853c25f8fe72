package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account is a registered user of the back office. Its role is fixed at
// creation. The password is only ever held as a bcrypt hash.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Role         Role      `json:"role"`
	FullName     string    `json:"full_name"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewAccount creates an account with a fresh ID. The login and full name are
// trimmed; passwordHash must already be hashed.
func NewAccount(login, fullName, passwordHash string, role Role) (*Account, error) {
	acct := &Account{
		ID:           uuid.New(),
		Role:         role,
		FullName:     strings.TrimSpace(fullName),
		Login:        strings.TrimSpace(login),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := acct.Validate(); err != nil {
		return nil, err
	}

	return acct, nil
}

// Validate checks the structural invariants of an account.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", nil)
	}
	if a.Login == "" {
		return NewValidationError("login", "cannot be empty", nil)
	}
	if a.FullName == "" {
		return NewValidationError("full_name", "cannot be empty", nil)
	}
	if a.PasswordHash == "" {
		return NewValidationError("password_hash", "cannot be empty", nil)
	}
	if !a.Role.IsValid() {
		return NewValidationError("role", "is not a known role", ErrUnknownRole)
	}
	return nil
}

// HasRole reports whether a is non-nil and holds one of roles.
func (a *Account) HasRole(roles ...Role) bool {
	if a == nil {
		return false
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
