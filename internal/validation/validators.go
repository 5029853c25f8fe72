// Package validation holds the credential shape rules applied at registration.
// Each check returns whether the input is acceptable and, when it is not, a
// message that can be shown to the user as is.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Policy limits.
const (
	FullNameMinLength = 3
	FullNameMinWords  = 2
	PasswordMinLength = 6
	PasswordMaxLength = 50
)

var (
	loginPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nameWordPattern = regexp.MustCompile(`^[а-яА-ЯёЁa-zA-Z-]+$`)
)

// ValidateLogin checks that s is an email-shaped login.
func ValidateLogin(s string) (bool, string) {
	login := strings.TrimSpace(s)
	if login == "" {
		return false, "login cannot be empty"
	}
	if !loginPattern.MatchString(login) {
		return false, "login must be a valid email address (for example: user@example.com)"
	}
	return true, ""
}

// ValidateFullName checks that s has at least a first and last name made of
// Latin or Cyrillic letters and hyphens.
func ValidateFullName(s string) (bool, string) {
	name := strings.TrimSpace(s)
	if name == "" {
		return false, "full name cannot be empty"
	}
	if utf8.RuneCountInString(name) < FullNameMinLength {
		return false, fmt.Sprintf("full name must be at least %d characters long", FullNameMinLength)
	}

	words := strings.Fields(name)
	if len(words) < FullNameMinWords {
		return false, "full name must contain at least a last name and a first name (for example: Ivanov Ivan)"
	}
	for _, w := range words {
		if !nameWordPattern.MatchString(w) {
			return false, "full name may contain only letters, hyphens and spaces"
		}
	}
	return true, ""
}

// ValidatePassword checks the length of s after trimming.
func ValidatePassword(s string) (bool, string) {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	switch {
	case n == 0:
		return false, "password cannot be empty"
	case n < PasswordMinLength:
		return false, fmt.Sprintf("password must be at least %d characters long", PasswordMinLength)
	case n > PasswordMaxLength:
		return false, fmt.Sprintf("password must not exceed %d characters", PasswordMaxLength)
	}
	return true, ""
}

// ValidatePasswordConfirmation checks that confirmation repeats password exactly.
func ValidatePasswordConfirmation(password, confirmation string) (bool, string) {
	if password != confirmation {
		return false, "passwords do not match"
	}
	return true, ""
}
