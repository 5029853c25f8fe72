package auth

import "errors"

// Token validation failures. ValidateToken wraps one of them, so callers can
// tell an expired session from a forged or premature one.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
)

// ErrPasswordMismatch is returned by PasswordHasher.Compare for a wrong password.
// Any other Compare error means the stored hash itself is unusable.
var ErrPasswordMismatch = errors.New("password does not match")

// IsTokenError reports whether err is a token validation failure, as opposed
// to an internal error raised while validating.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrTokenNotYetValid)
}
