// Package auth issues access tokens and hashes passwords.
package auth
