// Package users owns accounts and authentication on the server side:
// registration, credential verification, and token minting.
package users

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User is the persisted account row. PasswordHash never leaves this package.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
