// Package domain contains entities without logic, just meta-data.
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const (
	MaxUsernameLen = 36
	MinPasswordLen = 6
)

var (
	ErrUsernameEmpty   = errors.New("username empty")
	ErrUsernameTooLong = errors.New("username too long")
	ErrPasswordTooWeak = errors.New("password too short")
)

type UserID string

// User is an account known to the identity provider. The signaling
// core only ever sees the Username, handed over at connect time.
type User struct {
	ID           UserID `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	PasswordHash []byte `json:"-"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(name, username string, passwordHash []byte) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	return &User{
		ID:           UserID(uuid.NewString()),
		Name:         name,
		Username:     username,
		PasswordHash: passwordHash,
	}, nil
}

func ValidateUsername(username string) error {
	if len(username) == 0 {
		return ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}
