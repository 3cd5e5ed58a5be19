// Package identity is the account collaborator: it authenticates users
// and hands the signaling core an opaque identity (the username). The
// core never sees credentials or tokens.
package identity

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/baatlink/baatlink/internal/domain"
)

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
)

// Store keeps accounts and login tokens in memory. State is ephemeral
// per server lifetime, like the rest of the relay.
type Store struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	tokens map[string]string
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]*domain.User),
		tokens: make(map[string]string),
	}
}

func (s *Store) Register(name, username, password string) error {
	if err := domain.ValidateUsername(username); err != nil {
		return err
	}
	if len(password) < domain.MinPasswordLen {
		return domain.ErrPasswordTooWeak
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user, err := domain.NewUser(name, username, hash)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return ErrUserExists
	}
	s.users[username] = user
	log.Info().Str("module", "identity.store").Str("username", username).Msg("registered user")
	return nil
}

// Login checks the credentials and issues an opaque token the client
// presents when opening the signaling connection.
func (s *Store) Login(username, password string) (string, error) {
	s.mu.RLock()
	user, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return "", ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = username
	s.mu.Unlock()
	log.Info().Str("module", "identity.store").Str("username", username).Msg("issued token")
	return token, nil
}

// Lookup resolves a token to the username it was issued for.
func (s *Store) Lookup(token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username, ok := s.tokens[token]
	if !ok {
		return "", ErrInvalidToken
	}
	return username, nil
}
