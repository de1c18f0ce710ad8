package auth

import (
	"crypto/subtle"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"estoque/internal/errors"
)

// Service checks the configured credentials and hands out opaque session
// tokens. Sessions live in memory; a restart logs everyone out.
type Service struct {
	username string
	password string

	mu       sync.RWMutex
	sessions map[string]string // token -> username
	logger   *zap.Logger
}

func NewService(username, password string, logger *zap.Logger) *Service {
	return &Service{
		username: username,
		password: password,
		sessions: make(map[string]string),
		logger:   logger,
	}
}

// Login validates the credential pair and returns a fresh session token.
func (s *Service) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return "", errors.NewValidationError("invalid credentials")
	}

	token := uuid.New().String()

	s.mu.Lock()
	s.sessions[token] = username
	s.mu.Unlock()

	s.logger.Info("user logged in", zap.String("username", username))
	return token, nil
}

// Logout revokes a session token. Revoking an unknown token is a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Validate returns the username bound to a session token.
func (s *Service) Validate(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	username, ok := s.sessions[token]
	return username, ok
}
