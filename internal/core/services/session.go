package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/core/ports/driven"
	"github.com/custodia-labs/wbedit/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService logs the connection in and keeps the CSRF token in step
// with the session.
type SessionService struct {
	auth   driven.Authenticator
	tokens *CSRFTokens
}

// NewSessionService creates a new session service.
func NewSessionService(auth driven.Authenticator, tokens *CSRFTokens) *SessionService {
	return &SessionService{auth: auth, tokens: tokens}
}

// Login authenticates with a bot password. Any held CSRF token belongs to
// the previous session and is dropped.
func (s *SessionService) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	if err := s.auth.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login as %s: %w", username, err)
	}

	s.tokens.Invalidate()
	return nil
}

// IsLoggedIn returns true after a successful login.
func (s *SessionService) IsLoggedIn() bool {
	return s.auth.IsLoggedIn()
}
