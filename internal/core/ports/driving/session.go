package driving

import "context"

// SessionService manages the authenticated session of the client.
type SessionService interface {
	// Login authenticates with a bot password.
	Login(ctx context.Context, username, password string) error

	// IsLoggedIn returns true after a successful login.
	IsLoggedIn() bool
}
