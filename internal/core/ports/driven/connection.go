package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/wbedit/internal/core/domain"
)

// APIConnection sends requests to a MediaWiki API endpoint.
// Implementations own the HTTP session: cookies, authentication and
// request throttling.
type APIConnection interface {
	// SendRequest sends the parameters with the given HTTP method and
	// returns the response body. The caller must close it.
	SendRequest(ctx context.Context, method string, params map[string]string) (io.ReadCloser, error)

	// CheckErrors returns a *domain.APIError if the response reports an error.
	CheckErrors(root domain.APIResponse) error

	// LogWarnings logs the warnings contained in the response, if any.
	LogWarnings(root domain.APIResponse)
}

// Authenticator logs a connection in to the site.
type Authenticator interface {
	// Login authenticates the session with a username and (bot) password.
	Login(ctx context.Context, username, password string) error

	// IsLoggedIn returns true after a successful login.
	IsLoggedIn() bool
}
