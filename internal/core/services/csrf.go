package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/core/ports/driven"
	"github.com/custodia-labs/wbedit/internal/logger"
)

// CSRFTokens holds the CSRF token used to authorise write requests.
//
// The token has no known expiry; it is only discovered to be stale when the
// service rejects it. Concurrent callers that find no token may both fetch
// one; the last fetched token wins. The mutex only protects the value.
type CSRFTokens struct {
	conn driven.APIConnection

	mu    sync.Mutex
	token string
}

// NewCSRFTokens creates a token holder that fetches tokens through conn.
func NewCSRFTokens(conn driven.APIConnection) *CSRFTokens {
	return &CSRFTokens{conn: conn}
}

// Token returns the held token, fetching a new one if none is held.
func (t *CSRFTokens) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	token := t.token
	t.mu.Unlock()

	if token != "" {
		return token, nil
	}
	return t.Refresh(ctx)
}

// Refresh fetches a new token and replaces the held one, whether or not a
// token is held. When the fetch fails the held token is cleared.
func (t *CSRFTokens) Refresh(ctx context.Context) (string, error) {
	token, err := t.fetch(ctx)

	t.mu.Lock()
	t.token = token
	t.mu.Unlock()

	if err != nil {
		logger.Error("Error when trying to fetch csrf token: %v", err)
		return "", fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err)
	}
	return token, nil
}

// Invalidate drops the held token. Tokens are bound to a session, so this
// is called when the session changes.
func (t *CSRFTokens) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
}

// fetch runs action=query&meta=tokens and returns the csrf token.
func (t *CSRFTokens) fetch(ctx context.Context) (string, error) {
	params := map[string]string{
		paramAction: "query",
		"meta":      "tokens",
		paramFormat: formatJSON,
	}

	body, err := t.conn.SendRequest(ctx, http.MethodPost, params)
	if err != nil {
		return "", fmt.Errorf("send token request: %w", err)
	}

	root, err := readResponse(t.conn, body)
	if err != nil {
		return "", err
	}

	var query struct {
		Tokens struct {
			CSRFToken string `json:"csrftoken"`
		} `json:"tokens"`
	}
	if raw, ok := root["query"]; ok {
		if err := json.Unmarshal(raw, &query); err != nil {
			return "", fmt.Errorf("decode token response: %w", err)
		}
	}

	if query.Tokens.CSRFToken == "" {
		return "", errors.New("no csrf token in response")
	}
	return query.Tokens.CSRFToken, nil
}
