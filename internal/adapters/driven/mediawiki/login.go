package mediawiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/custodia-labs/wbedit/internal/logger"
)

const loginSuccess = "Success"

// Login authenticates the session with a username and bot password. The
// session cookies are kept in the connection's cookie jar.
func (c *Connection) Login(ctx context.Context, username, password string) error {
	token, err := c.fetchLoginToken(ctx)
	if err != nil {
		return fmt.Errorf("get login token: %w", err)
	}

	params := map[string]string{
		paramAction:  "login",
		"lgname":     username,
		"lgpassword": password,
		"lgtoken":    token,
		paramFormat:  formatJSON,
	}

	body, err := c.SendRequest(ctx, http.MethodPost, params)
	if err != nil {
		return fmt.Errorf("send login request: %w", err)
	}
	root, err := c.decode(body)
	if err != nil {
		return err
	}

	var resp struct {
		Result   string          `json:"result"`
		Reason   json.RawMessage `json:"reason"`
		Username string          `json:"lgusername"`
	}
	if raw, ok := root["login"]; ok {
		if err := json.Unmarshal(raw, &resp); err != nil {
			return fmt.Errorf("decode login response: %w", err)
		}
	}

	if resp.Result != loginSuccess {
		return &LoginError{Result: resp.Result, Reason: reasonText(resp.Reason)}
	}

	name := resp.Username
	if name == "" {
		name = username
	}

	c.mu.Lock()
	c.username = name
	c.mu.Unlock()

	logger.Info("Logged in as %s", name)
	return nil
}

// fetchLoginToken runs action=query&meta=tokens&type=login.
func (c *Connection) fetchLoginToken(ctx context.Context) (string, error) {
	params := map[string]string{
		paramAction: "query",
		"meta":      "tokens",
		"type":      "login",
		paramFormat: formatJSON,
	}

	body, err := c.SendRequest(ctx, http.MethodPost, params)
	if err != nil {
		return "", err
	}
	root, err := c.decode(body)
	if err != nil {
		return "", err
	}

	var query struct {
		Tokens struct {
			LoginToken string `json:"logintoken"`
		} `json:"tokens"`
	}
	if raw, ok := root["query"]; ok {
		if err := json.Unmarshal(raw, &query); err != nil {
			return "", fmt.Errorf("decode token response: %w", err)
		}
	}
	if query.Tokens.LoginToken == "" {
		return "", errNoLoginToken
	}
	return query.Tokens.LoginToken, nil
}

// reasonText returns the login failure reason, which is a plain string in
// older responses and an object with a "text" field in newer ones.
func reasonText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Text string `json:"text"`
		Code string `json:"code"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Text != "" {
			return obj.Text
		}
		return obj.Code
	}
	return string(raw)
}
