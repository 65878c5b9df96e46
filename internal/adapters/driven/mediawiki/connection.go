package mediawiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/core/ports/driven"
	"github.com/custodia-labs/wbedit/internal/logger"
)

// Ensure Connection implements the interfaces.
var (
	_ driven.APIConnection = (*Connection)(nil)
	_ driven.Authenticator = (*Connection)(nil)
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	paramAction = "action"
	paramFormat = "format"
	paramMaxlag = "maxlag"
	formatJSON  = "json"
)

// Connection is a session with a MediaWiki API endpoint.
type Connection struct {
	apiURL      string
	httpClient  *http.Client
	limiter     *RateLimiter
	userAgent   string
	maxlag      int
	accessToken string

	mu       sync.RWMutex
	username string
}

// Option configures a Connection.
type Option func(*Connection)

// WithHTTPClient uses the given client. A cookie jar is added if it has none.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connection) {
		c.httpClient = client
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Connection) {
		c.userAgent = userAgent
	}
}

// WithMaxlag sends maxlag with every request; 0 disables it.
func WithMaxlag(seconds int) Option {
	return func(c *Connection) {
		c.maxlag = seconds
	}
}

// WithRateLimiter replaces the default rate limiter.
func WithRateLimiter(limiter *RateLimiter) Option {
	return func(c *Connection) {
		c.limiter = limiter
	}
}

// WithAccessToken authorises every request with an OAuth 2 bearer token.
func WithAccessToken(token string) Option {
	return func(c *Connection) {
		c.accessToken = token
	}
}

// NewConnection creates a connection to the api.php endpoint at apiURL.
func NewConnection(apiURL string, opts ...Option) (*Connection, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse API URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: API URL must be http or https: %s", domain.ErrInvalidInput, apiURL)
	}

	c := &Connection{
		apiURL:    apiURL,
		userAgent: domain.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	if c.limiter == nil {
		c.limiter = NewRateLimiter(DefaultRate)
	}

	if c.accessToken != "" {
		base := c.httpClient
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.accessToken})
		tc := oauth2.NewClient(ctx, ts)
		tc.Jar = base.Jar
		tc.Timeout = base.Timeout
		c.httpClient = tc
	}

	return c, nil
}

// APIURL returns the endpoint of this connection.
func (c *Connection) APIURL() string {
	return c.apiURL
}

// SendRequest sends params to the endpoint with the given method (GET or
// POST) and returns the response body, which the caller must close.
func (c *Connection) SendRequest(ctx context.Context, method string, params map[string]string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	if c.maxlag > 0 && form.Get(paramMaxlag) == "" {
		form.Set(paramMaxlag, strconv.Itoa(c.maxlag))
	}

	req, err := c.newRequest(ctx, method, form)
	if err != nil {
		return nil, err
	}

	logger.Debug("%s %s action=%s", method, c.apiURL, params[paramAction])

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", strings.ToLower(method), err)
	}

	c.limiter.UpdateFromResponse(resp)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			URL:        c.apiURL,
		}
	}

	return resp.Body, nil
}

func (c *Connection) newRequest(ctx context.Context, method string, form url.Values) (*http.Request, error) {
	var (
		req *http.Request
		err error
	)

	switch method {
	case http.MethodPost:
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	case http.MethodGet:
		u, err := url.Parse(c.apiURL)
		if err != nil {
			return nil, fmt.Errorf("parse API URL: %w", err)
		}
		query := u.Query()
		for k, vs := range form {
			query[k] = vs
		}
		u.RawQuery = query.Encode()
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported HTTP method %q", domain.ErrInvalidInput, method)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// CheckErrors returns a *domain.APIError if the response has an error section.
func (c *Connection) CheckErrors(root domain.APIResponse) error {
	raw, ok := root["error"]
	if !ok || string(raw) == "null" {
		return nil
	}
	return parseAPIError(raw)
}

// LogWarnings logs the warnings section of a response, one line per module.
func (c *Connection) LogWarnings(root domain.APIResponse) {
	raw, ok := root["warnings"]
	if !ok {
		return
	}

	var modules map[string]struct {
		Star     string `json:"*"`
		Warnings string `json:"warnings"`
	}
	if err := json.Unmarshal(raw, &modules); err != nil {
		logger.Warn("API warnings: %s", raw)
		return
	}

	for module, w := range modules {
		text := w.Star
		if text == "" {
			text = w.Warnings
		}
		logger.Warn("API warning for module %s: %s", module, text)
	}
}

// decode reads a JSON response body and checks it for API errors.
func (c *Connection) decode(body io.ReadCloser) (domain.APIResponse, error) {
	defer body.Close()

	var root domain.APIResponse
	if err := json.NewDecoder(body).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := c.CheckErrors(root); err != nil {
		return nil, err
	}
	c.LogWarnings(root)
	return root, nil
}

// IsLoggedIn returns true after a successful login, or when requests are
// authorised with an access token.
func (c *Connection) IsLoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username != "" || c.accessToken != ""
}

// CurrentUser returns the name of the logged-in user, if any.
func (c *Connection) CurrentUser() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

var errNoLoginToken = errors.New("no login token in response")
