package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/logger"
)

// fakeReply is one scripted response of fakeConnection.
type fakeReply struct {
	body string
	err  error
}

// sentRequest records a call to SendRequest.
type sentRequest struct {
	method string
	params map[string]string
}

// fakeConnection replays scripted replies in order and records every request.
type fakeConnection struct {
	mu       sync.Mutex
	replies  []fakeReply
	requests []sentRequest
	warnings int
}

func newFakeConnection(replies ...fakeReply) *fakeConnection {
	return &fakeConnection{replies: replies}
}

func (c *fakeConnection) SendRequest(_ context.Context, method string, params map[string]string) (io.ReadCloser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	c.requests = append(c.requests, sentRequest{method: method, params: copied})

	if len(c.replies) == 0 {
		return nil, errors.New("fakeConnection: no reply scripted")
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	if reply.err != nil {
		return nil, reply.err
	}
	return io.NopCloser(strings.NewReader(reply.body)), nil
}

func (c *fakeConnection) CheckErrors(root domain.APIResponse) error {
	raw, ok := root["error"]
	if !ok {
		return nil
	}
	var body struct {
		Code string `json:"code"`
		Info string `json:"info"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return err
	}
	return &domain.APIError{Code: body.Code, Info: body.Info}
}

func (c *fakeConnection) LogWarnings(root domain.APIResponse) {
	if root.Has("warnings") {
		c.mu.Lock()
		c.warnings++
		c.mu.Unlock()
	}
}

// actions returns the action parameter of every recorded request.
func (c *fakeConnection) actions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.requests))
	for _, r := range c.requests {
		out = append(out, r.params[paramAction])
	}
	return out
}

func (c *fakeConnection) request(i int) sentRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests[i]
}

func tokenReply(token string) fakeReply {
	return fakeReply{body: `{"batchcomplete":"","query":{"tokens":{"csrftoken":"` + token + `"}}}`}
}

func errorReply(code, info string) fakeReply {
	return fakeReply{body: `{"error":{"code":"` + code + `","info":"` + info + `","*":"See api help"}}`}
}

// captureLog redirects the logger to a buffer for the duration of a test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	logger.SetOutput(buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return buf
}

type fakeAuthenticator struct {
	err      error
	loggedIn bool
	calls    int
}

func (a *fakeAuthenticator) Login(_ context.Context, _, _ string) error {
	a.calls++
	if a.err != nil {
		return a.err
	}
	a.loggedIn = true
	return nil
}

func (a *fakeAuthenticator) IsLoggedIn() bool { return a.loggedIn }

type fakeFeed struct {
	changes []domain.RecentChange
	err     error
}

func (f *fakeFeed) Fetch(_ context.Context) ([]domain.RecentChange, error) {
	return f.changes, f.err
}

type failingEditLog struct{}

func (failingEditLog) Append(_ context.Context, _ domain.EditRecord) error {
	return errors.New("disk full")
}

func (failingEditLog) List(_ context.Context, _ string, _ int) ([]domain.EditRecord, error) {
	return nil, nil
}
