package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/custodia-labs/wbedit/internal/core/domain"
)

type mockEditor struct {
	result *domain.EditResult
	err    error

	calls int
	sel   domain.EntitySelector
	data  json.RawMessage
	opts  domain.EditOptions
}

func (m *mockEditor) EditEntity(
	_ context.Context,
	sel domain.EntitySelector,
	data json.RawMessage,
	opts domain.EditOptions,
) (*domain.EditResult, error) {
	m.calls++
	m.sel, m.data, m.opts = sel, data, opts
	return m.result, m.err
}

type mockHistory struct {
	records  []domain.EditRecord
	entityID string
	limit    int
}

func (m *mockHistory) History(_ context.Context, entityID string, limit int) ([]domain.EditRecord, error) {
	m.entityID, m.limit = entityID, limit
	return m.records, nil
}

type mockSession struct {
	loggedIn bool
	err      error
	user     string
	password string
	logins   int
}

func (m *mockSession) Login(_ context.Context, username, password string) error {
	m.logins++
	m.user, m.password = username, password
	if m.err != nil {
		return m.err
	}
	m.loggedIn = true
	return nil
}

func (m *mockSession) IsLoggedIn() bool { return m.loggedIn }

type mockChanges struct {
	changes []domain.RecentChange
	titles  []string
	since   time.Time
}

func (m *mockChanges) RecentChanges(_ context.Context, since time.Time) ([]domain.RecentChange, error) {
	m.since = since
	return m.changes, nil
}

func (m *mockChanges) ChangedTitles(_ context.Context) ([]string, error) {
	return m.titles, nil
}

type mockSettings struct {
	settings domain.ClientSettings
	set      map[string]string
	unset    []string
	setErr   error
}

func newMockSettings() *mockSettings {
	return &mockSettings{settings: domain.DefaultClientSettings(), set: map[string]string{}}
}

func (m *mockSettings) Get() (*domain.ClientSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.ClientSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettings) Unset(key string) error {
	m.unset = append(m.unset, key)
	return nil
}

func (m *mockSettings) Keys() []string {
	return []string{"api.url", "api.maxlag", "auth.username", "auth.password"}
}

func (m *mockSettings) GetDefaults() domain.ClientSettings {
	return domain.DefaultClientSettings()
}

// runCommand executes the root command with args and returns its output.
func runCommand(args ...string) (string, error) {
	return runCommandWithInput("", args...)
}

// runCommandWithInput executes the root command with input as stdin.
func runCommandWithInput(input string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// withServices installs s for the duration of a test.
func withServices(t *testing.T, s Services) {
	t.Helper()
	SetServices(s)
	t.Cleanup(func() { SetServices(Services{}) })
}
