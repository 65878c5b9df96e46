package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wbedit/internal/core/domain"
)

func resetChangesFlags(t *testing.T) {
	t.Helper()
	changesFlags.since, changesFlags.titles = 0, false
	t.Cleanup(func() { changesFlags.since, changesFlags.titles = 0, false })
}

func TestChanges_ListsChanges(t *testing.T) {
	resetChangesFlags(t)
	changes := &mockChanges{changes: []domain.RecentChange{
		{Title: "Q42", Author: "Example", Date: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{Title: "P31", Author: "Other"},
	}}
	withServices(t, Services{Changes: changes})

	out, err := runCommand("changes")

	require.NoError(t, err)
	assert.Contains(t, out, "Q42")
	assert.Contains(t, out, "Example")
	assert.Contains(t, out, "P31")
	assert.True(t, changes.since.IsZero())
}

func TestChanges_Since(t *testing.T) {
	resetChangesFlags(t)
	changes := &mockChanges{}
	withServices(t, Services{Changes: changes})

	before := time.Now()
	out, err := runCommand("changes", "--since", "2h")

	require.NoError(t, err)
	assert.Contains(t, out, "No recent changes.")
	assert.WithinDuration(t, before.Add(-2*time.Hour), changes.since, time.Minute)
}

func TestChanges_Titles(t *testing.T) {
	resetChangesFlags(t)
	withServices(t, Services{Changes: &mockChanges{titles: []string{"P31", "Q42"}}})

	out, err := runCommand("changes", "--titles")

	require.NoError(t, err)
	assert.Equal(t, "P31\nQ42\n", out)
}

func TestChanges_NotConfigured(t *testing.T) {
	resetChangesFlags(t)
	withServices(t, Services{})

	_, err := runCommand("changes")

	assert.Error(t, err)
}
