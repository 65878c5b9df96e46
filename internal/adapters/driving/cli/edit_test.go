package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wbedit/internal/core/domain"
)

const sandboxLabel = `{"labels":{"en":{"language":"en","value":"Sandbox"}}}`

func resetEditFlags(t *testing.T) {
	t.Helper()
	clearEditFlags()
	t.Cleanup(clearEditFlags)
}

func clearEditFlags() {
	editFlags.newType, editFlags.id, editFlags.site, editFlags.title = "", "", "", ""
	editFlags.data, editFlags.summary = "", ""
	editFlags.clear, editFlags.bot, editFlags.json = false, false, false
	editFlags.baseRevID = 0
}

func appliedResult() *domain.EditResult {
	doc := &domain.EntityDocument{
		ID:        "Q4115189",
		Type:      "item",
		LastRevID: 1234,
		SiteIRI:   domain.DefaultSiteIRI,
		Labels:    map[string]domain.MonolingualText{"en": {Language: "en", Value: "Sandbox"}},
	}
	doc.EnsureContainers()
	return &domain.EditResult{Status: domain.EditApplied, Document: doc, Field: "entity"}
}

func TestEdit_ByID(t *testing.T) {
	resetEditFlags(t)
	editor := &mockEditor{result: appliedResult()}
	withServices(t, Services{Editor: editor})

	out, err := runCommand("edit", "--id", "Q4115189", "--data", sandboxLabel,
		"--summary", "test", "--bot", "--baserevid", "1200")

	require.NoError(t, err)
	assert.Equal(t, 1, editor.calls)
	assert.Equal(t, domain.ByID("Q4115189"), editor.sel)
	assert.JSONEq(t, sandboxLabel, string(editor.data))
	assert.Equal(t, domain.EditOptions{Bot: true, BaseRevID: 1200, Summary: "test"}, editor.opts)
	assert.Contains(t, out, "Edited http://www.wikidata.org/entity/Q4115189 (revision 1234)")
	assert.Contains(t, out, "Label (en): Sandbox")
}

func TestEdit_NewEntityFromStdin(t *testing.T) {
	resetEditFlags(t)
	editor := &mockEditor{result: appliedResult()}
	withServices(t, Services{Editor: editor})

	_, err := runCommandWithInput(sandboxLabel, "edit", "--new", "item", "--data", "-")

	require.NoError(t, err)
	assert.Equal(t, domain.NewEntity("item"), editor.sel)
	assert.JSONEq(t, sandboxLabel, string(editor.data))
}

func TestEdit_DataFromFile(t *testing.T) {
	resetEditFlags(t)
	path := filepath.Join(t.TempDir(), "item.json")
	require.NoError(t, os.WriteFile(path, []byte(sandboxLabel), 0600))
	editor := &mockEditor{result: appliedResult()}
	withServices(t, Services{Editor: editor})

	_, err := runCommand("edit", "--site", "enwiki", "--title", "Sandbox", "--data", "@"+path)

	require.NoError(t, err)
	assert.Equal(t, domain.BySiteTitle("enwiki", "Sandbox"), editor.sel)
	assert.JSONEq(t, sandboxLabel, string(editor.data))
}

func TestEdit_JSONOutput(t *testing.T) {
	resetEditFlags(t)
	withServices(t, Services{Editor: &mockEditor{result: appliedResult()}})

	out, err := runCommand("edit", "--id", "Q4115189", "--data", sandboxLabel, "--json")

	require.NoError(t, err)
	var doc domain.EntityDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Q4115189", doc.ID)
	assert.Equal(t, int64(1234), doc.LastRevID)
}

func TestEdit_InvalidSelectorMakesNoCall(t *testing.T) {
	resetEditFlags(t)
	editor := &mockEditor{result: appliedResult()}
	withServices(t, Services{Editor: editor})

	_, err := runCommand("edit", "--id", "Q1", "--title", "Sandbox", "--data", sandboxLabel)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, editor.calls)
}

func TestEdit_InvalidJSON(t *testing.T) {
	resetEditFlags(t)
	editor := &mockEditor{}
	withServices(t, Services{Editor: editor})

	_, err := runCommand("edit", "--id", "Q1", "--data", "{labels")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, editor.calls)
}

func TestEdit_NonAppliedResults(t *testing.T) {
	tests := []struct {
		name   string
		result *domain.EditResult
		want   string
	}{
		{
			name:   "no entity",
			result: &domain.EditResult{Status: domain.EditNoEntity},
			want:   "no entity document",
		},
		{
			name:   "undecodable",
			result: &domain.EditResult{Status: domain.EditUndecodable, DecodeErr: errors.New("bad claims")},
			want:   "could not be decoded: bad claims",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetEditFlags(t)
			withServices(t, Services{Editor: &mockEditor{result: tt.result}})

			out, err := runCommand("edit", "--id", "Q1", "--data", sandboxLabel)

			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestEdit_EditConflict(t *testing.T) {
	resetEditFlags(t)
	apiErr := &domain.APIError{Code: domain.ErrorCodeEditConflict, Info: "Edit conflict."}
	withServices(t, Services{Editor: &mockEditor{err: apiErr}})

	_, err := runCommand("edit", "--id", "Q1", "--data", sandboxLabel, "--baserevid", "7")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "edit conflict on Q1 since revision 7")
	assert.True(t, domain.IsEditConflict(err))
}

func TestEdit_LogsInWithConfiguredPassword(t *testing.T) {
	resetEditFlags(t)
	settings := newMockSettings()
	settings.settings.Auth = domain.AuthSettings{Username: "Example@bot", Password: "secret"}
	session := &mockSession{}
	withServices(t, Services{Editor: &mockEditor{result: appliedResult()}, Session: session, Settings: settings})

	_, err := runCommand("edit", "--id", "Q1", "--data", sandboxLabel)

	require.NoError(t, err)
	assert.Equal(t, 1, session.logins)
	assert.Equal(t, "Example@bot", session.user)
	assert.Equal(t, "secret", session.password)
}

func TestEdit_PromptsForPassword(t *testing.T) {
	resetEditFlags(t)
	settings := newMockSettings()
	settings.settings.Auth = domain.AuthSettings{Username: "Example@bot"}
	session := &mockSession{}
	withServices(t, Services{Editor: &mockEditor{result: appliedResult()}, Session: session, Settings: settings})

	out, err := runCommandWithInput("typed-secret\n", "edit", "--id", "Q1", "--data", sandboxLabel)

	require.NoError(t, err)
	assert.Contains(t, out, "Password for Example@bot:")
	assert.Equal(t, "typed-secret", session.password)
}

func TestEdit_SkipsLoginWithOAuth(t *testing.T) {
	resetEditFlags(t)
	settings := newMockSettings()
	settings.settings.Auth = domain.AuthSettings{Username: "Example@bot", AccessToken: "token"}
	session := &mockSession{}
	withServices(t, Services{Editor: &mockEditor{result: appliedResult()}, Session: session, Settings: settings})

	_, err := runCommand("edit", "--id", "Q1", "--data", sandboxLabel)

	require.NoError(t, err)
	assert.Zero(t, session.logins)
}

func TestEdit_LoginFailureStopsEdit(t *testing.T) {
	resetEditFlags(t)
	settings := newMockSettings()
	settings.settings.Auth = domain.AuthSettings{Username: "Example@bot", Password: "wrong"}
	editor := &mockEditor{result: appliedResult()}
	withServices(t, Services{
		Editor:   editor,
		Session:  &mockSession{err: domain.ErrAuthInvalid},
		Settings: settings,
	})

	_, err := runCommand("edit", "--id", "Q1", "--data", sandboxLabel)

	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	assert.Zero(t, editor.calls)
}
