package file

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a store in a temp dir that ignores the process
// environment.
func newTestStore(t *testing.T, env map[string]string) *ConfigStore {
	t.Helper()

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	store.lookup = func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".wbedit")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Empty(t, store.Keys())
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store := newTestStore(t, nil)

	require.NoError(t, store.Set("api.url", "https://test.wikidata.org/w/api.php"))
	require.NoError(t, store.Set("api.maxlag", 5))
	require.NoError(t, store.Set("auth.username", "Example@bot"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[api]")
	assert.Contains(t, content, "[auth]")
	assert.Contains(t, content, "https://test.wikidata.org/w/api.php")
	assert.NotContains(t, content, "api.url")
}

func TestConfigStore_Persistence(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("api.url", "https://wiki.example/w/api.php"))
	require.NoError(t, store.Set("api.maxlag", 3))
	require.NoError(t, store.Set("api.requests_per_second", 1.5))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	reloaded.lookup = func(string) (string, bool) { return "", false }

	assert.Equal(t, "https://wiki.example/w/api.php", reloaded.GetString("api.url"))
	assert.Equal(t, 3, reloaded.GetInt("api.maxlag"))
	val, ok := reloaded.Get("api.requests_per_second")
	assert.True(t, ok)
	assert.InDelta(t, 1.5, val, 0.0001)
	assert.Equal(t, []string{"api.maxlag", "api.requests_per_second", "api.url"}, reloaded.Keys())
}

func TestConfigStore_EnvironmentOverride(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"WBEDIT_AUTH_PASSWORD": "from-env",
		"WBEDIT_API_MAXLAG":    "9",
	})
	require.NoError(t, store.Set("auth.password", "from-file"))

	assert.Equal(t, "from-env", store.GetString("auth.password"))
	assert.Equal(t, 9, store.GetInt("api.maxlag"))

	// Overrides are not written back to the file.
	assert.Equal(t, []string{"auth.password"}, store.Keys())
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "WBEDIT_API_URL", EnvName("api.url"))
	assert.Equal(t, "WBEDIT_API_REQUESTS_PER_SECOND", EnvName("api.requests_per_second"))
	assert.Equal(t, "WBEDIT_AUTH_ACCESS_TOKEN", EnvName("auth.access-token"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestStore(t, nil)
	require.NoError(t, store.Set("flags.bot", true))
	require.NoError(t, store.Set("flags.text", "true"))
	require.NoError(t, store.Set("api.maxlag", int64(4)))

	assert.True(t, store.GetBool("flags.bot"))
	assert.True(t, store.GetBool("flags.text"))
	assert.False(t, store.GetBool("flags.missing"))
	assert.Equal(t, 4, store.GetInt("api.maxlag"))
	assert.Equal(t, 0, store.GetInt("flags.bot"))
	assert.Empty(t, store.GetString("api.maxlag"))
}

func TestConfigStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("auth.username", "Example@bot"))
	require.NoError(t, store.Set("auth.password", "secret"))

	require.NoError(t, store.Delete("auth.password"))
	require.NoError(t, store.Delete("auth.unknown"))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"auth.username"}, reloaded.Keys())
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	store := newTestStore(t, nil)
	require.NoError(t, store.Set("auth.password", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_LoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[api\nurl = "), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_LoadFlatKeys(t *testing.T) {
	dir := t.TempDir()
	content := "[api]\nurl = \"https://wiki.example/w/api.php\"\n\n[auth]\nusername = \"Example@bot\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"api.url", "auth.username"}, store.Keys())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestStore(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set("api.maxlag", 5)
			_ = store.GetInt("api.maxlag")
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, store.GetInt("api.maxlag"))
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"api.url":    "u",
		"api.maxlag": 5,
		"top":        true,
	})

	assert.Equal(t, map[string]any{
		"api": map[string]any{"url": "u", "maxlag": 5},
		"top": true,
	}, nested)

	assert.Equal(t, map[string]any{"api.url": "u", "api.maxlag": 5, "top": true}, flattenMap(nested, ""))
}
