package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Path(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "racg")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[llm\nprovider="), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "openai"))
	require.NoError(t, store.Set("repair.max_rounds", 6))
	require.NoError(t, store.Set("registry.offline", true))
	require.NoError(t, store.Set("repair.temperature", 0.3))
	require.NoError(t, store.Set("registry.requests_per_second", int64(5)))

	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.Equal(t, 6, store.GetInt("repair.max_rounds"))
	assert.True(t, store.GetBool("registry.offline"))
	assert.InDelta(t, 0.3, store.GetFloat("repair.temperature"), 1e-9)
	assert.InDelta(t, 5.0, store.GetFloat("registry.requests_per_second"), 1e-9)

	// wrong types and missing keys fall back to zero values
	assert.Equal(t, "", store.GetString("repair.max_rounds"))
	assert.Equal(t, 0, store.GetInt("llm.provider"))
	assert.False(t, store.GetBool("missing"))
	assert.Zero(t, store.GetFloat("llm.provider"))
}

func TestConfigStore_SetAll(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.SetAll(map[string]any{
		"llm.provider":      "ollama",
		"llm.model":         "qwen2.5-coder",
		"repair.max_rounds": 3,
	}))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "qwen2.5-coder", reopened.GetString("llm.model"))
	assert.Equal(t, 3, reopened.GetInt("repair.max_rounds"))
}

func TestConfigStore_SetAll_InvalidKeyWritesNothing(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.SetAll(map[string]any{"llm.model": "x", "llm.": "y"})

	require.Error(t, err)
	_, ok := store.Get("llm.model")
	assert.False(t, ok)
}

func TestConfigStore_Set_InvalidKey(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("", "x"))
	assert.Error(t, store.Set(".llm", "x"))
	assert.Error(t, store.Set("llm.", "x"))
}

func TestConfigStore_PersistsAsTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "ollama"))
	require.NoError(t, store.Set("llm.model", "qwen2.5-coder"))
	require.NoError(t, store.Set("repair.temperature", 0.2))
	require.NoError(t, store.Set("registry.cache_ttl_hours", 0))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[llm]")
	assert.Contains(t, string(raw), "[registry]")

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", reopened.GetString("llm.provider"))
	assert.Equal(t, "qwen2.5-coder", reopened.GetString("llm.model"))
	assert.Equal(t, 0, reopened.GetInt("registry.cache_ttl_hours"))
	_, exists := reopened.Get("registry.cache_ttl_hours")
	assert.True(t, exists)

	temp, ok := reopened.Get("repair.temperature")
	require.True(t, ok)
	assert.InDelta(t, 0.2, temp, 1e-9)
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[toolchain]
python = "python3.12"
rustc = "/opt/rust/bin/rustc"

[registry]
offline = true
requests_per_second = 2.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "python3.12", store.GetString("toolchain.python"))
	assert.Equal(t, "/opt/rust/bin/rustc", store.GetString("toolchain.rustc"))
	assert.True(t, store.GetBool("registry.offline"))
	assert.Equal(t, []string{
		"registry.offline",
		"registry.requests_per_second",
		"toolchain.python",
		"toolchain.rustc",
	}, store.Keys())
}

func TestConfigStore_Load_PicksUpExternalEdits(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "old"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("[llm]\nmodel = \"new\"\n"), 0600))
	require.NoError(t, store.Load())

	assert.Equal(t, "new", store.GetString("llm.model"))
}

func TestNest(t *testing.T) {
	got := nest(map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"top":   true,
	})

	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{"d": "x"},
		},
		"top": true,
	}, got)
}

func TestNest_ScalarPrefixConflict(t *testing.T) {
	got := nest(map[string]any{
		"a":   1,
		"a.b": 2,
	})

	assert.Equal(t, map[string]any{"a": 1, "a.b": 2}, got)
}

func TestFlatten(t *testing.T) {
	got := flatten(map[string]any{
		"llm": map[string]any{"provider": "openai"},
		"x":   1,
	}, "")

	assert.Equal(t, map[string]any{"llm.provider": "openai", "x": 1}, got)
}
