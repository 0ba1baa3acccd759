package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_loadJSON(t *testing.T) {
	dir := t.TempDir()

	t.Run("overlays present keys only", func(t *testing.T) {
		path := writeTempJSON(t, dir, "partial.json", map[string]any{
			"api_url":         "https://api.example.com",
			"request_timeout": 2000000000,
			"session_key":     "s3cret",
		})

		cfg := &Config{LogLevel: "info", OAuthCallbackAddr: "127.0.0.1:1"}
		require.NoError(t, loadJSON(path, cfg))

		assert.Equal(t, "https://api.example.com", cfg.APIURL)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "s3cret", cfg.SessionKey)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "127.0.0.1:1", cfg.OAuthCallbackAddr)
	})

	t.Run("missing file", func(t *testing.T) {
		err := loadJSON(filepath.Join(dir, "nope.json"), &Config{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		assert.Error(t, loadJSON(bad, &Config{}))
	})

	t.Run("invalid duration", func(t *testing.T) {
		path := writeTempJSON(t, dir, "dur.json", map[string]any{"request_timeout": "later"})
		assert.Error(t, loadJSON(path, &Config{}))
	})
}
