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

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"api_base_url":        "https://portal.example/",
		"logout_url":          "https://portal.example/login",
		"redirect_delay":      "750ms",
		"request_timeout":     "20s",
		"session_dsn":         "session.db",
		"device_type":         "kiosk",
		"token_verify_secret": "k",
	})
	partial := writeTempJSON(t, dir, "partial.json", map[string]any{
		"device_type": "kiosk",
	})

	t.Run("loads every key", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", full}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, Config{
			APIBaseURL:        "https://portal.example/",
			LogoutURL:         "https://portal.example/login",
			RedirectDelay:     750 * time.Millisecond,
			RequestTimeout:    20 * time.Second,
			SessionDSN:        "session.db",
			DeviceType:        "kiosk",
			TokenVerifySecret: "k",
		}, *cfg)
	})

	t.Run("absent keys keep earlier values", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "kiosk", cfg.DeviceType)
		assert.Equal(t, "http://127.0.0.1:8080/", cfg.APIBaseURL)
		assert.Equal(t, 500*time.Millisecond, cfg.RedirectDelay)
	})

	t.Run("no flags, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{APIBaseURL: "defaults"}
		parseJson(cfg)

		assert.Equal(t, "defaults", cfg.APIBaseURL)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
