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

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()

	t.Run("loads every key", func(t *testing.T) {
		path := writeTempJSON(t, dir, "full.json", map[string]any{
			"endpoint_addr":                  ":9999",
			"database_dsn":                   "postgres://json",
			"secret_key":                     "k",
			"access_token_validity_duration": "45m",
			"otp_validity_duration":          "3m",
			"redis_url":                      "redis://json:6379/0",
			"otp_rate_limit":                 2,
			"otp_rate_window":                "1h",
		})
		os.Args = []string{"testbin", "-config", path}

		c := &Config{}
		parseJson(c)

		assert.Equal(t, Config{
			EndpointAddr:                ":9999",
			DatabaseDSN:                 "postgres://json",
			SecretKey:                   "k",
			AccessTokenValidityDuration: 45 * time.Minute,
			OTPValidityDuration:         3 * time.Minute,
			RedisURL:                    "redis://json:6379/0",
			OTPRateLimit:                2,
			OTPRateWindow:               time.Hour,
		}, *c)
	})

	t.Run("absent keys keep earlier values", func(t *testing.T) {
		path := writeTempJSON(t, dir, "partial.json", map[string]any{"otp_rate_limit": 9})
		os.Args = []string{"testbin", "-c", path}

		c := &Config{}
		c.LoadDefaults()
		parseJson(c)

		assert.Equal(t, 9, c.OTPRateLimit)
		assert.Equal(t, ":8080", c.EndpointAddr)
		assert.Equal(t, 5*time.Minute, c.OTPValidityDuration)
	})

	t.Run("no flags, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		c := &Config{SecretKey: "defaults"}
		parseJson(c)

		assert.Equal(t, "defaults", c.SecretKey)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
