package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"LEVELUP_API_URL", "LEVELUP_LISTEN_ADDR", "LEVELUP_REFRESH_INTERVAL",
		"LEVELUP_NOTIFICATION_TTL", "LEVELUP_HTTP_TIMEOUT", "LEVELUP_REDIS_URL",
		"LEVELUP_PROFILE", "LEVELUP_DEBUG",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultRefreshInterval, cfg.RefreshInterval)
	assert.Equal(t, DefaultNotificationTTL, cfg.NotificationTTL)
	assert.Equal(t, DefaultProfile, cfg.Profile)
	assert.Empty(t, cfg.RedisURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levelup.env")
	content := "LEVELUP_API_URL=https://levelup.example.com\nLEVELUP_REFRESH_INTERVAL=30\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv does not override variables that are already set.
	t.Setenv("LEVELUP_API_URL", "")
	t.Setenv("LEVELUP_REFRESH_INTERVAL", "")
	os.Unsetenv("LEVELUP_API_URL")
	os.Unsetenv("LEVELUP_REFRESH_INTERVAL")

	require.NoError(t, LoadEnvFile(path))
	cfg := Load()
	assert.Equal(t, "https://levelup.example.com", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)

	assert.Error(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestValidate(t *testing.T) {
	cfg := Config{APIURL: "ftp://example.com", ListenAddr: ":8090"}
	assert.Error(t, cfg.Validate())

	cfg = Config{APIURL: "http://localhost:5000"}
	assert.Error(t, cfg.Validate())
}
