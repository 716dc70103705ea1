package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("OTP_TRUST_TTL_DAYS", "")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 30*24*time.Hour, cfg.OTP.TrustTTL())
	assert.Equal(t, "notifications", cfg.Worker.Queue)
}

func TestLoadRejectsDevSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadBoardDurations(t *testing.T) {
	t.Setenv("BOARDCTL_POLL_INTERVAL", "5s")
	t.Setenv("BOARDCTL_PREFETCH_DELAY", "garbage")

	cfg := LoadBoard()
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 200*time.Millisecond, cfg.PrefetchDelay)
	assert.NotEmpty(t, cfg.SessionPath)
}
