package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORAGE_DRIVER", "DATA_DIR", "HASH_PASSWORDS", "LOGIN_RATE_PER_MINUTE", "ANALYTICS_TIMEZONE"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "file", cfg.StorageDriver)
	assert.Equal(t, "data", cfg.DataDir)
	assert.False(t, cfg.HashPasswords)
	assert.Equal(t, 10, cfg.LoginRatePerMinute)
	assert.Equal(t, "America/Sao_Paulo", cfg.AnalyticsTimezone)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("HASH_PASSWORDS", "true")
	t.Setenv("LOGIN_RATE_PER_MINUTE", "3")
	t.Setenv("WATCH_DATA_DIR", "nope")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.StorageDriver)
	assert.True(t, cfg.HashPasswords)
	assert.Equal(t, 3, cfg.LoginRatePerMinute)
	assert.True(t, cfg.WatchDataDir, "unparsable values fall back")
}
