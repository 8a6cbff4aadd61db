package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GO_ENV", "PORT", "DB_DRIVER", "DATABASE_URL", "ARCHIVE_ADMIN_PASSWORD",
		"ARCHIVE_SESSION_MODE", "ARCHIVE_SESSION_SECRET", "ARCHIVE_SESSION_TTL",
		"CORS_ALLOWED_ORIGINS", "EMAIL_PROVIDER", "EMAIL_FROM_ADDRESS",
	} {
		t.Setenv(k, "")
	}
	// Skip .env lookups from the package directory.
	t.Setenv("GO_ENV", "production")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, defaultDBUrl, cfg.DBUrl)
	assert.Equal(t, "signed", cfg.SessionMode)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Empty(t, cfg.AdminPassword)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("ARCHIVE_ADMIN_PASSWORD", "pw")
	t.Setenv("ARCHIVE_SESSION_MODE", "presence")
	t.Setenv("ARCHIVE_SESSION_TTL", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, defaultSQLitePath, cfg.DBUrl)
	assert.Equal(t, "pw", cfg.AdminPassword)
	assert.Equal(t, "presence", cfg.SessionMode)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "oracle")
	_, err := Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("ARCHIVE_SESSION_TTL", "soon")
	_, err = Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("ARCHIVE_SESSION_TTL", "-1m")
	_, err = Load()
	assert.Error(t, err)
}
