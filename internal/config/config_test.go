package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, AuthSession, cfg.Auth.Type)
	assert.Equal(t, SessionMemory, cfg.Auth.SessionBackend)
	assert.Equal(t, time.Duration(0), cfg.Auth.SessionTTL)
	assert.Contains(t, cfg.Auth.ExcludedPaths, "/healthz")
}

func TestLoadRejectsInvalidAuthType(t *testing.T) {
	t.Setenv("AUTH_TYPE", "oauth")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_TYPE")
}

func TestLoadRejectsInvalidSessionStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "memcached")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_STORE")
}

func TestSessionTTLAcceptsSecondsAndDurations(t *testing.T) {
	t.Setenv("SESSION_TTL", "90")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Auth.SessionTTL)

	t.Setenv("SESSION_TTL", "2h")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		User:     "gatehouse",
		Password: "s3cret",
		Name:     "gatehouse",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "db.internal:3306")
	assert.Contains(t, dsn, "gatehouse")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestDatabaseURLOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "user:pw@tcp(elsewhere:3307)/other?parseTime=true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "user:pw@tcp(elsewhere:3307)/other?parseTime=true", cfg.Database.DSN())
}

func TestExcludedPathsParsing(t *testing.T) {
	t.Setenv("EXCLUDED_PATHS", "/status, /api/* ,,/healthz")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"/status", "/api/*", "/healthz"}, cfg.Auth.ExcludedPaths)
}
