package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
default_action: home
base_url: /app/
session_type: memory
session_timeout: 120
throw_exceptions: false
email_exceptions: true
email_exceptions_address: ops@example.com
routing:
  - pattern: '^/profile/(\d+)$'
    action: user
    method: view
    extra: 1
app:
  site_name: Example
  per_page: 20
`

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "index", cfg.DefaultAction)
	assert.Equal(t, "/", cfg.BaseURL)
	assert.Equal(t, SessionDB, cfg.SessionType)
	assert.Equal(t, time.Hour, cfg.Timeout())
	assert.True(t, cfg.ThrowExceptions)
	assert.True(t, cfg.LogExceptions)
	assert.False(t, cfg.EmailExceptions)
	assert.Equal(t, "var/log/exceptions.log", cfg.ExceptionLog)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "var/colony.db", cfg.Database.URL)
	assert.Equal(t, "schema_migrations", cfg.Database.MigrationsTable)
	assert.Equal(t, "template", cfg.DisplayBackend)
	assert.Equal(t, "@every 10m", cfg.SessionPurgeSchedule)
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	cfg, err := load(strings.NewReader(sampleYAML), map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "home", cfg.DefaultAction)
	assert.Equal(t, "/app/", cfg.BaseURL)
	assert.Equal(t, SessionMemory, cfg.SessionType)
	assert.Equal(t, 2*time.Minute, cfg.Timeout())
	assert.False(t, cfg.ThrowExceptions)
	assert.True(t, cfg.LogExceptions, "default kept when key is absent")
	assert.True(t, cfg.EmailExceptions)
	assert.Equal(t, "ops@example.com", cfg.EmailExceptionsAddress)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, `^/profile/(\d+)$`, rules[0].Pattern())

	assert.Equal(t, "Example", cfg.GetString("site_name", ""))
	assert.Equal(t, "fallback", cfg.GetString("missing", "fallback"))
	v, ok := cfg.Get("per_page")
	require.True(t, ok)
	assert.Equal(t, 20, v)

	data := cfg.ViewData()
	assert.Equal(t, "/app/", data["base_url"])
	assert.Equal(t, "Example", data["site_name"])
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Parallel()

	cfg, err := load(strings.NewReader(sampleYAML), map[string]string{
		"DEFAULT_ACTION":   "landing",
		"THROW_EXCEPTIONS": "true",
		"SESSION_TIMEOUT":  "60",
	})
	require.NoError(t, err)

	assert.Equal(t, "landing", cfg.DefaultAction)
	assert.True(t, cfg.ThrowExceptions)
	assert.Equal(t, time.Minute, cfg.Timeout())
	assert.Equal(t, "/app/", cfg.BaseURL, "unset variables keep file values")
}

func TestLoad_EmptyDocument(t *testing.T) {
	t.Parallel()

	cfg, err := load(strings.NewReader(""), map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "index", cfg.DefaultAction)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		env  map[string]string
	}{
		{name: "sequence root", doc: "- a\n- b\n"},
		{name: "scalar root", doc: "just text\n"},
		{name: "malformed", doc: "default_action: [\n"},
		{name: "unknown session type", doc: "session_type: file\n"},
		{name: "redis without url", doc: "session_type: redis\n"},
		{name: "db session without database", doc: "db_type: none\n"},
		{name: "zero timeout", doc: "session_timeout: 0\n"},
		{name: "bad routing pattern", doc: "routing:\n  - pattern: '('\n    action: x\n"},
		{name: "bad env value", doc: "", env: map[string]string{"SESSION_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			environ := tt.env
			if environ == nil {
				environ = map[string]string{}
			}
			_, err := load(strings.NewReader(tt.doc), environ)
			require.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "colony.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session_type: memory\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SessionMemory, cfg.SessionType)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestLoad_RedisGroup(t *testing.T) {
	t.Parallel()

	cfg, err := load(strings.NewReader("session_type: redis\nredis_url: redis://cache:6379/1\n"), map[string]string{
		"REDIS_POOL_SIZE": "25",
	})
	require.NoError(t, err)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, 25, cfg.Redis.PoolSize)
}

func TestConfig_Logger(t *testing.T) {
	t.Parallel()

	cfg, err := Default()
	require.NoError(t, err)
	cfg.LogLevel = "debug"
	cfg.SentryDSN = "https://key@sentry.example.com/1"

	lc := cfg.Logger()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, cfg.SentryDSN, lc.Sentry.DSN)
}
