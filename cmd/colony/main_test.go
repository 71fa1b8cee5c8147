package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
default_action: home
session_type: db
db_type: sqlite
database_url: %s
routing:
  - pattern: '^/profile/(\d+)$'
    action: user
    method: view
    extra: 1
  - pattern: '/archive/(\d{4})/(\d{2})'
    action: blog
    method: archive
    extra: [1, 2]
`

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func sqliteConfig(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "colony.db")
	return writeConfig(t, fmt.Sprintf(testConfig, dbPath))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoutesCommand(t *testing.T) {
	t.Parallel()

	cfg := sqliteConfig(t)

	out, err := run(t, "routes", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "PATTERN")
	assert.Contains(t, out, `^/profile/(\d+)$`)
	assert.Contains(t, out, "$1,$2")

	out, err = run(t, "routes", "-c", cfg, "--format", "json")
	require.NoError(t, err)

	var rules []ruleView
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	require.Len(t, rules, 2)
	assert.Equal(t, ruleView{Pattern: `^/profile/(\d+)$`, Action: "user", Method: "view", Extra: []string{"$1"}}, rules[0])
}

func TestRoutesCommand_NoRules(t *testing.T) {
	t.Parallel()

	out, err := run(t, "routes", "-c", writeConfig(t, "session_type: memory\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "no routing rules")
}

func TestMatchCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "match", "-c", sqliteConfig(t), "--format", "json", "/profile/17", "/archive/2024/05", "/", "/user/edit/42")
	require.NoError(t, err)

	var routes []routeView
	require.NoError(t, json.Unmarshal([]byte(out), &routes))
	require.Len(t, routes, 4)
	assert.Equal(t, routeView{Path: "/profile/17", Action: "user", Method: "view", Extra: []string{"17"}}, routes[0])
	assert.Equal(t, []string{"2024", "05"}, routes[1].Extra)
	assert.Equal(t, routeView{Path: "/", Action: "home"}, routes[2])
	assert.Equal(t, routeView{Path: "/user/edit/42", Action: "user", Method: "edit", Extra: []string{"42"}}, routes[3])
}

func TestConfigCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "config", "-c", sqliteConfig(t), "--format", "json")
	require.NoError(t, err)

	var settings map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &settings))
	assert.Equal(t, "home", settings["default_action"])
	assert.Equal(t, "db", settings["session_type"])
	assert.NotContains(t, settings, "Resend")

	out, err = run(t, "config", "-c", sqliteConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "default_action: home")
}

func TestConfigCommand_Invalid(t *testing.T) {
	t.Parallel()

	_, err := run(t, "config", "-c", writeConfig(t, "session_type: cookies\n"))
	require.Error(t, err)

	_, err = run(t, "config", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestInvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := run(t, "routes", "--format", "xml")
	require.ErrorContains(t, err, "invalid format")
}

func TestMigrateAndPurge(t *testing.T) {
	t.Parallel()

	cfg := sqliteConfig(t)

	out, err := run(t, "migrate", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied to sqlite database")

	out, err = run(t, "migrate", "-c", cfg)
	require.NoError(t, err, "migrations are idempotent")
	assert.NotEmpty(t, out)

	out, err = run(t, "purge", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "purged 0 expired sessions\n", out)
}

func TestPurge_MemorySessions(t *testing.T) {
	t.Parallel()

	_, err := run(t, "purge", "-c", writeConfig(t, "session_type: memory\n"))
	require.ErrorIs(t, err, errMemorySessions)
}
