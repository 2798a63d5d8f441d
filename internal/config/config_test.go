package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateConfigDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolateConfigDir(t)

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tasklog", "tasks.db"), cfg.DBPath)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.List.NullsLast)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("TASKLOG_DB", ":memory:")
	t.Setenv("TASKLOG_LOG_LEVEL", "debug")
	t.Setenv("TASKLOG_LIST_NULLS_LAST", "true")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.List.NullsLast)
}

func TestLoadDiscoversUserConfigFile(t *testing.T) {
	dir := isolateConfigDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tasklog"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasklog", "config.yaml"), []byte(
		"db: /tmp/elsewhere.db\nlog:\n  format: json\nlist:\n  nulls_last: true\n",
	), 0o600))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.db", cfg.DBPath)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.List.NullsLast)
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	dir := isolateConfigDir(t)

	_, err := Load(New(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("TASKLOG_LOG_FORMAT", "xml")

	_, err := Load(New(), "")
	require.ErrorContains(t, err, "unsupported log format")
}
