package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
db_path: /tmp/sunrise.db
check_in_days: 7
log:
  level: debug
`)
	t.Setenv("SUNRISE_LEVEL_UP_THRESHOLD", "90")
	t.Setenv("SUNRISE_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sunrise.db", cfg.DBPath)
	assert.Equal(t, 7, cfg.CheckInDays)
	assert.Equal(t, 90, cfg.LevelUpThreshold)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for _, body := range []string{
		"check_in_days: 0\n",
		"level_up_threshold: 120\n",
		"log:\n  format: xml\n",
		"log:\n  level: loud\n",
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, body)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "info", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
