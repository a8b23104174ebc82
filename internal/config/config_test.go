package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khi48/rpimon/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "pi", cfg.User)
	assert.Equal(t, 5*time.Minute, cfg.Interval)
	assert.Equal(t, "./rpi_logs", cfg.OutputDir)
	assert.Equal(t, float64(70), cfg.Alerts.CPUTempC)
	assert.Equal(t, float64(90), cfg.Alerts.MemoryPercent)
	assert.Equal(t, float64(80), cfg.Alerts.SwapPercent)
	assert.Equal(t, float64(90), cfg.Alerts.DiskPercent)
}

func TestLoadMergesDefaults(t *testing.T) {
	path := writeConfig(t, "user: admin\nalerts:\n  memory_percent: 85\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.User)
	assert.Equal(t, float64(85), cfg.Alerts.MemoryPercent)
	// Untouched values keep their defaults.
	assert.Equal(t, float64(70), cfg.Alerts.CPUTempC)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
}

func TestLoadParsesDurations(t *testing.T) {
	path := writeConfig(t, "interval: 90s\nconnect_timeout: 3s\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Interval)
	assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "user: [unclosed\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(oldWd) })

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default().Alerts, cfg.Alerts)
}
