package sampler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khi48/rpimon/internal/logger"
)

func TestStorePersistWritesJSONAndDailyLog(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, logger.Noop())

	rec := NewRecord("raspberrypi.local", time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC))
	rec.System.Available = true
	rec.System.Uptime = "up 1 day"

	path, err := store.Persist(rec)
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(dir, "health_check_raspberrypi.local_20250601_123045.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Record
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "raspberrypi.local", got.Hostname)
	assert.True(t, got.System.Available)
	assert.False(t, got.CPU.Available)

	logData, err := os.ReadFile(filepath.Join(dir, "monitor_raspberrypi.local_20250601.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "2025-06-01 12:30:45 OK")
}

func TestStorePersistTwoCyclesSameDay(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, logger.Noop())

	first := NewRecord("pi", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	second := NewRecord("pi", time.Date(2025, 6, 1, 8, 5, 0, 0, time.UTC))
	temp := 80.0
	second.CPU.Available = true
	second.CPU.TemperatureC = &temp
	second.Alerts = []Alert{{Severity: "warning", Category: CategoryCPU,
		Tag: "cpu_temperature", Message: "CPU temperature 80.0°C exceeds 70.0°C"}}

	_, err := store.Persist(first)
	require.NoError(t, err)
	_, err = store.Persist(second)
	require.NoError(t, err)

	snapshots, err := filepath.Glob(filepath.Join(dir, "health_check_pi_*.json"))
	require.NoError(t, err)
	assert.Len(t, snapshots, 2)

	logData, err := os.ReadFile(filepath.Join(dir, "monitor_pi_20250601.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(logData)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "OK")
	assert.Contains(t, lines[1], "WARNING: CPU temperature")
}

func TestStorePersistSanitizesHostname(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, logger.Noop())

	rec := NewRecord("pi@10.0.0.5:2222", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	path, err := store.Persist(rec)

	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(dir, "health_check_pi_10.0.0.5_2222_20250601_090000.json"), path)
}

func TestStorePersistCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	store := NewStore(dir, logger.Noop())

	_, err := store.Persist(NewRecord("pi", time.Now()))

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStorePersistUnwritableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	store := NewStore(filepath.Join(dir, "out"), logger.Noop())
	_, err := store.Persist(NewRecord("pi", time.Now()))

	assert.Error(t, err)
}

func TestSummaryLineDegraded(t *testing.T) {
	rec := NewRecord("pi", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	rec.Degraded = true
	rec.Note = "connection lost mid-cycle"

	line := summaryLine(rec)

	assert.Equal(t, "2025-06-01 10:00:00 DEGRADED (connection lost mid-cycle)", line)
}
