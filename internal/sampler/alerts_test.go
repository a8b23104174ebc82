package sampler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khi48/rpimon/internal/config"
)

func defaultThresholds() config.Thresholds {
	return config.Default().Alerts
}

func recordWithCPUTemp(temp float64) *Record {
	rec := NewRecord("testhost", time.Now())
	rec.CPU.Available = true
	rec.CPU.TemperatureC = &temp
	return rec
}

func TestEvaluateAlertsCPUTemperature(t *testing.T) {
	alerts := EvaluateAlerts(recordWithCPUTemp(75), defaultThresholds())

	require.Len(t, alerts, 1)
	assert.Equal(t, "warning", alerts[0].Severity)
	assert.Equal(t, CategoryCPU, alerts[0].Category)
	assert.Equal(t, "cpu_temperature", alerts[0].Tag)
	assert.Contains(t, alerts[0].Message, "75.0")
}

func TestEvaluateAlertsCPUTempAtThresholdNoAlert(t *testing.T) {
	// Strictly above the ceiling raises; equal does not.
	alerts := EvaluateAlerts(recordWithCPUTemp(70), defaultThresholds())

	assert.Empty(t, alerts)
}

func TestEvaluateAlertsMemory(t *testing.T) {
	rec := NewRecord("testhost", time.Now())
	rec.Memory.Available = true
	rec.Memory.RAM = &RAMUsage{TotalMB: 1000, UsedMB: 950, UsagePercent: 95}

	alerts := EvaluateAlerts(rec, defaultThresholds())
	require.Len(t, alerts, 1)
	assert.Equal(t, "memory_usage", alerts[0].Tag)

	rec.Memory.RAM.UsagePercent = 85
	assert.Empty(t, EvaluateAlerts(rec, defaultThresholds()))
}

func TestEvaluateAlertsDiskPerMount(t *testing.T) {
	rec := NewRecord("testhost", time.Now())
	rec.Disk.Available = true
	rec.Disk.Mounts = []MountUsage{
		{Device: "/dev/root", MountPoint: "/", UsagePercent: 95},
		{Device: "/dev/mmcblk0p1", MountPoint: "/boot", UsagePercent: 12},
		{Device: "/dev/sda1", MountPoint: "/data", UsagePercent: 99},
	}

	alerts := EvaluateAlerts(rec, defaultThresholds())

	require.Len(t, alerts, 2)
	assert.Contains(t, alerts[0].Message, "on /")
	assert.Contains(t, alerts[1].Message, "on /data")
}

func TestEvaluateAlertsUnavailableMetricsNeverAlert(t *testing.T) {
	rec := NewRecord("testhost", time.Now())
	// Everything unavailable, even with thresholds at zero.
	alerts := EvaluateAlerts(rec, config.Thresholds{})

	assert.Empty(t, alerts)
}

func TestEvaluateAlertsOrderAndDeterminism(t *testing.T) {
	temp := 80.0
	rec := NewRecord("testhost", time.Now())
	rec.CPU.Available = true
	rec.CPU.TemperatureC = &temp
	rec.Memory.Available = true
	rec.Memory.RAM = &RAMUsage{UsagePercent: 95}
	rec.Memory.Swap = &SwapUsage{UsagePercent: 90}
	rec.Disk.Available = true
	rec.Disk.Mounts = []MountUsage{{MountPoint: "/", UsagePercent: 95}}

	first := EvaluateAlerts(rec, defaultThresholds())
	second := EvaluateAlerts(rec, defaultThresholds())

	require.Equal(t, first, second)
	tags := []string{}
	for _, a := range first {
		tags = append(tags, a.Tag)
	}
	assert.Equal(t, []string{"cpu_temperature", "memory_usage", "swap_usage", "disk_usage"}, tags)
}
