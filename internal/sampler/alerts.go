package sampler

import (
	"fmt"

	"github.com/khi48/rpimon/internal/config"
)

// EvaluateAlerts applies the threshold rule set to a snapshot and returns
// the violations in category declaration order. The function is pure: the
// same record and thresholds always produce the same alerts, in the same
// order. Unavailable metrics never raise alerts.
func EvaluateAlerts(rec *Record, t config.Thresholds) []Alert {
	alerts := []Alert{}

	if rec.CPU.Available && rec.CPU.TemperatureC != nil && *rec.CPU.TemperatureC > t.CPUTempC {
		alerts = append(alerts, Alert{
			Severity: "warning",
			Category: CategoryCPU,
			Tag:      "cpu_temperature",
			Message:  fmt.Sprintf("CPU temperature %.1f°C exceeds %.1f°C", *rec.CPU.TemperatureC, t.CPUTempC),
		})
	}

	if rec.Memory.Available && rec.Memory.RAM != nil && rec.Memory.RAM.UsagePercent > t.MemoryPercent {
		alerts = append(alerts, Alert{
			Severity: "warning",
			Category: CategoryMemory,
			Tag:      "memory_usage",
			Message:  fmt.Sprintf("memory usage %.1f%% exceeds %.1f%%", rec.Memory.RAM.UsagePercent, t.MemoryPercent),
		})
	}

	if rec.Memory.Available && rec.Memory.Swap != nil && rec.Memory.Swap.UsagePercent > t.SwapPercent {
		alerts = append(alerts, Alert{
			Severity: "warning",
			Category: CategoryMemory,
			Tag:      "swap_usage",
			Message:  fmt.Sprintf("swap usage %.1f%% exceeds %.1f%%", rec.Memory.Swap.UsagePercent, t.SwapPercent),
		})
	}

	if rec.Disk.Available {
		for _, mount := range rec.Disk.Mounts {
			if mount.UsagePercent > t.DiskPercent {
				alerts = append(alerts, Alert{
					Severity: "warning",
					Category: CategoryDisk,
					Tag:      "disk_usage",
					Message: fmt.Sprintf("disk usage %.1f%% on %s exceeds %.1f%%",
						mount.UsagePercent, mount.MountPoint, t.DiskPercent),
				})
			}
		}
	}

	return alerts
}
