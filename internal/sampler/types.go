package sampler

import "time"

// Record is the aggregate health snapshot for one sampling cycle. Field
// order matches category declaration order, which fixes the JSON key order.
// A category whose probes failed is present with Available=false, never
// omitted. Optional numeric fields are pointers: nil means the value could
// not be collected or parsed, which is distinct from a genuine zero.
type Record struct {
	Timestamp time.Time      `json:"timestamp"`
	Hostname  string         `json:"hostname"`
	Degraded  bool           `json:"degraded,omitempty"`
	Note      string         `json:"note,omitempty"`
	Alerts    []Alert        `json:"alerts"`
	System    SystemMetrics  `json:"system_metrics"`
	CPU       CPUMetrics     `json:"cpu_metrics"`
	Memory    MemoryMetrics  `json:"memory_metrics"`
	Disk      DiskMetrics    `json:"disk_metrics"`
	Network   NetworkMetrics `json:"network_metrics"`
	Processes ProcessMetrics `json:"process_metrics"`
	Logs      LogMetrics     `json:"log_metrics"`
}

// NewRecord returns a snapshot with every category marked unavailable.
func NewRecord(hostname string, now time.Time) *Record {
	return &Record{
		Timestamp: now,
		Hostname:  hostname,
		Alerts:    []Alert{},
	}
}

// Alert is one threshold violation: severity, category, a stable tag for
// filtering, and a human-readable message.
type Alert struct {
	Severity string   `json:"severity"`
	Category Category `json:"category"`
	Tag      string   `json:"tag"`
	Message  string   `json:"message"`
}

// SystemMetrics holds general host information.
type SystemMetrics struct {
	Available     bool   `json:"available"`
	Uptime        string `json:"uptime,omitempty"`
	KernelVersion string `json:"kernel_version,omitempty"`
	OSVersion     string `json:"os_version,omitempty"`
}

// CPUMetrics holds usage, temperature, frequency, and load averages.
type CPUMetrics struct {
	Available    bool          `json:"available"`
	UsagePercent *float64      `json:"usage_percent,omitempty"`
	TemperatureC *float64      `json:"temperature_c,omitempty"`
	FrequencyHz  *int64        `json:"frequency_hz,omitempty"`
	LoadAverage  *LoadAverages `json:"load_average,omitempty"`
}

// LoadAverages are the 1/5/15 minute load figures.
type LoadAverages struct {
	Load1  float64 `json:"1min"`
	Load5  float64 `json:"5min"`
	Load15 float64 `json:"15min"`
}

// MemoryMetrics holds RAM and swap usage.
type MemoryMetrics struct {
	Available bool       `json:"available"`
	RAM       *RAMUsage  `json:"ram,omitempty"`
	Swap      *SwapUsage `json:"swap,omitempty"`
}

// RAMUsage is physical memory usage in megabytes plus a derived percentage.
type RAMUsage struct {
	TotalMB      int64   `json:"total_mb"`
	UsedMB       int64   `json:"used_mb"`
	FreeMB       int64   `json:"free_mb"`
	AvailableMB  int64   `json:"available_mb"`
	UsagePercent float64 `json:"usage_percent"`
}

// SwapUsage is swap device usage.
type SwapUsage struct {
	Size         string  `json:"size"`
	Used         string  `json:"used"`
	UsagePercent float64 `json:"usage_percent"`
}

// DiskMetrics holds per-mount usage and raw I/O statistics lines.
type DiskMetrics struct {
	Available bool         `json:"available"`
	Mounts    []MountUsage `json:"mounts,omitempty"`
	IOStats   []string     `json:"io_stats,omitempty"`
}

// MountUsage is one df row for a /dev-backed filesystem.
type MountUsage struct {
	Device       string  `json:"device"`
	Size         string  `json:"size"`
	Used         string  `json:"used"`
	AvailableStr string  `json:"available"`
	UsagePercent float64 `json:"usage_percent"`
	MountPoint   string  `json:"mount_point"`
}

// NetworkMetrics holds interface states, a connectivity check, and the
// active connection count.
type NetworkMetrics struct {
	Available         bool        `json:"available"`
	Interfaces        []Interface `json:"interfaces,omitempty"`
	InternetConnected *bool       `json:"internet_connected,omitempty"`
	ActiveConnections *int        `json:"active_connections,omitempty"`
}

// Interface is one network interface with its operational state and
// assigned addresses.
type Interface struct {
	Name      string   `json:"name"`
	State     string   `json:"state"`
	Addresses []string `json:"addresses,omitempty"`
}

// ProcessMetrics holds process and service information.
type ProcessMetrics struct {
	Available      bool            `json:"available"`
	TopCPU         []ProcessSample `json:"top_cpu,omitempty"`
	TopMemory      []ProcessSample `json:"top_memory,omitempty"`
	Total          *int            `json:"total,omitempty"`
	FailedServices []string        `json:"failed_services,omitempty"`
}

// ProcessSample is one ps row.
type ProcessSample struct {
	User       string  `json:"user"`
	PID        int     `json:"pid"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"mem_percent"`
	Command    string  `json:"command"`
}

// LogMetrics holds recent error lines from kernel and system logs.
type LogMetrics struct {
	Available    bool     `json:"available"`
	KernelErrors []string `json:"kernel_errors,omitempty"`
	SyslogErrors []string `json:"syslog_errors,omitempty"`
}
