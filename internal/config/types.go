package config

import "time"

// Config represents the complete .rpimon.yaml configuration file.
// Command-line flags override anything loaded from the file.
type Config struct {
	// User is the SSH username on the target host.
	User string `yaml:"user" mapstructure:"user"`

	// KeyPath is the SSH private key file. Empty means agent/default keys,
	// then an interactive password prompt.
	KeyPath string `yaml:"key" mapstructure:"key"`

	// Interval between sampling cycles in continuous mode. The next cycle
	// starts this long after the previous one completes.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// OutputDir receives the JSON snapshots and daily logs.
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`

	// ConnectTimeout bounds the TCP dial and SSH handshake.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`

	// CommandTimeout bounds each individual remote probe.
	CommandTimeout time.Duration `yaml:"command_timeout" mapstructure:"command_timeout"`

	// InsecureHostKey skips known_hosts verification when true.
	InsecureHostKey bool `yaml:"insecure_host_key" mapstructure:"insecure_host_key"`

	// Alerts holds the threshold rule set.
	Alerts Thresholds `yaml:"alerts" mapstructure:"alerts"`
}

// Thresholds are the fixed ceilings evaluated against each snapshot.
// A metric strictly above its ceiling raises a warning.
type Thresholds struct {
	// CPUTempC is the CPU temperature ceiling in degrees Celsius.
	CPUTempC float64 `yaml:"cpu_temp_c" mapstructure:"cpu_temp_c"`

	// MemoryPercent is the RAM usage ceiling.
	MemoryPercent float64 `yaml:"memory_percent" mapstructure:"memory_percent"`

	// SwapPercent is the swap usage ceiling.
	SwapPercent float64 `yaml:"swap_percent" mapstructure:"swap_percent"`

	// DiskPercent is the per-mount disk usage ceiling.
	DiskPercent float64 `yaml:"disk_percent" mapstructure:"disk_percent"`
}

// Default returns a Config with the documented defaults.
func Default() *Config {
	return &Config{
		User:           "pi",
		Interval:       5 * time.Minute,
		OutputDir:      "./rpi_logs",
		ConnectTimeout: 10 * time.Second,
		CommandTimeout: 30 * time.Second,
		Alerts: Thresholds{
			CPUTempC:      70,
			MemoryPercent: 90,
			SwapPercent:   80,
			DiskPercent:   90,
		},
	}
}
