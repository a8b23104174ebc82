package sampler

// Category identifies one group of related metrics. Categories are
// evaluated and serialized in declaration order.
type Category string

const (
	CategorySystem    Category = "system"
	CategoryCPU       Category = "cpu"
	CategoryMemory    Category = "memory"
	CategoryDisk      Category = "disk"
	CategoryNetwork   Category = "network"
	CategoryProcesses Category = "processes"
	CategoryLogs      Category = "logs"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategorySystem,
	CategoryCPU,
	CategoryMemory,
	CategoryDisk,
	CategoryNetwork,
	CategoryProcesses,
	CategoryLogs,
}

// Probe binds one fixed diagnostic command to the parser that folds its
// output into the record. Centralizing command and parser in one table is
// the contract between "what is run" and "how it is parsed"; nothing else
// builds remote command strings.
type Probe struct {
	Name     string
	Category Category
	Command  string
	Parse    func(out string, rec *Record)
}

// ProbeResult is the raw outcome of one probe. A probe whose command exited
// non-zero, produced no output, or timed out is Unavailable; its parser is
// not invoked and the cycle continues.
type ProbeResult struct {
	Probe       Probe
	Output      string
	ExitCode    int
	Unavailable bool
}

// Battery returns the fixed probe battery in execution order. Probes are
// grouped by category and run strictly sequentially so a constrained target
// is never hit by parallel diagnostics.
func Battery() []Probe {
	return []Probe{
		// system
		{Name: "uptime", Category: CategorySystem, Command: "uptime", Parse: parseUptime},
		{Name: "kernel", Category: CategorySystem, Command: "uname -r", Parse: parseKernel},
		{Name: "os_release", Category: CategorySystem, Command: "cat /etc/os-release", Parse: parseOSRelease},

		// cpu
		{Name: "cpu_usage", Category: CategoryCPU, Command: "top -bn1 | grep -i 'cpu(s)'", Parse: parseCPUUsage},
		{Name: "load_average", Category: CategoryCPU, Command: "cat /proc/loadavg", Parse: parseLoadAverage},
		{Name: "cpu_temperature", Category: CategoryCPU,
			Command: "vcgencmd measure_temp 2>/dev/null || cat /sys/class/thermal/thermal_zone0/temp",
			Parse:   parseCPUTemperature},
		{Name: "cpu_frequency", Category: CategoryCPU,
			Command: "vcgencmd measure_clock arm 2>/dev/null || cat /sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq",
			Parse:   parseCPUFrequency},

		// memory
		{Name: "memory_usage", Category: CategoryMemory, Command: "free -m", Parse: parseFree},
		{Name: "swap_usage", Category: CategoryMemory, Command: "swapon --show --noheadings", Parse: parseSwapon},

		// disk
		{Name: "disk_usage", Category: CategoryDisk, Command: "df -h", Parse: parseDiskUsage},
		{Name: "disk_io", Category: CategoryDisk, Command: "iostat -d 1 2 | tail -n +4", Parse: parseDiskIO},

		// network
		{Name: "interfaces", Category: CategoryNetwork, Command: "ip addr show", Parse: parseInterfaces},
		{Name: "connectivity", Category: CategoryNetwork, Command: "ping -c 3 -W 2 8.8.8.8", Parse: parseConnectivity},
		{Name: "connections", Category: CategoryNetwork, Command: "ss -tuln", Parse: parseConnections},

		// processes
		{Name: "top_cpu_processes", Category: CategoryProcesses,
			Command: "ps aux --sort=-%cpu | head -11", Parse: parseTopCPUProcesses},
		{Name: "top_memory_processes", Category: CategoryProcesses,
			Command: "ps aux --sort=-%mem | head -11", Parse: parseTopMemoryProcesses},
		{Name: "process_count", Category: CategoryProcesses, Command: "ps aux | wc -l", Parse: parseProcessCount},
		{Name: "failed_services", Category: CategoryProcesses,
			Command: "systemctl --failed --no-legend", Parse: parseFailedServices},

		// logs
		{Name: "kernel_errors", Category: CategoryLogs,
			Command: "dmesg | grep -i error | tail -10", Parse: parseKernelErrors},
		{Name: "syslog_errors", Category: CategoryLogs,
			Command: "journalctl --since '1 hour ago' -p err --no-pager | tail -20", Parse: parseSyslogErrors},
	}
}
