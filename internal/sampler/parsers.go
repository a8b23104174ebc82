package sampler

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parsers are pure text-to-structure transformations over known command
// output formats. They tolerate missing optional columns and degrade to
// leaving the field nil rather than failing the cycle. A field that parses
// successfully marks its category available.

// parsePercent parses a percentage into the [0,100] range. Accepts "85%",
// "85", and fractional forms like "0.42" (scaled by 100). Values outside
// [0,100] after normalization are a parse failure, not clamped.
func parsePercent(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	hadSign := strings.HasSuffix(raw, "%")
	raw = strings.TrimSuffix(raw, "%")

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a numeric percentage: %q", raw)
	}
	if !hadSign && v > 0 && v < 1 {
		v *= 100
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("percentage out of range: %v", v)
	}
	return v, nil
}

// nonEmptyLines splits output into trimmed, non-empty lines.
func nonEmptyLines(out string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// system

func parseUptime(out string, rec *Record) {
	if s := strings.TrimSpace(out); s != "" {
		rec.System.Uptime = s
		rec.System.Available = true
	}
}

func parseKernel(out string, rec *Record) {
	if s := strings.TrimSpace(out); s != "" {
		rec.System.KernelVersion = s
		rec.System.Available = true
	}
}

func parseOSRelease(out string, rec *Record) {
	for _, line := range nonEmptyLines(out) {
		if !strings.HasPrefix(line, "PRETTY_NAME=") {
			continue
		}
		name := strings.TrimPrefix(line, "PRETTY_NAME=")
		name = strings.Trim(name, `"`)
		if name != "" {
			rec.System.OSVersion = name
			rec.System.Available = true
		}
		return
	}
}

// cpu

// cpuIdleRe matches the idle field of a top summary line in both classic
// ("94.2%id") and modern ("94.2 id") formats.
var cpuIdleRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*%?\s*id`)

func parseCPUUsage(out string, rec *Record) {
	match := cpuIdleRe.FindStringSubmatch(out)
	if match == nil {
		return
	}
	idle, err := strconv.ParseFloat(match[1], 64)
	if err != nil || idle < 0 || idle > 100 {
		return
	}
	usage := 100 - idle
	rec.CPU.UsagePercent = &usage
	rec.CPU.Available = true
}

func parseLoadAverage(out string, rec *Record) {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) < 3 {
		return
	}
	var loads [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return
		}
		loads[i] = v
	}
	rec.CPU.LoadAverage = &LoadAverages{Load1: loads[0], Load5: loads[1], Load15: loads[2]}
	rec.CPU.Available = true
}

// parseCPUTemperature handles both vcgencmd ("temp=48.3'C") and sysfs
// thermal zone output (millidegrees, e.g. "48312").
func parseCPUTemperature(out string, rec *Record) {
	s := strings.TrimSpace(out)
	if strings.HasPrefix(s, "temp=") {
		s = strings.TrimPrefix(s, "temp=")
		s = strings.TrimSuffix(s, "'C")
		s = strings.TrimSuffix(s, "°C")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return
	}
	// Thermal zones report millidegrees; anything above a plausible
	// Celsius reading is scaled down.
	if v > 200 {
		v /= 1000
	}
	rec.CPU.TemperatureC = &v
	rec.CPU.Available = true
}

// parseCPUFrequency handles vcgencmd ("frequency(48)=600169920", Hz) and
// sysfs scaling_cur_freq (kHz).
func parseCPUFrequency(out string, rec *Record) {
	s := strings.TrimSpace(out)
	scale := int64(1000) // sysfs value is kHz
	if eq := strings.LastIndex(s, "="); eq != -1 {
		s = s[eq+1:]
		scale = 1 // vcgencmd value is already Hz
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v <= 0 {
		return
	}
	hz := v * scale
	rec.CPU.FrequencyHz = &hz
	rec.CPU.Available = true
}

// memory

// parseFree reads the Mem row of `free -m`:
//
//	              total  used  free  shared  buff/cache  available
//	Mem:           3794   512  2100      40        1182       3100
func parseFree(out string, rec *Record) {
	for _, line := range nonEmptyLines(out) {
		if !strings.HasPrefix(line, "Mem:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return
		}
		total, err1 := strconv.ParseInt(fields[1], 10, 64)
		used, err2 := strconv.ParseInt(fields[2], 10, 64)
		free, err3 := strconv.ParseInt(fields[3], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || total <= 0 {
			return
		}
		avail := free
		if len(fields) > 6 {
			if v, err := strconv.ParseInt(fields[6], 10, 64); err == nil {
				avail = v
			}
		}
		pct := float64(used) / float64(total) * 100
		if pct < 0 || pct > 100 {
			return
		}
		rec.Memory.RAM = &RAMUsage{
			TotalMB:      total,
			UsedMB:       used,
			FreeMB:       free,
			AvailableMB:  avail,
			UsagePercent: pct,
		}
		rec.Memory.Available = true
		return
	}
}

// parseSwapon reads the first device row of `swapon --show --noheadings`:
//
//	/var/swap file 512M 45.2M -2
func parseSwapon(out string, rec *Record) {
	lines := nonEmptyLines(out)
	if len(lines) == 0 {
		return
	}
	fields := strings.Fields(lines[0])
	if len(fields) < 4 {
		return
	}
	size, err1 := parseByteSize(fields[2])
	used, err2 := parseByteSize(fields[3])
	if err1 != nil || err2 != nil || size <= 0 {
		return
	}
	pct := used / size * 100
	if pct < 0 || pct > 100 {
		return
	}
	rec.Memory.Swap = &SwapUsage{
		Size:         fields[2],
		Used:         fields[3],
		UsagePercent: pct,
	}
	rec.Memory.Available = true
}

// parseByteSize parses human-readable sizes like "512M", "1.5G", "0B".
func parseByteSize(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}
	multipliers := map[byte]float64{
		'B': 1,
		'K': 1 << 10,
		'M': 1 << 20,
		'G': 1 << 30,
		'T': 1 << 40,
	}
	mult := 1.0
	last := s[len(s)-1]
	if m, ok := multipliers[last]; ok {
		mult = m
		s = s[:len(s)-1]
		// df/swapon may print "1.5Gi"; the trailing 'i' lands before the
		// unit letter only in "Gi" style, so strip a leftover 'i' too.
		s = strings.TrimSuffix(s, "i")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v * mult, nil
}

// disk

// parseDiskUsage reads `df -h` rows for /dev-backed filesystems.
func parseDiskUsage(out string, rec *Record) {
	var mounts []MountUsage
	lines := nonEmptyLines(out)
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		fields := strings.Fields(line)
		if len(fields) < 6 || !strings.HasPrefix(fields[0], "/dev/") {
			continue
		}
		pct, err := parsePercent(fields[4])
		if err != nil {
			continue
		}
		mounts = append(mounts, MountUsage{
			Device:       fields[0],
			Size:         fields[1],
			Used:         fields[2],
			AvailableStr: fields[3],
			UsagePercent: pct,
			MountPoint:   fields[5],
		})
	}
	if len(mounts) > 0 {
		rec.Disk.Mounts = mounts
		rec.Disk.Available = true
	}
}

func parseDiskIO(out string, rec *Record) {
	lines := nonEmptyLines(out)
	if len(lines) > 0 {
		rec.Disk.IOStats = lines
		rec.Disk.Available = true
	}
}

// network

// ifaceHeaderRe matches `ip addr show` interface headers:
//
//	2: eth0: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1500 ... state UP ...
var ifaceHeaderRe = regexp.MustCompile(`^\d+:\s+([^:@]+)[@:].*state\s+(\S+)`)

func parseInterfaces(out string, rec *Record) {
	var interfaces []Interface
	var current *Interface

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if match := ifaceHeaderRe.FindStringSubmatch(line); match != nil {
			interfaces = append(interfaces, Interface{
				Name:  strings.TrimSpace(match[1]),
				State: match[2],
			})
			current = &interfaces[len(interfaces)-1]
			continue
		}
		if current == nil {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && (fields[0] == "inet" || fields[0] == "inet6") {
			current.Addresses = append(current.Addresses, fields[1])
		}
	}

	if len(interfaces) > 0 {
		rec.Network.Interfaces = interfaces
		rec.Network.Available = true
	}
}

func parseConnectivity(out string, rec *Record) {
	connected := strings.Contains(out, " 0% packet loss") ||
		strings.Contains(out, "3 received") ||
		strings.Contains(out, "3 packets received")
	rec.Network.InternetConnected = &connected
	rec.Network.Available = true
}

func parseConnections(out string, rec *Record) {
	lines := nonEmptyLines(out)
	if len(lines) == 0 {
		return
	}
	count := len(lines) - 1 // header row
	if count < 0 {
		count = 0
	}
	rec.Network.ActiveConnections = &count
	rec.Network.Available = true
}

// processes

// parsePSRows parses `ps aux` output, skipping the header and any row that
// does not fit the expected column layout.
func parsePSRows(out string) []ProcessSample {
	var samples []ProcessSample
	lines := nonEmptyLines(out)
	for i, line := range lines {
		if i == 0 && strings.HasPrefix(line, "USER") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 11 {
			continue
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		cpu, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			continue
		}
		mem, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}
		command := strings.Join(fields[10:], " ")
		if len(command) > 60 {
			command = command[:57] + "..."
		}
		samples = append(samples, ProcessSample{
			User:       fields[0],
			PID:        pid,
			CPUPercent: cpu,
			MemPercent: mem,
			Command:    command,
		})
	}
	return samples
}

func parseTopCPUProcesses(out string, rec *Record) {
	if samples := parsePSRows(out); len(samples) > 0 {
		rec.Processes.TopCPU = samples
		rec.Processes.Available = true
	}
}

func parseTopMemoryProcesses(out string, rec *Record) {
	if samples := parsePSRows(out); len(samples) > 0 {
		rec.Processes.TopMemory = samples
		rec.Processes.Available = true
	}
}

func parseProcessCount(out string, rec *Record) {
	v, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil || v < 1 {
		return
	}
	total := v - 1 // header row
	rec.Processes.Total = &total
	rec.Processes.Available = true
}

func parseFailedServices(out string, rec *Record) {
	var units []string
	for _, line := range nonEmptyLines(out) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		unit := fields[0]
		// systemctl may prefix failed units with a bullet.
		if (unit == "●" || unit == "*") && len(fields) > 1 {
			unit = fields[1]
		}
		units = append(units, unit)
	}
	if len(units) > 0 {
		rec.Processes.FailedServices = units
		rec.Processes.Available = true
	}
}

// logs

func parseKernelErrors(out string, rec *Record) {
	if lines := nonEmptyLines(out); len(lines) > 0 {
		rec.Logs.KernelErrors = lines
		rec.Logs.Available = true
	}
}

func parseSyslogErrors(out string, rec *Record) {
	lines := nonEmptyLines(out)
	// journalctl prints "-- No entries --" when the window is clean.
	if len(lines) == 1 && strings.Contains(lines[0], "No entries") {
		return
	}
	if len(lines) > 0 {
		rec.Logs.SyslogErrors = lines
		rec.Logs.Available = true
	}
}
