// Package ui renders console output for sampling cycles: colored status
// markers and a one-line summary per snapshot.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/khi48/rpimon/internal/sampler"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noColor     = termenv.EnvNoColor()
)

func render(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

// Ok formats a success marker.
func Ok(s string) string { return render(okStyle, s) }

// Warn formats a warning marker.
func Warn(s string) string { return render(warnStyle, s) }

// Err formats an error marker.
func Err(s string) string { return render(errStyle, s) }

// Subtle formats de-emphasized detail text.
func Subtle(s string) string { return render(subtleStyle, s) }

// CycleSummary renders one console line for a persisted snapshot: status,
// host, the headline metrics that parsed, and any alerts.
func CycleSummary(rec *sampler.Record, path string) string {
	var b strings.Builder

	switch {
	case rec.Note != "" && !rec.Degraded:
		b.WriteString(render(errStyle, "FAIL"))
	case rec.Degraded:
		b.WriteString(render(warnStyle, "DEGRADED"))
	case len(rec.Alerts) > 0:
		b.WriteString(render(warnStyle, "WARN"))
	default:
		b.WriteString(render(okStyle, "OK"))
	}

	b.WriteString(" ")
	b.WriteString(rec.Hostname)

	if detail := headline(rec); detail != "" {
		b.WriteString("  ")
		b.WriteString(render(subtleStyle, detail))
	}

	for _, alert := range rec.Alerts {
		b.WriteString("\n  ")
		b.WriteString(render(warnStyle, "warning: "+alert.Message))
	}

	if path != "" {
		b.WriteString("\n  ")
		b.WriteString(render(subtleStyle, "saved "+path))
	}
	return b.String()
}

// headline picks the most useful parsed metrics for the summary line.
func headline(rec *sampler.Record) string {
	var parts []string
	if rec.CPU.TemperatureC != nil {
		parts = append(parts, fmt.Sprintf("cpu %.1f°C", *rec.CPU.TemperatureC))
	}
	if rec.CPU.UsagePercent != nil {
		parts = append(parts, fmt.Sprintf("load %.1f%%", *rec.CPU.UsagePercent))
	}
	if rec.Memory.RAM != nil {
		parts = append(parts, fmt.Sprintf("mem %.1f%%", rec.Memory.RAM.UsagePercent))
	}
	return strings.Join(parts, "  ")
}
