package sampler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/khi48/rpimon/internal/errors"
	"github.com/khi48/rpimon/internal/logger"
)

// Store persists snapshots to a directory. Each cycle yields one JSON file
// named health_check_<host>_<YYYYMMDD_HHMMSS>.json and appends one line to
// the day's monitor_<host>_<YYYYMMDD>.log.
type Store struct {
	Dir string
	log logger.Logger
}

// NewStore creates a store writing under dir.
func NewStore(dir string, log logger.Logger) *Store {
	if log == nil {
		log = logger.Noop()
	}
	return &Store{Dir: dir, log: log}
}

// Persist writes the JSON snapshot and appends the daily log line. Both
// artifacts carry the record's own timestamp so file names and content
// agree even when writing lags sampling.
func (s *Store) Persist(rec *Record) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.WrapWithSuggestion(err, errors.ErrStore,
			fmt.Sprintf("failed to create output directory %s", s.Dir),
			"Check directory permissions or pass a different --output-dir")
	}

	host := sanitizeHost(rec.Hostname)
	jsonPath := filepath.Join(s.Dir,
		fmt.Sprintf("health_check_%s_%s.json", host, rec.Timestamp.Format("20060102_150405")))

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrStore, "failed to encode snapshot")
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", errors.Wrap(err, errors.ErrStore,
			fmt.Sprintf("failed to write snapshot %s", jsonPath))
	}

	if err := s.appendDailyLog(rec, host); err != nil {
		return jsonPath, err
	}

	s.log.Debug("persisted snapshot to %s", jsonPath)
	return jsonPath, nil
}

// appendDailyLog writes one summary line per cycle to the day's log file.
func (s *Store) appendDailyLog(rec *Record, host string) error {
	logPath := filepath.Join(s.Dir,
		fmt.Sprintf("monitor_%s_%s.log", host, rec.Timestamp.Format("20060102")))

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, errors.ErrStore,
			fmt.Sprintf("failed to open daily log %s", logPath))
	}
	defer f.Close()

	if _, err := f.WriteString(summaryLine(rec) + "\n"); err != nil {
		return errors.Wrap(err, errors.ErrStore,
			fmt.Sprintf("failed to append to daily log %s", logPath))
	}
	return nil
}

// summaryLine renders one human-readable status line for the daily log.
func summaryLine(rec *Record) string {
	ts := rec.Timestamp.Format("2006-01-02 15:04:05")
	if len(rec.Alerts) == 0 {
		status := "OK"
		if rec.Degraded {
			status = "DEGRADED"
		}
		if rec.Note != "" {
			status += " (" + rec.Note + ")"
		}
		return fmt.Sprintf("%s %s", ts, status)
	}

	parts := make([]string, 0, len(rec.Alerts))
	for _, a := range rec.Alerts {
		parts = append(parts, a.Message)
	}
	return fmt.Sprintf("%s WARNING: %s", ts, strings.Join(parts, "; "))
}

// sanitizeHost makes a host name safe for file names.
func sanitizeHost(host string) string {
	replacer := strings.NewReplacer(":", "_", "/", "_", "@", "_", " ", "_")
	return replacer.Replace(host)
}
