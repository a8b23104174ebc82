// Package sampler collects health snapshots from a remote host over SSH.
// One cycle dials the host, runs a fixed probe battery strictly in order,
// folds the output into a Record, evaluates alert thresholds, and persists
// the result. Probe failures degrade the snapshot; they never abort it.
package sampler

import (
	"context"
	"time"

	"github.com/khi48/rpimon/internal/config"
	"github.com/khi48/rpimon/internal/errors"
	"github.com/khi48/rpimon/internal/logger"
	"github.com/khi48/rpimon/pkg/sshutil"
)

// DialFunc establishes the remote session for one cycle. Injected so tests
// can substitute a mock runner.
type DialFunc func() (sshutil.CommandRunner, error)

// Sampler drives the sample-evaluate-persist loop for one host.
type Sampler struct {
	Host   string
	Config *config.Config
	Dial   DialFunc
	Store  *Store
	Log    logger.Logger

	// OnCycle, if set, is called with each persisted record. Used for
	// console summaries.
	OnCycle func(rec *Record, path string)
}

// New creates a sampler. A nil logger is replaced with a noop one.
func New(host string, cfg *config.Config, dial DialFunc, store *Store, log logger.Logger) *Sampler {
	if log == nil {
		log = logger.Noop()
	}
	return &Sampler{Host: host, Config: cfg, Dial: dial, Store: store, Log: log}
}

// Run samples continuously until ctx is cancelled. The next cycle starts
// Interval after the previous one completes; a failed cycle is logged and
// does not stop the loop.
func (s *Sampler) Run(ctx context.Context) error {
	for {
		if err := s.RunCycle(ctx); err != nil {
			s.Log.Error("cycle failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.Config.Interval):
		}
	}
}

// RunCycle performs exactly one sampling cycle. A connection failure still
// persists an all-unavailable snapshot, so the output directory records the
// outage; the error is returned for the caller's exit status.
func (s *Sampler) RunCycle(ctx context.Context) error {
	rec := NewRecord(s.Host, time.Now())

	runner, err := s.Dial()
	if err != nil {
		rec.Note = "connection failed: " + err.Error()
		rec.Alerts = EvaluateAlerts(rec, s.Config.Alerts)
		s.persist(rec)
		return errors.Wrap(err, errors.ErrSSH, "failed to connect to "+s.Host)
	}
	defer runner.Close()

	s.collect(ctx, runner, rec)

	rec.Alerts = EvaluateAlerts(rec, s.Config.Alerts)
	s.persist(rec)
	return nil
}

// collect runs the probe battery sequentially against an open session.
// Cancellation is honored between probes. A hard channel failure marks the
// snapshot degraded and skips the remaining probes; individual command
// failures only leave their category unavailable.
func (s *Sampler) collect(ctx context.Context, runner sshutil.CommandRunner, rec *Record) {
	for _, probe := range Battery() {
		select {
		case <-ctx.Done():
			rec.Degraded = true
			rec.Note = "cancelled mid-cycle"
			return
		default:
		}

		result := s.runProbe(runner, probe)
		if result == nil {
			// Channel-level failure: the session is gone.
			rec.Degraded = true
			rec.Note = "connection lost mid-cycle"
			s.Log.Warn("probe %s: session failed, skipping remaining probes", probe.Name)
			return
		}
		if result.Unavailable {
			s.Log.Debug("probe %s unavailable (exit %d)", probe.Name, result.ExitCode)
			continue
		}
		probe.Parse(result.Output, rec)
	}
}

// runProbe executes one probe, bounded by the command timeout. Returns nil
// only on a channel-level failure; a non-zero exit, empty output, or timeout
// yields an Unavailable result.
func (s *Sampler) runProbe(runner sshutil.CommandRunner, probe Probe) *ProbeResult {
	type outcome struct {
		stdout   []byte
		exitCode int
		err      error
	}

	ch := make(chan outcome, 1)
	go func() {
		stdout, _, code, err := runner.Exec(probe.Command)
		ch <- outcome{stdout: stdout, exitCode: code, err: err}
	}()

	timeout := s.Config.CommandTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	select {
	case out := <-ch:
		if out.err != nil {
			return nil
		}
		result := &ProbeResult{
			Probe:    probe,
			Output:   string(out.stdout),
			ExitCode: out.exitCode,
		}
		if out.exitCode != 0 || len(out.stdout) == 0 {
			result.Unavailable = true
		}
		return result
	case <-time.After(timeout):
		// The goroutine drains into the buffered channel whenever the
		// remote command eventually returns.
		s.Log.Warn("probe %s timed out after %s", probe.Name, timeout)
		return &ProbeResult{Probe: probe, ExitCode: -1, Unavailable: true}
	}
}

// persist writes the snapshot, logging storage failures rather than
// propagating them so a full disk does not kill the loop.
func (s *Sampler) persist(rec *Record) {
	path, err := s.Store.Persist(rec)
	if err != nil {
		s.Log.Error("failed to persist snapshot: %v", err)
		return
	}
	if s.OnCycle != nil {
		s.OnCycle(rec, path)
	}
}
