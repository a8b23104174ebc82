// Package cli wires the rpimon command tree: the root monitoring command
// plus init and version subcommands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/khi48/rpimon/internal/config"
	"github.com/khi48/rpimon/internal/errors"
	"github.com/khi48/rpimon/internal/logger"
	"github.com/khi48/rpimon/internal/sampler"
	"github.com/khi48/rpimon/internal/ui"
	"github.com/khi48/rpimon/pkg/sshutil"
)

// Root command flags
var (
	onceFlag        bool
	userFlag        string
	keyFlag         string
	intervalFlag    int
	outputDirFlag   string
	configFlag      string
	timeoutFlag     time.Duration
	insecureHostKey bool
)

// rootCmd monitors a remote host: by default continuously, with --once for
// a single snapshot.
var rootCmd = &cobra.Command{
	Use:   "rpimon <host>",
	Short: "Remote health monitor for Raspberry Pi and other SBCs",
	Long: `Monitor a remote single-board computer over SSH.

Each cycle connects to the host, runs a fixed battery of diagnostic
commands (CPU, memory, disk, network, processes, logs), evaluates alert
thresholds, and writes a timestamped JSON snapshot plus a daily summary
log to the output directory. Probes run strictly sequentially so a
constrained device is never overloaded.

Examples:
  rpimon raspberrypi.local
  rpimon pi@192.168.1.50 --once
  rpimon 10.0.0.5 -u admin -k ~/.ssh/id_ed25519 -i 60`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.Flags().BoolVar(&onceFlag, "once", false, "Run a single cycle and exit")
	rootCmd.Flags().StringVarP(&userFlag, "user", "u", "", "SSH username (default \"pi\")")
	rootCmd.Flags().StringVarP(&keyFlag, "key", "k", "", "SSH private key file")
	rootCmd.Flags().IntVarP(&intervalFlag, "interval", "i", 0, "Seconds between cycles (default 300)")
	rootCmd.Flags().StringVar(&outputDirFlag, "output-dir", "", "Directory for snapshots and logs (default \"./rpi_logs\")")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Config file (default "+config.FileName+")")
	rootCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Connection timeout (default 10s)")
	rootCmd.Flags().BoolVar(&insecureHostKey, "insecure-host-key", false, "Skip known_hosts verification")
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the sampling loop, which
// finishes persisting the current snapshot before exiting.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err("Error:")+" "+err.Error())
		return err
	}
	return nil
}

// monitorCommand builds the sampler from config and flags and runs it.
func monitorCommand(ctx context.Context, host string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	log := logger.NewEnvLogger("[rpimon]")
	store := sampler.NewStore(cfg.OutputDir, log)

	dial := func() (sshutil.CommandRunner, error) {
		return sshutil.Dial(host, sshutil.DialOptions{
			User:            cfg.User,
			KeyPath:         cfg.KeyPath,
			Timeout:         cfg.ConnectTimeout,
			InsecureHostKey: cfg.InsecureHostKey,
			PasswordPrompt:  true,
		})
	}

	s := sampler.New(host, cfg, dial, store, log)
	s.OnCycle = func(rec *sampler.Record, path string) {
		fmt.Println(ui.CycleSummary(rec, path))
	}

	if onceFlag {
		// Exit status reflects connectivity only: a reachable host with
		// failed probes still counts as a successful observation.
		return s.RunCycle(ctx)
	}

	fmt.Printf("Monitoring %s every %s. Press Ctrl+C to stop.\n", host, cfg.Interval)
	if err := s.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// buildConfig merges the config file with command-line overrides. Flags win.
func buildConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}

	if userFlag != "" {
		cfg.User = userFlag
	}
	if keyFlag != "" {
		cfg.KeyPath = keyFlag
	}
	if intervalFlag > 0 {
		cfg.Interval = time.Duration(intervalFlag) * time.Second
	}
	if outputDirFlag != "" {
		cfg.OutputDir = outputDirFlag
	}
	if timeoutFlag > 0 {
		cfg.ConnectTimeout = timeoutFlag
	}
	if insecureHostKey {
		cfg.InsecureHostKey = true
	}

	if cfg.Interval <= 0 {
		return nil, errors.New(errors.ErrConfig,
			"interval must be positive",
			"Pass --interval with a value in seconds, e.g. --interval 300")
	}
	return cfg, nil
}
