package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/khi48/rpimon/internal/config"
	"github.com/khi48/rpimon/internal/errors"
	"github.com/khi48/rpimon/internal/ui"
)

var initForce bool

// initCmd writes a starter .rpimon.yaml in the current directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create " + config.FileName + " with default settings",
	Long: `Write a starter configuration file in the current directory.

The generated file documents every setting with its default value:
SSH credentials, sampling interval, output directory, and alert
thresholds. Edit it and re-run rpimon.

Examples:
  rpimon init
  rpimon init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func initCommand(force bool) error {
	path := filepath.Join(".", config.FileName)

	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			"config file already exists: "+path,
			"Use --force to overwrite")
	}

	data, err := yaml.Marshal(starterConfig())
	if err != nil {
		return errors.Wrap(err, errors.ErrConfig, "failed to encode default config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithSuggestion(err, errors.ErrConfig,
			"failed to write "+path,
			"Check directory permissions")
	}

	fmt.Println(ui.Ok("Created ") + path)
	return nil
}

// starterFile is the on-disk shape of the generated config. Durations are
// written as strings ("5m", "10s") so the file stays human-editable.
type starterFile struct {
	User            string            `yaml:"user"`
	Key             string            `yaml:"key"`
	Interval        string            `yaml:"interval"`
	OutputDir       string            `yaml:"output_dir"`
	ConnectTimeout  string            `yaml:"connect_timeout"`
	CommandTimeout  string            `yaml:"command_timeout"`
	InsecureHostKey bool              `yaml:"insecure_host_key"`
	Alerts          config.Thresholds `yaml:"alerts"`
}

func starterConfig() starterFile {
	def := config.Default()
	return starterFile{
		User:           def.User,
		Key:            def.KeyPath,
		Interval:       def.Interval.String(),
		OutputDir:      def.OutputDir,
		ConnectTimeout: def.ConnectTimeout.String(),
		CommandTimeout: def.CommandTimeout.String(),
		Alerts:         def.Alerts,
	}
}
