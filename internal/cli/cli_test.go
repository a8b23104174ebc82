package cli

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khi48/rpimon/internal/config"
	"github.com/khi48/rpimon/internal/errors"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func resetFlags(t *testing.T) {
	t.Helper()
	onceFlag = false
	userFlag = ""
	keyFlag = ""
	intervalFlag = 0
	outputDirFlag = ""
	configFlag = ""
	timeoutFlag = 0
	insecureHostKey = false
}

func TestBuildConfigDefaults(t *testing.T) {
	resetFlags(t)
	chdir(t, t.TempDir())

	cfg, err := buildConfig()

	require.NoError(t, err)
	assert.Equal(t, "pi", cfg.User)
	assert.Equal(t, 5*time.Minute, cfg.Interval)
	assert.Equal(t, "./rpi_logs", cfg.OutputDir)
}

func TestBuildConfigFlagsOverrideFile(t *testing.T) {
	resetFlags(t)
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(config.FileName,
		[]byte("user: fileuser\ninterval: 10m\n"), 0o644))

	userFlag = "flaguser"
	intervalFlag = 60

	cfg, err := buildConfig()

	require.NoError(t, err)
	assert.Equal(t, "flaguser", cfg.User)
	assert.Equal(t, time.Minute, cfg.Interval)
}

func TestBuildConfigMissingExplicitConfig(t *testing.T) {
	resetFlags(t)
	configFlag = "/nonexistent/rpimon.yaml"

	_, err := buildConfig()

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestInitCommandWritesConfig(t *testing.T) {
	chdir(t, t.TempDir())

	require.NoError(t, initCommand(false))

	cfg, err := config.Load(config.FileName)
	require.NoError(t, err)
	assert.Equal(t, "pi", cfg.User)
	assert.Equal(t, 5*time.Minute, cfg.Interval)
	assert.InDelta(t, 70, cfg.Alerts.CPUTempC, 0.001)
}

func TestInitCommandRefusesOverwrite(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, initCommand(false))

	err := initCommand(false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	assert.NoError(t, initCommand(true))
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "v1.2.3", formatVersion("1.2.3"))
	assert.Equal(t, "v1.2.3", formatVersion("v1.2.3"))
}

func TestRootRequiresHostArg(t *testing.T) {
	err := rootCmd.Args(rootCmd, []string{})
	assert.Error(t, err)

	assert.NoError(t, rootCmd.Args(rootCmd, []string{"pi.local"}))
}
