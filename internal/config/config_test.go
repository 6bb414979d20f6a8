package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("unit", DefaultUnit, "")
	flags.String("log-level", DefaultLogLevel, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultUnit, cfg.Unit)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "evidx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("unit: date\nlog_level: warn\nlisten: 0.0.0.0:9000\n"), 0o600))

	cfg, err := Load(path, newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, UnitDate, cfg.Unit)
	assert.Equal(t, logrus.WarnLevel, cfg.Level())
	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)

	t.Setenv("EVIDX_LOG_LEVEL", "error")
	cfg, err = Load(path, newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, logrus.ErrorLevel, cfg.Level())

	cfg, err = Load(path, newFlags(t, "--log-level=debug", "--unit=number"))
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.Equal(t, UnitNumber, cfg.Unit)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("unit: furlong\n"), 0o600))
	_, err = Load(bad, nil)
	assert.ErrorContains(t, err, "furlong")

	badLevel := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(badLevel, []byte("log_level: loud\n"), 0o600))
	_, err = Load(badLevel, nil)
	assert.Error(t, err)
}
