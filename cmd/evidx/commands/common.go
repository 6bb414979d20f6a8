package commands

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/henderiw/evtindex/internal/config"
)

// AddPersistentFlags declares the flags every command understands.
func AddPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default .evidx.yaml in the working or home directory)")
	flags.String("unit", config.DefaultUnit, "axis of the event document: number or date")
	flags.String("date-layout", "", "date layout, iso8601 or a Go time layout (default accepts ISO 8601 and common dates)")
	flags.String("log-level", config.DefaultLogLevel, "log level")
}

func loadConfig(cmd *cobra.Command) (*config.Config, logrus.FieldLogger, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(cmd.ErrOrStderr(), cfg.Level()), nil
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	log := logrus.New()
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)
	log.SetLevel(level)
	return log
}
