// Package config holds the evidx configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	UnitNumber = "number"
	UnitDate   = "date"
)

const (
	DefaultUnit     = UnitNumber
	DefaultLogLevel = "info"
	DefaultListen   = "127.0.0.1:7428"
)

type Config struct {
	// Unit is the axis events are ordered on: number or date.
	Unit string `mapstructure:"unit"`
	// DateLayout is the layout dates are parsed and printed with. Empty
	// accepts ISO 8601 and common textual dates, "iso8601" only ISO 8601.
	DateLayout string `mapstructure:"date_layout"`
	LogLevel   string `mapstructure:"log_level"`
	// Listen is the address the serve command binds to.
	Listen string `mapstructure:"listen"`
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Unit) {
	case UnitNumber, UnitDate:
	default:
		return fmt.Errorf("unit %q is not supported, use %s or %s", c.Unit, UnitNumber, UnitDate)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address is empty")
	}
	return nil
}

func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
