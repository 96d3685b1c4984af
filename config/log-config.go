package config

import (
	"go-byoa/util/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

func NewLogConfig() *LogConfig {
	return &LogConfig{Level: logrus.InfoLevel.String()}
}

func (c *LogConfig) Validate() error {
	if _, err := logrus.ParseLevel(c.Level); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}

// Apply sets the level of the shared logger.
func (c *LogConfig) Apply() error {
	return errors.Wrap(logger.SetLevel(c.Level), "failed to apply log level")
}
