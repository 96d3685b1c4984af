package logger

import (
	"os"

	logger "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var L = &logger.Logger{
	Out:      os.Stderr,
	Level:    logger.InfoLevel,
	Hooks:    make(logger.LevelHooks),
	ExitFunc: os.Exit,
	Formatter: &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	},
}

// For returns a logger tagged with the component name, rendered as the line
// prefix by the formatter.
func For(component string) logger.FieldLogger {
	return L.WithField("prefix", component)
}

// SetLevel parses a logrus level name ("debug", "info", ...) and applies it to L.
func SetLevel(level string) error {
	lvl, err := logger.ParseLevel(level)
	if err != nil {
		return err
	}
	L.SetLevel(lvl)
	return nil
}
