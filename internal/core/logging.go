package core

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger configured from the Logging section of the
// config, used by the lobby and frontend alike.
func NewLogger(cfg *Config) (*logrus.Logger, error) {
	var w io.Writer = os.Stdout

	if logFile := cfg.Logging.LogFilePath; logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		w = f
	}

	logLvl, err := logrus.ParseLevel(cfg.Logging.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	return &logrus.Logger{
		Out: w,
		Formatter: &logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
			DisableSorting:  true,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logLvl,
	}, nil
}
