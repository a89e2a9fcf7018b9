package logging

import (
	"io"
	"os"
	"path/filepath"

	"task-assignment/backend/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const serviceName = "task-assignment"

// New builds the process logger. Output goes to stdout and, when a log file is
// configured, also to a rotating file. The returned func closes that file.
func New(cfg config.LogConfig, production bool) (*logrus.Logger, func() error, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if production {
		logger.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{logrus.FieldKeyMsg: "message"},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	closeFn := func() error { return nil }
	var out io.Writer = os.Stdout

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
			return nil, nil, err
		}
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, file)
		closeFn = file.Close
	}
	logger.SetOutput(out)

	return logger, closeFn, nil
}

// Service returns an entry tagged with the service name.
func Service(logger *logrus.Logger) *logrus.Entry {
	return logger.WithField("service", serviceName)
}

// Discard returns a logger that writes nowhere, for tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
