package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"task-assignment/backend/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelAndFormatter(t *testing.T) {
	logger, closeFn, err := New(config.LogConfig{Level: "debug"}, false)
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestNew_ProductionUsesJSON(t *testing.T) {
	logger, closeFn, err := New(config.LogConfig{Level: "warn"}, true)
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger, closeFn, err := New(config.LogConfig{Level: "chatty"}, false)
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNew_WritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closeFn, err := New(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, true)
	require.NoError(t, err)

	Service(logger).Info("task created")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"message":"task created"`))
	assert.True(t, strings.Contains(string(data), `"service":"task-assignment"`))
}
