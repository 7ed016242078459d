package logger_test

import (
	"testing"

	"github.com/meridianscan/sales-api/internal/config"
	"github.com/meridianscan/sales-api/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newTestLogger(t *testing.T, level, format, environment string) *zap.Logger {
	t.Helper()
	log, err := logger.NewLogger(
		&config.LoggingConfig{Level: level, Format: format},
		&config.AppConfig{Name: "sales-api-test", Environment: environment},
	)
	require.NoError(t, err)
	return log
}

func TestNewLogger_JSONFormat(t *testing.T) {
	log := newTestLogger(t, "info", "json", "development")

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_ConsoleDebug(t *testing.T) {
	log := newTestLogger(t, "debug", "console", "development")

	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	log := newTestLogger(t, "verbose", "json", "development")

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestWithRequest(t *testing.T) {
	log := logger.WithRequest(zap.NewNop(), "POST", "/api/v1/quotes/price", "req-1")
	assert.NotNil(t, log)
}

func TestWithUser(t *testing.T) {
	log := logger.WithUser(zap.NewNop(), "user-123", "Dana Reed")
	assert.NotNil(t, log)
}
