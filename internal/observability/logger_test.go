// internal/observability/logger_test.go
package observability

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/tuberec/internal/config"
)

// newTestSink returns an in-memory console sink for Initialize.
func newTestSink() *zaptest.Buffer {
	return &zaptest.Buffer{}
}

func TestInitializeConsoleFormat(t *testing.T) {
	ResetForTest()
	sink := newTestSink()

	Initialize(config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "testsvc",
	}, zapcore.Lock(sink))

	GetLogger().Info("readiness test message")

	out := sink.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "readiness test message")
	assert.Contains(t, out, colorGreen, "info level should be colorized")
	assert.Contains(t, out, "testsvc.")
}

func TestInitializeJSONFormat(t *testing.T) {
	ResetForTest()
	sink := newTestSink()

	Initialize(config.LoggerConfig{
		Level:       "info",
		Format:      "json",
		ServiceName: "jsonsvc",
	}, zapcore.Lock(sink))

	GetLogger().Warn("structured entry")

	lines := sink.Lines()
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "structured entry", entry["msg"])
	assert.Equal(t, "jsonsvc", entry["logger"])
}

func TestLevelFiltering(t *testing.T) {
	ResetForTest()
	sink := newTestSink()

	Initialize(config.LoggerConfig{
		Level:       "warn",
		Format:      "json",
		ServiceName: "filter",
	}, zapcore.Lock(sink))

	logger := GetLogger()
	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Error("kept")

	out := sink.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	sink := newTestSink()

	Initialize(config.LoggerConfig{
		Level:       "shouting",
		Format:      "json",
		ServiceName: "fallback",
	}, zapcore.Lock(sink))

	logger := GetLogger()
	logger.Debug("below info")
	logger.Info("at info")

	assert.False(t, strings.Contains(sink.String(), "below info"))
	assert.True(t, strings.Contains(sink.String(), "at info"))
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	ResetForTest()
	// Must not panic and must hand back something usable.
	logger := GetLogger()
	require.NotNil(t, logger)
	logger.Debug("fallback logger is alive")
}
