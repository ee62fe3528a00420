package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func bufferLogger(level LogLevel, format string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return newLogger(level, format, zapcore.AddSync(&buf)), &buf
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"error": LogLevelError,
		"WARN":  LogLevelWarn,
		"":      LogLevelInfo,
		"Debug": LogLevelDebug,
		"TRACE": LogLevelTrace,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("LOUD")
	assert.Error(t, err)
}

func TestLevelGating(t *testing.T) {
	log, buf := bufferLogger(LogLevelWarn, "console")

	log.Info("hidden %d", 1)
	log.Debug("hidden %d", 2)
	log.Warn("shown %d", 3)
	log.Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 3")
	assert.Contains(t, out, "shown 4")
	assert.Equal(t, LogLevelWarn, log.GetLevel())
}

func TestTraceUsesMarker(t *testing.T) {
	log, buf := bufferLogger(LogLevelTrace, "console")
	log.Trace("walking tree %d", 7)
	assert.Contains(t, buf.String(), "[TRACE] walking tree 7")
}

func TestJSONFormatWithFields(t *testing.T) {
	log, buf := bufferLogger(LogLevelInfo, "json")
	log.With("prediction_id", "abc").Info("predicted %.2f kcal", 12.5)

	line := strings.TrimSpace(buf.String())
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "predicted 12.50 kcal", entry["msg"])
	assert.Equal(t, "abc", entry["prediction_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Error("nothing %s", "here")
	assert.NotNil(t, log.Zap())
}
