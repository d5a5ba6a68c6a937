package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.Info("hello")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WarnLevel, &buf)

	logger.Info("suppressed")
	assert.Empty(t, buf.String())

	logger.Warn("emitted")
	assert.Contains(t, buf.String(), "emitted")
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithField("email", "ann@example.com").Info("user created")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "ann@example.com", entry["email"])
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithFields(map[string]interface{}{
		"ip":     "203.0.113.7",
		"status": 403,
	}).Warnf("request denied: %s", "bot")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "request denied: bot", entry["msg"])
	assert.Equal(t, "203.0.113.7", entry["ip"])
	assert.Equal(t, float64(403), entry["status"])
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithError(errors.New("connection refused")).Error("db down")
	assert.Equal(t, "connection refused", lastEntry(t, &buf)["error"])

	// nil error leaves the logger untouched
	assert.Same(t, logger, logger.WithError(nil))
}

func TestLoggerLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, NewLogger(DebugLevel, &bytes.Buffer{}).Level())
	assert.Equal(t, "WARN", WarnLevel.String())
}
