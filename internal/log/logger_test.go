package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("info message")
	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), "info message")
	buf.Reset()

	l.Warn("warn message")
	assert.Contains(t, buf.String(), "level=warning")
	buf.Reset()

	l.Error("error message")
	assert.Contains(t, buf.String(), "level=error")
	assert.Contains(t, buf.String(), "error message")
	buf.Reset()

	l.Infof("formatted %s", "message")
	assert.Contains(t, buf.String(), "formatted message")
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))
	t.Cleanup(func() { SetDebug(false) })

	SetDebug(false)
	l.Debug("debug message")
	assert.Empty(t, buf.String())

	SetDebug(true)
	l.Debug("debug message")
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "debug message")
	buf.Reset()

	l.Debugf("formatted %s", "debug")
	assert.Contains(t, buf.String(), "formatted debug")
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.With(F("file", "cat.png"), F("bytes", 123)).Info("upload finished")
	output := buf.String()
	assert.Contains(t, output, "upload finished")
	assert.Contains(t, output, "file=cat.png")
	assert.Contains(t, output, "bytes=123")
	buf.Reset()

	l.With(F("a", "1")).With(F("b", 2)).Info("chained")
	output = buf.String()
	assert.Contains(t, output, "a=1")
	assert.Contains(t, output, "b=2")
}

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithJSON())

	l.With(F("endpoint", "/images")).Info("json message")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "json message", entry["message"])
	assert.Equal(t, "/images", entry["endpoint"])
	assert.Contains(t, entry, "timestamp")
}

func TestPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	Configure(WithOutput(&buf))
	t.Cleanup(func() { Configure() })

	Info("plain")
	Warn("with args", 42)
	Errorf("failed: %s", "boom")
	LogWithFields(F("path", "/imgs/a.png")).Info("selected")

	output := buf.String()
	assert.Contains(t, output, "plain")
	assert.Contains(t, output, "with args: 42")
	assert.Contains(t, output, "failed: boom")
	assert.Contains(t, output, "path=/imgs/a.png")
}
