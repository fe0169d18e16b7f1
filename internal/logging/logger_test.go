package logging

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, true)

	logger.Info("wrote %s", "kv/foo")
	logger.Warn("slow response")
	logger.Error("request failed")

	out := buf.String()
	assert.Contains(t, out, "✓ wrote kv/foo")
	assert.Contains(t, out, "⚠ slow response")
	assert.Contains(t, out, "✗ request failed")
}

func TestLogger_DebugSuppressed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, true)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger = NewWithWriter(&buf, true, true)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "[DEBUG] visible")
}

func TestLogger_ColorToggle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithWriter(&buf, false, false).Info("colored")
	assert.Contains(t, buf.String(), "\033[32m")

	buf.Reset()
	NewWithWriter(&buf, false, true).Info("plain")
	assert.NotContains(t, buf.String(), "\033[")
}

func TestSecret_AlwaysRedacted(t *testing.T) {
	t.Parallel()

	token := Secret("s.supersecret")
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%s", token))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", token))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", token))
	assert.NotContains(t, fmt.Sprintf("token is %s", token), "supersecret")
}

func TestRedact(t *testing.T) {
	t.Parallel()

	out := Redact("token s.abc123 leaked next to pw hunter2", []string{"s.abc123", "hunter2", "ab"})
	assert.NotContains(t, out, "s.abc123")
	assert.NotContains(t, out, "hunter2")
	// Values of three characters or fewer are not rewritten.
	assert.Contains(t, out, "leaked")
}
