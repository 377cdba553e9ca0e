package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), "level %q", input)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "json", "warn")

	logger.Info("dropped")
	logger.Warn("Declaring exchange", "exchange", "orders")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Declaring exchange", entry["msg"])
	assert.Equal(t, "orders", entry["exchange"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "text", "debug")

	logger.Debug("Declaring queue", "queue", "users.UserCreated.billing")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "queue=users.UserCreated.billing")
	assert.Contains(t, out, "source=")
}

func TestNew_SetsDefault(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	logger := New("json", "error")
	assert.Same(t, logger, slog.Default())
}
