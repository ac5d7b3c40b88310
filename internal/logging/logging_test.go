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
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true, slog.LevelInfo).Info("session saved", "items", 3)

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m), buf.String())
	assert.Equal(t, "session saved", m["msg"])
	assert.EqualValues(t, 3, m["items"])
}

func TestNewTextFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("media unavailable", "source", "a.wav")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `msg="media unavailable"`)
	assert.Contains(t, out, "source=a.wav")
}
