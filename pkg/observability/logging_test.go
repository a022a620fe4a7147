package observability

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
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" Error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"xyzzy", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestInitLogger_JSONWithServiceAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{
		Level:       "info",
		Format:      "json",
		ServiceName: "churn-service",
		Environment: "test",
		Output:      &buf,
	})

	logger.Info("prediction served", "model", "Decision Tree")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "churn-service", record["service"])
	assert.Equal(t, "test", record["env"])
	assert.Equal(t, "Decision Tree", record["model"])
	assert.Same(t, logger.Handler(), slog.Default().Handler())
}

func TestInitLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Level: "warn", Format: "text", Output: &buf})

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	require.NotNil(t, logger)
	logger.Error("goes nowhere")
}
