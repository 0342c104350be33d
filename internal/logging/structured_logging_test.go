package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("creates JSON logger with proper configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("test message",
			slog.String("component", "test"),
			slog.Int("count", 42))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"test message"`)
		assert.Contains(t, output, `"component":"test"`)
		assert.Contains(t, output, `"count":42`)
		assert.Contains(t, output, `"time":`)
	})

	t.Run("respects log level configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warning message")
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "TEXT", slog.LevelInfo)

		logger.Info("hello", slog.String("zone", "001"))

		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "msg=hello")
		assert.Contains(t, output, "zone=001")
	})

	t.Run("unknown format falls back to JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "yaml", slog.LevelInfo)

		logger.Info("hello")

		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{name: "empty defaults to info", input: "", expected: slog.LevelInfo},
		{name: "debug", input: "debug", expected: slog.LevelDebug},
		{name: "upper case warn", input: " WARN ", expected: slog.LevelWarn},
		{name: "warning alias", input: "warning", expected: slog.LevelWarn},
		{name: "error", input: "error", expected: slog.LevelError},
		{name: "unknown", input: "verbose", expected: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("LogError creates structured error log", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "failed to fetch feed", assert.AnError,
			slog.String("url", "http://example.com/gtfs.zip"),
			slog.String("component", "feed"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to fetch feed"`)
		assert.Contains(t, output, `"error":"assert.AnError general error for testing"`)
		assert.Contains(t, output, `"component":"feed"`)
	})

	t.Run("LogOperation logs counters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "graph_built",
			slog.Int("nodes", 12),
			slog.Int("edges", 30),
			slog.Duration("duration", 1500*time.Millisecond))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"graph_built"`)
		assert.Contains(t, output, `"nodes":12`)
		assert.Contains(t, output, `"edges":30`)
		assert.Contains(t, output, `"duration":`)
	})

	t.Run("LogOperation skips zero duration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "zone_filtered", slog.Duration("duration", 0))

		assert.NotContains(t, buf.String(), `"duration"`)
	})

	t.Run("LogWarning uses warn level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogWarning(logger, "trips without line", slog.Int("trips", 3))

		output := buf.String()
		assert.Contains(t, output, `"level":"WARN"`)
		assert.Contains(t, output, `"trips":3`)
	})

	t.Run("LogHTTPRequest logs request details", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogHTTPRequest(logger, "GET", "/api/graph/stats.json", 200, 12.5,
			slog.String("user_agent", "test-agent"))

		output := buf.String()
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"method":"GET"`)
		assert.Contains(t, output, `"path":"/api/graph/stats.json"`)
		assert.Contains(t, output, `"status":200`)
		assert.Contains(t, output, `"duration_ms":12.5`)
		assert.Contains(t, output, `"user_agent":"test-agent"`)
	})

	t.Run("helpers ignore nil logger", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogError(nil, "x", assert.AnError)
			LogOperation(nil, "x")
			LogWarning(nil, "x")
			LogHTTPRequest(nil, "GET", "/", 200, 1)
		})
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("stores and retrieves logger from context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		ctx := WithLogger(context.Background(), logger)
		retrieved := FromContext(ctx)
		require.NotNil(t, retrieved)

		retrieved.Info("from context")
		assert.Contains(t, buf.String(), "from context")
	})

	t.Run("returns default logger when none stored", func(t *testing.T) {
		assert.Equal(t, slog.Default(), FromContext(context.Background()))
	})
}
