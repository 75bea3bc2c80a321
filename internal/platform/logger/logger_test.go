package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/lumenlearn/lumen/internal/config"
	"github.com/lumenlearn/lumen/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := logger.ParseLevel(tc.input)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	t.Run("filters below configured level", func(t *testing.T) {
		buf := &logger.TestLogBuffer{}
		l := logger.SetupWithWriter(config.ServerConfig{LogLevel: "warn"}, buf)

		l.Info("hidden")
		l.Warn("shown", "component", "test")

		entries, err := buf.Entries()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "shown", entries[0]["msg"])
		assert.Equal(t, "test", entries[0]["component"])
	})

	t.Run("invalid level falls back to info and warns", func(t *testing.T) {
		buf := &logger.TestLogBuffer{}
		l := logger.SetupWithWriter(config.ServerConfig{LogLevel: "chatty"}, buf)

		l.Debug("hidden")
		logger.AssertLogContains(t, buf, "invalid log level configured")
		logger.AssertLogField(t, buf, "configured_level", "chatty")
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("sets default logger", func(t *testing.T) {
		buf := &logger.TestLogBuffer{}
		logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, buf)

		slog.Info("via default")
		logger.AssertLogContains(t, buf, "via default")
	})
}

func TestContextLogger(t *testing.T) {
	l, buf := logger.NewTestLogger(t)
	fallback, fallbackBuf := logger.NewTestLogger(t)

	t.Run("returns stored logger", func(t *testing.T) {
		ctx := logger.WithLogger(context.Background(), l)
		logger.FromContextOrDefault(ctx, fallback).Info("stored")

		logger.AssertLogContains(t, buf, "stored")
		assert.NotContains(t, fallbackBuf.String(), "stored")
	})

	t.Run("returns fallback when absent", func(t *testing.T) {
		logger.FromContextOrDefault(context.Background(), fallback).Info("fallback")
		logger.AssertLogContains(t, fallbackBuf, "fallback")
	})

	t.Run("returns default when both absent", func(t *testing.T) {
		assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))
		assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	})
}
