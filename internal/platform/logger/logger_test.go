package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskplanner/planner-api/internal/config"
	"github.com/taskplanner/planner-api/internal/testutils"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"fatal", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tc := range tests {
		got, ok := ParseLevel(tc.in)
		assert.Equal(t, tc.want, got, "level for %q", tc.in)
		assert.Equal(t, tc.wantOK, ok, "ok for %q", tc.in)
	}
}

func TestSetup_WritesJSONAtConfiguredLevel(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	buf := &testutils.TestLogBuffer{}
	l, err := setup(buf, config.ServerConfig{LogLevel: "warn"})
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("dropped")
	l.Warn("kept", slog.String("component", "test"))

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "test", entries[0]["component"])

	assert.Same(t, l, slog.Default(), "Setup should install the logger as default")
}

func TestFromContext(t *testing.T) {
	ctxLogger, _ := testutils.NewTestLogger(t)
	fallback, _ := testutils.NewTestLogger(t)

	ctx := WithContext(context.Background(), ctxLogger)
	assert.Same(t, ctxLogger, FromContextOrDefault(ctx, fallback))
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
	assert.Same(t, ctxLogger, FromContext(ctx))
}
