package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/dreambound/internal/config"
)

func TestSetup(t *testing.T) {
	log := Setup(&config.Config{
		Environment: "development",
		LogLevel:    slog.LevelWarn,
	})
	require.NotNil(t, log)

	ctx := context.Background()
	assert.False(t, log.Enabled(ctx, slog.LevelDebug))
	assert.False(t, log.Enabled(ctx, slog.LevelInfo))
	assert.True(t, log.Enabled(ctx, slog.LevelWarn))
	assert.True(t, log.Enabled(ctx, slog.LevelError))

	assert.Same(t, slog.Default(), log)
}

func TestWithSlot(t *testing.T) {
	base := slog.New(slog.NewTextHandler(io.Discard, nil))
	scoped := WithSlot(base, "slot1")
	require.NotNil(t, scoped)
	assert.NotSame(t, base, scoped)
}
