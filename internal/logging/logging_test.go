package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewText_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewText(&buf, slog.LevelInfo)
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.Info(ctx, "shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "key=value")
}

func TestWith_AttachesPairs(t *testing.T) {
	var buf bytes.Buffer
	log := NewText(&buf, slog.LevelDebug).With("component", "session")

	log.Warn(context.Background(), "token refresh failed")

	out := buf.String()
	assert.Contains(t, out, "component=session")
	assert.Contains(t, out, "token refresh failed")
	assert.Contains(t, out, "WARN")
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewText(&buf, slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "d")
	log.Info(ctx, "i")
	log.Warn(ctx, "w")
	log.Error(ctx, "e")

	out := buf.String()
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		assert.Contains(t, out, level)
	}
}
