package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"verbose", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, levelFromEnv(tt.in, slog.LevelWarn))
		})
	}
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/build.go", shortPath("/home/dev/src/deploytx/internal/usecase/build.go"))
	assert.Equal(t, "main.go", shortPath("/elsewhere/main.go"))
}
