// cmd/server/main_test.go
package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go_cyber_mentor/internal/config"

	"github.com/stretchr/testify/assert"
)

func Test_newLogger_LevelFromConfig(t *testing.T) {
	tempLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	origLevel := config.Cfg.Log.Level
	t.Cleanup(func() { config.Cfg.Log.Level = origLevel })

	tests := []struct {
		name          string
		level         string
		enabledLevel  slog.Level
		disabledLevel slog.Level
	}{
		{"debugレベル", "debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"infoレベル", "info", slog.LevelInfo, slog.LevelDebug},
		{"warnレベル", "warn", slog.LevelWarn, slog.LevelInfo},
		{"errorレベル", "error", slog.LevelError, slog.LevelWarn},
		{"不明な値はinfoに倒す", "verbose", slog.LevelInfo, slog.LevelDebug},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "production")
			config.Cfg.Log.Level = tt.level

			logger := newLogger(tempLogger)

			assert.True(t, logger.Enabled(ctx, tt.enabledLevel))
			assert.False(t, logger.Enabled(ctx, tt.disabledLevel))
		})
	}

	t.Run("devではtintハンドラでもレベル設定が効く", func(t *testing.T) {
		t.Setenv("APP_ENV", "dev")
		config.Cfg.Log.Level = "warn"

		logger := newLogger(tempLogger)

		assert.True(t, logger.Enabled(ctx, slog.LevelWarn))
		assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	})
}
