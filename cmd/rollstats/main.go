// cmd/rollstats/main.go
// 日次統計の集計バッチ。cron等から1日1回実行する想定ですが、
// 同日に何度実行しても同じ行を上書きするだけです。
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"go_cyber_mentor/internal/config"
	"go_cyber_mentor/internal/repository"
	"go_cyber_mentor/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	statsRepo := repository.NewGormStatsRepository()
	convRepo := repository.NewGormConversationRepository()
	msgRepo := repository.NewGormMessageRepository()
	statsService := service.NewStatsService(db, statsRepo, convRepo, msgRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := statsService.RecomputeDailyStats(ctx)
	if err != nil {
		slog.Error("Failed to recompute daily stats", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Daily stats recomputed",
		slog.Time("date", stats.Date),
		slog.Int64("total_conversations", stats.TotalConversations),
		slog.Int64("total_messages", stats.TotalMessages),
		slog.Int64("active_users", stats.ActiveUsers),
		slog.Float64("avg_messages_per_conversation", stats.AvgMessagesPerConversation),
	)
}
