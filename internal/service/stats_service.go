//go:generate mockery --name StatsService --output ./mocks --outpkg mocks --case=underscore
// internal/service/stats_service.go
package service

import (
	"context"
	"errors"
	"time"

	"go_cyber_mentor/internal/middleware"
	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatsService は日次の利用統計スナップショットを管理します
type StatsService interface {
	// RecomputeDailyStats は今日の統計行を get-or-create し、4つの集計値を
	// 最新の値で上書きします。同日の再実行は同じ行を更新します (冪等)。
	RecomputeDailyStats(ctx context.Context) (*model.ConversationStats, error)
	GetRecentStats(ctx context.Context, limit int) ([]*model.ConversationStats, error)
}

type statsService struct {
	db        *gorm.DB
	statsRepo repository.StatsRepository
	convRepo  repository.ConversationRepository
	msgRepo   repository.MessageRepository
}

func NewStatsService(db *gorm.DB, statsRepo repository.StatsRepository, convRepo repository.ConversationRepository, msgRepo repository.MessageRepository) StatsService {
	return &statsService{
		db:        db,
		statsRepo: statsRepo,
		convRepo:  convRepo,
		msgRepo:   msgRepo,
	}
}

func (s *statsService) RecomputeDailyStats(ctx context.Context) (*model.ConversationStats, error) {
	logger := middleware.GetLogger(ctx)
	today := model.StatsDate(time.Now())

	var result *model.ConversationStats

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stats, err := s.statsRepo.FindByDate(ctx, tx, today)
		if err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				logger.Error("Error finding today's stats row", "error", err)
				return model.ErrInternalServer
			}
			stats = &model.ConversationStats{
				StatsID: uuid.New(),
				Date:    today,
			}
			if err := s.statsRepo.Create(ctx, tx, stats); err != nil {
				// 同時実行で同日の行が先に作られた場合は取り直す
				if errors.Is(err, model.ErrConflict) {
					stats, err = s.statsRepo.FindByDate(ctx, tx, today)
					if err != nil {
						logger.Error("Error refetching stats row after conflict", "error", err)
						return model.ErrInternalServer
					}
				} else {
					logger.Error("Error creating today's stats row", "error", err)
					return model.ErrInternalServer
				}
			}
		}

		totalConversations, err := s.convRepo.Count(ctx, tx)
		if err != nil {
			logger.Error("Error counting conversations", "error", err)
			return model.ErrInternalServer
		}
		totalMessages, err := s.msgRepo.Count(ctx, tx)
		if err != nil {
			logger.Error("Error counting messages", "error", err)
			return model.ErrInternalServer
		}
		activeUsers, err := s.convRepo.CountDistinctUsers(ctx, tx)
		if err != nil {
			logger.Error("Error counting active users", "error", err)
			return model.ErrInternalServer
		}
		// 会話が0件のときは 0.0 (ゼロ除算はリポジトリ側でCOALESCE済み)
		avgMessages, err := s.convRepo.AverageMessageCount(ctx, tx)
		if err != nil {
			logger.Error("Error computing average message count", "error", err)
			return model.ErrInternalServer
		}

		stats.TotalConversations = totalConversations
		stats.TotalMessages = totalMessages
		stats.ActiveUsers = activeUsers
		stats.AvgMessagesPerConversation = avgMessages

		if err := s.statsRepo.Update(ctx, tx, stats); err != nil {
			logger.Error("Error updating today's stats row", "error", err)
			return model.ErrInternalServer
		}

		result = stats
		return nil
	})
	if err != nil {
		logger.Error("Transaction failed for RecomputeDailyStats", "error", err)
		return nil, model.ErrInternalServer
	}

	logger.Info("Daily stats recomputed",
		"date", today.Format("2006-01-02"),
		"total_conversations", result.TotalConversations,
		"total_messages", result.TotalMessages,
		"active_users", result.ActiveUsers,
	)
	return result, nil
}

func (s *statsService) GetRecentStats(ctx context.Context, limit int) ([]*model.ConversationStats, error) {
	logger := middleware.GetLogger(ctx)
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.statsRepo.FindRecent(ctx, s.db, limit)
	if err != nil {
		logger.Error("Error listing recent stats", "error", err)
		return nil, model.ErrInternalServer
	}
	return rows, nil
}
