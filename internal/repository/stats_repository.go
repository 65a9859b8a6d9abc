//go:generate mockery --name StatsRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_cyber_mentor/internal/middleware"
	"go_cyber_mentor/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatsRepository インターフェース
type StatsRepository interface {
	FindByDate(ctx context.Context, db *gorm.DB, date time.Time) (*model.ConversationStats, error)
	Create(ctx context.Context, tx *gorm.DB, stats *model.ConversationStats) error
	Update(ctx context.Context, tx *gorm.DB, stats *model.ConversationStats) error
	FindRecent(ctx context.Context, db *gorm.DB, limit int) ([]*model.ConversationStats, error)
}

type gormStatsRepository struct{}

func NewGormStatsRepository() StatsRepository {
	return &gormStatsRepository{}
}

func (r *gormStatsRepository) FindByDate(ctx context.Context, db *gorm.DB, date time.Time) (*model.ConversationStats, error) {
	logger := middleware.GetLogger(ctx)
	var stats model.ConversationStats
	result := db.WithContext(ctx).Where("date = ?", model.StatsDate(date)).First(&stats)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding stats by date in DB",
			"error", result.Error,
			"date", model.StatsDate(date).Format("2006-01-02"),
		)
		return nil, fmt.Errorf("gormStatsRepository.FindByDate: %w", result.Error)
	}
	return &stats, nil
}

func (r *gormStatsRepository) Create(ctx context.Context, tx *gorm.DB, stats *model.ConversationStats) error {
	logger := middleware.GetLogger(ctx)
	if stats.StatsID == uuid.Nil {
		stats.StatsID = uuid.New()
	}
	stats.Date = model.StatsDate(stats.Date)
	result := tx.WithContext(ctx).Create(stats)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		logger.Error("Error creating stats row in DB",
			"error", result.Error,
			"date", stats.Date.Format("2006-01-02"),
		)
		return fmt.Errorf("gormStatsRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormStatsRepository) Update(ctx context.Context, tx *gorm.DB, stats *model.ConversationStats) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.ConversationStats{}).
		Where("stats_id = ?", stats.StatsID).
		Updates(map[string]interface{}{
			"total_conversations":           stats.TotalConversations,
			"total_messages":                stats.TotalMessages,
			"active_users":                  stats.ActiveUsers,
			"avg_messages_per_conversation": stats.AvgMessagesPerConversation,
		})
	if result.Error != nil {
		logger.Error("Error updating stats row in DB",
			"error", result.Error,
			"stats_id", stats.StatsID.String(),
		)
		return fmt.Errorf("gormStatsRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormStatsRepository) FindRecent(ctx context.Context, db *gorm.DB, limit int) ([]*model.ConversationStats, error) {
	logger := middleware.GetLogger(ctx)
	var rows []*model.ConversationStats
	result := db.WithContext(ctx).Order("date DESC").Limit(limit).Find(&rows)
	if result.Error != nil {
		logger.Error("Error finding recent stats in DB", "error", result.Error)
		return nil, fmt.Errorf("gormStatsRepository.FindRecent: %w", result.Error)
	}
	return rows, nil
}
