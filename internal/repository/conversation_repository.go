//go:generate mockery --name ConversationRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_cyber_mentor/internal/middleware"
	"go_cyber_mentor/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConversationRepository インターフェース
type ConversationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, conv *model.Conversation) error
	FindByID(ctx context.Context, db *gorm.DB, userID, conversationID uuid.UUID) (*model.Conversation, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.Conversation, error)
	Update(ctx context.Context, tx *gorm.DB, userID, conversationID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, userID, conversationID uuid.UUID) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	CountDistinctUsers(ctx context.Context, db *gorm.DB) (int64, error)
	AverageMessageCount(ctx context.Context, db *gorm.DB) (float64, error)
}

type gormConversationRepository struct{}

func NewGormConversationRepository() ConversationRepository {
	return &gormConversationRepository{}
}

func (r *gormConversationRepository) Create(ctx context.Context, tx *gorm.DB, conv *model.Conversation) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(conv)
	if result.Error != nil {
		logger.Error("Error creating conversation in DB",
			"error", result.Error,
			"user_id", conv.UserID.String(),
		)
		return fmt.Errorf("gormConversationRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, db *gorm.DB, userID, conversationID uuid.UUID) (*model.Conversation, error) {
	logger := middleware.GetLogger(ctx)
	var conv model.Conversation
	// 所有者以外からの参照は存在しない扱いにする
	result := db.WithContext(ctx).Where("user_id = ? AND conversation_id = ?", userID, conversationID).First(&conv)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding conversation by ID in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"conversation_id", conversationID.String(),
		)
		return nil, fmt.Errorf("gormConversationRepository.FindByID: %w", result.Error)
	}
	return &conv, nil
}

func (r *gormConversationRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.Conversation, error) {
	logger := middleware.GetLogger(ctx)
	var convs []*model.Conversation
	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&convs)
	if result.Error != nil {
		logger.Error("Error finding conversations by user in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormConversationRepository.FindByUser: %w", result.Error)
	}
	return convs, nil
}

func (r *gormConversationRepository) Update(ctx context.Context, tx *gorm.DB, userID, conversationID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	// updated_at は呼び出し側が明示的に渡したときだけ変更する
	// (メッセージ削除では進めない)。自動タイムスタンプは使わない。
	result := tx.WithContext(ctx).Model(&model.Conversation{}).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		UpdateColumns(updates)
	if result.Error != nil {
		logger.Error("Error updating conversation in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"conversation_id", conversationID.String(),
		)
		return fmt.Errorf("gormConversationRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormConversationRepository) Delete(ctx context.Context, tx *gorm.DB, userID, conversationID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		Delete(&model.Conversation{})
	if result.Error != nil {
		logger.Error("Error deleting conversation in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"conversation_id", conversationID.String(),
		)
		return fmt.Errorf("gormConversationRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormConversationRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Conversation{}).Count(&count)
	if result.Error != nil {
		logger.Error("Error counting conversations in DB", "error", result.Error)
		return 0, fmt.Errorf("gormConversationRepository.Count: %w", result.Error)
	}
	return count, nil
}

func (r *gormConversationRepository) CountDistinctUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Conversation{}).
		Distinct("user_id").
		Count(&count)
	if result.Error != nil {
		logger.Error("Error counting distinct conversation users in DB", "error", result.Error)
		return 0, fmt.Errorf("gormConversationRepository.CountDistinctUsers: %w", result.Error)
	}
	return count, nil
}

func (r *gormConversationRepository) AverageMessageCount(ctx context.Context, db *gorm.DB) (float64, error) {
	logger := middleware.GetLogger(ctx)
	// 会話が0件のときは 0.0 を返す (COALESCEでNULLを潰す)
	var avg float64
	result := db.WithContext(ctx).Model(&model.Conversation{}).
		Select("COALESCE(AVG(message_count), 0)").
		Scan(&avg)
	if result.Error != nil {
		logger.Error("Error computing average message count in DB", "error", result.Error)
		return 0, fmt.Errorf("gormConversationRepository.AverageMessageCount: %w", result.Error)
	}
	return avg, nil
}
