//go:generate mockery --name MessageRepository --output ./mocks --outpkg mocks --case=underscore
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

// MessageRepository インターフェース
type MessageRepository interface {
	Create(ctx context.Context, tx *gorm.DB, msg *model.Message) error
	FindByID(ctx context.Context, db *gorm.DB, messageID uuid.UUID) (*model.Message, error)
	FindByConversation(ctx context.Context, db *gorm.DB, conversationID uuid.UUID) ([]*model.Message, error)
	FindFirstUserMessage(ctx context.Context, db *gorm.DB, conversationID uuid.UUID) (*model.Message, error)
	Delete(ctx context.Context, tx *gorm.DB, messageID uuid.UUID) error
	CountByConversation(ctx context.Context, db *gorm.DB, conversationID uuid.UUID) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}

type gormMessageRepository struct{}

func NewGormMessageRepository() MessageRepository {
	return &gormMessageRepository{}
}

func (r *gormMessageRepository) Create(ctx context.Context, tx *gorm.DB, msg *model.Message) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(msg)
	if result.Error != nil {
		logger.Error("Error creating message in DB",
			"error", result.Error,
			"conversation_id", msg.ConversationID.String(),
		)
		return fmt.Errorf("gormMessageRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, db *gorm.DB, messageID uuid.UUID) (*model.Message, error) {
	logger := middleware.GetLogger(ctx)
	var msg model.Message
	result := db.WithContext(ctx).Where("message_id = ?", messageID).First(&msg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding message by ID in DB",
			"error", result.Error,
			"message_id", messageID.String(),
		)
		return nil, fmt.Errorf("gormMessageRepository.FindByID: %w", result.Error)
	}
	return &msg, nil
}

func (r *gormMessageRepository) FindByConversation(ctx context.Context, db *gorm.DB, conversationID uuid.UUID) ([]*model.Message, error) {
	logger := middleware.GetLogger(ctx)
	var msgs []*model.Message
	result := db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&msgs)
	if result.Error != nil {
		logger.Error("Error finding messages by conversation in DB",
			"error", result.Error,
			"conversation_id", conversationID.String(),
		)
		return nil, fmt.Errorf("gormMessageRepository.FindByConversation: %w", result.Error)
	}
	return msgs, nil
}

func (r *gormMessageRepository) FindFirstUserMessage(ctx context.Context, db *gorm.DB, conversationID uuid.UUID) (*model.Message, error) {
	logger := middleware.GetLogger(ctx)
	var msg model.Message
	result := db.WithContext(ctx).
		Where("conversation_id = ? AND is_from_user = ?", conversationID, true).
		Order("created_at ASC").
		First(&msg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding first user message in DB",
			"error", result.Error,
			"conversation_id", conversationID.String(),
		)
		return nil, fmt.Errorf("gormMessageRepository.FindFirstUserMessage: %w", result.Error)
	}
	return &msg, nil
}

func (r *gormMessageRepository) Delete(ctx context.Context, tx *gorm.DB, messageID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("message_id = ?", messageID).Delete(&model.Message{})
	if result.Error != nil {
		logger.Error("Error deleting message in DB",
			"error", result.Error,
			"message_id", messageID.String(),
		)
		return fmt.Errorf("gormMessageRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormMessageRepository) CountByConversation(ctx context.Context, db *gorm.DB, conversationID uuid.UUID) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count)
	if result.Error != nil {
		logger.Error("Error counting messages by conversation in DB",
			"error", result.Error,
			"conversation_id", conversationID.String(),
		)
		return 0, fmt.Errorf("gormMessageRepository.CountByConversation: %w", result.Error)
	}
	return count, nil
}

func (r *gormMessageRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Message{}).Count(&count)
	if result.Error != nil {
		logger.Error("Error counting messages in DB", "error", result.Error)
		return 0, fmt.Errorf("gormMessageRepository.Count: %w", result.Error)
	}
	return count, nil
}
