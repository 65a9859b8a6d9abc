//go:generate mockery --name LabRepository --output ./mocks --outpkg mocks --case=underscore
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

// LabRepository は実践ラボとユーザーごとの進捗のリポジトリです
type LabRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, labID uuid.UUID) (*model.PracticeLab, error)
	FindActiveByModule(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) ([]*model.PracticeLab, error)
	FindCompletion(ctx context.Context, db *gorm.DB, userID, labID uuid.UUID) (*model.LabCompletion, error)
	CreateCompletion(ctx context.Context, tx *gorm.DB, completion *model.LabCompletion) error
	UpdateCompletion(ctx context.Context, tx *gorm.DB, completionID uuid.UUID, updates map[string]interface{}) error
}

type gormLabRepository struct{}

func NewGormLabRepository() LabRepository {
	return &gormLabRepository{}
}

func (r *gormLabRepository) FindByID(ctx context.Context, db *gorm.DB, labID uuid.UUID) (*model.PracticeLab, error) {
	logger := middleware.GetLogger(ctx)
	var lab model.PracticeLab
	result := db.WithContext(ctx).Where("lab_id = ? AND is_active = ?", labID, true).First(&lab)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding practice lab by ID in DB",
			"error", result.Error,
			"lab_id", labID.String(),
		)
		return nil, fmt.Errorf("gormLabRepository.FindByID: %w", result.Error)
	}
	return &lab, nil
}

func (r *gormLabRepository) FindActiveByModule(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) ([]*model.PracticeLab, error) {
	logger := middleware.GetLogger(ctx)
	var labs []*model.PracticeLab
	result := db.WithContext(ctx).
		Where("module_id = ? AND is_active = ?", moduleID, true).
		Order("display_order ASC, title ASC").
		Find(&labs)
	if result.Error != nil {
		logger.Error("Error finding active labs by module in DB",
			"error", result.Error,
			"module_id", moduleID.String(),
		)
		return nil, fmt.Errorf("gormLabRepository.FindActiveByModule: %w", result.Error)
	}
	return labs, nil
}

func (r *gormLabRepository) FindCompletion(ctx context.Context, db *gorm.DB, userID, labID uuid.UUID) (*model.LabCompletion, error) {
	logger := middleware.GetLogger(ctx)
	var completion model.LabCompletion
	result := db.WithContext(ctx).
		Where("user_id = ? AND lab_id = ?", userID, labID).
		First(&completion)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding lab completion in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"lab_id", labID.String(),
		)
		return nil, fmt.Errorf("gormLabRepository.FindCompletion: %w", result.Error)
	}
	return &completion, nil
}

func (r *gormLabRepository) CreateCompletion(ctx context.Context, tx *gorm.DB, completion *model.LabCompletion) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(completion)
	if result.Error != nil {
		// (user, lab) の複合ユニーク制約違反はConflictとして返す
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		logger.Error("Error creating lab completion in DB",
			"error", result.Error,
			"user_id", completion.UserID.String(),
			"lab_id", completion.LabID.String(),
		)
		return fmt.Errorf("gormLabRepository.CreateCompletion: %w", result.Error)
	}
	return nil
}

func (r *gormLabRepository) UpdateCompletion(ctx context.Context, tx *gorm.DB, completionID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.LabCompletion{}).
		Where("completion_id = ?", completionID).
		Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating lab completion in DB",
			"error", result.Error,
			"completion_id", completionID.String(),
		)
		return fmt.Errorf("gormLabRepository.UpdateCompletion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
