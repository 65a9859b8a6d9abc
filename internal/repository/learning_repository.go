//go:generate mockery --name LearningRepository --output ./mocks --outpkg mocks --case=underscore
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

// LearningRepository は学習カタログ (モジュール・動画) の参照系リポジトリです。
// 書き込みは管理側の operations であり、このAPIの対象外です。
type LearningRepository interface {
	FindActiveModules(ctx context.Context, db *gorm.DB) ([]*model.LearningModule, error)
	FindModuleBySlug(ctx context.Context, db *gorm.DB, slug string, activeOnly bool) (*model.LearningModule, error)
	FindActiveVideosByModule(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) ([]*model.LearningVideo, error)
}

type gormLearningRepository struct{}

func NewGormLearningRepository() LearningRepository {
	return &gormLearningRepository{}
}

func (r *gormLearningRepository) FindActiveModules(ctx context.Context, db *gorm.DB) ([]*model.LearningModule, error) {
	logger := middleware.GetLogger(ctx)
	var modules []*model.LearningModule
	result := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, title ASC").
		Find(&modules)
	if result.Error != nil {
		logger.Error("Error finding active learning modules in DB", "error", result.Error)
		return nil, fmt.Errorf("gormLearningRepository.FindActiveModules: %w", result.Error)
	}
	return modules, nil
}

func (r *gormLearningRepository) FindModuleBySlug(ctx context.Context, db *gorm.DB, slug string, activeOnly bool) (*model.LearningModule, error) {
	logger := middleware.GetLogger(ctx)
	var module model.LearningModule
	query := db.WithContext(ctx).Where("slug = ?", slug)
	if activeOnly {
		// 非アクティブなモジュールは読み取り境界で存在しない扱いにする
		query = query.Where("is_active = ?", true)
	}
	result := query.First(&module)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding learning module by slug in DB",
			"error", result.Error,
			"slug", slug,
		)
		return nil, fmt.Errorf("gormLearningRepository.FindModuleBySlug: %w", result.Error)
	}
	return &module, nil
}

func (r *gormLearningRepository) FindActiveVideosByModule(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) ([]*model.LearningVideo, error) {
	logger := middleware.GetLogger(ctx)
	var videos []*model.LearningVideo
	result := db.WithContext(ctx).
		Where("module_id = ? AND is_active = ?", moduleID, true).
		Order("display_order ASC, title ASC").
		Find(&videos)
	if result.Error != nil {
		logger.Error("Error finding active videos by module in DB",
			"error", result.Error,
			"module_id", moduleID.String(),
		)
		return nil, fmt.Errorf("gormLearningRepository.FindActiveVideosByModule: %w", result.Error)
	}
	return videos, nil
}
