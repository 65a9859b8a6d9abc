//go:generate mockery --name LearningService --output ./mocks --outpkg mocks --case=underscore
// internal/service/learning_service.go
package service

import (
	"context"

	"go_cyber_mentor/internal/middleware"
	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/repository"

	"gorm.io/gorm"
)

// LearningService は学習カタログの読み取り系APIです。
// 非アクティブなモジュールは一覧・詳細のどちらでも見えません
// (モジュールの無効化は配下の動画の可視性にもカスケードします)。
type LearningService interface {
	ListModules(ctx context.Context) ([]*model.LearningModule, error)
	GetModuleDetail(ctx context.Context, slug string) (*model.ModuleDetailResponse, error)
}

type learningService struct {
	db           *gorm.DB
	learningRepo repository.LearningRepository
}

func NewLearningService(db *gorm.DB, learningRepo repository.LearningRepository) LearningService {
	return &learningService{
		db:           db,
		learningRepo: learningRepo,
	}
}

func (s *learningService) ListModules(ctx context.Context) ([]*model.LearningModule, error) {
	logger := middleware.GetLogger(ctx)
	modules, err := s.learningRepo.FindActiveModules(ctx, s.db)
	if err != nil {
		logger.Error("Error listing learning modules", "error", err)
		return nil, model.ErrInternalServer
	}
	return modules, nil
}

func (s *learningService) GetModuleDetail(ctx context.Context, slug string) (*model.ModuleDetailResponse, error) {
	logger := middleware.GetLogger(ctx)

	if slug == "" {
		return nil, model.ErrInvalidInput
	}

	module, err := s.learningRepo.FindModuleBySlug(ctx, s.db, slug, true)
	if err != nil {
		// ErrNotFound はそのまま呼び出し側に返す
		return nil, err
	}

	videos, err := s.learningRepo.FindActiveVideosByModule(ctx, s.db, module.ModuleID)
	if err != nil {
		logger.Error("Error listing module videos", "error", err, "slug", slug)
		return nil, model.ErrInternalServer
	}

	return &model.ModuleDetailResponse{
		Module: module,
		Videos: videos,
	}, nil
}
