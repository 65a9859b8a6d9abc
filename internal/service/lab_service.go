//go:generate mockery --name LabService --output ./mocks --outpkg mocks --case=underscore
// internal/service/lab_service.go
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

// LabService は実践ラボの進捗 (LabCompletion) を管理します。
// 状態遷移は 未着手 → 進行中 (Start) → 完了 (Complete) の一方向。
// Submit は試行回数と回答の記録のみで、完了判定は行いません
// (回答の正誤判定は採点側の責務)。
type LabService interface {
	ListLabs(ctx context.Context, moduleSlug string) ([]*model.PracticeLab, error)
	StartLab(ctx context.Context, userID, labID uuid.UUID) (*model.LabCompletion, error)
	SubmitLab(ctx context.Context, userID, labID uuid.UUID, req *model.SubmitLabRequest) (*model.LabCompletion, error)
	UseHint(ctx context.Context, userID, labID uuid.UUID) (*model.LabCompletion, error)
	CompleteLab(ctx context.Context, userID, labID uuid.UUID, score int) (*model.LabCompletion, error)
	ResetCompletion(ctx context.Context, userID, labID uuid.UUID) error
}

type labService struct {
	db           *gorm.DB
	labRepo      repository.LabRepository
	learningRepo repository.LearningRepository
}

func NewLabService(db *gorm.DB, labRepo repository.LabRepository, learningRepo repository.LearningRepository) LabService {
	return &labService{
		db:           db,
		labRepo:      labRepo,
		learningRepo: learningRepo,
	}
}

func (s *labService) ListLabs(ctx context.Context, moduleSlug string) ([]*model.PracticeLab, error) {
	logger := middleware.GetLogger(ctx)

	module, err := s.learningRepo.FindModuleBySlug(ctx, s.db, moduleSlug, true)
	if err != nil {
		return nil, err
	}

	labs, err := s.labRepo.FindActiveByModule(ctx, s.db, module.ModuleID)
	if err != nil {
		logger.Error("Error listing labs", "error", err, "module_slug", moduleSlug)
		return nil, model.ErrInternalServer
	}
	return labs, nil
}

// StartLab はラボを開始し、進捗行を get-or-create で返します。
// 既に開始済みの場合は既存の進捗をそのまま返します。
func (s *labService) StartLab(ctx context.Context, userID, labID uuid.UUID) (*model.LabCompletion, error) {
	logger := middleware.GetLogger(ctx)

	if _, err := s.labRepo.FindByID(ctx, s.db, labID); err != nil {
		return nil, err
	}

	existing, err := s.labRepo.FindCompletion(ctx, s.db, userID, labID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		logger.Error("Error checking existing lab completion", "error", err)
		return nil, model.ErrInternalServer
	}

	completion := &model.LabCompletion{
		CompletionID: uuid.New(),
		UserID:       userID,
		LabID:        labID,
		StartedAt:    time.Now(),
	}
	if err := s.labRepo.CreateCompletion(ctx, s.db, completion); err != nil {
		// 同時開始で先を越された場合は既存行を返す
		if errors.Is(err, model.ErrConflict) {
			return s.labRepo.FindCompletion(ctx, s.db, userID, labID)
		}
		logger.Error("Error creating lab completion", "error", err)
		return nil, model.ErrInternalServer
	}

	logger.Info("Lab started", "lab_id", labID.String(), "user_id", userID.String())
	return completion, nil
}

// SubmitLab は回答を記録し、試行回数を加算します。完了状態には遷移しません。
func (s *labService) SubmitLab(ctx context.Context, userID, labID uuid.UUID, req *model.SubmitLabRequest) (*model.LabCompletion, error) {
	logger := middleware.GetLogger(ctx)

	if req.Submission == "" && req.SubmittedFlag == "" {
		return nil, model.ErrInvalidInput
	}

	var result *model.LabCompletion

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		completion, err := s.labRepo.FindCompletion(ctx, tx, userID, labID)
		if err != nil {
			return err // ErrNotFound: まだ開始されていない
		}

		updates := map[string]interface{}{
			"attempts": completion.Attempts + 1,
		}
		if req.Submission != "" {
			updates["submission"] = req.Submission
		}
		if req.SubmittedFlag != "" {
			updates["submitted_flag"] = req.SubmittedFlag
		}

		if err := s.labRepo.UpdateCompletion(ctx, tx, completion.CompletionID, updates); err != nil {
			logger.Error("Error updating lab completion on submit", "error", err)
			return model.ErrInternalServer
		}

		result, err = s.labRepo.FindCompletion(ctx, tx, userID, labID)
		if err != nil {
			logger.Error("Error refetching lab completion after submit", "error", err)
			return model.ErrInternalServer
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		logger.Error("Transaction failed for SubmitLab", "error", err)
		return nil, model.ErrInternalServer
	}

	return result, nil
}

// UseHint はヒント使用回数を加算します
func (s *labService) UseHint(ctx context.Context, userID, labID uuid.UUID) (*model.LabCompletion, error) {
	logger := middleware.GetLogger(ctx)

	var result *model.LabCompletion

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		completion, err := s.labRepo.FindCompletion(ctx, tx, userID, labID)
		if err != nil {
			return err
		}

		if err := s.labRepo.UpdateCompletion(ctx, tx, completion.CompletionID, map[string]interface{}{
			"hints_used": completion.HintsUsed + 1,
		}); err != nil {
			logger.Error("Error updating hint count", "error", err)
			return model.ErrInternalServer
		}

		result, err = s.labRepo.FindCompletion(ctx, tx, userID, labID)
		if err != nil {
			logger.Error("Error refetching lab completion after hint", "error", err)
			return model.ErrInternalServer
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		logger.Error("Transaction failed for UseHint", "error", err)
		return nil, model.ErrInternalServer
	}

	return result, nil
}

// CompleteLab はラボを完了状態にする唯一の遷移です。
// 既に完了している場合は何もせず現在の進捗を返します (スコアの上書きはしない)。
func (s *labService) CompleteLab(ctx context.Context, userID, labID uuid.UUID, score int) (*model.LabCompletion, error) {
	logger := middleware.GetLogger(ctx)

	if score < 0 {
		return nil, model.ErrInvalidInput
	}

	var result *model.LabCompletion

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		completion, err := s.labRepo.FindCompletion(ctx, tx, userID, labID)
		if err != nil {
			return err
		}

		if completion.IsCompleted {
			result = completion
			return nil
		}

		now := time.Now()
		if err := s.labRepo.UpdateCompletion(ctx, tx, completion.CompletionID, map[string]interface{}{
			"is_completed": true,
			"completed_at": now,
			"score":        score,
		}); err != nil {
			logger.Error("Error marking lab as completed", "error", err)
			return model.ErrInternalServer
		}

		result, err = s.labRepo.FindCompletion(ctx, tx, userID, labID)
		if err != nil {
			logger.Error("Error refetching lab completion after complete", "error", err)
			return model.ErrInternalServer
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		logger.Error("Transaction failed for CompleteLab", "error", err)
		return nil, model.ErrInternalServer
	}

	logger.Info("Lab completed", "lab_id", labID.String(), "user_id", userID.String(), "score", result.Score)
	return result, nil
}

// ResetCompletion は完了済みの進捗を未完了に戻します (管理用の一括リセット相当)。
// 完了フラグ・完了時刻・スコアをクリアし、試行回数などの履歴は残します。
func (s *labService) ResetCompletion(ctx context.Context, userID, labID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	completion, err := s.labRepo.FindCompletion(ctx, s.db, userID, labID)
	if err != nil {
		return err
	}

	if err := s.labRepo.UpdateCompletion(ctx, s.db, completion.CompletionID, map[string]interface{}{
		"is_completed": false,
		"completed_at": nil,
		"score":        0,
	}); err != nil {
		logger.Error("Error resetting lab completion", "error", err)
		return model.ErrInternalServer
	}
	return nil
}
