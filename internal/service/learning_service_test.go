// internal/service/learning_service_test.go
package service

import (
	"context"
	"testing"

	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- テストヘルパー ---

func createTestModule(t *testing.T, db *gorm.DB, slug string, order int, active bool) *model.LearningModule {
	t.Helper()
	module := &model.LearningModule{
		ModuleID: uuid.New(),
		Title:    "Module " + slug,
		Slug:     slug,
		Icon:     model.IconSeedling,
		Order:    order,
		IsActive: active,
	}
	require.NoError(t, db.Create(module).Error)
	return module
}

func createTestVideo(t *testing.T, db *gorm.DB, moduleID uuid.UUID, order int, active bool) *model.LearningVideo {
	t.Helper()
	video := &model.LearningVideo{
		VideoID:   uuid.New(),
		ModuleID:  moduleID,
		Title:     "Video",
		YouTubeID: "dQw4w9WgXcQ",
		Order:     order,
		IsActive:  active,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

func newTestLearningService(t *testing.T) (LearningService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewLearningService(db, repository.NewGormLearningRepository())
	return svc, db
}

// --- テスト関数 ---

func Test_learningService_ListModules(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestLearningService(t)

	createTestModule(t, db, "web-security", 2, true)
	createTestModule(t, db, "basics", 1, true)
	createTestModule(t, db, "hidden", 0, false)

	modules, err := svc.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 2, "inactive modules are not listed")
	assert.Equal(t, "basics", modules[0].Slug, "modules are ordered by display order")
	assert.Equal(t, "web-security", modules[1].Slug)
}

func Test_learningService_GetModuleDetail(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestLearningService(t)

	module := createTestModule(t, db, "network-fundamentals", 1, true)
	createTestVideo(t, db, module.ModuleID, 2, true)
	createTestVideo(t, db, module.ModuleID, 1, true)
	createTestVideo(t, db, module.ModuleID, 3, false)

	t.Run("動画は表示順で返り、非アクティブは含まれない", func(t *testing.T) {
		detail, err := svc.GetModuleDetail(ctx, "network-fundamentals")
		require.NoError(t, err)
		assert.Equal(t, module.ModuleID, detail.Module.ModuleID)
		require.Len(t, detail.Videos, 2)
		assert.Equal(t, 1, detail.Videos[0].Order)
		assert.Equal(t, 2, detail.Videos[1].Order)
	})

	t.Run("存在しないスラッグは ErrNotFound", func(t *testing.T) {
		_, err := svc.GetModuleDetail(ctx, "no-such-module")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("非アクティブなモジュールは見えない", func(t *testing.T) {
		createTestModule(t, db, "retired", 9, false)
		_, err := svc.GetModuleDetail(ctx, "retired")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("空スラッグは ErrInvalidInput", func(t *testing.T) {
		_, err := svc.GetModuleDetail(ctx, "")
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

// is_active=false がDB側デフォルトに上書きされず、そのまま保存されることを確認する
func Test_learningService_InactiveFlagPersisted(t *testing.T) {
	_, db := newTestLearningService(t)

	module := createTestModule(t, db, "dormant", 1, false)
	createTestVideo(t, db, module.ModuleID, 1, false)
	createTestLab(t, db, module.ModuleID, "dormant-lab", false)

	var gotModule model.LearningModule
	require.NoError(t, db.First(&gotModule, "module_id = ?", module.ModuleID).Error)
	assert.False(t, gotModule.IsActive)

	var gotVideo model.LearningVideo
	require.NoError(t, db.First(&gotVideo, "module_id = ?", module.ModuleID).Error)
	assert.False(t, gotVideo.IsActive)

	var gotLab model.PracticeLab
	require.NoError(t, db.First(&gotLab, "module_id = ?", module.ModuleID).Error)
	assert.False(t, gotLab.IsActive)
}

func TestLearningVideo_URLs(t *testing.T) {
	video := &model.LearningVideo{YouTubeID: "abc123"}
	assert.Equal(t, "https://youtu.be/abc123", video.WatchURL())
	assert.Equal(t, "https://www.youtube.com/embed/abc123", video.EmbedURL())
}
