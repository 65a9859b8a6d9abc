// internal/service/stats_service_test.go
package service

import (
	"context"
	"testing"

	"go_cyber_mentor/internal/cache"
	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStatsService(t *testing.T) (StatsService, ConversationService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	convRepo := repository.NewGormConversationRepository()
	msgRepo := repository.NewGormMessageRepository()
	statsSvc := NewStatsService(db, repository.NewGormStatsRepository(), convRepo, msgRepo)
	convSvc := NewConversationService(db, convRepo, msgRepo, cache.NewMemoryStore(), testConfig())
	return statsSvc, convSvc, db
}

func Test_statsService_RecomputeDailyStats(t *testing.T) {
	ctx := context.Background()

	t.Run("会話が1件もないときは平均0.0の行ができる", func(t *testing.T) {
		statsSvc, _, _ := newTestStatsService(t)

		stats, err := statsSvc.RecomputeDailyStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.TotalConversations)
		assert.Equal(t, int64(0), stats.TotalMessages)
		assert.Equal(t, int64(0), stats.ActiveUsers)
		assert.Equal(t, 0.0, stats.AvgMessagesPerConversation)
	})

	t.Run("集計値が現在のDB状態を反映する", func(t *testing.T) {
		statsSvc, convSvc, db := newTestStatsService(t)

		alice := createTestUser(t, db)
		bob := createTestUser(t, db)

		conv1, err := convSvc.CreateConversation(ctx, alice.UserID)
		require.NoError(t, err)
		conv2, err := convSvc.CreateConversation(ctx, bob.UserID)
		require.NoError(t, err)

		_, err = convSvc.AppendMessage(ctx, alice.UserID, conv1.ConversationID, "q1", true)
		require.NoError(t, err)
		_, err = convSvc.AppendMessage(ctx, alice.UserID, conv1.ConversationID, "a1", false)
		require.NoError(t, err)
		_, err = convSvc.AppendMessage(ctx, alice.UserID, conv1.ConversationID, "q2", true)
		require.NoError(t, err)
		_, err = convSvc.AppendMessage(ctx, bob.UserID, conv2.ConversationID, "hello", true)
		require.NoError(t, err)

		stats, err := statsSvc.RecomputeDailyStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalConversations)
		assert.Equal(t, int64(4), stats.TotalMessages)
		assert.Equal(t, int64(2), stats.ActiveUsers)
		// (3 + 1) / 2
		assert.InDelta(t, 2.0, stats.AvgMessagesPerConversation, 0.001)
	})

	t.Run("同日の再実行は同じ行を上書きする", func(t *testing.T) {
		statsSvc, convSvc, db := newTestStatsService(t)

		first, err := statsSvc.RecomputeDailyStats(ctx)
		require.NoError(t, err)

		user := createTestUser(t, db)
		conv, err := convSvc.CreateConversation(ctx, user.UserID)
		require.NoError(t, err)
		_, err = convSvc.AppendMessage(ctx, user.UserID, conv.ConversationID, "hi", true)
		require.NoError(t, err)

		second, err := statsSvc.RecomputeDailyStats(ctx)
		require.NoError(t, err)

		// 行は増えず、同じ行の値が更新されている
		assert.Equal(t, first.StatsID, second.StatsID)
		assert.Equal(t, int64(1), second.TotalConversations)
		assert.Equal(t, int64(1), second.TotalMessages)

		var count int64
		require.NoError(t, db.Model(&model.ConversationStats{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func Test_statsService_GetRecentStats(t *testing.T) {
	ctx := context.Background()
	statsSvc, _, _ := newTestStatsService(t)

	t.Run("統計が無ければ空", func(t *testing.T) {
		rows, err := statsSvc.GetRecentStats(ctx, 7)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("再集計後は当日分が返る", func(t *testing.T) {
		_, err := statsSvc.RecomputeDailyStats(ctx)
		require.NoError(t, err)

		rows, err := statsSvc.GetRecentStats(ctx, 7)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})
}
