// internal/service/conversation_service_test.go
package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go_cyber_mentor/internal/cache"
	"go_cyber_mentor/internal/config"
	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- テストヘルパー ---

// setupTestDB はテストごとに独立したインメモリDBを用意します
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to connect database for testing")
	require.NoError(t, repository.Migrate(db), "failed to migrate database for testing")
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.ConversationPageSizes = []int{10, 20}
	cfg.App.MessageCacheTTL = 5 * time.Minute
	cfg.App.ConversationCacheTTL = 10 * time.Minute
	return cfg
}

func newTestConversationService(t *testing.T) (ConversationService, *gorm.DB, cache.Store) {
	t.Helper()
	db := setupTestDB(t)
	store := cache.NewMemoryStore()
	svc := NewConversationService(db, repository.NewGormConversationRepository(), repository.NewGormMessageRepository(), store, testConfig())
	return svc, db, store
}

func createTestUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{
		UserID:       uuid.New(),
		Name:         "test user",
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// --- テスト関数 ---

func Test_conversationService_AppendMessage(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestConversationService(t)
	user := createTestUser(t, db)

	conv, err := svc.CreateConversation(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "", conv.Title)
	assert.Equal(t, 0, conv.MessageCount)

	t.Run("ユーザーメッセージ追加でカウント再計算とタイトル生成", func(t *testing.T) {
		msg, err := svc.AppendMessage(ctx, user.UserID, conv.ConversationID, "Hello", true)
		require.NoError(t, err)
		assert.Equal(t, model.HashContent("Hello"), msg.ContentHash)

		got, err := svc.GetConversation(ctx, user.UserID, conv.ConversationID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.MessageCount)
		assert.Equal(t, "Hello", got.Title)
		assert.WithinDuration(t, msg.CreatedAt, got.UpdatedAt, time.Second)
	})

	t.Run("AI応答の追加でもカウントは再計算されタイトルは不変", func(t *testing.T) {
		_, err := svc.AppendMessage(ctx, user.UserID, conv.ConversationID, "Hi there", false)
		require.NoError(t, err)

		got, err := svc.GetConversation(ctx, user.UserID, conv.ConversationID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.MessageCount)
		assert.Equal(t, "Hello", got.Title)
	})

	t.Run("2通目以降のユーザーメッセージでタイトルは上書きされない", func(t *testing.T) {
		_, err := svc.AppendMessage(ctx, user.UserID, conv.ConversationID, "Second question", true)
		require.NoError(t, err)

		got, err := svc.GetConversation(ctx, user.UserID, conv.ConversationID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.MessageCount)
		assert.Equal(t, "Hello", got.Title)
	})

	t.Run("空白のみの本文は ErrInvalidInput", func(t *testing.T) {
		_, err := svc.AppendMessage(ctx, user.UserID, conv.ConversationID, "   ", true)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("他人の会話には追記できない", func(t *testing.T) {
		other := createTestUser(t, db)
		_, err := svc.AppendMessage(ctx, other.UserID, conv.ConversationID, "hijack", true)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func Test_conversationService_TitleFromAIFirstConversation(t *testing.T) {
	// AI応答が先に入った会話では、最初の「ユーザー」メッセージが入るまで
	// タイトルは生成されない
	ctx := context.Background()
	svc, db, _ := newTestConversationService(t)
	user := createTestUser(t, db)

	conv, err := svc.CreateConversation(ctx, user.UserID)
	require.NoError(t, err)

	_, err = svc.AppendMessage(ctx, user.UserID, conv.ConversationID, "Welcome!", false)
	require.NoError(t, err)

	got, err := svc.GetConversation(ctx, user.UserID, conv.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Title)

	_, err = svc.AppendMessage(ctx, user.UserID, conv.ConversationID, "What is XSS?", true)
	require.NoError(t, err)

	got, err = svc.GetConversation(ctx, user.UserID, conv.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, "What is XSS?", got.Title)
}

func Test_conversationService_DeleteMessage(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestConversationService(t)
	user := createTestUser(t, db)

	conv, err := svc.CreateConversation(ctx, user.UserID)
	require.NoError(t, err)

	msg1, err := svc.AppendMessage(ctx, user.UserID, conv.ConversationID, "first", true)
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, user.UserID, conv.ConversationID, "second", false)
	require.NoError(t, err)

	before, err := svc.GetConversation(ctx, user.UserID, conv.ConversationID)
	require.NoError(t, err)
	require.Equal(t, 2, before.MessageCount)

	t.Run("削除後もカウントは数え直しで一致する", func(t *testing.T) {
		require.NoError(t, svc.DeleteMessage(ctx, user.UserID, msg1.MessageID))

		got, err := svc.GetConversation(ctx, user.UserID, conv.ConversationID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.MessageCount)
		// 削除では updated_at を進めない
		assert.WithinDuration(t, before.UpdatedAt, got.UpdatedAt, time.Second)
	})

	t.Run("他人のメッセージは削除できない", func(t *testing.T) {
		other := createTestUser(t, db)
		msg, err := svc.AppendMessage(ctx, user.UserID, conv.ConversationID, "mine", true)
		require.NoError(t, err)

		err = svc.DeleteMessage(ctx, other.UserID, msg.MessageID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("存在しないメッセージは ErrNotFound", func(t *testing.T) {
		err := svc.DeleteMessage(ctx, user.UserID, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func Test_conversationService_DeleteConversation(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestConversationService(t)
	user := createTestUser(t, db)

	conv, err := svc.CreateConversation(ctx, user.UserID)
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, user.UserID, conv.ConversationID, "to be deleted", true)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(ctx, user.UserID, conv.ConversationID))

	_, err = svc.GetConversation(ctx, user.UserID, conv.ConversationID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// メッセージもカスケード削除されている
	var count int64
	require.NoError(t, db.Model(&model.Message{}).Where("conversation_id = ?", conv.ConversationID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func Test_conversationService_GetMessages_Caching(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestConversationService(t)
	user := createTestUser(t, db)

	conv, err := svc.CreateConversation(ctx, user.UserID)
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, user.UserID, conv.ConversationID, "cached", true)
	require.NoError(t, err)

	// 1回目でキャッシュに載る
	msgs, err := svc.GetMessages(ctx, user.UserID, conv.ConversationID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	// サービスを経由しない書き込みはキャッシュに反映されない (TTLまでは古い値)
	rogue := &model.Message{
		MessageID:      uuid.New(),
		ConversationID: conv.ConversationID,
		Content:        "out of band",
		ContentHash:    model.HashContent("out of band"),
		CreatedAt:      time.Now(),
	}
	require.NoError(t, db.Create(rogue).Error)

	msgs, err = svc.GetMessages(ctx, user.UserID, conv.ConversationID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1, "cached result should be served until invalidation")

	// サービス経由の書き込みは無効化を伴うので、次の読み取りは最新になる
	_, err = svc.AppendMessage(ctx, user.UserID, conv.ConversationID, "fresh", false)
	require.NoError(t, err)

	msgs, err = svc.GetMessages(ctx, user.UserID, conv.ConversationID)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func Test_conversationService_ListConversations(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestConversationService(t)
	user := createTestUser(t, db)

	conv1, err := svc.CreateConversation(ctx, user.UserID)
	require.NoError(t, err)
	conv2, err := svc.CreateConversation(ctx, user.UserID)
	require.NoError(t, err)

	// conv1 に新しいメッセージを追加して先頭に押し上げる
	time.Sleep(10 * time.Millisecond)
	_, err = svc.AppendMessage(ctx, user.UserID, conv1.ConversationID, "bump", true)
	require.NoError(t, err)

	convs, err := svc.ListConversations(ctx, user.UserID, 10)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, conv1.ConversationID, convs[0].ConversationID, "most recently updated first")
	assert.Equal(t, conv2.ConversationID, convs[1].ConversationID)

	t.Run("limitで件数を絞れる", func(t *testing.T) {
		convs, err := svc.ListConversations(ctx, user.UserID, 1)
		require.NoError(t, err)
		require.Len(t, convs, 1)
		assert.Equal(t, conv1.ConversationID, convs[0].ConversationID)
	})

	t.Run("他人の会話は含まれない", func(t *testing.T) {
		other := createTestUser(t, db)
		convs, err := svc.ListConversations(ctx, other.UserID, 10)
		require.NoError(t, err)
		assert.Empty(t, convs)
	})
}

func Test_conversationService_UpdateTitle(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestConversationService(t)
	user := createTestUser(t, db)

	conv, err := svc.CreateConversation(ctx, user.UserID)
	require.NoError(t, err)

	t.Run("タイトルを更新できる", func(t *testing.T) {
		require.NoError(t, svc.UpdateTitle(ctx, user.UserID, conv.ConversationID, "XSS basics"))
		got, err := svc.GetConversation(ctx, user.UserID, conv.ConversationID)
		require.NoError(t, err)
		assert.Equal(t, "XSS basics", got.Title)
	})

	t.Run("長いタイトルは切り詰められる", func(t *testing.T) {
		long := ""
		for i := 0; i < 60; i++ {
			long += "x"
		}
		require.NoError(t, svc.UpdateTitle(ctx, user.UserID, conv.ConversationID, long))
		got, err := svc.GetConversation(ctx, user.UserID, conv.ConversationID)
		require.NoError(t, err)
		assert.Equal(t, model.TruncateTitle(long), got.Title)
	})

	t.Run("空タイトルは ErrInvalidInput", func(t *testing.T) {
		err := svc.UpdateTitle(ctx, user.UserID, conv.ConversationID, "  ")
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}
