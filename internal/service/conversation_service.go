//go:generate mockery --name ConversationService --output ./mocks --outpkg mocks --case=underscore
// internal/service/conversation_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go_cyber_mentor/internal/cache"
	"go_cyber_mentor/internal/config"
	"go_cyber_mentor/internal/middleware"
	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConversationService は会話とメッセージのライフサイクルを管理します。
// 書き込み時は「行の永続化 → メッセージ数の全件再計算 → 更新時刻の反映 →
// キャッシュ無効化」の順で処理します。無効化はベストエフォートであり、
// 取りこぼしてもTTL失効と次回書き込み時の再計算で自己修復します。
type ConversationService interface {
	CreateConversation(ctx context.Context, userID uuid.UUID) (*model.Conversation, error)
	GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*model.Conversation, error)
	AppendMessage(ctx context.Context, userID, conversationID uuid.UUID, content string, isFromUser bool) (*model.Message, error)
	DeleteMessage(ctx context.Context, userID, messageID uuid.UUID) error
	DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error
	GetMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]*model.Message, error)
	ListConversations(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Conversation, error)
	UpdateTitle(ctx context.Context, userID, conversationID uuid.UUID, title string) error
}

type conversationService struct {
	db       *gorm.DB // トランザクション用にDB接続を持つ
	convRepo repository.ConversationRepository
	msgRepo  repository.MessageRepository
	store    cache.Store
	cfg      *config.Config
}

func NewConversationService(db *gorm.DB, convRepo repository.ConversationRepository, msgRepo repository.MessageRepository, store cache.Store, cfg *config.Config) ConversationService {
	return &conversationService{
		db:       db,
		convRepo: convRepo,
		msgRepo:  msgRepo,
		store:    store,
		cfg:      cfg,
	}
}

func (s *conversationService) CreateConversation(ctx context.Context, userID uuid.UUID) (*model.Conversation, error) {
	logger := middleware.GetLogger(ctx)

	conv := &model.Conversation{
		ConversationID: uuid.New(),
		UserID:         userID,
	}
	if err := s.convRepo.Create(ctx, s.db, conv); err != nil {
		logger.Error("Error creating conversation", "error", err)
		return nil, model.ErrInternalServer
	}

	// 新しい会話は一覧キャッシュに反映されるまでラグがないように無効化しておく
	s.invalidateConversation(ctx, conv.ConversationID, userID)
	return conv, nil
}

func (s *conversationService) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*model.Conversation, error) {
	conv, err := s.convRepo.FindByID(ctx, s.db, userID, conversationID)
	if err != nil {
		// エラーはリポジトリで変換済み (ErrNotFound など)
		return nil, err
	}
	return conv, nil
}

func (s *conversationService) AppendMessage(ctx context.Context, userID, conversationID uuid.UUID, content string, isFromUser bool) (*model.Message, error) {
	logger := middleware.GetLogger(ctx)

	if strings.TrimSpace(content) == "" {
		return nil, model.ErrInvalidInput
	}

	conv, err := s.convRepo.FindByID(ctx, s.db, userID, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		MessageID:      uuid.New(),
		ConversationID: conv.ConversationID,
		Content:        content,
		IsFromUser:     isFromUser,
		ContentHash:    model.HashContent(content),
		CreatedAt:      time.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.msgRepo.Create(ctx, tx, msg); err != nil {
			logger.Error("Error creating message in transaction", "error", err)
			return model.ErrInternalServer
		}

		// 非正規化カウンタはインクリメントではなく全件数え直しで更新する。
		// 別経路の削除があっても次の書き込みで必ず正しい値に収束する。
		count, err := s.msgRepo.CountByConversation(ctx, tx, conv.ConversationID)
		if err != nil {
			logger.Error("Error recounting messages in transaction", "error", err)
			return model.ErrInternalServer
		}

		updates := map[string]interface{}{
			"message_count": count,
			"updated_at":    msg.CreatedAt,
		}

		// タイトル未設定の会話は、最初のユーザーメッセージから遅延生成する。
		// 一度設定されたタイトルを上書きすることはない。
		if conv.Title == "" {
			first, err := s.msgRepo.FindFirstUserMessage(ctx, tx, conv.ConversationID)
			if err != nil && !errors.Is(err, model.ErrNotFound) {
				logger.Error("Error finding first user message in transaction", "error", err)
				return model.ErrInternalServer
			}
			if first != nil {
				updates["title"] = model.TruncateTitle(first.Content)
			}
		}

		if err := s.convRepo.Update(ctx, tx, userID, conv.ConversationID, updates); err != nil {
			logger.Error("Error updating conversation in transaction", "error", err)
			return model.ErrInternalServer
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		logger.Error("Transaction failed for AppendMessage", "error", err)
		return nil, model.ErrInternalServer
	}

	s.invalidateConversation(ctx, conv.ConversationID, userID)
	return msg, nil
}

func (s *conversationService) DeleteMessage(ctx context.Context, userID, messageID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	msg, err := s.msgRepo.FindByID(ctx, s.db, messageID)
	if err != nil {
		return err
	}

	// 所有者チェック (他人の会話のメッセージは存在しない扱い)
	conv, err := s.convRepo.FindByID(ctx, s.db, userID, msg.ConversationID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.msgRepo.Delete(ctx, tx, messageID); err != nil {
			logger.Error("Error deleting message in transaction", "error", err)
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrNotFound
			}
			return model.ErrInternalServer
		}

		count, err := s.msgRepo.CountByConversation(ctx, tx, conv.ConversationID)
		if err != nil {
			logger.Error("Error recounting messages in transaction", "error", err)
			return model.ErrInternalServer
		}

		// 削除では updated_at は進めない
		if err := s.convRepo.Update(ctx, tx, userID, conv.ConversationID, map[string]interface{}{
			"message_count": count,
		}); err != nil {
			logger.Error("Error updating conversation in transaction", "error", err)
			return model.ErrInternalServer
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		logger.Error("Transaction failed for DeleteMessage", "error", err)
		return model.ErrInternalServer
	}

	s.invalidateConversation(ctx, conv.ConversationID, userID)
	return nil
}

func (s *conversationService) DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	conv, err := s.convRepo.FindByID(ctx, s.db, userID, conversationID)
	if err != nil {
		return err
	}

	// 行を消す前に無効化する。削除中の会話をキャッシュへ再投入した
	// 並行リーダーがいても、無効化の取りこぼしにはならない。
	s.invalidateConversation(ctx, conv.ConversationID, userID)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 会話削除はメッセージへカスケードする
		if err := tx.Where("conversation_id = ?", conv.ConversationID).Delete(&model.Message{}).Error; err != nil {
			logger.Error("Error cascading message delete in transaction", "error", err)
			return model.ErrInternalServer
		}
		if err := s.convRepo.Delete(ctx, tx, userID, conv.ConversationID); err != nil {
			logger.Error("Error deleting conversation in transaction", "error", err)
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrNotFound
			}
			return model.ErrInternalServer
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		logger.Error("Transaction failed for DeleteConversation", "error", err)
		return model.ErrInternalServer
	}
	return nil
}

func (s *conversationService) GetMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]*model.Message, error) {
	logger := middleware.GetLogger(ctx)

	conv, err := s.convRepo.FindByID(ctx, s.db, userID, conversationID)
	if err != nil {
		return nil, err
	}

	key := cache.ConversationMessagesKey(conv.ConversationID)
	if cached, ok, err := s.store.Get(ctx, key); err == nil && ok {
		var msgs []*model.Message
		if err := json.Unmarshal(cached, &msgs); err == nil {
			return msgs, nil
		}
		logger.Warn("Failed to decode cached messages, falling back to DB", "key", key)
	}

	msgs, err := s.msgRepo.FindByConversation(ctx, s.db, conv.ConversationID)
	if err != nil {
		logger.Error("Error listing messages", "error", err)
		return nil, model.ErrInternalServer
	}

	if encoded, err := json.Marshal(msgs); err == nil {
		// キャッシュ投入の失敗は無視してよい (次回はDBから読む)
		_ = s.store.Set(ctx, key, encoded, s.cfg.App.MessageCacheTTL)
	}
	return msgs, nil
}

func (s *conversationService) ListConversations(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Conversation, error) {
	logger := middleware.GetLogger(ctx)

	if limit <= 0 {
		limit = config.DefaultChatPageSize
	}

	key := cache.UserConversationsKey(userID, limit)
	if cached, ok, err := s.store.Get(ctx, key); err == nil && ok {
		var convs []*model.Conversation
		if err := json.Unmarshal(cached, &convs); err == nil {
			return convs, nil
		}
		logger.Warn("Failed to decode cached conversations, falling back to DB", "key", key)
	}

	convs, err := s.convRepo.FindByUser(ctx, s.db, userID, limit)
	if err != nil {
		logger.Error("Error listing conversations", "error", err)
		return nil, model.ErrInternalServer
	}

	if encoded, err := json.Marshal(convs); err == nil {
		_ = s.store.Set(ctx, key, encoded, s.cfg.App.ConversationCacheTTL)
	}
	return convs, nil
}

func (s *conversationService) UpdateTitle(ctx context.Context, userID, conversationID uuid.UUID, title string) error {
	logger := middleware.GetLogger(ctx)

	if strings.TrimSpace(title) == "" {
		return model.ErrInvalidInput
	}

	if err := s.convRepo.Update(ctx, s.db, userID, conversationID, map[string]interface{}{
		"title": model.TruncateTitle(title),
	}); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		logger.Error("Error updating conversation title", "error", err)
		return model.ErrInternalServer
	}

	s.invalidateConversation(ctx, conversationID, userID)
	return nil
}

// invalidateConversation は会話に紐づく派生キャッシュを削除します。
// 失敗してもTTL失効で回復するため、ログを残して処理は続行します。
func (s *conversationService) invalidateConversation(ctx context.Context, conversationID, userID uuid.UUID) {
	logger := middleware.GetLogger(ctx)
	keys := cache.ConversationDerivedKeys(conversationID, userID, s.cfg.App.ConversationPageSizes)
	if err := s.store.Delete(ctx, keys...); err != nil {
		logger.Warn("Cache invalidation failed (will recover via TTL)",
			"conversation_id", conversationID.String(),
			"error", err,
		)
	}
}
