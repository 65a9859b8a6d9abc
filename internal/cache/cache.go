//go:generate mockery --name Store --output ./mocks --outpkg mocks --case=underscore
// internal/cache/cache.go
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store は共有キャッシュへの薄いインターフェースです。
// 無効化 (Delete) はベストエフォートであり、正しさはTTLによる自然失効と
// 書き込み時の全件再計算で保証されます。
type Store interface {
	// Get はキーに対応する値を返します。存在しない・期限切れの場合は ok=false。
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// --- キャッシュキー ---
// キー体系は以下の3種類:
//   conversation_<conv_id>              : 会話単体のルックアップ
//   conversation_messages_<conv_id>     : 会話のメッセージ一覧
//   user_conversations_<user_id>_<n>    : ユーザーの会話一覧 (ページサイズ別)

func ConversationKey(conversationID uuid.UUID) string {
	return fmt.Sprintf("conversation_%s", conversationID)
}

func ConversationMessagesKey(conversationID uuid.UUID) string {
	return fmt.Sprintf("conversation_messages_%s", conversationID)
}

func UserConversationsKey(userID uuid.UUID, limit int) string {
	return fmt.Sprintf("user_conversations_%s_%d", userID, limit)
}

// ConversationDerivedKeys は会話1件に紐づく派生キャッシュキーの一覧を返します。
// ユーザーの会話一覧キャッシュはページサイズ別に独立してキャッシュされるため、
// pageSizes に含まれる全バリアントを対象にします。
func ConversationDerivedKeys(conversationID, userID uuid.UUID, pageSizes []int) []string {
	keys := []string{
		ConversationKey(conversationID),
		ConversationMessagesKey(conversationID),
	}
	for _, size := range pageSizes {
		keys = append(keys, UserConversationsKey(userID, size))
	}
	return keys
}
