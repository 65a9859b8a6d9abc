// internal/model/conversation.go
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// タイトル自動生成時の最大文字数
const TitleMaxRunes = 50

// Conversation はユーザーとAIの一連の会話を表します
type Conversation struct {
	ConversationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"conversation_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_conv_user_updated,priority:1" json:"-"`
	Title          string    `gorm:"index" json:"title"`
	// MessageCount は非正規化したメッセージ数。メッセージ追加・削除のたびに全件数え直しで再計算する
	MessageCount int       `gorm:"not null;default:0" json:"message_count"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"index:idx_conv_user_updated,priority:2,sort:desc" json:"updated_at"`

	// 関連 (Preload用)
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Message は会話内の1件のメッセージを表します
type Message struct {
	MessageID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"message_id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index:idx_msg_conv_time,priority:1" json:"conversation_id"`
	Content        string    `gorm:"not null" json:"content"`
	IsFromUser     bool      `gorm:"index" json:"is_from_user"`
	// ContentHash は重複検出用のダイジェスト。作成時に一度だけ計算し、以後再計算しない
	ContentHash string    `gorm:"size:64;index" json:"content_hash"`
	CreatedAt   time.Time `gorm:"index:idx_msg_conv_time,priority:2" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// HashContent はメッセージ本文のSHA-256ダイジェスト(hex)を返します。
// 同じ本文に対しては常に同じ値を返します。
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// TruncateTitle は本文からタイトルを生成します。
// TitleMaxRunes を超える場合は切り詰めて "..." を付加します。
func TruncateTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= TitleMaxRunes {
		return content
	}
	return string(runes[:TitleMaxRunes]) + "..."
}

// 会話作成リクエストDTO
type CreateConversationRequest struct {
	// InitialMessage があれば作成直後にユーザーメッセージとして追加し、AI応答も生成する
	InitialMessage string `json:"initial_message,omitempty" validate:"omitempty,min=1"`
}

// メッセージ送信リクエストDTO
type SendMessageRequest struct {
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	Message        string     `json:"message" validate:"required,min=1"`
}

// SendMessageResponse はメッセージ送信APIのレスポンス
type SendMessageResponse struct {
	ConversationID    uuid.UUID `json:"conversation_id"`
	ConversationTitle string    `json:"conversation_title"`
	UserMessage       *Message  `json:"user_message"`
	AIMessage         *Message  `json:"ai_message"`
}
