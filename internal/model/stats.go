// internal/model/stats.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ConversationStats は日次の集計スナップショットです。
// 日付ごとに1行のみ存在し、同日の再集計は同じ行を上書きします。
type ConversationStats struct {
	StatsID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"stats_id"`
	Date                       time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`
	TotalConversations         int64     `gorm:"not null;default:0" json:"total_conversations"`
	TotalMessages              int64     `gorm:"not null;default:0" json:"total_messages"`
	ActiveUsers                int64     `gorm:"not null;default:0" json:"active_users"`
	AvgMessagesPerConversation float64   `gorm:"not null;default:0" json:"avg_messages_per_conversation"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

func (ConversationStats) TableName() string {
	return "conversation_stats"
}

// StatsDate は集計バケットとなる日付 (UTCの0時) を返します
func StatsDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
