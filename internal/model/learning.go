// internal/model/learning.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ModuleIcon はモジュール一覧で表示するアイコンの識別子 (固定の選択肢)
type ModuleIcon string

const (
	IconSeedling   ModuleIcon = "fas fa-seedling"
	IconNetwork    ModuleIcon = "fas fa-network-wired"
	IconGlobe      ModuleIcon = "fas fa-globe"
	IconBug        ModuleIcon = "fas fa-bug"
	IconSearch     ModuleIcon = "fas fa-search"
	IconShield     ModuleIcon = "fas fa-shield-alt"
	IconLaptopCode ModuleIcon = "fas fa-laptop-code"
	IconLock       ModuleIcon = "fas fa-lock"
	IconKey        ModuleIcon = "fas fa-key"
	IconEye        ModuleIcon = "fas fa-eye"
)

// ValidIcon は icon が選択肢に含まれるかを返します
func ValidIcon(icon ModuleIcon) bool {
	switch icon {
	case IconSeedling, IconNetwork, IconGlobe, IconBug, IconSearch,
		IconShield, IconLaptopCode, IconLock, IconKey, IconEye:
		return true
	}
	return false
}

// LearningModule は学習コンテンツのまとまり (動画・ラボの親) です
type LearningModule struct {
	ModuleID    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"module_id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Description string     `json:"description"`
	Icon        ModuleIcon `gorm:"size:50;not null;default:'fas fa-seedling'" json:"icon"`
	Order       int        `gorm:"column:display_order;not null;default:0" json:"order"`
	// default タグを付けるとゼロ値(false)の INSERT でDB側デフォルトが優先されるため付けない
	IsActive    bool       `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 関連 (Preload用)
	Videos []LearningVideo `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"videos,omitempty"`
	Labs   []PracticeLab   `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (LearningModule) TableName() string {
	return "learning_modules"
}

// LearningVideo は学習モジュール内の1本の動画です。
// 同一モジュール内で表示順 (Order) は重複できません。
type LearningVideo struct {
	VideoID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"video_id"`
	ModuleID        uuid.UUID `gorm:"type:uuid;not null;index:idx_video_module_order,unique,priority:1" json:"module_id"`
	Title           string    `gorm:"not null" json:"title"`
	YouTubeID       string    `gorm:"column:youtube_id;size:20;not null" json:"youtube_id"`
	DurationMinutes int       `gorm:"not null;default:0" json:"duration_minutes"`
	Order           int       `gorm:"column:display_order;not null;default:0;index:idx_video_module_order,unique,priority:2" json:"order"`
	IsActive        bool      `gorm:"not null" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (LearningVideo) TableName() string {
	return "learning_videos"
}

// WatchURL は視聴用のURLを返します
func (v *LearningVideo) WatchURL() string {
	return "https://youtu.be/" + v.YouTubeID
}

// EmbedURL は埋め込み用のURLを返します
func (v *LearningVideo) EmbedURL() string {
	return "https://www.youtube.com/embed/" + v.YouTubeID
}

// ModuleDetailResponse はモジュール詳細APIのレスポンス
type ModuleDetailResponse struct {
	Module *LearningModule `json:"module"`
	Videos []*LearningVideo `json:"videos"`
}
