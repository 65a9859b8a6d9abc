// internal/model/lab.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// LabDifficulty はラボの難易度 (固定の選択肢)
type LabDifficulty string

const (
	DifficultyBeginner     LabDifficulty = "beginner"
	DifficultyIntermediate LabDifficulty = "intermediate"
	DifficultyAdvanced     LabDifficulty = "advanced"
	DifficultyExpert       LabDifficulty = "expert"
)

// LabType はラボの形式 (固定の選択肢)
type LabType string

const (
	LabTypeInteractive LabType = "interactive"
	LabTypeScenario    LabType = "scenario"
	LabTypeCTF         LabType = "ctf"
	LabTypeSimulation  LabType = "simulation"
)

// PracticeLab は実践演習 (ハンズオンラボ) です。
// Slug はモジュール内で一意になります。
type PracticeLab struct {
	LabID                uuid.UUID     `gorm:"type:uuid;primaryKey" json:"lab_id"`
	ModuleID             uuid.UUID     `gorm:"type:uuid;not null;index:idx_lab_module_slug,unique,priority:1" json:"module_id"`
	Slug                 string        `gorm:"not null;index:idx_lab_module_slug,unique,priority:2" json:"slug"`
	Title                string        `gorm:"not null" json:"title"`
	Description          string        `json:"description"`
	Objectives           string        `json:"objectives"`
	Difficulty           LabDifficulty `gorm:"size:20;not null;default:'beginner'" json:"difficulty"`
	LabType              LabType       `gorm:"size:20;not null;default:'interactive'" json:"lab_type"`
	Instructions         string        `json:"instructions"`
	Hints                string        `json:"hints"`
	Solution             string        `json:"-"`
	ToolsRequired        string        `json:"tools_required"`
	EstimatedTimeMinutes int           `gorm:"not null;default:0" json:"estimated_time_minutes"`
	Points               int           `gorm:"not null;default:0" json:"points"`
	Order                int           `gorm:"column:display_order;not null;default:0" json:"order"`
	IsActive             bool          `gorm:"not null" json:"is_active"`
	IsPremium            bool          `gorm:"not null;default:false" json:"is_premium"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

func (PracticeLab) TableName() string {
	return "practice_labs"
}

// LabCompletion はユーザーごとのラボ進捗です。(user, lab) の組で一意。
// 状態遷移: 未着手 → 進行中 (Start) → 完了 (MarkComplete)。
type LabCompletion struct {
	CompletionID  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"completion_id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_completion_user_lab,unique,priority:1" json:"-"`
	LabID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_completion_user_lab,unique,priority:2" json:"lab_id"`
	StartedAt     time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	IsCompleted   bool       `gorm:"not null;default:false" json:"is_completed"`
	Submission    string     `json:"submission"`
	SubmittedFlag string     `json:"submitted_flag"` // CTF形式のラボ用
	Score         int        `gorm:"not null;default:0" json:"score"`
	Attempts      int        `gorm:"not null;default:0" json:"attempts"`
	HintsUsed     int        `gorm:"not null;default:0" json:"hints_used"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (LabCompletion) TableName() string {
	return "lab_completions"
}

// ラボ回答提出リクエストDTO
type SubmitLabRequest struct {
	Submission    string `json:"submission,omitempty" validate:"omitempty,min=1"`
	SubmittedFlag string `json:"submitted_flag,omitempty" validate:"omitempty,min=1"`
}

// ラボ完了リクエストDTO
type CompleteLabRequest struct {
	Score int `json:"score" validate:"gte=0"`
}
