package models

import (
	"time"

	"gorm.io/gorm"
)

// DNAAnalysis stores an interpretation of pasted DNA ethnicity/match text.
// Only an excerpt of the raw input is kept; full DNA exports stay with the user.
type DNAAnalysis struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UUID             string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	InputExcerpt     string         `gorm:"type:text" json:"input_excerpt"`
	Model            string         `gorm:"type:varchar(100)" json:"model"`
	Result           string         `gorm:"type:longtext" json:"result"`
	PromptTokens     int            `json:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
