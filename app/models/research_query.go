package models

import (
	"time"

	"gorm.io/gorm"
)

// ResearchQuery stores one research chat prompt and the assistant's answer.
type ResearchQuery struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UUID             string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	Question         string         `gorm:"type:text;not null" json:"question"`
	Model            string         `gorm:"type:varchar(100)" json:"model"`
	Answer           string         `gorm:"type:longtext" json:"answer"`
	PromptTokens     int            `json:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
