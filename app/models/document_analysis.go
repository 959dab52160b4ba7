package models

import (
	"time"

	"gorm.io/gorm"
)

// DocumentAnalysis stores the result of one AI document transcription run.
// ObjectKey points at the uploaded original in object storage when storage is
// configured; otherwise only the excerpt is kept.
type DocumentAnalysis struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UUID             string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	FileName         string         `gorm:"type:varchar(255)" json:"file_name"`
	MimeType         string         `gorm:"type:varchar(100)" json:"mime_type"`
	ObjectKey        string         `gorm:"type:varchar(512);default:''" json:"-"`
	Hint             string         `gorm:"type:text" json:"hint"`
	Model            string         `gorm:"type:varchar(100)" json:"model"`
	Result           string         `gorm:"type:longtext" json:"result"`
	PromptTokens     int            `json:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
