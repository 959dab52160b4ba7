package models

import "time"

// UsageRecord is one monthly counter for (user, feature). PeriodStart is
// always the first instant of a calendar month in UTC. Rows are created
// lazily on first use, incremented atomically via the usage repository and
// never decremented; on month rollover a new row supersedes the old one and
// the history stays.
type UsageRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:ux_usage_user_feature_period,priority:1" json:"user_id"`
	Feature     string    `gorm:"type:varchar(32);not null;uniqueIndex:ux_usage_user_feature_period,priority:2" json:"feature"`
	PeriodStart time.Time `gorm:"type:timestamp;not null;uniqueIndex:ux_usage_user_feature_period,priority:3;index" json:"period_start"`
	Count       int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
