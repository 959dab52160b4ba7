package models

import (
	"strings"
	"time"

	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
)

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
	SubscriptionStatusPaused   = "paused"
)

// Subscription holds a user's current plan state. It is written by the
// billing subsystem (webhook sync) and only read here; the entitlement layer
// never mutates it.
type Subscription struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	UserID                 uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Tier                   string     `gorm:"type:varchar(50);not null;default:'free'" json:"tier"`
	Status                 string     `gorm:"type:varchar(32);not null;default:'active'" json:"status"`
	Provider               string     `gorm:"type:varchar(20);default:''" json:"provider"`
	ProviderSubscriptionID string     `gorm:"type:varchar(191);default:''" json:"provider_subscription_id"`
	CurrentPeriodEnd       *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CancelAtPeriodEnd      bool       `gorm:"default:false" json:"cancel_at_period_end"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsEntitled reports whether the subscription still grants its paid tier at
// the given instant. Canceled/expired/paused states and a past period end
// both drop the user back to free semantics.
func (s *Subscription) IsEntitled(now time.Time) bool {
	switch strings.ToLower(strings.TrimSpace(s.Status)) {
	case SubscriptionStatusActive, SubscriptionStatusTrialing, SubscriptionStatusPastDue:
	default:
		return false
	}
	if s.CurrentPeriodEnd != nil && s.CurrentPeriodEnd.Before(now) {
		return false
	}
	return true
}

// EffectiveTier resolves the tier the user is actually entitled to right now.
func (s *Subscription) EffectiveTier(now time.Time) entitlements.Tier {
	if s == nil || !s.IsEntitled(now) {
		return entitlements.TierFree
	}
	return entitlements.NormalizeTier(s.Tier)
}
