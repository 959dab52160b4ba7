package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
)

func TestEffectiveTierActive(t *testing.T) {
	end := time.Now().Add(24 * time.Hour)
	sub := &Subscription{Tier: "researcher", Status: SubscriptionStatusActive, CurrentPeriodEnd: &end}
	assert.Equal(t, entitlements.TierResearcher, sub.EffectiveTier(time.Now()))
}

func TestEffectiveTierExpiredFallsBackToFree(t *testing.T) {
	end := time.Now().Add(-time.Hour)
	sub := &Subscription{Tier: "professional", Status: SubscriptionStatusActive, CurrentPeriodEnd: &end}
	assert.Equal(t, entitlements.TierFree, sub.EffectiveTier(time.Now()))
}

func TestEffectiveTierNonEntitlingStatus(t *testing.T) {
	for _, status := range []string{SubscriptionStatusCanceled, SubscriptionStatusExpired, SubscriptionStatusPaused} {
		sub := &Subscription{Tier: "explorer", Status: status}
		assert.Equal(t, entitlements.TierFree, sub.EffectiveTier(time.Now()), "status %s", status)
	}
}

func TestEffectiveTierEntitlingStatuses(t *testing.T) {
	for _, status := range []string{SubscriptionStatusActive, SubscriptionStatusTrialing, SubscriptionStatusPastDue} {
		sub := &Subscription{Tier: "explorer", Status: status}
		assert.Equal(t, entitlements.TierExplorer, sub.EffectiveTier(time.Now()), "status %s", status)
	}
}

func TestEffectiveTierNilSubscription(t *testing.T) {
	var sub *Subscription
	assert.Equal(t, entitlements.TierFree, sub.EffectiveTier(time.Now()))
}

func TestEffectiveTierUnknownTierName(t *testing.T) {
	sub := &Subscription{Tier: "platinum", Status: SubscriptionStatusActive}
	assert.Equal(t, entitlements.TierFree, sub.EffectiveTier(time.Now()))
}

func TestEffectiveTierNoPeriodEnd(t *testing.T) {
	// Subscriptions without a period end (e.g. admin grants) stay entitled.
	sub := &Subscription{Tier: "admin", Status: SubscriptionStatusActive}
	assert.Equal(t, entitlements.TierAdmin, sub.EffectiveTier(time.Now()))
}
