package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a subscription repository backed by GORM.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByUserID(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert writes the subscription keyed by user_id. The billing sync is the
// only caller that changes the tier; the entitlement layer never writes here.
func (r *subscriptionRepository) Upsert(sub *models.Subscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"tier",
			"status",
			"provider",
			"provider_subscription_id",
			"current_period_end",
			"cancel_at_period_end",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("user_id = ?", sub.UserID).First(sub).Error
}

// EnsureDefault creates the free subscription row at registration time if the
// user has none yet.
func (r *subscriptionRepository) EnsureDefault(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ?", userID).First(&sub).Error
	if err == nil {
		return &sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub = models.Subscription{
		UserID: userID,
		Tier:   string(entitlements.TierFree),
		Status: models.SubscriptionStatusActive,
	}
	if err := r.db.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// EffectiveTier resolves the tier that is entitled right now. Users without a
// subscription row are free-tier users, not an error; an unreachable store is
// an error so access checks can fail closed.
func (r *subscriptionRepository) EffectiveTier(userID uint) (entitlements.Tier, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entitlements.TierFree, nil
		}
		return entitlements.TierFree, err
	}
	return sub.EffectiveTier(time.Now()), nil
}
