package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
)

type usageRepository struct {
	db *gorm.DB
}

// NewUsageRepository creates a usage repository backed by GORM.
func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) CountFor(userID uint, feature entitlements.FeatureKey, periodStart time.Time) (int64, error) {
	var rec models.UsageRecord
	err := r.db.
		Where("user_id = ? AND feature = ? AND period_start = ?", userID, string(feature), periodStart).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Lazily created: no row yet means no usage this period.
			return 0, nil
		}
		return 0, err
	}
	return rec.Count, nil
}

// Increment is an atomic upsert-with-increment on the unique key
// (user_id, feature, period_start). The increment happens inside the
// database; two concurrent requests can never read-modify-write each other's
// count away.
func (r *usageRepository) Increment(userID uint, feature entitlements.FeatureKey, periodStart time.Time) (int64, error) {
	rec := models.UsageRecord{
		UserID:      userID,
		Feature:     string(feature),
		PeriodStart: periodStart,
		Count:       1,
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "feature"},
			{Name: "period_start"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&rec).Error; err != nil {
		return 0, err
	}

	// Read back the stored count; the upsert does not report it.
	var stored models.UsageRecord
	if err := r.db.
		Where("user_id = ? AND feature = ? AND period_start = ?", userID, string(feature), periodStart).
		First(&stored).Error; err != nil {
		return 0, err
	}
	return stored.Count, nil
}

func (r *usageRepository) CountsFor(userID uint, periodStart time.Time) (map[entitlements.FeatureKey]int64, error) {
	var recs []models.UsageRecord
	if err := r.db.
		Where("user_id = ? AND period_start = ?", userID, periodStart).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make(map[entitlements.FeatureKey]int64, len(recs))
	for _, rec := range recs {
		out[entitlements.FeatureKey(rec.Feature)] = rec.Count
	}
	return out, nil
}

func (r *usageRepository) ListByUser(userID uint) ([]models.UsageRecord, error) {
	var recs []models.UsageRecord
	err := r.db.
		Where("user_id = ?", userID).
		Order("period_start DESC, feature ASC").
		Find(&recs).Error
	return recs, err
}
