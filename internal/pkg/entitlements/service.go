package entitlements

import (
	"fmt"
	"time"
)

// SubscriptionStore resolves the currently effective tier for a user.
// Implementations must already apply expiry/status fallback, so callers only
// ever see a tier that is actually entitled right now.
type SubscriptionStore interface {
	EffectiveTier(userID uint) (Tier, error)
}

// UsageStore persists monthly usage counters. Increment must be an atomic
// upsert-with-increment on (userID, feature, periodStart); read-modify-write
// at this layer would lose counts under concurrent requests.
type UsageStore interface {
	CountFor(userID uint, feature FeatureKey, periodStart time.Time) (int64, error)
	Increment(userID uint, feature FeatureKey, periodStart time.Time) (int64, error)
	CountsFor(userID uint, periodStart time.Time) (map[FeatureKey]int64, error)
}

// Service is the single access-control implementation for metered tools:
// Check decides, Record counts, Report aggregates. Check never writes and
// Record never checks, so callers can keep the two steps auditable and order
// them around the paid upstream call.
type Service struct {
	subs  SubscriptionStore
	usage UsageStore
	now   func() time.Time
}

func NewService(subs SubscriptionStore, usage UsageStore) *Service {
	return &Service{subs: subs, usage: usage, now: time.Now}
}

// NewServiceWithClock is used by tests that need a fixed period boundary.
func NewServiceWithClock(subs SubscriptionStore, usage UsageStore, now func() time.Time) *Service {
	return &Service{subs: subs, usage: usage, now: now}
}

// Check evaluates whether userID may invoke feature right now. It is
// read-only and idempotent. Any store failure denies access; access control
// must never fail open.
func (s *Service) Check(userID uint, feature FeatureKey) AccessDecision {
	if userID == 0 {
		return AccessDecision{Allowed: false, Reason: ReasonUnauthenticated, Feature: feature, Tier: TierFree}
	}

	tier, err := s.subs.EffectiveTier(userID)
	if err != nil {
		return AccessDecision{Allowed: false, Reason: ReasonUnknownError, Feature: feature, Tier: TierFree}
	}

	limit := LimitFor(tier, feature)
	decision := AccessDecision{Feature: feature, Tier: tier, Limit: limit}

	if limit == 0 {
		decision.Reason = ReasonFeatureUnavailable
		return decision
	}
	if limit == Unlimited {
		decision.Allowed = true
		decision.Reason = ReasonOK
		return decision
	}

	used, err := s.usage.CountFor(userID, feature, PeriodStart(s.now()))
	if err != nil {
		decision.Reason = ReasonUnknownError
		return decision
	}
	decision.CurrentUsage = used
	if used >= int64(limit) {
		decision.Reason = ReasonLimitExceeded
		return decision
	}

	decision.Allowed = true
	decision.Reason = ReasonOK
	return decision
}

// Record counts one successful invocation and returns the new count for the
// current period. Callers invoke it exactly once per completed tool call,
// strictly after the upstream provider succeeded: charging before success
// bills failed calls, skipping it after success hands out free usage.
func (s *Service) Record(userID uint, feature FeatureKey) (int64, error) {
	if userID == 0 {
		return 0, fmt.Errorf("entitlements: cannot record usage without a user")
	}
	return s.usage.Increment(userID, feature, PeriodStart(s.now()))
}

// FeatureUsage is one row of a usage report.
type FeatureUsage struct {
	Used      int64 `json:"used"`
	Limit     int   `json:"limit"`
	Unlimited bool  `json:"unlimited"`
	Remaining int64 `json:"remaining"` // -1 when unlimited
}

// UsageReport is the read-side view of a user's current period.
type UsageReport struct {
	Tier        Tier                       `json:"tier"`
	PeriodStart time.Time                  `json:"period_start"`
	PeriodEnd   time.Time                  `json:"period_end"`
	Features    map[FeatureKey]FeatureUsage `json:"features"`
}

// Report returns used/limit/remaining for every feature in the current
// period. Pure read; it never creates usage rows.
func (s *Service) Report(userID uint) (*UsageReport, error) {
	if userID == 0 {
		return nil, fmt.Errorf("entitlements: cannot report usage without a user")
	}

	tier, err := s.subs.EffectiveTier(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	counts, err := s.usage.CountsFor(userID, PeriodStart(now))
	if err != nil {
		return nil, err
	}

	report := &UsageReport{
		Tier:        tier,
		PeriodStart: PeriodStart(now),
		PeriodEnd:   PeriodEnd(now),
		Features:    make(map[FeatureKey]FeatureUsage, len(AllFeatures)),
	}
	limits := LimitsFor(tier)
	for _, feature := range AllFeatures {
		limit := limits[feature]
		usage := FeatureUsage{
			Used:      counts[feature],
			Limit:     limit,
			Unlimited: limit == Unlimited,
		}
		if usage.Unlimited {
			usage.Remaining = Unlimited
		} else {
			usage.Remaining = int64(limit) - usage.Used
			if usage.Remaining < 0 {
				usage.Remaining = 0
			}
		}
		report.Features[feature] = usage
	}
	return report, nil
}
