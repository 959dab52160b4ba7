package entitlements

import "time"

// PeriodStart normalizes a point in time to the first instant of its calendar
// month in UTC. Counter, evaluator and reporter all share this boundary so
// they can never disagree about the current period.
func PeriodStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PeriodEnd returns the first instant of the following month, i.e. the
// exclusive upper bound of the period containing now.
func PeriodEnd(now time.Time) time.Time {
	return PeriodStart(now).AddDate(0, 1, 0)
}
