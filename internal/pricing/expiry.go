package pricing

import "time"

const (
	daysPerYear   = 365.0
	secondsPerDay = 24 * 60 * 60
)

// TimeToExpiry returns the year fraction between the snapshot and expiration
// calendar dates: whole days / 365. Time of day is ignored. The result is
// negative when expiration precedes the snapshot; callers decide what that means.
func TimeToExpiry(snapshot, expiration time.Time) float64 {
	return float64(daysBetween(snapshot, expiration)) / daysPerYear
}

// daysBetween counts on Unix seconds; time.Duration saturates near 292 years.
func daysBetween(from, to time.Time) int64 {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return (t.Unix() - f.Unix()) / secondsPerDay
}
