package domain

import "time"

// Reserved aggregation keys. Malformed records are made visible under these
// buckets instead of being dropped.
const (
	StatusUnknownKey = "unknown"
	UnassignedKey    = "unassigned"
)

// BucketGranularity selects the calendar unit for KPI time-series buckets.
type BucketGranularity string

const (
	BucketDay   BucketGranularity = "day"
	BucketWeek  BucketGranularity = "week"
	BucketMonth BucketGranularity = "month"
)

// ValidGranularity reports whether g is a known bucket granularity.
func ValidGranularity(g BucketGranularity) bool {
	switch g {
	case BucketDay, BucketWeek, BucketMonth:
		return true
	}
	return false
}

// SeriesPoint is one time bucket of the KPI series. Start is the bucket's
// opening instant in the reporting timezone; Label is its calendar key
// (e.g. "2026-09-01", "2026-W36", "2026-09").
type SeriesPoint struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

// KpiSnapshot is a point-in-time rollup over a task set. It is derived per
// request and never persisted by this core.
type KpiSnapshot struct {
	CountsByStatus   map[string]int    `json:"countsByStatus"`
	CountsByAssignee map[string]int    `json:"countsByAssignee"`
	Series           []SeriesPoint     `json:"series"`
	Granularity      BucketGranularity `json:"granularity"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// TotalByStatus sums every status bucket, including the unknown bucket.
func (k KpiSnapshot) TotalByStatus() int {
	total := 0
	for _, c := range k.CountsByStatus {
		total += c
	}
	return total
}

// TotalByAssignee sums every assignee bucket, including the unassigned bucket.
func (k KpiSnapshot) TotalByAssignee() int {
	total := 0
	for _, c := range k.CountsByAssignee {
		total += c
	}
	return total
}

// PercentChange computes the dashboard "vs last period" indicator. The
// previous-period-zero case is guarded with max(previous, 1) so the result is
// always finite.
func PercentChange(current, previous int) float64 {
	denom := previous
	if denom < 1 {
		denom = 1
	}
	return float64(current-previous) / float64(denom) * 100
}
