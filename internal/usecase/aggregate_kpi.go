package usecase

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/khanhng/taskscope/internal/adapter/metrics"
	"github.com/khanhng/taskscope/internal/domain"
)

// Aggregator derives KPI rollups from an already-deduplicated task set. It
// performs no store access. Bucketing uses the fixed reporting timezone so
// two callers in different timezones see identical series for the same scope.
type Aggregator struct {
	reportingTZ *time.Location
	logger      *slog.Logger
	metrics     *metrics.ViewMetrics
}

// NewAggregator creates a new Aggregator. The timezone name must resolve via
// the platform tzdata (e.g. "Asia/Ho_Chi_Minh").
func NewAggregator(timezone string, logger *slog.Logger, m *metrics.ViewMetrics) (*Aggregator, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load reporting timezone %q: %w", timezone, err)
	}
	return &Aggregator{reportingTZ: loc, logger: logger, metrics: m}, nil
}

// Aggregate tallies the task set into a KpiSnapshot. Malformed records are
// never dropped: unknown statuses count under the reserved "unknown" bucket
// and missing assignees under "unassigned", each reported as a non-fatal
// data-quality diagnostic.
func (a *Aggregator) Aggregate(tasks []domain.Task, granularity domain.BucketGranularity) domain.KpiSnapshot {
	countsByStatus := make(map[string]int, len(domain.KnownStatuses)+1)
	for _, s := range domain.KnownStatuses {
		countsByStatus[string(s)] = 0
	}
	countsByAssignee := make(map[string]int)
	buckets := make(map[string]domain.SeriesPoint)

	for _, task := range tasks {
		if domain.ValidStatus(task.Status) {
			countsByStatus[string(task.Status)]++
		} else {
			countsByStatus[domain.StatusUnknownKey]++
			a.logger.Warn("task has unknown status, counted under reserved bucket",
				"task_id", task.ID, "status", task.Status)
			if a.metrics != nil {
				a.metrics.DataQualityTotal.WithLabelValues("unknown_status").Inc()
			}
		}

		assignee := task.AssignedTo
		if assignee == "" {
			assignee = domain.UnassignedKey
			a.logger.Warn("task has no assignee, counted under reserved bucket", "task_id", task.ID)
			if a.metrics != nil {
				a.metrics.DataQualityTotal.WithLabelValues("unassigned").Inc()
			}
		}
		countsByAssignee[assignee]++

		label, start := a.bucketFor(task.CreatedAt, granularity)
		point := buckets[label]
		point.Label = label
		point.Start = start
		point.Count++
		buckets[label] = point
	}

	series := make([]domain.SeriesPoint, 0, len(buckets))
	for _, point := range buckets {
		series = append(series, point)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Start.Before(series[j].Start) })

	return domain.KpiSnapshot{
		CountsByStatus:   countsByStatus,
		CountsByAssignee: countsByAssignee,
		Series:           series,
		Granularity:      granularity,
		GeneratedAt:      time.Now().UTC(),
	}
}

// bucketFor maps an instant onto its calendar bucket in the reporting
// timezone. Weeks are ISO weeks starting Monday.
func (a *Aggregator) bucketFor(t time.Time, granularity domain.BucketGranularity) (string, time.Time) {
	local := t.In(a.reportingTZ)

	switch granularity {
	case domain.BucketWeek:
		year, week := local.ISOWeek()
		label := fmt.Sprintf("%04d-W%02d", year, week)
		// Step back to Monday midnight of the ISO week.
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, a.reportingTZ)
		offset := (int(day.Weekday()) + 6) % 7
		return label, day.AddDate(0, 0, -offset)

	case domain.BucketMonth:
		return local.Format("2006-01"), time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, a.reportingTZ)

	default: // day
		return local.Format("2006-01-02"), time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, a.reportingTZ)
	}
}
