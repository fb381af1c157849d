package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/khanhng/taskscope/internal/adapter/metrics"
	"github.com/khanhng/taskscope/internal/domain"
)

// HierarchyProvider hands out the current organization tree snapshot. The
// read-through cache in adapter/orgcache is the production implementation.
type HierarchyProvider interface {
	Snapshot(ctx context.Context) (*domain.OrgTree, error)
}

// ViewRequest carries the validated parameters of one manager-view query.
type ViewRequest struct {
	Scope       domain.ViewScope
	Filter      domain.TaskFilter
	Granularity domain.BucketGranularity
	Page        int
	PageSize    int
}

// ManagerViewUseCase orchestrates the manager-view pipeline: resolve
// visibility, plan sub-queries, fan out to the store, deduplicate, aggregate,
// compose. Each request is handled independently; the hierarchy snapshot is
// the only shared state and it is immutable once obtained.
type ManagerViewUseCase struct {
	tasks      domain.TaskRepository
	hierarchy  HierarchyProvider
	resolver   *VisibilityResolver
	aggregator *Aggregator
	chunkSize  int
	logger     *slog.Logger
	metrics    *metrics.ViewMetrics
}

// NewManagerViewUseCase creates a new ManagerViewUseCase. chunkSize is the
// task store's equality-list limit.
func NewManagerViewUseCase(
	tasks domain.TaskRepository,
	hierarchy HierarchyProvider,
	resolver *VisibilityResolver,
	aggregator *Aggregator,
	chunkSize int,
	logger *slog.Logger,
	m *metrics.ViewMetrics,
) *ManagerViewUseCase {
	return &ManagerViewUseCase{
		tasks:      tasks,
		hierarchy:  hierarchy,
		resolver:   resolver,
		aggregator: aggregator,
		chunkSize:  chunkSize,
		logger:     logger,
		metrics:    m,
	}
}

// Query runs the full manager-view pipeline for one principal. The returned
// ViewResult is self-consistent: the KPI snapshot is computed over exactly
// the deduplicated task set admissible under the resolved scope.
func (uc *ManagerViewUseCase) Query(ctx context.Context, principal domain.Principal, req ViewRequest) (*ViewResult, error) {
	tree, err := uc.hierarchy.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load hierarchy snapshot: %w", err)
	}

	resolved, users, err := uc.resolver.Resolve(principal, req.Scope, tree)
	if err != nil {
		return nil, err
	}

	specs := PlanQueries(users, req.Filter, uc.chunkSize)
	tasks, err := uc.fetchAll(ctx, specs)
	if err != nil {
		return nil, err
	}

	granularity := req.Granularity
	if granularity == "" {
		granularity = domain.BucketDay
	}
	snapshot := uc.aggregator.Aggregate(tasks, granularity)

	// The rollup totals must equal the task set the caller gets; a mismatch
	// means the dedup invariant broke and the snapshot cannot be trusted.
	if snapshot.TotalByAssignee() != len(tasks) || snapshot.TotalByStatus() != len(tasks) {
		uc.logger.Error("aggregated counts diverge from task set",
			"tasks", len(tasks),
			"by_assignee", snapshot.TotalByAssignee(),
			"by_status", snapshot.TotalByStatus(),
		)
		return nil, domain.ErrInternalInconsistency
	}

	result := ComposeView(tasks, snapshot, resolved, req.Page, req.PageSize)
	return &result, nil
}

// fetchAll issues the planned sub-queries concurrently and joins the results
// before anything downstream runs. The first failure cancels every
// outstanding sub-query; a task id returned by more than one sub-query is
// kept exactly once.
func (uc *ManagerViewUseCase) fetchAll(ctx context.Context, specs []domain.QuerySpec) ([]domain.Task, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	results := make([][]domain.Task, len(specs))

	for i, spec := range specs {
		if uc.metrics != nil {
			uc.metrics.SubQueriesTotal.Inc()
		}
		wg.Add(1)
		go func(i int, spec domain.QuerySpec) {
			defer wg.Done()
			tasks, err := uc.tasks.FetchTasks(ctx, spec)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancel() // abort the remaining sub-queries
				return
			}
			results[i] = tasks
		}(i, spec)
	}

	wg.Wait()

	if firstErr != nil {
		if errors.Is(firstErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreTimeout, firstErr)
		}
		return nil, firstErr
	}

	seen := make(map[string]struct{})
	var merged []domain.Task
	for _, batch := range results {
		for _, task := range batch {
			if _, dup := seen[task.ID]; dup {
				continue
			}
			seen[task.ID] = struct{}{}
			merged = append(merged, task)
		}
	}
	return merged, nil
}
