package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/khanhng/taskscope/internal/domain"
	"github.com/khanhng/taskscope/internal/domain/mocks"
)

type staticHierarchy struct {
	tree *domain.OrgTree
	err  error
}

func (s *staticHierarchy) Snapshot(ctx context.Context) (*domain.OrgTree, error) {
	return s.tree, s.err
}

func newViewUseCase(t *testing.T, taskRepo *mocks.MockTaskRepository, chunkSize int) *ManagerViewUseCase {
	t.Helper()
	logger := testLogger()
	aggregator, err := NewAggregator("Asia/Ho_Chi_Minh", logger, nil)
	if err != nil {
		t.Fatalf("failed to create aggregator: %v", err)
	}
	return NewManagerViewUseCase(
		taskRepo,
		&staticHierarchy{tree: testTree(t)},
		NewVisibilityResolver(logger, nil),
		aggregator,
		chunkSize,
		logger,
		nil,
	)
}

func retailTasks() []domain.Task {
	created := time.Date(2026, 8, 10, 3, 0, 0, 0, time.UTC)
	return []domain.Task{
		{ID: "t1", Status: domain.StatusCompleted, AssignedTo: "u1", TeamID: "T1", Department: "retail", Location: "hanoi", CreatedAt: created},
		{ID: "t2", Status: domain.StatusInProgress, AssignedTo: "u2", TeamID: "T1", Department: "retail", Location: "hanoi", CreatedAt: created},
		{ID: "t3", Status: domain.StatusNotStarted, AssignedTo: "u3", TeamID: "T2", Department: "retail", Location: "hanoi", CreatedAt: created},
		{ID: "t4", Status: domain.StatusCompleted, AssignedTo: "u5", TeamID: "T4", Department: "retail", Location: "hcm", CreatedAt: created},
		{ID: "t5", Status: domain.StatusCancelled, AssignedTo: "u6", TeamID: "T4", Department: "retail", Location: "hcm", CreatedAt: created},
		{ID: "t6", Status: domain.StatusCompleted, AssignedTo: "u4", TeamID: "T3", Department: "project", Location: "hanoi", CreatedAt: created},
	}
}

func TestManagerViewUseCase_Query(t *testing.T) {
	t.Run("Director Department View Is Consistent", func(t *testing.T) {
		repo := &mocks.MockTaskRepository{Tasks: retailTasks()}
		uc := newViewUseCase(t, repo, 2)

		result, err := uc.Query(context.Background(), director(), ViewRequest{
			Scope:    domain.ViewScope{ViewLevel: domain.ViewDepartment, Department: "retail"},
			Page:     1,
			PageSize: 50,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// retail spans both locations: u1, u2, u3, u5, u6 -> t1..t5.
		if result.Page.TotalItems != 5 {
			t.Errorf("expected 5 tasks, got %d", result.Page.TotalItems)
		}
		if got := result.KPI.TotalByAssignee(); got != 5 {
			t.Errorf("countsByAssignee sums to %d, want 5", got)
		}
		if got := result.KPI.TotalByStatus(); got != 5 {
			t.Errorf("countsByStatus sums to %d, want 5", got)
		}
		// chunk size 2 over 5 users -> 3 sub-queries.
		if got := repo.SpecCount(); got != 3 {
			t.Errorf("expected 3 sub-queries, got %d", got)
		}
	})

	t.Run("Employee Clamped To Own Tasks", func(t *testing.T) {
		repo := &mocks.MockTaskRepository{Tasks: retailTasks()}
		uc := newViewUseCase(t, repo, 30)

		result, err := uc.Query(context.Background(), employee(), ViewRequest{
			Scope:    domain.ViewScope{ViewLevel: domain.ViewDepartment},
			Page:     1,
			PageSize: 50,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Scope.Clamped || result.Scope.Level != domain.ViewIndividual {
			t.Errorf("expected clamp to individual, got %+v", result.Scope)
		}
		if result.Page.TotalItems != 1 || result.Tasks[0].AssignedTo != "u1" {
			t.Errorf("expected only u1's task, got %+v", result.Tasks)
		}
	})

	t.Run("Duplicate Task Across Sub-Queries Counted Once", func(t *testing.T) {
		dup := domain.Task{ID: "t-dup", Status: domain.StatusCompleted, AssignedTo: "u1", CreatedAt: time.Date(2026, 8, 10, 3, 0, 0, 0, time.UTC)}
		repo := &mocks.MockTaskRepository{
			FetchFunc: func(ctx context.Context, spec domain.QuerySpec) ([]domain.Task, error) {
				// Every sub-query returns the same task id.
				return []domain.Task{dup}, nil
			},
		}
		uc := newViewUseCase(t, repo, 2)

		result, err := uc.Query(context.Background(), director(), ViewRequest{
			Scope:    domain.ViewScope{ViewLevel: domain.ViewAll},
			Page:     1,
			PageSize: 50,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Page.TotalItems != 1 {
			t.Errorf("expected 1 task after dedup, got %d", result.Page.TotalItems)
		}
		if got := result.KPI.CountsByAssignee["u1"]; got != 1 {
			t.Errorf("expected u1 counted once, got %d", got)
		}
	})

	t.Run("Store Timeout Is Retryable Error", func(t *testing.T) {
		repo := &mocks.MockTaskRepository{
			FetchFunc: func(ctx context.Context, spec domain.QuerySpec) ([]domain.Task, error) {
				return nil, context.DeadlineExceeded
			},
		}
		uc := newViewUseCase(t, repo, 30)

		_, err := uc.Query(context.Background(), teamLeader(), ViewRequest{
			Scope:    domain.ViewScope{ViewLevel: domain.ViewTeam},
			Page:     1,
			PageSize: 50,
		})
		if !errors.Is(err, domain.ErrStoreTimeout) {
			t.Fatalf("expected ErrStoreTimeout, got %v", err)
		}
	})

	t.Run("Failed Sub-Query Cancels The Rest", func(t *testing.T) {
		var cancelled atomic.Bool
		repo := &mocks.MockTaskRepository{}
		repo.FetchFunc = func(ctx context.Context, spec domain.QuerySpec) ([]domain.Task, error) {
			if len(spec.AssignedTo) == 1 && spec.AssignedTo[0] == "u1" {
				return nil, errors.New("store exploded")
			}
			select {
			case <-ctx.Done():
				cancelled.Store(true)
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
				return nil, nil
			}
		}
		uc := newViewUseCase(t, repo, 1) // one spec per admissible user

		_, err := uc.Query(context.Background(), director(), ViewRequest{
			Scope:    domain.ViewScope{ViewLevel: domain.ViewAll},
			Page:     1,
			PageSize: 50,
		})
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
		if !cancelled.Load() {
			t.Error("expected outstanding sub-queries to observe cancellation")
		}
	})

	t.Run("Scope Mismatch Propagates", func(t *testing.T) {
		repo := &mocks.MockTaskRepository{Tasks: retailTasks()}
		uc := newViewUseCase(t, repo, 30)

		_, err := uc.Query(context.Background(), employee(), ViewRequest{
			Scope:    domain.ViewScope{ViewLevel: domain.ViewTeam, TeamID: "T4"},
			Page:     1,
			PageSize: 50,
		})
		if !errors.Is(err, domain.ErrScopeMismatch) {
			t.Fatalf("expected ErrScopeMismatch, got %v", err)
		}
		if repo.SpecCount() != 0 {
			t.Error("no sub-query should be issued on scope mismatch")
		}
	})

	t.Run("Hierarchy Load Failure", func(t *testing.T) {
		logger := testLogger()
		aggregator, err := NewAggregator("UTC", logger, nil)
		if err != nil {
			t.Fatalf("failed to create aggregator: %v", err)
		}
		uc := NewManagerViewUseCase(
			&mocks.MockTaskRepository{},
			&staticHierarchy{err: errors.New("store down")},
			NewVisibilityResolver(logger, nil),
			aggregator,
			30,
			logger,
			nil,
		)

		_, err = uc.Query(context.Background(), director(), ViewRequest{Page: 1, PageSize: 10})
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
	})
}
