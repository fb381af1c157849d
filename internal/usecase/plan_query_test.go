package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/khanhng/taskscope/internal/domain"
)

func TestPlanQueries(t *testing.T) {
	t.Run("Chunks At Store Limit", func(t *testing.T) {
		users := make([]string, 65)
		for i := range users {
			users[i] = fmt.Sprintf("u%03d", i)
		}

		specs := PlanQueries(users, domain.TaskFilter{}, 30)

		if len(specs) != 3 {
			t.Fatalf("expected 3 specs, got %d", len(specs))
		}
		wantSizes := []int{30, 30, 5}
		total := 0
		for i, spec := range specs {
			if len(spec.AssignedTo) != wantSizes[i] {
				t.Errorf("spec %d: expected %d assignees, got %d", i, wantSizes[i], len(spec.AssignedTo))
			}
			total += len(spec.AssignedTo)
		}
		if total != len(users) {
			t.Errorf("expected chunks to cover all %d users, got %d", len(users), total)
		}
	})

	t.Run("Empty Admissible Set", func(t *testing.T) {
		if specs := PlanQueries(nil, domain.TaskFilter{}, 30); specs != nil {
			t.Errorf("expected no specs, got %v", specs)
		}
	})

	t.Run("Filter Propagates To Every Chunk", func(t *testing.T) {
		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		filter := domain.TaskFilter{Status: domain.StatusInProgress, From: from}

		specs := PlanQueries([]string{"a", "b", "c"}, filter, 2)

		if len(specs) != 2 {
			t.Fatalf("expected 2 specs, got %d", len(specs))
		}
		for i, spec := range specs {
			if spec.Filter.Status != domain.StatusInProgress || !spec.Filter.From.Equal(from) {
				t.Errorf("spec %d: filter not propagated: %+v", i, spec.Filter)
			}
		}
	})

	t.Run("Non-Positive Chunk Size Falls Back To Default", func(t *testing.T) {
		users := make([]string, defaultStoreInLimit+1)
		for i := range users {
			users[i] = fmt.Sprintf("u%03d", i)
		}
		specs := PlanQueries(users, domain.TaskFilter{}, 0)
		if len(specs) != 2 {
			t.Errorf("expected 2 specs with default chunking, got %d", len(specs))
		}
	})
}
