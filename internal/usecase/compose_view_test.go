package usecase

import (
	"testing"
	"time"

	"github.com/khanhng/taskscope/internal/domain"
)

func composeFixture() []domain.Task {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Task{
		{ID: "t1", CreatedAt: base.AddDate(0, 0, 1)},
		{ID: "t2", CreatedAt: base.AddDate(0, 0, 3)},
		{ID: "t3", CreatedAt: base.AddDate(0, 0, 2)},
		{ID: "t4", CreatedAt: base.AddDate(0, 0, 2)},
		{ID: "t5", CreatedAt: base},
	}
}

func TestComposeView(t *testing.T) {
	scope := domain.ResolvedScope{Level: domain.ViewTeam}

	t.Run("Deterministic Ordering", func(t *testing.T) {
		result := ComposeView(composeFixture(), domain.KpiSnapshot{}, scope, 1, 10)

		wantOrder := []string{"t2", "t3", "t4", "t1", "t5"}
		if len(result.Tasks) != len(wantOrder) {
			t.Fatalf("expected %d tasks, got %d", len(wantOrder), len(result.Tasks))
		}
		for i, id := range wantOrder {
			if result.Tasks[i].ID != id {
				t.Errorf("position %d: got %s, want %s", i, result.Tasks[i].ID, id)
			}
		}
	})

	t.Run("Input Slice Is Not Mutated", func(t *testing.T) {
		tasks := composeFixture()
		ComposeView(tasks, domain.KpiSnapshot{}, scope, 1, 10)

		if tasks[0].ID != "t1" || tasks[4].ID != "t5" {
			t.Error("input slice order changed")
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		result := ComposeView(composeFixture(), domain.KpiSnapshot{}, scope, 2, 2)

		if len(result.Tasks) != 2 {
			t.Fatalf("expected 2 tasks on page 2, got %d", len(result.Tasks))
		}
		if result.Tasks[0].ID != "t4" || result.Tasks[1].ID != "t1" {
			t.Errorf("unexpected page contents: %s, %s", result.Tasks[0].ID, result.Tasks[1].ID)
		}
		if !result.Page.HasNext {
			t.Error("expected HasNext on page 2 of 3")
		}
		if result.Page.TotalItems != 5 || result.Page.TotalPages != 3 {
			t.Errorf("unexpected page info: %+v", result.Page)
		}
	})

	t.Run("Page Beyond Range", func(t *testing.T) {
		result := ComposeView(composeFixture(), domain.KpiSnapshot{}, scope, 9, 2)

		if len(result.Tasks) != 0 {
			t.Errorf("expected empty page, got %d tasks", len(result.Tasks))
		}
		if result.Page.HasNext {
			t.Error("did not expect HasNext beyond the last page")
		}
	})

	t.Run("Scope Metadata Passed Through", func(t *testing.T) {
		clamped := domain.ResolvedScope{Level: domain.ViewIndividual, RequestedLevel: domain.ViewAll, Clamped: true}
		result := ComposeView(nil, domain.KpiSnapshot{}, clamped, 1, 10)

		if !result.Scope.Clamped || result.Scope.RequestedLevel != domain.ViewAll {
			t.Errorf("scope metadata lost: %+v", result.Scope)
		}
	})
}
