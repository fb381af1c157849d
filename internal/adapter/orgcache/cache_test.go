package orgcache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/khanhng/taskscope/internal/domain"
	"github.com/khanhng/taskscope/internal/domain/mocks"
)

func testUnits() []domain.OrganizationUnit {
	return []domain.OrganizationUnit{
		{ID: "root", Kind: domain.UnitRoot, Name: "company"},
		{ID: "hanoi", ParentID: "root", Kind: domain.UnitLocation, Name: "hanoi"},
		{ID: "hanoi-retail", ParentID: "hanoi", Kind: domain.UnitDepartment, Name: "retail"},
		{ID: "T1", ParentID: "hanoi-retail", Kind: domain.UnitTeam, Name: "alpha"},
		{ID: "u1", ParentID: "T1", Kind: domain.UnitUser, Name: "An"},
	}
}

func TestCache(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Cold Load Then Reuse", func(t *testing.T) {
		repo := &mocks.MockOrgUnitRepository{Units: testUnits()}
		cache := NewCache(repo, logger, nil)

		first, err := cache.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := cache.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if first != second {
			t.Error("expected the same snapshot pointer without a rebuild")
		}
		if repo.Calls() != 1 {
			t.Errorf("expected a single store load, got %d", repo.Calls())
		}
	})

	t.Run("Invalidate Forces Rebuild", func(t *testing.T) {
		repo := &mocks.MockOrgUnitRepository{Units: testUnits()}
		cache := NewCache(repo, logger, nil)

		before, err := cache.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if err := cache.Invalidate(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		after, err := cache.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if before == after {
			t.Error("expected a fresh snapshot after invalidation")
		}
		if repo.Calls() != 2 {
			t.Errorf("expected two store loads, got %d", repo.Calls())
		}
	})

	t.Run("Cold Load Failure Surfaces", func(t *testing.T) {
		repo := &mocks.MockOrgUnitRepository{ListErr: errors.New("store down")}
		cache := NewCache(repo, logger, nil)

		if _, err := cache.Snapshot(context.Background()); err == nil {
			t.Fatal("expected an error, got nil")
		}
	})

	t.Run("Bad Rebuild Keeps Previous Snapshot", func(t *testing.T) {
		repo := &mocks.MockOrgUnitRepository{Units: testUnits()}
		cache := NewCache(repo, logger, nil)

		good, err := cache.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// A hierarchy with two roots must not replace the good snapshot.
		repo.Units = append(testUnits(), domain.OrganizationUnit{ID: "root2", Kind: domain.UnitRoot, Name: "other"})
		if err := cache.Invalidate(context.Background()); err == nil {
			t.Fatal("expected an error, got nil")
		}

		still, err := cache.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if still != good {
			t.Error("expected the previous snapshot to keep serving")
		}
	})
}
