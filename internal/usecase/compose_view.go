package usecase

import (
	"sort"

	"github.com/khanhng/taskscope/internal/domain"
)

// PageInfo describes the page of tasks carried by a ViewResult.
type PageInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalItems int  `json:"totalItems"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
}

// ViewResult is the response contract of the manager-view operation: the
// requested page of tasks, the KPI snapshot over the full admissible set, and
// the scope that was actually applied (including any clamp).
type ViewResult struct {
	Tasks []domain.Task        `json:"data"`
	KPI   domain.KpiSnapshot   `json:"kpi"`
	Scope domain.ResolvedScope `json:"scope"`
	Page  PageInfo             `json:"page"`
}

// ComposeView bundles tasks and aggregates into an immutable result. The
// input slice is never mutated or aliased; tasks are ordered by CreatedAt
// descending (ties broken by id) before paging so pagination is stable across
// calls. Pages are 1-based.
func ComposeView(tasks []domain.Task, snapshot domain.KpiSnapshot, scope domain.ResolvedScope, page, pageSize int) ViewResult {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	ordered := append([]domain.Task(nil), tasks...)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	total := len(ordered)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return ViewResult{
		Tasks: ordered[start:end],
		KPI:   snapshot,
		Scope: scope,
		Page: PageInfo{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: totalPages,
			HasNext:    end < total,
		},
	}
}
