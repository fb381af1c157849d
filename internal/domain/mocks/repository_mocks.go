package mocks

import (
	"context"
	"sync"

	"github.com/khanhng/taskscope/internal/domain"
)

// MockTaskRepository is a mock implementation of domain.TaskRepository for
// testing. FetchFunc, when set, overrides the default behavior of filtering
// Tasks by the spec's assignee list.
type MockTaskRepository struct {
	mu           sync.Mutex
	Tasks        []domain.Task
	FetchErr     error
	FetchFunc    func(ctx context.Context, spec domain.QuerySpec) ([]domain.Task, error)
	FetchedSpecs []domain.QuerySpec
}

func (m *MockTaskRepository) FetchTasks(ctx context.Context, spec domain.QuerySpec) ([]domain.Task, error) {
	m.mu.Lock()
	m.FetchedSpecs = append(m.FetchedSpecs, spec)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, spec)
	}
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}

	assignees := make(map[string]struct{}, len(spec.AssignedTo))
	for _, id := range spec.AssignedTo {
		assignees[id] = struct{}{}
	}

	var out []domain.Task
	for _, task := range m.Tasks {
		if _, ok := assignees[task.AssignedTo]; !ok {
			continue
		}
		if spec.Filter.Status != "" && task.Status != spec.Filter.Status {
			continue
		}
		if !spec.Filter.From.IsZero() && task.CreatedAt.Before(spec.Filter.From) {
			continue
		}
		if !spec.Filter.To.IsZero() && !task.CreatedAt.Before(spec.Filter.To) {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

// SpecCount returns how many sub-queries were issued so far.
func (m *MockTaskRepository) SpecCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FetchedSpecs)
}

// MockOrgUnitRepository is a mock implementation of domain.OrgUnitRepository.
type MockOrgUnitRepository struct {
	mu        sync.Mutex
	Units     []domain.OrganizationUnit
	ListErr   error
	listCalls int
}

func (m *MockOrgUnitRepository) ListUnits(ctx context.Context) ([]domain.OrganizationUnit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]domain.OrganizationUnit(nil), m.Units...), nil
}

// Calls returns how many times ListUnits has been invoked.
func (m *MockOrgUnitRepository) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// MockSessionRepository is a mock implementation of domain.SessionRepository
// backed by a token -> principal map.
type MockSessionRepository struct {
	Principals map[string]*domain.Principal
	LookupErr  error
}

func (m *MockSessionRepository) Lookup(ctx context.Context, token string) (*domain.Principal, error) {
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	p, ok := m.Principals[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return p, nil
}
