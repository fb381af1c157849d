package usecase

import (
	"fmt"
	"log/slog"

	"github.com/khanhng/taskscope/internal/adapter/metrics"
	"github.com/khanhng/taskscope/internal/domain"
)

// maxViewLevelForRole is the declared role -> scope-ceiling policy table. It
// lives here, away from transport code, so policy changes never touch the API
// handler.
var maxViewLevelForRole = map[domain.Role]domain.ViewLevel{
	domain.RoleEmployee:   domain.ViewIndividual,
	domain.RoleTeamLeader: domain.ViewTeam,
	domain.RoleDirector:   domain.ViewAll,
}

// MaxViewLevelForRole returns the widest view level the role may request.
func MaxViewLevelForRole(role domain.Role) (domain.ViewLevel, error) {
	ceiling, ok := maxViewLevelForRole[role]
	if !ok {
		return "", fmt.Errorf("no view ceiling declared for role %q", role)
	}
	return ceiling, nil
}

// VisibilityResolver computes the closed set of users whose tasks a principal
// may see under a requested scope. Resolution is deterministic given
// (principal, requested, tree) and has no side effects beyond audit logging
// and counters.
type VisibilityResolver struct {
	logger  *slog.Logger
	metrics *metrics.ViewMetrics
}

// NewVisibilityResolver creates a new VisibilityResolver.
func NewVisibilityResolver(logger *slog.Logger, m *metrics.ViewMetrics) *VisibilityResolver {
	return &VisibilityResolver{logger: logger, metrics: m}
}

// Resolve clamps the requested scope to the principal's role ceiling, checks
// organizational membership, and returns the resolved scope together with the
// sorted user ids admissible under it.
//
// An over-broad request is clamped, never rejected: the system must not leak
// a wider set than authorized, but an over-eager client should degrade
// gracefully. Every clamp is logged for audit.
func (r *VisibilityResolver) Resolve(principal domain.Principal, requested domain.ViewScope, tree *domain.OrgTree) (domain.ResolvedScope, []string, error) {
	ceiling, err := MaxViewLevelForRole(principal.Role)
	if err != nil {
		return domain.ResolvedScope{}, nil, err
	}

	// An empty requested level means "as wide as my role allows".
	requestedLevel := requested.ViewLevel
	if requestedLevel == "" {
		requestedLevel = ceiling
	}

	if err := r.checkMembership(principal, requested); err != nil {
		return domain.ResolvedScope{}, nil, err
	}

	effective := requestedLevel
	if requestedLevel.WiderThan(ceiling) {
		effective = ceiling
		r.logger.Warn("clamped over-broad scope request",
			"principal_id", principal.ID,
			"role", principal.Role,
			"requested_level", requestedLevel,
			"effective_level", effective,
		)
		if r.metrics != nil {
			r.metrics.ScopeClampsTotal.WithLabelValues(string(principal.Role)).Inc()
		}
	}

	resolved := domain.ResolvedScope{
		Level:          effective,
		RequestedLevel: requestedLevel,
		Clamped:        effective != requestedLevel,
	}

	users, err := r.admissibleUsers(principal, requested, effective, tree, &resolved)
	if err != nil {
		return domain.ResolvedScope{}, nil, err
	}
	return resolved, users, nil
}

// checkMembership rejects scopes that reference units outside the principal's
// own membership. Directors may reference any unit.
func (r *VisibilityResolver) checkMembership(principal domain.Principal, requested domain.ViewScope) error {
	if principal.Role == domain.RoleDirector {
		return nil
	}
	if requested.TeamID != "" && requested.TeamID != principal.TeamID {
		return fmt.Errorf("team %q: %w", requested.TeamID, domain.ErrScopeMismatch)
	}
	if requested.Department != "" && requested.Department != principal.Department {
		return fmt.Errorf("department %q: %w", requested.Department, domain.ErrScopeMismatch)
	}
	if requested.Location != "" && requested.Location != principal.Location {
		return fmt.Errorf("location %q: %w", requested.Location, domain.ErrScopeMismatch)
	}
	return nil
}

func (r *VisibilityResolver) admissibleUsers(principal domain.Principal, requested domain.ViewScope, level domain.ViewLevel, tree *domain.OrgTree, resolved *domain.ResolvedScope) ([]string, error) {
	switch level {
	case domain.ViewIndividual:
		return []string{principal.ID}, nil

	case domain.ViewTeam:
		teamID := requested.TeamID
		if teamID == "" {
			teamID = principal.TeamID
		}
		unit, ok := tree.Unit(teamID)
		if !ok || unit.Kind != domain.UnitTeam {
			return nil, fmt.Errorf("team %q: %w", teamID, domain.ErrUnknownUnit)
		}
		resolved.TeamID = teamID
		return tree.UsersUnder(teamID), nil

	case domain.ViewDepartment:
		department := requested.Department
		if department == "" {
			department = principal.Department
		}
		if !tree.HasDepartment(department, requested.Location) {
			return nil, fmt.Errorf("department %q: %w", department, domain.ErrUnknownUnit)
		}
		resolved.Department = department
		resolved.Location = requested.Location
		return tree.UsersUnderDepartment(department, requested.Location), nil

	case domain.ViewLocation:
		location := requested.Location
		if location == "" {
			location = principal.Location
		}
		if !tree.HasLocation(location) {
			return nil, fmt.Errorf("location %q: %w", location, domain.ErrUnknownUnit)
		}
		resolved.Location = location
		return tree.UsersUnderLocation(location), nil

	case domain.ViewAll:
		return tree.AllUsers(), nil
	}

	return nil, fmt.Errorf("unsupported view level %q", level)
}
