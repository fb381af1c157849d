package domain

// Role is the organizational role of a requesting user. Roles are ordered:
// each role may view at most the levels granted by the visibility policy.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleTeamLeader Role = "team_leader"
	RoleDirector   Role = "director"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleTeamLeader, RoleDirector:
		return true
	}
	return false
}

// Principal is the resolved identity of the requesting user. It is supplied
// by the auth collaborator and treated as immutable for the duration of a
// request.
type Principal struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	Location   string `json:"location"`
	Department string `json:"department"`
	TeamID     string `json:"team_id"`
}
