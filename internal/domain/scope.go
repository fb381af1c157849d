package domain

// ViewLevel is the granularity of the organizational tree at which tasks are
// requested.
type ViewLevel string

const (
	ViewIndividual ViewLevel = "individual"
	ViewTeam       ViewLevel = "team"
	ViewDepartment ViewLevel = "department"
	ViewLocation   ViewLevel = "location"
	ViewAll        ViewLevel = "all"
)

// viewLevelRank orders view levels from narrowest to widest so that clamping
// is a simple comparison.
var viewLevelRank = map[ViewLevel]int{
	ViewIndividual: 0,
	ViewTeam:       1,
	ViewDepartment: 2,
	ViewLocation:   3,
	ViewAll:        4,
}

// ValidViewLevel reports whether l is one of the known view levels.
func ValidViewLevel(l ViewLevel) bool {
	_, ok := viewLevelRank[l]
	return ok
}

// WiderThan reports whether l grants a strictly wider view than other.
func (l ViewLevel) WiderThan(other ViewLevel) bool {
	return viewLevelRank[l] > viewLevelRank[other]
}

// ViewScope is the scope requested by the client. It is never trusted: the
// visibility resolver clamps it to the principal's role ceiling and verifies
// organizational membership before any task is fetched.
type ViewScope struct {
	ViewLevel  ViewLevel `json:"view_level"`
	Department string    `json:"department,omitempty"`
	Location   string    `json:"location,omitempty"`
	TeamID     string    `json:"team_id,omitempty"`
}

// ResolvedScope is the scope that was actually applied. RequestedLevel and
// Clamped let the caller tell whether (and from what) the request was
// narrowed.
type ResolvedScope struct {
	Level          ViewLevel `json:"level"`
	RequestedLevel ViewLevel `json:"requested_level"`
	Clamped        bool      `json:"clamped"`
	Department     string    `json:"department,omitempty"`
	Location       string    `json:"location,omitempty"`
	TeamID         string    `json:"team_id,omitempty"`
}
