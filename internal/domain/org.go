package domain

import (
	"fmt"
	"sort"
)

// UnitKind tags a node in the organizational hierarchy.
type UnitKind string

const (
	// UnitRoot is the single synthetic node above all locations.
	UnitRoot       UnitKind = "root"
	UnitLocation   UnitKind = "location"
	UnitDepartment UnitKind = "department"
	UnitTeam       UnitKind = "team"
	UnitUser       UnitKind = "user"
)

// OrganizationUnit is one node of the hierarchy as stored by the
// configuration collaborator. ParentID is a weak reference: lookup only,
// never owning. The root unit has an empty ParentID.
type OrganizationUnit struct {
	ID       string   `json:"id"`
	ParentID string   `json:"parent_id,omitempty"`
	Kind     UnitKind `json:"kind"`
	Name     string   `json:"name"`
}

type orgNode struct {
	unit     OrganizationUnit
	children []int // arena indices
}

// OrgTree is an immutable, arena-indexed view of the organization hierarchy:
// location -> department -> team -> user. Build it once per snapshot and
// share it freely; none of its methods mutate state.
type OrgTree struct {
	nodes []orgNode
	byID  map[string]int // unit id -> arena index
	root  int
}

// BuildOrgTree assembles the unit rows into a tree and validates its shape:
// exactly one root, every parent reference resolvable, no cycles. A malformed
// hierarchy is rejected outright so a stale-but-correct snapshot can be kept
// instead.
func BuildOrgTree(units []OrganizationUnit) (*OrgTree, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("org tree: no units")
	}

	t := &OrgTree{
		nodes: make([]orgNode, 0, len(units)),
		byID:  make(map[string]int, len(units)),
		root:  -1,
	}

	for _, u := range units {
		if u.ID == "" {
			return nil, fmt.Errorf("org tree: unit with empty id")
		}
		if _, dup := t.byID[u.ID]; dup {
			return nil, fmt.Errorf("org tree: duplicate unit id %q", u.ID)
		}
		t.byID[u.ID] = len(t.nodes)
		t.nodes = append(t.nodes, orgNode{unit: u})
	}

	for i, n := range t.nodes {
		if n.unit.ParentID == "" {
			if t.root != -1 {
				return nil, fmt.Errorf("org tree: multiple roots (%q and %q)", t.nodes[t.root].unit.ID, n.unit.ID)
			}
			t.root = i
			continue
		}
		parent, ok := t.byID[n.unit.ParentID]
		if !ok {
			return nil, fmt.Errorf("org tree: unit %q references unknown parent %q", n.unit.ID, n.unit.ParentID)
		}
		t.nodes[parent].children = append(t.nodes[parent].children, i)
	}

	if t.root == -1 {
		return nil, fmt.Errorf("org tree: no root unit")
	}

	// A parent-linked forest with one root and len(nodes) reachable nodes
	// cannot contain a cycle; anything unreachable from the root is on one.
	if reached := t.countReachable(t.root); reached != len(t.nodes) {
		return nil, fmt.Errorf("org tree: %d of %d units unreachable from root (cycle or orphan)", len(t.nodes)-reached, len(t.nodes))
	}

	return t, nil
}

func (t *OrgTree) countReachable(from int) int {
	count := 0
	stack := []int{from}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, t.nodes[i].children...)
	}
	return count
}

// Unit returns the unit with the given id.
func (t *OrgTree) Unit(id string) (OrganizationUnit, bool) {
	i, ok := t.byID[id]
	if !ok {
		return OrganizationUnit{}, false
	}
	return t.nodes[i].unit, true
}

// Size returns the number of units in the tree.
func (t *OrgTree) Size() int { return len(t.nodes) }

// UsersUnder returns the sorted ids of every user unit in the subtree rooted
// at the given unit (inclusive, if the unit itself is a user).
func (t *OrgTree) UsersUnder(unitID string) []string {
	start, ok := t.byID[unitID]
	if !ok {
		return nil
	}
	return t.collectUsers([]int{start})
}

// AllUsers returns the sorted ids of every user unit in the tree.
func (t *OrgTree) AllUsers() []string {
	return t.collectUsers([]int{t.root})
}

// UsersUnderDepartment returns the sorted ids of every user in department
// units whose name matches the given department. When location is non-empty
// only departments under that location count. Department names repeat across
// locations, so this may span more than one subtree.
func (t *OrgTree) UsersUnderDepartment(department, location string) []string {
	var roots []int
	for i, n := range t.nodes {
		if n.unit.Kind != UnitDepartment || n.unit.Name != department {
			continue
		}
		if location != "" && !t.underLocation(i, location) {
			continue
		}
		roots = append(roots, i)
	}
	return t.collectUsers(roots)
}

// HasLocation reports whether a location unit with the given name exists.
func (t *OrgTree) HasLocation(name string) bool {
	for _, n := range t.nodes {
		if n.unit.Kind == UnitLocation && n.unit.Name == name {
			return true
		}
	}
	return false
}

// HasDepartment reports whether a department unit with the given name exists,
// optionally restricted to a location.
func (t *OrgTree) HasDepartment(name, location string) bool {
	for i, n := range t.nodes {
		if n.unit.Kind == UnitDepartment && n.unit.Name == name {
			if location == "" || t.underLocation(i, location) {
				return true
			}
		}
	}
	return false
}

// UsersUnderLocation returns the sorted ids of every user under the location
// unit with the given name.
func (t *OrgTree) UsersUnderLocation(name string) []string {
	var roots []int
	for i, n := range t.nodes {
		if n.unit.Kind == UnitLocation && n.unit.Name == name {
			roots = append(roots, i)
		}
	}
	return t.collectUsers(roots)
}

func (t *OrgTree) underLocation(i int, location string) bool {
	for {
		n := t.nodes[i]
		if n.unit.Kind == UnitLocation && n.unit.Name == location {
			return true
		}
		parent, ok := t.byID[n.unit.ParentID]
		if !ok {
			return false
		}
		i = parent
	}
}

func (t *OrgTree) collectUsers(roots []int) []string {
	seen := make(map[string]struct{})
	stack := append([]int(nil), roots...)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[i]
		if n.unit.Kind == UnitUser {
			seen[n.unit.ID] = struct{}{}
		}
		stack = append(stack, n.children...)
	}

	users := make([]string, 0, len(seen))
	for id := range seen {
		users = append(users, id)
	}
	sort.Strings(users)
	return users
}
