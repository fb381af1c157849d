package domain

import "context"

// TaskRepository fetches tasks from the external document store. The store is
// the only suspension point in the core: implementations must honor the
// context deadline and surface expiry as ErrStoreTimeout.
type TaskRepository interface {
	// FetchTasks returns every task matching one planner sub-query.
	FetchTasks(ctx context.Context, spec QuerySpec) ([]Task, error)
}

// OrgUnitRepository loads the organization hierarchy definition from the
// configuration collaborator.
type OrgUnitRepository interface {
	// ListUnits returns every unit row. Tree assembly and validation happen
	// in BuildOrgTree, not here.
	ListUnits(ctx context.Context) ([]OrganizationUnit, error)
}

// SessionRepository resolves a bearer token into the requesting principal.
// Session issuance belongs to the auth collaborator; this core only reads.
type SessionRepository interface {
	// Lookup returns the principal for the token, or ErrUnauthorized when the
	// token is unknown or expired.
	Lookup(ctx context.Context, token string) (*Principal, error)
}
