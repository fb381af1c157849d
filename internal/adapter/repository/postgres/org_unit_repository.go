package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/khanhng/taskscope/internal/domain"
)

// OrgUnitRepository implements domain.OrgUnitRepository against PostgreSQL.
// The admin collaborator owns the org_units table; this repository only
// reads it.
type OrgUnitRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewOrgUnitRepository creates a new PostgreSQL org-unit repository.
func NewOrgUnitRepository(db *sql.DB, logger *slog.Logger) *OrgUnitRepository {
	return &OrgUnitRepository{db: db, logger: logger}
}

// ListUnits returns every hierarchy row. Validation happens when the cache
// assembles the tree, not here.
func (r *OrgUnitRepository) ListUnits(ctx context.Context) ([]domain.OrganizationUnit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, parent_id, kind, name FROM org_units`)
	if err != nil {
		return nil, fmt.Errorf("query org units: %w", err)
	}
	defer rows.Close()

	var units []domain.OrganizationUnit
	for rows.Next() {
		var (
			unit     domain.OrganizationUnit
			parentID sql.NullString
		)
		if err := rows.Scan(&unit.ID, &parentID, &unit.Kind, &unit.Name); err != nil {
			return nil, fmt.Errorf("scan org unit row: %w", err)
		}
		if parentID.Valid {
			unit.ParentID = parentID.String
		}
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate org units: %w", err)
	}

	return units, nil
}
