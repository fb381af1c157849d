package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/khanhng/taskscope/internal/domain"
	"github.com/lib/pq"
)

// TaskRepository implements domain.TaskRepository against PostgreSQL. It is
// strictly read-only: the core never mutates task records.
type TaskRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTaskRepository creates a new PostgreSQL task repository.
func NewTaskRepository(db *sql.DB, logger *slog.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// FetchTasks runs one planner sub-query. The assignee predicate arrives
// pre-chunked, so a single ANY($1) is always within the store's list limit.
// A context deadline expiry surfaces as domain.ErrStoreTimeout so the caller
// knows the failure is retryable.
func (r *TaskRepository) FetchTasks(ctx context.Context, spec domain.QuerySpec) ([]domain.Task, error) {
	query := `SELECT id, title, status, assigned_to, team_id, department, location, created_at, due_at
		FROM tasks WHERE assigned_to = ANY($1)`
	args := []interface{}{pq.Array(spec.AssignedTo)}

	if spec.Filter.Status != "" {
		args = append(args, string(spec.Filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !spec.Filter.From.IsZero() {
		args = append(args, spec.Filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !spec.Filter.To.IsZero() {
		args = append(args, spec.Filter.To)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapStoreErr(err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var (
			task  domain.Task
			dueAt sql.NullTime
		)
		if err := rows.Scan(&task.ID, &task.Title, &task.Status, &task.AssignedTo,
			&task.TeamID, &task.Department, &task.Location, &task.CreatedAt, &dueAt); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		if dueAt.Valid {
			due := dueAt.Time
			task.DueAt = &due
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapStoreErr(err)
	}

	return tasks, nil
}

func (r *TaskRepository) mapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrStoreTimeout, err)
	}
	return fmt.Errorf("query tasks: %w", err)
}
