package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

const taskColumns = `id, title, description, status, priority, assigned_to, created_by, due_date, deleted, tags, created_at, updated_at`

// sortColumns maps the public sort keys onto columns. Anything else falls
// back to created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
}

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, t model.Task) (model.Task, error) {
	created, err := scanTask(r.pool.QueryRow(ctx,
		`INSERT INTO tasks (id, title, description, status, priority, assigned_to, created_by, due_date, deleted, tags, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+taskColumns,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.AssignedTo, t.CreatedBy, t.DueDate, t.Deleted, tags(t.Tags), t.CreatedAt, t.UpdatedAt))
	if err != nil {
		return model.Task{}, translateTaskWriteError("create task", err)
	}
	return created, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, apierror.NotFound("Task not found", id)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("find task by id: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	query, args := buildTaskListQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, t model.Task) (model.Task, error) {
	updated, err := scanTask(r.pool.QueryRow(ctx,
		`UPDATE tasks
		 SET title = $2, description = $3, status = $4, priority = $5, assigned_to = $6,
		     due_date = $7, tags = $8, updated_at = $9
		 WHERE id = $1
		 RETURNING `+taskColumns,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.AssignedTo, t.DueDate, tags(t.Tags), t.UpdatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, apierror.NotFound("Task not found", t.ID)
	}
	if err != nil {
		return model.Task{}, translateTaskWriteError("update task", err)
	}
	return updated, nil
}

// SoftDelete flags the task as deleted and returns the stored row.
func (r *TaskRepository) SoftDelete(ctx context.Context, id string) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx,
		`UPDATE tasks SET deleted = true, updated_at = now() WHERE id = $1 RETURNING `+taskColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, apierror.NotFound("Task not found", id)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("soft delete task: %w", err)
	}
	return t, nil
}

func buildTaskListQuery(filter model.TaskFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != nil {
		where = append(where, "status = "+arg(*filter.Status))
	}
	if filter.Priority != nil {
		where = append(where, "priority = "+arg(*filter.Priority))
	}
	if filter.AssignedTo != nil {
		where = append(where, "assigned_to = "+arg(*filter.AssignedTo))
	}
	if filter.Deleted != nil {
		where = append(where, "deleted = "+arg(*filter.Deleted))
	}
	if filter.OwnerID != "" {
		owner := arg(filter.OwnerID)
		where = append(where, "(created_by = "+owner+" OR assigned_to = "+owner+")")
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + taskColumns + ` FROM tasks`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}
	b.WriteString(" ORDER BY " + column + " " + direction + ", id " + direction)

	return b.String(), args
}

func translateTaskWriteError(op string, err error) error {
	switch pgCode(err) {
	case pgForeignKeyViolation:
		return apierror.Validation("Assigned user does not exist", "assignedTo").Wrap(err)
	case pgCheckViolation:
		return apierror.Validation("Invalid task status or priority", "").Wrap(err)
	case pgInvalidTextRepresent:
		return apierror.Validation("Invalid ID format", "").Wrap(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// tags keeps NOT NULL satisfied for tasks created without tags.
func tags(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.AssignedTo,
		&t.CreatedBy, &t.DueDate, &t.Deleted, &t.Tags, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
