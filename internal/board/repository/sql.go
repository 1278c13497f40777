package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskdeck/taskdeck/internal/board/models"
	apperrors "github.com/taskdeck/taskdeck/internal/common/errors"
)

// SQLRepository implements Repository on top of sqlx. The same code serves
// SQLite and Postgres; queries are written with ? placeholders and rebound
// for the active driver.
type SQLRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates the schema if needed and returns the repository.
func NewSQLRepository(db *sqlx.DB) (*SQLRepository, error) {
	repo := &SQLRepository{db: db}
	if err := repo.migrate(); err != nil {
		return nil, apperrors.InternalError("failed to migrate board schema", err)
	}
	return repo, nil
}

func (r *SQLRepository) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS columns (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_columns_owner ON columns(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_columns_owner_position ON columns(owner_id, position)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			column_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL,
			due_date TIMESTAMP,
			position INTEGER NOT NULL DEFAULT 0,
			tags TEXT NOT NULL DEFAULT '',
			assignee_id TEXT NOT NULL DEFAULT '',
			project_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_column ON tasks(owner_id, column_id)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLRepository) CreateColumn(ctx context.Context, column *models.Column) error {
	if column.ID == "" {
		column.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	column.CreatedAt = now
	column.UpdatedAt = now

	query := r.db.Rebind(`INSERT INTO columns (id, owner_id, title, color, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		column.ID, column.OwnerID, column.Title, column.Color, column.Position,
		column.CreatedAt, column.UpdatedAt)
	if err != nil {
		return apperrors.InternalError("failed to create column", err)
	}
	return nil
}

func (r *SQLRepository) GetColumn(ctx context.Context, ownerID, id string) (*models.Column, error) {
	var column models.Column
	query := r.db.Rebind(`SELECT * FROM columns WHERE id = ? AND owner_id = ?`)
	err := r.db.GetContext(ctx, &column, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("column", id)
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to get column", err)
	}
	return &column, nil
}

func (r *SQLRepository) UpdateColumn(ctx context.Context, column *models.Column) error {
	column.UpdatedAt = time.Now().UTC()
	query := r.db.Rebind(`UPDATE columns SET title = ?, color = ?, position = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`)
	res, err := r.db.ExecContext(ctx, query,
		column.Title, column.Color, column.Position, column.UpdatedAt,
		column.ID, column.OwnerID)
	if err != nil {
		return apperrors.InternalError("failed to update column", err)
	}
	return checkAffected(res, "column", column.ID)
}

func (r *SQLRepository) DeleteColumn(ctx context.Context, ownerID, id string) error {
	query := r.db.Rebind(`DELETE FROM columns WHERE id = ? AND owner_id = ?`)
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return apperrors.InternalError("failed to delete column", err)
	}
	return checkAffected(res, "column", id)
}

func (r *SQLRepository) ListColumns(ctx context.Context, ownerID string) ([]*models.Column, error) {
	var columns []*models.Column
	query := r.db.Rebind(`SELECT * FROM columns WHERE owner_id = ?`)
	if err := r.db.SelectContext(ctx, &columns, query, ownerID); err != nil {
		return nil, apperrors.InternalError("failed to list columns", err)
	}
	return columns, nil
}

func (r *SQLRepository) CountColumns(ctx context.Context, ownerID string) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM columns WHERE owner_id = ?`)
	if err := r.db.GetContext(ctx, &count, query, ownerID); err != nil {
		return 0, apperrors.InternalError("failed to count columns", err)
	}
	return count, nil
}

func (r *SQLRepository) MaxColumnPosition(ctx context.Context, ownerID string) (int, bool, error) {
	var max sql.NullInt64
	query := r.db.Rebind(`SELECT MAX(position) FROM columns WHERE owner_id = ?`)
	if err := r.db.GetContext(ctx, &max, query, ownerID); err != nil {
		return 0, false, apperrors.InternalError("failed to get max column position", err)
	}
	if !max.Valid {
		return 0, false, nil
	}
	return int(max.Int64), true, nil
}

func (r *SQLRepository) IncrementColumnPositionsFrom(ctx context.Context, ownerID string, from int) error {
	query := r.db.Rebind(`UPDATE columns SET position = position + 1, updated_at = ?
		WHERE owner_id = ? AND position >= ?`)
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), ownerID, from); err != nil {
		return apperrors.InternalError("failed to shift column positions", err)
	}
	return nil
}

func (r *SQLRepository) CreateTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	query := r.db.Rebind(`INSERT INTO tasks
		(id, owner_id, column_id, title, description, priority, due_date, position, tags, assignee_id, project_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.OwnerID, task.ColumnID, task.Title, task.Description,
		task.Priority, task.DueDate, task.Position, task.Tags,
		task.AssigneeID, task.ProjectID, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return apperrors.InternalError("failed to create task", err)
	}
	return nil
}

func (r *SQLRepository) GetTask(ctx context.Context, ownerID, id string) (*models.Task, error) {
	var task models.Task
	query := r.db.Rebind(`SELECT * FROM tasks WHERE id = ? AND owner_id = ?`)
	err := r.db.GetContext(ctx, &task, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("task", id)
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to get task", err)
	}
	return &task, nil
}

func (r *SQLRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()
	query := r.db.Rebind(`UPDATE tasks SET column_id = ?, title = ?, description = ?, priority = ?,
		due_date = ?, position = ?, tags = ?, assignee_id = ?, project_id = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`)
	res, err := r.db.ExecContext(ctx, query,
		task.ColumnID, task.Title, task.Description, task.Priority,
		task.DueDate, task.Position, task.Tags, task.AssigneeID, task.ProjectID,
		task.UpdatedAt, task.ID, task.OwnerID)
	if err != nil {
		return apperrors.InternalError("failed to update task", err)
	}
	return checkAffected(res, "task", task.ID)
}

func (r *SQLRepository) DeleteTask(ctx context.Context, ownerID, id string) error {
	query := r.db.Rebind(`DELETE FROM tasks WHERE id = ? AND owner_id = ?`)
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return apperrors.InternalError("failed to delete task", err)
	}
	return checkAffected(res, "task", id)
}

func (r *SQLRepository) ListTasks(ctx context.Context, ownerID string) ([]*models.Task, error) {
	var tasks []*models.Task
	query := r.db.Rebind(`SELECT * FROM tasks WHERE owner_id = ?`)
	if err := r.db.SelectContext(ctx, &tasks, query, ownerID); err != nil {
		return nil, apperrors.InternalError("failed to list tasks", err)
	}
	return tasks, nil
}

func (r *SQLRepository) ListTasksByColumn(ctx context.Context, ownerID, columnID string) ([]*models.Task, error) {
	var tasks []*models.Task
	query := r.db.Rebind(`SELECT * FROM tasks WHERE owner_id = ? AND column_id = ?`)
	if err := r.db.SelectContext(ctx, &tasks, query, ownerID, columnID); err != nil {
		return nil, apperrors.InternalError("failed to list tasks by column", err)
	}
	return tasks, nil
}

func (r *SQLRepository) CountTasksByColumn(ctx context.Context, ownerID, columnID string) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM tasks WHERE owner_id = ? AND column_id = ?`)
	if err := r.db.GetContext(ctx, &count, query, ownerID, columnID); err != nil {
		return 0, apperrors.InternalError("failed to count tasks", err)
	}
	return count, nil
}

func (r *SQLRepository) MaxTaskPosition(ctx context.Context, ownerID, columnID string) (int, bool, error) {
	var max sql.NullInt64
	query := r.db.Rebind(`SELECT MAX(position) FROM tasks WHERE owner_id = ? AND column_id = ?`)
	if err := r.db.GetContext(ctx, &max, query, ownerID, columnID); err != nil {
		return 0, false, apperrors.InternalError("failed to get max task position", err)
	}
	if !max.Valid {
		return 0, false, nil
	}
	return int(max.Int64), true, nil
}

func (r *SQLRepository) MoveTasksToColumn(ctx context.Context, ownerID, fromColumnID, toColumnID string) (int, error) {
	query := r.db.Rebind(`UPDATE tasks SET column_id = ?, updated_at = ?
		WHERE owner_id = ? AND column_id = ?`)
	res, err := r.db.ExecContext(ctx, query, toColumnID, time.Now().UTC(), ownerID, fromColumnID)
	if err != nil {
		return 0, apperrors.InternalError("failed to move tasks between columns", err)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.InternalError("failed to read moved task count", err)
	}
	return int(moved), nil
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

func checkAffected(res sql.Result, resource, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.InternalError("failed to read affected rows", err)
	}
	if affected == 0 {
		return apperrors.NotFound(resource, id)
	}
	return nil
}
