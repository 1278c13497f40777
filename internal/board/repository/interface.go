package repository

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/board/models"
)

// Repository defines the interface for board storage operations.
//
// Every read and write is scoped by owner: an entity that exists under a
// different owner is reported exactly like an absent one, so the services can
// never leak existence across tenants. Listing order is unspecified; the
// services sort.
type Repository interface {
	// Column operations
	CreateColumn(ctx context.Context, column *models.Column) error
	GetColumn(ctx context.Context, ownerID, id string) (*models.Column, error)
	UpdateColumn(ctx context.Context, column *models.Column) error
	DeleteColumn(ctx context.Context, ownerID, id string) error
	ListColumns(ctx context.Context, ownerID string) ([]*models.Column, error)
	CountColumns(ctx context.Context, ownerID string) (int, error)
	MaxColumnPosition(ctx context.Context, ownerID string) (int, bool, error)
	// IncrementColumnPositionsFrom shifts every column of the owner at or
	// after the given position up by one, in a single atomic step. Shifted
	// columns get a fresh updated_at.
	IncrementColumnPositionsFrom(ctx context.Context, ownerID string, from int) error

	// Task operations
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, ownerID, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, ownerID, id string) error
	ListTasks(ctx context.Context, ownerID string) ([]*models.Task, error)
	ListTasksByColumn(ctx context.Context, ownerID, columnID string) ([]*models.Task, error)
	CountTasksByColumn(ctx context.Context, ownerID, columnID string) (int, error)
	MaxTaskPosition(ctx context.Context, ownerID, columnID string) (int, bool, error)
	// MoveTasksToColumn reassigns all tasks in one column to another in a
	// single atomic step, leaving each task's position untouched. Returns
	// the number of tasks moved.
	MoveTasksToColumn(ctx context.Context, ownerID, fromColumnID, toColumnID string) (int, error)

	// Close closes the repository (for database connections)
	Close() error
}
