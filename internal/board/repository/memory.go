package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/board/models"
	apperrors "github.com/taskdeck/taskdeck/internal/common/errors"
)

// MemoryRepository is an in-memory implementation of Repository.
// Useful for tests and local development without a database.
type MemoryRepository struct {
	mu      sync.RWMutex
	columns map[string]*models.Column
	tasks   map[string]*models.Task
}

// NewMemoryRepository creates a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		columns: make(map[string]*models.Column),
		tasks:   make(map[string]*models.Task),
	}
}

func (r *MemoryRepository) CreateColumn(ctx context.Context, column *models.Column) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if column.ID == "" {
		column.ID = uuid.New().String()
	}
	now := time.Now()
	column.CreatedAt = now
	column.UpdatedAt = now

	stored := *column
	r.columns[column.ID] = &stored
	return nil
}

func (r *MemoryRepository) GetColumn(ctx context.Context, ownerID, id string) (*models.Column, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	column, ok := r.columns[id]
	if !ok || column.OwnerID != ownerID {
		return nil, apperrors.NotFound("column", id)
	}
	copied := *column
	return &copied, nil
}

func (r *MemoryRepository) UpdateColumn(ctx context.Context, column *models.Column) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.columns[column.ID]
	if !ok || existing.OwnerID != column.OwnerID {
		return apperrors.NotFound("column", column.ID)
	}
	column.CreatedAt = existing.CreatedAt
	column.UpdatedAt = time.Now()

	stored := *column
	r.columns[column.ID] = &stored
	return nil
}

func (r *MemoryRepository) DeleteColumn(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	column, ok := r.columns[id]
	if !ok || column.OwnerID != ownerID {
		return apperrors.NotFound("column", id)
	}
	delete(r.columns, id)
	return nil
}

func (r *MemoryRepository) ListColumns(ctx context.Context, ownerID string) ([]*models.Column, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Column
	for _, column := range r.columns {
		if column.OwnerID == ownerID {
			copied := *column
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *MemoryRepository) CountColumns(ctx context.Context, ownerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, column := range r.columns {
		if column.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) MaxColumnPosition(ctx context.Context, ownerID string) (int, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max, found := 0, false
	for _, column := range r.columns {
		if column.OwnerID != ownerID {
			continue
		}
		if !found || column.Position > max {
			max = column.Position
			found = true
		}
	}
	return max, found, nil
}

func (r *MemoryRepository) IncrementColumnPositionsFrom(ctx context.Context, ownerID string, from int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, column := range r.columns {
		if column.OwnerID == ownerID && column.Position >= from {
			column.Position++
			column.UpdatedAt = now
		}
	}
	return nil
}

func (r *MemoryRepository) CreateTask(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *MemoryRepository) GetTask(ctx context.Context, ownerID, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, apperrors.NotFound("task", id)
	}
	copied := *task
	return &copied, nil
}

func (r *MemoryRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return apperrors.NotFound("task", task.ID)
	}
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = time.Now()

	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *MemoryRepository) DeleteTask(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return apperrors.NotFound("task", id)
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryRepository) ListTasks(ctx context.Context, ownerID string) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Task
	for _, task := range r.tasks {
		if task.OwnerID == ownerID {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *MemoryRepository) ListTasksByColumn(ctx context.Context, ownerID, columnID string) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Task
	for _, task := range r.tasks {
		if task.OwnerID == ownerID && task.ColumnID == columnID {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *MemoryRepository) CountTasksByColumn(ctx context.Context, ownerID, columnID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, task := range r.tasks {
		if task.OwnerID == ownerID && task.ColumnID == columnID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) MaxTaskPosition(ctx context.Context, ownerID, columnID string) (int, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max, found := 0, false
	for _, task := range r.tasks {
		if task.OwnerID != ownerID || task.ColumnID != columnID {
			continue
		}
		if !found || task.Position > max {
			max = task.Position
			found = true
		}
	}
	return max, found, nil
}

func (r *MemoryRepository) MoveTasksToColumn(ctx context.Context, ownerID, fromColumnID, toColumnID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	moved := 0
	for _, task := range r.tasks {
		if task.OwnerID == ownerID && task.ColumnID == fromColumnID {
			task.ColumnID = toColumnID
			task.UpdatedAt = now
			moved++
		}
	}
	return moved, nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
