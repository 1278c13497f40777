package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/board/models"
	"github.com/taskdeck/taskdeck/internal/board/position"
	apperrors "github.com/taskdeck/taskdeck/internal/common/errors"
	"github.com/taskdeck/taskdeck/internal/events"
)

// CreateTask adds a task to one of the owner's columns. Without an explicit
// position the task is appended after the column's maximum. An explicit
// non-negative position is stored verbatim; siblings are not shifted, so a
// duplicate position is possible and readers break the tie by created_at.
func (s *Service) CreateTask(ctx context.Context, ownerID string, req CreateTaskRequest) (*models.Task, error) {
	if req.Title == "" {
		return nil, apperrors.InvalidArgument("task title is required")
	}
	priority := models.PriorityMedium
	if req.Priority != "" {
		parsed, err := models.ParsePriority(req.Priority)
		if err != nil {
			return nil, apperrors.InvalidArgument(err.Error())
		}
		priority = parsed
	}
	if req.Position != nil && *req.Position < 0 {
		return nil, apperrors.InvalidArgument("position cannot be negative")
	}

	unlock := s.locks.lock(ownerID)
	defer unlock()

	if _, err := s.repo.GetColumn(ctx, ownerID, req.ColumnID); err != nil {
		return nil, err
	}

	var pos int
	if req.Position == nil {
		siblings, err := s.repo.ListTasksByColumn(ctx, ownerID, req.ColumnID)
		if err != nil {
			return nil, err
		}
		pos = position.NextAppend(taskPositions(siblings))
	} else {
		pos = *req.Position
	}

	task := &models.Task{
		OwnerID:     ownerID,
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
		Position:    pos,
		Tags:        req.Tags,
		AssigneeID:  req.AssigneeID,
		ProjectID:   req.ProjectID,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.log.Info("Task created",
		zap.String("owner_id", ownerID),
		zap.String("task_id", task.ID),
		zap.String("column_id", task.ColumnID),
		zap.Int("position", task.Position))
	s.publish(ctx, events.SubjectTaskCreated, ownerID, map[string]interface{}{
		"task_id":   task.ID,
		"column_id": task.ColumnID,
		"position":  task.Position,
	})
	return task, nil
}

// GetTask returns the owner's task or NotFound.
func (s *Service) GetTask(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	return s.repo.GetTask(ctx, ownerID, taskID)
}

// UpdateTask changes the task's descriptive fields. Position and column are
// untouched; those go through RepositionTask and MoveTask.
func (s *Service) UpdateTask(ctx context.Context, ownerID, taskID string, req UpdateTaskRequest) (*models.Task, error) {
	unlock := s.locks.lock(ownerID)
	defer unlock()

	task, err := s.repo.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, apperrors.InvalidArgument("task title cannot be empty")
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		priority, err := models.ParsePriority(*req.Priority)
		if err != nil {
			return nil, apperrors.InvalidArgument(err.Error())
		}
		task.Priority = priority
	}
	if req.ClearDueDate {
		task.DueDate = nil
	} else if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}
	if req.AssigneeID != nil {
		task.AssigneeID = *req.AssigneeID
	}
	if req.ProjectID != nil {
		task.ProjectID = *req.ProjectID
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.SubjectTaskUpdated, ownerID, map[string]interface{}{
		"task_id": task.ID,
	})
	return task, nil
}

// RepositionTask sets the task's position within its current column. The
// position is stored directly: no sibling is shifted and no renumbering
// happens, so gaps and duplicates may result.
func (s *Service) RepositionTask(ctx context.Context, ownerID, taskID string, newPosition int) (*models.Task, error) {
	if newPosition < 0 {
		return nil, apperrors.InvalidArgument("position cannot be negative")
	}

	unlock := s.locks.lock(ownerID)
	defer unlock()

	task, err := s.repo.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	task.Position = newPosition
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.SubjectTaskRepositioned, ownerID, map[string]interface{}{
		"task_id":   task.ID,
		"column_id": task.ColumnID,
		"position":  task.Position,
	})
	return task, nil
}

// MoveTask transfers a task to another of the owner's columns. A nil
// position appends at the target's end; an explicit non-negative position is
// stored verbatim. Moving within the same column is allowed and behaves the
// same way.
func (s *Service) MoveTask(ctx context.Context, ownerID, taskID, targetColumnID string, newPosition *int) (*models.Task, error) {
	if newPosition != nil && *newPosition < 0 {
		return nil, apperrors.InvalidArgument("position cannot be negative")
	}

	unlock := s.locks.lock(ownerID)
	defer unlock()

	task, err := s.repo.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetColumn(ctx, ownerID, targetColumnID); err != nil {
		return nil, err
	}

	var pos int
	if newPosition == nil {
		max, found, err := s.repo.MaxTaskPosition(ctx, ownerID, targetColumnID)
		if err != nil {
			return nil, err
		}
		if found {
			pos = max + 1
		}
	} else {
		pos = *newPosition
	}

	task.ColumnID = targetColumnID
	task.Position = pos
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.SubjectTaskMoved, ownerID, map[string]interface{}{
		"task_id":   task.ID,
		"column_id": task.ColumnID,
		"position":  task.Position,
	})
	return task, nil
}

// MoveTaskToColumnEnd appends the task at the end of the target column.
func (s *Service) MoveTaskToColumnEnd(ctx context.Context, ownerID, taskID, targetColumnID string) (*models.Task, error) {
	return s.MoveTask(ctx, ownerID, taskID, targetColumnID, nil)
}

// BulkMove transfers the listed tasks to the target column. The first moved
// task lands one past the target's pre-move maximum; each following task in
// input order gets the next position. IDs that are unknown or foreign are
// skipped and consume no positions, so the moved tasks always end up
// contiguous. Returns the moved tasks in their new order.
func (s *Service) BulkMove(ctx context.Context, ownerID string, taskIDs []string, targetColumnID string) ([]*models.Task, error) {
	if len(taskIDs) == 0 {
		return nil, apperrors.InvalidArgument("task id list is empty")
	}

	unlock := s.locks.lock(ownerID)
	defer unlock()

	if _, err := s.repo.GetColumn(ctx, ownerID, targetColumnID); err != nil {
		return nil, err
	}

	next := 0
	if max, found, err := s.repo.MaxTaskPosition(ctx, ownerID, targetColumnID); err != nil {
		return nil, err
	} else if found {
		next = max + 1
	}

	moved := make([]*models.Task, 0, len(taskIDs))
	for _, taskID := range taskIDs {
		task, err := s.repo.GetTask(ctx, ownerID, taskID)
		if apperrors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		task.ColumnID = targetColumnID
		task.Position = next
		if err := s.repo.UpdateTask(ctx, task); err != nil {
			return nil, err
		}
		next++
		moved = append(moved, task)
	}

	s.log.Info("Bulk moved tasks",
		zap.String("owner_id", ownerID),
		zap.String("column_id", targetColumnID),
		zap.Int("requested", len(taskIDs)),
		zap.Int("moved", len(moved)))
	s.publish(ctx, events.SubjectTaskMoved, ownerID, map[string]interface{}{
		"column_id": targetColumnID,
		"count":     len(moved),
	})
	return moved, nil
}

// BulkDelete removes the listed tasks, skipping unknown or foreign IDs.
// Positions of surviving tasks are untouched. Returns the number deleted.
func (s *Service) BulkDelete(ctx context.Context, ownerID string, taskIDs []string) (int, error) {
	if len(taskIDs) == 0 {
		return 0, apperrors.InvalidArgument("task id list is empty")
	}

	unlock := s.locks.lock(ownerID)
	defer unlock()

	deleted := 0
	for _, taskID := range taskIDs {
		err := s.repo.DeleteTask(ctx, ownerID, taskID)
		if apperrors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		deleted++
		s.publish(ctx, events.SubjectTaskDeleted, ownerID, map[string]interface{}{
			"task_id": taskID,
		})
	}
	return deleted, nil
}

// BulkSetPriority sets the priority on the listed tasks, skipping unknown or
// foreign IDs. Returns the updated tasks.
func (s *Service) BulkSetPriority(ctx context.Context, ownerID string, taskIDs []string, priority string) ([]*models.Task, error) {
	if len(taskIDs) == 0 {
		return nil, apperrors.InvalidArgument("task id list is empty")
	}
	parsed, err := models.ParsePriority(priority)
	if err != nil {
		return nil, apperrors.InvalidArgument(err.Error())
	}

	unlock := s.locks.lock(ownerID)
	defer unlock()

	updated := make([]*models.Task, 0, len(taskIDs))
	for _, taskID := range taskIDs {
		task, err := s.repo.GetTask(ctx, ownerID, taskID)
		if apperrors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		task.Priority = parsed
		if err := s.repo.UpdateTask(ctx, task); err != nil {
			return nil, err
		}
		updated = append(updated, task)
	}
	return updated, nil
}

// DeleteTask removes a task. No renumbering happens; the gap the task leaves
// behind persists. Deleting an absent or foreign task is a no-op.
func (s *Service) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	unlock := s.locks.lock(ownerID)
	defer unlock()

	err := s.repo.DeleteTask(ctx, ownerID, taskID)
	if apperrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	s.publish(ctx, events.SubjectTaskDeleted, ownerID, map[string]interface{}{
		"task_id": taskID,
	})
	return nil
}

// ListTasksByColumn returns the column's tasks in display order: ascending
// by position, ties by created_at. The column must belong to the owner.
func (s *Service) ListTasksByColumn(ctx context.Context, ownerID, columnID string) ([]*models.Task, error) {
	if _, err := s.repo.GetColumn(ctx, ownerID, columnID); err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListTasksByColumn(ctx, ownerID, columnID)
	if err != nil {
		return nil, err
	}
	sortTasks(tasks)
	return tasks, nil
}
