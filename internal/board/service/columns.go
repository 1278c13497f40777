package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/board/models"
	"github.com/taskdeck/taskdeck/internal/board/position"
	apperrors "github.com/taskdeck/taskdeck/internal/common/errors"
	"github.com/taskdeck/taskdeck/internal/events"
)

// Default columns created for a fresh board.
var defaultColumns = []struct {
	Title string
	Color string
}{
	{"To Do", "#e3f2fd"},
	{"In Progress", "#fff3e0"},
	{"Done", "#e8f5e8"},
}

// CreateColumn adds a column to the owner's board. Without an explicit
// position the column is appended after the current maximum; with one, the
// desired slot is clamped to zero and every sibling at or after it is
// shifted right by one before the column is stored.
func (s *Service) CreateColumn(ctx context.Context, ownerID string, req CreateColumnRequest) (*models.Column, error) {
	if req.Title == "" {
		return nil, apperrors.InvalidArgument("column title is required")
	}

	unlock := s.locks.lock(ownerID)
	defer unlock()

	siblings, err := s.repo.ListColumns(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var pos int
	if req.Position == nil {
		pos = position.NextAppend(columnPositions(siblings))
	} else {
		plan := position.InsertAt(columnPositions(siblings), *req.Position)
		if len(plan.Shift) > 0 {
			if err := s.repo.IncrementColumnPositionsFrom(ctx, ownerID, plan.Position); err != nil {
				return nil, err
			}
		}
		pos = plan.Position
	}

	column := &models.Column{
		OwnerID:  ownerID,
		Title:    req.Title,
		Color:    req.Color,
		Position: pos,
	}
	if err := s.repo.CreateColumn(ctx, column); err != nil {
		return nil, err
	}

	s.log.Info("Column created",
		zap.String("owner_id", ownerID),
		zap.String("column_id", column.ID),
		zap.Int("position", column.Position))
	s.publish(ctx, events.SubjectColumnCreated, ownerID, map[string]interface{}{
		"column_id": column.ID,
		"position":  column.Position,
	})
	return column, nil
}

// GetColumn returns the owner's column or NotFound.
func (s *Service) GetColumn(ctx context.Context, ownerID, columnID string) (*models.Column, error) {
	return s.repo.GetColumn(ctx, ownerID, columnID)
}

// UpdateColumn changes the column's title and/or color. Position is not
// touched here; use RepositionColumn.
func (s *Service) UpdateColumn(ctx context.Context, ownerID, columnID string, req UpdateColumnRequest) (*models.Column, error) {
	unlock := s.locks.lock(ownerID)
	defer unlock()

	column, err := s.repo.GetColumn(ctx, ownerID, columnID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, apperrors.InvalidArgument("column title cannot be empty")
		}
		column.Title = *req.Title
	}
	if req.Color != nil {
		column.Color = *req.Color
	}
	if err := s.repo.UpdateColumn(ctx, column); err != nil {
		return nil, err
	}

	s.publish(ctx, events.SubjectColumnUpdated, ownerID, map[string]interface{}{
		"column_id": column.ID,
	})
	return column, nil
}

// RepositionColumn sets the column's position directly. Gaps and duplicate
// positions among siblings are tolerated. When compactOnReposition is
// enabled, the owner's columns are renumbered back to a gap-free, zero-based
// sequence afterwards, preserving display order.
func (s *Service) RepositionColumn(ctx context.Context, ownerID, columnID string, newPosition int) (*models.Column, error) {
	if newPosition < 0 {
		return nil, apperrors.InvalidArgument("position cannot be negative")
	}

	unlock := s.locks.lock(ownerID)
	defer unlock()

	column, err := s.repo.GetColumn(ctx, ownerID, columnID)
	if err != nil {
		return nil, err
	}
	column.Position = newPosition
	if err := s.repo.UpdateColumn(ctx, column); err != nil {
		return nil, err
	}

	if s.board.CompactOnReposition {
		if err := s.compactColumns(ctx, ownerID, columnID, column); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.SubjectColumnRepositioned, ownerID, map[string]interface{}{
		"column_id": column.ID,
		"position":  column.Position,
	})
	return column, nil
}

// compactColumns renumbers the owner's columns to 0..n-1 in display order.
// Caller holds the owner lock. The result for the repositioned column is
// written back into out so the caller returns the final slot.
func (s *Service) compactColumns(ctx context.Context, ownerID, repositionedID string, out *models.Column) error {
	columns, err := s.repo.ListColumns(ctx, ownerID)
	if err != nil {
		return err
	}
	sortColumns(columns)
	compacted := position.Compact(columnPositions(columns))
	for i, column := range columns {
		if column.Position == compacted[i] {
			continue
		}
		column.Position = compacted[i]
		if err := s.repo.UpdateColumn(ctx, column); err != nil {
			return err
		}
	}
	for i, column := range columns {
		if column.ID == repositionedID {
			out.Position = compacted[i]
			break
		}
	}
	return nil
}

// DeleteColumn removes a column. Tasks in it are migrated to the
// smallest-position surviving sibling with their positions untouched. The
// last column can only be deleted while empty; otherwise the tasks would be
// orphaned and the call fails with InvalidArgument. Deleting an absent or
// foreign column is a no-op.
func (s *Service) DeleteColumn(ctx context.Context, ownerID, columnID string) error {
	unlock := s.locks.lock(ownerID)
	defer unlock()

	column, err := s.repo.GetColumn(ctx, ownerID, columnID)
	if apperrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	siblings, err := s.repo.ListColumns(ctx, ownerID)
	if err != nil {
		return err
	}
	var target *models.Column
	for _, sibling := range siblings {
		if sibling.ID == column.ID {
			continue
		}
		if target == nil {
			target = sibling
			continue
		}
		if sibling.Position < target.Position ||
			(sibling.Position == target.Position && sibling.CreatedAt.Before(target.CreatedAt)) {
			target = sibling
		}
	}

	if target == nil {
		count, err := s.repo.CountTasksByColumn(ctx, ownerID, column.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.InvalidArgument(
				fmt.Sprintf("cannot delete the last column while it has %d tasks", count))
		}
	} else {
		moved, err := s.repo.MoveTasksToColumn(ctx, ownerID, column.ID, target.ID)
		if err != nil {
			return err
		}
		if moved > 0 {
			s.log.Info("Migrated tasks from deleted column",
				zap.String("owner_id", ownerID),
				zap.String("from_column_id", column.ID),
				zap.String("to_column_id", target.ID),
				zap.Int("count", moved))
		}
	}

	if err := s.repo.DeleteColumn(ctx, ownerID, column.ID); err != nil {
		return err
	}

	s.publish(ctx, events.SubjectColumnDeleted, ownerID, map[string]interface{}{
		"column_id": column.ID,
	})
	return nil
}

// ListColumns returns the owner's columns ascending by position.
func (s *Service) ListColumns(ctx context.Context, ownerID string) ([]*models.Column, error) {
	columns, err := s.repo.ListColumns(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	sortColumns(columns)
	return columns, nil
}

// InitializeDefaults creates the standard To Do / In Progress / Done columns
// for a fresh board. Owners that already have columns are left alone, so the
// call is idempotent. Returns the owner's columns either way.
func (s *Service) InitializeDefaults(ctx context.Context, ownerID string) ([]*models.Column, error) {
	unlock := s.locks.lock(ownerID)
	defer unlock()

	count, err := s.repo.CountColumns(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		for i, def := range defaultColumns {
			column := &models.Column{
				OwnerID:  ownerID,
				Title:    def.Title,
				Color:    def.Color,
				Position: i,
			}
			if err := s.repo.CreateColumn(ctx, column); err != nil {
				return nil, err
			}
		}
		s.log.Info("Initialized default columns", zap.String("owner_id", ownerID))
	}

	columns, err := s.repo.ListColumns(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	sortColumns(columns)
	return columns, nil
}
