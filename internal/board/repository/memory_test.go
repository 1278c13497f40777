package repository

import (
	"context"
	"testing"

	"github.com/taskdeck/taskdeck/internal/board/models"
	apperrors "github.com/taskdeck/taskdeck/internal/common/errors"
)

func TestMemoryColumnCRUD(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	column := &models.Column{OwnerID: "alice", Title: "To Do", Color: "#e3f2fd", Position: 0}
	if err := repo.CreateColumn(ctx, column); err != nil {
		t.Fatalf("CreateColumn failed: %v", err)
	}
	if column.ID == "" {
		t.Fatal("expected generated column ID")
	}

	got, err := repo.GetColumn(ctx, "alice", column.ID)
	if err != nil {
		t.Fatalf("GetColumn failed: %v", err)
	}
	if got.Title != "To Do" || got.Position != 0 {
		t.Errorf("unexpected column: %+v", got)
	}

	got.Title = "Backlog"
	if err := repo.UpdateColumn(ctx, got); err != nil {
		t.Fatalf("UpdateColumn failed: %v", err)
	}
	again, _ := repo.GetColumn(ctx, "alice", column.ID)
	if again.Title != "Backlog" {
		t.Errorf("update not persisted: %+v", again)
	}
	if !again.UpdatedAt.After(again.CreatedAt) && !again.UpdatedAt.Equal(again.CreatedAt) {
		t.Error("updated_at went backwards")
	}

	if err := repo.DeleteColumn(ctx, "alice", column.ID); err != nil {
		t.Fatalf("DeleteColumn failed: %v", err)
	}
	if _, err := repo.GetColumn(ctx, "alice", column.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestMemoryOwnerScoping(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	column := &models.Column{OwnerID: "alice", Title: "To Do"}
	if err := repo.CreateColumn(ctx, column); err != nil {
		t.Fatalf("CreateColumn failed: %v", err)
	}

	// Another owner sees the column exactly as if it did not exist.
	if _, err := repo.GetColumn(ctx, "bob", column.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found for foreign owner, got %v", err)
	}
	if err := repo.DeleteColumn(ctx, "bob", column.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found on foreign delete, got %v", err)
	}
	foreign := *column
	foreign.OwnerID = "bob"
	foreign.Title = "Hijacked"
	if err := repo.UpdateColumn(ctx, &foreign); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found on foreign update, got %v", err)
	}

	columns, err := repo.ListColumns(ctx, "bob")
	if err != nil {
		t.Fatalf("ListColumns failed: %v", err)
	}
	if len(columns) != 0 {
		t.Errorf("expected empty list for bob, got %d", len(columns))
	}
}

func TestMemoryMaxColumnPosition(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, found, err := repo.MaxColumnPosition(ctx, "alice"); err != nil || found {
		t.Fatalf("expected no max for empty board, found=%v err=%v", found, err)
	}

	for i, pos := range []int{0, 4, 2} {
		column := &models.Column{OwnerID: "alice", Title: "c", Position: pos}
		if err := repo.CreateColumn(ctx, column); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}
	max, found, err := repo.MaxColumnPosition(ctx, "alice")
	if err != nil || !found || max != 4 {
		t.Errorf("MaxColumnPosition = %d, %v, %v; want 4, true, nil", max, found, err)
	}
}

func TestMemoryIncrementColumnPositionsFrom(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	ids := make(map[int]string)
	for _, pos := range []int{0, 1, 2} {
		column := &models.Column{OwnerID: "alice", Title: "c", Position: pos}
		if err := repo.CreateColumn(ctx, column); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		ids[pos] = column.ID
	}
	other := &models.Column{OwnerID: "bob", Title: "c", Position: 1}
	if err := repo.CreateColumn(ctx, other); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.IncrementColumnPositionsFrom(ctx, "alice", 1); err != nil {
		t.Fatalf("IncrementColumnPositionsFrom failed: %v", err)
	}

	want := map[int]int{0: 0, 1: 2, 2: 3}
	for orig, id := range ids {
		got, err := repo.GetColumn(ctx, "alice", id)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Position != want[orig] {
			t.Errorf("column at %d: position = %d, want %d", orig, got.Position, want[orig])
		}
	}
	untouched, _ := repo.GetColumn(ctx, "bob", other.ID)
	if untouched.Position != 1 {
		t.Errorf("foreign column shifted to %d", untouched.Position)
	}
}

func TestMemoryTaskCRUDAndColumnQueries(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	task := &models.Task{OwnerID: "alice", ColumnID: "col-1", Title: "Write report", Priority: models.PriorityHigh, Position: 0}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	second := &models.Task{OwnerID: "alice", ColumnID: "col-1", Title: "Review", Priority: models.PriorityLow, Position: 3}
	if err := repo.CreateTask(ctx, second); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	elsewhere := &models.Task{OwnerID: "alice", ColumnID: "col-2", Title: "Other", Priority: models.PriorityLow, Position: 0}
	if err := repo.CreateTask(ctx, elsewhere); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	tasks, err := repo.ListTasksByColumn(ctx, "alice", "col-1")
	if err != nil {
		t.Fatalf("ListTasksByColumn failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks in col-1, got %d", len(tasks))
	}

	count, err := repo.CountTasksByColumn(ctx, "alice", "col-1")
	if err != nil || count != 2 {
		t.Errorf("CountTasksByColumn = %d, %v; want 2", count, err)
	}

	max, found, err := repo.MaxTaskPosition(ctx, "alice", "col-1")
	if err != nil || !found || max != 3 {
		t.Errorf("MaxTaskPosition = %d, %v, %v; want 3, true, nil", max, found, err)
	}
	if _, found, _ := repo.MaxTaskPosition(ctx, "alice", "col-empty"); found {
		t.Error("expected no max for empty column")
	}

	if err := repo.DeleteTask(ctx, "alice", task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, err := repo.GetTask(ctx, "alice", task.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestMemoryMoveTasksToColumn(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	positions := []int{0, 2, 5}
	ids := make([]string, 0, len(positions))
	for _, pos := range positions {
		task := &models.Task{OwnerID: "alice", ColumnID: "col-a", Title: "t", Priority: models.PriorityLow, Position: pos}
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		ids = append(ids, task.ID)
	}

	moved, err := repo.MoveTasksToColumn(ctx, "alice", "col-a", "col-b")
	if err != nil {
		t.Fatalf("MoveTasksToColumn failed: %v", err)
	}
	if moved != 3 {
		t.Errorf("moved = %d, want 3", moved)
	}

	// Positions travel with the tasks untouched.
	for i, id := range ids {
		task, err := repo.GetTask(ctx, "alice", id)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if task.ColumnID != "col-b" {
			t.Errorf("task %d still in %s", i, task.ColumnID)
		}
		if task.Position != positions[i] {
			t.Errorf("task %d position = %d, want %d", i, task.Position, positions[i])
		}
	}

	remaining, _ := repo.ListTasksByColumn(ctx, "alice", "col-a")
	if len(remaining) != 0 {
		t.Errorf("expected source column empty, got %d tasks", len(remaining))
	}
}
