package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/board/models"
	apperrors "github.com/taskdeck/taskdeck/internal/common/errors"
	"github.com/taskdeck/taskdeck/internal/db"
)

func newSQLiteRepo(t *testing.T) *SQLRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskdeck-test.db")
	conn, err := db.OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	repo, err := NewSQLRepository(conn)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLColumnRoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	column := &models.Column{OwnerID: "alice", Title: "To Do", Color: "#e3f2fd", Position: 2}
	if err := repo.CreateColumn(ctx, column); err != nil {
		t.Fatalf("CreateColumn failed: %v", err)
	}

	got, err := repo.GetColumn(ctx, "alice", column.ID)
	if err != nil {
		t.Fatalf("GetColumn failed: %v", err)
	}
	if got.Title != "To Do" || got.Color != "#e3f2fd" || got.Position != 2 {
		t.Errorf("unexpected column: %+v", got)
	}

	got.Title = "Backlog"
	got.Position = 0
	if err := repo.UpdateColumn(ctx, got); err != nil {
		t.Fatalf("UpdateColumn failed: %v", err)
	}
	again, _ := repo.GetColumn(ctx, "alice", column.ID)
	if again.Title != "Backlog" || again.Position != 0 {
		t.Errorf("update not persisted: %+v", again)
	}

	if _, err := repo.GetColumn(ctx, "bob", column.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found for foreign owner, got %v", err)
	}

	if err := repo.DeleteColumn(ctx, "alice", column.ID); err != nil {
		t.Fatalf("DeleteColumn failed: %v", err)
	}
	if err := repo.DeleteColumn(ctx, "alice", column.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestSQLColumnPositionOps(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	if _, found, err := repo.MaxColumnPosition(ctx, "alice"); err != nil || found {
		t.Fatalf("expected no max on empty board, found=%v err=%v", found, err)
	}

	ids := make([]string, 0, 3)
	for _, pos := range []int{0, 1, 2} {
		column := &models.Column{OwnerID: "alice", Title: "c", Position: pos}
		if err := repo.CreateColumn(ctx, column); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		ids = append(ids, column.ID)
	}

	max, found, err := repo.MaxColumnPosition(ctx, "alice")
	if err != nil || !found || max != 2 {
		t.Fatalf("MaxColumnPosition = %d, %v, %v; want 2", max, found, err)
	}

	if err := repo.IncrementColumnPositionsFrom(ctx, "alice", 1); err != nil {
		t.Fatalf("IncrementColumnPositionsFrom failed: %v", err)
	}
	want := []int{0, 2, 3}
	for i, id := range ids {
		got, err := repo.GetColumn(ctx, "alice", id)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Position != want[i] {
			t.Errorf("column %d: position = %d, want %d", i, got.Position, want[i])
		}
	}
}

func TestSQLTaskRoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	due := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	task := &models.Task{
		OwnerID:     "alice",
		ColumnID:    "col-1",
		Title:       "Write report",
		Description: "quarterly numbers",
		Priority:    models.PriorityHigh,
		DueDate:     &due,
		Position:    0,
		Tags:        "work,reports",
		AssigneeID:  "user-2",
		ProjectID:   "proj-9",
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	got, err := repo.GetTask(ctx, "alice", task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Title != "Write report" || got.Priority != models.PriorityHigh {
		t.Errorf("unexpected task: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due date not preserved: %v", got.DueDate)
	}
	if got.Tags != "work,reports" || got.AssigneeID != "user-2" || got.ProjectID != "proj-9" {
		t.Errorf("metadata not preserved: %+v", got)
	}

	got.ColumnID = "col-2"
	got.Priority = models.PriorityLow
	got.DueDate = nil
	if err := repo.UpdateTask(ctx, got); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	again, _ := repo.GetTask(ctx, "alice", task.ID)
	if again.ColumnID != "col-2" || again.Priority != models.PriorityLow {
		t.Errorf("update not persisted: %+v", again)
	}
	if again.DueDate != nil {
		t.Errorf("expected due date cleared, got %v", again.DueDate)
	}

	if err := repo.DeleteTask(ctx, "alice", task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, err := repo.GetTask(ctx, "alice", task.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestSQLTaskColumnQueries(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	for _, pos := range []int{0, 4, 2} {
		task := &models.Task{OwnerID: "alice", ColumnID: "col-a", Title: "t", Priority: models.PriorityLow, Position: pos}
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	stray := &models.Task{OwnerID: "bob", ColumnID: "col-a", Title: "t", Priority: models.PriorityLow, Position: 9}
	if err := repo.CreateTask(ctx, stray); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	count, err := repo.CountTasksByColumn(ctx, "alice", "col-a")
	if err != nil || count != 3 {
		t.Errorf("CountTasksByColumn = %d, %v; want 3", count, err)
	}

	max, found, err := repo.MaxTaskPosition(ctx, "alice", "col-a")
	if err != nil || !found || max != 4 {
		t.Errorf("MaxTaskPosition = %d, %v, %v; want 4", max, found, err)
	}

	moved, err := repo.MoveTasksToColumn(ctx, "alice", "col-a", "col-b")
	if err != nil || moved != 3 {
		t.Fatalf("MoveTasksToColumn = %d, %v; want 3", moved, err)
	}
	inTarget, _ := repo.ListTasksByColumn(ctx, "alice", "col-b")
	if len(inTarget) != 3 {
		t.Errorf("expected 3 tasks in target column, got %d", len(inTarget))
	}
	bobTask, _ := repo.GetTask(ctx, "bob", stray.ID)
	if bobTask.ColumnID != "col-a" {
		t.Errorf("foreign task moved to %s", bobTask.ColumnID)
	}
}
