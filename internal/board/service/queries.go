package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/board/models"
	apperrors "github.com/taskdeck/taskdeck/internal/common/errors"
)

// Read-only queries. None of these touch positions; they tolerate the gaps
// and duplicates the write path can leave behind.

// SearchTasks returns the owner's tasks whose title, description, or tags
// contain the query, case-insensitively, newest first.
func (s *Service) SearchTasks(ctx context.Context, ownerID, query string) ([]*models.Task, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.InvalidArgument("search query is required")
	}
	tasks, err := s.repo.ListTasks(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	var matched []*models.Task
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), needle) ||
			strings.Contains(strings.ToLower(task.Description), needle) ||
			strings.Contains(strings.ToLower(task.Tags), needle) {
			matched = append(matched, task)
		}
	}
	sortByCreatedDesc(matched)
	return matched, nil
}

// ListTasksByPriority returns the owner's tasks at the given priority,
// newest first.
func (s *Service) ListTasksByPriority(ctx context.Context, ownerID, priority string) ([]*models.Task, error) {
	parsed, err := models.ParsePriority(priority)
	if err != nil {
		return nil, apperrors.InvalidArgument(err.Error())
	}
	tasks, err := s.repo.ListTasks(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var matched []*models.Task
	for _, task := range tasks {
		if task.Priority == parsed {
			matched = append(matched, task)
		}
	}
	sortByCreatedDesc(matched)
	return matched, nil
}

// UpcomingTasks returns tasks due within the next days, excluding ones
// already overdue, soonest first.
func (s *Service) UpcomingTasks(ctx context.Context, ownerID string, days int) ([]*models.Task, error) {
	if days <= 0 {
		return nil, apperrors.InvalidArgument("days must be positive")
	}
	now := time.Now()
	horizon := now.AddDate(0, 0, days)
	return s.dueDateQuery(ctx, ownerID, func(due time.Time) bool {
		return due.After(now) && !due.After(horizon)
	})
}

// OverdueTasks returns tasks whose due date has passed, oldest first.
func (s *Service) OverdueTasks(ctx context.Context, ownerID string) ([]*models.Task, error) {
	now := time.Now()
	return s.dueDateQuery(ctx, ownerID, func(due time.Time) bool {
		return due.Before(now)
	})
}

// DueSoonTasks returns tasks due within the next days, including ones
// already overdue, soonest first.
func (s *Service) DueSoonTasks(ctx context.Context, ownerID string, days int) ([]*models.Task, error) {
	if days <= 0 {
		return nil, apperrors.InvalidArgument("days must be positive")
	}
	horizon := time.Now().AddDate(0, 0, days)
	return s.dueDateQuery(ctx, ownerID, func(due time.Time) bool {
		return !due.After(horizon)
	})
}

func (s *Service) dueDateQuery(ctx context.Context, ownerID string, include func(time.Time) bool) ([]*models.Task, error) {
	tasks, err := s.repo.ListTasks(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var matched []*models.Task
	for _, task := range tasks {
		if task.DueDate != nil && include(*task.DueDate) {
			matched = append(matched, task)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].DueDate.Before(*matched[j].DueDate)
	})
	return matched, nil
}

// Statistics summarizes the owner's board. Completed counts tasks sitting in
// a column titled "Done"; overdue counts tasks with a past due date.
func (s *Service) Statistics(ctx context.Context, ownerID string) (*TaskStatistics, error) {
	tasks, err := s.repo.ListTasks(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	doneColumns, err := s.columnsByTitle(ctx, ownerID, "Done")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &TaskStatistics{Total: len(tasks)}
	for _, task := range tasks {
		if doneColumns[task.ColumnID] {
			stats.Completed++
		}
		if task.DueDate != nil && task.DueDate.Before(now) {
			stats.Overdue++
		}
	}
	return stats, nil
}

// CountByPriority returns the number of the owner's tasks per priority.
// Every priority appears in the result, zero included.
func (s *Service) CountByPriority(ctx context.Context, ownerID string) (map[models.Priority]int, error) {
	tasks, err := s.repo.ListTasks(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	counts := map[models.Priority]int{
		models.PriorityLow:    0,
		models.PriorityMedium: 0,
		models.PriorityHigh:   0,
	}
	for _, task := range tasks {
		counts[task.Priority]++
	}
	return counts, nil
}

// CountByStatus returns the number of the owner's tasks per column title.
// Columns without tasks appear with a zero count.
func (s *Service) CountByStatus(ctx context.Context, ownerID string) (map[string]int, error) {
	columns, err := s.repo.ListColumns(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(columns))
	counts := make(map[string]int, len(columns))
	for _, column := range columns {
		titles[column.ID] = column.Title
		if _, ok := counts[column.Title]; !ok {
			counts[column.Title] = 0
		}
	}

	tasks, err := s.repo.ListTasks(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if title, ok := titles[task.ColumnID]; ok {
			counts[title]++
		}
	}
	return counts, nil
}

func (s *Service) columnsByTitle(ctx context.Context, ownerID, title string) (map[string]bool, error) {
	columns, err := s.repo.ListColumns(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool)
	for _, column := range columns {
		if column.Title == title {
			ids[column.ID] = true
		}
	}
	return ids, nil
}

func sortByCreatedDesc(tasks []*models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}
