// Package service implements the board ordering engine: column and task
// operations that keep positions consistent per owner.
package service

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/board/models"
	"github.com/taskdeck/taskdeck/internal/board/repository"
	"github.com/taskdeck/taskdeck/internal/common/config"
	"github.com/taskdeck/taskdeck/internal/common/logger"
	"github.com/taskdeck/taskdeck/internal/events"
)

// Service is the caller-facing facade over column and task ordering.
//
// All mutations for one owner serialize on that owner's mutex, held across
// the whole read-modify-write sequence. Different owners never contend.
// Reads take no lock; the repository is internally consistent.
type Service struct {
	repo  repository.Repository
	bus   events.EventBus
	log   *logger.Logger
	board config.BoardConfig
	locks keyedMutex
}

// NewService creates the board service.
func NewService(repo repository.Repository, bus events.EventBus, log *logger.Logger, board config.BoardConfig) *Service {
	return &Service{
		repo:  repo,
		bus:   bus,
		log:   log,
		board: board,
	}
}

// keyedMutex hands out one mutex per key. Entries are never evicted; the
// key space is the set of active owners, which is small and bounded.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// publish emits an event without failing the surrounding mutation. The
// mutation has already been persisted; a delivery failure is only logged.
func (s *Service) publish(ctx context.Context, subject, ownerID string, data map[string]interface{}) {
	if s.bus == nil {
		return
	}
	event := events.NewEvent(subject, ownerID, data)
	if err := s.bus.Publish(ctx, subject, event); err != nil {
		s.log.Warn("Failed to publish board event",
			zap.String("subject", subject),
			zap.String("owner_id", ownerID),
			zap.Error(err))
	}
}

// ColumnWithTasks pairs a column with its tasks in display order.
type ColumnWithTasks struct {
	Column *models.Column `json:"column"`
	Tasks  []*models.Task `json:"tasks"`
}

// Board returns a point-in-time snapshot of the owner's board: columns
// ascending by position, each with its tasks in display order.
func (s *Service) Board(ctx context.Context, ownerID string) ([]*ColumnWithTasks, error) {
	columns, err := s.ListColumns(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	snapshot := make([]*ColumnWithTasks, 0, len(columns))
	for _, column := range columns {
		tasks, err := s.repo.ListTasksByColumn(ctx, ownerID, column.ID)
		if err != nil {
			return nil, err
		}
		sortTasks(tasks)
		snapshot = append(snapshot, &ColumnWithTasks{Column: column, Tasks: tasks})
	}
	return snapshot, nil
}

// sortColumns orders columns ascending by position, ties by created_at then
// id so the order is deterministic.
func sortColumns(columns []*models.Column) {
	sort.SliceStable(columns, func(i, j int) bool {
		if columns[i].Position != columns[j].Position {
			return columns[i].Position < columns[j].Position
		}
		if !columns[i].CreatedAt.Equal(columns[j].CreatedAt) {
			return columns[i].CreatedAt.Before(columns[j].CreatedAt)
		}
		return columns[i].ID < columns[j].ID
	})
}

// sortTasks orders tasks ascending by position, ties by created_at then id.
// Stable under the gaps and duplicate positions the engine tolerates.
func sortTasks(tasks []*models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Position != tasks[j].Position {
			return tasks[i].Position < tasks[j].Position
		}
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

func taskPositions(tasks []*models.Task) []int {
	positions := make([]int, 0, len(tasks))
	for _, t := range tasks {
		positions = append(positions, t.Position)
	}
	return positions
}

func columnPositions(columns []*models.Column) []int {
	positions := make([]int, 0, len(columns))
	for _, c := range columns {
		positions = append(positions, c.Position)
	}
	return positions
}
