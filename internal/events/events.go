// Package events publishes board change notifications. Deployments with a
// NATS URL configured fan events out over NATS; everything else gets an
// in-process bus with the same semantics.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Subjects for board events. Subscribers can use NATS wildcards, e.g.
// "board.task.*" for all task events.
const (
	SubjectColumnCreated      = "board.column.created"
	SubjectColumnUpdated      = "board.column.updated"
	SubjectColumnDeleted      = "board.column.deleted"
	SubjectColumnRepositioned = "board.column.repositioned"
	SubjectTaskCreated        = "board.task.created"
	SubjectTaskUpdated        = "board.task.updated"
	SubjectTaskDeleted        = "board.task.deleted"
	SubjectTaskRepositioned   = "board.task.repositioned"
	SubjectTaskMoved          = "board.task.moved"
)

// Event is a message describing a single board change. Data carries the
// entity ids and positions affected; OwnerID scopes the event to one board.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	OwnerID   string                 `json:"owner_id"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// NewEvent creates an event with a fresh UUID and current timestamp.
func NewEvent(eventType, ownerID string, data map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		OwnerID:   ownerID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventHandler is a function that handles an event.
type EventHandler func(ctx context.Context, event *Event) error

// Subscription represents an active subscription.
type Subscription interface {
	Unsubscribe() error
	IsValid() bool
}

// EventBus interface for event bus operations.
type EventBus interface {
	// Publish sends an event to a subject
	Publish(ctx context.Context, subject string, event *Event) error

	// Subscribe creates a subscription to a subject pattern
	Subscribe(subject string, handler EventHandler) (Subscription, error)

	// Close closes the connection
	Close()

	// IsConnected returns connection status
	IsConnected() bool
}
