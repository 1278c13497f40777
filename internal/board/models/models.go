// Package models defines the board entities managed by the ordering services.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the task urgency level.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority converts a string into a Priority, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToUpper(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown priority: %q", s)
}

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Column is an ordered lane on an owner's board. For a fixed owner the
// positions of all columns form a gap-free, zero-based sequence; the ordering
// service maintains this at write time, the store does not enforce it.
type Column struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Title     string    `json:"title" db:"title"`
	Color     string    `json:"color" db:"color"` // hex color tag shown in the UI
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Task is a unit of work in exactly one column. Positions within a column are
// unique on insert but gaps (after deletes) and duplicates (after raw
// repositions) are tolerated; readers sort by position, then created_at.
type Task struct {
	ID          string     `json:"id" db:"id"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	ColumnID    string     `json:"column_id" db:"column_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Priority    Priority   `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	Position    int        `json:"position" db:"position"`
	Tags        string     `json:"tags" db:"tags"` // comma-separated
	AssigneeID  string     `json:"assignee_id,omitempty" db:"assignee_id"`
	ProjectID   string     `json:"project_id,omitempty" db:"project_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TagList splits the comma-separated Tags field into trimmed entries.
func (t *Task) TagList() []string {
	if t.Tags == "" {
		return nil
	}
	parts := strings.Split(t.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
