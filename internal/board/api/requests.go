package api

import "time"

type createColumnRequest struct {
	Title    string `json:"title" binding:"required"`
	Color    string `json:"color"`
	Position *int   `json:"position"`
}

type updateColumnRequest struct {
	Title *string `json:"title"`
	Color *string `json:"color"`
}

// positionRequest uses a pointer so position 0 still binds.
type positionRequest struct {
	Position *int `json:"position" binding:"required"`
}

type createTaskRequest struct {
	ColumnID    string     `json:"column_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Tags        string     `json:"tags"`
	AssigneeID  string     `json:"assignee_id"`
	ProjectID   string     `json:"project_id"`
	Position    *int       `json:"position"`
}

type updateTaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Priority     *string    `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	ClearDueDate bool       `json:"clear_due_date"`
	Tags         *string    `json:"tags"`
	AssigneeID   *string    `json:"assignee_id"`
	ProjectID    *string    `json:"project_id"`
}

type moveTaskRequest struct {
	ColumnID string `json:"column_id" binding:"required"`
	Position *int   `json:"position"`
}

type bulkMoveRequest struct {
	TaskIDs  []string `json:"task_ids" binding:"required"`
	ColumnID string   `json:"column_id" binding:"required"`
}

type bulkDeleteRequest struct {
	TaskIDs []string `json:"task_ids" binding:"required"`
}

type bulkPriorityRequest struct {
	TaskIDs  []string `json:"task_ids" binding:"required"`
	Priority string   `json:"priority" binding:"required"`
}
