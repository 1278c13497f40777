package service

import "time"

// CreateColumnRequest carries the inputs for CreateColumn. A nil Position
// appends the column at the end; an explicit position inserts there and
// shifts later siblings right.
type CreateColumnRequest struct {
	Title    string
	Color    string
	Position *int
}

// UpdateColumnRequest carries the mutable column fields. Nil fields are
// left unchanged.
type UpdateColumnRequest struct {
	Title *string
	Color *string
}

// CreateTaskRequest carries the inputs for CreateTask. A nil Position
// appends to the column's end; an explicit non-negative position is stored
// verbatim without shifting siblings.
type CreateTaskRequest struct {
	ColumnID    string
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	Tags        string
	AssigneeID  string
	ProjectID   string
	Position    *int
}

// UpdateTaskRequest carries the mutable task fields. Nil fields are left
// unchanged; ClearDueDate removes an existing due date. Column and position
// changes go through MoveTask / RepositionTask, not here.
type UpdateTaskRequest struct {
	Title        *string
	Description  *string
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
	Tags         *string
	AssigneeID   *string
	ProjectID    *string
}

// TaskStatistics summarizes an owner's board. Completed counts tasks
// sitting in a column titled "Done".
type TaskStatistics struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}
