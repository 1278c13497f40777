// Package api exposes the board service over HTTP using gin.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/board/service"
	apperrors "github.com/taskdeck/taskdeck/internal/common/errors"
	"github.com/taskdeck/taskdeck/internal/common/logger"
)

// Handler holds the dependencies for the board HTTP handlers.
type Handler struct {
	svc *service.Service
	log *logger.Logger
}

// NewHandler creates a new board API handler.
func NewHandler(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// respondError maps AppError codes onto HTTP status codes; anything else is
// a 500 with a generic body.
func respondError(c *gin.Context, err error) {
	status := apperrors.GetHTTPStatus(err)
	if appErr, ok := err.(*apperrors.AppError); ok {
		c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// GetBoard returns the full board snapshot: columns in order, each with its
// tasks in display order.
func (h *Handler) GetBoard(c *gin.Context) {
	board, err := h.svc.Board(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"board": board})
}

// CreateColumn creates a column, appended or inserted at a requested slot.
func (h *Handler) CreateColumn(c *gin.Context) {
	var req createColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	column, err := h.svc.CreateColumn(c.Request.Context(), ownerID(c), service.CreateColumnRequest{
		Title:    req.Title,
		Color:    req.Color,
		Position: req.Position,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, column)
}

// ListColumns returns the owner's columns ascending by position.
func (h *Handler) ListColumns(c *gin.Context) {
	columns, err := h.svc.ListColumns(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// GetColumn returns one column.
func (h *Handler) GetColumn(c *gin.Context) {
	column, err := h.svc.GetColumn(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

// UpdateColumn changes a column's title and/or color.
func (h *Handler) UpdateColumn(c *gin.Context) {
	var req updateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	column, err := h.svc.UpdateColumn(c.Request.Context(), ownerID(c), c.Param("id"), service.UpdateColumnRequest{
		Title: req.Title,
		Color: req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

// RepositionColumn sets a column's position.
func (h *Handler) RepositionColumn(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	column, err := h.svc.RepositionColumn(c.Request.Context(), ownerID(c), c.Param("id"), *req.Position)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

// DeleteColumn removes a column, migrating its tasks to the leftmost
// surviving sibling.
func (h *Handler) DeleteColumn(c *gin.Context) {
	if err := h.svc.DeleteColumn(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// InitializeDefaults creates the standard columns for a fresh board.
func (h *Handler) InitializeDefaults(c *gin.Context) {
	columns, err := h.svc.InitializeDefaults(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// ListColumnTasks returns a column's tasks in display order.
func (h *Handler) ListColumnTasks(c *gin.Context) {
	tasks, err := h.svc.ListTasksByColumn(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateTask creates a task in a column.
func (h *Handler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.svc.CreateTask(c.Request.Context(), ownerID(c), service.CreateTaskRequest{
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		AssigneeID:  req.AssigneeID,
		ProjectID:   req.ProjectID,
		Position:    req.Position,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetTask returns one task.
func (h *Handler) GetTask(c *gin.Context) {
	task, err := h.svc.GetTask(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask changes a task's descriptive fields.
func (h *Handler) UpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.svc.UpdateTask(c.Request.Context(), ownerID(c), c.Param("id"), service.UpdateTaskRequest{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		Tags:         req.Tags,
		AssigneeID:   req.AssigneeID,
		ProjectID:    req.ProjectID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// RepositionTask sets a task's position within its column.
func (h *Handler) RepositionTask(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.svc.RepositionTask(c.Request.Context(), ownerID(c), c.Param("id"), *req.Position)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// MoveTask transfers a task to another column, appending when no position is
// given.
func (h *Handler) MoveTask(c *gin.Context) {
	var req moveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.svc.MoveTask(c.Request.Context(), ownerID(c), c.Param("id"), req.ColumnID, req.Position)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task.
func (h *Handler) DeleteTask(c *gin.Context) {
	if err := h.svc.DeleteTask(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkMove transfers a batch of tasks to one column.
func (h *Handler) BulkMove(c *gin.Context) {
	var req bulkMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	moved, err := h.svc.BulkMove(c.Request.Context(), ownerID(c), req.TaskIDs, req.ColumnID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved})
}

// BulkDelete removes a batch of tasks.
func (h *Handler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	deleted, err := h.svc.BulkDelete(c.Request.Context(), ownerID(c), req.TaskIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// BulkSetPriority sets the priority on a batch of tasks.
func (h *Handler) BulkSetPriority(c *gin.Context) {
	var req bulkPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	updated, err := h.svc.BulkSetPriority(c.Request.Context(), ownerID(c), req.TaskIDs, req.Priority)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// SearchTasks returns tasks matching the q query parameter.
func (h *Handler) SearchTasks(c *gin.Context) {
	tasks, err := h.svc.SearchTasks(c.Request.Context(), ownerID(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// ListTasksByPriority returns the owner's tasks at one priority.
func (h *Handler) ListTasksByPriority(c *gin.Context) {
	tasks, err := h.svc.ListTasksByPriority(c.Request.Context(), ownerID(c), c.Param("priority"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// UpcomingTasks returns tasks due within ?days (default 7), overdue excluded.
func (h *Handler) UpcomingTasks(c *gin.Context) {
	days := queryDays(c, 7)
	tasks, err := h.svc.UpcomingTasks(c.Request.Context(), ownerID(c), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// OverdueTasks returns tasks whose due date has passed.
func (h *Handler) OverdueTasks(c *gin.Context) {
	tasks, err := h.svc.OverdueTasks(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// DueSoonTasks returns tasks due within ?days (default 3), overdue included.
func (h *Handler) DueSoonTasks(c *gin.Context) {
	days := queryDays(c, 3)
	tasks, err := h.svc.DueSoonTasks(c.Request.Context(), ownerID(c), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Statistics returns the board summary counts.
func (h *Handler) Statistics(c *gin.Context) {
	stats, err := h.svc.Statistics(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CountByPriority returns task counts keyed by priority.
func (h *Handler) CountByPriority(c *gin.Context) {
	counts, err := h.svc.CountByPriority(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

// CountByStatus returns task counts keyed by column title.
func (h *Handler) CountByStatus(c *gin.Context) {
	counts, err := h.svc.CountByStatus(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

func queryDays(c *gin.Context, fallback int) int {
	raw := c.Query("days")
	if raw == "" {
		return fallback
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return days
}
