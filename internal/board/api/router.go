package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the board API under /api/v1. Everything except the
// health check requires the X-Owner-ID header.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(RequireOwner())
	{
		v1.GET("/board", handler.GetBoard)

		columns := v1.Group("/columns")
		{
			columns.POST("", handler.CreateColumn)
			columns.GET("", handler.ListColumns)
			columns.POST("/defaults", handler.InitializeDefaults)
			columns.GET("/:id", handler.GetColumn)
			columns.PUT("/:id", handler.UpdateColumn)
			columns.DELETE("/:id", handler.DeleteColumn)
			columns.PUT("/:id/position", handler.RepositionColumn)
			columns.GET("/:id/tasks", handler.ListColumnTasks)
		}

		tasks := v1.Group("/tasks")
		{
			tasks.POST("", handler.CreateTask)
			tasks.GET("/search", handler.SearchTasks)
			tasks.GET("/overdue", handler.OverdueTasks)
			tasks.GET("/upcoming", handler.UpcomingTasks)
			tasks.GET("/due-soon", handler.DueSoonTasks)
			tasks.GET("/stats", handler.Statistics)
			tasks.GET("/stats/priority", handler.CountByPriority)
			tasks.GET("/stats/status", handler.CountByStatus)
			tasks.GET("/priority/:priority", handler.ListTasksByPriority)
			tasks.POST("/bulk/move", handler.BulkMove)
			tasks.POST("/bulk/delete", handler.BulkDelete)
			tasks.POST("/bulk/priority", handler.BulkSetPriority)
			tasks.GET("/:id", handler.GetTask)
			tasks.PUT("/:id", handler.UpdateTask)
			tasks.DELETE("/:id", handler.DeleteTask)
			tasks.PUT("/:id/position", handler.RepositionTask)
			tasks.POST("/:id/move", handler.MoveTask)
		}
	}
}
