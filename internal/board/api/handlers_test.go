package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/board/models"
	"github.com/taskdeck/taskdeck/internal/board/repository"
	"github.com/taskdeck/taskdeck/internal/board/service"
	"github.com/taskdeck/taskdeck/internal/common/config"
	"github.com/taskdeck/taskdeck/internal/common/logger"
	"github.com/taskdeck/taskdeck/internal/events"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Default()
	bus := events.NewMemoryEventBus(log)
	t.Cleanup(bus.Close)

	svc := service.NewService(repository.NewMemoryRepository(), bus, log, config.BoardConfig{})
	router := gin.New()
	SetupRoutes(router, NewHandler(svc, log))
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, owner string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req.Header.Set("X-Owner-ID", owner)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createColumnHTTP(t *testing.T, router *gin.Engine, owner, title string) models.Column {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/api/v1/columns", owner, gin.H{"title": title})
	if w.Code != http.StatusCreated {
		t.Fatalf("create column: status %d, body %s", w.Code, w.Body.String())
	}
	var column models.Column
	if err := json.Unmarshal(w.Body.Bytes(), &column); err != nil {
		t.Fatalf("failed to decode column: %v", err)
	}
	return column
}

func createTaskHTTP(t *testing.T, router *gin.Engine, owner, columnID, title string) models.Task {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/api/v1/tasks", owner, gin.H{
		"column_id": columnID,
		"title":     title,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: status %d, body %s", w.Code, w.Body.String())
	}
	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("failed to decode task: %v", err)
	}
	return task
}

func TestOwnerHeaderRequired(t *testing.T) {
	router := setupTestRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/v1/columns", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	w := doRequest(t, router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestColumnLifecycleHTTP(t *testing.T) {
	router := setupTestRouter(t)

	column := createColumnHTTP(t, router, "alice", "To Do")
	if column.Position != 0 || column.Title != "To Do" {
		t.Errorf("unexpected column: %+v", column)
	}

	w := doRequest(t, router, http.MethodPut, "/api/v1/columns/"+column.ID, "alice", gin.H{"title": "Backlog"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodPut, "/api/v1/columns/"+column.ID+"/position", "alice", gin.H{"position": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("reposition: status %d, body %s", w.Code, w.Body.String())
	}
	var repositioned models.Column
	json.Unmarshal(w.Body.Bytes(), &repositioned)
	if repositioned.Position != 5 {
		t.Errorf("position = %d, want 5", repositioned.Position)
	}

	w = doRequest(t, router, http.MethodDelete, "/api/v1/columns/"+column.ID, "alice", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}
	w = doRequest(t, router, http.MethodGet, "/api/v1/columns/"+column.ID, "alice", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", w.Code)
	}
}

func TestColumnNotFoundMapsTo404(t *testing.T) {
	router := setupTestRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/v1/columns/nope", "alice", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestForeignOwnerGets404(t *testing.T) {
	router := setupTestRouter(t)
	column := createColumnHTTP(t, router, "alice", "A")

	w := doRequest(t, router, http.MethodGet, "/api/v1/columns/"+column.ID, "bob", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 (existence must not leak)", w.Code)
	}
}

func TestTaskLifecycleHTTP(t *testing.T) {
	router := setupTestRouter(t)
	column := createColumnHTTP(t, router, "alice", "To Do")

	task := createTaskHTTP(t, router, "alice", column.ID, "write tests")
	if task.Position != 0 || task.Priority != models.PriorityMedium {
		t.Errorf("unexpected task: %+v", task)
	}

	w := doRequest(t, router, http.MethodPut, "/api/v1/tasks/"+task.ID, "alice", gin.H{"priority": "high"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodPut, "/api/v1/tasks/"+task.ID+"/position", "alice", gin.H{"position": 3})
	if w.Code != http.StatusOK {
		t.Fatalf("reposition: status %d, body %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodDelete, "/api/v1/tasks/"+task.ID, "alice", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}
}

func TestNegativePositionMapsTo400(t *testing.T) {
	router := setupTestRouter(t)
	column := createColumnHTTP(t, router, "alice", "To Do")
	task := createTaskHTTP(t, router, "alice", column.ID, "t")

	w := doRequest(t, router, http.MethodPut, "/api/v1/tasks/"+task.ID+"/position", "alice", gin.H{"position": -1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestMoveTaskHTTP(t *testing.T) {
	router := setupTestRouter(t)
	src := createColumnHTTP(t, router, "alice", "Src")
	dst := createColumnHTTP(t, router, "alice", "Dst")
	task := createTaskHTTP(t, router, "alice", src.ID, "mover")

	w := doRequest(t, router, http.MethodPost, "/api/v1/tasks/"+task.ID+"/move", "alice", gin.H{"column_id": dst.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("move: status %d, body %s", w.Code, w.Body.String())
	}
	var moved models.Task
	json.Unmarshal(w.Body.Bytes(), &moved)
	if moved.ColumnID != dst.ID || moved.Position != 0 {
		t.Errorf("unexpected moved task: %+v", moved)
	}
}

func TestBulkMoveHTTP(t *testing.T) {
	router := setupTestRouter(t)
	src := createColumnHTTP(t, router, "alice", "Src")
	dst := createColumnHTTP(t, router, "alice", "Dst")
	a := createTaskHTTP(t, router, "alice", src.ID, "a")
	b := createTaskHTTP(t, router, "alice", src.ID, "b")

	w := doRequest(t, router, http.MethodPost, "/api/v1/tasks/bulk/move", "alice", gin.H{
		"task_ids":  []string{a.ID, "ghost", b.ID},
		"column_id": dst.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("bulk move: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Moved []models.Task `json:"moved"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Moved) != 2 || resp.Moved[0].Position != 0 || resp.Moved[1].Position != 1 {
		t.Errorf("unexpected bulk result: %+v", resp.Moved)
	}

	// Empty list is a 400.
	w = doRequest(t, router, http.MethodPost, "/api/v1/tasks/bulk/move", "alice", gin.H{
		"task_ids":  []string{},
		"column_id": dst.ID,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty bulk move: status %d, want 400", w.Code)
	}
}

func TestBoardSnapshotHTTP(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/columns/defaults", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("defaults: status %d, body %s", w.Code, w.Body.String())
	}
	var defaults struct {
		Columns []models.Column `json:"columns"`
	}
	json.Unmarshal(w.Body.Bytes(), &defaults)
	if len(defaults.Columns) != 3 {
		t.Fatalf("expected 3 default columns, got %d", len(defaults.Columns))
	}

	createTaskHTTP(t, router, "alice", defaults.Columns[0].ID, "first")

	w = doRequest(t, router, http.MethodGet, "/api/v1/board", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("board: status %d", w.Code)
	}
	var board struct {
		Board []struct {
			Column models.Column `json:"column"`
			Tasks  []models.Task `json:"tasks"`
		} `json:"board"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &board); err != nil {
		t.Fatalf("failed to decode board: %v", err)
	}
	if len(board.Board) != 3 || len(board.Board[0].Tasks) != 1 {
		t.Errorf("unexpected board shape: %d columns", len(board.Board))
	}
}

func TestSearchAndStatsHTTP(t *testing.T) {
	router := setupTestRouter(t)
	column := createColumnHTTP(t, router, "alice", "To Do")
	createTaskHTTP(t, router, "alice", column.ID, "find me")
	createTaskHTTP(t, router, "alice", column.ID, "other")

	w := doRequest(t, router, http.MethodGet, "/api/v1/tasks/search?q=find", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search: status %d, body %s", w.Code, w.Body.String())
	}
	var search struct {
		Tasks []models.Task `json:"tasks"`
	}
	json.Unmarshal(w.Body.Bytes(), &search)
	if len(search.Tasks) != 1 || search.Tasks[0].Title != "find me" {
		t.Errorf("unexpected search result: %+v", search.Tasks)
	}

	// Blank query is a 400.
	w = doRequest(t, router, http.MethodGet, "/api/v1/tasks/search", "alice", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank search: status %d, want 400", w.Code)
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/tasks/stats", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: status %d", w.Code)
	}
	var stats service.TaskStatistics
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.Total != 2 {
		t.Errorf("stats total = %d, want 2", stats.Total)
	}
}

func TestListColumnTasksHTTP(t *testing.T) {
	router := setupTestRouter(t)
	column := createColumnHTTP(t, router, "alice", "To Do")
	for i := 0; i < 3; i++ {
		createTaskHTTP(t, router, "alice", column.ID, fmt.Sprintf("task-%d", i))
	}

	w := doRequest(t, router, http.MethodGet, "/api/v1/columns/"+column.ID+"/tasks", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d", w.Code)
	}
	var resp struct {
		Tasks []models.Task `json:"tasks"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(resp.Tasks))
	}
	for i, task := range resp.Tasks {
		if task.Position != i {
			t.Errorf("task %d position = %d", i, task.Position)
		}
	}
}
