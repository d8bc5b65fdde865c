package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"freelancedesk/internal/model"
)

type TaskHandler struct {
	store  TaskStore
	logger *zap.Logger
}

func NewTaskHandler(store TaskStore, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{store: store, logger: logger}
}

// List supports ?completed=true|false, ?priority=, ?projectId= and ?dueToday=true.
func (h *TaskHandler) List(c *gin.Context) {
	filter := model.TaskFilter{
		Completed: queryBool(c, "completed"),
		Priority:  model.TaskPriority(c.Query("priority")),
		ProjectID: queryID(c, "projectId"),
		DueToday:  c.Query("dueToday") == "true",
	}
	tasks, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, h.logger, err, "", "Failed to fetch tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseID(c, h.logger, "task")
	if !ok {
		return
	}
	task, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err, "Task not found", "Failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Create(c *gin.Context) {
	var in model.TaskInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.logger, err, "", "Failed to create task")
		return
	}
	task, err := h.store.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, h.logger, err, "", "Failed to create task")
		return
	}
	h.logger.Info("Task created",
		zap.Int64("id", task.ID),
		zap.Int64("project_id", task.ProjectID),
	)
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, h.logger, "task")
	if !ok {
		return
	}
	var patch model.TaskPatch
	if err := bindJSON(c, &patch); err != nil {
		fail(c, h.logger, err, "", "Failed to update task")
		return
	}
	task, err := h.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, h.logger, err, "Task not found", "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, h.logger, "task")
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err, "Task not found", "Failed to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
