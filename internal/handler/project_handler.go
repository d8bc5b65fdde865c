package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"freelancedesk/internal/model"
)

type ProjectHandler struct {
	store  ProjectStore
	logger *zap.Logger
}

func NewProjectHandler(store ProjectStore, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{store: store, logger: logger}
}

// List supports ?status= (in_progress, completed, on_hold, all) and ?clientId=.
func (h *ProjectHandler) List(c *gin.Context) {
	filter := model.ProjectFilter{
		Status:   model.ProjectStatus(c.Query("status")),
		ClientID: queryID(c, "clientId"),
	}
	projects, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, h.logger, err, "", "Failed to fetch projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := parseID(c, h.logger, "project")
	if !ok {
		return
	}
	project, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err, "Project not found", "Failed to fetch project")
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var in model.ProjectInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.logger, err, "", "Failed to create project")
		return
	}
	project, err := h.store.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, h.logger, err, "", "Failed to create project")
		return
	}
	h.logger.Info("Project created",
		zap.Int64("id", project.ID),
		zap.Int64("client_id", project.ClientID),
	)
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c, h.logger, "project")
	if !ok {
		return
	}
	var patch model.ProjectPatch
	if err := bindJSON(c, &patch); err != nil {
		fail(c, h.logger, err, "", "Failed to update project")
		return
	}
	project, err := h.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, h.logger, err, "Project not found", "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, h.logger, "project")
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err, "Project not found", "Failed to delete project")
		return
	}
	h.logger.Info("Project deleted", zap.Int64("id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
