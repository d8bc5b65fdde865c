package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"freelancedesk/internal/model"
)

type ClientHandler struct {
	store  ClientStore
	logger *zap.Logger
}

func NewClientHandler(store ClientStore, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{store: store, logger: logger}
}

func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.store.List(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "", "Failed to fetch clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c, h.logger, "client")
	if !ok {
		return
	}
	client, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err, "Client not found", "Failed to fetch client")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var in model.ClientInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.logger, err, "", "Failed to create client")
		return
	}
	client, err := h.store.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, h.logger, err, "", "Failed to create client")
		return
	}
	h.logger.Info("Client created", zap.Int64("id", client.ID))
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, h.logger, "client")
	if !ok {
		return
	}
	var patch model.ClientPatch
	if err := bindJSON(c, &patch); err != nil {
		fail(c, h.logger, err, "", "Failed to update client")
		return
	}
	client, err := h.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, h.logger, err, "Client not found", "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, h.logger, "client")
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err, "Client not found", "Failed to delete client")
		return
	}
	h.logger.Info("Client deleted", zap.Int64("id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
