package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"freelancedesk/internal/model"
)

type PaymentHandler struct {
	store  PaymentStore
	logger *zap.Logger
}

func NewPaymentHandler(store PaymentStore, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{store: store, logger: logger}
}

// List supports ?status= (pending, received, all) and ?projectId=.
func (h *PaymentHandler) List(c *gin.Context) {
	filter := model.PaymentFilter{
		Status:    model.PaymentStatus(c.Query("status")),
		ProjectID: queryID(c, "projectId"),
	}
	payments, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, h.logger, err, "", "Failed to fetch payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, h.logger, "payment")
	if !ok {
		return
	}
	payment, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err, "Payment not found", "Failed to fetch payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var in model.PaymentInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.logger, err, "", "Failed to create payment")
		return
	}
	payment, err := h.store.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, h.logger, err, "", "Failed to create payment")
		return
	}
	h.logger.Info("Payment created",
		zap.Int64("id", payment.ID),
		zap.String("invoice_number", payment.InvoiceNumber),
	)
	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, h.logger, "payment")
	if !ok {
		return
	}
	var patch model.PaymentPatch
	if err := bindJSON(c, &patch); err != nil {
		fail(c, h.logger, err, "", "Failed to update payment")
		return
	}
	payment, err := h.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, h.logger, err, "Payment not found", "Failed to update payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, h.logger, "payment")
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err, "Payment not found", "Failed to delete payment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully"})
}
