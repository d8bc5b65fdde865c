package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"freelancedesk/internal/model"
)

const maxUpcomingDays = 365

type DashboardHandler struct {
	stats    StatsStore
	projects ProjectStore
	payments PaymentStore
	logger   *zap.Logger
}

func NewDashboardHandler(stats StatsStore, projects ProjectStore, payments PaymentStore, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		stats:    stats,
		projects: projects,
		payments: payments,
		logger:   logger,
	}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.stats.DashboardStats(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "", "Failed to fetch dashboard stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) UpcomingProjects(c *gin.Context) {
	days, ok := upcomingDays(c, model.ProjectsDueSoonDays)
	if !ok {
		return
	}
	projects, err := h.projects.Upcoming(c.Request.Context(), days)
	if err != nil {
		fail(c, h.logger, err, "", "Failed to fetch upcoming projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *DashboardHandler) UpcomingPayments(c *gin.Context) {
	days, ok := upcomingDays(c, model.PaymentsDueSoonDays)
	if !ok {
		return
	}
	payments, err := h.payments.Upcoming(c.Request.Context(), days)
	if err != nil {
		fail(c, h.logger, err, "", "Failed to fetch upcoming payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// upcomingDays reads ?days=, falling back to def when absent.
func upcomingDays(c *gin.Context, def int) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return def, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > maxUpcomingDays {
		c.JSON(http.StatusBadRequest, gin.H{"message": "days must be an integer between 1 and 365"})
		return 0, false
	}
	return days, true
}
