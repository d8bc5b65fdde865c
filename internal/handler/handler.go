package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/model"
)

type ClientStore interface {
	List(ctx context.Context) ([]model.Client, error)
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	Create(ctx context.Context, in model.ClientInput) (*model.Client, error)
	Update(ctx context.Context, id int64, p model.ClientPatch) (*model.Client, error)
	Delete(ctx context.Context, id int64) error
}

type ProjectStore interface {
	List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error)
	Upcoming(ctx context.Context, days int) ([]model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	Create(ctx context.Context, in model.ProjectInput) (*model.Project, error)
	Update(ctx context.Context, id int64, p model.ProjectPatch) (*model.Project, error)
	Delete(ctx context.Context, id int64) error
}

type TaskStore interface {
	List(ctx context.Context, f model.TaskFilter) ([]model.Task, error)
	GetByID(ctx context.Context, id int64) (*model.Task, error)
	Create(ctx context.Context, in model.TaskInput) (*model.Task, error)
	Update(ctx context.Context, id int64, p model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id int64) error
}

type PaymentStore interface {
	List(ctx context.Context, f model.PaymentFilter) ([]model.Payment, error)
	Upcoming(ctx context.Context, days int) ([]model.Payment, error)
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	Create(ctx context.Context, in model.PaymentInput) (*model.Payment, error)
	Update(ctx context.Context, id int64, p model.PaymentPatch) (*model.Payment, error)
	Delete(ctx context.Context, id int64) error
}

type StatsStore interface {
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

// Stores bundles the persistence backend the API runs on.
type Stores struct {
	Clients  ClientStore
	Projects ProjectStore
	Tasks    TaskStore
	Payments PaymentStore
	Stats    StatsStore
}

// RegisterRoutes mounts the JSON API on r (normally the /api group).
func RegisterRoutes(r gin.IRouter, stores Stores, logger *zap.Logger) {
	registerTagNames()

	r.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "API is running"})
	})

	dashboard := NewDashboardHandler(stores.Stats, stores.Projects, stores.Payments, logger)
	r.GET("/dashboard/stats", dashboard.Stats)
	r.GET("/dashboard/upcoming-projects", dashboard.UpcomingProjects)
	r.GET("/dashboard/upcoming-payments", dashboard.UpcomingPayments)

	clients := NewClientHandler(stores.Clients, logger)
	r.GET("/clients", clients.List)
	r.GET("/clients/:id", clients.Get)
	r.POST("/clients", clients.Create)
	r.PUT("/clients/:id", clients.Update)
	r.DELETE("/clients/:id", clients.Delete)

	projects := NewProjectHandler(stores.Projects, logger)
	r.GET("/projects", projects.List)
	r.GET("/projects/:id", projects.Get)
	r.POST("/projects", projects.Create)
	r.PUT("/projects/:id", projects.Update)
	r.DELETE("/projects/:id", projects.Delete)

	tasks := NewTaskHandler(stores.Tasks, logger)
	r.GET("/tasks", tasks.List)
	r.GET("/tasks/:id", tasks.Get)
	r.POST("/tasks", tasks.Create)
	r.PUT("/tasks/:id", tasks.Update)
	r.DELETE("/tasks/:id", tasks.Delete)

	payments := NewPaymentHandler(stores.Payments, logger)
	r.GET("/payments", payments.List)
	r.GET("/payments/:id", payments.Get)
	r.POST("/payments", payments.Create)
	r.PUT("/payments/:id", payments.Update)
	r.DELETE("/payments/:id", payments.Delete)
}

// parseID reads the :id path parameter. On failure it has already answered
// 400 with "Invalid <entity> ID".
func parseID(c *gin.Context, logger *zap.Logger, entity string) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Warn("Invalid id in path",
			zap.String("entity", entity),
			zap.String("id", raw),
		)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + entity + " ID"})
		return 0, false
	}
	return id, true
}

// queryID parses an optional numeric filter. Values that do not parse are
// ignored, the same as an absent parameter.
func queryID(c *gin.Context, key string) int64 {
	id, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// queryBool is the tri-state completed filter: "true", "false" or unset.
func queryBool(c *gin.Context, key string) *bool {
	switch c.Query(key) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// fail writes the response for err. notFound is the 404 message, fallback
// the 500 message; only 500s are logged as errors.
func fail(c *gin.Context, logger *zap.Logger, err error, notFound, fallback string) {
	status := errs.StatusOf(err)

	var validationErr *errs.ValidationError
	var conflictErr *errs.ConflictError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(status, gin.H{"errors": validationErr.Errors})
	case errors.As(err, &conflictErr):
		logger.Info("Delete rejected", zap.String("entity", conflictErr.Entity))
		c.JSON(status, gin.H{"message": conflictErr.Message})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(status, gin.H{"message": notFound})
	case status == http.StatusInternalServerError:
		logger.Error(fallback,
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"message": fallback})
	default:
		c.JSON(status, gin.H{"message": err.Error()})
	}
}
