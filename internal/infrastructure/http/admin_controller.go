package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"bazaarhub/internal/application/services"
	"bazaarhub/pkg/middleware"
	"bazaarhub/pkg/response"

	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping() error
}

// AdminController handles operational endpoints: health and the manual
// daily reset trigger. The reset trigger requires the operator token
// configured at startup.
type AdminController struct {
	reset      *services.DailyResetService
	store      Pinger
	adminToken string
	startedAt  time.Time
	logger     *zap.Logger
}

// NewAdminController creates a new admin controller
func NewAdminController(reset *services.DailyResetService, store Pinger, adminToken string, logger *zap.Logger) *AdminController {
	return &AdminController{
		reset:      reset,
		store:      store,
		adminToken: adminToken,
		startedAt:  time.Now(),
		logger:     logger,
	}
}

// Health handles GET /health
func (c *AdminController) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "up"
	if err := c.store.Ping(); err != nil {
		status = "degraded"
		dbStatus = "down"
	}

	response.SendSuccess(w, r, map[string]interface{}{
		"status":   status,
		"database": dbStatus,
		"uptime":   time.Since(c.startedAt).Round(time.Second).String(),
	})
}

// TriggerReset handles POST /admin/daily-reset
func (c *AdminController) TriggerReset(w http.ResponseWriter, r *http.Request) {
	if c.adminToken == "" {
		response.SendForbidden(w, r, "Manual reset is disabled")
		return
	}
	token := r.Header.Get("X-Admin-Token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(c.adminToken)) != 1 {
		response.SendForbidden(w, r, "Invalid admin token")
		return
	}

	summary, err := c.reset.RunOnce(r.Context())
	if err != nil {
		middleware.HandleError(w, r, c.logger, err)
		return
	}

	response.SendSuccess(w, r, summary)
}
