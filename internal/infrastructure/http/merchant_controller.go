package http

import (
	"encoding/json"
	"net/http"

	"bazaarhub/internal/application/command"
	"bazaarhub/internal/application/query"
	"bazaarhub/pkg/middleware"
	"bazaarhub/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MerchantController handles HTTP requests for merchant operations
type MerchantController struct {
	setStatus *command.SetMerchantStatusHandler
	dashboard *query.GetMerchantDashboardHandler
	logger    *zap.Logger
}

// NewMerchantController creates a new merchant controller
func NewMerchantController(setStatus *command.SetMerchantStatusHandler, dashboard *query.GetMerchantDashboardHandler, logger *zap.Logger) *MerchantController {
	return &MerchantController{setStatus: setStatus, dashboard: dashboard, logger: logger}
}

// SetStatus handles POST /orgs/{orgID}/events/{eventID}/merchants/{merchantID}/status
func (c *MerchantController) SetStatus(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.SendBadRequest(w, r, "Invalid request body")
		return
	}
	if body.IsActive == nil {
		response.SendBadRequest(w, r, "is_active is required")
		return
	}

	cmd := command.SetMerchantStatusCommand{
		OrganizationID: chi.URLParam(r, "orgID"),
		EventID:        chi.URLParam(r, "eventID"),
		MerchantID:     chi.URLParam(r, "merchantID"),
		IsActive:       *body.IsActive,
		CallerID:       callerID,
	}

	resp, err := c.setStatus.Handle(r.Context(), &cmd)
	if err != nil {
		middleware.HandleError(w, r, c.logger, err)
		return
	}

	response.SendSuccess(w, r, resp)
}

// GetDashboard handles GET /orgs/{orgID}/events/{eventID}/merchants/{merchantID}/dashboard
func (c *MerchantController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	q := query.GetMerchantDashboardQuery{
		OrganizationID: chi.URLParam(r, "orgID"),
		EventID:        chi.URLParam(r, "eventID"),
		MerchantID:     chi.URLParam(r, "merchantID"),
		CallerID:       callerID,
	}

	view, err := c.dashboard.Handle(r.Context(), &q)
	if err != nil {
		middleware.HandleError(w, r, c.logger, err)
		return
	}

	response.SendSuccess(w, r, view)
}
