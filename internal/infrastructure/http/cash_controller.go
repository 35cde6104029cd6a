package http

import (
	"net/http"

	"bazaarhub/internal/application/command"
	"bazaarhub/internal/application/query"
	"bazaarhub/pkg/middleware"
	"bazaarhub/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CashController handles HTTP requests for cash handovers and a seller
// manager's cash totals
type CashController struct {
	confirm   *command.ConfirmCashSubmissionHandler
	cashStats *query.GetCashStatsHandler
	logger    *zap.Logger
}

// NewCashController creates a new cash controller
func NewCashController(confirm *command.ConfirmCashSubmissionHandler, cashStats *query.GetCashStatsHandler, logger *zap.Logger) *CashController {
	return &CashController{confirm: confirm, cashStats: cashStats, logger: logger}
}

// ConfirmSubmission handles POST /orgs/{orgID}/events/{eventID}/cash-submissions/{submissionID}/confirm
func (c *CashController) ConfirmSubmission(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	cmd := command.ConfirmCashSubmissionCommand{
		OrganizationID: chi.URLParam(r, "orgID"),
		EventID:        chi.URLParam(r, "eventID"),
		SubmissionID:   chi.URLParam(r, "submissionID"),
		CallerID:       callerID,
	}

	resp, err := c.confirm.Handle(r.Context(), &cmd)
	if err != nil {
		middleware.HandleError(w, r, c.logger, err)
		return
	}

	response.SendSuccess(w, r, resp)
}

// GetCashStats handles GET /orgs/{orgID}/events/{eventID}/cash-stats
func (c *CashController) GetCashStats(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	q := query.GetCashStatsQuery{
		OrganizationID: chi.URLParam(r, "orgID"),
		EventID:        chi.URLParam(r, "eventID"),
		TargetUserID:   r.URL.Query().Get("user_id"),
		CallerID:       callerID,
	}

	view, err := c.cashStats.Handle(r.Context(), &q)
	if err != nil {
		middleware.HandleError(w, r, c.logger, err)
		return
	}

	response.SendSuccess(w, r, view)
}
