package http

import (
	"encoding/json"
	"net/http"

	"bazaarhub/internal/application/command"
	"bazaarhub/pkg/middleware"
	"bazaarhub/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TransactionController handles HTTP requests for transaction settlement
type TransactionController struct {
	confirm *command.ConfirmTransactionHandler
	cancel  *command.CancelTransactionHandler
	logger  *zap.Logger
}

// NewTransactionController creates a new transaction controller
func NewTransactionController(confirm *command.ConfirmTransactionHandler, cancel *command.CancelTransactionHandler, logger *zap.Logger) *TransactionController {
	return &TransactionController{confirm: confirm, cancel: cancel, logger: logger}
}

// Confirm handles POST /orgs/{orgID}/events/{eventID}/transactions/{transactionID}/confirm
func (c *TransactionController) Confirm(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	cmd := command.ConfirmTransactionCommand{
		OrganizationID: chi.URLParam(r, "orgID"),
		EventID:        chi.URLParam(r, "eventID"),
		TransactionID:  chi.URLParam(r, "transactionID"),
		CallerID:       callerID,
	}

	resp, err := c.confirm.Handle(r.Context(), &cmd)
	if err != nil {
		middleware.HandleError(w, r, c.logger, err)
		return
	}

	response.SendSuccess(w, r, resp)
}

// Cancel handles POST /orgs/{orgID}/events/{eventID}/transactions/{transactionID}/cancel
func (c *TransactionController) Cancel(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.SendBadRequest(w, r, "Invalid request body")
			return
		}
	}

	cmd := command.CancelTransactionCommand{
		OrganizationID: chi.URLParam(r, "orgID"),
		EventID:        chi.URLParam(r, "eventID"),
		TransactionID:  chi.URLParam(r, "transactionID"),
		Reason:         body.Reason,
		CallerID:       callerID,
	}

	resp, err := c.cancel.Handle(r.Context(), &cmd)
	if err != nil {
		middleware.HandleError(w, r, c.logger, err)
		return
	}

	response.SendSuccess(w, r, resp)
}
