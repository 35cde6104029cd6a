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

// PointCardController handles HTTP requests for point card operations
type PointCardController struct {
	reserve *command.ReservePointCardHandler
	balance *query.GetPointCardBalanceHandler
	logger  *zap.Logger
}

// NewPointCardController creates a new point card controller
func NewPointCardController(reserve *command.ReservePointCardHandler, balance *query.GetPointCardBalanceHandler, logger *zap.Logger) *PointCardController {
	return &PointCardController{reserve: reserve, balance: balance, logger: logger}
}

// Reserve handles POST /orgs/{orgID}/events/{eventID}/point-cards/{cardID}/reserve
func (c *PointCardController) Reserve(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	var body struct {
		MerchantID string `json:"merchant_id"`
		Amount     int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.SendBadRequest(w, r, "Invalid request body")
		return
	}

	cmd := command.ReservePointCardCommand{
		OrganizationID: chi.URLParam(r, "orgID"),
		EventID:        chi.URLParam(r, "eventID"),
		CardID:         chi.URLParam(r, "cardID"),
		MerchantID:     body.MerchantID,
		Amount:         body.Amount,
		CallerID:       callerID,
	}

	resp, err := c.reserve.Handle(r.Context(), &cmd)
	if err != nil {
		middleware.HandleError(w, r, c.logger, err)
		return
	}

	response.SendCreated(w, r, resp)
}

// GetBalance handles GET /orgs/{orgID}/events/{eventID}/point-cards/{cardID}/balance
func (c *PointCardController) GetBalance(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}

	q := query.GetPointCardBalanceQuery{
		OrganizationID: chi.URLParam(r, "orgID"),
		EventID:        chi.URLParam(r, "eventID"),
		CardID:         chi.URLParam(r, "cardID"),
		CallerID:       callerID,
	}

	view, err := c.balance.Handle(r.Context(), &q)
	if err != nil {
		middleware.HandleError(w, r, c.logger, err)
		return
	}

	response.SendSuccess(w, r, view)
}
