package http

import (
	"net/http"
	"time"

	jwtutil "bazaarhub/pkg/jwt"
	"bazaarhub/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controllers bundles every controller the router mounts
type Controllers struct {
	Auth        *AuthController
	Cash        *CashController
	Transaction *TransactionController
	Merchant    *MerchantController
	PointCard   *PointCardController
	Admin       *AdminController
}

// NewRouter builds the HTTP routing tree. Everything under /orgs
// requires a valid bearer token; login and health stay public.
func NewRouter(c Controllers, jwtManager *jwtutil.JWTManager, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.TimeoutMiddleware(30 * time.Second))

	r.Get("/health", c.Admin.Health)
	r.Post("/auth/login", c.Auth.Login)
	r.Post("/admin/daily-reset", c.Admin.TriggerReset)

	r.Route("/orgs/{orgID}/events/{eventID}", func(r chi.Router) {
		r.Use(middleware.JWTAuthMiddleware(jwtManager))

		r.Post("/cash-submissions/{submissionID}/confirm", c.Cash.ConfirmSubmission)
		r.Get("/cash-stats", c.Cash.GetCashStats)

		r.Post("/transactions/{transactionID}/confirm", c.Transaction.Confirm)
		r.Post("/transactions/{transactionID}/cancel", c.Transaction.Cancel)

		r.Post("/merchants/{merchantID}/status", c.Merchant.SetStatus)
		r.Get("/merchants/{merchantID}/dashboard", c.Merchant.GetDashboard)

		r.Post("/point-cards/{cardID}/reserve", c.PointCard.Reserve)
		r.Get("/point-cards/{cardID}/balance", c.PointCard.GetBalance)
	})

	return r
}
