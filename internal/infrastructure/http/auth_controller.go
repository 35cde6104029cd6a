package http

import (
	"encoding/json"
	"net/http"

	"bazaarhub/internal/application/command"
	"bazaarhub/pkg/middleware"
	"bazaarhub/pkg/response"

	"go.uber.org/zap"
)

// AuthController handles HTTP requests for authentication
type AuthController struct {
	login  *command.LoginHandler
	logger *zap.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(login *command.LoginHandler, logger *zap.Logger) *AuthController {
	return &AuthController{login: login, logger: logger}
}

// Login handles POST /auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var cmd command.LoginCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		response.SendBadRequest(w, r, "Invalid request body")
		return
	}

	resp, err := c.login.Handle(r.Context(), &cmd)
	if err != nil {
		middleware.HandleError(w, r, c.logger, err)
		return
	}

	response.SendSuccess(w, r, resp)
}
