package command

import (
	"context"
	"strings"

	"bazaarhub/internal/domain/repository"
	apperrors "bazaarhub/pkg/errors"
	"bazaarhub/pkg/jwt"
)

// LoginHandler exchanges email and password credentials for a signed
// token. Wrong email and wrong password are indistinguishable to the
// caller.
type LoginHandler struct {
	users      repository.UserRepository
	jwtManager *jwt.JWTManager
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(users repository.UserRepository, jwtManager *jwt.JWTManager) *LoginHandler {
	return &LoginHandler{users: users, jwtManager: jwtManager}
}

// Handle processes the login command
func (h *LoginHandler) Handle(ctx context.Context, cmd *LoginCommand) (*LoginResponse, error) {
	if cmd == nil {
		return nil, apperrors.NewInvalidArgument("command cannot be nil")
	}
	email := strings.TrimSpace(strings.ToLower(cmd.Email))
	if email == "" {
		return nil, apperrors.NewInvalidArgument("email is required")
	}
	if cmd.Password == "" {
		return nil, apperrors.NewInvalidArgument("password is required")
	}

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			return nil, apperrors.NewUnauthenticated("invalid email or password")
		}
		return nil, err
	}
	if err := user.VerifyPassword(cmd.Password); err != nil {
		return nil, apperrors.NewUnauthenticated("invalid email or password")
	}

	token, err := h.jwtManager.GenerateToken(user.ID(), user.Email(), user.Name())
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate token")
	}

	return &LoginResponse{
		Token:  token,
		UserID: user.ID(),
		Name:   user.Name(),
		Email:  user.Email(),
	}, nil
}
