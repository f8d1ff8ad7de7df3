package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-service/internal/api/dto"
	"github.com/spec-kit/catalog-service/internal/auth"
	"github.com/spec-kit/catalog-service/internal/service"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

const loginFailedMessage = "Login failed"

// LoginHandler exposes login, logout and registration.
type LoginHandler struct {
	auth    *service.AuthService
	session *auth.SessionCookie
}

// NewLoginHandler constructs handler.
func NewLoginHandler(authService *service.AuthService, session *auth.SessionCookie) *LoginHandler {
	return &LoginHandler{auth: authService, session: session}
}

// Login handles POST /login/auth.
func (h *LoginHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(dto.MessageResponse{Message: "invalid payload"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(dto.MessageResponse{Message: loginFailedMessage})
	}

	res, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrLoginFailed):
		return c.Status(http.StatusBadRequest).JSON(dto.MessageResponse{Message: loginFailedMessage})
	case errors.Is(err, auth.ErrLoginThrottled):
		return apperrors.NewTooManyRequests("too many failed login attempts; try again later")
	default:
		return apperrors.MapError(err)
	}

	h.session.Attach(c, res.Token, res.ExpiresAt)
	return c.JSON(dto.LoginResponse{
		User:      res.User.Email,
		Role:      res.User.Role,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
}

// Logout handles GET /login/logout. It clears the cookie; the token stays valid until expiry.
func (h *LoginHandler) Logout(c *fiber.Ctx) error {
	var principal *auth.Principal
	if result := h.auth.TokenManager().Validate(h.session.Token(c)); result.Valid() {
		principal = result.Principal
	}
	h.auth.Logout(c.UserContext(), principal)

	h.session.Clear(c)
	return c.JSON(dto.MessageResponse{Message: "Logged out"})
}

// Register handles POST /login/register. The new user must log in separately.
func (h *LoginHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
