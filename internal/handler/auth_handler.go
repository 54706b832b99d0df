package handler

import (
	"errors"
	"log"
	"strings"

	"go-store-api/internal/middleware"
	"go-store-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService service.AuthService
	cartService service.CartService
}

func NewAuthHandler(authService service.AuthService, cartService service.CartService) *AuthHandler {
	return &AuthHandler{authService: authService, cartService: cartService}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	resp, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return authError(c, err)
	}

	h.mergeGuestCart(c, resp.User.ID)
	return c.JSON(resp)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		return authError(c, err)
	}

	h.mergeGuestCart(c, resp.User.ID)
	return c.Status(201).JSON(resp)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.authService.ResetPassword(req.Email, req.OldPassword, req.NewPassword); err != nil {
		return authError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}

func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return c.Status(401).JSON(fiber.Map{"error": "Missing bearer token"})
	}

	resp, err := h.authService.ValidateToken(token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token"})
	}
	return c.JSON(resp)
}

// mergeGuestCart folds the anonymous session cart (if the client sent its
// key) into the user's cart. A merge failure never fails the login.
func (h *AuthHandler) mergeGuestCart(c *fiber.Ctx, userID uuid.UUID) {
	sessionKey := c.Get(middleware.SessionKeyHeader)
	if sessionKey == "" {
		return
	}
	if err := h.cartService.MergeOnLogin(sessionKey, userID); err != nil {
		log.Printf("cart merge failed for session %s: %v", sessionKey, err)
	}
}

func authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrWrongPassword):
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUserInactive):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEmailExists):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}
