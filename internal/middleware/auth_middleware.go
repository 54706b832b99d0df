package middleware

import (
	"strings"

	"go-store-api/internal/repository"
	"go-store-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionKeyHeader carries the anonymous cart owner key. The server mints
// one on first use and echoes it back; clients persist it like a cookie.
const SessionKeyHeader = "X-Session-Key"

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := claimsFromHeader(c, userRepo)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}

		setUserLocals(c, claims)
		return c.Next()
	}
}

// OptionalAuth resolves the caller to a user when a valid token is present
// and falls through as a guest otherwise. Storefront routes (catalog, cart,
// checkout) use this so guests and customers share one surface.
func OptionalAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") != "" {
			if claims, err := claimsFromHeader(c, userRepo); err == nil {
				setUserLocals(c, claims)
			}
		}
		return c.Next()
	}
}

func claimsFromHeader(c *fiber.Ctx, userRepo repository.UserRepository) (*jwt.Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, jwt.ErrMissingToken
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, jwt.ErrInvalidToken
	}

	claims, err := jwt.ValidateToken(parts[1])
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}

	// Check strict session against DB
	user, err := userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, jwt.ErrInvalidToken
	}

	return claims, nil
}

func setUserLocals(c *fiber.Ctx, claims *jwt.Claims) {
	c.Locals("user_id", claims.UserID.String())
	c.Locals("user_email", claims.Email)
	c.Locals("user_name", claims.Name)
	c.Locals("user_privileges", claims.Privileges)
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get privileges from context (set by RequireAuth)
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// UserID returns the authenticated user's id, or nil for guests.
func UserID(c *fiber.Ctx) *uuid.UUID {
	raw, ok := c.Locals("user_id").(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// CartOwner resolves the opaque owner key for cart operations: the user id
// when authenticated, otherwise a session key minted on demand and echoed in
// the response header.
func CartOwner(c *fiber.Ctx) repository.CartOwner {
	if id := UserID(c); id != nil {
		return repository.UserOwner(*id)
	}
	key := c.Get(SessionKeyHeader)
	if key == "" {
		key = uuid.New().String()
	}
	c.Set(SessionKeyHeader, key)
	return repository.SessionOwner(key)
}
