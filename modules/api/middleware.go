package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/inventory-dashboard/modules/identity"
)

const (
	// UserContextKey is the key used to store the session user ID in the
	// Fiber context.
	UserContextKey = "user_id"
)

// AuthMiddleware creates a middleware that validates session tokens.
func AuthMiddleware(identityPort identity.IdentityPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Authorization header is required",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid authorization header format. Use: Bearer <token>",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Token is required",
			})
		}

		resp, err := identityPort.ValidateToken(c.UserContext(), token)
		if err != nil || !resp.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
		}

		c.Locals(UserContextKey, resp.UserID)
		return c.Next()
	}
}
