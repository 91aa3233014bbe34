package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"hrms-backend/models"
	util "hrms-backend/pkg/utils"
)

type TokenValidator interface {
	ValidateToken(token string) (*models.Claims, error)
}

// AuthMiddleware checks the Bearer token and stores its claims under "user".
func AuthMiddleware(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return util.Fail(c, fiber.StatusUnauthorized, "Authorization header is required", nil)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return util.Fail(c, fiber.StatusUnauthorized, "Authorization header format must be Bearer <token>", nil)
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return util.Fail(c, fiber.StatusUnauthorized, "Invalid or expired token", nil)
		}

		c.Locals("user", claims)
		return c.Next()
	}
}
