package middleware

import (
	"github.com/gofiber/fiber/v2"

	"hrms-backend/models"
	util "hrms-backend/pkg/utils"
)

// RoleMiddleware lets the request through only for the given roles.
// It must run after AuthMiddleware.
func RoleMiddleware(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("user").(*models.Claims)
		if !ok {
			return util.Fail(c, fiber.StatusUnauthorized, "Not authenticated", nil)
		}
		if !claims.HasRole(roles...) {
			return util.Fail(c, fiber.StatusForbidden, "Access denied for role "+claims.Role, nil)
		}
		return c.Next()
	}
}

func AdminMiddleware() fiber.Handler {
	return RoleMiddleware(models.RoleAdmin)
}
