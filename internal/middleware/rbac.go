package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/utils"
)

// RequireRole ensures that the authenticated user possesses one of the allowed roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(string(role)))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		if c.Locals(LocalUserID) == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, msgAuthenticationRequired)
		}

		role := normalizeRoleValue(c.Locals(LocalUserRole))
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// AdminOnly admits administrators.
func AdminOnly() fiber.Handler {
	return RequireRole(models.RoleAdmin)
}

// AnyActiveUser admits every authenticated role.
func AnyActiveUser() fiber.Handler {
	return RequireRole(models.RoleAdmin, models.RoleOperator)
}

// Protected chains authentication and an authorization gate for route registration.
func Protected(authenticate fiber.Handler, gate fiber.Handler) []fiber.Handler {
	return []fiber.Handler{authenticate, gate}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}
