package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/padidoc-go-api/internal/auth"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/utils"
)

// Locals keys populated by Authenticate.
const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
	LocalUserRole  = "user_role"
)

const msgAuthenticationRequired = "authentication required"

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, bool)
}

// UserLookup loads the user referenced by a token.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (models.User, error)
}

// Authenticate verifies the bearer token and re-checks that its user still exists and is active.
// Token validity alone is not sufficient: deactivation takes effect on the next request.
func Authenticate(tokens TokenVerifier, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, msgAuthenticationRequired)
		}

		claims, valid := tokens.Verify(token)
		if !valid {
			return utils.SendError(c, fiber.StatusUnauthorized, msgAuthenticationRequired)
		}

		user, err := users.FindByID(c.UserContext(), claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.SendError(c, fiber.StatusUnauthorized, msgAuthenticationRequired)
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to authenticate request")
		}
		if !user.IsActive {
			return utils.SendError(c, fiber.StatusUnauthorized, msgAuthenticationRequired)
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUserEmail, user.Email)
		c.Locals(LocalUserRole, string(user.Role))

		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// UserID returns the authenticated user id, or zero when the request is anonymous.
func UserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(LocalUserID).(uint); ok {
		return id
	}
	return 0
}

// UserRole returns the authenticated user's role.
func UserRole(c *fiber.Ctx) models.Role {
	if role, ok := c.Locals(LocalUserRole).(string); ok {
		return models.Role(role)
	}
	return ""
}
