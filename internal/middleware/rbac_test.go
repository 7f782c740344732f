package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/padidoc-go-api/internal/models"
)

func appWithIdentity(role string, gate fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals(LocalUserID, uint(1))
			c.Locals(LocalUserRole, role)
		}
		return c.Next()
	})
	app.Use(gate)
	app.Get("/guarded", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsAuthorizedRoles(t *testing.T) {
	app := appWithIdentity("Admin", RequireRole(models.RoleAdmin, models.RoleOperator))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminOnlyRejectsOperator(t *testing.T) {
	app := appWithIdentity(string(models.RoleOperator), AdminOnly())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAnyActiveUserAdmitsOperator(t *testing.T) {
	app := appWithIdentity(string(models.RoleOperator), AnyActiveUser())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleWithoutIdentityIsUnauthorized(t *testing.T) {
	app := appWithIdentity("", AnyActiveUser())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
