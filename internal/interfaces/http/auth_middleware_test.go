package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Activos-api/internal/domain/entity"
	"github.com/jhoicas/Activos-api/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

func newTestApp() *fiber.App {
	app := fiber.New()
	protected := app.Group("/protected", AuthMiddleware(testSecret))
	protected.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    GetUserID(c),
			"company_id": GetCompanyID(c),
			"role":       GetRole(c),
		})
	})
	protected.Post("/admin", RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := jwt.Generate(testSecret, "user-1", "co-1", role, "test", 60)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/protected/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	app := newTestApp()

	for _, header := range []string{"Token abc", "Bearer", "Bearer  "} {
		req := httptest.NewRequest("GET", "/protected/me", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestAuthMiddlewareInvalidSignature(t *testing.T) {
	app := newTestApp()

	tok, err := jwt.Generate("otro-secreto", "user-1", "co-1", entity.RoleAdmin, "test", 60)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/protected/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, entity.RoleBodeguero))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/protected/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, entity.RoleAdmin))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	app := newTestApp()

	for _, role := range []string{entity.RoleBodeguero, entity.RoleVendedor} {
		req := httptest.NewRequest("POST", "/protected/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, role))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "role %s", role)
	}
}
