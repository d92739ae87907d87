package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/quangdng/preschool-cms/configs"
	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/pkg/utils"
)

func newAuthTestApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler})
	m := NewAuthMiddleware(cfg)
	app.Get("/protected", m.RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	return app
}

func TestRequireAuthBearerToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", CookieName: "refreshToken"}
	app := newAuthTestApp(t, cfg)

	token, err := utils.GenerateToken(cfg.JWTSecret, "7", "access", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuthMissingCredentials(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", CookieName: "refreshToken"}
	app := newAuthTestApp(t, cfg)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", CookieName: "refreshToken"}
	app := newAuthTestApp(t, cfg)

	token, err := utils.GenerateToken(cfg.JWTSecret, "7", "refresh", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthRejectsTamperedToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", CookieName: "refreshToken"}
	app := newAuthTestApp(t, cfg)

	token, err := utils.GenerateToken("other-secret", "7", "access", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
