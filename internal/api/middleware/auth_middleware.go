package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	config "github.com/quangdng/preschool-cms/configs"
	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/pkg/utils"
)

type AuthMiddleware struct {
	cfg *config.Config
}

func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// RequireAuth accepts the app access token from the Authorization header
// or, failing that, the refresh-session cookie.
func (m *AuthMiddleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}
		if tokenString == "" {
			tokenString = c.Cookies(m.cfg.CookieName)
		}
		if tokenString == "" {
			return apperr.Unauthorized("missing credentials")
		}

		claims, err := utils.ValidateToken(m.cfg.JWTSecret, tokenString)
		if err != nil || claims.TokenType != "access" {
			return apperr.Unauthorized("invalid or expired token")
		}

		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}
