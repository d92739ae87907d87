package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	config "github.com/quangdng/preschool-cms/configs"
	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/service"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type AuthHandler struct {
	s   service.AuthService
	cfg *config.Config
}

func NewAuthHandler(s service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{s: s, cfg: cfg}
}

func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	req := new(transfer.GoogleLoginRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("invalid request body")
	}

	resp, refreshToken, err := h.s.GoogleLogin(c.Context(), req)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, refreshToken)
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(h.cfg.CookieName)
	if refreshToken == "" {
		return apperr.Unauthorized("missing refresh token")
	}

	resp, rotated, err := h.s.Refresh(c.Context(), refreshToken)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, rotated)
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
	})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) TokenStatus(c *fiber.Ctx) error {
	status, err := h.s.TokenStatus(c.Context(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(status)
}

func (h *AuthHandler) LinkFacebook(c *fiber.Ctx) error {
	req := new(transfer.FacebookLinkRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("invalid request body")
	}

	resp, err := h.s.LinkFacebook(c.Context(), GetUserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
		Expires:  time.Now().Add(service.RefreshTokenTTL),
	})
}
