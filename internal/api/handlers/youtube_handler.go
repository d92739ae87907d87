package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/service"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type YoutubeHandler struct {
	s service.YoutubeService
}

func NewYoutubeHandler(s service.YoutubeService) *YoutubeHandler {
	return &YoutubeHandler{s: s}
}

func (h *YoutubeHandler) Upload(c *fiber.Ctx) error {
	req := new(transfer.YouTubeUploadRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("invalid request body")
	}

	resp, err := h.s.Upload(c.Context(), GetUserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
