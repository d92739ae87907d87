package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/service"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type AssetHandler struct {
	s service.AssetService
}

func NewAssetHandler(s service.AssetService) *AssetHandler {
	return &AssetHandler{s: s}
}

func (h *AssetHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation("missing file field")
	}

	resp, err := h.s.Upload(c.Context(), GetUserID(c), fh)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AssetHandler) List(c *fiber.Ctx) error {
	resp, err := h.s.List(c.Context(),
		c.Query("type"),
		c.Query("q"),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 20),
	)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AssetHandler) Get(c *fiber.Ctx) error {
	publicID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.NotFound("asset not found")
	}

	asset, err := h.s.GetByPublicID(c.Context(), publicID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(transfer.ToAssetResponse(asset))
}
