package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/service"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type AlbumHandler struct {
	s      service.AlbumService
	assets service.AssetService
}

func NewAlbumHandler(s service.AlbumService, assets service.AssetService) *AlbumHandler {
	return &AlbumHandler{s: s, assets: assets}
}

func (h *AlbumHandler) Create(c *fiber.Ctx) error {
	var req *transfer.AlbumCreateRequest
	if isMultipartForm(c) {
		var err error
		if req, err = albumCreateFromForm(c, h.assets, GetUserID(c)); err != nil {
			return err
		}
	} else {
		req = new(transfer.AlbumCreateRequest)
		if err := c.BodyParser(req); err != nil {
			return apperr.Validation("invalid request body")
		}
	}

	resp, err := h.s.Create(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AlbumHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req *transfer.AlbumUpdateRequest
	if isMultipartForm(c) {
		if req, err = albumUpdateFromForm(c, h.assets, GetUserID(c)); err != nil {
			return err
		}
	} else {
		req = new(transfer.AlbumUpdateRequest)
		if err := c.BodyParser(req); err != nil {
			return apperr.Validation("invalid request body")
		}
	}

	resp, err := h.s.Update(c.Context(), id, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AlbumHandler) Remove(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.s.Remove(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AlbumHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	resp, err := h.s.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AlbumHandler) List(c *fiber.Ctx) error {
	resp, err := h.s.List(c.Context(),
		c.Query("q"),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 20),
	)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AlbumHandler) GetBySlug(c *fiber.Ctx) error {
	resp, err := h.s.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AlbumHandler) CreateEmbed(c *fiber.Ctx) error {
	req := new(transfer.VideoEmbedCreateRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("invalid request body")
	}

	resp, err := h.s.CreateEmbed(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AlbumHandler) ListEmbeds(c *fiber.Ctx) error {
	resp, err := h.s.ListEmbeds(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
