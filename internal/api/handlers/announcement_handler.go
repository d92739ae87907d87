package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/service"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type AnnouncementHandler struct {
	s      service.AnnouncementService
	assets service.AssetService
}

func NewAnnouncementHandler(s service.AnnouncementService, assets service.AssetService) *AnnouncementHandler {
	return &AnnouncementHandler{s: s, assets: assets}
}

func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	var req *transfer.AnnouncementCreateRequest
	if isMultipartForm(c) {
		var err error
		if req, err = announcementCreateFromForm(c, h.assets, GetUserID(c)); err != nil {
			return err
		}
	} else {
		req = new(transfer.AnnouncementCreateRequest)
		if err := c.BodyParser(req); err != nil {
			return apperr.Validation("invalid request body")
		}
	}

	resp, err := h.s.Create(c.Context(), GetUserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AnnouncementHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req *transfer.AnnouncementUpdateRequest
	if isMultipartForm(c) {
		if req, err = announcementUpdateFromForm(c, h.assets, GetUserID(c)); err != nil {
			return err
		}
	} else {
		req = new(transfer.AnnouncementUpdateRequest)
		if err := c.BodyParser(req); err != nil {
			return apperr.Validation("invalid request body")
		}
	}

	resp, err := h.s.Update(c.Context(), GetUserID(c), id, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AnnouncementHandler) Remove(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.s.Remove(c.Context(), GetUserID(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AnnouncementHandler) Get(c *fiber.Ctx) error {
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

func (h *AnnouncementHandler) List(c *fiber.Ctx) error {
	resp, err := h.s.List(c.Context(),
		c.Query("status"),
		c.Query("block"),
		c.Query("q"),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 20),
	)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AnnouncementHandler) CheckSlug(c *fiber.Ctx) error {
	resp, err := h.s.CheckSlug(c.Context(),
		c.Query("slug"),
		int64(c.QueryInt("exclude_id", 0)),
	)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AnnouncementHandler) ListPublished(c *fiber.Ctx) error {
	resp, err := h.s.ListPublished(c.Context(),
		c.Query("block"),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 20),
	)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AnnouncementHandler) GetPublished(c *fiber.Ctx) error {
	resp, err := h.s.GetPublishedBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
