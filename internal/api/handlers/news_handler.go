package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/service"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type NewsHandler struct {
	s      service.NewsService
	assets service.AssetService
}

func NewNewsHandler(s service.NewsService, assets service.AssetService) *NewsHandler {
	return &NewsHandler{s: s, assets: assets}
}

func (h *NewsHandler) Create(c *fiber.Ctx) error {
	var req *transfer.NewsCreateRequest
	if isMultipartForm(c) {
		var err error
		if req, err = newsCreateFromForm(c, h.assets, GetUserID(c)); err != nil {
			return err
		}
	} else {
		req = new(transfer.NewsCreateRequest)
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

func (h *NewsHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req *transfer.NewsUpdateRequest
	if isMultipartForm(c) {
		if req, err = newsUpdateFromForm(c, h.assets, GetUserID(c)); err != nil {
			return err
		}
	} else {
		req = new(transfer.NewsUpdateRequest)
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

func (h *NewsHandler) Remove(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.s.Remove(c.Context(), GetUserID(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NewsHandler) Get(c *fiber.Ctx) error {
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

func (h *NewsHandler) List(c *fiber.Ctx) error {
	resp, err := h.s.List(c.Context(),
		c.Query("status"),
		c.Query("q"),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 20),
	)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *NewsHandler) CheckSlug(c *fiber.Ctx) error {
	resp, err := h.s.CheckSlug(c.Context(),
		c.Query("slug"),
		int64(c.QueryInt("exclude_id", 0)),
	)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *NewsHandler) ListPublished(c *fiber.Ctx) error {
	resp, err := h.s.ListPublished(c.Context(),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 20),
	)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *NewsHandler) GetPublished(c *fiber.Ctx) error {
	resp, err := h.s.GetPublishedBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
