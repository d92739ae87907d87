package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/service"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type ContactHandler struct {
	s service.ContactService
}

func NewContactHandler(s service.ContactService) *ContactHandler {
	return &ContactHandler{s: s}
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	req := new(transfer.ContactCreateRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("invalid request body")
	}

	resp, err := h.s.Submit(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	resp, err := h.s.List(c.Context(),
		c.Query("status"),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 20),
	)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *ContactHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	req := new(transfer.ContactStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("invalid request body")
	}

	resp, err := h.s.UpdateStatus(c.Context(), id, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *ContactHandler) Remove(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.s.Remove(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
