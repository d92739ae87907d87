package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/service"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type PushHandler struct {
	s             service.PushService
	announcements service.AnnouncementService
}

func NewPushHandler(s service.PushService, announcements service.AnnouncementService) *PushHandler {
	return &PushHandler{s: s, announcements: announcements}
}

func (h *PushHandler) Subscribe(c *fiber.Ctx) error {
	req := new(transfer.PushSubscribeRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("invalid request body")
	}

	if err := h.s.Subscribe(c.Context(), req); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *PushHandler) Unsubscribe(c *fiber.Ctx) error {
	req := new(transfer.PushUnsubscribeRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("invalid request body")
	}

	if err := h.s.Unsubscribe(c.Context(), req); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// NotifyAnnouncement pushes an already published announcement to every
// browser subscription.
func (h *PushHandler) NotifyAnnouncement(c *fiber.Ctx) error {
	announcement, err := h.announcements.GetPublishedBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}

	resp, err := h.s.NotifyAnnouncement(c.Context(), announcement)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
