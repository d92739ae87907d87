package service

import (
	"context"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type ContactService interface {
	Submit(ctx context.Context, req *transfer.ContactCreateRequest) (*transfer.ContactMessageResponse, error)
	List(ctx context.Context, status string, page, pageSize int) (*transfer.Page[transfer.ContactMessageResponse], error)
	UpdateStatus(ctx context.Context, id int64, req *transfer.ContactStatusRequest) (*transfer.ContactMessageResponse, error)
	Remove(ctx context.Context, id int64) error
}

type contactService struct {
	messages repository.ContactRepository
}

func NewContactService(messages repository.ContactRepository) ContactService {
	return &contactService{messages: messages}
}

func (s *contactService) Submit(ctx context.Context, req *transfer.ContactCreateRequest) (*transfer.ContactMessageResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Body:    req.Body,
		Status:  models.ContactStatusNew,
	}
	id, err := s.messages.Create(ctx, msg)
	if err != nil {
		return nil, err
	}
	msg.ID = id

	return toContactResponse(msg), nil
}

func (s *contactService) List(ctx context.Context, status string, page, pageSize int) (*transfer.Page[transfer.ContactMessageResponse], error) {
	page, pageSize = normalizePage(page, pageSize)

	msgs, total, err := s.messages.List(ctx, repository.ContactFilter{
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]transfer.ContactMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, *toContactResponse(m))
	}
	return &transfer.Page[transfer.ContactMessageResponse]{
		Items: items,
		Meta:  transfer.NewMeta(page, pageSize, total),
	}, nil
}

func (s *contactService) UpdateStatus(ctx context.Context, id int64, req *transfer.ContactStatusRequest) (*transfer.ContactMessageResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, apperr.NotFound("contact message not found")
	}

	if err := s.messages.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}
	msg.Status = req.Status

	return toContactResponse(msg), nil
}

func (s *contactService) Remove(ctx context.Context, id int64) error {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if msg == nil {
		return apperr.NotFound("contact message not found")
	}
	return s.messages.Remove(ctx, id)
}

func toContactResponse(m *models.ContactMessage) *transfer.ContactMessageResponse {
	return &transfer.ContactMessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Body:      m.Body,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
}
