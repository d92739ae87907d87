package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type fakeContactRepo struct {
	repository.ContactRepository
	byID    map[int64]*models.ContactMessage
	nextID  int64
	removed []int64
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{byID: make(map[int64]*models.ContactMessage)}
}

func (f *fakeContactRepo) Create(ctx context.Context, msg *models.ContactMessage) (int64, error) {
	f.nextID++
	cp := *msg
	cp.ID = f.nextID
	f.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeContactRepo) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeContactRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	if m, ok := f.byID[id]; ok {
		m.Status = status
	}
	return nil
}

func (f *fakeContactRepo) Remove(ctx context.Context, id int64) error {
	f.removed = append(f.removed, id)
	return nil
}

func TestContactSubmit(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	resp, err := svc.Submit(context.Background(), &transfer.ContactCreateRequest{
		Name:  "Phụ huynh A",
		Email: "parent@example.com",
		Body:  "Xin hỏi về lịch tuyển sinh.",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ContactStatusNew, resp.Status)
	assert.NotZero(t, resp.ID)
}

func TestContactSubmitValidation(t *testing.T) {
	svc := NewContactService(newFakeContactRepo())

	_, err := svc.Submit(context.Background(), &transfer.ContactCreateRequest{
		Name:  "Phụ huynh A",
		Email: "not-an-email",
		Body:  "x",
	})
	assertAppStatus(t, err, 422)
}

func TestContactUpdateStatus(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	resp, err := svc.Submit(context.Background(), &transfer.ContactCreateRequest{
		Name:  "Phụ huynh A",
		Email: "parent@example.com",
		Body:  "x",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), resp.ID, &transfer.ContactStatusRequest{
		Status: models.ContactStatusHandled,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusHandled, updated.Status)
}

func TestContactUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc := NewContactService(newFakeContactRepo())

	_, err := svc.UpdateStatus(context.Background(), 1, &transfer.ContactStatusRequest{Status: "archived"})
	assertAppStatus(t, err, 422)
}

func TestContactRemoveNotFound(t *testing.T) {
	svc := NewContactService(newFakeContactRepo())

	err := svc.Remove(context.Background(), 5)
	assertAppStatus(t, err, 404)
}
