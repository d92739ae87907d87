package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

func TestAnnouncementCreateRequiresKnownBlock(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.announcements.Create(context.Background(), 1, &transfer.AnnouncementCreateRequest{
		Title:     "Thông báo lớp",
		BodyHTML:  "<p>x</p>",
		BlockCode: "fish",
	})
	assertAppStatus(t, err, 400)
}

func TestAnnouncementCreateResolvesBlock(t *testing.T) {
	f := newWorkflowFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.announcements.Create(context.Background(), 1, &transfer.AnnouncementCreateRequest{
		Title:     "Họp phụ huynh lớp Ong",
		BodyHTML:  "<p>Thứ bảy tuần này.</p>",
		BlockCode: "bee",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PostTypeAnnouncement, resp.Type)
	assert.Equal(t, "hop-phu-huynh-lop-ong", resp.Slug)
	assert.NotEmpty(t, resp.BlockCode)
}

func TestAnnouncementCreateMissingBlockFailsValidation(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.announcements.Create(context.Background(), 1, &transfer.AnnouncementCreateRequest{
		Title:    "Thông báo",
		BodyHTML: "<p>x</p>",
	})
	assertAppStatus(t, err, 422)
}

func TestAnnouncementGetByIDRejectsNewsPost(t *testing.T) {
	f := newWorkflowFixture(t)
	seedPublishedNews(f, 1, "")

	_, err := f.announcements.GetByID(context.Background(), 1)
	assertAppStatus(t, err, 404)
}
