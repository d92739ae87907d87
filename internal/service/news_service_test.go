package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

func assertAppStatus(t *testing.T, err error, want int) {
	t.Helper()
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, want, ae.Status())
}

func seedPublishedNews(f *workflowFixture, id int64, fbPostID string) *models.Post {
	now := time.Now()
	post := &models.Post{
		ID:          id,
		Type:        models.PostTypeNews,
		Title:       "Thông báo cũ",
		Slug:        "thong-bao-cu",
		BodyHTML:    "<p>cũ</p>",
		Status:      models.StatusPublished,
		PublishedAt: &now,
	}
	f.posts.byID[id] = post
	if fbPostID != "" {
		f.fblog.records[id] = &models.FacebookPostLog{
			PostID:   id,
			FBPostID: &fbPostID,
			Status:   models.FBLogStatusSucceeded,
		}
	}
	return post
}

func TestNewsCreateDraftDerivesSlugFromTitle(t *testing.T) {
	f := newWorkflowFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.news.Create(context.Background(), 1, &transfer.NewsCreateRequest{
		Title:    "Bé vui Trung Thu 2026",
		BodyHTML: "<p>Chương trình Trung Thu.</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "be-vui-trung-thu-2026", resp.Slug)
	assert.Equal(t, models.StatusDraft, resp.Status)
	assert.Nil(t, resp.PublishedAt)
	assert.Zero(t, f.publisher.publishCalls)
	assert.Len(t, f.revisions.created, 1)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestNewsCreateSlugConflict(t *testing.T) {
	f := newWorkflowFixture(t)
	f.posts.slugTaken = true

	_, err := f.news.Create(context.Background(), 1, &transfer.NewsCreateRequest{
		Title:    "Trùng slug",
		BodyHTML: "<p>x</p>",
	})
	assertAppStatus(t, err, 409)
}

func TestNewsCreateUnsluggableTitle(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.news.Create(context.Background(), 1, &transfer.NewsCreateRequest{
		Title:    "!!!",
		BodyHTML: "<p>x</p>",
	})
	assertAppStatus(t, err, 422)
}

func TestNewsCreatePublishWithSync(t *testing.T) {
	f := newWorkflowFixture(t)
	f.publisher.publishID = "page_42"
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.news.Create(context.Background(), 1, &transfer.NewsCreateRequest{
		Title:        "Khai giảng",
		BodyHTML:     "<p>Khai giảng ngày 5/9.</p>",
		Publish:      true,
		SyncFacebook: true,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPublished, resp.Status)
	require.NotNil(t, resp.PublishedAt)
	require.NotNil(t, resp.FBPostID)
	assert.Equal(t, "page_42", *resp.FBPostID)

	record := f.fblog.records[resp.ID]
	require.NotNil(t, record)
	assert.Equal(t, models.FBLogStatusSucceeded, record.Status)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestNewsCreatePublishFacebookFailureRollsBack(t *testing.T) {
	f := newWorkflowFixture(t)
	f.publisher.publishErr = errors.New("graph down")
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.news.Create(context.Background(), 1, &transfer.NewsCreateRequest{
		Title:        "Khai giảng",
		BodyHTML:     "<p>x</p>",
		Publish:      true,
		SyncFacebook: true,
	})
	assertAppStatus(t, err, 502)

	assert.Empty(t, f.fblog.records)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestNewsUpdateTitleRederivesSlug(t *testing.T) {
	f := newWorkflowFixture(t)
	post := seedPublishedNews(f, 1, "")
	post.Status = models.StatusDraft
	post.PublishedAt = nil
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	title := "Tiêu đề hoàn toàn mới"
	resp, err := f.news.Update(context.Background(), 1, 1, &transfer.NewsUpdateRequest{
		Title: &title,
	})
	require.NoError(t, err)
	assert.Equal(t, "tieu-de-hoan-toan-moi", resp.Slug)
}

func TestNewsUpdateExplicitSlugOverridesTitle(t *testing.T) {
	f := newWorkflowFixture(t)
	post := seedPublishedNews(f, 1, "")
	post.Status = models.StatusDraft
	post.PublishedAt = nil
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	title := "Tiêu đề mới"
	slug := "Slug Tự Chọn"
	resp, err := f.news.Update(context.Background(), 1, 1, &transfer.NewsUpdateRequest{
		Title: &title,
		Slug:  &slug,
	})
	require.NoError(t, err)
	assert.Equal(t, "slug-tu-chon", resp.Slug)
}

func TestNewsUpdateArchivePublishedUnpublishes(t *testing.T) {
	f := newWorkflowFixture(t)
	seedPublishedNews(f, 1, "fb_old")
	// The remote post is already gone; archiving still succeeds.
	f.publisher.unpublishResult = false
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	status := models.StatusArchived
	resp, err := f.news.Update(context.Background(), 1, 1, &transfer.NewsUpdateRequest{
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusArchived, resp.Status)
	assert.Nil(t, resp.PublishedAt)
	assert.Equal(t, []string{"fb_old"}, f.publisher.unpublished)

	record := f.fblog.records[int64(1)]
	require.NotNil(t, record)
	assert.Nil(t, record.FBPostID)
}

func TestNewsUpdatePublishedContentEditRepublishes(t *testing.T) {
	f := newWorkflowFixture(t)
	seedPublishedNews(f, 1, "fb_old")
	f.publisher.publishID = "fb_new"
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	body := "<p>nội dung mới</p>"
	resp, err := f.news.Update(context.Background(), 1, 1, &transfer.NewsUpdateRequest{
		BodyHTML: &body,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"fb_old"}, f.publisher.unpublished)
	assert.Equal(t, 1, f.publisher.publishCalls)
	require.NotNil(t, resp.FBPostID)
	assert.Equal(t, "fb_new", *resp.FBPostID)
}

func TestNewsUpdateRepublishFailureKeepsLocalChange(t *testing.T) {
	f := newWorkflowFixture(t)
	seedPublishedNews(f, 1, "fb_old")
	f.publisher.publishErr = errors.New("graph down")
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	body := "<p>nội dung mới</p>"
	resp, err := f.news.Update(context.Background(), 1, 1, &transfer.NewsUpdateRequest{
		BodyHTML: &body,
	})
	require.NoError(t, err)

	assert.Equal(t, body, resp.BodyHTML)
	assert.Equal(t, models.StatusPublished, resp.Status)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestNewsUpdateSyncToggleOffUnpublishesOnly(t *testing.T) {
	f := newWorkflowFixture(t)
	seedPublishedNews(f, 1, "fb_old")
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	noSync := false
	_, err := f.news.Update(context.Background(), 1, 1, &transfer.NewsUpdateRequest{
		SyncFacebook: &noSync,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"fb_old"}, f.publisher.unpublished)
	assert.Zero(t, f.publisher.publishCalls)
}

func TestNewsUpdateNoRemotePostNoFacebookCalls(t *testing.T) {
	f := newWorkflowFixture(t)
	seedPublishedNews(f, 1, "")
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	body := "<p>sửa</p>"
	_, err := f.news.Update(context.Background(), 1, 1, &transfer.NewsUpdateRequest{
		BodyHTML: &body,
	})
	require.NoError(t, err)

	assert.Empty(t, f.publisher.unpublished)
	assert.Zero(t, f.publisher.publishCalls)
}

func TestNewsUpdateMediaReplacedWholesale(t *testing.T) {
	f := newWorkflowFixture(t)
	post := seedPublishedNews(f, 1, "")
	post.Status = models.StatusDraft
	post.PublishedAt = nil
	f.resolver.assets = []*models.Asset{
		{ID: 30, MimeType: "image/jpeg"},
		{ID: 10, MimeType: "image/png"},
	}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	_, err := f.news.Update(context.Background(), 1, 1, &transfer.NewsUpdateRequest{
		AssetIDs: &ids,
	})
	require.NoError(t, err)

	entries := f.media.replaced[int64(1)]
	require.Len(t, entries, 2)
	assert.Equal(t, int64(30), entries[0].AssetID)
	assert.Equal(t, int64(10), entries[1].AssetID)
}

func TestNewsUpdateNotFound(t *testing.T) {
	f := newWorkflowFixture(t)

	body := "<p>x</p>"
	_, err := f.news.Update(context.Background(), 1, 99, &transfer.NewsUpdateRequest{
		BodyHTML: &body,
	})
	assertAppStatus(t, err, 404)
}

func TestNewsRemovePublishedUnpublishesFirst(t *testing.T) {
	f := newWorkflowFixture(t)
	seedPublishedNews(f, 1, "fb_old")

	err := f.news.Remove(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"fb_old"}, f.publisher.unpublished)
	assert.Equal(t, []int64{1}, f.posts.deleted)
}

func TestNewsRemoveDraftSkipsFacebook(t *testing.T) {
	f := newWorkflowFixture(t)
	post := seedPublishedNews(f, 1, "")
	post.Status = models.StatusDraft
	post.PublishedAt = nil

	err := f.news.Remove(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Empty(t, f.publisher.unpublished)
	assert.Equal(t, []int64{1}, f.posts.deleted)
}
