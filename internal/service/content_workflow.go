package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/facebook"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/internal/transfer"
	"github.com/quangdng/preschool-cms/pkg/utils"
)

// contentWorkflow is the shared create/update/delete machinery behind the
// news and announcement services. Status transitions drive the Facebook
// side effects: a fresh transition into published is mandatory sync
// (failure rolls the whole operation back), everything else is best
// effort.
type contentWorkflow struct {
	db        *sql.DB
	posts     repository.PostRepository
	revisions repository.PostRevisionRepository
	media     repository.PostAssetRepository
	fblog     repository.FacebookLogRepository
	users     repository.UserRepository
	blocks    repository.BlockRepository
	assets    AssetResolver
	publisher FacebookPublisher
	tokens    FacebookTokenSource
}

// response assembles the full read model for one post.
func (w *contentWorkflow) response(ctx context.Context, post *models.Post) (*transfer.PostResponse, error) {
	assets, err := w.media.GetAssetsByPostID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	blockCode := ""
	if post.BlockID != nil {
		block, err := w.blocks.GetByID(ctx, *post.BlockID)
		if err != nil {
			return nil, err
		}
		if block != nil {
			blockCode = block.Code
		}
	}

	var fbPostID *string
	if record, err := w.fblog.GetByPostID(ctx, post.ID); err == nil && record != nil {
		fbPostID = record.FBPostID
	}

	resp := transfer.ToPostResponse(post, blockCode, assets, fbPostID)
	return &resp, nil
}

type contentCreateInput struct {
	Title        string
	Slug         string
	Summary      string
	BodyHTML     string
	BlockID      *int64
	AssetIDs     []uuid.UUID
	Publish      bool
	SyncFacebook bool
}

type contentUpdateInput struct {
	Title        *string
	Slug         *string
	Summary      *string
	BodyHTML     *string
	BlockID      *int64
	AssetIDs     *[]uuid.UUID
	Status       *string
	SyncFacebook *bool
}

func (w *contentWorkflow) create(ctx context.Context, actorID int64, postType string, in contentCreateInput) (*models.Post, error) {
	slug := in.Slug
	if slug == "" {
		slug = in.Title
	}
	slug = utils.Slugify(slug)
	if slug == "" {
		return nil, apperr.Validation("cannot derive a slug from the title").
			WithFields(map[string]string{"slug": "invalid"})
	}

	exists, err := w.posts.SlugExists(ctx, postType, slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict(fmt.Sprintf("slug %q is already in use", slug))
	}

	assets, err := w.assets.ResolveByPublicIDs(ctx, in.AssetIDs)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Type:     postType,
		Title:    in.Title,
		Slug:     slug,
		Summary:  in.Summary,
		BodyHTML: in.BodyHTML,
		Status:   models.StatusDraft,
		BlockID:  in.BlockID,
		AuthorID: &actorID,
	}
	if in.Publish {
		now := time.Now()
		post.Status = models.StatusPublished
		post.PublishedAt = &now
	}

	tx, err := w.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	postID, err := w.posts.Create(ctx, tx, post)
	if err != nil {
		return nil, err
	}
	post.ID = postID

	_, err = w.revisions.Create(ctx, tx, &models.PostRevision{
		PostID:   postID,
		Title:    post.Title,
		Summary:  post.Summary,
		BodyHTML: post.BodyHTML,
		EditorID: &actorID,
	})
	if err != nil {
		return nil, err
	}

	if err = w.media.ReplaceAll(ctx, tx, postID, assetEntries(assets)); err != nil {
		return nil, err
	}

	// First publish is all or nothing: a Facebook failure means the post
	// is not created at all.
	if in.Publish && in.SyncFacebook {
		if err = w.syncPublish(ctx, tx, actorID, post, assets); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return post, nil
}

func (w *contentWorkflow) update(ctx context.Context, actorID, id int64, postType string, in contentUpdateInput) (*models.Post, error) {
	post, err := w.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil || post.Type != postType {
		return nil, apperr.NotFound("content not found")
	}

	prevStatus := post.Status
	contentChanged := false

	if in.Title != nil && *in.Title != post.Title {
		post.Title = *in.Title
		// Title is the slug source of truth; an explicit slug below
		// overrides the re-derivation.
		post.Slug = utils.Slugify(*in.Title)
		contentChanged = true
	}
	if in.Slug != nil && *in.Slug != "" {
		post.Slug = utils.Slugify(*in.Slug)
	}
	if post.Slug == "" {
		return nil, apperr.Validation("cannot derive a slug from the title").
			WithFields(map[string]string{"slug": "invalid"})
	}
	if in.Summary != nil && *in.Summary != post.Summary {
		post.Summary = *in.Summary
		contentChanged = true
	}
	if in.BodyHTML != nil && *in.BodyHTML != post.BodyHTML {
		post.BodyHTML = *in.BodyHTML
		contentChanged = true
	}
	if in.BlockID != nil {
		post.BlockID = in.BlockID
	}

	exists, err := w.posts.SlugExists(ctx, postType, post.Slug, post.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict(fmt.Sprintf("slug %q is already in use", post.Slug))
	}

	var assets []*models.Asset
	if in.AssetIDs != nil {
		assets, err = w.assets.ResolveByPublicIDs(ctx, *in.AssetIDs)
		if err != nil {
			return nil, err
		}
		contentChanged = true
	}

	newStatus := prevStatus
	if in.Status != nil {
		newStatus = *in.Status
	}
	post.Status = newStatus

	switch {
	case prevStatus != models.StatusPublished && newStatus == models.StatusPublished:
		now := time.Now()
		post.PublishedAt = &now
	case prevStatus == models.StatusPublished && newStatus != models.StatusPublished:
		post.PublishedAt = nil
	}

	syncDesired := w.syncDesired(ctx, post.ID, in.SyncFacebook)

	tx, err := w.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	if err = w.posts.Update(ctx, tx, post); err != nil {
		return nil, err
	}

	_, err = w.revisions.Create(ctx, tx, &models.PostRevision{
		PostID:   post.ID,
		Title:    post.Title,
		Summary:  post.Summary,
		BodyHTML: post.BodyHTML,
		EditorID: &actorID,
	})
	if err != nil {
		return nil, err
	}

	if in.AssetIDs != nil {
		if err = w.media.ReplaceAll(ctx, tx, post.ID, assetEntries(assets)); err != nil {
			return nil, err
		}
	} else {
		assets, err = w.media.GetAssetsByPostID(ctx, post.ID)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case prevStatus != models.StatusPublished && newStatus == models.StatusPublished:
		// Fresh transition into published: sync failure fails the whole
		// update.
		if syncDesired {
			if err = w.syncPublish(ctx, tx, actorID, post, assets); err != nil {
				return nil, err
			}
		}
	case prevStatus == models.StatusPublished && newStatus != models.StatusPublished:
		w.bestEffortUnpublish(ctx, tx, actorID, post.ID)
	case prevStatus == models.StatusPublished && newStatus == models.StatusPublished:
		if !syncDesired {
			w.bestEffortUnpublish(ctx, tx, actorID, post.ID)
		} else if contentChanged {
			// No remote edit-in-place: delete the old post and create a
			// fresh one. Failures here do not block the local update.
			w.bestEffortUnpublish(ctx, tx, actorID, post.ID)
			if perr := w.syncPublish(ctx, tx, actorID, post, assets); perr != nil {
				slog.Error("facebook re-publish failed", "post_id", post.ID, "error", perr)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return post, nil
}

func (w *contentWorkflow) remove(ctx context.Context, actorID, id int64, postType string) error {
	post, err := w.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil || post.Type != postType {
		return apperr.NotFound("content not found")
	}

	if post.Status == models.StatusPublished {
		w.bestEffortUnpublish(ctx, nil, actorID, post.ID)
	}

	return w.posts.SoftDelete(ctx, nil, post.ID)
}

// syncPublish pushes the post to Facebook and records the outcome in the
// publish log within the caller's transaction.
func (w *contentWorkflow) syncPublish(ctx context.Context, tx *sql.Tx, actorID int64, post *models.Post, assets []*models.Asset) error {
	user, err := w.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}

	cred, err := w.tokens.GetValidToken(ctx, user)
	if err != nil {
		return mapFacebookError(err)
	}

	fbPostID, err := w.publisher.Publish(ctx, post, assets, cred)
	if err != nil {
		return mapFacebookError(err)
	}

	return w.fblog.Upsert(ctx, tx, &models.FacebookPostLog{
		PostID:   post.ID,
		FBPostID: &fbPostID,
		Status:   models.FBLogStatusSucceeded,
	})
}

// bestEffortUnpublish removes the remote post if one is recorded. Every
// failure is logged and swallowed; the local transition stands either way.
func (w *contentWorkflow) bestEffortUnpublish(ctx context.Context, tx *sql.Tx, actorID, postID int64) {
	record, err := w.fblog.GetByPostID(ctx, postID)
	if err != nil || record == nil || record.FBPostID == nil {
		return
	}

	user, err := w.users.GetByID(ctx, actorID)
	if err != nil {
		return
	}
	cred, err := w.tokens.GetValidToken(ctx, user)
	if err != nil {
		slog.Error("facebook unpublish skipped, no valid token", "post_id", postID, "error", err)
		return
	}

	if !w.publisher.Unpublish(ctx, *record.FBPostID, cred) {
		slog.Info("facebook post already gone or delete failed", "post_id", postID, "fb_post_id", *record.FBPostID)
	}

	if err := w.fblog.Upsert(ctx, tx, &models.FacebookPostLog{
		PostID:   postID,
		FBPostID: nil,
		Status:   models.FBLogStatusSucceeded,
	}); err != nil {
		slog.Error("publish log update failed", "post_id", postID, "error", err)
	}
}

// syncDesired resolves the tri-state sync flag: absent means keep doing
// whatever we were doing, which is synced whenever a remote post exists.
func (w *contentWorkflow) syncDesired(ctx context.Context, postID int64, flag *bool) bool {
	if flag != nil {
		return *flag
	}
	record, err := w.fblog.GetByPostID(ctx, postID)
	if err != nil || record == nil {
		return false
	}
	return record.FBPostID != nil
}

func (w *contentWorkflow) checkSlug(ctx context.Context, postType, raw string, excludeID int64) (string, bool, error) {
	slug := utils.Slugify(raw)
	if slug == "" {
		return "", false, apperr.Validation("cannot derive a slug").
			WithFields(map[string]string{"slug": "invalid"})
	}
	exists, err := w.posts.SlugExists(ctx, postType, slug, excludeID)
	if err != nil {
		return "", false, err
	}
	return slug, !exists, nil
}

func (w *contentWorkflow) page(ctx context.Context, posts []*models.Post, page, pageSize int, total int64) (*transfer.Page[transfer.PostResponse], error) {
	items := make([]transfer.PostResponse, 0, len(posts))
	for _, post := range posts {
		resp, err := w.response(ctx, post)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &transfer.Page[transfer.PostResponse]{
		Items: items,
		Meta:  transfer.NewMeta(page, pageSize, total),
	}, nil
}

func assetEntries(assets []*models.Asset) []repository.PostAssetEntry {
	entries := make([]repository.PostAssetEntry, 0, len(assets))
	for _, a := range assets {
		entries = append(entries, repository.PostAssetEntry{AssetID: a.ID})
	}
	return entries
}

func mapFacebookError(err error) error {
	switch {
	case errors.Is(err, facebook.ErrNotLinked):
		return apperr.New(fiber.StatusBadRequest, "facebook_not_linked", "no facebook page is linked").WithCause(err)
	case errors.Is(err, facebook.ErrTokenExpired):
		return apperr.New(fiber.StatusBadGateway, "facebook_token_expired",
			"facebook access has expired, please re-link your account").WithCause(err)
	case errors.Is(err, facebook.ErrPermission):
		return apperr.New(fiber.StatusBadGateway, "facebook_permission_missing",
			"the linked facebook account is missing a required permission").WithCause(err)
	case errors.Is(err, facebook.ErrUnsupportedFormat):
		return apperr.New(fiber.StatusUnprocessableEntity, "unsupported_media_format",
			"facebook rejected the media format").WithCause(err)
	case errors.Is(err, facebook.ErrFileTooLarge):
		return apperr.New(fiber.StatusUnprocessableEntity, "media_too_large",
			"facebook rejected the media file size").WithCause(err)
	}
	return apperr.External("facebook publish failed").WithCause(err)
}
