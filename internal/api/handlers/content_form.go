package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/service"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

// The admin content endpoints accept two body shapes: a JSON document, or
// multipart/form-data whose field names mirror the JSON keys plus inline
// "files" parts. Inline files are stored through the asset service first
// and their public ids joined onto the media list, so the services never
// know which shape the request arrived in.

func isMultipartForm(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// formOptional distinguishes an absent field (nil) from one sent empty, so
// multipart updates keep the tri-state semantics of the JSON payloads.
func formOptional(form *multipart.Form, key string) *string {
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

func formBool(form *multipart.Form, key string) (bool, error) {
	raw := formValue(form, key)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperr.Validation(key + " must be true or false")
	}
	return b, nil
}

func formOptionalBool(form *multipart.Form, key string) (*bool, error) {
	if _, ok := form.Value[key]; !ok {
		return nil, nil
	}
	b, err := formBool(form, key)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// formUUIDs reads a repeated field, also splitting comma-separated values.
func formUUIDs(form *multipart.Form, key string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, raw := range form.Value[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return nil, apperr.Validation("invalid " + key + " entry: " + part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func formInt64s(form *multipart.Form, key string) ([]int64, error) {
	var out []int64
	for _, raw := range form.Value[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, apperr.Validation("invalid " + key + " entry: " + part)
			}
			out = append(out, id)
		}
	}
	return out, nil
}

// uploadFormFiles stores every "files" part in upload order and returns the
// public ids of the created assets.
func uploadFormFiles(c *fiber.Ctx, assets service.AssetService, form *multipart.Form, userID int64) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, fh := range form.File["files"] {
		resp, err := assets.Upload(c.Context(), userID, fh)
		if err != nil {
			return nil, err
		}
		ids = append(ids, resp.PublicID)
	}
	return ids, nil
}

func newsCreateFromForm(c *fiber.Ctx, assets service.AssetService, userID int64) (*transfer.NewsCreateRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.Validation("invalid multipart form")
	}

	req := &transfer.NewsCreateRequest{
		Title:    formValue(form, "title"),
		Slug:     formValue(form, "slug"),
		Summary:  formValue(form, "summary"),
		BodyHTML: formValue(form, "body_html"),
	}
	if req.Publish, err = formBool(form, "publish"); err != nil {
		return nil, err
	}
	if req.SyncFacebook, err = formBool(form, "sync_facebook"); err != nil {
		return nil, err
	}
	if req.AssetIDs, err = formUUIDs(form, "asset_ids"); err != nil {
		return nil, err
	}

	uploaded, err := uploadFormFiles(c, assets, form, userID)
	if err != nil {
		return nil, err
	}
	req.AssetIDs = append(req.AssetIDs, uploaded...)
	return req, nil
}

func newsUpdateFromForm(c *fiber.Ctx, assets service.AssetService, userID int64) (*transfer.NewsUpdateRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.Validation("invalid multipart form")
	}

	req := &transfer.NewsUpdateRequest{
		Title:    formOptional(form, "title"),
		Slug:     formOptional(form, "slug"),
		Summary:  formOptional(form, "summary"),
		BodyHTML: formOptional(form, "body_html"),
		Status:   formOptional(form, "status"),
	}
	if req.SyncFacebook, err = formOptionalBool(form, "sync_facebook"); err != nil {
		return nil, err
	}

	ids, err := mediaListFromForm(c, assets, form, userID)
	if err != nil {
		return nil, err
	}
	req.AssetIDs = ids
	return req, nil
}

func announcementCreateFromForm(c *fiber.Ctx, assets service.AssetService, userID int64) (*transfer.AnnouncementCreateRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.Validation("invalid multipart form")
	}

	req := &transfer.AnnouncementCreateRequest{
		Title:     formValue(form, "title"),
		Slug:      formValue(form, "slug"),
		Summary:   formValue(form, "summary"),
		BodyHTML:  formValue(form, "body_html"),
		BlockCode: formValue(form, "block_code"),
	}
	if req.Publish, err = formBool(form, "publish"); err != nil {
		return nil, err
	}
	if req.SyncFacebook, err = formBool(form, "sync_facebook"); err != nil {
		return nil, err
	}
	if req.AssetIDs, err = formUUIDs(form, "asset_ids"); err != nil {
		return nil, err
	}

	uploaded, err := uploadFormFiles(c, assets, form, userID)
	if err != nil {
		return nil, err
	}
	req.AssetIDs = append(req.AssetIDs, uploaded...)
	return req, nil
}

func announcementUpdateFromForm(c *fiber.Ctx, assets service.AssetService, userID int64) (*transfer.AnnouncementUpdateRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.Validation("invalid multipart form")
	}

	req := &transfer.AnnouncementUpdateRequest{
		Title:     formOptional(form, "title"),
		Slug:      formOptional(form, "slug"),
		Summary:   formOptional(form, "summary"),
		BodyHTML:  formOptional(form, "body_html"),
		BlockCode: formOptional(form, "block_code"),
		Status:    formOptional(form, "status"),
	}
	if req.SyncFacebook, err = formOptionalBool(form, "sync_facebook"); err != nil {
		return nil, err
	}

	ids, err := mediaListFromForm(c, assets, form, userID)
	if err != nil {
		return nil, err
	}
	req.AssetIDs = ids
	return req, nil
}

// mediaListFromForm builds the tri-state media list for updates: absent
// asset_ids and no files leaves the list untouched (nil); either one makes
// the merged list the post's new media, listed assets before inline uploads.
func mediaListFromForm(c *fiber.Ctx, assets service.AssetService, form *multipart.Form, userID int64) (*[]uuid.UUID, error) {
	_, listed := form.Value["asset_ids"]
	if !listed && len(form.File["files"]) == 0 {
		return nil, nil
	}

	ids, err := formUUIDs(form, "asset_ids")
	if err != nil {
		return nil, err
	}
	uploaded, err := uploadFormFiles(c, assets, form, userID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, uploaded...)
	return &ids, nil
}

func albumCreateFromForm(c *fiber.Ctx, assets service.AssetService, userID int64) (*transfer.AlbumCreateRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.Validation("invalid multipart form")
	}

	req := &transfer.AlbumCreateRequest{
		Title:       formValue(form, "title"),
		Slug:        formValue(form, "slug"),
		Description: formValue(form, "description"),
	}
	if raw := formValue(form, "cover_asset_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperr.Validation("invalid cover_asset_id")
		}
		req.CoverAssetID = &id
	}

	if req.Items, err = albumItemsFromForm(c, assets, form, userID); err != nil {
		return nil, err
	}

	embeds, err := formInt64s(form, "embed_ids")
	if err != nil {
		return nil, err
	}
	for _, id := range embeds {
		req.Videos = append(req.Videos, transfer.AlbumVideoRequest{EmbedID: id})
	}
	return req, nil
}

func albumUpdateFromForm(c *fiber.Ctx, assets service.AssetService, userID int64) (*transfer.AlbumUpdateRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.Validation("invalid multipart form")
	}

	req := &transfer.AlbumUpdateRequest{
		Title:       formOptional(form, "title"),
		Slug:        formOptional(form, "slug"),
		Description: formOptional(form, "description"),
	}
	if raw := formValue(form, "cover_asset_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperr.Validation("invalid cover_asset_id")
		}
		req.CoverAssetID = &id
	}

	_, listed := form.Value["asset_ids"]
	if listed || len(form.File["files"]) > 0 {
		items, err := albumItemsFromForm(c, assets, form, userID)
		if err != nil {
			return nil, err
		}
		req.Items = &items
	}

	if _, ok := form.Value["embed_ids"]; ok {
		embeds, err := formInt64s(form, "embed_ids")
		if err != nil {
			return nil, err
		}
		videos := make([]transfer.AlbumVideoRequest, 0, len(embeds))
		for _, id := range embeds {
			videos = append(videos, transfer.AlbumVideoRequest{EmbedID: id})
		}
		req.Videos = &videos
	}
	return req, nil
}

// albumItemsFromForm merges listed assets with inline uploads into one
// ordered item list. Captions pair positionally: "captions" with
// "asset_ids", "file_captions" with "files".
func albumItemsFromForm(c *fiber.Ctx, assets service.AssetService, form *multipart.Form, userID int64) ([]transfer.AlbumItemRequest, error) {
	ids, err := formUUIDs(form, "asset_ids")
	if err != nil {
		return nil, err
	}
	captions := form.Value["captions"]

	var items []transfer.AlbumItemRequest
	for i, id := range ids {
		item := transfer.AlbumItemRequest{AssetID: id}
		if i < len(captions) {
			item.Caption = captions[i]
		}
		items = append(items, item)
	}

	uploaded, err := uploadFormFiles(c, assets, form, userID)
	if err != nil {
		return nil, err
	}
	fileCaptions := form.Value["file_captions"]
	for i, id := range uploaded {
		item := transfer.AlbumItemRequest{AssetID: id}
		if i < len(fileCaptions) {
			item.Caption = fileCaptions[i]
		}
		items = append(items, item)
	}
	return items, nil
}
