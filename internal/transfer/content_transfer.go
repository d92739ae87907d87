package transfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/quangdng/preschool-cms/internal/models"
)

type NewsCreateRequest struct {
	Title        string      `json:"title" validate:"required,max=300"`
	Slug         string      `json:"slug" validate:"omitempty,max=300"`
	Summary      string      `json:"summary" validate:"max=1000"`
	BodyHTML     string      `json:"body_html" validate:"required"`
	AssetIDs     []uuid.UUID `json:"asset_ids" validate:"max=50"`
	Publish      bool        `json:"publish"`
	SyncFacebook bool        `json:"sync_facebook"`
}

// NewsUpdateRequest distinguishes absent fields (nil pointer) from fields
// explicitly set to an empty value, so a partial update never clobbers
// what the client did not send.
type NewsUpdateRequest struct {
	Title        *string      `json:"title" validate:"omitempty,max=300"`
	Slug         *string      `json:"slug" validate:"omitempty,max=300"`
	Summary      *string      `json:"summary" validate:"omitempty,max=1000"`
	BodyHTML     *string      `json:"body_html"`
	AssetIDs     *[]uuid.UUID `json:"asset_ids" validate:"omitempty,max=50"`
	Status       *string      `json:"status" validate:"omitempty,oneof=draft published archived"`
	SyncFacebook *bool        `json:"sync_facebook"`
}

type AnnouncementCreateRequest struct {
	Title        string      `json:"title" validate:"required,max=300"`
	Slug         string      `json:"slug" validate:"omitempty,max=300"`
	Summary      string      `json:"summary" validate:"max=1000"`
	BodyHTML     string      `json:"body_html" validate:"required"`
	BlockCode    string      `json:"block_code" validate:"required"`
	AssetIDs     []uuid.UUID `json:"asset_ids" validate:"max=50"`
	Publish      bool        `json:"publish"`
	SyncFacebook bool        `json:"sync_facebook"`
}

type AnnouncementUpdateRequest struct {
	Title        *string      `json:"title" validate:"omitempty,max=300"`
	Slug         *string      `json:"slug" validate:"omitempty,max=300"`
	Summary      *string      `json:"summary" validate:"omitempty,max=1000"`
	BodyHTML     *string      `json:"body_html"`
	BlockCode    *string      `json:"block_code"`
	AssetIDs     *[]uuid.UUID `json:"asset_ids" validate:"omitempty,max=50"`
	Status       *string      `json:"status" validate:"omitempty,oneof=draft published archived"`
	SyncFacebook *bool        `json:"sync_facebook"`
}

type PostResponse struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Summary     string          `json:"summary"`
	BodyHTML    string          `json:"body_html"`
	Status      string          `json:"status"`
	BlockCode   string          `json:"block_code,omitempty"`
	PublishedAt *time.Time      `json:"published_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Assets      []AssetResponse `json:"assets"`
	FBPostID    *string         `json:"fb_post_id,omitempty"`
}

type SlugCheckResponse struct {
	Slug      string `json:"slug"`
	Available bool   `json:"available"`
}

func ToPostResponse(post *models.Post, blockCode string, assets []*models.Asset, fbPostID *string) PostResponse {
	resp := PostResponse{
		ID:          post.ID,
		Type:        post.Type,
		Title:       post.Title,
		Slug:        post.Slug,
		Summary:     post.Summary,
		BodyHTML:    post.BodyHTML,
		Status:      post.Status,
		BlockCode:   blockCode,
		PublishedAt: post.PublishedAt,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
		Assets:      make([]AssetResponse, 0, len(assets)),
		FBPostID:    fbPostID,
	}
	for _, a := range assets {
		resp.Assets = append(resp.Assets, ToAssetResponse(a))
	}
	return resp
}
