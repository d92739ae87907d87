package transfer

import (
	"time"

	"github.com/google/uuid"
)

type AlbumCreateRequest struct {
	Title        string              `json:"title" validate:"required,max=300"`
	Slug         string              `json:"slug" validate:"omitempty,max=300"`
	Description  string              `json:"description" validate:"max=2000"`
	CoverAssetID *uuid.UUID          `json:"cover_asset_id"`
	Items        []AlbumItemRequest  `json:"items" validate:"max=200,dive"`
	Videos       []AlbumVideoRequest `json:"videos" validate:"max=50,dive"`
}

type AlbumUpdateRequest struct {
	Title        *string              `json:"title" validate:"omitempty,max=300"`
	Slug         *string              `json:"slug" validate:"omitempty,max=300"`
	Description  *string              `json:"description" validate:"omitempty,max=2000"`
	CoverAssetID *uuid.UUID           `json:"cover_asset_id"`
	Items        *[]AlbumItemRequest  `json:"items" validate:"omitempty,max=200,dive"`
	Videos       *[]AlbumVideoRequest `json:"videos" validate:"omitempty,max=50,dive"`
}

type AlbumItemRequest struct {
	AssetID uuid.UUID `json:"asset_id" validate:"required"`
	Caption string    `json:"caption" validate:"max=500"`
}

type AlbumVideoRequest struct {
	EmbedID int64 `json:"embed_id" validate:"required"`
}

type AlbumItemResponse struct {
	Asset    AssetResponse `json:"asset"`
	Caption  string        `json:"caption"`
	Position int           `json:"position"`
}

type AlbumVideoResponse struct {
	Embed    VideoEmbedResponse `json:"embed"`
	Position int                `json:"position"`
}

type AlbumResponse struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	Slug        string               `json:"slug"`
	Description string               `json:"description"`
	Cover       *AssetResponse       `json:"cover"`
	Items       []AlbumItemResponse  `json:"items,omitempty"`
	Videos      []AlbumVideoResponse `json:"videos,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type VideoEmbedCreateRequest struct {
	Provider string `json:"provider" validate:"required,oneof=youtube facebook local"`
	VideoURL string `json:"video_url" validate:"required,max=1000"`
	Title    string `json:"title" validate:"max=300"`
}

type VideoEmbedResponse struct {
	ID       int64  `json:"id"`
	Provider string `json:"provider"`
	VideoURL string `json:"video_url"`
	Title    string `json:"title"`
}
