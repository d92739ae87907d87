package transfer

import "github.com/google/uuid"

type YouTubeUploadRequest struct {
	AssetID     uuid.UUID `json:"asset_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=100"`
	Description string    `json:"description" validate:"max=5000"`
	Privacy     string    `json:"privacy" validate:"omitempty,oneof=public unlisted private"`
}

type YouTubeUploadResponse struct {
	VideoID  string `json:"video_id"`
	VideoURL string `json:"video_url"`
}
