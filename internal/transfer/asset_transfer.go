package transfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/quangdng/preschool-cms/internal/models"
)

type AssetResponse struct {
	PublicID  uuid.UUID `json:"public_id"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	ByteSize  int64     `json:"byte_size"`
	Width     *int      `json:"width"`
	Height    *int      `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

func ToAssetResponse(a *models.Asset) AssetResponse {
	return AssetResponse{
		PublicID:  a.PublicID,
		URL:       a.URL,
		MimeType:  a.MimeType,
		ByteSize:  a.ByteSize,
		Width:     a.Width,
		Height:    a.Height,
		CreatedAt: a.CreatedAt,
	}
}
