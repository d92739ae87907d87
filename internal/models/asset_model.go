package models

import (
	"time"

	"github.com/google/uuid"
)

type Asset struct {
	ID         int64      `db:"id" json:"id"`
	PublicID   uuid.UUID  `db:"public_id" json:"public_id"`
	Storage    string     `db:"storage" json:"storage"`
	ObjectKey  string     `db:"object_key" json:"object_key"`
	URL        string     `db:"url" json:"url"`
	MimeType   string     `db:"mime_type" json:"mime_type"`
	ByteSize   int64      `db:"byte_size" json:"byte_size"`
	Width      *int       `db:"width" json:"width"`
	Height     *int       `db:"height" json:"height"`
	UploadedBy *int64     `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	DeletedAt  *time.Time `db:"deleted_at" json:"-"`
}

const (
	StorageLocal = "local"
	StorageR2    = "r2"
)
