package models

import "time"

type Album struct {
	ID           int64      `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Slug         string     `db:"slug" json:"slug"`
	Description  string     `db:"description" json:"description"`
	CoverAssetID *int64     `db:"cover_asset_id" json:"cover_asset_id"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}

type AlbumItem struct {
	ID       int64  `db:"id" json:"id"`
	AlbumID  int64  `db:"album_id" json:"album_id"`
	AssetID  int64  `db:"asset_id" json:"asset_id"`
	Caption  string `db:"caption" json:"caption"`
	Position int    `db:"position" json:"position"`
}

type AlbumVideo struct {
	ID       int64 `db:"id" json:"id"`
	AlbumID  int64 `db:"album_id" json:"album_id"`
	EmbedID  int64 `db:"embed_id" json:"embed_id"`
	Position int   `db:"position" json:"position"`
}

type VideoEmbed struct {
	ID        int64     `db:"id" json:"id"`
	Provider  string    `db:"provider" json:"provider"`
	VideoURL  string    `db:"video_url" json:"video_url"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	EmbedProviderYouTube  = "youtube"
	EmbedProviderFacebook = "facebook"
	EmbedProviderLocal    = "local"
)
