package models

import "time"

type Post struct {
	ID          int64      `db:"id" json:"id"`
	Type        string     `db:"type" json:"type"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Summary     string     `db:"summary" json:"summary"`
	BodyHTML    string     `db:"body_html" json:"body_html"`
	Status      string     `db:"status" json:"status"`
	BlockID     *int64     `db:"block_id" json:"block_id"`
	AuthorID    *int64     `db:"author_id" json:"author_id"`
	PublishedAt *time.Time `db:"published_at" json:"published_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
}

type PostRevision struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	Title     string    `db:"title" json:"title"`
	Summary   string    `db:"summary" json:"summary"`
	BodyHTML  string    `db:"body_html" json:"body_html"`
	EditorID  *int64    `db:"editor_id" json:"editor_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PostAsset struct {
	PostID   int64  `db:"post_id" json:"post_id"`
	AssetID  int64  `db:"asset_id" json:"asset_id"`
	Caption  string `db:"caption" json:"caption"`
	Position int    `db:"position" json:"position"`
}

const (
	PostTypeNews         = "news"
	PostTypeAnnouncement = "announcement"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)
