package models

import "time"

type FacebookPostLog struct {
	ID           int64     `db:"id" json:"id"`
	PostID       int64     `db:"post_id" json:"post_id"`
	FBPostID     *string   `db:"fb_post_id" json:"fb_post_id"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage *string   `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const (
	FBLogStatusSucceeded = "succeeded"
	FBLogStatusFailed    = "failed"
)
