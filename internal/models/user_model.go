package models

import "time"

type User struct {
	ID             int64  `db:"id" json:"id"`
	GoogleSub      string `db:"google_sub" json:"google_sub"`
	Email          string `db:"email" json:"email"`
	Name           string `db:"name" json:"name"`
	ProfilePicture string `db:"profile_picture" json:"profile_picture"`

	GoogleAccessToken  *string    `db:"google_access_token" json:"-"`
	GoogleRefreshToken *string    `db:"google_refresh_token" json:"-"`
	GoogleTokenExpiry  *time.Time `db:"google_token_expiry" json:"-"`

	// Facebook page link. Tokens are stored AES-GCM encrypted.
	FacebookUserToken       *string    `db:"facebook_user_token" json:"-"`
	FacebookUserTokenExpiry *time.Time `db:"facebook_user_token_expiry" json:"-"`
	FacebookPageID          *string    `db:"facebook_page_id" json:"facebook_page_id"`
	FacebookPageName        *string    `db:"facebook_page_name" json:"facebook_page_name"`
	FacebookPageToken       *string    `db:"facebook_page_token" json:"-"`
	FacebookPageTokenExpiry *time.Time `db:"facebook_page_token_expiry" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
