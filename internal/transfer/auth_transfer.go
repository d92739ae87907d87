package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type GoogleLoginRequest struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
}

type TokenStatusResponse struct {
	Linked    bool   `json:"linked"`
	Valid     bool   `json:"valid"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type FacebookLinkRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

type FacebookLinkResponse struct {
	PageID             string  `json:"page_id"`
	PageName           string  `json:"page_name"`
	UserTokenExpiresAt *string `json:"user_token_expires_at"`
	PageTokenExpiresAt *string `json:"page_token_expires_at"`
}
