package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	config "github.com/quangdng/preschool-cms/configs"
	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/facebook"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/internal/transfer"
	"github.com/quangdng/preschool-cms/pkg/utils"
)

const (
	AccessTokenTTL  = 60 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService interface {
	GoogleLogin(ctx context.Context, req *transfer.GoogleLoginRequest) (*transfer.LoginResponse, string, error)
	Refresh(ctx context.Context, refreshToken string) (*transfer.LoginResponse, string, error)
	TokenStatus(ctx context.Context, userID int64) (*transfer.TokenStatusResponse, error)
	GetValidAccessToken(ctx context.Context, userID int64) (string, error)
	LinkFacebook(ctx context.Context, userID int64, req *transfer.FacebookLinkRequest) (*transfer.FacebookLinkResponse, error)
}

type authService struct {
	cfg    *config.Config
	users  repository.UserRepository
	tokens *facebook.TokenManager

	// Overridable in tests.
	TokenInfoURL string
	UserInfoURL  string

	httpClient *http.Client
}

func NewAuthService(cfg *config.Config, users repository.UserRepository, tokens *facebook.TokenManager) *authService {
	return &authService{
		cfg:          cfg,
		users:        users,
		tokens:       tokens,
		TokenInfoURL: "https://oauth2.googleapis.com/tokeninfo",
		UserInfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

type googleProfile struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Aud     string `json:"aud"`
}

func (s *authService) GoogleLogin(ctx context.Context, req *transfer.GoogleLoginRequest) (*transfer.LoginResponse, string, error) {
	if req.IDToken == "" && req.AccessToken == "" {
		return nil, "", apperr.Validation("id_token or access_token is required")
	}

	var profile *googleProfile
	var err error
	if req.IDToken != "" {
		profile, err = s.verifyIDToken(ctx, req.IDToken)
	} else {
		profile, err = s.verifyAccessToken(ctx, req.AccessToken)
	}
	if err != nil {
		return nil, "", err
	}

	if !s.emailAllowed(profile.Email) {
		return nil, "", apperr.Forbidden("this google account is not allowed to sign in")
	}

	sub := profile.Sub
	if sub == "" {
		sub = profile.ID
	}

	userID, err := s.users.Upsert(ctx, &models.User{
		GoogleSub:      sub,
		Email:          profile.Email,
		Name:           profile.Name,
		ProfilePicture: profile.Picture,
	})
	if err != nil {
		return nil, "", err
	}

	if req.AccessToken != "" {
		if err := s.users.UpdateGoogleTokens(ctx, userID, &req.AccessToken, nil, nil); err != nil {
			slog.Error("storing google access token failed", "user_id", userID, "error", err)
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*transfer.LoginResponse, string, error) {
	claims, err := utils.ValidateToken(s.cfg.JWTSecret, refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, "", apperr.Unauthorized("invalid refresh token")
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, "", apperr.Unauthorized("invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperr.Unauthorized("unknown user")
	}

	return s.issueTokens(user)
}

func (s *authService) TokenStatus(ctx context.Context, userID int64) (*transfer.TokenStatusResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	resp := &transfer.TokenStatusResponse{}
	if user.GoogleAccessToken == nil {
		return resp, nil
	}
	resp.Linked = true
	if user.GoogleTokenExpiry == nil || user.GoogleTokenExpiry.After(time.Now()) {
		resp.Valid = true
	}
	if user.GoogleTokenExpiry != nil {
		resp.ExpiresAt = user.GoogleTokenExpiry.Format(time.RFC3339)
	}
	return resp, nil
}

// GetValidAccessToken returns a live Google access token for the user,
// refreshing through the stored refresh token when the cached one has
// expired. Needed for YouTube uploads.
func (s *authService) GetValidAccessToken(ctx context.Context, userID int64) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil || user.GoogleAccessToken == nil {
		return "", apperr.Unauthorized("no google access token on file")
	}

	if user.GoogleTokenExpiry == nil || user.GoogleTokenExpiry.After(time.Now().Add(time.Minute)) {
		return *user.GoogleAccessToken, nil
	}

	if user.GoogleRefreshToken == nil {
		return "", apperr.Unauthorized("google access expired, sign in again")
	}

	conf := &oauth2.Config{
		ClientID:     s.cfg.Google.ClientID,
		ClientSecret: s.cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
	}
	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: *user.GoogleRefreshToken}).Token()
	if err != nil {
		slog.Error("google token refresh failed", "user_id", userID, "error", err)
		return "", apperr.Unauthorized("google access expired, sign in again")
	}

	expiry := token.Expiry
	if err := s.users.UpdateGoogleTokens(ctx, userID, &token.AccessToken, nil, &expiry); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

func (s *authService) LinkFacebook(ctx context.Context, userID int64, req *transfer.FacebookLinkRequest) (*transfer.FacebookLinkResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	link, err := s.tokens.Link(ctx, userID, req.AccessToken)
	if err != nil {
		return nil, mapFacebookError(err)
	}

	resp := &transfer.FacebookLinkResponse{
		PageID:   deref(link.FacebookPageID),
		PageName: deref(link.FacebookPageName),
	}
	if link.FacebookUserTokenExpiry != nil {
		v := link.FacebookUserTokenExpiry.Format(time.RFC3339)
		resp.UserTokenExpiresAt = &v
	}
	if link.FacebookPageTokenExpiry != nil {
		v := link.FacebookPageTokenExpiry.Format(time.RFC3339)
		resp.PageTokenExpiresAt = &v
	}
	return resp, nil
}

func (s *authService) issueTokens(user *models.User) (*transfer.LoginResponse, string, error) {
	userID := strconv.FormatInt(user.ID, 10)

	access, err := utils.GenerateToken(s.cfg.JWTSecret, userID, "access", AccessTokenTTL)
	if err != nil {
		return nil, "", err
	}
	refresh, err := utils.GenerateToken(s.cfg.JWTSecret, userID, "refresh", RefreshTokenTTL)
	if err != nil {
		return nil, "", err
	}

	return &transfer.LoginResponse{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int(AccessTokenTTL.Seconds()),
		User: transfer.UserResponse{
			ID:             user.ID,
			Email:          user.Email,
			Name:           user.Name,
			ProfilePicture: user.ProfilePicture,
		},
	}, refresh, nil
}

func (s *authService) verifyIDToken(ctx context.Context, idToken string) (*googleProfile, error) {
	params := url.Values{}
	params.Set("id_token", idToken)

	profile, err := s.fetchProfile(ctx, s.TokenInfoURL+"?"+params.Encode(), "")
	if err != nil {
		return nil, err
	}
	if profile.Aud != s.cfg.Google.ClientID {
		return nil, apperr.Unauthorized("google token issued for a different application")
	}
	return profile, nil
}

func (s *authService) verifyAccessToken(ctx context.Context, accessToken string) (*googleProfile, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)

	// tokeninfo validates the token; userinfo supplies the profile.
	info, err := s.fetchProfile(ctx, s.TokenInfoURL+"?"+params.Encode(), "")
	if err != nil {
		return nil, err
	}
	if info.Aud != "" && info.Aud != s.cfg.Google.ClientID {
		return nil, apperr.Unauthorized("google token issued for a different application")
	}

	return s.fetchProfile(ctx, s.UserInfoURL, accessToken)
}

func (s *authService) fetchProfile(ctx context.Context, endpoint, bearer string) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperr.External("google verification failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Unauthorized(fmt.Sprintf("google rejected the token (status %d)", resp.StatusCode))
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, apperr.External("google verification failed").WithCause(err)
	}
	return &profile, nil
}

func (s *authService) emailAllowed(email string) bool {
	if len(s.cfg.Google.AllowedAccounts) == 0 {
		return true
	}
	for _, allowed := range s.cfg.Google.AllowedAccounts {
		if strings.EqualFold(allowed, email) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
