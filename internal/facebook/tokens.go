package facebook

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	config "github.com/quangdng/preschool-cms/configs"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/pkg/utils"
)

// defaultLongLivedTTL is what Facebook grants when the exchange response
// omits expires_in.
const defaultLongLivedTTL = 5184000 * time.Second

// TokenManager walks a user's stored Facebook credentials through their
// lifecycle: link, validate, refresh.
type TokenManager struct {
	client    *Client
	users     repository.UserRepository
	appID     string
	appSecret string
	secretKey []byte

	// Static fallback for environments where no admin has linked a Page.
	fallbackPageID string
	fallbackToken  string
}

func NewTokenManager(client *Client, users repository.UserRepository, conf config.Facebook, secretKey []byte) *TokenManager {
	return &TokenManager{
		client:         client,
		users:          users,
		appID:          conf.AppID,
		appSecret:      conf.AppSecret,
		secretKey:      secretKey,
		fallbackPageID: conf.PageID,
		fallbackToken:  conf.AccessToken,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type pageAccount struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	AccessToken string   `json:"access_token"`
	Tasks       []string `json:"tasks"`
}

type accountsResponse struct {
	Data []pageAccount `json:"data"`
}

// ExchangeLongLivedToken swaps a short-lived user token for a ~60 day one.
func (m *TokenManager) ExchangeLongLivedToken(ctx context.Context, shortToken string) (string, time.Time, error) {
	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("client_id", m.appID)
	params.Set("client_secret", m.appSecret)
	params.Set("fb_exchange_token", shortToken)

	var resp tokenResponse
	if err := m.client.get(ctx, "/oauth/access_token", params, &resp); err != nil {
		return "", time.Time{}, err
	}

	ttl := defaultLongLivedTTL
	if resp.ExpiresIn > 0 {
		ttl = time.Duration(resp.ExpiresIn) * time.Second
	}
	return resp.AccessToken, time.Now().Add(ttl), nil
}

// PageTokenFromUserToken lists the user's Pages and picks the first one the
// user can manage and post to. Page tokens derived from a long-lived user
// token do not expire.
func (m *TokenManager) PageTokenFromUserToken(ctx context.Context, userToken string) (*pageAccount, error) {
	params := url.Values{}
	params.Set("access_token", userToken)
	params.Set("fields", "id,name,access_token,tasks")

	var resp accountsResponse
	if err := m.client.get(ctx, "/me/accounts", params, &resp); err != nil {
		return nil, err
	}

	for i := range resp.Data {
		page := &resp.Data[i]
		if hasTask(page.Tasks, "MANAGE") && hasTask(page.Tasks, "CREATE_CONTENT") {
			return page, nil
		}
	}
	return nil, fmt.Errorf("%w: no manageable page found", ErrPermission)
}

func hasTask(tasks []string, want string) bool {
	for _, t := range tasks {
		if t == want {
			return true
		}
	}
	return false
}

// Link runs the full link flow for a short-lived user token and persists
// the resulting credentials encrypted.
func (m *TokenManager) Link(ctx context.Context, userID int64, shortToken string) (*models.User, error) {
	longToken, userExpiry, err := m.ExchangeLongLivedToken(ctx, shortToken)
	if err != nil {
		return nil, err
	}

	page, err := m.PageTokenFromUserToken(ctx, longToken)
	if err != nil {
		return nil, err
	}

	encUser, err := utils.Encrypt([]byte(longToken), m.secretKey)
	if err != nil {
		return nil, err
	}
	encPage, err := utils.Encrypt([]byte(page.AccessToken), m.secretKey)
	if err != nil {
		return nil, err
	}

	link := &models.User{
		FacebookUserToken:       &encUser,
		FacebookUserTokenExpiry: &userExpiry,
		FacebookPageID:          &page.ID,
		FacebookPageName:        &page.Name,
		FacebookPageToken:       &encPage,
		FacebookPageTokenExpiry: nil,
	}
	if err := m.users.UpdateFacebookLink(ctx, userID, link); err != nil {
		return nil, err
	}
	return link, nil
}

// RefreshExpiringLink re-exchanges the stored long-lived user token when it
// expires within the given window, and re-derives the page token from it.
// Links with no stored user token or plenty of life left are left alone.
func (m *TokenManager) RefreshExpiringLink(ctx context.Context, user *models.User, within time.Duration) error {
	if user == nil || user.FacebookUserToken == nil || user.FacebookUserTokenExpiry == nil {
		return nil
	}
	if user.FacebookUserTokenExpiry.After(time.Now().Add(within)) {
		return nil
	}

	userToken, err := utils.Decrypt(*user.FacebookUserToken, m.secretKey)
	if err != nil {
		return err
	}

	_, err = m.Link(ctx, user.ID, userToken)
	return err
}

// GetValidToken returns a usable Page credential for the user, refreshing
// the page token from the user token when it has expired.
func (m *TokenManager) GetValidToken(ctx context.Context, user *models.User) (Credential, error) {
	if user == nil || user.FacebookPageToken == nil || user.FacebookPageID == nil {
		if m.fallbackPageID != "" && m.fallbackToken != "" {
			return Credential{PageID: m.fallbackPageID, AccessToken: m.fallbackToken}, nil
		}
		return Credential{}, ErrNotLinked
	}

	now := time.Now()
	if user.FacebookPageTokenExpiry == nil || user.FacebookPageTokenExpiry.After(now) {
		token, err := utils.Decrypt(*user.FacebookPageToken, m.secretKey)
		if err != nil {
			return Credential{}, err
		}
		return Credential{PageID: *user.FacebookPageID, AccessToken: token}, nil
	}

	// Page token expired. Derive a fresh one, but only if the user token
	// still has life left.
	if user.FacebookUserToken == nil ||
		(user.FacebookUserTokenExpiry != nil && !user.FacebookUserTokenExpiry.After(now)) {
		return Credential{}, ErrTokenExpired
	}

	userToken, err := utils.Decrypt(*user.FacebookUserToken, m.secretKey)
	if err != nil {
		return Credential{}, err
	}

	page, err := m.PageTokenFromUserToken(ctx, userToken)
	if err != nil {
		slog.Error("page token refresh failed", "user_id", user.ID, "error", err)
		return Credential{}, ErrTokenExpired
	}

	encPage, err := utils.Encrypt([]byte(page.AccessToken), m.secretKey)
	if err != nil {
		return Credential{}, err
	}
	if err := m.users.UpdateFacebookPageToken(ctx, user.ID, &encPage, nil); err != nil {
		return Credential{}, err
	}

	return Credential{PageID: page.ID, AccessToken: page.AccessToken}, nil
}
