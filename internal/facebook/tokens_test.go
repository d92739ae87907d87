package facebook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/quangdng/preschool-cms/configs"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/pkg/utils"
)

type fakePageTokenStore struct {
	repository.UserRepository
	savedToken  *string
	savedExpiry *time.Time
}

func (f *fakePageTokenStore) UpdateFacebookPageToken(ctx context.Context, id int64, pageToken *string, expiry *time.Time) error {
	f.savedToken = pageToken
	f.savedExpiry = expiry
	return nil
}

var testSecretKey = []byte("0123456789abcdef0123456789abcdef")

func newTestTokenManager(server *httptest.Server, conf config.Facebook) *TokenManager {
	return NewTokenManager(newTestClient(server), nil, conf, testSecretKey)
}

func TestExchangeLongLivedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v19.0/oauth/access_token", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "fb_exchange_token", q.Get("grant_type"))
		assert.Equal(t, "short", q.Get("fb_exchange_token"))
		assert.Equal(t, "app", q.Get("client_id"))
		w.Write([]byte(`{"access_token":"long-lived","expires_in":3600}`))
	}))
	defer server.Close()

	m := newTestTokenManager(server, config.Facebook{AppID: "app", AppSecret: "secret"})

	token, expiry, err := m.ExchangeLongLivedToken(context.Background(), "short")
	require.NoError(t, err)
	assert.Equal(t, "long-lived", token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)
}

func TestExchangeLongLivedTokenDefaultTTL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"long-lived"}`))
	}))
	defer server.Close()

	m := newTestTokenManager(server, config.Facebook{})

	_, expiry, err := m.ExchangeLongLivedToken(context.Background(), "short")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(defaultLongLivedTTL), expiry, time.Minute)
}

func TestPageTokenFromUserTokenPicksManageablePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v19.0/me/accounts", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"id":"p1","name":"Readonly","access_token":"t1","tasks":["ANALYZE"]},
			{"id":"p2","name":"School Page","access_token":"t2","tasks":["MANAGE","CREATE_CONTENT"]}
		]}`))
	}))
	defer server.Close()

	m := newTestTokenManager(server, config.Facebook{})

	page, err := m.PageTokenFromUserToken(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Equal(t, "p2", page.ID)
	assert.Equal(t, "t2", page.AccessToken)
}

func TestPageTokenFromUserTokenNoManageablePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"p1","name":"Readonly","access_token":"t1","tasks":["ANALYZE"]}]}`))
	}))
	defer server.Close()

	m := newTestTokenManager(server, config.Facebook{})

	_, err := m.PageTokenFromUserToken(context.Background(), "user-token")
	assert.ErrorIs(t, err, ErrPermission)
}

func TestGetValidTokenNotLinked(t *testing.T) {
	m := newTestTokenManager(httptest.NewServer(http.NotFoundHandler()), config.Facebook{})

	_, err := m.GetValidToken(context.Background(), &models.User{})
	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestGetValidTokenFallbackCredential(t *testing.T) {
	m := newTestTokenManager(httptest.NewServer(http.NotFoundHandler()), config.Facebook{
		PageID:      "static-page",
		AccessToken: "static-token",
	})

	cred, err := m.GetValidToken(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "static-page", cred.PageID)
	assert.Equal(t, "static-token", cred.AccessToken)
}

func TestGetValidTokenDecryptsStoredPageToken(t *testing.T) {
	enc, err := utils.Encrypt([]byte("page-token"), testSecretKey)
	require.NoError(t, err)

	pageID := "p1"
	user := &models.User{
		FacebookPageID:    &pageID,
		FacebookPageToken: &enc,
	}

	m := newTestTokenManager(httptest.NewServer(http.NotFoundHandler()), config.Facebook{})

	cred, err := m.GetValidToken(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "p1", cred.PageID)
	assert.Equal(t, "page-token", cred.AccessToken)
}

func TestGetValidTokenRefreshesExpiredPageToken(t *testing.T) {
	encPage, err := utils.Encrypt([]byte("stale-token"), testSecretKey)
	require.NoError(t, err)
	encUser, err := utils.Encrypt([]byte("user-token"), testSecretKey)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v19.0/me/accounts", r.URL.Path)
		assert.Equal(t, "user-token", r.URL.Query().Get("access_token"))
		w.Write([]byte(`{"data":[
			{"id":"p2","name":"School Page","access_token":"fresh-token","tasks":["MANAGE","CREATE_CONTENT"]}
		]}`))
	}))
	defer server.Close()

	store := &fakePageTokenStore{}
	m := NewTokenManager(newTestClient(server), store, config.Facebook{}, testSecretKey)

	pageID := "p1"
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(30 * 24 * time.Hour)
	user := &models.User{
		ID:                      7,
		FacebookPageID:          &pageID,
		FacebookPageToken:       &encPage,
		FacebookPageTokenExpiry: &past,
		FacebookUserToken:       &encUser,
		FacebookUserTokenExpiry: &future,
	}

	cred, err := m.GetValidToken(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "p2", cred.PageID)
	assert.Equal(t, "fresh-token", cred.AccessToken)

	// The re-derived page token is persisted encrypted and non-expiring.
	require.NotNil(t, store.savedToken)
	decrypted, err := utils.Decrypt(*store.savedToken, testSecretKey)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", decrypted)
	assert.Nil(t, store.savedExpiry)
}

func TestGetValidTokenExpiredBeyondRefresh(t *testing.T) {
	encPage, err := utils.Encrypt([]byte("page-token"), testSecretKey)
	require.NoError(t, err)
	encUser, err := utils.Encrypt([]byte("user-token"), testSecretKey)
	require.NoError(t, err)

	pageID := "p1"
	past := time.Now().Add(-time.Hour)
	user := &models.User{
		FacebookPageID:          &pageID,
		FacebookPageToken:       &encPage,
		FacebookPageTokenExpiry: &past,
		FacebookUserToken:       &encUser,
		FacebookUserTokenExpiry: &past,
	}

	m := newTestTokenManager(httptest.NewServer(http.NotFoundHandler()), config.Facebook{})

	_, err = m.GetValidToken(context.Background(), user)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
