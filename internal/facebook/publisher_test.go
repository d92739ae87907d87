package facebook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/preschool-cms/internal/models"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		GraphURL:   server.URL,
		VideoURL:   server.URL,
		Version:    "v19.0",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func testCred() Credential {
	return Credential{PageID: "page1", AccessToken: "tok"}
}

func textPost() *models.Post {
	return &models.Post{
		Type:     models.PostTypeNews,
		Title:    "Khai giảng năm học",
		Slug:     "khai-giang-nam-hoc",
		BodyHTML: "<p>Thứ hai tuần sau khai giảng.</p>",
	}
}

func TestPublishTextPostWithLink(t *testing.T) {
	var form map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v19.0/page1/feed", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Write([]byte(`{"id":"page1_123"}`))
	}))
	defer server.Close()

	p := NewPublisher(newTestClient(server), t.TempDir(), "https://school.example.com")

	id, err := p.Publish(context.Background(), textPost(), nil, testCred())
	require.NoError(t, err)
	assert.Equal(t, "page1_123", id)
	assert.Equal(t, "Thứ hai tuần sau khai giảng.", form["message"][0])
	assert.Equal(t, "https://school.example.com/news/khai-giang-nam-hoc", form["link"][0])
}

func TestPublishOmitsLocalhostLink(t *testing.T) {
	var form map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Write([]byte(`{"id":"page1_123"}`))
	}))
	defer server.Close()

	p := NewPublisher(newTestClient(server), t.TempDir(), "http://localhost:3000")

	_, err := p.Publish(context.Background(), textPost(), nil, testCred())
	require.NoError(t, err)
	assert.NotContains(t, form, "link")
}

func TestPublishFallsBackToTitleWhenBodyEmpty(t *testing.T) {
	var form map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Write([]byte(`{"id":"page1_9"}`))
	}))
	defer server.Close()

	p := NewPublisher(newTestClient(server), t.TempDir(), "")

	post := textPost()
	post.BodyHTML = "<p>   </p>"
	_, err := p.Publish(context.Background(), post, nil, testCred())
	require.NoError(t, err)
	assert.Equal(t, post.Title, form["message"][0])
}

func TestPublishPhotoCarousel(t *testing.T) {
	var photoCalls int
	var feedForm map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.URL.Path {
		case "/v19.0/page1/photos":
			photoCalls++
			assert.Equal(t, "false", r.PostForm.Get("published"))
			assert.NotEmpty(t, r.PostForm.Get("url"))
			if photoCalls == 1 {
				w.Write([]byte(`{"id":"photo1"}`))
			} else {
				w.Write([]byte(`{"id":"photo2"}`))
			}
		case "/v19.0/page1/feed":
			feedForm = r.PostForm
			w.Write([]byte(`{"id":"page1_777"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	p := NewPublisher(newTestClient(server), t.TempDir(), "https://school.example.com")

	assets := []*models.Asset{
		{MimeType: "image/jpeg", Storage: models.StorageR2, URL: "https://cdn.example.com/a.jpg"},
		{MimeType: "image/png", Storage: models.StorageR2, URL: "https://cdn.example.com/b.png"},
	}
	id, err := p.Publish(context.Background(), textPost(), assets, testCred())
	require.NoError(t, err)

	assert.Equal(t, "page1_777", id)
	assert.Equal(t, 2, photoCalls)
	assert.JSONEq(t, `{"media_fbid":"photo1"}`, feedForm["attached_media[0]"][0])
	assert.JSONEq(t, `{"media_fbid":"photo2"}`, feedForm["attached_media[1]"][0])
	// Photo posts carry their own media preview, never a link.
	assert.NotContains(t, feedForm, "link")
}

func TestPublishVideoWinsOverImages(t *testing.T) {
	uploadDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "clip.mp4"), []byte("video-bytes"), 0o644))

	var gotPath string
	var description string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		description = r.FormValue("description")

		_, _, err := r.FormFile("source")
		require.NoError(t, err)

		w.Write([]byte(`{"id":"vid42"}`))
	}))
	defer server.Close()

	p := NewPublisher(newTestClient(server), uploadDir, "https://school.example.com")

	assets := []*models.Asset{
		{MimeType: "image/jpeg", Storage: models.StorageR2, URL: "https://cdn.example.com/a.jpg"},
		{MimeType: "video/mp4", Storage: models.StorageLocal, ObjectKey: "clip.mp4"},
	}
	id, err := p.Publish(context.Background(), textPost(), assets, testCred())
	require.NoError(t, err)

	assert.Equal(t, "vid42", id)
	assert.Equal(t, "/v19.0/page1/videos", gotPath)
	assert.Contains(t, description, "Thứ hai tuần sau khai giảng.")
	assert.Contains(t, description, "🔗 https://school.example.com/news/khai-giang-nam-hoc")
}

func TestPublishVideoMissingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer server.Close()

	p := NewPublisher(newTestClient(server), t.TempDir(), "")

	assets := []*models.Asset{
		{MimeType: "video/mp4", Storage: models.StorageLocal, ObjectKey: "gone.mp4"},
	}
	_, err := p.Publish(context.Background(), textPost(), assets, testCred())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "asset file missing on disk")
}

func TestPublishTruncatesLongMessage(t *testing.T) {
	var message string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		message = r.PostForm.Get("message")
		w.Write([]byte(`{"id":"x"}`))
	}))
	defer server.Close()

	p := NewPublisher(newTestClient(server), t.TempDir(), "")

	post := textPost()
	post.BodyHTML = strings.Repeat("ắ", maxMessageRunes+50)
	_, err := p.Publish(context.Background(), post, nil, testCred())
	require.NoError(t, err)

	runes := []rune(message)
	assert.Len(t, runes, maxMessageRunes)
	assert.True(t, strings.HasSuffix(message, "..."))
}

func TestUnpublish(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"deleted", http.StatusOK, `{"success":true}`, true},
		{"already gone", http.StatusNotFound, `{}`, false},
		{"server error", http.StatusInternalServerError, `{}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/v19.0/page1_123", r.URL.Path)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewPublisher(newTestClient(server), t.TempDir(), "")
			assert.Equal(t, tt.want, p.Unpublish(context.Background(), "page1_123", testCred()))
		})
	}
}
