package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/pkg/utils"
)

const (
	maxMessageRunes = 5000
	maxPhotos       = 10
)

// Publisher mirrors posts onto a Facebook Page. Media routing: the first
// video wins and images are ignored; otherwise up to ten images go out as
// an (un)published-photo carousel; otherwise it is a text post.
type Publisher struct {
	client    *Client
	uploadDir string
	baseURL   string
}

func NewPublisher(client *Client, uploadDir, baseURL string) *Publisher {
	return &Publisher{
		client:    client,
		uploadDir: uploadDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

type idResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

func (p *Publisher) Publish(ctx context.Context, post *models.Post, assets []*models.Asset, cred Credential) (string, error) {
	message := buildMessage(post)
	link := p.postLink(post)

	if video := firstVideo(assets); video != nil {
		return p.publishVideo(ctx, video, message, link, cred)
	}

	images := imageAssets(assets)
	if len(images) > maxPhotos {
		images = images[:maxPhotos]
	}
	if len(images) > 0 {
		return p.publishPhotos(ctx, images, message, cred)
	}

	return p.publishText(ctx, message, link, cred)
}

// Unpublish deletes the remote post. Success-of-intent: a post that is
// already gone counts as removed, so 404 and delete failures both come
// back false without an error.
func (p *Publisher) Unpublish(ctx context.Context, fbPostID string, cred Credential) bool {
	params := url.Values{}
	params.Set("access_token", cred.AccessToken)

	resp, err := p.client.delete(ctx, "/"+fbPostID, params)
	if err != nil {
		slog.Error("facebook delete failed", "fb_post_id", fbPostID, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("facebook delete unexpected status", "fb_post_id", fbPostID, "status", resp.StatusCode)
		return false
	}

	var out struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false
	}
	return out.Success
}

func (p *Publisher) publishText(ctx context.Context, message, link string, cred Credential) (string, error) {
	params := url.Values{}
	params.Set("message", message)
	params.Set("access_token", cred.AccessToken)
	if link != "" {
		params.Set("link", link)
	}

	var resp idResponse
	if err := p.client.postForm(ctx, "/"+cred.PageID+"/feed", params, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (p *Publisher) publishPhotos(ctx context.Context, images []*models.Asset, message string, cred Credential) (string, error) {
	mediaIDs := make([]string, 0, len(images))
	for _, img := range images {
		id, err := p.uploadPhoto(ctx, img, cred)
		if err != nil {
			return "", err
		}
		mediaIDs = append(mediaIDs, id)
	}

	params := url.Values{}
	params.Set("message", message)
	params.Set("access_token", cred.AccessToken)
	for i, id := range mediaIDs {
		attached, err := json.Marshal(map[string]string{"media_fbid": id})
		if err != nil {
			return "", err
		}
		params.Set(fmt.Sprintf("attached_media[%d]", i), string(attached))
	}

	var resp idResponse
	if err := p.client.postForm(ctx, "/"+cred.PageID+"/feed", params, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// uploadPhoto creates an unpublished Page photo and returns its media id.
// Local files are uploaded directly; assets stored elsewhere go by URL.
func (p *Publisher) uploadPhoto(ctx context.Context, img *models.Asset, cred Credential) (string, error) {
	fields := map[string]string{
		"published":    "false",
		"access_token": cred.AccessToken,
	}

	if img.Storage == models.StorageLocal {
		path := filepath.Join(p.uploadDir, img.ObjectKey)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("asset file missing on disk: %s: %w", img.ObjectKey, err)
		}

		var resp idResponse
		if err := p.client.postFile(ctx, p.client.GraphURL, "/"+cred.PageID+"/photos", path, fields, &resp); err != nil {
			return "", err
		}
		return resp.ID, nil
	}

	params := url.Values{}
	params.Set("url", img.URL)
	params.Set("published", "false")
	params.Set("access_token", cred.AccessToken)

	var resp idResponse
	if err := p.client.postForm(ctx, "/"+cred.PageID+"/photos", params, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (p *Publisher) publishVideo(ctx context.Context, video *models.Asset, message, link string, cred Credential) (string, error) {
	if video.Storage != models.StorageLocal {
		return "", fmt.Errorf("%w: video must be stored locally for upload", ErrUnsupportedFormat)
	}

	path := filepath.Join(p.uploadDir, video.ObjectKey)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("asset file missing on disk: %s: %w", video.ObjectKey, err)
	}

	description := message
	if link != "" {
		description += "\n\n🔗 " + link
	}

	fields := map[string]string{
		"description":  description,
		"access_token": cred.AccessToken,
	}

	var resp idResponse
	if err := p.client.postFile(ctx, p.client.VideoURL, "/"+cred.PageID+"/videos", path, fields, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// postLink is the public URL for the post, omitted when the site runs on
// localhost since Facebook cannot resolve it.
func (p *Publisher) postLink(post *models.Post) string {
	if p.baseURL == "" {
		return ""
	}
	parsed, err := url.Parse(p.baseURL)
	if err != nil {
		return ""
	}
	host := parsed.Hostname()
	if host == "localhost" || host == "127.0.0.1" {
		return ""
	}

	prefix := "/news/"
	if post.Type == models.PostTypeAnnouncement {
		prefix = "/announcements/"
	}
	return p.baseURL + prefix + post.Slug
}

func buildMessage(post *models.Post) string {
	message := utils.StripHTML(post.BodyHTML)
	if message == "" {
		message = post.Title
	}
	return utils.TruncateRunes(message, maxMessageRunes)
}

func firstVideo(assets []*models.Asset) *models.Asset {
	for _, a := range assets {
		if strings.HasPrefix(a.MimeType, "video/") {
			return a
		}
	}
	return nil
}

func imageAssets(assets []*models.Asset) []*models.Asset {
	var images []*models.Asset
	for _, a := range assets {
		if strings.HasPrefix(a.MimeType, "image/") {
			images = append(images, a)
		}
	}
	return images
}
