package facebook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultGraphURL = "https://graph.facebook.com"
	defaultVideoURL = "https://graph-video.facebook.com"
)

// Credential is what a publish call needs: which Page and with what token.
type Credential struct {
	PageID      string
	AccessToken string
}

// Client is a thin Graph API HTTP client. Base URLs are fields so tests
// can point it at a local server.
type Client struct {
	GraphURL string
	VideoURL string
	Version  string

	httpClient *http.Client
}

func NewClient(version string) *Client {
	return &Client{
		GraphURL:   defaultGraphURL,
		VideoURL:   defaultVideoURL,
		Version:    version,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type graphEnvelope struct {
	Error *GraphError `json:"error"`
}

func decodeGraph(resp *http.Response, out any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env graphEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		slog.Error("graph api error", "code", env.Error.Code, "subcode", env.Error.Subcode, "message", env.Error.Message)
		return translateError(env.Error)
	}

	if out != nil {
		return json.Unmarshal(body, out)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.GraphURL+"/"+c.Version+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	return decodeGraph(resp, out)
}

func (c *Client) postForm(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.GraphURL+"/"+c.Version+path, bytes.NewBufferString(params.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	return decodeGraph(resp, out)
}

func (c *Client) delete(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.GraphURL+"/"+c.Version+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

// postFile uploads a local file as the "source" part of a multipart POST.
// The video host handles /videos; everything else goes to the graph host.
func (c *Client) postFile(ctx context.Context, host, path, filePath string, fields map[string]string, out any) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return err
		}
	}

	part, err := writer.CreateFormFile("source", filepath.Base(filePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		host+"/"+c.Version+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	return decodeGraph(resp, out)
}
