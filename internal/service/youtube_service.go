package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type YoutubeService interface {
	Upload(ctx context.Context, userID int64, req *transfer.YouTubeUploadRequest) (*transfer.YouTubeUploadResponse, error)
}

type youtubeService struct {
	auth      AuthService
	assets    AssetService
	uploadDir string
}

func NewYoutubeService(auth AuthService, assets AssetService, uploadDir string) YoutubeService {
	return &youtubeService{
		auth:      auth,
		assets:    assets,
		uploadDir: uploadDir,
	}
}

func (s *youtubeService) Upload(ctx context.Context, userID int64, req *transfer.YouTubeUploadRequest) (*transfer.YouTubeUploadResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	asset, err := s.assets.GetByPublicID(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(asset.MimeType, "video/") {
		return nil, apperr.Validation("asset is not a video").
			WithFields(map[string]string{"asset_id": "not_video"})
	}
	if asset.Storage != models.StorageLocal {
		return nil, apperr.Validation("only locally stored videos can be uploaded").
			WithFields(map[string]string{"asset_id": "not_local"})
	}

	accessToken, err := s.auth.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	yt, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, apperr.External("youtube client init failed").WithCause(err)
	}

	file, err := os.Open(filepath.Join(s.uploadDir, asset.ObjectKey))
	if err != nil {
		return nil, fmt.Errorf("asset file missing on disk: %s: %w", asset.ObjectKey, err)
	}
	defer file.Close()

	privacy := req.Privacy
	if privacy == "" {
		privacy = "unlisted"
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       req.Title,
			Description: req.Description,
		},
		Status: &youtube.VideoStatus{PrivacyStatus: privacy},
	}

	call := yt.Videos.Insert([]string{"snippet", "status"}, video)
	uploaded, err := call.Media(file).Do()
	if err != nil {
		return nil, apperr.External("youtube upload failed").WithCause(err)
	}

	return &transfer.YouTubeUploadResponse{
		VideoID:  uploaded.Id,
		VideoURL: "https://www.youtube.com/watch?v=" + uploaded.Id,
	}, nil
}
