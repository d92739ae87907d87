package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/internal/storage"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

const (
	maxImageBytes = 10 << 20
	maxVideoBytes = 500 << 20
)

type AssetService interface {
	Upload(ctx context.Context, userID int64, fh *multipart.FileHeader) (*transfer.AssetResponse, error)
	List(ctx context.Context, mimePrefix, query string, page, pageSize int) (*transfer.Page[transfer.AssetResponse], error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Asset, error)
	ResolveByPublicIDs(ctx context.Context, publicIDs []uuid.UUID) ([]*models.Asset, error)
}

type assetService struct {
	assets repository.AssetRepository
	store  storage.Storage
}

func NewAssetService(assets repository.AssetRepository, store storage.Storage) AssetService {
	return &assetService{assets: assets, store: store}
}

func (s *assetService) Upload(ctx context.Context, userID int64, fh *multipart.FileHeader) (*transfer.AssetResponse, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, apperr.Validation("unrecognized file type").
			WithFields(map[string]string{"file": "unsupported"})
	}

	mimeType := kind.MIME.Value
	var prefix string
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		prefix = "images"
		if len(data) > maxImageBytes {
			return nil, apperr.Validation("image exceeds the 10MB limit").
				WithFields(map[string]string{"file": "too_large"})
		}
	case strings.HasPrefix(mimeType, "video/"):
		prefix = "videos"
		if len(data) > maxVideoBytes {
			return nil, apperr.Validation("video exceeds the 500MB limit").
				WithFields(map[string]string{"file": "too_large"})
		}
	default:
		return nil, apperr.Validation("only image and video uploads are accepted").
			WithFields(map[string]string{"file": "unsupported"})
	}

	name, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	key := path.Join(prefix, fmt.Sprintf("%04d/%02d", now.Year(), now.Month()), name+"."+kind.Extension)

	if err := s.store.Save(ctx, key, data, mimeType); err != nil {
		return nil, err
	}

	asset := &models.Asset{
		PublicID:   uuid.New(),
		Storage:    s.store.Name(),
		ObjectKey:  key,
		URL:        s.store.PublicURL(key),
		MimeType:   mimeType,
		ByteSize:   int64(len(data)),
		UploadedBy: &userID,
	}

	if prefix == "images" {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			asset.Width = &cfg.Width
			asset.Height = &cfg.Height
		}
	}

	id, err := s.assets.Create(ctx, asset)
	if err != nil {
		return nil, err
	}
	asset.ID = id
	asset.CreatedAt = now

	resp := transfer.ToAssetResponse(asset)
	return &resp, nil
}

func (s *assetService) List(ctx context.Context, mimePrefix, query string, page, pageSize int) (*transfer.Page[transfer.AssetResponse], error) {
	page, pageSize = normalizePage(page, pageSize)

	assets, total, err := s.assets.List(ctx, repository.AssetFilter{
		MimePrefix: mimePrefix,
		Query:      query,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]transfer.AssetResponse, 0, len(assets))
	for _, a := range assets {
		items = append(items, transfer.ToAssetResponse(a))
	}
	return &transfer.Page[transfer.AssetResponse]{
		Items: items,
		Meta:  transfer.NewMeta(page, pageSize, total),
	}, nil
}

func (s *assetService) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Asset, error) {
	asset, err := s.assets.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, apperr.NotFound(fmt.Sprintf("asset %s not found", publicID))
	}
	return asset, nil
}

// ResolveByPublicIDs is all or nothing: any id that does not resolve to a
// live asset fails the whole call, naming exactly the missing ids. Order
// of the result follows the order of the request. Duplicate ids are a
// validation error; letting them through would trip the per-post unique
// constraint downstream.
func (s *assetService) ResolveByPublicIDs(ctx context.Context, publicIDs []uuid.UUID) ([]*models.Asset, error) {
	if len(publicIDs) == 0 {
		return nil, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(publicIDs))
	for _, id := range publicIDs {
		if _, dup := seen[id]; dup {
			return nil, apperr.Validation("duplicate asset id: " + id.String())
		}
		seen[id] = struct{}{}
	}

	found, err := s.assets.GetByPublicIDs(ctx, publicIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*models.Asset, len(found))
	for _, a := range found {
		byID[a.PublicID] = a
	}

	resolved := make([]*models.Asset, 0, len(publicIDs))
	var missing []string
	for _, id := range publicIDs {
		asset, ok := byID[id]
		if !ok {
			missing = append(missing, id.String())
			continue
		}
		resolved = append(resolved, asset)
	}
	if len(missing) > 0 {
		return nil, apperr.New(fiber.StatusBadRequest, "not_found",
			"unknown asset ids: "+strings.Join(missing, ", "))
	}
	return resolved, nil
}
