package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/internal/transfer"
	"github.com/quangdng/preschool-cms/pkg/utils"
)

type AlbumService interface {
	Create(ctx context.Context, req *transfer.AlbumCreateRequest) (*transfer.AlbumResponse, error)
	Update(ctx context.Context, id int64, req *transfer.AlbumUpdateRequest) (*transfer.AlbumResponse, error)
	Remove(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*transfer.AlbumResponse, error)
	GetBySlug(ctx context.Context, slug string) (*transfer.AlbumResponse, error)
	List(ctx context.Context, query string, page, pageSize int) (*transfer.Page[transfer.AlbumResponse], error)
	CreateEmbed(ctx context.Context, req *transfer.VideoEmbedCreateRequest) (*transfer.VideoEmbedResponse, error)
	ListEmbeds(ctx context.Context) ([]transfer.VideoEmbedResponse, error)
}

type albumService struct {
	db     *sql.DB
	albums repository.AlbumRepository
	embeds repository.VideoEmbedRepository
	assets AssetResolver
	lookup repository.AssetRepository
}

func NewAlbumService(
	db *sql.DB,
	albums repository.AlbumRepository,
	embeds repository.VideoEmbedRepository,
	assets AssetResolver,
	lookup repository.AssetRepository,
) AlbumService {
	return &albumService{
		db:     db,
		albums: albums,
		embeds: embeds,
		assets: assets,
		lookup: lookup,
	}
}

func (s *albumService) Create(ctx context.Context, req *transfer.AlbumCreateRequest) (*transfer.AlbumResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	slug := req.Slug
	if slug == "" {
		slug = req.Title
	}
	slug = utils.Slugify(slug)
	if slug == "" {
		return nil, apperr.Validation("cannot derive a slug from the title").
			WithFields(map[string]string{"slug": "invalid"})
	}

	exists, err := s.albums.SlugExists(ctx, slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict(fmt.Sprintf("slug %q is already in use", slug))
	}

	coverID, err := s.resolveCover(ctx, req.CoverAssetID)
	if err != nil {
		return nil, err
	}
	items, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	embedIDs, err := s.resolveEmbeds(ctx, req.Videos)
	if err != nil {
		return nil, err
	}

	album := &models.Album{
		Title:        req.Title,
		Slug:         slug,
		Description:  req.Description,
		CoverAssetID: coverID,
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	albumID, err := s.albums.Create(ctx, tx, album)
	if err != nil {
		return nil, err
	}
	album.ID = albumID

	if err = s.albums.ReplaceItems(ctx, tx, albumID, items); err != nil {
		return nil, err
	}
	if err = s.albums.ReplaceVideos(ctx, tx, albumID, embedIDs); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return s.response(ctx, album, true)
}

func (s *albumService) Update(ctx context.Context, id int64, req *transfer.AlbumUpdateRequest) (*transfer.AlbumResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	album, err := s.albums.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, apperr.NotFound("album not found")
	}

	if req.Title != nil && *req.Title != album.Title {
		album.Title = *req.Title
		album.Slug = utils.Slugify(*req.Title)
	}
	if req.Slug != nil && *req.Slug != "" {
		album.Slug = utils.Slugify(*req.Slug)
	}
	if album.Slug == "" {
		return nil, apperr.Validation("cannot derive a slug from the title").
			WithFields(map[string]string{"slug": "invalid"})
	}
	if req.Description != nil {
		album.Description = *req.Description
	}
	if req.CoverAssetID != nil {
		coverID, err := s.resolveCover(ctx, req.CoverAssetID)
		if err != nil {
			return nil, err
		}
		album.CoverAssetID = coverID
	}

	exists, err := s.albums.SlugExists(ctx, album.Slug, album.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict(fmt.Sprintf("slug %q is already in use", album.Slug))
	}

	var items []repository.AlbumItemEntry
	if req.Items != nil {
		items, err = s.resolveItems(ctx, *req.Items)
		if err != nil {
			return nil, err
		}
	}
	var embedIDs []int64
	if req.Videos != nil {
		embedIDs, err = s.resolveEmbeds(ctx, *req.Videos)
		if err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	if err = s.albums.Update(ctx, tx, album); err != nil {
		return nil, err
	}
	if req.Items != nil {
		if err = s.albums.ReplaceItems(ctx, tx, album.ID, items); err != nil {
			return nil, err
		}
	}
	if req.Videos != nil {
		if err = s.albums.ReplaceVideos(ctx, tx, album.ID, embedIDs); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return s.response(ctx, album, true)
}

func (s *albumService) Remove(ctx context.Context, id int64) error {
	album, err := s.albums.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if album == nil {
		return apperr.NotFound("album not found")
	}
	return s.albums.SoftDelete(ctx, nil, id)
}

func (s *albumService) GetByID(ctx context.Context, id int64) (*transfer.AlbumResponse, error) {
	album, err := s.albums.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, apperr.NotFound("album not found")
	}
	return s.response(ctx, album, true)
}

func (s *albumService) GetBySlug(ctx context.Context, slug string) (*transfer.AlbumResponse, error) {
	album, err := s.albums.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, apperr.NotFound("album not found")
	}
	return s.response(ctx, album, true)
}

func (s *albumService) List(ctx context.Context, query string, page, pageSize int) (*transfer.Page[transfer.AlbumResponse], error) {
	page, pageSize = normalizePage(page, pageSize)

	albums, total, err := s.albums.List(ctx, repository.AlbumFilter{
		Query:    query,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]transfer.AlbumResponse, 0, len(albums))
	for _, album := range albums {
		resp, err := s.response(ctx, album, false)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &transfer.Page[transfer.AlbumResponse]{
		Items: items,
		Meta:  transfer.NewMeta(page, pageSize, total),
	}, nil
}

func (s *albumService) CreateEmbed(ctx context.Context, req *transfer.VideoEmbedCreateRequest) (*transfer.VideoEmbedResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	embed := &models.VideoEmbed{
		Provider: req.Provider,
		VideoURL: req.VideoURL,
		Title:    req.Title,
	}
	id, err := s.embeds.Create(ctx, embed)
	if err != nil {
		return nil, err
	}
	embed.ID = id

	return &transfer.VideoEmbedResponse{
		ID:       embed.ID,
		Provider: embed.Provider,
		VideoURL: embed.VideoURL,
		Title:    embed.Title,
	}, nil
}

func (s *albumService) ListEmbeds(ctx context.Context) ([]transfer.VideoEmbedResponse, error) {
	embeds, err := s.embeds.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transfer.VideoEmbedResponse, 0, len(embeds))
	for _, e := range embeds {
		out = append(out, transfer.VideoEmbedResponse{
			ID:       e.ID,
			Provider: e.Provider,
			VideoURL: e.VideoURL,
			Title:    e.Title,
		})
	}
	return out, nil
}

func (s *albumService) resolveCover(ctx context.Context, publicID *uuid.UUID) (*int64, error) {
	if publicID == nil {
		return nil, nil
	}
	resolved, err := s.assets.ResolveByPublicIDs(ctx, []uuid.UUID{*publicID})
	if err != nil {
		return nil, err
	}
	return &resolved[0].ID, nil
}

func (s *albumService) resolveItems(ctx context.Context, reqs []transfer.AlbumItemRequest) ([]repository.AlbumItemEntry, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(reqs))
	for _, item := range reqs {
		ids = append(ids, item.AssetID)
	}
	resolved, err := s.assets.ResolveByPublicIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]repository.AlbumItemEntry, 0, len(reqs))
	for i, item := range reqs {
		entries = append(entries, repository.AlbumItemEntry{
			AssetID: resolved[i].ID,
			Caption: item.Caption,
		})
	}
	return entries, nil
}

func (s *albumService) resolveEmbeds(ctx context.Context, reqs []transfer.AlbumVideoRequest) ([]int64, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(reqs))
	for _, v := range reqs {
		ids = append(ids, v.EmbedID)
	}
	found, err := s.embeds.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	known := make(map[int64]bool, len(found))
	for _, e := range found {
		known[e.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return nil, apperr.New(fiber.StatusBadRequest, "not_found",
				fmt.Sprintf("unknown video embed id %d", id))
		}
	}
	return ids, nil
}

func (s *albumService) response(ctx context.Context, album *models.Album, includeItems bool) (*transfer.AlbumResponse, error) {
	resp := &transfer.AlbumResponse{
		ID:          album.ID,
		Title:       album.Title,
		Slug:        album.Slug,
		Description: album.Description,
		CreatedAt:   album.CreatedAt,
		UpdatedAt:   album.UpdatedAt,
	}

	if album.CoverAssetID != nil {
		cover, err := s.lookup.GetByID(ctx, *album.CoverAssetID)
		if err != nil {
			return nil, err
		}
		if cover != nil {
			c := transfer.ToAssetResponse(cover)
			resp.Cover = &c
		}
	}

	if !includeItems {
		return resp, nil
	}

	items, err := s.albums.GetItems(ctx, album.ID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		asset, err := s.lookup.GetByID(ctx, item.AssetID)
		if err != nil {
			return nil, err
		}
		if asset == nil {
			continue
		}
		resp.Items = append(resp.Items, transfer.AlbumItemResponse{
			Asset:    transfer.ToAssetResponse(asset),
			Caption:  item.Caption,
			Position: item.Position,
		})
	}

	videos, err := s.albums.GetVideos(ctx, album.ID)
	if err != nil {
		return nil, err
	}
	if len(videos) > 0 {
		ids := make([]int64, 0, len(videos))
		for _, v := range videos {
			ids = append(ids, v.EmbedID)
		}
		embeds, err := s.embeds.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[int64]*models.VideoEmbed, len(embeds))
		for _, e := range embeds {
			byID[e.ID] = e
		}
		for _, v := range videos {
			embed, ok := byID[v.EmbedID]
			if !ok {
				continue
			}
			resp.Videos = append(resp.Videos, transfer.AlbumVideoResponse{
				Embed: transfer.VideoEmbedResponse{
					ID:       embed.ID,
					Provider: embed.Provider,
					VideoURL: embed.VideoURL,
					Title:    embed.Title,
				},
				Position: v.Position,
			})
		}
	}

	return resp, nil
}
