package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

// allowedBlockCodes are the class groups an announcement can target.
var allowedBlockCodes = map[string]bool{
	"bee":     true,
	"mouse":   true,
	"bear":    true,
	"dolphin": true,
}

type AnnouncementService interface {
	Create(ctx context.Context, actorID int64, req *transfer.AnnouncementCreateRequest) (*transfer.PostResponse, error)
	Update(ctx context.Context, actorID, id int64, req *transfer.AnnouncementUpdateRequest) (*transfer.PostResponse, error)
	Remove(ctx context.Context, actorID, id int64) error
	GetByID(ctx context.Context, id int64) (*transfer.PostResponse, error)
	List(ctx context.Context, status, blockCode, query string, page, pageSize int) (*transfer.Page[transfer.PostResponse], error)
	ListPublished(ctx context.Context, blockCode string, page, pageSize int) (*transfer.Page[transfer.PostResponse], error)
	GetPublishedBySlug(ctx context.Context, slug string) (*transfer.PostResponse, error)
	CheckSlug(ctx context.Context, slug string, excludeID int64) (*transfer.SlugCheckResponse, error)
}

type announcementService struct {
	workflow *contentWorkflow
}

func NewAnnouncementService(
	db *sql.DB,
	posts repository.PostRepository,
	revisions repository.PostRevisionRepository,
	media repository.PostAssetRepository,
	fblog repository.FacebookLogRepository,
	users repository.UserRepository,
	blocks repository.BlockRepository,
	assets AssetResolver,
	publisher FacebookPublisher,
	tokens FacebookTokenSource,
) AnnouncementService {
	return &announcementService{
		workflow: &contentWorkflow{
			db:        db,
			posts:     posts,
			revisions: revisions,
			media:     media,
			fblog:     fblog,
			users:     users,
			blocks:    blocks,
			assets:    assets,
			publisher: publisher,
			tokens:    tokens,
		},
	}
}

func (s *announcementService) resolveBlock(ctx context.Context, code string) (*int64, error) {
	if !allowedBlockCodes[code] {
		return nil, apperr.New(fiber.StatusBadRequest, "not_found",
			fmt.Sprintf("unknown block code %q", code))
	}

	block, err := s.workflow.blocks.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, apperr.New(fiber.StatusBadRequest, "not_found",
			fmt.Sprintf("unknown block code %q", code))
	}
	return &block.ID, nil
}

func (s *announcementService) Create(ctx context.Context, actorID int64, req *transfer.AnnouncementCreateRequest) (*transfer.PostResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	blockID, err := s.resolveBlock(ctx, req.BlockCode)
	if err != nil {
		return nil, err
	}

	post, err := s.workflow.create(ctx, actorID, models.PostTypeAnnouncement, contentCreateInput{
		Title:        req.Title,
		Slug:         req.Slug,
		Summary:      req.Summary,
		BodyHTML:     req.BodyHTML,
		BlockID:      blockID,
		AssetIDs:     req.AssetIDs,
		Publish:      req.Publish,
		SyncFacebook: req.SyncFacebook,
	})
	if err != nil {
		return nil, err
	}
	return s.workflow.response(ctx, post)
}

func (s *announcementService) Update(ctx context.Context, actorID, id int64, req *transfer.AnnouncementUpdateRequest) (*transfer.PostResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	var blockID *int64
	if req.BlockCode != nil {
		var err error
		blockID, err = s.resolveBlock(ctx, *req.BlockCode)
		if err != nil {
			return nil, err
		}
	}

	post, err := s.workflow.update(ctx, actorID, id, models.PostTypeAnnouncement, contentUpdateInput{
		Title:        req.Title,
		Slug:         req.Slug,
		Summary:      req.Summary,
		BodyHTML:     req.BodyHTML,
		BlockID:      blockID,
		AssetIDs:     req.AssetIDs,
		Status:       req.Status,
		SyncFacebook: req.SyncFacebook,
	})
	if err != nil {
		return nil, err
	}
	return s.workflow.response(ctx, post)
}

func (s *announcementService) Remove(ctx context.Context, actorID, id int64) error {
	return s.workflow.remove(ctx, actorID, id, models.PostTypeAnnouncement)
}

func (s *announcementService) GetByID(ctx context.Context, id int64) (*transfer.PostResponse, error) {
	post, err := s.workflow.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil || post.Type != models.PostTypeAnnouncement {
		return nil, apperr.NotFound("announcement not found")
	}
	return s.workflow.response(ctx, post)
}

func (s *announcementService) List(ctx context.Context, status, blockCode, query string, page, pageSize int) (*transfer.Page[transfer.PostResponse], error) {
	page, pageSize = normalizePage(page, pageSize)

	posts, total, err := s.workflow.posts.List(ctx, repository.PostFilter{
		Type:      models.PostTypeAnnouncement,
		Status:    status,
		BlockCode: blockCode,
		Query:     query,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return nil, err
	}
	return s.workflow.page(ctx, posts, page, pageSize, total)
}

func (s *announcementService) ListPublished(ctx context.Context, blockCode string, page, pageSize int) (*transfer.Page[transfer.PostResponse], error) {
	return s.List(ctx, models.StatusPublished, blockCode, "", page, pageSize)
}

func (s *announcementService) GetPublishedBySlug(ctx context.Context, slug string) (*transfer.PostResponse, error) {
	post, err := s.workflow.posts.GetPublishedBySlug(ctx, models.PostTypeAnnouncement, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperr.NotFound("announcement not found")
	}
	return s.workflow.response(ctx, post)
}

func (s *announcementService) CheckSlug(ctx context.Context, slug string, excludeID int64) (*transfer.SlugCheckResponse, error) {
	normalized, available, err := s.workflow.checkSlug(ctx, models.PostTypeAnnouncement, slug, excludeID)
	if err != nil {
		return nil, err
	}
	return &transfer.SlugCheckResponse{Slug: normalized, Available: available}, nil
}
