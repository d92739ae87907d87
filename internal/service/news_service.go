package service

import (
	"context"
	"database/sql"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type NewsService interface {
	Create(ctx context.Context, actorID int64, req *transfer.NewsCreateRequest) (*transfer.PostResponse, error)
	Update(ctx context.Context, actorID, id int64, req *transfer.NewsUpdateRequest) (*transfer.PostResponse, error)
	Remove(ctx context.Context, actorID, id int64) error
	GetByID(ctx context.Context, id int64) (*transfer.PostResponse, error)
	List(ctx context.Context, status, query string, page, pageSize int) (*transfer.Page[transfer.PostResponse], error)
	ListPublished(ctx context.Context, page, pageSize int) (*transfer.Page[transfer.PostResponse], error)
	GetPublishedBySlug(ctx context.Context, slug string) (*transfer.PostResponse, error)
	CheckSlug(ctx context.Context, slug string, excludeID int64) (*transfer.SlugCheckResponse, error)
}

type newsService struct {
	workflow *contentWorkflow
}

func NewNewsService(
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
) NewsService {
	return &newsService{
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

func (s *newsService) Create(ctx context.Context, actorID int64, req *transfer.NewsCreateRequest) (*transfer.PostResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	post, err := s.workflow.create(ctx, actorID, models.PostTypeNews, contentCreateInput{
		Title:        req.Title,
		Slug:         req.Slug,
		Summary:      req.Summary,
		BodyHTML:     req.BodyHTML,
		AssetIDs:     req.AssetIDs,
		Publish:      req.Publish,
		SyncFacebook: req.SyncFacebook,
	})
	if err != nil {
		return nil, err
	}
	return s.workflow.response(ctx, post)
}

func (s *newsService) Update(ctx context.Context, actorID, id int64, req *transfer.NewsUpdateRequest) (*transfer.PostResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	post, err := s.workflow.update(ctx, actorID, id, models.PostTypeNews, contentUpdateInput{
		Title:        req.Title,
		Slug:         req.Slug,
		Summary:      req.Summary,
		BodyHTML:     req.BodyHTML,
		AssetIDs:     req.AssetIDs,
		Status:       req.Status,
		SyncFacebook: req.SyncFacebook,
	})
	if err != nil {
		return nil, err
	}
	return s.workflow.response(ctx, post)
}

func (s *newsService) Remove(ctx context.Context, actorID, id int64) error {
	return s.workflow.remove(ctx, actorID, id, models.PostTypeNews)
}

func (s *newsService) GetByID(ctx context.Context, id int64) (*transfer.PostResponse, error) {
	post, err := s.workflow.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil || post.Type != models.PostTypeNews {
		return nil, apperr.NotFound("news not found")
	}
	return s.workflow.response(ctx, post)
}

func (s *newsService) List(ctx context.Context, status, query string, page, pageSize int) (*transfer.Page[transfer.PostResponse], error) {
	page, pageSize = normalizePage(page, pageSize)

	posts, total, err := s.workflow.posts.List(ctx, repository.PostFilter{
		Type:     models.PostTypeNews,
		Status:   status,
		Query:    query,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}
	return s.workflow.page(ctx, posts, page, pageSize, total)
}

func (s *newsService) ListPublished(ctx context.Context, page, pageSize int) (*transfer.Page[transfer.PostResponse], error) {
	return s.List(ctx, models.StatusPublished, "", page, pageSize)
}

func (s *newsService) GetPublishedBySlug(ctx context.Context, slug string) (*transfer.PostResponse, error) {
	post, err := s.workflow.posts.GetPublishedBySlug(ctx, models.PostTypeNews, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperr.NotFound("news not found")
	}
	return s.workflow.response(ctx, post)
}

func (s *newsService) CheckSlug(ctx context.Context, slug string, excludeID int64) (*transfer.SlugCheckResponse, error) {
	normalized, available, err := s.workflow.checkSlug(ctx, models.PostTypeNews, slug, excludeID)
	if err != nil {
		return nil, err
	}
	return &transfer.SlugCheckResponse{Slug: normalized, Available: available}, nil
}
