package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/preschool-cms/internal/facebook"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
)

// Hand-written fakes for the workflow's collaborators. Embedding the
// interface keeps them small; a call to an unstubbed method panics, which
// is exactly what a test wants to hear.

type fakePostRepo struct {
	repository.PostRepository
	byID      map[int64]*models.Post
	nextID    int64
	slugTaken bool
	updated   *models.Post
	deleted   []int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{byID: make(map[int64]*models.Post), nextID: 100}
}

func (f *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	f.nextID++
	cp := *post
	cp.ID = f.nextID
	f.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) Update(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	cp := *post
	f.byID[post.ID] = &cp
	f.updated = &cp
	return nil
}

func (f *fakePostRepo) SoftDelete(ctx context.Context, tx *sql.Tx, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePostRepo) SlugExists(ctx context.Context, postType, slug string, excludeID int64) (bool, error) {
	return f.slugTaken, nil
}

type fakeRevisionRepo struct {
	repository.PostRevisionRepository
	created []*models.PostRevision
}

func (f *fakeRevisionRepo) Create(ctx context.Context, tx *sql.Tx, revision *models.PostRevision) (int64, error) {
	f.created = append(f.created, revision)
	return int64(len(f.created)), nil
}

type fakeMediaRepo struct {
	repository.PostAssetRepository
	replaced map[int64][]repository.PostAssetEntry
	assets   map[int64][]*models.Asset
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{
		replaced: make(map[int64][]repository.PostAssetEntry),
		assets:   make(map[int64][]*models.Asset),
	}
}

func (f *fakeMediaRepo) ReplaceAll(ctx context.Context, tx *sql.Tx, postID int64, entries []repository.PostAssetEntry) error {
	f.replaced[postID] = entries
	return nil
}

func (f *fakeMediaRepo) GetAssetsByPostID(ctx context.Context, postID int64) ([]*models.Asset, error) {
	return f.assets[postID], nil
}

type fakeFBLogRepo struct {
	repository.FacebookLogRepository
	records map[int64]*models.FacebookPostLog
	upserts []models.FacebookPostLog
}

func newFakeFBLogRepo() *fakeFBLogRepo {
	return &fakeFBLogRepo{records: make(map[int64]*models.FacebookPostLog)}
}

func (f *fakeFBLogRepo) Upsert(ctx context.Context, tx *sql.Tx, log *models.FacebookPostLog) error {
	cp := *log
	f.records[log.PostID] = &cp
	f.upserts = append(f.upserts, cp)
	return nil
}

func (f *fakeFBLogRepo) GetByPostID(ctx context.Context, postID int64) (*models.FacebookPostLog, error) {
	record, ok := f.records[postID]
	if !ok {
		return nil, nil
	}
	cp := *record
	return &cp, nil
}

type fakeUserRepo struct {
	repository.UserRepository
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id}, nil
}

type fakeBlockRepo struct {
	repository.BlockRepository
}

func (f *fakeBlockRepo) GetByCode(ctx context.Context, code string) (*models.Block, error) {
	return &models.Block{ID: 3, Code: code}, nil
}

func (f *fakeBlockRepo) GetByID(ctx context.Context, id int64) (*models.Block, error) {
	return &models.Block{ID: id, Code: "bee"}, nil
}

type fakeResolver struct {
	assets []*models.Asset
	err    error
}

func (f *fakeResolver) ResolveByPublicIDs(ctx context.Context, publicIDs []uuid.UUID) ([]*models.Asset, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.assets, nil
}

type fakePublisher struct {
	publishID       string
	publishErr      error
	publishCalls    int
	lastAssets      []*models.Asset
	unpublished     []string
	unpublishResult bool
}

func (f *fakePublisher) Publish(ctx context.Context, post *models.Post, assets []*models.Asset, cred facebook.Credential) (string, error) {
	f.publishCalls++
	f.lastAssets = assets
	if f.publishErr != nil {
		return "", f.publishErr
	}
	return f.publishID, nil
}

func (f *fakePublisher) Unpublish(ctx context.Context, fbPostID string, cred facebook.Credential) bool {
	f.unpublished = append(f.unpublished, fbPostID)
	return f.unpublishResult
}

type fakeTokens struct {
	cred facebook.Credential
	err  error
}

func (f *fakeTokens) GetValidToken(ctx context.Context, user *models.User) (facebook.Credential, error) {
	return f.cred, f.err
}

type workflowFixture struct {
	mock      sqlmock.Sqlmock
	posts     *fakePostRepo
	revisions *fakeRevisionRepo
	media     *fakeMediaRepo
	fblog     *fakeFBLogRepo
	resolver  *fakeResolver
	publisher *fakePublisher
	tokens    *fakeTokens

	news          NewsService
	announcements AnnouncementService
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &workflowFixture{
		mock:      mock,
		posts:     newFakePostRepo(),
		revisions: &fakeRevisionRepo{},
		media:     newFakeMediaRepo(),
		fblog:     newFakeFBLogRepo(),
		resolver:  &fakeResolver{},
		publisher: &fakePublisher{publishID: "page_1", unpublishResult: true},
		tokens:    &fakeTokens{cred: facebook.Credential{PageID: "page", AccessToken: "tok"}},
	}

	f.news = NewNewsService(db, f.posts, f.revisions, f.media, f.fblog,
		&fakeUserRepo{}, &fakeBlockRepo{}, f.resolver, f.publisher, f.tokens)
	f.announcements = NewAnnouncementService(db, f.posts, f.revisions, f.media, f.fblog,
		&fakeUserRepo{}, &fakeBlockRepo{}, f.resolver, f.publisher, f.tokens)
	return f
}
