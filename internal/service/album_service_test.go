package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type fakeAlbumRepo struct {
	repository.AlbumRepository
	byID      map[int64]*models.Album
	nextID    int64
	slugTaken bool
	items     map[int64][]repository.AlbumItemEntry
	videos    map[int64][]int64
}

func newFakeAlbumRepo() *fakeAlbumRepo {
	return &fakeAlbumRepo{
		byID:   make(map[int64]*models.Album),
		items:  make(map[int64][]repository.AlbumItemEntry),
		videos: make(map[int64][]int64),
	}
}

func (f *fakeAlbumRepo) Create(ctx context.Context, tx *sql.Tx, album *models.Album) (int64, error) {
	f.nextID++
	cp := *album
	cp.ID = f.nextID
	f.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeAlbumRepo) GetByID(ctx context.Context, id int64) (*models.Album, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAlbumRepo) Update(ctx context.Context, tx *sql.Tx, album *models.Album) error {
	cp := *album
	f.byID[album.ID] = &cp
	return nil
}

func (f *fakeAlbumRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return f.slugTaken, nil
}

func (f *fakeAlbumRepo) ReplaceItems(ctx context.Context, tx *sql.Tx, albumID int64, items []repository.AlbumItemEntry) error {
	f.items[albumID] = items
	return nil
}

func (f *fakeAlbumRepo) ReplaceVideos(ctx context.Context, tx *sql.Tx, albumID int64, embedIDs []int64) error {
	f.videos[albumID] = embedIDs
	return nil
}

func (f *fakeAlbumRepo) GetItems(ctx context.Context, albumID int64) ([]*models.AlbumItem, error) {
	var out []*models.AlbumItem
	for i, entry := range f.items[albumID] {
		out = append(out, &models.AlbumItem{
			AlbumID:  albumID,
			AssetID:  entry.AssetID,
			Caption:  entry.Caption,
			Position: i,
		})
	}
	return out, nil
}

func (f *fakeAlbumRepo) GetVideos(ctx context.Context, albumID int64) ([]*models.AlbumVideo, error) {
	var out []*models.AlbumVideo
	for i, embedID := range f.videos[albumID] {
		out = append(out, &models.AlbumVideo{AlbumID: albumID, EmbedID: embedID, Position: i})
	}
	return out, nil
}

type fakeEmbedRepo struct {
	repository.VideoEmbedRepository
	byID   map[int64]*models.VideoEmbed
	nextID int64
}

func newFakeEmbedRepo() *fakeEmbedRepo {
	return &fakeEmbedRepo{byID: make(map[int64]*models.VideoEmbed)}
}

func (f *fakeEmbedRepo) Create(ctx context.Context, embed *models.VideoEmbed) (int64, error) {
	f.nextID++
	cp := *embed
	cp.ID = f.nextID
	f.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeEmbedRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.VideoEmbed, error) {
	var out []*models.VideoEmbed
	for _, id := range ids {
		if e, ok := f.byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAssetLookup struct {
	repository.AssetRepository
	byID map[int64]*models.Asset
}

func (f *fakeAssetLookup) GetByID(ctx context.Context, id int64) (*models.Asset, error) {
	return f.byID[id], nil
}

type albumFixture struct {
	mock   sqlmock.Sqlmock
	albums *fakeAlbumRepo
	embeds *fakeEmbedRepo
	assets *fakeResolver
	svc    AlbumService
}

func newAlbumFixture(t *testing.T) *albumFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	albums := newFakeAlbumRepo()
	embeds := newFakeEmbedRepo()
	resolver := &fakeResolver{}
	lookup := &fakeAssetLookup{byID: map[int64]*models.Asset{
		1: {ID: 1, MimeType: "image/jpeg"},
		2: {ID: 2, MimeType: "image/png"},
	}}

	return &albumFixture{
		mock:   mock,
		albums: albums,
		embeds: embeds,
		assets: resolver,
		svc:    NewAlbumService(db, albums, embeds, resolver, lookup),
	}
}

func TestAlbumCreateWithItemsAndVideos(t *testing.T) {
	f := newAlbumFixture(t)
	f.assets.assets = []*models.Asset{
		{ID: 1, PublicID: uuid.New()},
		{ID: 2, PublicID: uuid.New()},
	}
	embedID, err := f.embeds.Create(context.Background(), &models.VideoEmbed{
		Provider: "youtube",
		VideoURL: "https://www.youtube.com/watch?v=abc",
	})
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.svc.Create(context.Background(), &transfer.AlbumCreateRequest{
		Title: "Dã ngoại mùa xuân",
		Items: []transfer.AlbumItemRequest{
			{AssetID: uuid.New(), Caption: "Cả lớp"},
			{AssetID: uuid.New()},
		},
		Videos: []transfer.AlbumVideoRequest{{EmbedID: embedID}},
	})
	require.NoError(t, err)

	assert.Equal(t, "da-ngoai-mua-xuan", resp.Slug)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Cả lớp", resp.Items[0].Caption)
	require.Len(t, resp.Videos, 1)
	assert.Equal(t, "youtube", resp.Videos[0].Embed.Provider)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAlbumCreateSlugConflict(t *testing.T) {
	f := newAlbumFixture(t)
	f.albums.slugTaken = true

	_, err := f.svc.Create(context.Background(), &transfer.AlbumCreateRequest{Title: "Trùng"})
	assertAppStatus(t, err, 409)
}

func TestAlbumCreateUnknownEmbed(t *testing.T) {
	f := newAlbumFixture(t)

	_, err := f.svc.Create(context.Background(), &transfer.AlbumCreateRequest{
		Title:  "Album",
		Videos: []transfer.AlbumVideoRequest{{EmbedID: 99}},
	})
	assertAppStatus(t, err, 400)
}

func TestAlbumUpdateReplacesItemsOnlyWhenSent(t *testing.T) {
	f := newAlbumFixture(t)
	f.albums.byID[1] = &models.Album{ID: 1, Title: "Cũ", Slug: "cu"}
	f.albums.items[1] = []repository.AlbumItemEntry{{AssetID: 1}}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	desc := "mô tả mới"
	resp, err := f.svc.Update(context.Background(), 1, &transfer.AlbumUpdateRequest{
		Description: &desc,
	})
	require.NoError(t, err)

	assert.Equal(t, "mô tả mới", resp.Description)
	// Items untouched by a partial update.
	require.Len(t, f.albums.items[1], 1)
}

func TestAlbumRemoveNotFound(t *testing.T) {
	f := newAlbumFixture(t)

	err := f.svc.Remove(context.Background(), 42)
	assertAppStatus(t, err, 404)
}

func TestCreateEmbedRejectsUnknownProvider(t *testing.T) {
	f := newAlbumFixture(t)

	_, err := f.svc.CreateEmbed(context.Background(), &transfer.VideoEmbedCreateRequest{
		Provider: "vimeo",
		VideoURL: "https://vimeo.com/1",
	})
	assertAppStatus(t, err, 422)
}
