package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/quangdng/preschool-cms/internal/models"
)

type AlbumFilter struct {
	Query    string
	Page     int
	PageSize int
}

type AlbumItemEntry struct {
	AssetID int64
	Caption string
}

type AlbumRepository interface {
	Create(ctx context.Context, tx *sql.Tx, album *models.Album) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Album, error)
	GetBySlug(ctx context.Context, slug string) (*models.Album, error)
	List(ctx context.Context, filter AlbumFilter) ([]*models.Album, int64, error)
	Update(ctx context.Context, tx *sql.Tx, album *models.Album) error
	SoftDelete(ctx context.Context, tx *sql.Tx, id int64) error
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	ReplaceItems(ctx context.Context, tx *sql.Tx, albumID int64, items []AlbumItemEntry) error
	ReplaceVideos(ctx context.Context, tx *sql.Tx, albumID int64, embedIDs []int64) error
	GetItems(ctx context.Context, albumID int64) ([]*models.AlbumItem, error)
	GetVideos(ctx context.Context, albumID int64) ([]*models.AlbumVideo, error)
}

type albumRepository struct {
	db *sql.DB
}

func NewAlbumRepository(db *sql.DB) AlbumRepository {
	return &albumRepository{db: db}
}

const albumColumns = `id, title, slug, description, cover_asset_id, created_at, updated_at, deleted_at`

func scanAlbum(row interface{ Scan(...any) error }) (*models.Album, error) {
	var a models.Album
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Description, &a.CoverAssetID,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *albumRepository) Create(ctx context.Context, tx *sql.Tx, album *models.Album) (int64, error) {
	query := `
		INSERT INTO albums (title, slug, description, cover_asset_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, album.Title, album.Slug, album.Description, album.CoverAssetID).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, album.Title, album.Slug, album.Description, album.CoverAssetID).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *albumRepository) GetByID(ctx context.Context, id int64) (*models.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE id = $1 AND deleted_at IS NULL`

	album, err := scanAlbum(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return album, nil
}

func (r *albumRepository) GetBySlug(ctx context.Context, slug string) (*models.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE slug = $1 AND deleted_at IS NULL`

	album, err := scanAlbum(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return album, nil
}

func (r *albumRepository) List(ctx context.Context, filter AlbumFilter) ([]*models.Album, int64, error) {
	where := `WHERE deleted_at IS NULL`
	args := []any{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}

	var total int64
	countQuery := `SELECT count(*) FROM albums ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM albums %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, albumColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}
	defer rows.Close()

	var albums []*models.Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, 0, err
		}
		albums = append(albums, album)
	}
	return albums, total, rows.Err()
}

func (r *albumRepository) Update(ctx context.Context, tx *sql.Tx, album *models.Album) error {
	query := `
		UPDATE albums
		SET title = $1,
			slug = $2,
			description = $3,
			cover_asset_id = $4,
			updated_at = now()
		WHERE id = $5
	`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, album.Title, album.Slug, album.Description, album.CoverAssetID, album.ID)
	} else {
		_, err = r.db.ExecContext(ctx, query, album.Title, album.Slug, album.Description, album.CoverAssetID, album.ID)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *albumRepository) SoftDelete(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `UPDATE albums SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, id)
	} else {
		_, err = r.db.ExecContext(ctx, query, id)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *albumRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	query := `SELECT 1 FROM albums WHERE slug = $1 AND deleted_at IS NULL AND id <> $2`

	var result int
	err := r.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *albumRepository) ReplaceItems(ctx context.Context, tx *sql.Tx, albumID int64, items []AlbumItemEntry) error {
	deleteQuery := `DELETE FROM album_items WHERE album_id = $1`
	insertQuery := `INSERT INTO album_items (album_id, asset_id, caption, position) VALUES ($1, $2, $3, $4)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, deleteQuery, albumID)
	} else {
		_, err = r.db.ExecContext(ctx, deleteQuery, albumID)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	for i, item := range items {
		if tx != nil {
			_, err = tx.ExecContext(ctx, insertQuery, albumID, item.AssetID, item.Caption, i)
		} else {
			_, err = r.db.ExecContext(ctx, insertQuery, albumID, item.AssetID, item.Caption, i)
		}
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	return nil
}

func (r *albumRepository) ReplaceVideos(ctx context.Context, tx *sql.Tx, albumID int64, embedIDs []int64) error {
	deleteQuery := `DELETE FROM album_videos WHERE album_id = $1`
	insertQuery := `INSERT INTO album_videos (album_id, embed_id, position) VALUES ($1, $2, $3)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, deleteQuery, albumID)
	} else {
		_, err = r.db.ExecContext(ctx, deleteQuery, albumID)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	for i, embedID := range embedIDs {
		if tx != nil {
			_, err = tx.ExecContext(ctx, insertQuery, albumID, embedID, i)
		} else {
			_, err = r.db.ExecContext(ctx, insertQuery, albumID, embedID, i)
		}
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	return nil
}

func (r *albumRepository) GetItems(ctx context.Context, albumID int64) ([]*models.AlbumItem, error) {
	query := `SELECT id, album_id, asset_id, caption, position
		FROM album_items WHERE album_id = $1 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, albumID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var items []*models.AlbumItem
	for rows.Next() {
		var item models.AlbumItem
		if err := rows.Scan(&item.ID, &item.AlbumID, &item.AssetID, &item.Caption, &item.Position); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *albumRepository) GetVideos(ctx context.Context, albumID int64) ([]*models.AlbumVideo, error) {
	query := `SELECT id, album_id, embed_id, position
		FROM album_videos WHERE album_id = $1 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, albumID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var videos []*models.AlbumVideo
	for rows.Next() {
		var v models.AlbumVideo
		if err := rows.Scan(&v.ID, &v.AlbumID, &v.EmbedID, &v.Position); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		videos = append(videos, &v)
	}
	return videos, rows.Err()
}
