package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/quangdng/preschool-cms/internal/models"
)

type AssetFilter struct {
	MimePrefix string
	Query      string
	Page       int
	PageSize   int
}

type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Asset, error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Asset, error)
	GetByPublicIDs(ctx context.Context, publicIDs []uuid.UUID) ([]*models.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]*models.Asset, int64, error)
	SoftDelete(ctx context.Context, id int64) error
}

type assetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) AssetRepository {
	return &assetRepository{db: db}
}

const assetColumns = `id, public_id, storage, object_key, url, mime_type, byte_size,
	width, height, uploaded_by, created_at, deleted_at`

func scanAsset(row interface{ Scan(...any) error }) (*models.Asset, error) {
	var a models.Asset
	err := row.Scan(&a.ID, &a.PublicID, &a.Storage, &a.ObjectKey, &a.URL, &a.MimeType,
		&a.ByteSize, &a.Width, &a.Height, &a.UploadedBy, &a.CreatedAt, &a.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assetRepository) Create(ctx context.Context, asset *models.Asset) (int64, error) {
	query := `
		INSERT INTO assets (public_id, storage, object_key, url, mime_type, byte_size, width, height, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, asset.PublicID, asset.Storage, asset.ObjectKey,
		asset.URL, asset.MimeType, asset.ByteSize, asset.Width, asset.Height, asset.UploadedBy).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *assetRepository) GetByID(ctx context.Context, id int64) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1 AND deleted_at IS NULL`

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return asset, nil
}

func (r *assetRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE public_id = $1 AND deleted_at IS NULL`

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, publicID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return asset, nil
}

func (r *assetRepository) GetByPublicIDs(ctx context.Context, publicIDs []uuid.UUID) ([]*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE public_id = ANY($1) AND deleted_at IS NULL`

	ids := make([]string, 0, len(publicIDs))
	for _, id := range publicIDs {
		ids = append(ids, id.String())
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (r *assetRepository) List(ctx context.Context, filter AssetFilter) ([]*models.Asset, int64, error) {
	where := `WHERE deleted_at IS NULL`
	args := []any{}

	if filter.MimePrefix != "" {
		args = append(args, filter.MimePrefix+"%")
		where += fmt.Sprintf(" AND mime_type LIKE $%d", len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += fmt.Sprintf(" AND object_key ILIKE $%d", len(args))
	}

	var total int64
	countQuery := `SELECT count(*) FROM assets ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM assets %s
		ORDER BY id DESC
		LIMIT $%d OFFSET $%d`, assetColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, 0, err
		}
		assets = append(assets, asset)
	}
	return assets, total, rows.Err()
}

func (r *assetRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE assets SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
