package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/quangdng/preschool-cms/internal/models"
)

type PostAssetEntry struct {
	AssetID int64
	Caption string
}

type PostAssetRepository interface {
	ReplaceAll(ctx context.Context, tx *sql.Tx, postID int64, entries []PostAssetEntry) error
	GetAssetsByPostID(ctx context.Context, postID int64) ([]*models.Asset, error)
}

type postAssetRepository struct {
	db *sql.DB
}

func NewPostAssetRepository(db *sql.DB) PostAssetRepository {
	return &postAssetRepository{db: db}
}

// ReplaceAll swaps the full attachment list: delete everything, re-insert
// with positions 0..n-1 in the given order.
func (r *postAssetRepository) ReplaceAll(ctx context.Context, tx *sql.Tx, postID int64, entries []PostAssetEntry) error {
	deleteQuery := `DELETE FROM post_assets WHERE post_id = $1`
	insertQuery := `INSERT INTO post_assets (post_id, asset_id, caption, position) VALUES ($1, $2, $3, $4)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, deleteQuery, postID)
	} else {
		_, err = r.db.ExecContext(ctx, deleteQuery, postID)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	for i, entry := range entries {
		if tx != nil {
			_, err = tx.ExecContext(ctx, insertQuery, postID, entry.AssetID, entry.Caption, i)
		} else {
			_, err = r.db.ExecContext(ctx, insertQuery, postID, entry.AssetID, entry.Caption, i)
		}
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	return nil
}

func (r *postAssetRepository) GetAssetsByPostID(ctx context.Context, postID int64) ([]*models.Asset, error) {
	query := `
		SELECT a.id, a.public_id, a.storage, a.object_key, a.url, a.mime_type, a.byte_size,
			a.width, a.height, a.uploaded_by, a.created_at, a.deleted_at
		FROM post_assets pa
		JOIN assets a ON a.id = pa.asset_id
		WHERE pa.post_id = $1
		ORDER BY pa.position
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
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
