package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/quangdng/preschool-cms/internal/models"
)

type BlockRepository interface {
	GetByCode(ctx context.Context, code string) (*models.Block, error)
	GetByID(ctx context.Context, id int64) (*models.Block, error)
	List(ctx context.Context) ([]*models.Block, error)
}

type blockRepository struct {
	db *sql.DB
}

func NewBlockRepository(db *sql.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) GetByCode(ctx context.Context, code string) (*models.Block, error) {
	query := `SELECT id, code, name, created_at FROM blocks WHERE code = $1`

	var b models.Block
	err := r.db.QueryRowContext(ctx, query, code).Scan(&b.ID, &b.Code, &b.Name, &b.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &b, nil
}

func (r *blockRepository) GetByID(ctx context.Context, id int64) (*models.Block, error) {
	query := `SELECT id, code, name, created_at FROM blocks WHERE id = $1`

	var b models.Block
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Code, &b.Name, &b.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &b, nil
}

func (r *blockRepository) List(ctx context.Context) ([]*models.Block, error) {
	query := `SELECT id, code, name, created_at FROM blocks ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var blocks []*models.Block
	for rows.Next() {
		var b models.Block
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		blocks = append(blocks, &b)
	}
	return blocks, rows.Err()
}
