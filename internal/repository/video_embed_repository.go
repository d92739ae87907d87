package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"

	"github.com/quangdng/preschool-cms/internal/models"
)

type VideoEmbedRepository interface {
	Create(ctx context.Context, embed *models.VideoEmbed) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.VideoEmbed, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.VideoEmbed, error)
	List(ctx context.Context) ([]*models.VideoEmbed, error)
}

type videoEmbedRepository struct {
	db *sql.DB
}

func NewVideoEmbedRepository(db *sql.DB) VideoEmbedRepository {
	return &videoEmbedRepository{db: db}
}

func (r *videoEmbedRepository) Create(ctx context.Context, embed *models.VideoEmbed) (int64, error) {
	query := `
		INSERT INTO video_embeds (provider, video_url, title)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, embed.Provider, embed.VideoURL, embed.Title).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *videoEmbedRepository) GetByID(ctx context.Context, id int64) (*models.VideoEmbed, error) {
	query := `SELECT id, provider, video_url, title, created_at FROM video_embeds WHERE id = $1`

	var e models.VideoEmbed
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Provider, &e.VideoURL, &e.Title, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &e, nil
}

func (r *videoEmbedRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.VideoEmbed, error) {
	query := `SELECT id, provider, video_url, title, created_at FROM video_embeds WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var embeds []*models.VideoEmbed
	for rows.Next() {
		var e models.VideoEmbed
		if err := rows.Scan(&e.ID, &e.Provider, &e.VideoURL, &e.Title, &e.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		embeds = append(embeds, &e)
	}
	return embeds, rows.Err()
}

func (r *videoEmbedRepository) List(ctx context.Context) ([]*models.VideoEmbed, error) {
	query := `SELECT id, provider, video_url, title, created_at FROM video_embeds ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var embeds []*models.VideoEmbed
	for rows.Next() {
		var e models.VideoEmbed
		if err := rows.Scan(&e.ID, &e.Provider, &e.VideoURL, &e.Title, &e.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		embeds = append(embeds, &e)
	}
	return embeds, rows.Err()
}
