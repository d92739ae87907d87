package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/quangdng/preschool-cms/internal/models"
)

type FacebookLogRepository interface {
	Upsert(ctx context.Context, tx *sql.Tx, log *models.FacebookPostLog) error
	GetByPostID(ctx context.Context, postID int64) (*models.FacebookPostLog, error)
}

type facebookLogRepository struct {
	db *sql.DB
}

func NewFacebookLogRepository(db *sql.DB) FacebookLogRepository {
	return &facebookLogRepository{db: db}
}

// Upsert keeps one row per post holding the latest publish outcome.
func (r *facebookLogRepository) Upsert(ctx context.Context, tx *sql.Tx, log *models.FacebookPostLog) error {
	query := `
		INSERT INTO facebook_post_log (post_id, fb_post_id, status, error_message)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (post_id) DO UPDATE
		SET fb_post_id = EXCLUDED.fb_post_id,
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			updated_at = now()
	`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, log.PostID, log.FBPostID, log.Status, log.ErrorMessage)
	} else {
		_, err = r.db.ExecContext(ctx, query, log.PostID, log.FBPostID, log.Status, log.ErrorMessage)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *facebookLogRepository) GetByPostID(ctx context.Context, postID int64) (*models.FacebookPostLog, error) {
	query := `SELECT id, post_id, fb_post_id, status, error_message, created_at, updated_at
		FROM facebook_post_log WHERE post_id = $1`

	var l models.FacebookPostLog
	err := r.db.QueryRowContext(ctx, query, postID).Scan(&l.ID, &l.PostID, &l.FBPostID,
		&l.Status, &l.ErrorMessage, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &l, nil
}
