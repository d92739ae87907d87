package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/quangdng/preschool-cms/internal/models"
)

type PushRepository interface {
	Upsert(ctx context.Context, sub *models.PushSubscription) (int64, error)
	RemoveByEndpoint(ctx context.Context, endpoint string) error
	List(ctx context.Context) ([]*models.PushSubscription, error)
}

type pushRepository struct {
	db *sql.DB
}

func NewPushRepository(db *sql.DB) PushRepository {
	return &pushRepository{db: db}
}

func (r *pushRepository) Upsert(ctx context.Context, sub *models.PushSubscription) (int64, error) {
	query := `
		INSERT INTO push_subscriptions (endpoint, p256dh, auth)
		VALUES ($1, $2, $3)
		ON CONFLICT (endpoint) DO UPDATE
		SET p256dh = EXCLUDED.p256dh,
			auth = EXCLUDED.auth
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, sub.Endpoint, sub.P256dh, sub.Auth).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *pushRepository) RemoveByEndpoint(ctx context.Context, endpoint string) error {
	query := `DELETE FROM push_subscriptions WHERE endpoint = $1`

	_, err := r.db.ExecContext(ctx, query, endpoint)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *pushRepository) List(ctx context.Context) ([]*models.PushSubscription, error) {
	query := `SELECT id, endpoint, p256dh, auth, created_at FROM push_subscriptions ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var subs []*models.PushSubscription
	for rows.Next() {
		var s models.PushSubscription
		if err := rows.Scan(&s.ID, &s.Endpoint, &s.P256dh, &s.Auth, &s.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}
