package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/quangdng/preschool-cms/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByGoogleSub(ctx context.Context, googleSub string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) (int64, error)
	UpdateGoogleTokens(ctx context.Context, id int64, accessToken, refreshToken *string, expiry *time.Time) error
	UpdateFacebookLink(ctx context.Context, id int64, link *models.User) error
	UpdateFacebookPageToken(ctx context.Context, id int64, pageToken *string, expiry *time.Time) error
	ListWithFacebookLink(ctx context.Context) ([]*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, google_sub, email, name, profile_picture,
	google_access_token, google_refresh_token, google_token_expiry,
	facebook_user_token, facebook_user_token_expiry,
	facebook_page_id, facebook_page_name, facebook_page_token, facebook_page_token_expiry,
	created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.GoogleSub, &u.Email, &u.Name, &u.ProfilePicture,
		&u.GoogleAccessToken, &u.GoogleRefreshToken, &u.GoogleTokenExpiry,
		&u.FacebookUserToken, &u.FacebookUserTokenExpiry,
		&u.FacebookPageID, &u.FacebookPageName, &u.FacebookPageToken, &u.FacebookPageTokenExpiry,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByGoogleSub(ctx context.Context, googleSub string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_sub = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, googleSub))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (google_sub, email, name, profile_picture)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (google_sub) DO UPDATE
		SET email = EXCLUDED.email,
			name = EXCLUDED.name,
			profile_picture = EXCLUDED.profile_picture,
			updated_at = now()
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, user.GoogleSub, user.Email, user.Name, user.ProfilePicture).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *userRepository) UpdateGoogleTokens(ctx context.Context, id int64, accessToken, refreshToken *string, expiry *time.Time) error {
	query := `
		UPDATE users
		SET google_access_token = $1,
			google_refresh_token = COALESCE($2, google_refresh_token),
			google_token_expiry = $3,
			updated_at = now()
		WHERE id = $4
	`

	_, err := r.db.ExecContext(ctx, query, accessToken, refreshToken, expiry, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) UpdateFacebookLink(ctx context.Context, id int64, link *models.User) error {
	query := `
		UPDATE users
		SET facebook_user_token = $1,
			facebook_user_token_expiry = $2,
			facebook_page_id = $3,
			facebook_page_name = $4,
			facebook_page_token = $5,
			facebook_page_token_expiry = $6,
			updated_at = now()
		WHERE id = $7
	`

	_, err := r.db.ExecContext(ctx, query,
		link.FacebookUserToken, link.FacebookUserTokenExpiry,
		link.FacebookPageID, link.FacebookPageName,
		link.FacebookPageToken, link.FacebookPageTokenExpiry, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) UpdateFacebookPageToken(ctx context.Context, id int64, pageToken *string, expiry *time.Time) error {
	query := `
		UPDATE users
		SET facebook_page_token = $1,
			facebook_page_token_expiry = $2,
			updated_at = now()
		WHERE id = $3
	`

	_, err := r.db.ExecContext(ctx, query, pageToken, expiry, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) ListWithFacebookLink(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE facebook_page_token IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
