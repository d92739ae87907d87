package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/quangdng/preschool-cms/internal/models"
)

type PostRevisionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, revision *models.PostRevision) (int64, error)
	GetByPostID(ctx context.Context, postID int64) ([]*models.PostRevision, error)
}

type postRevisionRepository struct {
	db *sql.DB
}

func NewPostRevisionRepository(db *sql.DB) PostRevisionRepository {
	return &postRevisionRepository{db: db}
}

func (r *postRevisionRepository) Create(ctx context.Context, tx *sql.Tx, revision *models.PostRevision) (int64, error) {
	query := `
		INSERT INTO post_revisions (post_id, title, summary, body_html, editor_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, revision.PostID, revision.Title, revision.Summary,
			revision.BodyHTML, revision.EditorID).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, revision.PostID, revision.Title, revision.Summary,
			revision.BodyHTML, revision.EditorID).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRevisionRepository) GetByPostID(ctx context.Context, postID int64) ([]*models.PostRevision, error) {
	query := `SELECT id, post_id, title, summary, body_html, editor_id, created_at
		FROM post_revisions WHERE post_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var revisions []*models.PostRevision
	for rows.Next() {
		var rev models.PostRevision
		err := rows.Scan(&rev.ID, &rev.PostID, &rev.Title, &rev.Summary, &rev.BodyHTML, &rev.EditorID, &rev.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		revisions = append(revisions, &rev)
	}
	return revisions, rows.Err()
}
