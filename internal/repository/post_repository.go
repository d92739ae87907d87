package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/quangdng/preschool-cms/internal/models"
)

type PostFilter struct {
	Type      string
	Status    string
	BlockCode string
	Query     string
	Page      int
	PageSize  int
}

type PostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetBySlug(ctx context.Context, postType, slug string) (*models.Post, error)
	GetPublishedBySlug(ctx context.Context, postType, slug string) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error)
	Update(ctx context.Context, tx *sql.Tx, post *models.Post) error
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status string, publishedAt *time.Time) error
	SoftDelete(ctx context.Context, tx *sql.Tx, id int64) error
	SlugExists(ctx context.Context, postType, slug string, excludeID int64) (bool, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, type, title, slug, summary, body_html, status, block_id, author_id,
	published_at, created_at, updated_at, deleted_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Type, &p.Title, &p.Slug, &p.Summary, &p.BodyHTML, &p.Status,
		&p.BlockID, &p.AuthorID, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (type, title, slug, summary, body_html, status, block_id, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, post.Type, post.Title, post.Slug, post.Summary,
			post.BodyHTML, post.Status, post.BlockID, post.AuthorID, post.PublishedAt).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, post.Type, post.Title, post.Slug, post.Summary,
			post.BodyHTML, post.Status, post.BlockID, post.AuthorID, post.PublishedAt).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1 AND deleted_at IS NULL`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, postType, slug string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE type = $1 AND slug = $2 AND deleted_at IS NULL`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, postType, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) GetPublishedBySlug(ctx context.Context, postType, slug string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE type = $1 AND slug = $2 AND status = 'published' AND deleted_at IS NULL`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, postType, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error) {
	where := `WHERE type = $1 AND deleted_at IS NULL`
	args := []any{filter.Type}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.BlockCode != "" {
		args = append(args, filter.BlockCode)
		where += fmt.Sprintf(" AND block_id = (SELECT id FROM blocks WHERE code = $%d)", len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}

	var total int64
	countQuery := `SELECT count(*) FROM posts ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM posts %s
		ORDER BY COALESCE(published_at, created_at) DESC, id DESC
		LIMIT $%d OFFSET $%d`, postColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	return posts, total, rows.Err()
}

func (r *postRepository) Update(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $1,
			slug = $2,
			summary = $3,
			body_html = $4,
			status = $5,
			block_id = $6,
			published_at = $7,
			updated_at = now()
		WHERE id = $8
	`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, post.Title, post.Slug, post.Summary, post.BodyHTML,
			post.Status, post.BlockID, post.PublishedAt, post.ID)
	} else {
		_, err = r.db.ExecContext(ctx, query, post.Title, post.Slug, post.Summary, post.BodyHTML,
			post.Status, post.BlockID, post.PublishedAt, post.ID)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status string, publishedAt *time.Time) error {
	query := `
		UPDATE posts
		SET status = $1,
			published_at = $2,
			updated_at = now()
		WHERE id = $3
	`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, status, publishedAt, id)
	} else {
		_, err = r.db.ExecContext(ctx, query, status, publishedAt, id)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) SoftDelete(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `UPDATE posts SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`

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

func (r *postRepository) SlugExists(ctx context.Context, postType, slug string, excludeID int64) (bool, error) {
	query := `SELECT 1 FROM posts WHERE type = $1 AND slug = $2 AND deleted_at IS NULL AND id <> $3`

	var result int
	err := r.db.QueryRowContext(ctx, query, postType, slug, excludeID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}
