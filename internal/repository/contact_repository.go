package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/quangdng/preschool-cms/internal/models"
)

type ContactFilter struct {
	Status   string
	Page     int
	PageSize int
}

type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ContactMessage, error)
	List(ctx context.Context, filter ContactFilter) ([]*models.ContactMessage, int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Remove(ctx context.Context, id int64) error
}

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, name, email, phone, subject, body, status, created_at`

func scanContact(row interface{ Scan(...any) error }) (*models.ContactMessage, error) {
	var m models.ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Body, &m.Status, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *contactRepository) Create(ctx context.Context, msg *models.ContactMessage) (int64, error) {
	query := `
		INSERT INTO contact_messages (name, email, phone, subject, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, msg.Name, msg.Email, msg.Phone, msg.Subject, msg.Body).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_messages WHERE id = $1`

	msg, err := scanContact(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return msg, nil
}

func (r *contactRepository) List(ctx context.Context, filter ContactFilter) ([]*models.ContactMessage, int64, error) {
	where := `WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int64
	countQuery := `SELECT count(*) FROM contact_messages ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM contact_messages %s
		ORDER BY id DESC
		LIMIT $%d OFFSET $%d`, contactColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}
	defer rows.Close()

	var msgs []*models.ContactMessage
	for rows.Next() {
		msg, err := scanContact(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, 0, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, total, rows.Err()
}

func (r *contactRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE contact_messages SET status = $1 WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *contactRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM contact_messages WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
