package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/liqued/storefront-api/internal/core/domain"
)

const contactColumns = `id, name, email, subject, message, is_read, created_at`

type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, msg *domain.ContactMessage) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO contact_messages (name, email, subject, message) VALUES ($1, $2, $3, $4) RETURNING id`,
		msg.Name, msg.Email, msg.Subject, msg.Message,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert contact message: %w", err)
	}
	return id, nil
}

func (r *ContactRepository) List(ctx context.Context) ([]domain.ContactMessage, error) {
	msgs := []domain.ContactMessage{}
	if err := r.db.SelectContext(ctx, &msgs, `SELECT `+contactColumns+` FROM contact_messages ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return msgs, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id int64) (*domain.ContactMessage, error) {
	var m domain.ContactMessage
	if err := r.db.GetContext(ctx, &m, `SELECT `+contactColumns+` FROM contact_messages WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("find contact message: %w", err)
	}
	return &m, nil
}

func (r *ContactRepository) MarkRead(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE contact_messages SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("mark contact message read: %w", err)
	}
	return res.RowsAffected()
}

func (r *ContactRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete contact message: %w", err)
	}
	return res.RowsAffected()
}
