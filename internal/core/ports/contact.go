package ports

import (
	"context"

	"github.com/liqued/storefront-api/internal/core/domain"
)

// ContactRepository persists contact form messages.
type ContactRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) (int64, error)
	List(ctx context.Context) ([]domain.ContactMessage, error)
	FindByID(ctx context.Context, id int64) (*domain.ContactMessage, error)
	MarkRead(ctx context.Context, id int64) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// ContactInput is a contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type ContactService interface {
	// Submit stores the message and returns its id. A repeated submission inside
	// the dedup window returns the id of the first one.
	Submit(ctx context.Context, input ContactInput) (int64, error)
	List(ctx context.Context) ([]domain.ContactMessage, error)
	Get(ctx context.Context, id int64) (*domain.ContactMessage, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
