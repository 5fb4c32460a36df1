package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/liqued/storefront-api/internal/api/metrics"
	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
)

// ContactDedup remembers recent submissions so a double-posted form is stored once.
type ContactDedup interface {
	Seen(ctx context.Context, email, subject, message string) (int64, bool, error)
	Mark(ctx context.Context, email, subject, message string, id int64) error
}

type ContactService struct {
	repo  ports.ContactRepository
	dedup ContactDedup // optional
	log   zerolog.Logger
}

// NewContactService returns a ContactService. dedup may be nil.
func NewContactService(repo ports.ContactRepository, dedup ContactDedup, log zerolog.Logger) *ContactService {
	return &ContactService{repo: repo, dedup: dedup, log: log}
}

// Submit validates and stores a contact message. Dedup failures are logged
// and never block the submission.
func (s *ContactService) Submit(ctx context.Context, in ports.ContactInput) (int64, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	message := strings.TrimSpace(in.Message)
	if name == "" || email == "" || message == "" {
		return 0, domain.NewValidationError("name, email, and message are required")
	}
	if !validEmail(email) {
		return 0, domain.NewValidationError("invalid email format")
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = domain.DefaultContactSubject
	}

	if s.dedup != nil {
		id, seen, err := s.dedup.Seen(ctx, email, subject, message)
		if err != nil {
			s.log.Warn().Err(err).Msg("contact dedup check failed, storing anyway")
		} else if seen {
			metrics.ContactSubmissionsTotal.WithLabelValues("duplicate").Inc()
			s.log.Debug().Int64("message_id", id).Msg("duplicate contact submission skipped")
			return id, nil
		}
	}

	id, err := s.repo.Create(ctx, &domain.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	})
	if err != nil {
		return 0, err
	}

	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, email, subject, message, id); err != nil {
			s.log.Warn().Err(err).Int64("message_id", id).Msg("failed to set contact dedup key")
		}
	}

	metrics.ContactSubmissionsTotal.WithLabelValues("stored").Inc()
	s.log.Info().Int64("message_id", id).Msg("contact message stored")
	return id, nil
}

func (s *ContactService) List(ctx context.Context) ([]domain.ContactMessage, error) {
	return s.repo.List(ctx)
}

func (s *ContactService) Get(ctx context.Context, id int64) (*domain.ContactMessage, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ContactService) MarkRead(ctx context.Context, id int64) error {
	n, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}
