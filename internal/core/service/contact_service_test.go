package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
)

type stubContactRepo struct {
	byID   map[int64]*domain.ContactMessage
	nextID int64
}

func newStubContactRepo() *stubContactRepo {
	return &stubContactRepo{byID: make(map[int64]*domain.ContactMessage), nextID: 1}
}

func (r *stubContactRepo) Create(_ context.Context, m *domain.ContactMessage) (int64, error) {
	clone := *m
	clone.ID = r.nextID
	r.nextID++
	r.byID[clone.ID] = &clone
	return clone.ID, nil
}

func (r *stubContactRepo) List(_ context.Context) ([]domain.ContactMessage, error) {
	var out []domain.ContactMessage
	for _, m := range r.byID {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubContactRepo) FindByID(_ context.Context, id int64) (*domain.ContactMessage, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubContactRepo) MarkRead(_ context.Context, id int64) (int64, error) {
	m, ok := r.byID[id]
	if !ok {
		return 0, nil
	}
	m.IsRead = true
	return 1, nil
}

func (r *stubContactRepo) DeleteByID(_ context.Context, id int64) (int64, error) {
	if _, ok := r.byID[id]; !ok {
		return 0, nil
	}
	delete(r.byID, id)
	return 1, nil
}

type stubContactDedup struct {
	seen    map[string]int64
	seenErr error
	markErr error
}

func newStubContactDedup() *stubContactDedup {
	return &stubContactDedup{seen: make(map[string]int64)}
}

func (d *stubContactDedup) Seen(_ context.Context, email, subject, message string) (int64, bool, error) {
	if d.seenErr != nil {
		return 0, false, d.seenErr
	}
	id, ok := d.seen[email+"|"+subject+"|"+message]
	return id, ok, nil
}

func (d *stubContactDedup) Mark(_ context.Context, email, subject, message string, id int64) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.seen[email+"|"+subject+"|"+message] = id
	return nil
}

func TestContactService_Submit_DefaultSubject(t *testing.T) {
	repo := newStubContactRepo()
	svc := NewContactService(repo, nil, zerolog.Nop())

	id, err := svc.Submit(context.Background(), ports.ContactInput{Name: "Ann", Email: "ann@x.com", Message: "Hello"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if repo.byID[id].Subject != domain.DefaultContactSubject {
		t.Fatalf("expected default subject, got %q", repo.byID[id].Subject)
	}
}

func TestContactService_Submit_Validation(t *testing.T) {
	svc := NewContactService(newStubContactRepo(), nil, zerolog.Nop())

	cases := map[string]ports.ContactInput{
		"missing name":    {Email: "ann@x.com", Message: "Hi"},
		"missing email":   {Name: "Ann", Message: "Hi"},
		"missing message": {Name: "Ann", Email: "ann@x.com"},
		"bad email":       {Name: "Ann", Email: "ann", Message: "Hi"},
	}
	for name, in := range cases {
		if _, err := svc.Submit(context.Background(), in); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestContactService_Submit_Dedup(t *testing.T) {
	repo := newStubContactRepo()
	svc := NewContactService(repo, newStubContactDedup(), zerolog.Nop())
	in := ports.ContactInput{Name: "Ann", Email: "ann@x.com", Subject: "Order", Message: "Where is it?"}

	first, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if first != second {
		t.Fatalf("expected same id, got %d and %d", first, second)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected one stored message, got %d", len(repo.byID))
	}
}

func TestContactService_Submit_DedupFailureIsNonFatal(t *testing.T) {
	repo := newStubContactRepo()
	dedup := newStubContactDedup()
	dedup.seenErr = errors.New("redis down")
	dedup.markErr = errors.New("redis down")
	svc := NewContactService(repo, dedup, zerolog.Nop())

	if _, err := svc.Submit(context.Background(), ports.ContactInput{Name: "Ann", Email: "ann@x.com", Message: "Hi"}); err != nil {
		t.Fatalf("submit should succeed when dedup fails: %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected message stored")
	}
}

func TestContactService_MarkReadAndDelete(t *testing.T) {
	repo := newStubContactRepo()
	svc := NewContactService(repo, nil, zerolog.Nop())
	id, _ := svc.Submit(context.Background(), ports.ContactInput{Name: "Ann", Email: "ann@x.com", Message: "Hi"})

	if err := svc.MarkRead(context.Background(), id); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !repo.byID[id].IsRead {
		t.Fatalf("expected message to be read")
	}
	if err := svc.MarkRead(context.Background(), 999); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), id); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("second delete: expected ErrMessageNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), id); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}
