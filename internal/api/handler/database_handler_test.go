package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
)

type stubDatabaseService struct {
	ports.DatabaseService
	limit int
}

func (s *stubDatabaseService) Init(context.Context) ([]string, error) {
	return []string{"users", "categories", "products", "contact_messages"}, nil
}

func (s *stubDatabaseService) Data(_ context.Context, table string, limit int) ([]map[string]any, error) {
	if table != "products" {
		return nil, domain.ErrUnknownTable
	}
	s.limit = limit
	return []map[string]any{{"id": 2}, {"id": 1}}, nil
}

func (s *stubDatabaseService) Structure(_ context.Context, table string) ([]domain.Column, error) {
	if table != "users" {
		return nil, domain.ErrUnknownTable
	}
	return []domain.Column{{Name: "id"}}, nil
}

func TestDatabaseHandler_Init(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/database/init", "")

	if err := NewDatabaseHandler(&stubDatabaseService{}).Init(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["success"] != true || len(resp["tables"].([]any)) != 4 {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestDatabaseHandler_Data(t *testing.T) {
	stub := &stubDatabaseService{}
	h := NewDatabaseHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/database/tables/products/data?limit=5", "")
	c.SetParamNames("tableName")
	c.SetParamValues("products")
	if err := h.Data(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if stub.limit != 5 || resp["table"] != "products" || resp["count"] != float64(2) {
		t.Fatalf("unexpected payload: limit=%d %v", stub.limit, resp)
	}

	c, _ = newContext(http.MethodGet, "/api/database/tables/products/data?limit=ten", "")
	c.SetParamNames("tableName")
	c.SetParamValues("products")
	if code := httpCode(t, h.Data(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-numeric limit, got %d", code)
	}
}

func TestDatabaseHandler_UnknownTable(t *testing.T) {
	h := NewDatabaseHandler(&stubDatabaseService{})

	c, _ := newContext(http.MethodGet, "/api/database/tables/secrets", "")
	c.SetParamNames("tableName")
	c.SetParamValues("secrets")
	if err := h.Structure(c); err != domain.ErrUnknownTable {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}
}
