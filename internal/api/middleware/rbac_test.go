package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/liqued/storefront-api/internal/core/domain"
)

func runRequireRole(t *testing.T, role any) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if role != nil {
		c.Set(KeyRole, role)
	}

	called := false
	h := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	return called, h(c)
}

func TestRequireRole_Allows(t *testing.T) {
	called, err := runRequireRole(t, domain.RoleAdmin)
	if err != nil || !called {
		t.Fatalf("admin should pass: called=%v err=%v", called, err)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	for _, role := range []any{domain.RoleUser, "", nil, 1} {
		called, err := runRequireRole(t, role)
		if called {
			t.Fatalf("role %v: next must not be called", role)
		}
		assertHTTPError(t, err, http.StatusForbidden, "insufficient permissions")
	}
}

func TestRequireRole_PanicsOnUnknownRole(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an unknown role")
		}
	}()
	RequireRole(domain.RoleAdmin, "superuser")
}
