package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/service"
	"github.com/ecolatam/gateway/internal/infrastructure/db/memory"
)

const testSID = "2b1f4e0c-8d7a-4c55-9a53-1f0b3c1d2e4f"

type stubResolver struct {
	roles domain.RoleSet
}

func (s *stubResolver) ResolveRoles(context.Context, int64) ([]string, error) {
	return s.roles.Sorted(), nil
}
func (s *stubResolver) EffectiveRoles(context.Context) []string { return s.roles.Sorted() }
func (s *stubResolver) HasRole(_ context.Context, required []string, mode domain.MatchMode) bool {
	return s.roles.Satisfies(required, mode)
}

func scoped(store *memory.SessionStore, mw echo.MiddlewareFunc, next echo.HandlerFunc) echo.HandlerFunc {
	return Scope(ScopeConfig{Store: store, Log: zerolog.Nop()})(mw(next))
}

func guardRequest(route string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.AddCookie(&http.Cookie{Name: "ecolatam_sid", Value: testSID})
	if route != "" {
		req.Header.Set(HeaderCurrentRoute, route)
	}
	return req, httptest.NewRecorder()
}

func TestRequireAuth_Unauthenticated(t *testing.T) {
	e := echo.New()
	store := memory.NewSessionStore(0)
	guard := service.NewGuard(Sessions, &stubResolver{})

	h := scoped(store, RequireAuth(guard), func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	req, rec := guardRequest("/users/5")
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var resp RedirectResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Redirect != "/login?redirectTo=%2Fusers%2F5" {
		t.Fatalf("unexpected redirect %q", resp.Redirect)
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		held     domain.RoleSet
		mode     domain.MatchMode
		required []string
		wantCode int
	}{
		{"any satisfied", domain.NewRoleSet("admin"), domain.MatchAny, []string{"admin", "superadmin"}, http.StatusOK},
		{"any missing", domain.NewRoleSet("vip"), domain.MatchAny, []string{"admin", "superadmin"}, http.StatusForbidden},
		{"all partial", domain.NewRoleSet("admin"), domain.MatchAll, []string{"admin", "vip"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			store := memory.NewSessionStore(0)
			_ = store.Set(context.Background(), "session:"+testSID+":"+service.DefaultTokenKey, "tok")
			guard := service.NewGuard(Sessions, &stubResolver{roles: tt.held})

			h := scoped(store, RequireRoles(guard, tt.mode, tt.required...), func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})

			req, rec := guardRequest("/admin/catalogs")
			if err := h(e.NewContext(req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode == http.StatusForbidden {
				var resp RedirectResponse
				_ = json.Unmarshal(rec.Body.Bytes(), &resp)
				if resp.Redirect != "/" {
					t.Fatalf("unexpected redirect %q", resp.Redirect)
				}
			}
		})
	}
}
