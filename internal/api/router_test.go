package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ecolatam/gateway/internal/api/handler"
	"github.com/ecolatam/gateway/internal/api/middleware"
	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
	"github.com/ecolatam/gateway/internal/core/service"
	"github.com/ecolatam/gateway/internal/infrastructure/db/memory"
	"github.com/ecolatam/gateway/internal/infrastructure/ecolatam"
	"github.com/ecolatam/gateway/internal/infrastructure/http/handlers"
	"github.com/ecolatam/gateway/internal/infrastructure/restclient"
)

const testSID = "8c0d7a52-3f4e-4b1a-9d2c-6e5f4a3b2c1d"

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubCatalogs struct {
	ports.CatalogsAPI
}

func (stubCatalogs) Paises(context.Context) ([]domain.Option, error) {
	return []domain.Option{{ID: 1, Label: "Costa Rica"}}, nil
}

type stubRoles struct {
	roles domain.RoleSet
}

func (s *stubRoles) ResolveRoles(context.Context, int64) ([]string, error) {
	return s.roles.Sorted(), nil
}
func (s *stubRoles) EffectiveRoles(context.Context) []string { return s.roles.Sorted() }
func (s *stubRoles) HasRole(_ context.Context, required []string, mode domain.MatchMode) bool {
	return s.roles.Satisfies(required, mode)
}

type stubUsers struct {
	ports.UsersAPI
}

func (stubUsers) List(context.Context, domain.UserListQuery) (domain.Page[domain.UserListItem], error) {
	return domain.Page[domain.UserListItem]{Items: []domain.UserListItem{{ID: 1, Name: "Ana"}}}, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestRouter(store *memory.SessionStore, roles domain.RoleSet) *echo.Echo {
	return newTestRouterWith(store, &stubRoles{roles: roles})
}

func newTestRouterWith(store *memory.SessionStore, resolver ports.RoleResolver) *echo.Echo {
	return NewRouter(Deps{
		Handlers: Handlers{
			Auth:     handler.NewAuthHandler(nil, resolver, middleware.Sessions),
			Ecoguia:  handler.NewEcoguiaHandler(nil),
			Users:    handler.NewUsersHandler(stubUsers{}),
			Kyc:      handler.NewKycHandler(nil, nil),
			Catalogs: handler.NewCatalogsHandler(stubCatalogs{}, nil, nil),
			Search:   handler.NewSearchHandler(nil),
			Social:   handler.NewSocialHandler(nil),
		},
		Guard:      service.NewGuard(middleware.Sessions, resolver),
		Scope:      middleware.ScopeConfig{Store: store, Log: zerolog.Nop()},
		Health:     map[string]handlers.Pinger{"session_store": store},
		Log:        zerolog.Nop(),
		Registerer: prometheus.NewRegistry(),
	})
}

func signIn(t *testing.T, store *memory.SessionStore) {
	t.Helper()
	ctx := context.Background()
	if err := store.Set(ctx, "session:"+testSID+":ecolatam_token", "tok"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
}

func do(e *echo.Echo, method, target, route string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: "ecolatam_sid", Value: testSID})
	if route != "" {
		req.Header.Set(middleware.HeaderCurrentRoute, route)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func redirectOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp middleware.RedirectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp.Redirect
}

// ---------------------------------------------------------------------------
// Router
// ---------------------------------------------------------------------------

func TestRouter_PublicCatalogs(t *testing.T) {
	e := newTestRouter(memory.NewSessionStore(0), nil)

	rec := do(e, http.MethodGet, "/catalogs/paises", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_GuardedRouteRedirectsToLogin(t *testing.T) {
	e := newTestRouter(memory.NewSessionStore(0), nil)

	rec := do(e, http.MethodGet, "/users", "/users")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := redirectOf(t, rec); got != "/login?redirectTo=%2Fusers" {
		t.Fatalf("unexpected redirect %q", got)
	}
}

func TestRouter_AuthenticatedVisitor(t *testing.T) {
	store := memory.NewSessionStore(0)
	signIn(t, store)
	e := newTestRouter(store, nil)

	if rec := do(e, http.MethodGet, "/users", "/users"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_AdminRoutesRequireRole(t *testing.T) {
	store := memory.NewSessionStore(0)
	signIn(t, store)

	rec := do(newTestRouter(store, domain.NewRoleSet("vip")), http.MethodGet, "/admin/catalogs/pais", "/admin")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := redirectOf(t, rec); got != service.HomePath {
		t.Fatalf("unexpected redirect %q", got)
	}
}

func TestRouter_VIPFeedRequiresVIP(t *testing.T) {
	store := memory.NewSessionStore(0)
	signIn(t, store)

	rec := do(newTestRouter(store, domain.NewRoleSet("admin")), http.MethodGet, "/social/vip", "/social")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRouter_RoleCheckRejectedByBackendRedirectsToLogin(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	rc := restclient.New(restclient.Config{
		BaseURL:   backend.URL,
		Transport: restclient.NewTransport(nil, middleware.Sessions, middleware.Navigators, zerolog.Nop()),
	}, zerolog.Nop())
	roles := service.NewRoleService(ecolatam.NewRoleTables(rc), middleware.Sessions, time.Second, zerolog.Nop())

	ctx := context.Background()
	store := memory.NewSessionStore(0)
	signIn(t, store)
	if err := store.Set(ctx, "session:"+testSID+":ecolatam_user", `{"id":5,"roles":["admin"]}`); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	rec := do(newTestRouterWith(store, roles), http.MethodGet, "/admin/categories", "/admin/categories")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := redirectOf(t, rec); got != "/login?redirectTo=%2Fadmin%2Fcategories" {
		t.Fatalf("unexpected redirect %q", got)
	}
	if _, ok, _ := store.Get(ctx, "session:"+testSID+":ecolatam_token"); ok {
		t.Fatalf("expected the token to be cleared")
	}
}

func TestRouter_HealthNeedsNoSession(t *testing.T) {
	e := newTestRouter(memory.NewSessionStore(0), nil)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("health probes must not mint visitor cookies")
	}
}

func TestRoutes_EveryRouteHasAHandler(t *testing.T) {
	resolver := &stubRoles{}
	h := Handlers{
		Auth:     handler.NewAuthHandler(nil, resolver, middleware.Sessions),
		Ecoguia:  handler.NewEcoguiaHandler(nil),
		Users:    handler.NewUsersHandler(nil),
		Kyc:      handler.NewKycHandler(nil, nil),
		Catalogs: handler.NewCatalogsHandler(nil, nil, nil),
		Search:   handler.NewSearchHandler(nil),
		Social:   handler.NewSocialHandler(nil),
	}

	seen := map[string]bool{}
	for _, r := range Routes(h) {
		key := r.Method + " " + r.Path
		if seen[key] {
			t.Fatalf("duplicate route %s", key)
		}
		seen[key] = true
		if r.Handler == nil {
			t.Fatalf("route %s has no handler", key)
		}
	}
}

// ---------------------------------------------------------------------------
// Error handler
// ---------------------------------------------------------------------------

func TestResolveError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "bad"), http.StatusBadRequest},
		{"not found", fmt.Errorf("GET /users/9: %w", domain.ErrNotFound), http.StatusNotFound},
		{"unknown catalog", domain.ErrInvalidCatalogType, http.StatusNotFound},
		{"invalid login", domain.ErrInvalidLogin, http.StatusUnauthorized},
		{"invalid registration", domain.ErrInvalidRegistration, http.StatusUnprocessableEntity},
		{"invalid kyc", domain.ErrInvalidKyc, http.StatusUnprocessableEntity},
		{"unexpected shape", domain.ErrUnexpectedShape, http.StatusBadGateway},
		{"backend conflict", &restclient.HTTPError{StatusCode: http.StatusConflict}, http.StatusConflict},
		{"backend down", &restclient.HTTPError{StatusCode: http.StatusServiceUnavailable}, http.StatusBadGateway},
		{"timeout", fmt.Errorf("GET /users: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			if got, _ := resolveError(tt.err, zerolog.Nop(), c); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestHTTPErrorHandler_RecordedNavigationWins(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	store := memory.NewSessionStore(0)
	e.GET("/users", func(c echo.Context) error {
		if nav := middleware.Navigators(c.Request().Context()); nav != nil {
			nav.Navigate("/login?redirectTo=%2Fusers")
		}
		return &restclient.HTTPError{StatusCode: http.StatusUnauthorized}
	}, middleware.Scope(middleware.ScopeConfig{Store: store, Log: zerolog.Nop()}))

	rec := do(e, http.MethodGet, "/users", "/users")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := redirectOf(t, rec); got != "/login?redirectTo=%2Fusers" {
		t.Fatalf("unexpected redirect %q", got)
	}
}
