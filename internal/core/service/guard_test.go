package service

import (
	"context"
	"testing"

	"github.com/ecolatam/gateway/internal/core/domain"
)

type stubResolver struct {
	roles []string
	calls int
}

func (r *stubResolver) ResolveRoles(context.Context, int64) ([]string, error) { return r.roles, nil }

func (r *stubResolver) EffectiveRoles(context.Context) []string { return r.roles }

func (r *stubResolver) HasRole(_ context.Context, required []string, mode domain.MatchMode) bool {
	r.calls++
	return domain.NewRoleSet(r.roles...).Satisfies(required, mode)
}

func TestGuard_Unauthenticated(t *testing.T) {
	resolver := &stubResolver{roles: []string{"admin"}}
	g := NewGuard(FixedSession(newTestSession(newStubKV())), resolver)

	d := g.Check(context.Background(), "/users/5", &RouteRequirement{Roles: []string{"admin"}})
	if d.State != GuardUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", d.State)
	}
	if d.Redirect != "/login?redirectTo=%2Fusers%2F5" {
		t.Fatalf("unexpected redirect %q", d.Redirect)
	}
	if resolver.calls != 0 {
		t.Fatalf("roles must not be evaluated without a token")
	}
}

func TestGuard_NoRequirement(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(newStubKV())
	_ = sess.SetToken(ctx, "tok")
	resolver := &stubResolver{}
	g := NewGuard(FixedSession(sess), resolver)

	d := g.Check(ctx, "/users", nil)
	if !d.Allowed() || d.Redirect != "" {
		t.Fatalf("expected authorized, got %+v", d)
	}
	if resolver.calls != 0 {
		t.Fatalf("no role evaluation expected")
	}
}

func TestGuard_RoleRequirement(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(newStubKV())
	_ = sess.SetToken(ctx, "tok")

	tests := []struct {
		name  string
		roles []string
		req   RouteRequirement
		want  GuardState
	}{
		{"any satisfied", []string{"admin"}, RouteRequirement{Roles: []string{"admin", "superadmin"}}, GuardAuthorized},
		{"all missing one", []string{"admin"}, RouteRequirement{Roles: []string{"admin", "vip"}, Mode: domain.MatchAll}, GuardUnauthorized},
		{"none held", []string{}, RouteRequirement{Roles: []string{"vip"}}, GuardUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGuard(FixedSession(sess), &stubResolver{roles: tt.roles})
			d := g.Check(ctx, "/admin", &tt.req)
			if d.State != tt.want {
				t.Fatalf("state = %s, want %s", d.State, tt.want)
			}
			if tt.want == GuardUnauthorized && d.Redirect != "/" {
				t.Fatalf("unauthorized visitors go home, got %q", d.Redirect)
			}
		})
	}
}

// expiringResolver drops the session token while resolving, as the backend
// expiry hook does on a 401.
type expiringResolver struct {
	sess *Session
}

func (r *expiringResolver) ResolveRoles(context.Context, int64) ([]string, error) { return nil, nil }

func (r *expiringResolver) EffectiveRoles(context.Context) []string { return nil }

func (r *expiringResolver) HasRole(ctx context.Context, _ []string, _ domain.MatchMode) bool {
	_ = r.sess.ClearToken(ctx)
	return false
}

func TestGuard_TokenExpiredDuringResolution(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(newStubKV())
	_ = sess.SetToken(ctx, "tok")
	g := NewGuard(FixedSession(sess), &expiringResolver{sess: sess})

	d := g.Check(ctx, "/admin/categories", &RouteRequirement{Roles: []string{"admin"}})
	if d.State != GuardUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", d.State)
	}
	if d.Redirect != "/login?redirectTo=%2Fadmin%2Fcategories" {
		t.Fatalf("unexpected redirect %q", d.Redirect)
	}
}
