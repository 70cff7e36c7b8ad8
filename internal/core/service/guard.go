package service

import (
	"context"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
)

// GuardState is the outcome of a route authorization check.
type GuardState int

const (
	GuardUnauthenticated GuardState = iota
	GuardAuthorized
	GuardUnauthorized
)

func (s GuardState) String() string {
	switch s {
	case GuardAuthorized:
		return "authorized"
	case GuardUnauthorized:
		return "unauthorized"
	default:
		return "unauthenticated"
	}
}

// RouteRequirement is the role condition a route declares. A nil
// requirement only demands an authenticated visitor.
type RouteRequirement struct {
	Roles []string
	Mode  domain.MatchMode
}

// GuardDecision is what the guard tells the router: proceed, or go to
// Redirect instead.
type GuardDecision struct {
	State    GuardState
	Redirect string
}

func (d GuardDecision) Allowed() bool { return d.State == GuardAuthorized }

// Guard is the route authorization state machine. A visitor without a token
// is sent to login with a return URL; a visitor lacking the required roles is
// sent home.
type Guard struct {
	sessions ports.SessionLocator
	roles    ports.RoleResolver
}

func NewGuard(sessions ports.SessionLocator, roles ports.RoleResolver) *Guard {
	return &Guard{sessions: sessions, roles: roles}
}

// Check evaluates a navigation to location. Role requirements are resolved
// before the decision is returned, so no protected route is ever entered
// while resolution is pending.
func (g *Guard) Check(ctx context.Context, location string, req *RouteRequirement) GuardDecision {
	sess := g.sessions(ctx)
	if sess == nil || !sess.IsAuthenticated(ctx) {
		return GuardDecision{State: GuardUnauthenticated, Redirect: LoginRedirect(location)}
	}

	if req == nil || len(req.Roles) == 0 {
		return GuardDecision{State: GuardAuthorized}
	}

	mode := req.Mode
	if mode == "" {
		mode = domain.MatchAny
	}
	if g.roles.HasRole(ctx, req.Roles, mode) {
		return GuardDecision{State: GuardAuthorized}
	}
	// A backend 401 during resolution clears the token.
	if !sess.IsAuthenticated(ctx) {
		return GuardDecision{State: GuardUnauthenticated, Redirect: LoginRedirect(location)}
	}
	return GuardDecision{State: GuardUnauthorized, Redirect: HomePath}
}
