package ports

import (
	"context"

	"github.com/ecolatam/gateway/internal/core/domain"
)

// MembershipChecker reports whether userID has a row in the role table
// served at path.
type MembershipChecker interface {
	HasMember(ctx context.Context, path string, userID int64) (bool, error)
}

// RoleResolver derives the authoritative role set of the current visitor.
type RoleResolver interface {
	ResolveRoles(ctx context.Context, userID int64) ([]string, error)
	EffectiveRoles(ctx context.Context) []string
	HasRole(ctx context.Context, required []string, mode domain.MatchMode) bool
}
