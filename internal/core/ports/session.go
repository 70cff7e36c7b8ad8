package ports

import (
	"context"

	"github.com/ecolatam/gateway/internal/core/domain"
)

// KVStorage is the durable key-value store backing visitor sessions.
// A missing key is reported with ok=false and a nil error.
type KVStorage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// SessionStore holds the bearer token and the cached user profile of one
// visitor. Token and user are independently nullable; the visitor is
// authenticated exactly when a token is present.
type SessionStore interface {
	Token(ctx context.Context) string
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error

	User(ctx context.Context) *domain.CachedUser
	SetUser(ctx context.Context, u *domain.CachedUser) error

	// Logout clears both the token and the user.
	Logout(ctx context.Context) error

	IsAuthenticated(ctx context.Context) bool
	RoleHint(ctx context.Context) []string
	UserID(ctx context.Context) (int64, bool)
}

// SessionLocator returns the session that owns the call carried by ctx.
type SessionLocator func(ctx context.Context) SessionStore

// Navigator receives navigation instructions for the visitor.
type Navigator interface {
	Navigate(url string)
}

// NavigatorLocator returns the navigator of the visitor owning ctx.
type NavigatorLocator func(ctx context.Context) Navigator
