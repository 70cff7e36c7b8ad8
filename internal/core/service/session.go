package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
)

const (
	DefaultTokenKey = "ecolatam_token"
	DefaultUserKey  = "ecolatam_user"
)

// SessionKeys names the two durable entries of a session.
type SessionKeys struct {
	Token string
	User  string
}

func (k SessionKeys) withDefaults() SessionKeys {
	if k.Token == "" {
		k.Token = DefaultTokenKey
	}
	if k.User == "" {
		k.User = DefaultUserKey
	}
	return k
}

// Session is the auth state of one visitor, persisted in a KVStorage under
// a per-visitor namespace.
type Session struct {
	store     ports.KVStorage
	namespace string
	keys      SessionKeys
	log       zerolog.Logger
}

// NewSession returns the session stored under namespace. An empty namespace
// addresses the bare keys, which is what a single-identity client wants.
func NewSession(store ports.KVStorage, namespace string, keys SessionKeys, log zerolog.Logger) *Session {
	return &Session{
		store:     store,
		namespace: namespace,
		keys:      keys.withDefaults(),
		log:       log,
	}
}

func (s *Session) key(name string) string {
	if s.namespace == "" {
		return name
	}
	return s.namespace + ":" + name
}

// Token returns the stored bearer token, or "" when there is none. Storage
// failures are logged and read as an absent token.
func (s *Session) Token(ctx context.Context) string {
	v, ok, err := s.store.Get(ctx, s.key(s.keys.Token))
	if err != nil {
		s.log.Warn().Err(err).Str("session", s.namespace).Msg("session token read failed")
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

func (s *Session) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}
	if err := s.store.Set(ctx, s.key(s.keys.Token), token); err != nil {
		return fmt.Errorf("set session token: %w", err)
	}
	return nil
}

func (s *Session) ClearToken(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key(s.keys.Token)); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

// User returns the cached user profile. A missing or unreadable entry is
// reported as nil.
func (s *Session) User(ctx context.Context) *domain.CachedUser {
	raw, ok, err := s.store.Get(ctx, s.key(s.keys.User))
	if err != nil {
		s.log.Warn().Err(err).Str("session", s.namespace).Msg("session user read failed")
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var u domain.CachedUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn().Err(err).Str("session", s.namespace).Msg("discarding malformed cached user")
		return nil
	}
	return &u
}

// SetUser stores u, or removes the entry when u is nil.
func (s *Session) SetUser(ctx context.Context, u *domain.CachedUser) error {
	if u == nil {
		if err := s.store.Delete(ctx, s.key(s.keys.User)); err != nil {
			return fmt.Errorf("clear session user: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := s.store.Set(ctx, s.key(s.keys.User), string(raw)); err != nil {
		return fmt.Errorf("set session user: %w", err)
	}
	return nil
}

func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key(s.keys.Token), s.key(s.keys.User)); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *Session) Login(ctx context.Context, res *domain.LoginResult) error {
	return StoreLogin(ctx, s, res)
}

// StoreLogin stores the result of a successful login on sess: the token and
// the returned user merged with its id.
func StoreLogin(ctx context.Context, sess ports.SessionStore, res *domain.LoginResult) error {
	if err := sess.SetToken(ctx, res.Token); err != nil {
		return err
	}
	u := res.User
	if res.ID != 0 {
		u.ID = domain.FlexID(strconv.FormatInt(res.ID, 10))
	}
	return sess.SetUser(ctx, &u)
}

func (s *Session) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// RoleHint returns the roles cached on the user when there are any, and the
// roles carried by the token claims otherwise. It is a hint: the
// authoritative set comes from role resolution.
func (s *Session) RoleHint(ctx context.Context) []string {
	if u := s.User(ctx); u != nil && len(u.Roles) > 0 {
		return append([]string(nil), u.Roles...)
	}

	token := s.Token(ctx)
	if token == "" {
		return []string{}
	}
	roles := DecodeClaims(token).Roles()
	if roles == nil {
		return []string{}
	}
	return roles
}

// UserID returns the cached user's numeric id, falling back to the "id"
// claim of the token.
func (s *Session) UserID(ctx context.Context) (int64, bool) {
	if u := s.User(ctx); u != nil {
		if id, ok := u.ID.Int64(); ok {
			return id, true
		}
	}

	token := s.Token(ctx)
	if token == "" {
		return 0, false
	}
	return DecodeClaims(token).UserID()
}

// FixedSession locates the same session for every call.
func FixedSession(s ports.SessionStore) ports.SessionLocator {
	return func(context.Context) ports.SessionStore { return s }
}

// FixedNavigator locates the same navigator for every call.
func FixedNavigator(n ports.Navigator) ports.NavigatorLocator {
	return func(context.Context) ports.Navigator { return n }
}
