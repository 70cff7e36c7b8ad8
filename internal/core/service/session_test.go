package service

import (
	"context"
	"encoding/base64"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ecolatam/gateway/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub storage
// ---------------------------------------------------------------------------

type stubKV struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
}

func newStubKV() *stubKV {
	return &stubKV{data: make(map[string]string)}
}

func (s *stubKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stubKV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *stubKV) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func newTestSession(kv *stubKV) *Session {
	return NewSession(kv, "session:abc", SessionKeys{}, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Token / user storage
// ---------------------------------------------------------------------------

func TestSession_TokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newStubKV()
	s := newTestSession(kv)

	if s.IsAuthenticated(ctx) {
		t.Fatalf("fresh session must not be authenticated")
	}
	if err := s.SetToken(ctx, "tok"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if got := kv.data["session:abc:ecolatam_token"]; got != "tok" {
		t.Fatalf("token stored under wrong key, data=%v", kv.data)
	}
	if !s.IsAuthenticated(ctx) {
		t.Fatalf("expected authenticated after SetToken")
	}
	if err := s.ClearToken(ctx); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if s.Token(ctx) != "" {
		t.Fatalf("token should be cleared")
	}
}

func TestSession_UserWithoutToken(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(newStubKV())

	if err := s.SetUser(ctx, &domain.CachedUser{ID: "7", Name: "Ana"}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}
	if s.IsAuthenticated(ctx) {
		t.Fatalf("a cached user alone does not authenticate")
	}
	u := s.User(ctx)
	if u == nil || u.Name != "Ana" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if err := s.SetUser(ctx, nil); err != nil {
		t.Fatalf("SetUser(nil): %v", err)
	}
	if s.User(ctx) != nil {
		t.Fatalf("SetUser(nil) must remove the user")
	}
}

func TestSession_Logout(t *testing.T) {
	ctx := context.Background()
	kv := newStubKV()
	s := newTestSession(kv)
	_ = s.SetToken(ctx, "tok")
	_ = s.SetUser(ctx, &domain.CachedUser{ID: "1"})

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(kv.data) != 0 {
		t.Fatalf("expected empty storage, got %v", kv.data)
	}
}

func TestSession_MalformedUserIsAbsent(t *testing.T) {
	kv := newStubKV()
	kv.data["session:abc:ecolatam_user"] = "{not json"
	s := newTestSession(kv)

	if u := s.User(context.Background()); u != nil {
		t.Fatalf("expected nil user, got %+v", u)
	}
}

func TestSession_StorageErrorReadsAsAbsent(t *testing.T) {
	kv := newStubKV()
	kv.getErr = errors.New("redis down")
	s := newTestSession(kv)

	if s.IsAuthenticated(context.Background()) {
		t.Fatalf("unreadable storage must not authenticate")
	}
}

func TestSession_Login_MergesID(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(newStubKV())

	err := s.Login(ctx, &domain.LoginResult{
		Token: "tok",
		User:  domain.CachedUser{Name: "Ana", Email: "ana@example.com"},
		ID:    42,
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	id, ok := s.UserID(ctx)
	if !ok || id != 42 {
		t.Fatalf("expected user id 42, got %d %v", id, ok)
	}
	if u := s.User(ctx); u == nil || u.Email != "ana@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

// ---------------------------------------------------------------------------
// Role hint / user id
// ---------------------------------------------------------------------------

func TestSession_RoleHint(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		user  *domain.CachedUser
		token string
		want  []string
	}{
		{
			name:  "cached roles win",
			user:  &domain.CachedUser{ID: "1", Roles: []string{"vip"}},
			token: mintToken(t, jwt.MapClaims{"roles": []string{"admin"}}),
			want:  []string{"vip"},
		},
		{
			name:  "roles claim array",
			user:  &domain.CachedUser{ID: "1"},
			token: mintToken(t, jwt.MapClaims{"roles": []any{"admin", 3, "vip"}}),
			want:  []string{"admin", "vip"},
		},
		{
			name:  "role claim scalar",
			token: mintToken(t, jwt.MapClaims{"role": "admin"}),
			want:  []string{"admin"},
		},
		{
			name:  "roles scalar string",
			token: mintToken(t, jwt.MapClaims{"roles": "inspector"}),
			want:  []string{"inspector"},
		},
		{
			name:  "no claims",
			token: mintToken(t, jwt.MapClaims{"sub": "x"}),
			want:  []string{},
		},
		{
			name:  "undecodable token",
			token: "not-a-jwt",
			want:  []string{},
		},
		{
			name: "no token",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(newStubKV())
			if tt.user != nil {
				_ = s.SetUser(ctx, tt.user)
			}
			if tt.token != "" {
				_ = s.SetToken(ctx, tt.token)
			}
			got := s.RoleHint(ctx)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("RoleHint = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSession_UserID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		user   *domain.CachedUser
		token  string
		want   int64
		wantOK bool
	}{
		{name: "numeric user id", user: &domain.CachedUser{ID: "15"}, want: 15, wantOK: true},
		{name: "zero falls back to token", user: &domain.CachedUser{ID: "0"}, token: mintToken(t, jwt.MapClaims{"id": 9}), want: 9, wantOK: true},
		{name: "non numeric falls back to token", user: &domain.CachedUser{ID: "abc"}, token: mintToken(t, jwt.MapClaims{"id": "11"}), want: 11, wantOK: true},
		{name: "token only", token: mintToken(t, jwt.MapClaims{"id": 3}), want: 3, wantOK: true},
		{name: "nothing"},
		{name: "token without id", token: mintToken(t, jwt.MapClaims{"role": "admin"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(newStubKV())
			if tt.user != nil {
				_ = s.SetUser(ctx, tt.user)
			}
			if tt.token != "" {
				_ = s.SetToken(ctx, tt.token)
			}
			got, ok := s.UserID(ctx)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("UserID = %d,%v want %d,%v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Claims decoding
// ---------------------------------------------------------------------------

func TestDecodeClaims_UTF8Payload(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"name":"Señor Ñandú","role":"vip"}`))
	claims := DecodeClaims("h." + payload + ".s")
	if claims == nil {
		t.Fatalf("expected claims")
	}
	if claims["name"] != "Señor Ñandú" {
		t.Fatalf("unexpected name: %v", claims["name"])
	}
}

func TestDecodeClaims_Invalid(t *testing.T) {
	invalidUTF8 := base64.RawURLEncoding.EncodeToString([]byte{0xff, 0xfe, '{', '}'})
	notJSON := base64.RawURLEncoding.EncodeToString([]byte("hello"))

	for _, tok := range []string{"", "single", "a..c", "a.!!!.c", "a." + invalidUTF8 + ".c", "a." + notJSON + ".c"} {
		if c := DecodeClaims(tok); c != nil {
			t.Fatalf("DecodeClaims(%q) = %v, want nil", tok, c)
		}
	}
}
