package restclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ecolatam/gateway/internal/core/domain"
)

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		base, origin, want string
	}{
		{"https://api.ecolatam.com/", "https://ecolatam.com", "https://api.ecolatam.com"},
		{"HTTP://api.local//", "", "HTTP://api.local"},
		{"/api/", "https://ecolatam.com/", "https://ecolatam.com/api"},
		{"/api", "", "/api"},
		{"", "https://ecolatam.com", ""},
		{"///", "https://ecolatam.com", ""},
	}

	for _, tt := range tests {
		if got := ResolveBaseURL(tt.base, tt.origin); got != tt.want {
			t.Fatalf("ResolveBaseURL(%q,%q) = %q, want %q", tt.base, tt.origin, got, tt.want)
		}
	}
}

func TestParams_Encode(t *testing.T) {
	name := "x"
	var missing *string

	tests := []struct {
		params Params
		want   string
	}{
		{Params{"a": []int{1, 2}, "b": nil, "c": "x"}, "a=1&a=2&c=x"},
		{Params{"p": &name, "q": missing}, "p=x"},
		{Params{"ids": []any{1, nil, "3"}}, "ids=1&ids=3"},
		{Params{"limit": 10, "offset": 0}, "limit=10&offset=0"},
		{Params{"q": "café con leche"}, "q=caf%C3%A9+con+leche"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := tt.params.Encode(); got != tt.want {
			t.Fatalf("Encode(%v) = %q, want %q", tt.params, got, tt.want)
		}
	}
}

func newTestClient(srv *httptest.Server) *Client {
	return New(Config{BaseURL: srv.URL + "/api/"}, zerolog.Nop())
}

func TestClient_GetJoinsBaseAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.RawQuery != "limit=10&offset=20" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("unexpected accept header %q", r.Header.Get("Accept"))
		}
		_, _ = io.WriteString(w, `{"error":false,"status":200,"body":[]}`)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv).Get(context.Background(), "/users", Params{"limit": 10, "offset": 20})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var env struct {
		Status int `json:"status"`
	}
	if err := resp.Decode(&env); err != nil || env.Status != 200 {
		t.Fatalf("decode: %v %+v", err, env)
	}
}

func TestClient_DeleteSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		if string(raw) != `{"id":9}` {
			t.Errorf("unexpected body %s", raw)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing content type")
		}
		_, _ = io.WriteString(w, `{"body":"Eliminado"}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv).Delete(context.Background(), "/users", map[string]int64{"id": 9}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestClient_NonSuccessIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, strings.Repeat("x", 500))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Post(context.Background(), "/business", map[string]string{"name": "a"})
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if he.StatusCode != http.StatusNotFound || he.Method != http.MethodPost || len(he.Body) != 500 {
		t.Fatalf("unexpected error %+v", he)
	}
}

func TestHTTPError_MatchesUnauthenticated(t *testing.T) {
	if !errors.Is(&HTTPError{StatusCode: http.StatusUnauthorized}, domain.ErrUnauthenticated) {
		t.Fatalf("a 401 must match ErrUnauthenticated")
	}
	if errors.Is(&HTTPError{StatusCode: http.StatusForbidden}, domain.ErrUnauthenticated) {
		t.Fatalf("a 403 must not match ErrUnauthenticated")
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := newTestClient(srv)
	srv.Close()

	if _, err := c.Get(context.Background(), "/users", nil); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestClient_RawPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<p>ok</p>")
	}))
	defer srv.Close()

	resp, err := newTestClient(srv).RawPost(context.Background(), "/contact", map[string]string{"m": "hola"})
	if err != nil {
		t.Fatalf("RawPost: %v", err)
	}
	if resp.Text() != "<p>ok</p>" {
		t.Fatalf("unexpected body %q", resp.Text())
	}
}

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	c := newTestClient(srv)

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("a 404 still means the backend is up: %v", err)
	}

	srv.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("expected error once the backend is gone")
	}
}
