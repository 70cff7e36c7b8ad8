package service

import (
	"context"
	"net/url"
	"strings"
	"sync"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way browsers escape a URI component.
func EncodeURIComponent(s string) string {
	return componentUnescapes.Replace(url.QueryEscape(s))
}

// LoginRedirect returns where a visitor at location is sent when the backend
// rejects their credentials. Locations already under /login are sent to the
// bare login page so the return URL never nests.
func LoginRedirect(location string) string {
	if location == "" {
		location = HomePath
	}
	if strings.HasPrefix(location, LoginPath) {
		return LoginPath
	}
	return LoginPath + "?redirectTo=" + EncodeURIComponent(location)
}

// NavigationRecorder is a Navigator that remembers the last instruction.
type NavigationRecorder struct {
	mu  sync.Mutex
	url string
}

func (r *NavigationRecorder) Navigate(target string) {
	r.mu.Lock()
	r.url = target
	r.mu.Unlock()
}

// Target returns the last navigation target, "" when none was issued.
func (r *NavigationRecorder) Target() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.url
}

type locationKey struct{}

// WithLocation records the visitor's current location on ctx.
func WithLocation(ctx context.Context, location string) context.Context {
	return context.WithValue(ctx, locationKey{}, location)
}

// LocationFrom returns the location recorded on ctx, "" when there is none.
func LocationFrom(ctx context.Context) string {
	loc, _ := ctx.Value(locationKey{}).(string)
	return loc
}
