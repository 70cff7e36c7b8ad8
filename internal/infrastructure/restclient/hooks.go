package restclient

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ecolatam/gateway/internal/core/ports"
	"github.com/ecolatam/gateway/internal/core/service"
	"github.com/ecolatam/gateway/internal/pkg/metrics"
)

type skipAuthKey struct{}

// WithSkipAuth marks every call made with ctx as anonymous: no bearer token
// is attached.
func WithSkipAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipAuthKey{}, true)
}

// SkipAuth reports whether ctx carries the anonymous flag.
func SkipAuth(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAuthKey{}).(bool)
	return skip
}

// BearerAuth attaches "Authorization: Bearer <token>" from the call's
// session. The incoming request is never mutated.
type BearerAuth struct {
	Next     http.RoundTripper
	Sessions ports.SessionLocator
}

func (b *BearerAuth) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if SkipAuth(ctx) || b.Sessions == nil {
		return b.Next.RoundTrip(req)
	}
	sess := b.Sessions(ctx)
	if sess == nil {
		return b.Next.RoundTrip(req)
	}
	token := sess.Token(ctx)
	if token == "" {
		return b.Next.RoundTrip(req)
	}

	authed := req.Clone(ctx)
	authed.Header.Set("Authorization", "Bearer "+token)
	return b.Next.RoundTrip(authed)
}

// SessionExpiry applies the auth-failure policy to every backend answer
// before the caller sees it. A 401 logs the visitor out and sends them to
// login with a return URL. A 403 is only recorded.
type SessionExpiry struct {
	Next       http.RoundTripper
	Sessions   ports.SessionLocator
	Navigators ports.NavigatorLocator
	Log        zerolog.Logger
}

func (s *SessionExpiry) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := s.Next.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		metrics.SessionExpiredTotal.WithLabelValues("401").Inc()
		s.expire(req.Context())
	case http.StatusForbidden:
		metrics.SessionExpiredTotal.WithLabelValues("403").Inc()
		s.Log.Debug().Str("method", req.Method).Str("url", req.URL.Redacted()).Msg("backend denied access")
	}
	return resp, nil
}

func (s *SessionExpiry) expire(ctx context.Context) {
	if s.Sessions != nil {
		if sess := s.Sessions(ctx); sess != nil {
			if err := sess.Logout(ctx); err != nil {
				s.Log.Error().Err(err).Msg("session logout after 401 failed")
			}
		}
	}

	target := service.LoginRedirect(service.LocationFrom(ctx))
	if s.Navigators != nil {
		if nav := s.Navigators(ctx); nav != nil {
			nav.Navigate(target)
		}
	}
	s.Log.Info().Str("redirect", target).Msg("backend rejected credentials, session cleared")
}

// NewTransport builds the outbound chain: bearer injection, then the
// session-expiry policy, then Prometheus instrumentation around base.
func NewTransport(base http.RoundTripper, sessions ports.SessionLocator, navigators ports.NavigatorLocator, log zerolog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	instrumented := promhttp.InstrumentRoundTripperInFlight(metrics.BackendInFlight,
		promhttp.InstrumentRoundTripperCounter(metrics.BackendRequestsTotal,
			promhttp.InstrumentRoundTripperDuration(metrics.BackendRequestDuration, base),
		),
	)

	return &BearerAuth{
		Sessions: sessions,
		Next: &SessionExpiry{
			Next:       instrumented,
			Sessions:   sessions,
			Navigators: navigators,
			Log:        log,
		},
	}
}
