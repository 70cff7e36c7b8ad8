package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolatam/gateway/internal/core/ports"
	"github.com/ecolatam/gateway/internal/core/service"
)

// HeaderCurrentRoute carries the SPA route the visitor is on.
const HeaderCurrentRoute = "X-Current-Route"

// ScopeConfig configures the per-visitor scope.
type ScopeConfig struct {
	Store      ports.KVStorage
	Keys       service.SessionKeys
	CookieName string
	CookieTTL  time.Duration
	Secure     bool
	Log        zerolog.Logger
}

type visitor struct {
	id      string
	session *service.Session
	nav     *service.NavigationRecorder
}

type visitorKey struct{}

// Scope identifies the visitor by a session cookie, minting one when absent,
// and binds their Session, a navigation recorder and their current route to
// the request context.
func Scope(cfg ScopeConfig) echo.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "ecolatam_sid"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			sid := ""
			if ck, err := c.Cookie(cfg.CookieName); err == nil {
				if _, err := uuid.Parse(ck.Value); err == nil {
					sid = ck.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cfg.CookieName,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(cfg.CookieTTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			v := &visitor{
				id:      sid,
				session: service.NewSession(cfg.Store, "session:"+sid, cfg.Keys, cfg.Log.With().Str("sid", sid).Logger()),
				nav:     &service.NavigationRecorder{},
			}

			location := req.Header.Get(HeaderCurrentRoute)
			if location == "" {
				location = req.RequestURI
			}

			ctx := context.WithValue(req.Context(), visitorKey{}, v)
			ctx = service.WithLocation(ctx, location)
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

func visitorFrom(ctx context.Context) *visitor {
	v, _ := ctx.Value(visitorKey{}).(*visitor)
	return v
}

// Sessions is the ports.SessionLocator of scoped requests.
func Sessions(ctx context.Context) ports.SessionStore {
	if v := visitorFrom(ctx); v != nil {
		return v.session
	}
	return nil
}

// Navigators is the ports.NavigatorLocator of scoped requests.
func Navigators(ctx context.Context) ports.Navigator {
	if v := visitorFrom(ctx); v != nil {
		return v.nav
	}
	return nil
}

// SessionFrom returns the visitor's session, nil outside Scope.
func SessionFrom(c echo.Context) *service.Session {
	if v := visitorFrom(c.Request().Context()); v != nil {
		return v.session
	}
	return nil
}

// NavigationFrom returns the navigation recorded for the visitor during this
// request, "" when none was issued.
func NavigationFrom(c echo.Context) string {
	if v := visitorFrom(c.Request().Context()); v != nil {
		return v.nav.Target()
	}
	return ""
}
