package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/service"
)

// RedirectResponse tells the SPA where to navigate instead.
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

// RequireAuth admits authenticated visitors only.
func RequireAuth(guard *service.Guard) echo.MiddlewareFunc {
	return Require(guard, nil)
}

// RequireRoles admits visitors holding the given roles, evaluated with mode.
func RequireRoles(guard *service.Guard, mode domain.MatchMode, roles ...string) echo.MiddlewareFunc {
	return Require(guard, &service.RouteRequirement{Roles: roles, Mode: mode})
}

// Require runs the route guard before next. Unauthenticated visitors get a
// 401 pointing at login with a return URL; visitors lacking roles get a 403
// pointing home.
func Require(guard *service.Guard, req *service.RouteRequirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			decision := guard.Check(ctx, service.LocationFrom(ctx), req)

			switch decision.State {
			case service.GuardAuthorized:
				return next(c)
			case service.GuardUnauthorized:
				if target := NavigationFrom(c); target != "" {
					return c.JSON(http.StatusUnauthorized, RedirectResponse{Redirect: target})
				}
				return c.JSON(http.StatusForbidden, RedirectResponse{Redirect: decision.Redirect})
			default:
				return c.JSON(http.StatusUnauthorized, RedirectResponse{Redirect: decision.Redirect})
			}
		}
	}
}
