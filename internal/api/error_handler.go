package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolatam/gateway/internal/api/middleware"
	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/infrastructure/restclient"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Answers {"redirect": ...} with 401 when the backend rejected the
//     visitor's credentials during the request.
//   - Maps known domain errors and backend statuses to HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if target := middleware.NavigationFrom(c); target != "" {
			_ = c.JSON(http.StatusUnauthorized, middleware.RedirectResponse{Redirect: target})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, domain.ErrInvalidCatalogType):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrInvalidLogin):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrInvalidRegistration), errors.Is(err, domain.ErrInvalidKyc):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrUnexpectedShape), errors.Is(err, domain.ErrBackendRejected):
		log.Warn().Err(err).Str("path", c.Path()).Msg("unusable backend answer")
		return http.StatusBadGateway, "unexpected backend response"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "backend timeout"
	}

	// Backend statuses the SPA can act on are relayed; the rest become 502.
	var upstream *restclient.HTTPError
	if errors.As(err, &upstream) {
		switch upstream.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
			http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity:
			return upstream.StatusCode, http.StatusText(upstream.StatusCode)
		}
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend call failed")
		return http.StatusBadGateway, "backend unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
