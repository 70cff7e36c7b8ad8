package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ecolatam/gateway/internal/core/domain"
)

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// pageQuery reads ?limit and ?offset; absent values stay zero so the client
// defaults apply.
func pageQuery(c echo.Context) (domain.PageQuery, error) {
	var q domain.PageQuery
	err := echo.QueryParamsBinder(c).
		Int("limit", &q.Limit).
		Int("offset", &q.Offset).
		BindError()
	if err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	return q, nil
}

// bindValid binds the request body into v and validates it.
func bindValid(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

type confirmationResponse struct {
	Message string `json:"message"`
	ID      *int64 `json:"id,omitempty"`
}

func confirmation(c echo.Context, status int, conf domain.Confirmation) error {
	return c.JSON(status, confirmationResponse{Message: conf.String(), ID: conf.ID})
}
