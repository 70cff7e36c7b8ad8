package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
)

type UsersHandler struct {
	users ports.UsersAPI
}

func NewUsersHandler(users ports.UsersAPI) *UsersHandler {
	return &UsersHandler{users: users}
}

type deleteRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// List godoc
//
// @Summary  List users
// @Tags     users
// @Produce  json
// @Param    q       query     string  false  "Search term"
// @Param    limit   query     int     false  "Page size"
// @Param    offset  query     int     false  "Offset"
// @Success  200     {object}  domain.Page[domain.UserListItem]
// @Router   /users [get]
func (h *UsersHandler) List(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.users.List(c.Request().Context(), domain.UserListQuery{
		Q:      c.QueryParam("q"),
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get godoc
//
// @Summary  User detail
// @Tags     users
// @Produce  json
// @Param    id   path      int  true  "User id"
// @Success  200  {object}  domain.UserDetail
// @Failure  404  {object}  map[string]string
// @Router   /users/{id} [get]
func (h *UsersHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Create godoc
//
// @Summary  Create a user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body  body      domain.UserPayload  true  "User"
// @Success  201   {object}  confirmationResponse
// @Router   /users [post]
func (h *UsersHandler) Create(c echo.Context) error {
	var req domain.UserPayload
	if err := bindValid(c, &req); err != nil {
		return err
	}
	req.NormalizeLocation()
	conf, err := h.users.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return confirmation(c, http.StatusCreated, conf)
}

// Update godoc
//
// @Summary  Update a user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body  body      domain.UserPayload  true  "User, id included"
// @Success  200   {object}  confirmationResponse
// @Router   /users [put]
func (h *UsersHandler) Update(c echo.Context) error {
	var req domain.UserPayload
	if err := bindValid(c, &req); err != nil {
		return err
	}
	req.NormalizeLocation()
	if req.ID == nil || *req.ID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}
	conf, err := h.users.Update(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return confirmation(c, http.StatusOK, conf)
}

// Delete godoc
//
// @Summary  Delete a user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body  body      deleteRequest  true  "Target"
// @Success  200   {object}  confirmationResponse
// @Router   /users [delete]
func (h *UsersHandler) Delete(c echo.Context) error {
	var req deleteRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	conf, err := h.users.Delete(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}
	return confirmation(c, http.StatusOK, conf)
}
