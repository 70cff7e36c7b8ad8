package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
	"github.com/ecolatam/gateway/internal/core/service"
)

// DefaultLoginRedirect is where a visitor lands after logging in without a
// return URL.
const DefaultLoginRedirect = "/users"

type AuthHandler struct {
	auth     ports.AuthAPI
	roles    ports.RoleResolver
	sessions ports.SessionLocator
}

func NewAuthHandler(auth ports.AuthAPI, roles ports.RoleResolver, sessions ports.SessionLocator) *AuthHandler {
	return &AuthHandler{auth: auth, roles: roles, sessions: sessions}
}

type loginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

type loginResponse struct {
	User     domain.CachedUser `json:"user"`
	Redirect string            `json:"redirect"`
}

type registerResponse struct {
	ID            int64           `json:"id"`
	User          domain.AuthUser `json:"user"`
	Authenticated bool            `json:"authenticated"`
}

type rolesResponse struct {
	Roles []string `json:"roles"`
	Hint  []string `json:"hint"`
}

func (h *AuthHandler) session(c echo.Context) (ports.SessionStore, error) {
	sess := h.sessions(c.Request().Context())
	if sess == nil {
		return nil, domain.ErrUnauthenticated
	}
	return sess, nil
}

// Login authenticates against the backend and opens the visitor session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	res, err := h.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}
	if err := service.StoreLogin(ctx, sess, res); err != nil {
		return err
	}

	redirect := req.RedirectTo
	if redirect == "" {
		redirect = DefaultLoginRedirect
	}
	user := sess.User(ctx)
	if user == nil {
		user = &res.User
	}
	return c.JSON(http.StatusOK, loginResponse{User: *user, Redirect: redirect})
}

// Register creates an account. When the backend logs the new user in right
// away the session is opened too.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.RegisterPayload  true  "Profile"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req domain.RegisterPayload
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	res, err := h.auth.Register(ctx, req)
	if err != nil {
		return err
	}

	authenticated := false
	if res.Token != "" {
		if sess := h.sessions(ctx); sess != nil {
			login := &domain.LoginResult{
				Token: res.Token,
				ID:    res.ID,
				User: domain.CachedUser{
					Name:     res.User.Name,
					Lastname: res.User.Lastname,
					Username: res.User.Username,
					Email:    res.User.Email,
				},
			}
			if err := service.StoreLogin(ctx, sess, login); err != nil {
				return err
			}
			authenticated = true
		}
	}

	return c.JSON(http.StatusCreated, registerResponse{ID: res.ID, User: res.User, Authenticated: authenticated})
}

// Logout clears the visitor session.
//
// @Summary  Logout
// @Tags     auth
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	if err := sess.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"redirect": service.LoginPath})
}

// Me returns the backend's view of the session user.
//
// @Summary  Current user
// @Tags     auth
// @Produce  json
// @Success  200  {object}  domain.AuthUser
// @Failure  401  {object}  map[string]string
// @Router   /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.auth.Me(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Refresh swaps the session token for a fresh one.
//
// @Summary  Refresh the session token
// @Tags     auth
// @Success  204
// @Failure  401  {object}  map[string]string
// @Router   /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	token, err := h.auth.Refresh(ctx)
	if err != nil {
		return err
	}
	if err := sess.SetToken(ctx, token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Roles returns the effective roles of the visitor and the session hint.
//
// @Summary  Visitor roles
// @Tags     auth
// @Produce  json
// @Success  200  {object}  rolesResponse
// @Router   /auth/roles [get]
func (h *AuthHandler) Roles(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, rolesResponse{
		Roles: h.roles.EffectiveRoles(ctx),
		Hint:  sess.RoleHint(ctx),
	})
}
