package ecolatam

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/infrastructure/restclient"
)

// loginIdentity is the part of a login answer that must be present for the
// login to count.
type loginIdentity struct {
	Token string `validate:"required"`
	ID    string `validate:"required,numeric"`
}

// registration is the part of a registration answer that must be present.
type registration struct {
	Data string `validate:"required"`
	ID   string `validate:"required,numeric"`
}

// AuthClient talks to /auth and to self-registration on /users.
type AuthClient struct {
	backend  Backend
	validate *validator.Validate
}

func NewAuthClient(backend Backend) *AuthClient {
	return &AuthClient{backend: backend, validate: validator.New()}
}

// Login posts the credentials anonymously. The answer may be enveloped or
// flat; the user object is read from "datos", "data" or "user".
func (c *AuthClient) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	resp, err := c.backend.Post(restclient.WithSkipAuth(ctx), "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(resp.Body) {
		return nil, fmt.Errorf("%w: login answer is not JSON", domain.ErrInvalidLogin)
	}

	body := unwrapBody(resp.Body)
	token := body.Get("token")
	id := body.Get("id")

	ident := loginIdentity{ID: numericText(id)}
	if token.Type == gjson.String {
		ident.Token = token.Str
	}
	if err := c.validate.Struct(ident); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLogin, err)
	}

	var user domain.CachedUser
	for _, key := range []string{"datos", "data", "user"} {
		if u := body.Get(key); u.IsObject() {
			if err := json.Unmarshal([]byte(u.Raw), &user); err != nil {
				user = domain.CachedUser{}
			}
			break
		}
	}

	userID := int64(id.Float())
	return &domain.LoginResult{Token: ident.Token, User: user, ID: userID}, nil
}

// Me returns the user behind the session token.
func (c *AuthClient) Me(ctx context.Context) (*domain.AuthUser, error) {
	resp, err := c.backend.Get(ctx, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope[domain.AuthUser](resp)
	if err != nil {
		return nil, err
	}
	if env.Error {
		return nil, fmt.Errorf("GET /auth/me: %w", domain.ErrBackendRejected)
	}
	return &env.Body, nil
}

// Refresh exchanges the session token for a new one.
func (c *AuthClient) Refresh(ctx context.Context) (string, error) {
	resp, err := c.backend.Post(ctx, "/auth/refresh", struct{}{})
	if err != nil {
		return "", err
	}
	env, err := decodeEnvelope[struct {
		Token string `json:"token"`
	}](resp)
	if err != nil {
		return "", err
	}
	if env.Error || env.Body.Token == "" {
		return "", fmt.Errorf("POST /auth/refresh: %w", domain.ErrBackendRejected)
	}
	return env.Body.Token, nil
}

// Register creates an account. The backend must answer with the created
// user under body.data and its numeric id; a token is returned only when
// the backend logs the user in right away.
func (c *AuthClient) Register(ctx context.Context, payload domain.RegisterPayload) (*domain.RegisterResult, error) {
	resp, err := c.backend.Post(restclient.WithSkipAuth(ctx), "/users", payload)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(resp.Body) {
		return nil, fmt.Errorf("%w: registration answer is not JSON", domain.ErrInvalidRegistration)
	}

	root := gjson.ParseBytes(resp.Body)
	if root.Get("error").Bool() {
		return nil, fmt.Errorf("%w: backend flagged an error", domain.ErrInvalidRegistration)
	}

	body := root.Get("body")
	data := body.Get("data")
	id := body.Get("id")

	reg := registration{}
	if data.IsObject() {
		reg.Data = data.Raw
	}
	if id.Type == gjson.Number {
		reg.ID = id.Raw
	}
	if err := c.validate.Struct(reg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRegistration, err)
	}

	var user domain.AuthUser
	if err := json.Unmarshal([]byte(data.Raw), &user); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRegistration, err)
	}

	return &domain.RegisterResult{
		Token: body.Get("token").String(),
		User:  user,
		ID:    id.Int(),
	}, nil
}

// numericText renders a JSON number, or a string holding one, as text.
// Anything else yields "".
func numericText(r gjson.Result) string {
	switch r.Type {
	case gjson.Number:
		return r.Raw
	case gjson.String:
		return r.Str
	default:
		return ""
	}
}
