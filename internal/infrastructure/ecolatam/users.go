package ecolatam

import (
	"context"
	"strconv"
	"strings"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/infrastructure/restclient"
)

const defaultUserPageSize = 10

// UsersClient manages /users.
type UsersClient struct {
	backend Backend
}

func NewUsersClient(backend Backend) *UsersClient {
	return &UsersClient{backend: backend}
}

func (c *UsersClient) Create(ctx context.Context, payload domain.UserPayload) (domain.Confirmation, error) {
	return confirm(c.backend.Post(ctx, "/users", payload))
}

// List returns a page of users. A blank search term is not sent.
func (c *UsersClient) List(ctx context.Context, q domain.UserListQuery) (domain.Page[domain.UserListItem], error) {
	page := domain.PageQuery{Limit: q.Limit, Offset: q.Offset}.WithDefaults(defaultUserPageSize)

	params := restclient.Params{"limit": page.Limit, "offset": page.Offset}
	if term := strings.TrimSpace(q.Q); term != "" {
		params["q"] = term
	}

	body, err := getList[domain.UserDTO](ctx, c.backend, "/users", params)
	if err != nil {
		return domain.EmptyPage[domain.UserListItem](page.Limit, page.Offset), err
	}
	return domain.NormalizePage(body, page.Limit, page.Offset, mapUserListItem), nil
}

func (c *UsersClient) GetByID(ctx context.Context, id int64) (*domain.UserDetail, error) {
	dto, err := getOne[domain.UserDTO](ctx, c.backend, "/users/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	detail := mapUserDetail(*dto)
	return &detail, nil
}

func (c *UsersClient) Update(ctx context.Context, payload domain.UserPayload) (domain.Confirmation, error) {
	return confirm(c.backend.Put(ctx, "/users", payload))
}

func (c *UsersClient) Delete(ctx context.Context, id int64) (domain.Confirmation, error) {
	return confirm(c.backend.Delete(ctx, "/users", map[string]int64{"id": id}))
}
