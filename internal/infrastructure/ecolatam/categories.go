package ecolatam

import (
	"context"
	"strconv"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
	"github.com/ecolatam/gateway/internal/core/service"
)

const categoriesPath = "/bcategory"

// CategoriesClient administers the business categories.
type CategoriesClient struct {
	backend  Backend
	sessions ports.SessionLocator
}

func NewCategoriesClient(backend Backend, sessions ports.SessionLocator) *CategoriesClient {
	return &CategoriesClient{backend: backend, sessions: sessions}
}

func (c *CategoriesClient) List(ctx context.Context, q domain.PageQuery) ([]domain.BusinessCategory, error) {
	return listRows[domain.BusinessCategory](ctx, c.backend, categoriesPath, q.WithDefaults(defaultAdminPageSize))
}

func (c *CategoriesClient) ListAll(ctx context.Context, pageSize int) ([]domain.BusinessCategory, error) {
	return service.FetchAll(ctx, pageSize, func(ctx context.Context, limit, offset int) ([]domain.BusinessCategory, error) {
		return listRows[domain.BusinessCategory](ctx, c.backend, categoriesPath, domain.PageQuery{Limit: limit, Offset: offset})
	})
}

func (c *CategoriesClient) GetByID(ctx context.Context, id int64) (*domain.BusinessCategory, error) {
	return getOne[domain.BusinessCategory](ctx, c.backend, categoriesPath+"/"+strconv.FormatInt(id, 10))
}

func (c *CategoriesClient) Create(ctx context.Context, payload domain.CategoryPayload) (domain.Confirmation, error) {
	payload.AddedBy = actorID(ctx, c.sessions)
	return confirm(c.backend.Post(ctx, categoriesPath, payload))
}

func (c *CategoriesClient) Update(ctx context.Context, payload domain.CategoryPayload) (domain.Confirmation, error) {
	return confirm(c.backend.Put(ctx, categoriesPath, payload))
}

func (c *CategoriesClient) Delete(ctx context.Context, id int64) (domain.Confirmation, error) {
	return confirm(c.backend.Delete(ctx, categoriesPath, map[string]int64{"id": id}))
}
