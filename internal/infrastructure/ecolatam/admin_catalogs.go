package ecolatam

import (
	"context"
	"strconv"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
	"github.com/ecolatam/gateway/internal/core/service"
	"github.com/ecolatam/gateway/internal/infrastructure/restclient"
)

const defaultAdminPageSize = 50

// AdminCatalogsClient administers the flat reference catalogs.
type AdminCatalogsClient struct {
	backend  Backend
	sessions ports.SessionLocator
}

func NewAdminCatalogsClient(backend Backend, sessions ports.SessionLocator) *AdminCatalogsClient {
	return &AdminCatalogsClient{backend: backend, sessions: sessions}
}

func (c *AdminCatalogsClient) List(ctx context.Context, t domain.CatalogType, q domain.PageQuery) ([]domain.CatalogItem, error) {
	path, err := t.Endpoint()
	if err != nil {
		return nil, err
	}
	return listRows[domain.CatalogItem](ctx, c.backend, path, q.WithDefaults(defaultAdminPageSize))
}

// ListAll drains the catalog page by page.
func (c *AdminCatalogsClient) ListAll(ctx context.Context, t domain.CatalogType, pageSize int) ([]domain.CatalogItem, error) {
	path, err := t.Endpoint()
	if err != nil {
		return nil, err
	}
	return service.FetchAll(ctx, pageSize, func(ctx context.Context, limit, offset int) ([]domain.CatalogItem, error) {
		return listRows[domain.CatalogItem](ctx, c.backend, path, domain.PageQuery{Limit: limit, Offset: offset})
	})
}

func (c *AdminCatalogsClient) GetByID(ctx context.Context, t domain.CatalogType, id int64) (*domain.CatalogItem, error) {
	path, err := t.Endpoint()
	if err != nil {
		return nil, err
	}
	return getOne[domain.CatalogItem](ctx, c.backend, path+"/"+strconv.FormatInt(id, 10))
}

// Create adds a row attributed to the session user.
func (c *AdminCatalogsClient) Create(ctx context.Context, t domain.CatalogType, payload domain.CatalogPayload) (domain.Confirmation, error) {
	path, err := t.Endpoint()
	if err != nil {
		return domain.Confirmation{}, err
	}
	payload.AddedBy = actorID(ctx, c.sessions)
	return confirm(c.backend.Post(ctx, path, payload))
}

func (c *AdminCatalogsClient) Update(ctx context.Context, t domain.CatalogType, payload domain.CatalogPayload) (domain.Confirmation, error) {
	path, err := t.Endpoint()
	if err != nil {
		return domain.Confirmation{}, err
	}
	return confirm(c.backend.Put(ctx, path, payload))
}

func (c *AdminCatalogsClient) Delete(ctx context.Context, t domain.CatalogType, id int64) (domain.Confirmation, error) {
	path, err := t.Endpoint()
	if err != nil {
		return domain.Confirmation{}, err
	}
	return confirm(c.backend.Delete(ctx, path, map[string]int64{"id": id}))
}

// listRows fetches one page of path and returns its rows, tolerating a bare
// array, an {items} object and an unexpected body, which yields no rows.
func listRows[T any](ctx context.Context, b Backend, path string, q domain.PageQuery) ([]T, error) {
	resp, err := b.Get(ctx, path, restclient.Params{"limit": q.Limit, "offset": q.Offset})
	if err != nil {
		return nil, err
	}
	return decodeRows[T](resp.Body)
}
