package ecolatam

import (
	"context"
	"sync"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/infrastructure/restclient"
)

// CatalogsClient serves the country → province → canton → district cascade.
// The country list is fetched once and kept for the life of the client;
// a failed fetch is not remembered.
type CatalogsClient struct {
	backend Backend

	mu     sync.Mutex
	paises []domain.Option
}

func NewCatalogsClient(backend Backend) *CatalogsClient {
	return &CatalogsClient{backend: backend}
}

func (c *CatalogsClient) Paises(ctx context.Context) ([]domain.Option, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paises != nil {
		return c.paises, nil
	}
	opts, err := c.options(ctx, "/pais", nil)
	if err != nil {
		return nil, err
	}
	c.paises = opts
	return opts, nil
}

func (c *CatalogsClient) ProvinciasByPais(ctx context.Context, paisID int64) ([]domain.Option, error) {
	return c.options(ctx, "/provincia", restclient.Params{"pais": paisID})
}

func (c *CatalogsClient) CantonesByProvincia(ctx context.Context, provinciaID int64) ([]domain.Option, error) {
	return c.options(ctx, "/canton", restclient.Params{"provincia": provinciaID})
}

func (c *CatalogsClient) DistritosByCanton(ctx context.Context, cantonID int64) ([]domain.Option, error) {
	return c.options(ctx, "/distrito", restclient.Params{"canton": cantonID})
}

func (c *CatalogsClient) options(ctx context.Context, path string, params restclient.Params) ([]domain.Option, error) {
	body, err := getList[domain.CatalogItem](ctx, c.backend, path, params)
	if err != nil {
		return nil, err
	}
	opts := make([]domain.Option, 0, len(body.Items))
	for _, item := range body.Items {
		opts = append(opts, mapOption(item))
	}
	return opts, nil
}
