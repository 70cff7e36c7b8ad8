package ecolatam

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
	"github.com/ecolatam/gateway/internal/infrastructure/restclient"
)

const (
	defaultListPageSize   = 12
	defaultByUserPageSize = 6
)

// EcoguiaClient serves the business directory: businesses and the products
// and services they offer.
type EcoguiaClient struct {
	backend  Backend
	sessions ports.SessionLocator
}

func NewEcoguiaClient(backend Backend, sessions ports.SessionLocator) *EcoguiaClient {
	return &EcoguiaClient{backend: backend, sessions: sessions}
}

func (c *EcoguiaClient) ListBusinesses(ctx context.Context, q domain.PageQuery) (domain.Page[domain.BusinessListItem], error) {
	return c.listBusinesses(ctx, q.WithDefaults(defaultListPageSize), nil)
}

func (c *EcoguiaClient) ListBusinessesByUser(ctx context.Context, userID int64, q domain.PageQuery) (domain.Page[domain.BusinessListItem], error) {
	return c.listBusinesses(ctx, q.WithDefaults(defaultByUserPageSize), restclient.Params{"user": userID})
}

func (c *EcoguiaClient) listBusinesses(ctx context.Context, q domain.PageQuery, extra restclient.Params) (domain.Page[domain.BusinessListItem], error) {
	params := restclient.Params{"limit": q.Limit, "offset": q.Offset}
	for k, v := range extra {
		params[k] = v
	}
	body, err := getList[domain.BusinessDTO](ctx, c.backend, "/business", params)
	if err != nil {
		return domain.EmptyPage[domain.BusinessListItem](q.Limit, q.Offset), err
	}
	return domain.NormalizePage(body, q.Limit, q.Offset, mapBusinessListItem), nil
}

func (c *EcoguiaClient) GetBusiness(ctx context.Context, id int64) (*domain.BusinessDetail, error) {
	dto, err := getOne[domain.BusinessDTO](ctx, c.backend, "/business/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	detail := mapBusinessDetail(*dto)
	return &detail, nil
}

func (c *EcoguiaClient) ProductsByBusiness(ctx context.Context, businessID int64, q domain.PageQuery) (domain.Page[domain.ProductItem], error) {
	return listOfferings(ctx, c.backend, "/product", q, restclient.Params{"business": businessID}, mapProduct)
}

func (c *EcoguiaClient) ServicesByBusiness(ctx context.Context, businessID int64, q domain.PageQuery) (domain.Page[domain.ServiceItem], error) {
	return listOfferings(ctx, c.backend, "/service", q, restclient.Params{"business": businessID}, mapService)
}

func (c *EcoguiaClient) ListProducts(ctx context.Context, q domain.PageQuery) (domain.Page[domain.ProductItem], error) {
	return listOfferings(ctx, c.backend, "/product", q, nil, mapProduct)
}

func (c *EcoguiaClient) ListServices(ctx context.Context, q domain.PageQuery) (domain.Page[domain.ServiceItem], error) {
	return listOfferings(ctx, c.backend, "/service", q, nil, mapService)
}

func listOfferings[M any](ctx context.Context, b Backend, path string, q domain.PageQuery, extra restclient.Params, mapFn func(domain.OfferingDTO) M) (domain.Page[M], error) {
	q = q.WithDefaults(defaultListPageSize)
	params := restclient.Params{"limit": q.Limit, "offset": q.Offset}
	for k, v := range extra {
		params[k] = v
	}
	body, err := getList[domain.OfferingDTO](ctx, b, path, params)
	if err != nil {
		return domain.EmptyPage[M](q.Limit, q.Offset), err
	}
	return domain.NormalizePage(body, q.Limit, q.Offset, mapFn), nil
}

func (c *EcoguiaClient) GetProduct(ctx context.Context, id int64) (*domain.ProductItem, error) {
	dto, err := getOne[domain.OfferingDTO](ctx, c.backend, "/product/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	item := mapProduct(*dto)
	return &item, nil
}

func (c *EcoguiaClient) GetService(ctx context.Context, id int64) (*domain.ServiceItem, error) {
	dto, err := getOne[domain.OfferingDTO](ctx, c.backend, "/service/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	item := mapService(*dto)
	return &item, nil
}

// CreateBusiness registers a business owned by the session user and returns
// its new id. The owner is omitted when the session has no user id.
func (c *EcoguiaClient) CreateBusiness(ctx context.Context, payload domain.CreateBusinessPayload) (int64, error) {
	payload.IDUser = actorID(ctx, c.sessions)

	resp, err := c.backend.Post(ctx, "/business", payload)
	if err != nil {
		return 0, err
	}
	id := unwrapBody(resp.Body).Get("id")
	if id.Type != gjson.Number {
		return 0, fmt.Errorf("POST /business: %w: missing numeric id", domain.ErrUnexpectedShape)
	}
	return id.Int(), nil
}

func (c *EcoguiaClient) SubmitBusinessKyc(ctx context.Context, businessID int64, payload domain.BusinessKycPayload) (domain.Confirmation, error) {
	return confirm(c.backend.Post(ctx, "/business/"+strconv.FormatInt(businessID, 10)+"/kyc", payload))
}
