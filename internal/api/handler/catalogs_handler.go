package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
)

// CatalogsHandler serves the location cascade of forms and the
// administration of reference catalogs and business categories.
type CatalogsHandler struct {
	catalogs   ports.CatalogsAPI
	admin      ports.AdminCatalogsAPI
	categories ports.CategoriesAPI
}

func NewCatalogsHandler(catalogs ports.CatalogsAPI, admin ports.AdminCatalogsAPI, categories ports.CategoriesAPI) *CatalogsHandler {
	return &CatalogsHandler{catalogs: catalogs, admin: admin, categories: categories}
}

// Paises godoc
//
// @Summary  Countries
// @Tags     catalogs
// @Produce  json
// @Success  200  {array}  domain.Option
// @Router   /catalogs/paises [get]
func (h *CatalogsHandler) Paises(c echo.Context) error {
	opts, err := h.catalogs.Paises(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, opts)
}

// Provincias godoc
//
// @Summary  Provinces of a country
// @Tags     catalogs
// @Produce  json
// @Param    pais  query     int  true  "Country id"
// @Success  200   {array}   domain.Option
// @Router   /catalogs/provincias [get]
func (h *CatalogsHandler) Provincias(c echo.Context) error {
	return h.children(c, "pais", h.catalogs.ProvinciasByPais)
}

func (h *CatalogsHandler) Cantones(c echo.Context) error {
	return h.children(c, "provincia", h.catalogs.CantonesByProvincia)
}

func (h *CatalogsHandler) Distritos(c echo.Context) error {
	return h.children(c, "canton", h.catalogs.DistritosByCanton)
}

// children lists the options under the parent named by query param. A
// missing parent yields no options: the level is disabled.
func (h *CatalogsHandler) children(c echo.Context, param string, fetch func(ctx context.Context, id int64) ([]domain.Option, error)) error {
	var parent int64
	if err := echo.QueryParamsBinder(c).Int64(param, &parent).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid "+param)
	}
	if parent <= 0 {
		return c.JSON(http.StatusOK, []domain.Option{})
	}
	opts, err := fetch(c.Request().Context(), parent)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, opts)
}

// ---------------------------------------------------------------------------
// Administration
// ---------------------------------------------------------------------------

func catalogType(c echo.Context) (domain.CatalogType, error) {
	t := domain.CatalogType(c.Param("type"))
	if _, err := t.Endpoint(); err != nil {
		return "", err
	}
	return t, nil
}

// ListCatalog godoc
//
// @Summary  List a reference catalog
// @Tags     admin
// @Produce  json
// @Param    type    path      string  true   "pais, provincia, canton, distrito or idtype"
// @Param    limit   query     int     false  "Page size"
// @Param    offset  query     int     false  "Offset"
// @Success  200     {array}   domain.CatalogItem
// @Failure  404     {object}  map[string]string
// @Router   /admin/catalogs/{type} [get]
func (h *CatalogsHandler) ListCatalog(c echo.Context) error {
	t, err := catalogType(c)
	if err != nil {
		return err
	}
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	items, err := h.admin.List(c.Request().Context(), t, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ListCatalogAll drains the whole catalog.
func (h *CatalogsHandler) ListCatalogAll(c echo.Context) error {
	t, err := catalogType(c)
	if err != nil {
		return err
	}
	var pageSize int
	if err := echo.QueryParamsBinder(c).Int("pageSize", &pageSize).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pageSize")
	}
	items, err := h.admin.ListAll(c.Request().Context(), t, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogsHandler) GetCatalogItem(c echo.Context) error {
	t, err := catalogType(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.admin.GetByID(c.Request().Context(), t, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogsHandler) CreateCatalogItem(c echo.Context) error {
	t, err := catalogType(c)
	if err != nil {
		return err
	}
	var req domain.CatalogPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	conf, err := h.admin.Create(c.Request().Context(), t, req)
	if err != nil {
		return err
	}
	return confirmation(c, http.StatusCreated, conf)
}

func (h *CatalogsHandler) UpdateCatalogItem(c echo.Context) error {
	t, err := catalogType(c)
	if err != nil {
		return err
	}
	var req domain.CatalogPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.ID == nil || *req.ID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}
	conf, err := h.admin.Update(c.Request().Context(), t, req)
	if err != nil {
		return err
	}
	return confirmation(c, http.StatusOK, conf)
}

func (h *CatalogsHandler) DeleteCatalogItem(c echo.Context) error {
	t, err := catalogType(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	conf, err := h.admin.Delete(c.Request().Context(), t, id)
	if err != nil {
		return err
	}
	return confirmation(c, http.StatusOK, conf)
}

// ---------------------------------------------------------------------------
// Business categories
// ---------------------------------------------------------------------------

func (h *CatalogsHandler) ListCategories(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	items, err := h.categories.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogsHandler) ListCategoriesAll(c echo.Context) error {
	var pageSize int
	if err := echo.QueryParamsBinder(c).Int("pageSize", &pageSize).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pageSize")
	}
	items, err := h.categories.ListAll(c.Request().Context(), pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogsHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.categories.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogsHandler) CreateCategory(c echo.Context) error {
	var req domain.CategoryPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	conf, err := h.categories.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return confirmation(c, http.StatusCreated, conf)
}

func (h *CatalogsHandler) UpdateCategory(c echo.Context) error {
	var req domain.CategoryPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.ID == nil || *req.ID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}
	conf, err := h.categories.Update(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return confirmation(c, http.StatusOK, conf)
}

func (h *CatalogsHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	conf, err := h.categories.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return confirmation(c, http.StatusOK, conf)
}
