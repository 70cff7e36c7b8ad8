package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
)

// EcoguiaHandler exposes the business directory.
type EcoguiaHandler struct {
	ecoguia ports.EcoguiaAPI
}

func NewEcoguiaHandler(ecoguia ports.EcoguiaAPI) *EcoguiaHandler {
	return &EcoguiaHandler{ecoguia: ecoguia}
}

type createBusinessResponse struct {
	ID int64 `json:"id"`
}

// ListBusinesses godoc
//
// @Summary      List businesses
// @Description  Pass user to list the businesses owned by one user.
// @Tags         ecoguia
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Offset"
// @Param        user    query     int  false  "Owner id"
// @Success      200     {object}  domain.Page[domain.BusinessListItem]
// @Router       /ecoguia/businesses [get]
func (h *EcoguiaHandler) ListBusinesses(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}

	var userID int64
	if err := echo.QueryParamsBinder(c).Int64("user", &userID).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user")
	}

	ctx := c.Request().Context()
	var page domain.Page[domain.BusinessListItem]
	if userID > 0 {
		page, err = h.ecoguia.ListBusinessesByUser(ctx, userID, q)
	} else {
		page, err = h.ecoguia.ListBusinesses(ctx, q)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// GetBusiness godoc
//
// @Summary  Business detail
// @Tags     ecoguia
// @Produce  json
// @Param    id   path      int  true  "Business id"
// @Success  200  {object}  domain.BusinessDetail
// @Failure  404  {object}  map[string]string
// @Router   /ecoguia/businesses/{id} [get]
func (h *EcoguiaHandler) GetBusiness(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.ecoguia.GetBusiness(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *EcoguiaHandler) BusinessProducts(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.ecoguia.ProductsByBusiness(c.Request().Context(), id, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *EcoguiaHandler) BusinessServices(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.ecoguia.ServicesByBusiness(c.Request().Context(), id, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *EcoguiaHandler) ListProducts(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.ecoguia.ListProducts(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *EcoguiaHandler) ListServices(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.ecoguia.ListServices(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *EcoguiaHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.ecoguia.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *EcoguiaHandler) GetService(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.ecoguia.GetService(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// CreateBusiness godoc
//
// @Summary  Register a business owned by the visitor
// @Tags     ecoguia
// @Accept   json
// @Produce  json
// @Param    body  body      domain.CreateBusinessPayload  true  "Business"
// @Success  201   {object}  createBusinessResponse
// @Failure  400   {object}  map[string]string
// @Router   /ecoguia/businesses [post]
func (h *EcoguiaHandler) CreateBusiness(c echo.Context) error {
	var req domain.CreateBusinessPayload
	if err := bindValid(c, &req); err != nil {
		return err
	}
	req.NormalizeLocation()
	id, err := h.ecoguia.CreateBusiness(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createBusinessResponse{ID: id})
}

func (h *EcoguiaHandler) SubmitBusinessKyc(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req domain.BusinessKycPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	conf, err := h.ecoguia.SubmitBusinessKyc(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return confirmation(c, http.StatusCreated, conf)
}
