package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
)

// SocialHandler serves the community feed and the role request forms.
type SocialHandler struct {
	social ports.SocialAPI
}

func NewSocialHandler(social ports.SocialAPI) *SocialHandler {
	return &SocialHandler{social: social}
}

type likeResponse struct {
	Likes int `json:"likes"`
}

func feedQuery(c echo.Context) (domain.FeedQuery, error) {
	var q domain.FeedQuery
	var filter string
	err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("pageSize", &q.PageSize).
		String("filter", &filter).
		BindError()
	if err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "invalid feed parameters")
	}
	q.Filter = domain.FeedFilter(filter)
	return q, nil
}

// Feed godoc
//
// @Summary  Community feed
// @Tags     social
// @Produce  json
// @Param    page      query    int     false  "Page, from 1"
// @Param    pageSize  query    int     false  "Page size"
// @Param    filter    query    string  false  "all, business, volunteer, guide or vip"
// @Success  200       {array}  domain.Post
// @Router   /social/feed [get]
func (h *SocialHandler) Feed(c echo.Context) error {
	q, err := feedQuery(c)
	if err != nil {
		return err
	}
	posts, err := h.social.Feed(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *SocialHandler) VIPFeed(c echo.Context) error {
	q, err := feedQuery(c)
	if err != nil {
		return err
	}
	posts, err := h.social.VIPFeed(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *SocialHandler) CreatePost(c echo.Context) error {
	var req domain.NewPost
	if err := bindValid(c, &req); err != nil {
		return err
	}
	post, err := h.social.CreatePost(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

func (h *SocialHandler) Like(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	likes, err := h.social.Like(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse{Likes: likes})
}

func (h *SocialHandler) OfferVolunteer(c echo.Context) error {
	var req domain.VolunteerOffer
	return h.form(c, &req, func() (json.RawMessage, error) {
		return h.social.OfferVolunteer(c.Request().Context(), req)
	})
}

func (h *SocialHandler) RequestVolunteers(c echo.Context) error {
	var req domain.VolunteerRequest
	return h.form(c, &req, func() (json.RawMessage, error) {
		return h.social.RequestVolunteers(c.Request().Context(), req)
	})
}

func (h *SocialHandler) ContactGuide(c echo.Context) error {
	var req domain.GuideContact
	return h.form(c, &req, func() (json.RawMessage, error) {
		return h.social.ContactGuide(c.Request().Context(), req)
	})
}

func (h *SocialHandler) RequestInspection(c echo.Context) error {
	var req domain.InspectionRequest
	return h.form(c, &req, func() (json.RawMessage, error) {
		return h.social.RequestInspection(c.Request().Context(), req)
	})
}

// form binds and validates req, then relays the backend answer as is.
func (h *SocialHandler) form(c echo.Context, req any, send func() (json.RawMessage, error)) error {
	if err := bindValid(c, req); err != nil {
		return err
	}
	raw, err := send()
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusCreated, raw)
}
