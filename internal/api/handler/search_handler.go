package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolatam/gateway/internal/core/ports"
)

type SearchHandler struct {
	searcher ports.Searcher
}

func NewSearchHandler(searcher ports.Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search godoc
//
// @Summary  Global search box
// @Tags     search
// @Produce  json
// @Param    q    query    string  true  "Term"
// @Success  200  {array}  domain.SearchResult
// @Router   /search [get]
func (h *SearchHandler) Search(c echo.Context) error {
	results, err := h.searcher.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}
