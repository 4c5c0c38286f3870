package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hahacafe/coffee-shop/internal/service/search"
)

type SearchHandler struct {
	Service *search.Service
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "search query is required")
	}

	result, err := h.Service.Search(c.Request().Context(), q)
	if err != nil {
		c.Logger().Errorf("search error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, result)
}
