package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vilamar/hostelpos/internal/catalog"
)

// ProductHandler lists the catalog for menu screens.
type ProductHandler struct {
	Catalog *catalog.Catalog
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(cat *catalog.Catalog) *ProductHandler {
	return &ProductHandler{Catalog: cat}
}

// List handles GET /v1/products.  Only items eligible for new cart
// additions are returned; ?fresh=true bypasses the display cache.
func (h *ProductHandler) List(c echo.Context) error {
	if c.QueryParam("fresh") == "true" {
		h.Catalog.Invalidate()
	}
	products, err := h.Catalog.ListVisible(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}
