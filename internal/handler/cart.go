package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vilamar/hostelpos/internal/catalog"
	"github.com/vilamar/hostelpos/internal/session"
)

// CartHandler mutates the session cart.  Additions look the product up in
// the visible listing so a delisted item cannot enter a cart, and
// quantities stay bounded by last-known stock.
type CartHandler struct {
	Sessions *session.Store
	Catalog  *catalog.Catalog
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(sessions *session.Store, cat *catalog.Catalog) *CartHandler {
	return &CartHandler{Sessions: sessions, Catalog: cat}
}

// Get handles GET /v1/cart.
func (h *CartHandler) Get(c echo.Context) error {
	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"lines": sess.Cart.Lines(),
		"total": sess.Cart.Total(),
		"units": sess.Cart.Units(),
	})
}

// Add handles POST /v1/cart/items with {productId, quantity}.
func (h *CartHandler) Add(c echo.Context) error {
	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		ProductID uint64 `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "productId is required"})
	}
	products, err := h.Catalog.ListVisible(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	for _, p := range products {
		if p.ID == body.ProductID {
			if err := sess.Cart.Add(p, body.Quantity); err != nil {
				return respondError(c, err)
			}
			return c.JSON(http.StatusOK, echo.Map{"lines": sess.Cart.Lines(), "total": sess.Cart.Total()})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found", "kind": "not_found"})
}

// Update handles PATCH /v1/cart/items/:productId with {"op": "increment"}
// or {"op": "decrement"}.
func (h *CartHandler) Update(c echo.Context) error {
	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return respondError(c, err)
	}
	id, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	var body struct {
		Op string `json:"op"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	switch body.Op {
	case "increment":
		err = sess.Cart.Increment(id)
	case "decrement":
		err = sess.Cart.Decrement(id)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "op must be increment or decrement"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"lines": sess.Cart.Lines(), "total": sess.Cart.Total()})
}

// Remove handles DELETE /v1/cart/items/:productId.
func (h *CartHandler) Remove(c echo.Context) error {
	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return respondError(c, err)
	}
	id, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	if err := sess.Cart.Remove(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"lines": sess.Cart.Lines(), "total": sess.Cart.Total()})
}

// Clear handles DELETE /v1/cart.
func (h *CartHandler) Clear(c echo.Context) error {
	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return respondError(c, err)
	}
	sess.Cart.Clear()
	return c.NoContent(http.StatusNoContent)
}
