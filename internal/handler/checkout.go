package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vilamar/hostelpos/internal/checkout"
	"github.com/vilamar/hostelpos/internal/model"
)

// CheckoutHandler drives account closing from the front desk: preview by
// wristband or room, explicit multi-occupant disambiguation, then
// settlement with a mandatory payment method.
type CheckoutHandler struct {
	Checkout *checkout.Orchestrator
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(orch *checkout.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{Checkout: orch}
}

// PreviewByWristband handles GET /v1/checkout/wristband/:uid.
func (h *CheckoutHandler) PreviewByWristband(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "uid is required"})
	}
	preview, err := h.Checkout.PreviewByWristband(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, preview)
}

// PreviewByRoom handles GET /v1/checkout/room/:number.  With a single
// occupant it returns the preview directly; with several it returns the
// candidate list and the operator must call PreviewGuest with a choice.
func (h *CheckoutHandler) PreviewByRoom(c echo.Context) error {
	number := c.Param("number")
	occupants, err := h.Checkout.Occupants(c.Request().Context(), number)
	if err != nil {
		return respondError(c, err)
	}
	switch len(occupants) {
	case 0:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no active guest in room", "kind": "not_found"})
	case 1:
		preview, err := h.Checkout.PreviewGuest(c.Request().Context(), occupants[0].ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, preview)
	default:
		return c.JSON(http.StatusConflict, echo.Map{
			"kind": "ambiguous_room", "candidates": occupants,
		})
	}
}

// PreviewGuest handles GET /v1/checkout/guest/:id after disambiguation.
func (h *CheckoutHandler) PreviewGuest(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
	}
	preview, err := h.Checkout.PreviewGuest(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, preview)
}

// Settle handles POST /v1/checkout/:guestId with {settlementMethod}.
func (h *CheckoutHandler) Settle(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("guestId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
	}
	var body struct {
		Method model.SettlementMethod `json:"settlementMethod"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	result, err := h.Checkout.Settle(c.Request().Context(), id, body.Method)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
