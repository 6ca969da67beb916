package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vilamar/hostelpos/internal/billing"
	"github.com/vilamar/hostelpos/internal/intake"
	"github.com/vilamar/hostelpos/internal/model"
	"github.com/vilamar/hostelpos/internal/session"
)

// OrderHandler submits and cancels orders.  Submission runs the intake
// orchestrator's full checklist; a manual-tier body without a manager PIN
// is rejected here and never reaches the network layer.
type OrderHandler struct {
	Sessions *session.Store
	Intake   *intake.Orchestrator
	API      *billing.Client
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(sessions *session.Store, orch *intake.Orchestrator, api *billing.Client) *OrderHandler {
	return &OrderHandler{Sessions: sessions, Intake: orch, API: api}
}

// Submit handles POST /v1/orders.  The body selects the authorization
// tier: a wristband UID, or a guest ID plus the manager override PIN
// captured by the confirmation modal.
func (h *OrderHandler) Submit(c echo.Context) error {
	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		WristbandUID string `json:"wristbandUid"`
		GuestID      uint64 `json:"guestId"`
		ManagerPin   string `json:"managerPin"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	var auth intake.AuthContext
	switch {
	case body.WristbandUID != "" && body.GuestID != 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "supply either wristbandUid or guestId, not both"})
	case body.WristbandUID != "":
		auth = intake.Wristband{UID: body.WristbandUID}
	case body.GuestID != 0:
		auth = intake.Manual{GuestID: body.GuestID, ManagerPin: body.ManagerPin}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest identification is required"})
	}

	receipt, err := h.Intake.Submit(c.Request().Context(), intake.Submission{
		Cart:     sess.Cart,
		Mode:     sess.Mode,
		Auth:     auth,
		StaffPin: sess.StaffPin,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, receipt)
}

// List handles GET /v1/orders?guestId=N for the recent-orders screen.
func (h *OrderHandler) List(c echo.Context) error {
	guestID, err := strconv.ParseUint(c.QueryParam("guestId"), 10, 64)
	if err != nil || guestID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guestId is required"})
	}
	orders, err := h.API.OrdersByGuest(c.Request().Context(), guestID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// Cancel handles DELETE /v1/orders/:id.  Cancellation always requires a
// manager PIN, whatever tier created the order, and is only meaningful
// while the order has not been delivered.
func (h *OrderHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var body struct {
		ManagerPin string `json:"managerPin"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ManagerPin == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "managerPin is required"})
	}
	order, err := h.API.CancelOrder(c.Request().Context(), id, body.ManagerPin)
	if err != nil {
		return respondError(c, err)
	}
	if order.Status != model.OrderCancelled {
		// The service answered success but did not cancel; surface as-is
		// rather than pretending.
		return c.JSON(http.StatusConflict, echo.Map{"error": "order not cancellable", "order": order})
	}
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}
