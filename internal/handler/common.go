package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vilamar/hostelpos/internal/billing"
	"github.com/vilamar/hostelpos/internal/cart"
	"github.com/vilamar/hostelpos/internal/checkout"
	"github.com/vilamar/hostelpos/internal/directory"
	"github.com/vilamar/hostelpos/internal/intake"
	"github.com/vilamar/hostelpos/internal/room"
	"github.com/vilamar/hostelpos/internal/session"
)

// currentSession loads the operator session referenced by the JWT claims
// that JWTAuth stored in context.
func currentSession(c echo.Context, store *session.Store) (*session.Session, error) {
	v := c.Get("session_id")
	id, ok := v.(string)
	if !ok || id == "" {
		return nil, session.ErrNotFound
	}
	return store.Get(id)
}

// respondError maps the error taxonomy onto HTTP responses.  Each payload
// carries a machine-readable kind so the UI can pick the remediation path
// (re-prompt, PIN retry, escalation) without parsing prose.  Unclassified
// errors fall back to a generic message while the original detail goes to
// the log; nothing that affects money or stock is swallowed.
func respondError(c echo.Context, err error) error {
	var vErr *intake.ValidationError
	var stockErr *billing.InsufficientStockError
	var limitErr *billing.LimitExceededError
	var boundErr *cart.StockBoundError
	var ambErr *directory.AmbiguousRoomError
	var transErr *room.IllegalTransitionError

	switch {
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": vErr.Error(), "kind": "validation", "field": vErr.Field,
		})
	case errors.As(err, &ambErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": ambErr.Error(), "kind": "ambiguous_room", "candidates": ambErr.Candidates,
		})
	case errors.As(err, &stockErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": stockErr.Error(), "kind": "insufficient_stock",
			"product": stockErr.Product, "available": stockErr.Available,
		})
	case errors.As(err, &limitErr):
		// Terminal for this flow: the guest goes to the front desk, the
		// terminal must not retry on its own.
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": limitErr.Error(), "kind": "spending_limit_exceeded",
			"available": limitErr.Available(), "remediation": "escalate_front_desk",
		})
	case errors.As(err, &boundErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": boundErr.Error(), "kind": "insufficient_stock",
			"product": boundErr.Product, "available": boundErr.Available,
		})
	case errors.As(err, &transErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": transErr.Error(), "kind": "illegal_transition",
		})
	case errors.Is(err, billing.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found", "kind": "not_found"})
	case errors.Is(err, billing.ErrUnauthorized):
		// Bad or missing manager PIN: the UI re-opens the PIN modal and
		// clears only the PIN field.
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "unauthorized", "kind": "unauthorized", "remediation": "reprompt_pin",
		})
	case errors.Is(err, billing.ErrGuestInactive):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "guest inactive", "kind": "guest_inactive", "remediation": "reresolve_guest",
		})
	case errors.Is(err, checkout.ErrSettlementRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": checkout.ErrSettlementRequired.Error(), "kind": "validation", "field": "settlementMethod",
		})
	case errors.Is(err, cart.ErrNotVisible), errors.Is(err, cart.ErrNotInCart):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "kind": "validation"})
	case errors.Is(err, billing.ErrNetwork):
		log.Printf("handler: network failure: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": "billing service unreachable", "kind": "network", "remediation": "retry",
		})
	case errors.Is(err, session.ErrNotFound):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired", "kind": "unauthorized"})
	default:
		log.Printf("handler: unclassified error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
