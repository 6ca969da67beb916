package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vilamar/hostelpos/internal/billing"
	"github.com/vilamar/hostelpos/internal/directory"
	"github.com/vilamar/hostelpos/internal/model"
	"github.com/vilamar/hostelpos/internal/room"
)

// GuestHandler exposes guest resolution and check-in.  Resolution responses
// include the snapshot timestamp so the UI can show how fresh the data is;
// the orchestrators re-fetch on their own regardless.
type GuestHandler struct {
	Guests *directory.Directory
	Rooms  *room.Registry
	API    *billing.Client
}

// NewGuestHandler constructs a GuestHandler.
func NewGuestHandler(guests *directory.Directory, rooms *room.Registry, api *billing.Client) *GuestHandler {
	return &GuestHandler{Guests: guests, Rooms: rooms, API: api}
}

// ByWristband handles GET /v1/guests/wristband/:uid.
func (h *GuestHandler) ByWristband(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "uid is required"})
	}
	snap, err := h.Guests.ByWristband(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"guest": snap.Guest, "fetched_at": snap.FetchedAt})
}

// ByRoom handles GET /v1/guests/room/:number.  An ambiguous room comes back
// as 409 with the candidate list for explicit disambiguation.
func (h *GuestHandler) ByRoom(c echo.Context) error {
	number := c.Param("number")
	if number == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room number is required"})
	}
	snap, err := h.Guests.ByRoom(c.Request().Context(), number)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"guest": snap.Guest, "fetched_at": snap.FetchedAt})
}

// Search handles GET /v1/guests/search?name=frag.
func (h *GuestHandler) Search(c echo.Context) error {
	frag := c.QueryParam("name")
	if frag == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name fragment is required"})
	}
	guests, err := h.Guests.ByName(c.Request().Context(), frag)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"guests": guests})
}

// Occupants handles GET /v1/guests/room/:number/all for checkout flows
// where a room may hold several active guests.
func (h *GuestHandler) Occupants(c echo.Context) error {
	number := c.Param("number")
	guests, err := h.Guests.AllByRoom(c.Request().Context(), number)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"guests": guests})
}

// CheckIn handles POST /v1/guests.  Regular guests need a FREE room; the
// selected room is validated against a fresh grid before the request goes
// upstream so a just-occupied room fails here instead of at the service.
func (h *GuestHandler) CheckIn(c echo.Context) error {
	var body struct {
		Kind          model.GuestKind        `json:"kind"`
		Name          string                 `json:"name"`
		Document      string                 `json:"document"`
		RoomID        uint64                 `json:"roomId"`
		WristbandUID  string                 `json:"wristbandUid"`
		SpendingLimit *model.Centavos        `json:"spendingLimit"`
		EntryAmount   model.Centavos         `json:"entryAmount"`
		Settlement    model.SettlementMethod `json:"settlementMethod"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" || body.WristbandUID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and wristbandUid are required"})
	}
	switch body.Kind {
	case model.GuestRegular, model.GuestDayPass, model.GuestVIP:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest kind"})
	}
	ctx := c.Request().Context()
	if body.Kind == model.GuestRegular {
		if body.RoomID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "roomId is required for regular guests"})
		}
		free, err := h.Rooms.FreeRooms(ctx)
		if err != nil {
			return respondError(c, err)
		}
		selectable := false
		for _, r := range free {
			if r.ID == body.RoomID {
				selectable = true
				break
			}
		}
		if !selectable {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room is not free", "kind": "illegal_transition"})
		}
	}
	guest, err := h.API.CreateGuest(ctx, billing.CheckInRequest{
		Kind:          body.Kind,
		Name:          body.Name,
		Document:      body.Document,
		RoomID:        body.RoomID,
		WristbandUID:  body.WristbandUID,
		SpendingLimit: body.SpendingLimit,
		EntryAmount:   body.EntryAmount,
		Settlement:    body.Settlement,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"guest": guest})
}

// Orders handles GET /v1/guests/:id/orders.  The history is supporting
// detail on statements and at checkout; it never drives the amount due.
func (h *GuestHandler) Orders(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
	}
	orders, err := h.API.OrdersByGuest(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}
