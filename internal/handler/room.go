package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vilamar/hostelpos/internal/model"
	"github.com/vilamar/hostelpos/internal/room"
)

// RoomHandler serves the governance grid and operator-declared room
// transitions (cleaning confirmation, maintenance toggling).
type RoomHandler struct {
	Rooms *room.Registry
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(reg *room.Registry) *RoomHandler {
	return &RoomHandler{Rooms: reg}
}

// List handles GET /v1/rooms.  ?free=true narrows to rooms selectable for
// check-in.
func (h *RoomHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if c.QueryParam("free") == "true" {
		rooms, err := h.Rooms.FreeRooms(ctx)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
	}
	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// SetStatus handles PATCH /v1/rooms/:id/status with {status}.  The
// registry validates the edge against live state and re-fetches the grid;
// the response carries the whole fresh grid so every tile updates at once.
func (h *RoomHandler) SetStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var body struct {
		Status model.RoomStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	switch body.Status {
	case model.RoomFree, model.RoomCleaning, model.RoomMaintenance:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid target status"})
	}
	// Cleaners confirm cleaning and nothing else; maintenance moves need a
	// manager.
	if role, _ := c.Get("role").(string); role == string(model.RoleCleaner) && body.Status != model.RoomFree {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cleaners may only mark rooms clean"})
	}
	rooms, err := h.Rooms.Transition(c.Request().Context(), id, body.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}
