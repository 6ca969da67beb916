// Package room implements the room status state machine and its
// remote-backed registry.  Transitions are validated against a freshly
// fetched grid, requested from the billing service, and followed by another
// fetch; the local view is never mutated optimistically because several
// terminals may act on the same room at once.
package room

import (
	"context"
	"fmt"

	"github.com/vilamar/hostelpos/internal/billing"
	"github.com/vilamar/hostelpos/internal/model"
)

// transitions lists the legal operator-reachable edges of the state
// machine.  FREE→OCCUPIED happens implicitly at check-in and
// OCCUPIED→CLEANING at checkout, both driven by the billing service; they
// are included so server-driven updates validate too.
var transitions = map[model.RoomStatus][]model.RoomStatus{
	model.RoomFree:        {model.RoomOccupied, model.RoomMaintenance},
	model.RoomOccupied:    {model.RoomCleaning},
	model.RoomCleaning:    {model.RoomFree},
	model.RoomMaintenance: {model.RoomFree},
}

// CanTransition reports whether from→to is a legal edge.
func CanTransition(from, to model.RoomStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Actionable reports whether a governance operator may change the room's
// status directly.  An OCCUPIED room only yields informational detail (the
// occupant); freeing it goes through checkout.
func Actionable(status model.RoomStatus) bool {
	return status != model.RoomOccupied
}

// IllegalTransitionError is returned when a requested edge is not in the
// state machine.
type IllegalTransitionError struct {
	Room string
	From model.RoomStatus
	To   model.RoomStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("room %s: illegal transition %s -> %s", e.Room, e.From, e.To)
}

// Registry is the terminal's view onto the remote room registry.
type Registry struct {
	api *billing.Client
}

// NewRegistry returns a Registry backed by the given billing client.
func NewRegistry(api *billing.Client) *Registry {
	return &Registry{api: api}
}

// List fetches the current grid.
func (r *Registry) List(ctx context.Context) ([]model.Room, error) {
	return r.api.Rooms(ctx)
}

// FreeRooms returns the rooms currently selectable for a new check-in.
func (r *Registry) FreeRooms(ctx context.Context) ([]model.Room, error) {
	rooms, err := r.api.Rooms(ctx)
	if err != nil {
		return nil, err
	}
	free := make([]model.Room, 0, len(rooms))
	for _, rm := range rooms {
		if rm.Status == model.RoomFree {
			free = append(free, rm)
		}
	}
	return free, nil
}

// Transition validates the requested edge against the room's live status,
// sends the change to the registry, then re-fetches and returns the fresh
// grid.  Validation runs on fetched state, not on whatever the caller last
// displayed, to shrink the window for cross-terminal races.
func (r *Registry) Transition(ctx context.Context, roomID uint64, to model.RoomStatus) ([]model.Room, error) {
	rooms, err := r.api.Rooms(ctx)
	if err != nil {
		return nil, err
	}
	var current *model.Room
	for i := range rooms {
		if rooms[i].ID == roomID {
			current = &rooms[i]
			break
		}
	}
	if current == nil {
		return nil, billing.ErrNotFound
	}
	// Occupancy changes go through check-in/checkout, never a direct set.
	if !Actionable(current.Status) || to == model.RoomOccupied {
		return nil, &IllegalTransitionError{Room: current.Number, From: current.Status, To: to}
	}
	if !CanTransition(current.Status, to) {
		return nil, &IllegalTransitionError{Room: current.Number, From: current.Status, To: to}
	}
	if _, err := r.api.SetRoomStatus(ctx, roomID, to); err != nil {
		return nil, err
	}
	return r.api.Rooms(ctx)
}
