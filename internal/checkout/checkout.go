// Package checkout closes a guest's account.  The amount due is the
// ledger's currentDebt as fetched moments before settlement; the terminal
// displays order history as supporting detail but never re-derives the
// balance from it.
package checkout

import (
	"context"
	"errors"
	"log"

	"github.com/vilamar/hostelpos/internal/billing"
	"github.com/vilamar/hostelpos/internal/directory"
	"github.com/vilamar/hostelpos/internal/model"
	"github.com/vilamar/hostelpos/internal/room"
)

// ErrSettlementRequired is returned when no settlement method was selected.
var ErrSettlementRequired = errors.New("settlement method required")

// Orchestrator resolves the departing guest, previews the amount due and
// performs the settlement.
type Orchestrator struct {
	guests *directory.Directory
	rooms  *room.Registry
	api    *billing.Client
}

// NewOrchestrator wires the checkout flow to its collaborators.
func NewOrchestrator(guests *directory.Directory, rooms *room.Registry, api *billing.Client) *Orchestrator {
	return &Orchestrator{guests: guests, rooms: rooms, api: api}
}

// Preview shows the operator what settling will charge.  Orders may be
// empty when the history fetch fails; AmountDue never depends on it.
type Preview struct {
	Guest     model.Guest    `json:"guest"`
	AmountDue model.Centavos `json:"amountDue"`
	Orders    []model.Order  `json:"orders"`
}

// Result reflects the server's actions after settlement: the deactivated
// guest and, for room guests, the room now headed to cleaning.
type Result struct {
	Guest         model.Guest            `json:"guest"`
	AmountSettled model.Centavos         `json:"amountSettled"`
	Room          *model.Room            `json:"room,omitempty"`
	Settlement    model.SettlementMethod `json:"settlementMethod"`
}

// PreviewByWristband resolves the guest from a wristband scan and builds
// the checkout preview.
func (o *Orchestrator) PreviewByWristband(ctx context.Context, uid string) (*Preview, error) {
	snap, err := o.guests.ByWristband(ctx, uid)
	if err != nil {
		return nil, err
	}
	return o.preview(ctx, snap.Guest)
}

// PreviewGuest builds the preview for a guest chosen through room-based
// disambiguation (see Occupants).
func (o *Orchestrator) PreviewGuest(ctx context.Context, guestID uint64) (*Preview, error) {
	snap, err := o.guests.Refresh(ctx, model.Guest{ID: guestID})
	if err != nil {
		return nil, err
	}
	return o.preview(ctx, snap.Guest)
}

// Occupants lists the active guests of a room.  When more than one is
// returned the operator must pick explicitly before previewing.
func (o *Orchestrator) Occupants(ctx context.Context, roomNumber string) ([]model.Guest, error) {
	return o.guests.AllByRoom(ctx, roomNumber)
}

func (o *Orchestrator) preview(ctx context.Context, g model.Guest) (*Preview, error) {
	if !g.Active {
		return nil, billing.ErrGuestInactive
	}
	p := &Preview{Guest: g, AmountDue: g.CurrentDebt}
	if orders, err := o.api.OrdersByGuest(ctx, g.ID); err == nil {
		p.Orders = orders
	} else {
		log.Printf("checkout: order history fetch failed for guest %d: %v", g.ID, err)
	}
	return p, nil
}

// Settle re-fetches the guest, charges the live debt through the billing
// service and reports the room's server-driven move toward CLEANING.  The
// room transition is never assumed to land on FREE directly.
func (o *Orchestrator) Settle(ctx context.Context, guestID uint64, method model.SettlementMethod) (*Result, error) {
	if method == "" {
		return nil, ErrSettlementRequired
	}
	if !method.Valid() {
		return nil, ErrSettlementRequired
	}
	snap, err := o.guests.Refresh(ctx, model.Guest{ID: guestID})
	if err != nil {
		return nil, err
	}
	if !snap.Guest.Active {
		return nil, billing.ErrGuestInactive
	}
	due := snap.Guest.CurrentDebt

	settled, err := o.api.Checkout(ctx, guestID, method)
	if err != nil {
		return nil, err
	}
	res := &Result{Guest: settled, AmountSettled: due, Settlement: method}

	// Best-effort: surface the room's new status from a fresh grid.  The
	// account is already closed; a failed fetch only hides the room tile.
	if snap.Guest.Room != nil {
		if rooms, err := o.rooms.List(ctx); err == nil {
			for i := range rooms {
				if rooms[i].Number == *snap.Guest.Room {
					res.Room = &rooms[i]
					break
				}
			}
		} else {
			log.Printf("checkout: room grid refresh failed: %v", err)
		}
	}
	return res, nil
}
