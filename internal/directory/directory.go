// Package directory resolves guest identities for the terminal.  Every
// resolution call is a revalidation call: it goes to the billing service and
// returns a fresh, timestamped snapshot.  Nothing here caches, because a
// guest obtained more than a few seconds before use may already carry a
// stale debt or a flipped active flag.
package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vilamar/hostelpos/internal/billing"
	"github.com/vilamar/hostelpos/internal/model"
)

// AmbiguousRoomError is returned by ByRoom when more than one active guest
// occupies the room.  The caller must disambiguate explicitly; the
// directory never auto-picks an occupant.
type AmbiguousRoomError struct {
	Room       string
	Candidates []model.Guest
}

func (e *AmbiguousRoomError) Error() string {
	return fmt.Sprintf("room %s has %d active guests", e.Room, len(e.Candidates))
}

// Directory performs guest lookups against the billing service.
type Directory struct {
	api *billing.Client
}

// New returns a Directory backed by the given billing client.
func New(api *billing.Client) *Directory {
	return &Directory{api: api}
}

// ByWristband resolves the guest bound to a wristband UID.
func (d *Directory) ByWristband(ctx context.Context, uid string) (model.GuestSnapshot, error) {
	g, err := d.api.GuestByWristband(ctx, uid)
	if err != nil {
		return model.GuestSnapshot{}, err
	}
	return model.GuestSnapshot{Guest: g, FetchedAt: time.Now().UTC()}, nil
}

// ByRoom resolves the single active guest of a room.  It returns
// billing.ErrNotFound when the room is empty and an AmbiguousRoomError when
// several active guests share it.
func (d *Directory) ByRoom(ctx context.Context, roomNumber string) (model.GuestSnapshot, error) {
	matches, err := d.AllByRoom(ctx, roomNumber)
	if err != nil {
		return model.GuestSnapshot{}, err
	}
	switch len(matches) {
	case 0:
		return model.GuestSnapshot{}, billing.ErrNotFound
	case 1:
		return model.GuestSnapshot{Guest: matches[0], FetchedAt: time.Now().UTC()}, nil
	default:
		return model.GuestSnapshot{}, &AmbiguousRoomError{Room: roomNumber, Candidates: matches}
	}
}

// AllByRoom returns every active guest of a room, for checkout flows where
// a room may hold multiple occupants.
func (d *Directory) AllByRoom(ctx context.Context, roomNumber string) ([]model.Guest, error) {
	guests, err := d.api.ActiveGuests(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]model.Guest, 0, 2)
	for _, g := range guests {
		if g.Room != nil && *g.Room == roomNumber {
			matches = append(matches, g)
		}
	}
	return matches, nil
}

// ByName returns active guests whose name contains the fragment,
// case-insensitively.
func (d *Directory) ByName(ctx context.Context, fragment string) ([]model.Guest, error) {
	guests, err := d.api.ActiveGuests(ctx)
	if err != nil {
		return nil, err
	}
	frag := strings.ToLower(strings.TrimSpace(fragment))
	matches := make([]model.Guest, 0, 4)
	for _, g := range guests {
		if strings.Contains(strings.ToLower(g.Name), frag) {
			matches = append(matches, g)
		}
	}
	return matches, nil
}

// Refresh re-fetches a previously selected guest immediately before a
// money-moving decision, discarding the stale copy.  Guests with a
// wristband are re-read through it; otherwise the active list is consulted
// by ID.  A guest who has since checked out surfaces as ErrGuestInactive.
func (d *Directory) Refresh(ctx context.Context, stale model.Guest) (model.GuestSnapshot, error) {
	if stale.WristbandUID != "" {
		snap, err := d.ByWristband(ctx, stale.WristbandUID)
		if err != nil {
			return model.GuestSnapshot{}, err
		}
		return snap, nil
	}
	guests, err := d.api.ActiveGuests(ctx)
	if err != nil {
		return model.GuestSnapshot{}, err
	}
	for _, g := range guests {
		if g.ID == stale.ID {
			return model.GuestSnapshot{Guest: g, FetchedAt: time.Now().UTC()}, nil
		}
	}
	// Absent from the active list: deactivated since selection.
	return model.GuestSnapshot{}, billing.ErrGuestInactive
}
