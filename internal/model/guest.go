package model

import "time"

// GuestKind distinguishes the billing regime a guest is under.  Regular
// guests bill against an open room tab, day-pass guests carry a hard
// spending limit, and VIPs bill without a limit.
type GuestKind string

const (
	GuestRegular GuestKind = "REGULAR"
	GuestDayPass GuestKind = "DAY_PASS"
	GuestVIP     GuestKind = "VIP"
)

// Guest mirrors a guest record owned by the remote billing service.  The
// terminal never holds an authoritative copy: a Guest is always obtained as
// part of a GuestSnapshot and discarded after the decision that needed it.
//
// Fields:
//
//	ID            – identifier assigned at check-in.
//	Kind          – billing regime (REGULAR, DAY_PASS, VIP).
//	Name          – guest display name.
//	Room          – room number for REGULAR guests (nil otherwise).
//	WristbandUID  – NFC wristband identifier bound at check-in.
//	SpendingLimit – hard ceiling in centavos; only meaningful for DAY_PASS.
//	CurrentDebt   – accumulated tab, net of any entry deposit per the
//	                ledger's definition.  Monotonically non-decreasing
//	                until checkout.
//	Active        – false once the guest has checked out.  Inactive guests
//	                must be rejected from new orders.
type Guest struct {
	ID            uint64    `json:"id"`
	Kind          GuestKind `json:"kind"`
	Name          string    `json:"name"`
	Room          *string   `json:"room,omitempty"`
	WristbandUID  string    `json:"wristbandUid"`
	SpendingLimit *Centavos `json:"spendingLimit,omitempty"`
	CurrentDebt   Centavos  `json:"currentDebt"`
	Active        bool      `json:"active"`
}

// Limited reports whether the guest is subject to a spending limit.
func (g *Guest) Limited() bool {
	return g.Kind == GuestDayPass && g.SpendingLimit != nil
}

// Allowance returns how much the guest may still spend.  The second return
// value is false when no limit applies.
func (g *Guest) Allowance() (Centavos, bool) {
	if !g.Limited() {
		return 0, false
	}
	rem := *g.SpendingLimit - g.CurrentDebt
	if rem < 0 {
		rem = 0
	}
	return rem, true
}

// GuestSnapshot is a single-use, explicitly timestamped copy of a guest
// record.  Callers fetch one immediately before a decision that depends on
// debt or the active flag and must not reuse it afterwards; another terminal
// may change the record at any time.
type GuestSnapshot struct {
	Guest     Guest
	FetchedAt time.Time
}

// Age returns how long ago the snapshot was taken.
func (s GuestSnapshot) Age() time.Duration {
	return time.Since(s.FetchedAt)
}
