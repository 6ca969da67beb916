// Package intake decides whether a proposed purchase may be committed
// against a guest's account and carries it through submission.  It owns the
// three authorization tiers and the pre-submission revalidation checklist.
package intake

import "github.com/vilamar/hostelpos/internal/billing"

// AuthContext is the tagged authorization variant attached to a
// submission.  Exactly one concrete form exists per tier, so an illegal
// state such as a manual-tier order without a manager PIN is caught before
// anything reaches the network layer.  The staff credential is carried
// separately on the Submission, since it applies to every tier.
type AuthContext interface {
	// apply stamps the guest reference (and manager PIN, if any) onto the
	// outgoing batch request.
	apply(req *billing.SubmitRequest)
}

// Wristband authorizes via a scanned wristband UID.  No manager override is
// required.  Mandatory in kiosk mode, optional for waiters.
type Wristband struct {
	UID string
}

func (w Wristband) apply(req *billing.SubmitRequest) {
	req.WristbandUID = w.UID
}

// Manual authorizes a staff-selected guest (found by room or name) and
// therefore requires a manager override PIN captured through the blocking
// confirmation step before submission.
type Manual struct {
	GuestID    uint64
	ManagerPin string
}

func (m Manual) apply(req *billing.SubmitRequest) {
	req.GuestID = m.GuestID
	req.ManagerPin = m.ManagerPin
}
