package intake

import (
	"fmt"

	"github.com/vilamar/hostelpos/internal/model"
)

// ValidationError reports malformed input caught before any network call.
// Always recoverable locally.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Policy maps (operator mode, authorization context) to the tier rules.
// It is stateless; a single value is shared by all sessions.
type Policy struct{}

// Check verifies that the context is acceptable for the mode and that a
// required manager override is actually present.  Kiosks may only submit
// wristband-authorized orders; a staff-selected guest in waiter mode is the
// manual tier and must carry a manager PIN.
func (Policy) Check(mode model.OperatorMode, auth AuthContext) error {
	switch a := auth.(type) {
	case Wristband:
		if a.UID == "" {
			return &ValidationError{Field: "wristband", Reason: "empty UID"}
		}
		return nil
	case Manual:
		if mode == model.ModeKiosk {
			return &ValidationError{Field: "authorization", Reason: "kiosk orders require a wristband scan"}
		}
		if a.GuestID == 0 {
			return &ValidationError{Field: "guest", Reason: "no guest selected"}
		}
		if a.ManagerPin == "" {
			return &ValidationError{Field: "managerPin", Reason: "manager override required for manual guest selection"}
		}
		return nil
	case nil:
		return &ValidationError{Field: "authorization", Reason: "missing"}
	default:
		return &ValidationError{Field: "authorization", Reason: "unknown context"}
	}
}

// RequiresManagerOverride reports whether the confirmation modal must be
// completed before an order with this context may be submitted.
func (Policy) RequiresManagerOverride(auth AuthContext) bool {
	_, manual := auth.(Manual)
	return manual
}
