package intake

import (
	"errors"
	"testing"

	"github.com/vilamar/hostelpos/internal/model"
)

func TestPolicyCheck(t *testing.T) {
	var p Policy
	cases := []struct {
		name  string
		mode  model.OperatorMode
		auth  AuthContext
		field string // empty means accepted
	}{
		{"wristband in waiter mode", model.ModeGarcom, Wristband{UID: "NFC01"}, ""},
		{"wristband in kiosk mode", model.ModeKiosk, Wristband{UID: "NFC01"}, ""},
		{"wristband with empty uid", model.ModeGarcom, Wristband{}, "wristband"},
		{"manual with pin", model.ModeGarcom, Manual{GuestID: 1, ManagerPin: "9999"}, ""},
		{"manual without pin", model.ModeGarcom, Manual{GuestID: 1}, "managerPin"},
		{"manual without guest", model.ModeGarcom, Manual{ManagerPin: "9999"}, "guest"},
		{"manual in kiosk mode", model.ModeKiosk, Manual{GuestID: 1, ManagerPin: "9999"}, "authorization"},
		{"missing context", model.ModeGarcom, nil, "authorization"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.Check(tc.mode, tc.auth)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("expected accept, got %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tc.field {
				t.Errorf("field = %q, want %q", vErr.Field, tc.field)
			}
		})
	}
}

func TestRequiresManagerOverride(t *testing.T) {
	var p Policy
	if p.RequiresManagerOverride(Wristband{UID: "NFC01"}) {
		t.Error("wristband tier must not require an override")
	}
	if !p.RequiresManagerOverride(Manual{GuestID: 1}) {
		t.Error("manual tier requires the override modal")
	}
}
