package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vilamar/hostelpos/internal/billing"
	"github.com/vilamar/hostelpos/internal/directory"
	"github.com/vilamar/hostelpos/internal/model"
	"github.com/vilamar/hostelpos/internal/room"
)

type fakeDesk struct {
	mu     sync.Mutex
	guests []model.Guest
	rooms  []model.Room
	orders []model.Order
}

func (f *fakeDesk) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/guests", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		active := make([]model.Guest, 0, len(f.guests))
		for _, g := range f.guests {
			if g.Active {
				active = append(active, g)
			}
		}
		writeOK(w, active)
	})
	mux.HandleFunc("/guests/wristband/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		uid := r.URL.Path[len("/guests/wristband/"):]
		for _, g := range f.guests {
			if g.WristbandUID == uid {
				writeOK(w, g)
				return
			}
		}
		writeFail(w, http.StatusNotFound, "guest not found")
	})
	mux.HandleFunc("/guests/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/checkout") {
			http.NotFound(w, r)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.guests {
			if strings.Contains(r.URL.Path, "/guests/"+itoa(f.guests[i].ID)+"/") {
				f.guests[i].CurrentDebt = 0
				f.guests[i].Active = false
				if f.guests[i].Room != nil {
					for j := range f.rooms {
						if f.rooms[j].Number == *f.guests[i].Room {
							f.rooms[j].Status = model.RoomCleaning
							f.rooms[j].Occupant = nil
						}
					}
				}
				writeOK(w, f.guests[i])
				return
			}
		}
		writeFail(w, http.StatusNotFound, "guest not found")
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeOK(w, f.orders)
	})
	mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeOK(w, f.rooms)
	})
	return mux
}

func itoa(id uint64) string { return strconv.FormatUint(id, 10) }

func writeOK(w http.ResponseWriter, data any) {
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeFail(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

func strPtr(s string) *string { return &s }

func newOrchestrator(t *testing.T, f *fakeDesk) *Orchestrator {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	api := billing.New(srv.URL, 2*time.Second)
	return NewOrchestrator(directory.New(api), room.NewRegistry(api), api)
}

func defaultDesk() *fakeDesk {
	return &fakeDesk{
		guests: []model.Guest{
			{ID: 1, Kind: model.GuestRegular, Name: "Ana", Room: strPtr("12"),
				WristbandUID: "NFC01", CurrentDebt: 5400, Active: true},
			{ID: 2, Kind: model.GuestDayPass, Name: "Bruno", WristbandUID: "NFC02",
				CurrentDebt: 700, Active: true},
		},
		rooms: []model.Room{
			{ID: 1, Number: "12", Status: model.RoomOccupied, Occupant: &model.RoomOccupant{ID: 1, Name: "Ana"}},
		},
		orders: []model.Order{
			{ID: 1, GuestID: 1, Product: "Cerveja Lata", Quantity: 2, Amount: 1600, Status: model.OrderDelivered},
		},
	}
}

func TestPreviewAmountDueIsLedgerDebt(t *testing.T) {
	f := defaultDesk()
	o := newOrchestrator(t, f)
	p, err := o.PreviewByWristband(context.Background(), "NFC01")
	if err != nil {
		t.Fatal(err)
	}
	if p.AmountDue != 5400 {
		t.Errorf("amount due = %d, want the ledger debt 5400", p.AmountDue)
	}
	if len(p.Orders) != 1 {
		t.Errorf("orders shown = %d, want 1", len(p.Orders))
	}
}

func TestPreviewInactiveGuest(t *testing.T) {
	f := defaultDesk()
	f.guests[0].Active = false
	o := newOrchestrator(t, f)
	// The wristband endpoint still resolves the record; preview rejects it.
	_, err := o.PreviewByWristband(context.Background(), "NFC01")
	if !errors.Is(err, billing.ErrGuestInactive) {
		t.Fatalf("expected ErrGuestInactive, got %v", err)
	}
}

func TestSettleRequiresMethod(t *testing.T) {
	o := newOrchestrator(t, defaultDesk())
	if _, err := o.Settle(context.Background(), 1, ""); !errors.Is(err, ErrSettlementRequired) {
		t.Fatalf("expected ErrSettlementRequired, got %v", err)
	}
	if _, err := o.Settle(context.Background(), 1, "CHEQUE"); !errors.Is(err, ErrSettlementRequired) {
		t.Fatalf("unknown method must be rejected, got %v", err)
	}
}

func TestSettleRoomGuest(t *testing.T) {
	f := defaultDesk()
	o := newOrchestrator(t, f)
	res, err := o.Settle(context.Background(), 1, model.PayPix)
	if err != nil {
		t.Fatal(err)
	}
	if res.AmountSettled != 5400 {
		t.Errorf("amount settled = %d, want 5400", res.AmountSettled)
	}
	if res.Guest.Active || res.Guest.CurrentDebt != 0 {
		t.Errorf("settled guest = %+v", res.Guest)
	}
	if res.Room == nil || res.Room.Status != model.RoomCleaning {
		t.Errorf("room after settlement = %+v, want CLEANING", res.Room)
	}
	if res.Settlement != model.PayPix {
		t.Errorf("settlement = %s", res.Settlement)
	}
}

func TestSettleDayPassGuestHasNoRoom(t *testing.T) {
	f := defaultDesk()
	o := newOrchestrator(t, f)
	res, err := o.Settle(context.Background(), 2, model.PayCash)
	if err != nil {
		t.Fatal(err)
	}
	if res.Room != nil {
		t.Errorf("day-pass settlement reported a room: %+v", res.Room)
	}
	if res.AmountSettled != 700 {
		t.Errorf("amount settled = %d, want 700", res.AmountSettled)
	}
}

func TestSettleAlreadyCheckedOut(t *testing.T) {
	f := defaultDesk()
	f.guests[0].Active = false
	o := newOrchestrator(t, f)
	_, err := o.Settle(context.Background(), 1, model.PayCash)
	if !errors.Is(err, billing.ErrGuestInactive) {
		t.Fatalf("expected ErrGuestInactive, got %v", err)
	}
}

func TestOccupantsMultiGuestRoom(t *testing.T) {
	f := defaultDesk()
	f.guests = append(f.guests, model.Guest{ID: 3, Name: "Carla", Room: strPtr("12"), Active: true})
	o := newOrchestrator(t, f)
	got, err := o.Occupants(context.Background(), "12")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("occupants = %d, want 2", len(got))
	}
}
