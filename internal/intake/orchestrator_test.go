package intake

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/vilamar/hostelpos/internal/billing"
	"github.com/vilamar/hostelpos/internal/cart"
	"github.com/vilamar/hostelpos/internal/catalog"
	"github.com/vilamar/hostelpos/internal/directory"
	"github.com/vilamar/hostelpos/internal/model"
)

// fakeBilling is an in-memory billing service speaking the envelope
// contract.  Tests mutate guests and products between calls to simulate
// other terminals acting concurrently.
type fakeBilling struct {
	mu       sync.Mutex
	guests   []model.Guest
	products []model.Product
	orders   []model.Order
	requests int
	submits  int
	nextID   uint64
}

func (f *fakeBilling) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/guests/wristband/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests++
		uid := r.URL.Path[len("/guests/wristband/"):]
		for _, g := range f.guests {
			if g.WristbandUID == uid {
				writeOK(w, g)
				return
			}
		}
		writeFail(w, http.StatusNotFound, "guest not found")
	})
	mux.HandleFunc("/guests", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests++
		active := make([]model.Guest, 0, len(f.guests))
		for _, g := range f.guests {
			if g.Active {
				active = append(active, g)
			}
		}
		writeOK(w, active)
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests++
		writeOK(w, f.products)
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests++
		f.submits++
		var req struct {
			Items        []model.OrderLine `json:"items"`
			WristbandUID string            `json:"wristbandUid"`
			GuestID      uint64            `json:"guestId"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		var guest *model.Guest
		for i := range f.guests {
			if (req.WristbandUID != "" && f.guests[i].WristbandUID == req.WristbandUID) ||
				(req.GuestID != 0 && f.guests[i].ID == req.GuestID) {
				guest = &f.guests[i]
				break
			}
		}
		if guest == nil {
			writeFail(w, http.StatusNotFound, "guest not found")
			return
		}
		created := make([]model.Order, 0, len(req.Items))
		for _, item := range req.Items {
			for i := range f.products {
				if f.products[i].ID == item.ProductID {
					if item.Quantity > f.products[i].Stock {
						writeFail(w, http.StatusConflict, "Estoque insuficiente para "+f.products[i].Name)
						return
					}
					f.nextID++
					amount := f.products[i].Price * model.Centavos(item.Quantity)
					created = append(created, model.Order{
						ID: f.nextID, GuestID: guest.ID, ProductID: item.ProductID,
						Product: f.products[i].Name, Quantity: item.Quantity,
						Amount: amount, Status: model.OrderPending, CreatedAt: time.Now(),
					})
					guest.CurrentDebt += amount
					f.products[i].Stock -= item.Quantity
				}
			}
		}
		f.orders = append(f.orders, created...)
		writeOK(w, created)
	})
	return mux
}

func writeOK(w http.ResponseWriter, data any) {
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeFail(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

func (f *fakeBilling) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeBilling) setStock(productID uint64, stock int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == productID {
			f.products[i].Stock = stock
		}
	}
}

func (f *fakeBilling) deactivate(guestID uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.guests {
		if f.guests[i].ID == guestID {
			f.guests[i].Active = false
		}
	}
}

func limitPtr(v model.Centavos) *model.Centavos { return &v }

func newOrchestrator(t *testing.T, f *fakeBilling) *Orchestrator {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	api := billing.New(srv.URL, 2*time.Second)
	return NewOrchestrator(directory.New(api), catalog.New(api, 0), api)
}

func defaultFake() *fakeBilling {
	return &fakeBilling{
		guests: []model.Guest{
			{ID: 1, Kind: model.GuestRegular, Name: "Ana", WristbandUID: "NFC01", Active: true},
			{ID: 2, Kind: model.GuestDayPass, Name: "Bruno", WristbandUID: "NFC02",
				SpendingLimit: limitPtr(3000), CurrentDebt: 1000, Active: true},
		},
		products: []model.Product{
			{ID: 10, Name: "Cerveja Lata", Price: 800, Stock: 10, Visible: true},
			{ID: 11, Name: "Caipirinha", Price: 1500, Stock: 5, Visible: true},
		},
	}
}

func loadedCart(t *testing.T, f *fakeBilling, productID uint64, qty int) *cart.Cart {
	t.Helper()
	c := cart.New()
	for _, p := range f.products {
		if p.ID == productID {
			if err := c.Add(p, qty); err != nil {
				t.Fatal(err)
			}
			return c
		}
	}
	t.Fatalf("no product %d in fixture", productID)
	return nil
}

func TestSubmitWristbandSuccessClearsCart(t *testing.T) {
	f := defaultFake()
	o := newOrchestrator(t, f)
	c := loadedCart(t, f, 10, 2)

	receipt, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeGarcom,
		Auth: Wristband{UID: "NFC01"}, StaffPin: "4321",
	})
	if err != nil {
		t.Fatal(err)
	}
	if receipt.Total != 1600 {
		t.Errorf("total = %d, want 1600", receipt.Total)
	}
	if len(receipt.Orders) != 1 || receipt.Orders[0].Status != model.OrderPending {
		t.Errorf("orders = %+v", receipt.Orders)
	}
	if !c.Empty() {
		t.Error("cart must be cleared after a committed submission")
	}
	// The receipt shows the debt including this order.
	if receipt.Guest.CurrentDebt != 1600 {
		t.Errorf("receipt guest debt = %d, want 1600", receipt.Guest.CurrentDebt)
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	f := defaultFake()
	o := newOrchestrator(t, f)
	_, err := o.Submit(context.Background(), Submission{
		Cart: cart.New(), Mode: model.ModeGarcom,
		Auth: Wristband{UID: "NFC01"}, StaffPin: "4321",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "cart" {
		t.Fatalf("expected cart validation error, got %v", err)
	}
	if f.requestCount() != 0 {
		t.Error("empty cart must be rejected before any network call")
	}
}

func TestSubmitManualWithoutPinNoNetworkCalls(t *testing.T) {
	f := defaultFake()
	o := newOrchestrator(t, f)
	c := loadedCart(t, f, 10, 1)

	_, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeGarcom,
		Auth: Manual{GuestID: 1}, StaffPin: "4321",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "managerPin" {
		t.Fatalf("expected managerPin validation error, got %v", err)
	}
	if f.requestCount() != 0 {
		t.Errorf("manual tier without PIN made %d network calls, want 0", f.requestCount())
	}
	if c.Empty() {
		t.Error("rejected submission must preserve the cart")
	}
}

func TestSubmitKioskRejectsManualTier(t *testing.T) {
	f := defaultFake()
	o := newOrchestrator(t, f)
	c := loadedCart(t, f, 10, 1)

	_, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeKiosk,
		Auth: Manual{GuestID: 1, ManagerPin: "9999"}, StaffPin: "4321",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.requestCount() != 0 {
		t.Error("kiosk manual tier must be rejected locally")
	}
}

func TestSubmitMissingStaffPin(t *testing.T) {
	f := defaultFake()
	o := newOrchestrator(t, f)
	c := loadedCart(t, f, 10, 1)

	_, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeGarcom, Auth: Wristband{UID: "NFC01"},
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "staffPin" {
		t.Fatalf("expected staffPin validation error, got %v", err)
	}
}

func TestSubmitLimitBoundaryExactlyAtLimitPasses(t *testing.T) {
	// Debt 1000 + order 2000 == limit 3000: equality is allowed.
	f := defaultFake()
	o := newOrchestrator(t, f)
	c := cart.New()
	if err := c.Add(f.products[0], 1); err != nil { // 800
		t.Fatal(err)
	}
	if err := c.Add(model.Product{ID: 12, Name: "Porção", Price: 1200, Stock: 3, Visible: true}, 1); err != nil {
		t.Fatal(err)
	}
	f.mu.Lock()
	f.products = append(f.products, model.Product{ID: 12, Name: "Porção", Price: 1200, Stock: 3, Visible: true})
	f.mu.Unlock()

	receipt, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeGarcom,
		Auth: Wristband{UID: "NFC02"}, StaffPin: "4321",
	})
	if err != nil {
		t.Fatalf("order reaching the limit exactly must pass: %v", err)
	}
	if receipt.Total != 2000 {
		t.Errorf("total = %d, want 2000", receipt.Total)
	}
}

func TestSubmitLimitOneCentavoOverFails(t *testing.T) {
	f := defaultFake()
	f.products = append(f.products, model.Product{ID: 13, Name: "Refrigerante", Price: 2001, Stock: 3, Visible: true})
	o := newOrchestrator(t, f) // fixture mutated before the server starts
	c := loadedCart(t, f, 13, 1)

	_, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeGarcom,
		Auth: Wristband{UID: "NFC02"}, StaffPin: "4321",
	})
	var limitErr *billing.LimitExceededError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected LimitExceededError, got %v", err)
	}
	if limitErr.Limit != 3000 || limitErr.Debt != 1000 || limitErr.Attempted != 2001 {
		t.Errorf("limit arithmetic = %+v", limitErr)
	}
	if limitErr.Available() != 2000 {
		t.Errorf("available = %d, want 2000", limitErr.Available())
	}
	if c.Empty() {
		t.Error("rejected submission must preserve the cart")
	}
	if f.submits != 0 {
		t.Error("limit rejection must happen before the batch is sent")
	}
}

func TestSubmitLimitUsesFreshDebt(t *testing.T) {
	// Debt grew at another terminal after the guest was selected; the
	// check must run on the re-fetched value.
	f := defaultFake()
	o := newOrchestrator(t, f)
	c := loadedCart(t, f, 10, 1) // 800

	f.mu.Lock()
	f.guests[1].CurrentDebt = 2500 // selected copy said 1000
	f.mu.Unlock()

	_, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeGarcom,
		Auth:  Wristband{UID: "NFC02"},
		Guest: model.Guest{ID: 2, CurrentDebt: 1000}, StaffPin: "4321",
	})
	var limitErr *billing.LimitExceededError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected LimitExceededError on fresh debt, got %v", err)
	}
	if limitErr.Debt != 2500 {
		t.Errorf("limit check ran on stale debt %d", limitErr.Debt)
	}
}

func TestSubmitStockDroppedMidSession(t *testing.T) {
	f := defaultFake()
	o := newOrchestrator(t, f)
	c := loadedCart(t, f, 11, 3) // stock was 5 at add time

	f.setStock(11, 2)

	_, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeGarcom,
		Auth: Wristband{UID: "NFC01"}, StaffPin: "4321",
	})
	var stockErr *billing.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Product != "Caipirinha" || stockErr.Available != 2 {
		t.Errorf("stock detail = %+v", stockErr)
	}
	if f.submits != 0 {
		t.Error("stock rejection must happen before the batch is sent")
	}

	// The merge already refreshed the line's stock copy, so the operator
	// corrects the quantity and the resubmission commits.
	if err := c.Decrement(11); err != nil {
		t.Fatal(err)
	}
	receipt, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeGarcom,
		Auth: Wristband{UID: "NFC01"}, StaffPin: "4321",
	})
	if err != nil {
		t.Fatalf("corrected resubmission failed: %v", err)
	}
	if receipt.Total != 3000 {
		t.Errorf("total = %d, want 3000", receipt.Total)
	}
}

func TestSubmitProductVanishedFromCatalog(t *testing.T) {
	f := defaultFake()
	o := newOrchestrator(t, f)
	c := loadedCart(t, f, 11, 1)

	f.mu.Lock()
	f.products = f.products[:1] // Caipirinha removed entirely
	f.mu.Unlock()

	_, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeGarcom,
		Auth: Wristband{UID: "NFC01"}, StaffPin: "4321",
	})
	var stockErr *billing.InsufficientStockError
	if !errors.As(err, &stockErr) || stockErr.Available != 0 {
		t.Fatalf("expected zero-available stock error, got %v", err)
	}
}

func TestSubmitGuestDeactivatedMidFlow(t *testing.T) {
	f := defaultFake()
	o := newOrchestrator(t, f)
	c := loadedCart(t, f, 10, 1)

	f.deactivate(1)

	_, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeGarcom,
		Auth: Wristband{UID: "NFC01"}, StaffPin: "4321",
	})
	if !errors.Is(err, billing.ErrGuestInactive) {
		t.Fatalf("expected ErrGuestInactive, got %v", err)
	}
	if f.submits != 0 {
		t.Error("inactive guest must be caught before the batch is sent")
	}
	if c.Empty() {
		t.Error("rejected submission must preserve the cart")
	}
}

func TestSubmitManualTierCommits(t *testing.T) {
	f := defaultFake()
	o := newOrchestrator(t, f)
	c := loadedCart(t, f, 10, 1)

	receipt, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeGarcom,
		Auth:  Manual{GuestID: 1, ManagerPin: "9999"},
		Guest: model.Guest{ID: 1}, StaffPin: "4321",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(receipt.Orders) != 1 || receipt.Orders[0].GuestID != 1 {
		t.Errorf("orders = %+v", receipt.Orders)
	}
	if !c.Empty() {
		t.Error("cart must be cleared after commit")
	}
}

func TestSubmitUnknownWristband(t *testing.T) {
	f := defaultFake()
	o := newOrchestrator(t, f)
	c := loadedCart(t, f, 10, 1)

	_, err := o.Submit(context.Background(), Submission{
		Cart: c, Mode: model.ModeKiosk,
		Auth: Wristband{UID: "NFCXX"}, StaffPin: "4321",
	})
	if !errors.Is(err, billing.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
