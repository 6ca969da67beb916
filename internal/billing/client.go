package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vilamar/hostelpos/internal/model"
)

// Client is the HTTP client for the remote billing service.  It owns the
// wire contract only; revalidation discipline and authorization policy live
// in the orchestrators above it.  Every call takes a context so UI flows
// can cancel in-flight requests without blocking the process.
type Client struct {
	base string
	http *http.Client
}

// New returns a Client for the service at baseURL.  The timeout bounds each
// individual call; an expired timeout surfaces as ErrNetwork and leaves
// cart and guest state untouched.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: timeout},
	}
}

// envelope is the standard response wrapper used by every endpoint of the
// billing API: {"success": bool, "data": ..., "error": "..."}.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// do issues the request and decodes the envelope into out.  Transport-level
// failures (no response) wrap ErrNetwork; server-reported failures are
// classified into the taxonomy in errors.go.
func (c *Client) do(ctx context.Context, method, path string, body any, header http.Header, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return classify(resp.StatusCode, "")
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return classify(resp.StatusCode, msg)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// AuthenticateStaff exchanges a staff PIN for the staff record.  A wrong
// PIN comes back as ErrUnauthorized.
func (c *Client) AuthenticateStaff(ctx context.Context, pin string) (model.Staff, error) {
	var st model.Staff
	err := c.do(ctx, http.MethodPost, "/staff/auth", map[string]string{"pin": pin}, nil, &st)
	return st, err
}

// GuestByWristband resolves a guest from a wristband UID.
func (c *Client) GuestByWristband(ctx context.Context, uid string) (model.Guest, error) {
	var g model.Guest
	err := c.do(ctx, http.MethodGet, "/guests/wristband/"+url.PathEscape(uid), nil, nil, &g)
	return g, err
}

// ActiveGuests returns every currently active guest.  Room and name
// resolution filter this list client-side, matching the service contract.
func (c *Client) ActiveGuests(ctx context.Context) ([]model.Guest, error) {
	var gs []model.Guest
	err := c.do(ctx, http.MethodGet, "/guests?active=true", nil, nil, &gs)
	return gs, err
}

// CheckInRequest creates a guest at the front desk.  RoomID is required for
// REGULAR guests; SpendingLimit only applies to DAY_PASS.
type CheckInRequest struct {
	Kind          model.GuestKind        `json:"kind"`
	Name          string                 `json:"name"`
	Document      string                 `json:"document,omitempty"`
	RoomID        uint64                 `json:"roomId,omitempty"`
	WristbandUID  string                 `json:"wristbandUid"`
	SpendingLimit *model.Centavos        `json:"spendingLimit,omitempty"`
	EntryAmount   model.Centavos         `json:"entryAmount,omitempty"`
	Settlement    model.SettlementMethod `json:"settlementMethod,omitempty"`
}

// CreateGuest performs check-in.  The service binds the wristband, marks
// the room OCCUPIED and returns the created guest.
func (c *Client) CreateGuest(ctx context.Context, req CheckInRequest) (model.Guest, error) {
	var g model.Guest
	err := c.do(ctx, http.MethodPost, "/guests", req, nil, &g)
	return g, err
}

// Checkout settles and deactivates the guest.  The service zeroes the debt,
// flips active to false and drives the room to CLEANING; the returned guest
// reflects that state.
func (c *Client) Checkout(ctx context.Context, guestID uint64, method model.SettlementMethod) (model.Guest, error) {
	var g model.Guest
	path := fmt.Sprintf("/guests/%d/checkout", guestID)
	err := c.do(ctx, http.MethodPatch, path, map[string]string{"settlementMethod": string(method)}, nil, &g)
	return g, err
}

// Products lists the catalog.  With visibleOnly the service returns only
// items eligible for new cart additions; without it the full list is
// returned for revalidation.
func (c *Client) Products(ctx context.Context, visibleOnly bool) ([]model.Product, error) {
	path := "/products"
	if visibleOnly {
		path += "?visible=true"
	}
	var ps []model.Product
	err := c.do(ctx, http.MethodGet, path, nil, nil, &ps)
	return ps, err
}

// SubmitRequest is one atomic order batch.  Exactly one of WristbandUID or
// GuestID identifies the guest; ManagerPin accompanies manual-tier
// submissions.  The staff PIN travels as a side-channel identity header and
// the idempotency key makes an operator-initiated retry of a failed
// submission safe against double charging.
type SubmitRequest struct {
	Items          []model.OrderLine `json:"items"`
	WristbandUID   string            `json:"wristbandUid,omitempty"`
	GuestID        uint64            `json:"guestId,omitempty"`
	ManagerPin     string            `json:"managerPin,omitempty"`
	StaffPin       string            `json:"-"`
	IdempotencyKey string            `json:"-"`
}

// SubmitOrders sends the whole batch as a single request and returns one
// persisted order per line.  On any failure no lines were persisted, so the
// operator may correct and retry.
func (c *Client) SubmitOrders(ctx context.Context, req SubmitRequest) ([]model.Order, error) {
	h := http.Header{}
	if req.StaffPin != "" {
		h.Set("X-Staff-Pin", req.StaffPin)
	}
	if req.IdempotencyKey != "" {
		h.Set("Idempotency-Key", req.IdempotencyKey)
	}
	var orders []model.Order
	err := c.do(ctx, http.MethodPost, "/orders", req, h, &orders)
	return orders, err
}

// OrdersByGuest returns the guest's order history, used as supporting
// detail at checkout.  The amount due is never re-derived from it.
func (c *Client) OrdersByGuest(ctx context.Context, guestID uint64) ([]model.Order, error) {
	var orders []model.Order
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders?guestId=%d", guestID), nil, nil, &orders)
	return orders, err
}

// CancelOrder cancels a single order.  Cancellation always requires manager
// authorization regardless of how the order was created.
func (c *Client) CancelOrder(ctx context.Context, orderID uint64, managerPin string) (model.Order, error) {
	var o model.Order
	path := fmt.Sprintf("/orders/%d", orderID)
	err := c.do(ctx, http.MethodDelete, path, map[string]string{"managerPin": managerPin}, nil, &o)
	return o, err
}

// Rooms returns the current room grid.
func (c *Client) Rooms(ctx context.Context) ([]model.Room, error) {
	var rs []model.Room
	err := c.do(ctx, http.MethodGet, "/rooms", nil, nil, &rs)
	return rs, err
}

// SetRoomStatus requests a room transition.  Callers re-fetch the grid
// afterwards instead of trusting the returned room alone.
func (c *Client) SetRoomStatus(ctx context.Context, roomID uint64, status model.RoomStatus) (model.Room, error) {
	var r model.Room
	path := fmt.Sprintf("/rooms/%d/status", roomID)
	err := c.do(ctx, http.MethodPatch, path, map[string]string{"status": string(status)}, nil, &r)
	return r, err
}
