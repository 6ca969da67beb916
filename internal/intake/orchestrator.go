package intake

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/vilamar/hostelpos/internal/billing"
	"github.com/vilamar/hostelpos/internal/cart"
	"github.com/vilamar/hostelpos/internal/catalog"
	"github.com/vilamar/hostelpos/internal/directory"
	"github.com/vilamar/hostelpos/internal/model"
)

// Orchestrator coordinates the pre-submission checklist and the atomic
// batch submission.  It never owns authoritative guest or stock state; it
// fetches snapshots immediately before each decision and discards them.
type Orchestrator struct {
	guests *directory.Directory
	stock  *catalog.Catalog
	api    *billing.Client
	policy Policy
}

// NewOrchestrator wires the orchestrator to its collaborators.
func NewOrchestrator(guests *directory.Directory, stock *catalog.Catalog, api *billing.Client) *Orchestrator {
	return &Orchestrator{guests: guests, stock: stock, api: api}
}

// Submission is one proposed purchase.  Guest is the previously selected
// record; it is treated as stale and re-fetched before any check.  StaffPin
// attributes the order to the submitting operator on every tier.
type Submission struct {
	Cart     *cart.Cart
	Mode     model.OperatorMode
	Auth     AuthContext
	Guest    model.Guest
	StaffPin string
}

// Receipt is the result of a committed submission.  Guest is the record as
// re-fetched after commit to reflect the new debt; it may equal the
// pre-commit snapshot when that best-effort refresh fails.
type Receipt struct {
	Orders []model.Order  `json:"orders"`
	Total  model.Centavos `json:"total"`
	Guest  model.Guest    `json:"guest"`
}

// Submit runs the checklist in order and submits the batch.  Any failure
// aborts before the network call (or surfaces the server's typed rejection)
// with the cart untouched; only a committed batch clears the cart.
func (o *Orchestrator) Submit(ctx context.Context, sub Submission) (*Receipt, error) {
	// 1. Cart must not be empty.
	if sub.Cart == nil || sub.Cart.Empty() {
		return nil, &ValidationError{Field: "cart", Reason: "empty"}
	}
	// 2. Tier rules: kiosk needs a scan, manual needs the override PIN.
	if err := o.policy.Check(sub.Mode, sub.Auth); err != nil {
		return nil, err
	}
	if sub.StaffPin == "" {
		return nil, &ValidationError{Field: "staffPin", Reason: "missing operator credential"}
	}

	// 3. Re-fetch the guest, discarding the cached copy.
	fresh, err := o.refetchGuest(ctx, sub)
	if err != nil {
		return nil, err
	}
	if !fresh.Guest.Active {
		return nil, billing.ErrGuestInactive
	}

	// 4. Re-fetch the catalog and judge every line by live stock.  A
	// product delisted mid-session is still accepted as long as stock
	// remains; one that vanished from the catalog entirely is not.
	snap, err := o.stock.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	sub.Cart.MergeStock(snap)
	var total model.Centavos
	for _, line := range sub.Cart.Lines() {
		p, ok := snap.Lookup(line.Product.ID)
		if !ok {
			return nil, &billing.InsufficientStockError{Product: line.Product.Name, Available: 0}
		}
		if line.Quantity > p.Stock {
			return nil, &billing.InsufficientStockError{Product: p.Name, Available: p.Stock}
		}
		total += p.Price * model.Centavos(line.Quantity)
	}

	// 5. Spending limit on fresh debt and revalidated total.  Equality is
	// allowed; one centavo over is not.
	if fresh.Guest.Limited() {
		limit := *fresh.Guest.SpendingLimit
		if fresh.Guest.CurrentDebt+total > limit {
			return nil, &billing.LimitExceededError{
				Limit:     limit,
				Debt:      fresh.Guest.CurrentDebt,
				Attempted: total,
			}
		}
	}

	// 6–7. Bundle and submit the whole batch atomically.  The idempotency
	// key makes an operator-initiated retry safe against double charges.
	req := billing.SubmitRequest{
		Items:          sub.Cart.Items(),
		StaffPin:       sub.StaffPin,
		IdempotencyKey: uuid.NewString(),
	}
	sub.Auth.apply(&req)
	orders, err := o.api.SubmitOrders(ctx, req)
	if err != nil {
		return nil, err
	}

	// 8. Reconcile: clear the cart, drop the display cache, and refresh the
	// guest once more so the receipt shows the new debt.  The refresh is
	// best-effort; the order is already committed.
	sub.Cart.Clear()
	o.stock.Invalidate()
	receipt := &Receipt{Orders: orders, Total: total, Guest: fresh.Guest}
	if after, err := o.guests.Refresh(ctx, fresh.Guest); err == nil {
		receipt.Guest = after.Guest
	} else {
		log.Printf("intake: post-commit guest refresh failed: %v", err)
	}
	return receipt, nil
}

// refetchGuest revalidates the guest through the path matching the tier.
func (o *Orchestrator) refetchGuest(ctx context.Context, sub Submission) (model.GuestSnapshot, error) {
	switch a := sub.Auth.(type) {
	case Wristband:
		return o.guests.ByWristband(ctx, a.UID)
	case Manual:
		stale := sub.Guest
		stale.ID = a.GuestID
		return o.guests.Refresh(ctx, stale)
	default:
		return model.GuestSnapshot{}, &ValidationError{Field: "authorization", Reason: "unknown context"}
	}
}
