// Package catalog exposes the remote stock catalog to the terminal.  The
// visible listing used to populate menus may be served from a short-lived
// in-process cache; Refresh never is, because orchestrators depend on it
// for the final pre-commit stock check.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/vilamar/hostelpos/internal/billing"
	"github.com/vilamar/hostelpos/internal/model"
)

// Catalog fetches product listings from the billing service.
type Catalog struct {
	api *billing.Client
	ttl time.Duration

	mu      sync.Mutex
	visible []model.Product
	fetched time.Time
}

// New returns a Catalog.  ttl bounds how long a visible listing may be
// reused for display; zero disables the cache entirely.
func New(api *billing.Client, ttl time.Duration) *Catalog {
	return &Catalog{api: api, ttl: ttl}
}

// ListVisible returns the items eligible for new cart additions.  A cached
// listing younger than the TTL may be served: display staleness is
// tolerable here because every order is revalidated against Refresh before
// commit.
func (c *Catalog) ListVisible(ctx context.Context) ([]model.Product, error) {
	c.mu.Lock()
	if c.ttl > 0 && c.visible != nil && time.Since(c.fetched) < c.ttl {
		cached := make([]model.Product, len(c.visible))
		copy(cached, c.visible)
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	products, err := c.api.Products(ctx, true)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.visible = products
	c.fetched = time.Now().UTC()
	c.mu.Unlock()
	return products, nil
}

// Refresh fetches the unfiltered catalog directly from the service and
// returns it as a single-use snapshot.  Orchestrators call this immediately
// before submission and merge the fresh stock and price values into pending
// cart lines, never trusting the cart's stale copy for the final check.
func (c *Catalog) Refresh(ctx context.Context) (model.StockSnapshot, error) {
	products, err := c.api.Products(ctx, false)
	if err != nil {
		return model.StockSnapshot{}, err
	}
	return model.NewStockSnapshot(products, time.Now().UTC()), nil
}

// Invalidate drops the visible cache, forcing the next listing to hit the
// service.  Called after a committed order changes stock.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.visible = nil
	c.mu.Unlock()
}
