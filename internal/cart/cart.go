// Package cart holds the client-side order draft for one operator session.
// Quantities are bounded by the stock value observed when the product was
// last fetched; the authoritative check against live stock happens in the
// intake orchestrator immediately before submission.
package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vilamar/hostelpos/internal/model"
)

// ErrNotVisible is returned when adding a product that is no longer listed
// for sale.  Lines already in the cart for such a product stay valid.
var ErrNotVisible = errors.New("product not available for sale")

// ErrNotInCart is returned by operations on a product the cart does not hold.
var ErrNotInCart = errors.New("product not in cart")

// StockBoundError is returned when an add or increment would push a line's
// quantity past the last-known stock of its product.
type StockBoundError struct {
	Product   string
	Available int
}

func (e *StockBoundError) Error() string {
	return fmt.Sprintf("only %d of %s available", e.Available, e.Product)
}

// Line is one (product, quantity) pair.  The embedded Product is the copy
// observed when the line was created or last merged with fresh data.
type Line struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
}

// Subtotal returns quantity times the line's last-known unit price.
func (l Line) Subtotal() model.Centavos {
	return l.Product.Price * model.Centavos(l.Quantity)
}

// Cart is a mutable, session-scoped collection of lines, unique per
// product.  All methods are safe for concurrent use; the cart is the only
// shared mutable state held across suspension points in a session.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// New returns an empty cart.
func New() *Cart { return &Cart{} }

// Add inserts a new line or raises the quantity of an existing one.  The
// product must be visible and the resulting quantity must not exceed its
// last-known stock.
func (c *Cart) Add(p model.Product, qty int) error {
	if qty < 1 {
		qty = 1
	}
	if !p.Visible {
		return ErrNotVisible
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			if c.lines[i].Quantity+qty > p.Stock {
				return &StockBoundError{Product: p.Name, Available: p.Stock}
			}
			c.lines[i].Product = p
			c.lines[i].Quantity += qty
			return nil
		}
	}
	if qty > p.Stock {
		return &StockBoundError{Product: p.Name, Available: p.Stock}
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: qty})
	return nil
}

// Increment raises a line's quantity by one, bounded by last-known stock.
func (c *Cart) Increment(productID uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			if c.lines[i].Quantity+1 > c.lines[i].Product.Stock {
				return &StockBoundError{
					Product:   c.lines[i].Product.Name,
					Available: c.lines[i].Product.Stock,
				}
			}
			c.lines[i].Quantity++
			return nil
		}
	}
	return ErrNotInCart
}

// Decrement lowers a line's quantity by one, floored at 1.  Removing the
// line entirely is a separate, explicit action.
func (c *Cart) Decrement(productID uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			if c.lines[i].Quantity > 1 {
				c.lines[i].Quantity--
			}
			return nil
		}
	}
	return ErrNotInCart
}

// Remove deletes a line.
func (c *Cart) Remove(productID uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return ErrNotInCart
}

// Lines returns a copy of the cart's lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Items returns the cart as order lines for submission.
func (c *Cart) Items() []model.OrderLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.OrderLine, len(c.lines))
	for i, l := range c.lines {
		out[i] = model.OrderLine{ProductID: l.Product.ID, Quantity: l.Quantity}
	}
	return out
}

// Total returns the sum of line subtotals at last-known prices.
func (c *Cart) Total() model.Centavos {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total model.Centavos
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Units returns the total quantity across all lines.
func (c *Cart) Units() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Clear removes every line.  Called only after a successful submission.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// MergeStock updates each line's product copy from a fresh catalog
// snapshot.  Quantities are left untouched; judging them against the new
// stock values is the orchestrator's job.  Products absent from the
// snapshot keep their stale copy.
func (c *Cart) MergeStock(snap model.StockSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if fresh, ok := snap.Lookup(c.lines[i].Product.ID); ok {
			c.lines[i].Product = fresh
		}
	}
}
