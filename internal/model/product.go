package model

import "time"

// Product is a purchasable item from the remote stock catalog.  The Stock
// field is authoritative only on the server; the copy carried here is the
// value observed at fetch time and must be re-fetched before any commit
// decision.
//
// Fields:
//
//	ID       – catalog identifier.
//	Name     – display name.
//	Price    – unit price in centavos, never negative.
//	Stock    – remaining quantity observed at fetch time.
//	Category – menu grouping (e.g. "BEBIDAS").
//	Sector   – preparing sector ("COZINHA", "BAR_PISCINA", "BOATE").
//	Visible  – whether the item may be newly added to a cart.  Lines
//	           already queued for a delisted product remain valid and are
//	           judged by live stock at submission.
type Product struct {
	ID       uint64   `json:"id"`
	Name     string   `json:"name"`
	Price    Centavos `json:"price"`
	Stock    int      `json:"stock"`
	Category string   `json:"category,omitempty"`
	Sector   string   `json:"sector,omitempty"`
	Visible  bool     `json:"visible"`
}

// StockSnapshot is a single-use, timestamped copy of the unfiltered product
// catalog, taken by StockCatalog.Refresh immediately before submission.
type StockSnapshot struct {
	Products  []Product
	FetchedAt time.Time
	byID      map[uint64]int
}

// NewStockSnapshot indexes the given products under the given fetch time.
func NewStockSnapshot(products []Product, fetchedAt time.Time) StockSnapshot {
	idx := make(map[uint64]int, len(products))
	for i, p := range products {
		idx[p.ID] = i
	}
	return StockSnapshot{Products: products, FetchedAt: fetchedAt, byID: idx}
}

// Lookup returns the product with the given ID, if present.
func (s StockSnapshot) Lookup(id uint64) (Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.Products[i], true
}

// Age returns how long ago the snapshot was taken.
func (s StockSnapshot) Age() time.Duration {
	return time.Since(s.FetchedAt)
}
