// Package billing talks to the remote guest-billing service.  This file
// defines the error taxonomy shared by the client and the orchestrators.
// Sentinel values let handlers distinguish failure scenarios the same way
// throughout the codebase; the typed errors carry the extra detail the
// operator needs (offending product, limit arithmetic).
package billing

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vilamar/hostelpos/internal/model"
)

// ErrNotFound is returned when a guest, product, room or order lookup
// misses.  Recoverable: the operator re-prompts.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned on a bad or missing manager PIN (or staff
// credential).  Recoverable: the PIN modal is re-opened with only the PIN
// field cleared.
var ErrUnauthorized = errors.New("unauthorized")

// ErrGuestInactive is returned when the guest was deactivated between
// selection and submission, e.g. checked out at another terminal.  Terminal
// for the current order; the guest must be re-resolved.
var ErrGuestInactive = errors.New("guest inactive")

// ErrNetwork wraps transport failures where no server response was
// received.  Safe to retry on operator request: no order lines were
// persisted on a path the client can observe.
var ErrNetwork = errors.New("network error")

// InsufficientStockError is returned when a requested quantity exceeds live
// stock, either during client-side revalidation or as reported by the
// server.  Product carries the offending item's name when it could be
// determined; Available is -1 when unknown.
type InsufficientStockError struct {
	Product   string
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Product == "" {
		return "insufficient stock"
	}
	if e.Available < 0 {
		return fmt.Sprintf("insufficient stock for %s", e.Product)
	}
	return fmt.Sprintf("insufficient stock for %s (available: %d)", e.Product, e.Available)
}

// LimitExceededError is returned when a day-pass guest's debt plus the cart
// total would exceed their spending limit.  Terminal for the current flow:
// the operator routes the guest to the front desk instead of retrying.
type LimitExceededError struct {
	Limit     model.Centavos
	Debt      model.Centavos
	Attempted model.Centavos
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("spending limit exceeded: debt %s + order %s over limit %s",
		e.Debt, e.Attempted, e.Limit)
}

// Available returns how much the guest could still have spent.
func (e *LimitExceededError) Available() model.Centavos {
	rem := e.Limit - e.Debt
	if rem < 0 {
		rem = 0
	}
	return rem
}

// stockNamePatterns pull the product name out of server stock-failure
// messages.  The service reports these in Portuguese ("X está sem estoque",
// "estoque insuficiente para X"); when none match, the error still
// classifies as insufficient stock with an empty product name.
var stockNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)estoque\s+insuficiente\s+para\s+([^.\n(]+)`),
	regexp.MustCompile(`(?i)([^.\n]+?)\s+(?:está\s+)?sem\s+estoque`),
	regexp.MustCompile(`(?i)insufficient\s+stock\s+for\s+([^.\n(]+)`),
}

func extractProductName(msg string) string {
	for _, re := range stockNamePatterns {
		if m := re.FindStringSubmatch(msg); len(m) == 2 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// classify maps a server-reported failure onto the taxonomy above.  The
// message takes precedence over the status code for the conditions the
// service only signals textually (stock, limit, inactive guest); anything
// unrecognized falls through to a generic error that preserves the original
// detail for diagnostics.
func classify(status int, msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "estoque") || strings.Contains(lower, "stock"):
		return &InsufficientStockError{Product: extractProductName(msg), Available: -1}
	case strings.Contains(lower, "limite") || strings.Contains(lower, "limit") ||
		strings.Contains(lower, "day use") || strings.Contains(lower, "day pass"):
		return &LimitExceededError{}
	case strings.Contains(lower, "inativo") || strings.Contains(lower, "inactive"):
		return ErrGuestInactive
	}
	switch status {
	case 404:
		return ErrNotFound
	case 401, 403:
		return ErrUnauthorized
	}
	if msg == "" {
		msg = fmt.Sprintf("billing service error (status %d)", status)
	}
	return fmt.Errorf("billing: %s (status %d)", msg, status)
}
