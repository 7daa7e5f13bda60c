package invoices

import (
	"fmt"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// ErrInvalidLineItem rejects items with negative quantity or rate.
var ErrInvalidLineItem = fmt.Errorf("%w: line item quantity and rate must be non-negative", shared.ErrValidation)

// ErrInvalidRate rejects negative tax or discount percentages.
var ErrInvalidRate = fmt.Errorf("%w: tax and discount rates must be non-negative", shared.ErrValidation)

// Totals aggregates the monetary summary of an invoice.
type Totals struct {
	Subtotal       float64
	TaxAmount      float64
	DiscountAmount float64
	Total          float64
}

// ComputeTotals derives per-item amounts and the invoice totals from the item
// list and the two percentage rates. Caller-supplied amounts are ignored; the
// returned items carry amount = quantity * rate. Rates above 100 are allowed,
// negatives are not. An empty item list yields all-zero totals.
func ComputeTotals(items []LineItem, taxRate, discountRate float64) ([]LineItem, Totals, error) {
	if taxRate < 0 || discountRate < 0 {
		return nil, Totals{}, ErrInvalidRate
	}

	out := make([]LineItem, len(items))
	var subtotal float64
	for i, item := range items {
		if item.Quantity < 0 || item.Rate < 0 {
			return nil, Totals{}, ErrInvalidLineItem
		}
		item.Amount = item.Quantity * item.Rate
		out[i] = item
		subtotal += item.Amount
	}

	totals := Totals{
		Subtotal:       subtotal,
		TaxAmount:      subtotal * taxRate / 100,
		DiscountAmount: subtotal * discountRate / 100,
	}
	totals.Total = totals.Subtotal + totals.TaxAmount - totals.DiscountAmount
	return out, totals, nil
}
