package invoices

import "time"

// LineItemRequest is one item row as supplied by the caller. Any amount the
// caller sends is discarded; amounts are always recomputed.
type LineItemRequest struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// CreateInvoiceRequest carries the fields accepted when creating an invoice.
type CreateInvoiceRequest struct {
	CustomerID   string            `json:"customer_id" validate:"required"`
	Number       string            `json:"invoice_number" validate:"required"`
	IssueDate    time.Time         `json:"date"`
	DueDate      time.Time         `json:"due_date"`
	Items        []LineItemRequest `json:"items" validate:"dive"`
	TaxRate      float64           `json:"tax"`
	DiscountRate float64           `json:"discount"`
	Notes        *string           `json:"notes"`
	Status       *Status           `json:"status"`
}

// UpdateInvoiceRequest is a presence-based partial update. A present Items
// slice replaces the item list wholesale and triggers total recomputation, as
// do present tax or discount rates. A present Status is an explicit override
// and bypasses ledger-driven status resolution.
type UpdateInvoiceRequest struct {
	CustomerID   *string            `json:"customer_id"`
	Number       *string            `json:"invoice_number"`
	IssueDate    *time.Time         `json:"date"`
	DueDate      *time.Time         `json:"due_date"`
	Items        *[]LineItemRequest `json:"items" validate:"omitempty,dive"`
	TaxRate      *float64           `json:"tax"`
	DiscountRate *float64           `json:"discount"`
	Notes        *string            `json:"notes"`
	Status       *Status            `json:"status"`
}

// CreatePaymentRequest records a payment against an invoice.
type CreatePaymentRequest struct {
	Amount        float64    `json:"amount"`
	PaidAt        *time.Time `json:"payment_date"`
	Method        Method     `json:"payment_method" validate:"required"`
	TransactionID *string    `json:"transaction_id"`
	Notes         *string    `json:"notes"`
}

func requestItems(reqs []LineItemRequest) []LineItem {
	items := make([]LineItem, len(reqs))
	for i, r := range reqs {
		items[i] = LineItem{
			Description: r.Description,
			Quantity:    r.Quantity,
			Rate:        r.Rate,
		}
	}
	return items
}
