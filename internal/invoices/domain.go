package invoices

import "time"

// Status enumerates invoice lifecycle states.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// Method enumerates accepted payment methods.
type Method string

const (
	MethodUPI          Method = "upi"
	MethodBankTransfer Method = "bank_transfer"
	MethodCash         Method = "cash"
	MethodCard         Method = "card"
)

// Valid reports whether m is a known payment method.
func (m Method) Valid() bool {
	switch m {
	case MethodUPI, MethodBankTransfer, MethodCash, MethodCard:
		return true
	}
	return false
}

// LineItem is one billable row of an invoice. Amount is always derived as
// Quantity * Rate by the calculator, never taken from the caller.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// Invoice model. Subtotal and Total are maintained by the service: the stored
// values always satisfy subtotal == sum(items.amount) and
// total == subtotal + subtotal*tax/100 - subtotal*discount/100.
type Invoice struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"-"`
	CustomerID   string     `json:"customer_id"`
	Number       string     `json:"invoice_number"`
	IssueDate    time.Time  `json:"date"`
	DueDate      time.Time  `json:"due_date"`
	Items        []LineItem `json:"items"`
	Subtotal     float64    `json:"subtotal"`
	TaxRate      float64    `json:"tax"`
	DiscountRate float64    `json:"discount"`
	Total        float64    `json:"total"`
	Notes        *string    `json:"notes,omitempty"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Payment model. A payment belongs to exactly one invoice.
type Payment struct {
	ID            string    `json:"id"`
	InvoiceID     string    `json:"invoice_id"`
	Amount        float64   `json:"amount"`
	PaidAt        time.Time `json:"payment_date"`
	Method        Method    `json:"payment_method"`
	TransactionID *string   `json:"transaction_id,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InvoiceDetail is an invoice together with its payment ledger.
type InvoiceDetail struct {
	Invoice
	Payments  []Payment `json:"payments"`
	TotalPaid float64   `json:"total_paid"`
	Remaining float64   `json:"remaining"`
}
