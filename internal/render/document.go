package render

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ledgerline/ledgerline/internal/customers"
	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/users"
)

// InvoiceDocument aggregates invoice data for PDF rendering.
type InvoiceDocument struct {
	// Header information
	ID        string
	Number    string
	IssueDate time.Time
	DueDate   time.Time
	Status    string

	// Parties
	Issuer    Party
	Recipient Party

	// Line items
	Lines []DocumentLine

	// Totals
	Subtotal       float64
	TaxRate        float64
	TaxAmount      float64
	DiscountRate   float64
	DiscountAmount float64
	Total          float64
	TotalPaid      float64
	Remaining      float64

	// Ledger and footer
	Payments []DocumentPayment
	Notes    *string
}

// Party identifies one side of the invoice.
type Party struct {
	Name    string
	Email   string
	Phone   *string
	Address []string
}

// DocumentLine represents a single billable row in the rendered invoice.
type DocumentLine struct {
	LineNumber  int
	Description string
	Quantity    float64
	Rate        float64
	Amount      float64
}

// DocumentPayment represents one ledger entry in the rendered invoice.
type DocumentPayment struct {
	PaidAt        time.Time
	Method        string
	TransactionID *string
	Amount        float64
}

// BuildDocument assembles the render payload from an invoice, its customer and
// the issuing user's profile.
func BuildDocument(detail invoices.InvoiceDetail, customer customers.Customer, issuer users.User) InvoiceDocument {
	doc := InvoiceDocument{
		ID:           detail.ID,
		Number:       detail.Number,
		IssueDate:    detail.IssueDate,
		DueDate:      detail.DueDate,
		Status:       string(detail.Status),
		Subtotal:     detail.Subtotal,
		TaxRate:      detail.TaxRate,
		DiscountRate: detail.DiscountRate,
		Total:        detail.Total,
		TotalPaid:    detail.TotalPaid,
		Remaining:    detail.Remaining,
		Notes:        detail.Notes,
	}
	doc.TaxAmount = detail.Subtotal * detail.TaxRate / 100
	doc.DiscountAmount = detail.Subtotal * detail.DiscountRate / 100

	doc.Issuer = Party{Name: issuer.Name, Email: issuer.Email}
	if c := issuer.Company; c != nil {
		if c.Name != nil {
			doc.Issuer.Name = *c.Name
		}
		if c.Email != nil {
			doc.Issuer.Email = *c.Email
		}
		doc.Issuer.Phone = c.Phone
		doc.Issuer.Address = addressLines(c.Address, c.Website)
	}

	doc.Recipient = Party{
		Name:  customer.Name,
		Email: customer.Email,
		Phone: customer.Phone,
		Address: addressLines(
			customer.Address.Street,
			customer.Address.City,
			customer.Address.State,
			customer.Address.ZipCode,
			customer.Address.Country,
		),
	}

	for i, item := range detail.Items {
		doc.Lines = append(doc.Lines, DocumentLine{
			LineNumber:  i + 1,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
		})
	}
	for _, p := range detail.Payments {
		doc.Payments = append(doc.Payments, DocumentPayment{
			PaidAt:        p.PaidAt,
			Method:        string(p.Method),
			TransactionID: p.TransactionID,
			Amount:        p.Amount,
		})
	}
	return doc
}

func addressLines(parts ...*string) []string {
	var lines []string
	for _, p := range parts {
		if p != nil && *p != "" {
			lines = append(lines, *p)
		}
	}
	return lines
}

// moneyPrinter groups digits the way an English locale invoice expects.
var moneyPrinter = message.NewPrinter(language.English)

func formatMoney(v float64) string {
	return moneyPrinter.Sprintf("%.2f", v)
}
