package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/customers"
	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/users"
)

func strPtr(s string) *string { return &s }

func sampleDocument() InvoiceDocument {
	companyName := "Ledgerline Studio"
	detail := invoices.InvoiceDetail{
		Invoice: invoices.Invoice{
			ID:           "inv-1",
			Number:       "INV-001",
			IssueDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			DueDate:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Items: []invoices.LineItem{
				{Description: "Design work", Quantity: 10, Rate: 100, Amount: 1000},
				{Description: "Hosting", Quantity: 1, Rate: 200, Amount: 200},
			},
			Subtotal:     1200,
			TaxRate:      10,
			DiscountRate: 5,
			Total:        1260,
			Status:       invoices.StatusSent,
		},
		Payments: []invoices.Payment{
			{Amount: 500, Method: invoices.MethodBankTransfer, PaidAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), TransactionID: strPtr("TXN-42")},
		},
		TotalPaid: 500,
		Remaining: 760,
	}
	customer := customers.Customer{
		Name:  "Acme Corp",
		Email: "billing@acme.test",
		Address: customers.Address{
			Street: strPtr("1 Main St"),
			City:   strPtr("Springfield"),
		},
	}
	issuer := users.User{
		Name:    "Jordan",
		Email:   "jordan@example.test",
		Company: &users.Company{Name: &companyName},
	}
	return BuildDocument(detail, customer, issuer)
}

func TestBuildDocument(t *testing.T) {
	doc := sampleDocument()

	require.Equal(t, "INV-001", doc.Number)
	require.Equal(t, "Ledgerline Studio", doc.Issuer.Name)
	require.Equal(t, "Acme Corp", doc.Recipient.Name)
	require.Equal(t, []string{"1 Main St", "Springfield"}, doc.Recipient.Address)
	require.Equal(t, 120.0, doc.TaxAmount)
	require.Equal(t, 60.0, doc.DiscountAmount)
	require.Len(t, doc.Lines, 2)
	require.Equal(t, 1, doc.Lines[0].LineNumber)
	require.Len(t, doc.Payments, 1)
}

func TestBuildHTML(t *testing.T) {
	renderer, err := NewRenderer("http://gotenberg.test", nil)
	require.NoError(t, err)

	html, err := renderer.BuildHTML(sampleDocument())
	require.NoError(t, err)

	require.Contains(t, html, "INV-001")
	require.Contains(t, html, "Acme Corp")
	require.Contains(t, html, "Ledgerline Studio")
	require.Contains(t, html, "Design work")
	require.Contains(t, html, "1,260.00")
	require.Contains(t, html, "Tax (10%)")
	require.Contains(t, html, "bank transfer")
	require.Contains(t, html, "TXN-42")
	require.Contains(t, html, "March 1, 2024")
}

func TestRenderInvoice(t *testing.T) {
	var gotPath, gotContentType, gotPaperWidth string
	var gotFile bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			gotPaperWidth = r.FormValue("paperWidth")
			_, _, err := r.FormFile("files")
			gotFile = err == nil
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer srv.Close()

	renderer, err := NewRenderer(srv.URL, srv.Client())
	require.NoError(t, err)

	pdf, err := renderer.RenderInvoice(context.Background(), sampleDocument())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(pdf), "%PDF"))
	require.Equal(t, "/forms/chromium/convert/html", gotPath)
	require.True(t, strings.HasPrefix(gotContentType, "multipart/form-data"))
	require.Equal(t, "8.27", gotPaperWidth)
	require.True(t, gotFile)
}

func TestRenderInvoiceUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	renderer, err := NewRenderer(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = renderer.RenderInvoice(context.Background(), sampleDocument())
	require.Error(t, err)
	require.Contains(t, err.Error(), "gotenberg response 500")
}
